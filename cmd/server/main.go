// cmd/server/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/docs" // Required for Swagger
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/api"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/api/middleware"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/auth"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/config"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/logger"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/ratelimit"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title           Gerenciador de Tarefas API
// @version         1.0
// @description     API for managing users, teams, team membership and tasks

// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                         header
// @name                       Authorization

var (
	cfg *config.Config
	log *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Team and task management API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		log, err = logger.New(cfg.Logging.Level, cfg.IsDevelopment())
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply migrations and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if log != nil {
			log.Errorw("command failed", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func storageConfig(c *config.Config) storage.Config {
	return storage.Config{
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		User:            c.Database.User,
		Password:        c.Database.Password,
		DBName:          c.Database.DBName,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
	}
}

// openDatabase creates the database if needed, connects and migrates it.
func openDatabase(ctx context.Context) (*sql.DB, error) {
	dbConfig := storageConfig(cfg)

	if err := storage.EnsureDatabase(ctx, dbConfig); err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	db, err := storage.NewDB(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := storage.RunMigrations(ctx, db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func serve(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)

	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	var limiter middleware.Limiter
	if cfg.Redis.URL != "" {
		rateLimiter, err := ratelimit.NewRateLimiter(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to initialize rate limiter: %w", err)
		}
		defer rateLimiter.Close()
		limiter = rateLimiter
	} else {
		log.Warnw("REDIS_URL not set, rate limiting disabled")
	}

	router := api.SetupRouter(api.Dependencies{
		Store:          storage.NewStore(db, log),
		Tokens:         auth.NewJWT(cfg.JWT),
		Hasher:         auth.NewHasher(cfg.JWT.BcryptCost),
		Limiter:        limiter,
		AuthRateLimit:  cfg.RateLimit.Auth,
		TrustedProxies: cfg.Server.TrustedProxies,
		Log:            log,
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		if cfg.IsDevelopment() {
			log.Infof("Server starting on http://localhost%s", srv.Addr)
			log.Infof("Swagger UI available at http://localhost%s/swagger/index.html", srv.Addr)
		} else {
			log.Infow("server starting", "addr", srv.Addr)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
