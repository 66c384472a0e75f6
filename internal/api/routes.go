// internal/api/routes.go
package api

import (
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/api/handlers"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/api/middleware"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Dependencies struct {
	Store  handlers.Store
	Tokens interface {
		handlers.TokenIssuer
		middleware.TokenValidator
	}
	Hasher handlers.PasswordHasher
	Log    *zap.SugaredLogger

	// Limiter may be nil, which disables rate limiting.
	Limiter       middleware.Limiter
	AuthRateLimit int

	// TrustedProxies may set X-Forwarded-For. Empty trusts no proxy.
	TrustedProxies []string
}

func SetupRouter(deps Dependencies) *gin.Engine {
	handlers.RegisterValidators()

	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies(deps.TrustedProxies)); err != nil {
		deps.Log.Errorw("invalid trusted proxies, trusting none", "proxies", deps.TrustedProxies, "error", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(deps.Log),
		middleware.RequestLogger(deps.Log.Named("http")),
		middleware.ErrorHandler(deps.Log.Named("errors")),
	)

	h := handlers.NewHandler(deps.Store, deps.Tokens, deps.Hasher, deps.Log)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/healthz", h.Health)

	authenticated := middleware.Authenticate(deps.Tokens)
	adminOnly := middleware.Authorize(models.RoleAdmin)
	anyRole := middleware.Authorize(models.RoleAdmin, models.RoleMember)

	sessions := router.Group("/sessions")
	{
		sessions.POST("", middleware.AuthRateLimit(deps.Limiter, deps.Log, deps.AuthRateLimit), h.CreateSession)
	}

	users := router.Group("/users", authenticated)
	{
		users.POST("", adminOnly, h.CreateUser)
		users.GET("", adminOnly, h.ListUsers)
		users.PUT("/:id", anyRole, h.UpdateUser)
	}

	teams := router.Group("/teams", authenticated)
	{
		teams.POST("", adminOnly, h.CreateTeam)
		teams.GET("", anyRole, h.ListTeams)
		teams.PUT("/:id", adminOnly, h.UpdateTeam)
		teams.DELETE("/:id", adminOnly, h.DeleteTeam)
	}

	teamsMembers := router.Group("/teamsMembers", authenticated, adminOnly)
	{
		teamsMembers.POST("", h.AddTeamMember)
		teamsMembers.DELETE("/:id", h.RemoveTeamMember)
	}

	tasks := router.Group("/tasks", authenticated)
	{
		tasks.POST("", adminOnly, h.CreateTask)
		tasks.GET("", anyRole, h.ListTasks)
		tasks.GET("/:id", anyRole, h.GetTask)
		tasks.PUT("/:id", anyRole, h.UpdateTask)
		tasks.DELETE("/:id", anyRole, h.DeleteTask)
	}

	return router
}

func trustedProxies(proxies []string) []string {
	if len(proxies) == 0 {
		return nil
	}
	return proxies
}
