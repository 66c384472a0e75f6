package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/auth"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

type adminStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	UpdateUser(ctx context.Context, u models.User) (*models.User, error)
}

type adminInput struct {
	Name     string `validate:"required,min=2"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

var adminFlags adminInput

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account, or promote an existing user to admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := adminFlags
		if in.Password == "" {
			in.Password = os.Getenv("ADMIN_PASSWORD")
		}

		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		user, created, err := ensureAdmin(cmd.Context(), storage.NewStore(db, log), auth.NewHasher(cfg.JWT.BcryptCost), in)
		if err != nil {
			return err
		}
		log.Infow("admin ready", "user_id", user.ID, "email", user.Email, "created", created)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.Name, "name", "Admin", "display name")
	createAdminCmd.Flags().StringVar(&adminFlags.Email, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminFlags.Password, "password", "", "password (defaults to $ADMIN_PASSWORD)")
	_ = createAdminCmd.MarkFlagRequired("email")
}

// ensureAdmin creates an admin, or promotes and re-keys the user that already
// owns the email. It reports whether a new row was created.
func ensureAdmin(ctx context.Context, store adminStore, hasher *auth.Hasher, in adminInput) (*models.User, bool, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validator.New().Struct(in); err != nil {
		return nil, false, fmt.Errorf("invalid admin input: %w", err)
	}

	hashed, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, false, err
	}

	existing, err := store.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		existing.Role = models.RoleAdmin
		existing.Password = hashed
		user, err := store.UpdateUser(ctx, *existing)
		return user, false, err
	case !errors.Is(err, storage.ErrNotFound):
		return nil, false, err
	}

	user, err := store.CreateUser(ctx, models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Role:     models.RoleAdmin,
	})
	return user, true, err
}
