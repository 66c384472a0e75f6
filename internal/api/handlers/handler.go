package handlers

import (
	"context"
	"errors"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/apperror"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/api/middleware"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/auth"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Store is the persistence the handlers need. *storage.Store satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, u models.User) (*models.User, error)

	CreateTeam(ctx context.Context, t models.Team) (*models.Team, error)
	GetTeam(ctx context.Context, id int64) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	UpdateTeam(ctx context.Context, t models.Team) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int64) error

	AddTeamMember(ctx context.Context, teamID, userID int64) (*models.TeamMember, error)
	IsTeamMember(ctx context.Context, teamID, userID int64) (bool, error)
	DeleteTeamMember(ctx context.Context, id int64) error
	UserTeamIDs(ctx context.Context, userID int64) ([]int64, error)

	CreateTask(ctx context.Context, t models.Task) (*models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	UpdateTask(ctx context.Context, t models.Task) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

var _ Store = (*storage.Store)(nil)

type TokenIssuer interface {
	GenerateToken(userID int64, role models.Role) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type Handler struct {
	store  Store
	tokens TokenIssuer
	hasher PasswordHasher
	log    *zap.SugaredLogger

	// compared against when the email is unknown so both login failures cost the same
	dummyHash string
}

func NewHandler(store Store, tokens TokenIssuer, hasher PasswordHasher, log *zap.SugaredLogger) *Handler {
	dummy, err := hasher.Hash("dummy-password")
	if err != nil {
		log.Warnw("failed to prepare dummy password hash", "error", err)
	}

	return &Handler{
		store:     store,
		tokens:    tokens,
		hasher:    hasher,
		log:       log.Named("handlers"),
		dummyHash: dummy,
	}
}

// fail hands err to the error translator.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

func actor(c *gin.Context) (auth.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return auth.Principal{}, apperror.Unauthorized("JWT token not found")
	}
	return p, nil
}

// notFound replaces storage.ErrNotFound with a 404 carrying message.
func notFound(err error, message string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperror.NotFound(message)
	}
	return err
}
