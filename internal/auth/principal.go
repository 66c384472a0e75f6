package auth

import (
	"context"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"
)

// Principal is the authenticated caller decoded from a session token.
type Principal struct {
	UserID int64
	Role   models.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
