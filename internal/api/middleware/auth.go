package middleware

import (
	"strings"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/apperror"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/auth"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// TokenValidator decodes a bearer token into the caller's identity.
type TokenValidator interface {
	ValidateToken(token string) (auth.Principal, error)
}

// Authenticate requires a valid bearer token and stores the decoded
// principal on the gin context and on the request context.
func Authenticate(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperror.Unauthorized("JWT token not found"))
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abort(c, apperror.Unauthorized("Invalid authorization header"))
			return
		}

		p, err := tokens.ValidateToken(token)
		if err != nil {
			abort(c, apperror.Unauthorized("Invalid JWT token"))
			return
		}

		c.Set(principalKey, p)
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// Authorize lets the request through only when the caller's role is in roles.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			abort(c, apperror.Unauthorized("JWT token not found"))
			return
		}

		for _, role := range roles {
			if p.Role == role {
				c.Next()
				return
			}
		}
		abort(c, apperror.Forbidden("Unauthorized"))
	}
}

func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
