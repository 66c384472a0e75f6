package auth

import (
	"context"
	"testing"
	"time"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/config"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func newTestJWT() *JWT {
	return NewJWT(config.JWTConfig{Secret: "test-secret", TTL: time.Hour})
}

func TestGenerateAndValidateToken(t *testing.T) {
	j := newTestJWT()

	token, err := j.GenerateToken(42, models.RoleMember)
	require.NoError(t, err)

	p, err := j.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, Principal{UserID: 42, Role: models.RoleMember}, p)
	require.False(t, p.IsAdmin())
}

func TestValidateTokenExpired(t *testing.T) {
	j := newTestJWT()
	j.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := j.GenerateToken(1, models.RoleAdmin)
	require.NoError(t, err)

	_, err = newTestJWT().ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewJWT(config.JWTConfig{Secret: "other", TTL: time.Hour}).GenerateToken(1, models.RoleAdmin)
	require.NoError(t, err)

	_, err = newTestJWT().ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsBadClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"no exp", jwt.MapClaims{"sub": "1", "role": "admin"}},
		{"non numeric subject", jwt.MapClaims{"sub": "abc", "role": "admin", "exp": exp}},
		{"unknown role", jwt.MapClaims{"sub": "1", "role": "customer", "exp": exp}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString([]byte("test-secret"))
			require.NoError(t, err)

			_, err = newTestJWT().ValidateToken(token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{"sub": "1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = newTestJWT().ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	require.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{UserID: 7, Role: models.RoleAdmin})
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	require.True(t, p.IsAdmin())
	require.Equal(t, int64(7), p.UserID)
}
