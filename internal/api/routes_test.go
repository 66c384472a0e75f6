package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/api/middleware"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/auth"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/config"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminID  int64 = 1
	memberID int64 = 7
)

type testServer struct {
	router *gin.Engine
	store  *storeMock
	jwt    *auth.JWT
	hasher *auth.Hasher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		store:  &storeMock{},
		jwt:    auth.NewJWT(config.JWTConfig{Secret: "test-secret", TTL: time.Hour}),
		hasher: auth.NewHasher(bcrypt.MinCost),
	}
	s.router = SetupRouter(Dependencies{
		Store:  s.store,
		Tokens: s.jwt,
		Hasher: s.hasher,
		Log:    zap.NewNop().Sugar(),
	})
	t.Cleanup(func() { s.store.AssertExpectations(t) })
	return s
}

func (s *testServer) token(t *testing.T, id int64, role models.Role) string {
	t.Helper()
	token, err := s.jwt.GenerateToken(id, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) asAdmin(t *testing.T) string  { return s.token(t, adminID, models.RoleAdmin) }
func (s *testServer) asMember(t *testing.T) string { return s.token(t, memberID, models.RoleMember) }

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) middleware.ErrorResponse {
	t.Helper()
	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRoutesRequireAuthentication(t *testing.T) {
	s := newTestServer(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/users"},
		{http.MethodGet, "/users"},
		{http.MethodPut, "/users/1"},
		{http.MethodPost, "/teams"},
		{http.MethodGet, "/teams"},
		{http.MethodPut, "/teams/1"},
		{http.MethodDelete, "/teams/1"},
		{http.MethodPost, "/teamsMembers"},
		{http.MethodDelete, "/teamsMembers/1"},
		{http.MethodPost, "/tasks"},
		{http.MethodGet, "/tasks"},
		{http.MethodGet, "/tasks/1"},
		{http.MethodPut, "/tasks/1"},
		{http.MethodDelete, "/tasks/1"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := s.do(t, rt.method, rt.path, "", nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, "JWT token not found", errorBody(t, rec).Message)
		})
	}
}

func TestAdminOnlyRoutesRejectMembers(t *testing.T) {
	s := newTestServer(t)
	token := s.asMember(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/users"},
		{http.MethodGet, "/users"},
		{http.MethodPost, "/teams"},
		{http.MethodPut, "/teams/1"},
		{http.MethodDelete, "/teams/1"},
		{http.MethodPost, "/teamsMembers"},
		{http.MethodDelete, "/teamsMembers/1"},
		{http.MethodPost, "/tasks"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := s.do(t, rt.method, rt.path, token, nil)
			require.Equal(t, http.StatusForbidden, rec.Code)
			require.Equal(t, "Unauthorized", errorBody(t, rec).Message)
		})
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	s.store.On("Ping", mock.Anything).Return(nil).Once()

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
	require.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestHealthDatabaseDown(t *testing.T) {
	s := newTestServer(t)
	s.store.On("Ping", mock.Anything).Return(errDB).Once()

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type keyRecorder struct{ keys []string }

func (l *keyRecorder) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, int, error) {
	l.keys = append(l.keys, key)
	return true, 1, nil
}

func sessionsClientKey(t *testing.T, proxies []string, remoteAddr, forwardedFor string) string {
	t.Helper()

	store := &storeMock{}
	store.On("GetUserByEmail", mock.Anything, mock.Anything).Return(nil, storage.ErrNotFound)
	limiter := &keyRecorder{}

	router := SetupRouter(Dependencies{
		Store:          store,
		Tokens:         auth.NewJWT(config.JWTConfig{Secret: "test-secret", TTL: time.Hour}),
		Hasher:         auth.NewHasher(bcrypt.MinCost),
		Log:            zap.NewNop().Sugar(),
		Limiter:        limiter,
		AuthRateLimit:  5,
		TrustedProxies: proxies,
	})

	req := httptest.NewRequest(http.MethodPost, "/sessions",
		bytes.NewBufferString(`{"email":"a@example.com","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, limiter.keys, 1)
	return limiter.keys[0]
}

func TestSessionRateLimitKeysOnPeerByDefault(t *testing.T) {
	first := sessionsClientKey(t, nil, "203.0.113.9:40000", "1.1.1.1")
	second := sessionsClientKey(t, nil, "203.0.113.9:40001", "2.2.2.2")

	require.Equal(t, "auth:203.0.113.9", first)
	require.Equal(t, first, second)
}

func TestSessionRateLimitHonoursTrustedProxy(t *testing.T) {
	key := sessionsClientKey(t, []string{"10.0.0.0/8"}, "10.1.2.3:40000", "198.51.100.7")
	require.Equal(t, "auth:198.51.100.7", key)
}
