package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTranslate(t *testing.T) {
	validation := apperror.NewValidation()
	validation.Add("email", "Invalid email")

	tests := []struct {
		name   string
		err    error
		status int
		body   ErrorResponse
	}{
		{
			name:   "domain default",
			err:    apperror.New("User with same email already exists!"),
			status: http.StatusBadRequest,
			body:   ErrorResponse{Message: "User with same email already exists!"},
		},
		{
			name:   "domain wrapped",
			err:    fmt.Errorf("create task: %w", apperror.NotFound("Team not found")),
			status: http.StatusNotFound,
			body:   ErrorResponse{Message: "Team not found"},
		},
		{
			name:   "validation",
			err:    validation,
			status: http.StatusBadRequest,
			body:   ErrorResponse{Message: "validation error", Issues: map[string][]string{"email": {"Invalid email"}}},
		},
		{
			name:   "unhandled",
			err:    errors.New("dial tcp 10.0.0.1:3306: connection refused"),
			status: http.StatusInternalServerError,
			body:   ErrorResponse{Message: "Internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := Translate(tt.err)
			require.Equal(t, tt.status, status)
			require.Equal(t, tt.body, body)
		})
	}
}

func TestErrorHandlerHidesAndLogsUnhandledErrors(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	r := gin.New()
	r.Use(RequestID(), ErrorHandler(zap.New(core).Sugar()))
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("secret connection string leaked"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "secret")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "unhandled error", entry.Message)
	require.NotEmpty(t, entry.ContextMap()["request_id"])
}

func TestErrorHandlerLeavesWrittenResponses(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop().Sugar()))
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"id": 1})
		_ = c.Error(errors.New("late"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.JSONEq(t, `{"id":1}`, rec.Body.String())
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	r := gin.New()
	r.Use(Recovery(zap.New(core).Sugar()))
	r.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
	require.Equal(t, 1, logs.Len())
}
