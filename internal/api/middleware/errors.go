package middleware

import (
	"errors"
	"net/http"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Message string              `json:"message"`
	Issues  map[string][]string `json:"issues,omitempty"`
}

// ErrorHandler renders the last error attached to the context. Domain and
// validation errors keep their message; anything else becomes a generic 500
// and is only logged.
func ErrorHandler(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := Translate(err)
		if status == http.StatusInternalServerError {
			log.Errorw("unhandled error",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"request_id", c.GetString(RequestIDKey),
				"error", err,
			)
		}
		c.AbortWithStatusJSON(status, body)
	}
}

// Translate maps an error onto a status code and response body.
func Translate(err error) (int, ErrorResponse) {
	var vErr *apperror.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, ErrorResponse{Message: vErr.Error(), Issues: vErr.Issues}
	}

	if appErr, ok := apperror.As(err); ok {
		return appErr.StatusCode, ErrorResponse{Message: appErr.Message}
	}
	return http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"}
}

// Recovery turns panics into a logged 500.
func Recovery(log *zap.SugaredLogger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		log.Errorw("panic recovered",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(RequestIDKey),
			"panic", recovered,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	})
}
