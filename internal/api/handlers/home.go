package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary Health check
// @Description Reports whether the API can reach its database
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,server=string}
// @Failure 503 {object} object{status=string,server=string}
// @Router /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"server": "gerenciador-de-tarefas-api",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"server": "gerenciador-de-tarefas-api",
	})
}
