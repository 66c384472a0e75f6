package handlers

import (
	"errors"
	"net/http"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/apperror"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/storage"

	"github.com/gin-gonic/gin"
)

var errInvalidCredentials = apperror.Unauthorized("Invalid email or password!")

type createSessionRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"password123"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// CreateSession godoc
// @Summary Login
// @Description Authenticate with email and password and receive a JWT
// @Tags sessions
// @Accept json
// @Produce json
// @Param credentials body createSessionRequest true "Login credentials"
// @Success 200 {object} sessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 429 {object} middleware.ErrorResponse
// @Router /sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		h.hasher.Compare(h.dummyHash, req.Password)
		fail(c, errInvalidCredentials)
		return
	} else if err != nil {
		fail(c, err)
		return
	}

	if !h.hasher.Compare(user.Password, req.Password) {
		fail(c, errInvalidCredentials)
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		fail(c, err)
		return
	}

	h.log.Infow("session created", "user_id", user.ID)
	c.JSON(http.StatusOK, sessionResponse{Token: token, User: user})
}
