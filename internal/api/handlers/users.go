package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/apperror"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/policy"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/storage"

	"github.com/gin-gonic/gin"
)

var errEmailTaken = apperror.New("User with same email already exists!")

type createUserRequest struct {
	Name     string `json:"name" binding:"required,trimmin=2" example:"Maria"`
	Email    string `json:"email" binding:"required,email" example:"maria@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"password123"`
}

type updateUserRequest struct {
	Name     *string      `json:"name" binding:"omitempty,trimmin=2"`
	Email    *string      `json:"email" binding:"omitempty,email"`
	Password *string      `json:"password" binding:"omitempty,min=6"`
	Role     *models.Role `json:"role" binding:"omitempty,oneof=admin member" enums:"admin,member"`
}

// CreateUser godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body createUserRequest true "New user"
// @Success 201 {object} models.User
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()

	_, err := h.store.GetUserByEmail(ctx, req.Email)
	if err == nil {
		fail(c, errEmailTaken)
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		fail(c, err)
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.store.CreateUser(ctx, models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: hashed,
		Role:     models.RoleMember,
	})
	if errors.Is(err, storage.ErrDuplicate) {
		fail(c, errEmailTaken)
		return
	} else if err != nil {
		fail(c, err)
		return
	}

	h.log.Infow("user created", "user_id", user.ID)
	c.JSON(http.StatusCreated, user)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser godoc
// @Summary Update a user
// @Description Members may update their own profile except the role; admins may update anyone
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param user body updateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	p, err := actor(c)
	if err != nil {
		fail(c, err)
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	if err := policy.CanUpdateUser(p, id, false); err != nil {
		fail(c, err)
		return
	}

	var req updateUserRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	if err := policy.CanUpdateUser(p, id, req.Role != nil); err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()

	user, err := h.store.GetUserByID(ctx, id)
	if err != nil {
		fail(c, notFound(err, "User not found"))
		return
	}

	if req.Email != nil {
		// emails compare case-insensitively, so the match may be the user itself
		owner, err := h.store.GetUserByEmail(ctx, *req.Email)
		switch {
		case err == nil && owner.ID != user.ID:
			fail(c, errEmailTaken)
			return
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			fail(c, err)
			return
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Password != nil {
		hashed, err := h.hasher.Hash(*req.Password)
		if err != nil {
			fail(c, err)
			return
		}
		user.Password = hashed
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	updated, err := h.store.UpdateUser(ctx, *user)
	switch {
	case errors.Is(err, storage.ErrDuplicate):
		fail(c, errEmailTaken)
		return
	case err != nil:
		fail(c, notFound(err, "User not found"))
		return
	}

	h.log.Infow("user updated", "user_id", id, "actor_id", p.UserID)
	c.JSON(http.StatusOK, updated)
}
