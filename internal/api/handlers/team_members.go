package handlers

import (
	"errors"
	"net/http"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/apperror"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/storage"

	"github.com/gin-gonic/gin"
)

var errAlreadyMember = apperror.New("User is already in the team")

type addTeamMemberRequest struct {
	TeamID       int64 `json:"teamId" binding:"required" example:"1"`
	TeamMemberID int64 `json:"teamMemberId" binding:"required" example:"2"`
}

type teamMemberResponse struct {
	Message string             `json:"message"`
	Member  *models.TeamMember `json:"member"`
}

// AddTeamMember godoc
// @Summary Add a user to a team
// @Tags teamsMembers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param member body addTeamMemberRequest true "Team and user ids"
// @Success 201 {object} teamMemberResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /teamsMembers [post]
func (h *Handler) AddTeamMember(c *gin.Context) {
	var req addTeamMemberRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.GetTeam(ctx, req.TeamID); err != nil {
		fail(c, notFound(err, "Team not found"))
		return
	}
	if _, err := h.store.GetUserByID(ctx, req.TeamMemberID); err != nil {
		fail(c, notFound(err, "User not found"))
		return
	}

	isMember, err := h.store.IsTeamMember(ctx, req.TeamID, req.TeamMemberID)
	if err != nil {
		fail(c, err)
		return
	}
	if isMember {
		fail(c, errAlreadyMember)
		return
	}

	member, err := h.store.AddTeamMember(ctx, req.TeamID, req.TeamMemberID)
	switch {
	case errors.Is(err, storage.ErrDuplicate):
		fail(c, errAlreadyMember)
		return
	case err != nil:
		fail(c, notFound(err, "Team or user not found"))
		return
	}

	h.log.Infow("team member added", "team_id", req.TeamID, "user_id", req.TeamMemberID)
	c.JSON(http.StatusCreated, teamMemberResponse{
		Message: "User added successfully to the team",
		Member:  member,
	})
}

// RemoveTeamMember godoc
// @Summary Remove a membership
// @Tags teamsMembers
// @Security BearerAuth
// @Param id path int true "Membership ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /teamsMembers/{id} [delete]
func (h *Handler) RemoveTeamMember(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.store.DeleteTeamMember(c.Request.Context(), id); err != nil {
		fail(c, notFound(err, "Membership not found"))
		return
	}

	c.Status(http.StatusNoContent)
}
