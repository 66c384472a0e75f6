package handlers

import (
	"net/http"
	"strings"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"

	"github.com/gin-gonic/gin"
)

type teamRequest struct {
	Name        string  `json:"name" binding:"required,trimmin=2" example:"Backend"`
	Description *string `json:"description" example:"Services and APIs"`
}

func (r teamRequest) team() models.Team {
	return models.Team{Name: strings.TrimSpace(r.Name), Description: r.Description}
}

// CreateTeam godoc
// @Summary Create a team
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param team body teamRequest true "New team"
// @Success 201 {object} models.Team
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /teams [post]
func (h *Handler) CreateTeam(c *gin.Context) {
	var req teamRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	team, err := h.store.CreateTeam(c.Request.Context(), req.team())
	if err != nil {
		fail(c, err)
		return
	}

	h.log.Infow("team created", "team_id", team.ID)
	c.JSON(http.StatusCreated, team)
}

// ListTeams godoc
// @Summary List teams with their members
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Team
// @Failure 401 {object} middleware.ErrorResponse
// @Router /teams [get]
func (h *Handler) ListTeams(c *gin.Context) {
	teams, err := h.store.ListTeams(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// UpdateTeam godoc
// @Summary Update a team
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param team body teamRequest true "Team fields"
// @Success 200 {object} models.Team
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /teams/{id} [put]
func (h *Handler) UpdateTeam(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	var req teamRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	t := req.team()
	t.ID = id
	team, err := h.store.UpdateTeam(c.Request.Context(), t)
	if err != nil {
		fail(c, notFound(err, "Team not found"))
		return
	}

	c.JSON(http.StatusOK, team)
}

// DeleteTeam godoc
// @Summary Delete a team
// @Description Removes the team together with its memberships and tasks
// @Tags teams
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /teams/{id} [delete]
func (h *Handler) DeleteTeam(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.store.DeleteTeam(c.Request.Context(), id); err != nil {
		fail(c, notFound(err, "Team not found"))
		return
	}

	h.log.Infow("team deleted", "team_id", id)
	c.Status(http.StatusNoContent)
}
