package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/apperror"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/auth"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/policy"

	"github.com/gin-gonic/gin"
)

type taskRequest struct {
	Title       string              `json:"title" binding:"required,min=2,max=200" example:"Write release notes"`
	Description string              `json:"description" binding:"required,min=2" example:"Cover every merged PR"`
	Status      models.TaskStatus   `json:"status" binding:"required,oneof=pending inProgress completed" enums:"pending,inProgress,completed"`
	Priority    models.TaskPriority `json:"priority" binding:"required,oneof=high medium low" enums:"high,medium,low"`
	AssignedTo  int64               `json:"assigned_to" binding:"required" example:"2"`
	TeamID      int64               `json:"team_id" binding:"required" example:"1"`
}

func (r taskRequest) task() models.Task {
	return models.Task{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		AssignedTo:  r.AssignedTo,
		TeamID:      r.TeamID,
	}
}

type taskQuery struct {
	Status   models.TaskStatus   `form:"status" binding:"omitempty,oneof=pending inProgress completed"`
	Priority models.TaskPriority `form:"priority" binding:"omitempty,oneof=high medium low"`
}

// checkAssignment verifies the assignee and team exist and are linked.
func (h *Handler) checkAssignment(ctx context.Context, userID, teamID int64) error {
	if _, err := h.store.GetUserByID(ctx, userID); err != nil {
		return notFound(err, "User not found")
	}
	if _, err := h.store.GetTeam(ctx, teamID); err != nil {
		return notFound(err, "Team not found")
	}

	ok, err := h.store.IsTeamMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.New(fmt.Sprintf("User with ID %d not found in team with ID %d", userID, teamID))
	}
	return nil
}

// memberTeams returns the caller's team ids, skipping the lookup for admins.
func (h *Handler) memberTeams(ctx context.Context, p auth.Principal) ([]int64, error) {
	if p.IsAdmin() {
		return nil, nil
	}
	return h.store.UserTeamIDs(ctx, p.UserID)
}

// CreateTask godoc
// @Summary Create a task
// @Description The assignee must belong to the task's team
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param task body taskRequest true "New task"
// @Success 201 {object} models.Task
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /tasks [post]
func (h *Handler) CreateTask(c *gin.Context) {
	var req taskRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()

	if err := h.checkAssignment(ctx, req.AssignedTo, req.TeamID); err != nil {
		fail(c, err)
		return
	}

	task, err := h.store.CreateTask(ctx, req.task())
	if err != nil {
		fail(c, notFound(err, "User or team not found"))
		return
	}

	h.log.Infow("task created", "task_id", task.ID, "team_id", task.TeamID, "assigned_to", task.AssignedTo)
	c.JSON(http.StatusCreated, task)
}

// ListTasks godoc
// @Summary List tasks
// @Description Admins see every task; members see the tasks of their teams
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, inProgress, completed)
// @Param priority query string false "Filter by priority" Enums(high, medium, low)
// @Success 200 {array} models.Task
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /tasks [get]
func (h *Handler) ListTasks(c *gin.Context) {
	p, err := actor(c)
	if err != nil {
		fail(c, err)
		return
	}

	var q taskQuery
	if err := bindQuery(c, &q); err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()

	teams, err := h.memberTeams(ctx, p)
	if err != nil {
		fail(c, err)
		return
	}
	scope, err := policy.TaskScope(p, teams)
	if err != nil {
		fail(c, err)
		return
	}

	tasks, err := h.store.ListTasks(ctx, models.TaskFilter{
		TeamIDs:  scope,
		Status:   q.Status,
		Priority: q.Priority,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTask godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /tasks/{id} [get]
func (h *Handler) GetTask(c *gin.Context) {
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
	ctx := c.Request.Context()

	task, err := h.store.GetTask(ctx, id)
	if err != nil {
		fail(c, notFound(err, "Task not found"))
		return
	}

	teams, err := h.memberTeams(ctx, p)
	if err != nil {
		fail(c, err)
		return
	}
	if err := policy.CanViewTask(p, *task, teams); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask godoc
// @Summary Update a task
// @Description Members may only update tasks assigned to them
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param task body taskRequest true "Task fields"
// @Success 200 {object} models.Task
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /tasks/{id} [put]
func (h *Handler) UpdateTask(c *gin.Context) {
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

	var req taskRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()

	existing, err := h.store.GetTask(ctx, id)
	if err != nil {
		fail(c, notFound(err, "Task not found"))
		return
	}
	if err := policy.CanModifyTask(p, *existing); err != nil {
		fail(c, err)
		return
	}

	if err := h.checkAssignment(ctx, req.AssignedTo, req.TeamID); err != nil {
		fail(c, err)
		return
	}

	t := req.task()
	t.ID = id
	task, err := h.store.UpdateTask(ctx, t)
	if err != nil {
		fail(c, notFound(err, "Task not found"))
		return
	}

	h.log.Infow("task updated", "task_id", id, "actor_id", p.UserID)
	c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Description Members may only delete tasks assigned to them
// @Tags tasks
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 204
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *Handler) DeleteTask(c *gin.Context) {
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
	ctx := c.Request.Context()

	task, err := h.store.GetTask(ctx, id)
	if err != nil {
		fail(c, notFound(err, "Task not found"))
		return
	}
	if err := policy.CanModifyTask(p, *task); err != nil {
		fail(c, err)
		return
	}

	if err := h.store.DeleteTask(ctx, id); err != nil {
		fail(c, notFound(err, "Task not found"))
		return
	}

	h.log.Infow("task deleted", "task_id", id, "actor_id", p.UserID)
	c.Status(http.StatusNoContent)
}
