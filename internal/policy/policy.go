// Package policy holds the role rules for each action, kept apart from the
// handlers so they can be tested in isolation.
package policy

import (
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/apperror"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/auth"
	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"
)

var (
	ErrNotSelf       = apperror.Forbidden("You are not authorized to perform this action!")
	ErrRoleChange    = apperror.Forbidden("Only admins can change user roles!")
	ErrNotTaskOwner  = apperror.Forbidden("You can only edit your own tasks")
	ErrNoTeams       = apperror.Forbidden("User does not belong to any team")
	ErrTaskNotInTeam = apperror.Forbidden("You can only view tasks of your teams")
)

// CanUpdateUser allows admins everything; members may only edit their own
// profile and never their role.
func CanUpdateUser(actor auth.Principal, targetID int64, changesRole bool) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.UserID != targetID {
		return ErrNotSelf
	}
	if changesRole {
		return ErrRoleChange
	}
	return nil
}

// CanModifyTask gates update and delete.
func CanModifyTask(actor auth.Principal, task models.Task) error {
	if actor.IsAdmin() {
		return nil
	}
	if task.AssignedTo != actor.UserID {
		return ErrNotTaskOwner
	}
	return nil
}

// TaskScope returns the team ids a listing must be restricted to. A nil
// slice means no restriction.
func TaskScope(actor auth.Principal, memberOf []int64) ([]int64, error) {
	if actor.IsAdmin() {
		return nil, nil
	}
	if len(memberOf) == 0 {
		return nil, ErrNoTeams
	}
	return memberOf, nil
}

func CanViewTask(actor auth.Principal, task models.Task, memberOf []int64) error {
	if actor.IsAdmin() || task.AssignedTo == actor.UserID {
		return nil
	}
	for _, id := range memberOf {
		if id == task.TeamID {
			return nil
		}
	}
	return ErrTaskNotInTeam
}
