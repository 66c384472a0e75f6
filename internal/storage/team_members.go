package storage

import (
	"context"
	"fmt"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"
)

// AddTeamMember links a user to a team. An existing pair yields ErrDuplicate.
func (s *Store) AddTeamMember(ctx context.Context, teamID, userID int64) (*models.TeamMember, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO team_members (team_id, user_id) VALUES (?, ?)`, teamID, userID)
	if err != nil {
		return nil, fmt.Errorf("insert team member: %w", translate(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert team member: %w", err)
	}

	var m models.TeamMember
	err = s.db.QueryRowContext(ctx, `
        SELECT id, team_id, user_id, created_at
        FROM team_members
        WHERE id = ?`, id).Scan(&m.ID, &m.TeamID, &m.UserID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get team member %d: %w", id, translate(err))
	}
	return &m, nil
}

func (s *Store) IsTeamMember(ctx context.Context, teamID, userID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = ? AND user_id = ?)`,
		teamID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check team member: %w", err)
	}
	return exists, nil
}

// DeleteTeamMember removes a membership by its own id.
func (s *Store) DeleteTeamMember(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete team member %d: %w", id, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("delete team member %d: %w", id, err)
	}
	return nil
}

// UserTeamIDs lists the ids of the teams userID belongs to.
func (s *Store) UserTeamIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT team_id FROM team_members WHERE user_id = ? ORDER BY team_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user teams: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan team id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
