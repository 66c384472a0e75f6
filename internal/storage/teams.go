package storage

import (
	"context"
	"fmt"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"
)

const teamColumns = `id, name, description, created_at, updated_at`

func scanTeam(row rowScanner) (*models.Team, error) {
	var t models.Team
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Members = []models.TeamMember{}
	return &t, nil
}

func (s *Store) CreateTeam(ctx context.Context, t models.Team) (*models.Team, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO teams (name, description) VALUES (?, ?)`, t.Name, t.Description)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", translate(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	return s.GetTeam(ctx, id)
}

func (s *Store) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id)
	t, err := scanTeam(row)
	if err != nil {
		return nil, fmt.Errorf("get team %d: %w", id, translate(err))
	}
	return t, nil
}

// ListTeams returns every team together with its members.
func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := []models.Team{}
	index := make(map[int64]int)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		index[t.ID] = len(teams)
		teams = append(teams, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := s.db.QueryContext(ctx, `
        SELECT tm.id, tm.team_id, tm.user_id, tm.created_at, u.name, u.role
        FROM team_members tm
        JOIN users u ON u.id = tm.user_id
        ORDER BY tm.id`)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer members.Close()

	for members.Next() {
		var m models.TeamMember
		var user models.UserSummary
		if err := members.Scan(&m.ID, &m.TeamID, &m.UserID, &m.CreatedAt, &user.Name, &user.Role); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		m.User = &user
		if i, ok := index[m.TeamID]; ok {
			teams[i].Members = append(teams[i].Members, m)
		}
	}
	return teams, members.Err()
}

func (s *Store) UpdateTeam(ctx context.Context, t models.Team) (*models.Team, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE teams SET name = ?, description = ? WHERE id = ?`, t.Name, t.Description, t.ID)
	if err != nil {
		return nil, fmt.Errorf("update team %d: %w", t.ID, translate(err))
	}
	if err := affected(res); err != nil {
		return nil, fmt.Errorf("update team %d: %w", t.ID, err)
	}
	return s.GetTeam(ctx, t.ID)
}

// DeleteTeam removes the team; memberships and tasks go with it.
func (s *Store) DeleteTeam(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete team %d: %w", id, translate(err))
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("delete team %d: %w", id, err)
	}
	s.log.Debugw("team deleted", "team_id", id)
	return nil
}
