package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"
)

const taskColumns = `id, title, description, status, priority, assigned_to, team_id, created_at, updated_at`

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.AssignedTo, &t.TeamID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, t models.Task) (*models.Task, error) {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO tasks (title, description, status, priority, assigned_to, team_id)
        VALUES (?, ?, ?, ?, ?, ?)`,
		t.Title, t.Description, t.Status, t.Priority, t.AssignedTo, t.TeamID)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", translate(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(ctx, id)
}

func (s *Store) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, translate(err))
	}
	return t, nil
}

// ListTasks applies filter. A nil TeamIDs means every team; an empty
// non-nil slice matches nothing.
func (s *Store) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}
	if filter.TeamIDs != nil && len(filter.TeamIDs) == 0 {
		return tasks, nil
	}

	var where []string
	var args []interface{}
	if filter.TeamIDs != nil {
		where = append(where, "team_id IN (?"+strings.Repeat(", ?", len(filter.TeamIDs)-1)+")")
		for _, id := range filter.TeamIDs {
			args = append(args, id)
		}
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, filter.Priority)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, t models.Task) (*models.Task, error) {
	res, err := s.db.ExecContext(ctx, `
        UPDATE tasks
        SET title = ?, description = ?, status = ?, priority = ?, assigned_to = ?, team_id = ?
        WHERE id = ?`,
		t.Title, t.Description, t.Status, t.Priority, t.AssignedTo, t.TeamID, t.ID)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", t.ID, translate(err))
	}
	if err := affected(res); err != nil {
		return nil, fmt.Errorf("update task %d: %w", t.ID, err)
	}
	return s.GetTask(ctx, t.ID)
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	s.log.Debugw("task deleted", "task_id", id)
	return nil
}
