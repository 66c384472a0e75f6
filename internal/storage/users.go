package storage

import (
	"context"
	"fmt"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"
)

const userColumns = `id, name, email, password, role, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts u and returns the stored row. A taken email yields ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	if u.Role == "" {
		u.Role = models.RoleMember
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password, role) VALUES (?, ?, ?, ?)`,
		u.Name, u.Email, u.Password, u.Role)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", translate(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetUserByID(ctx, id)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, translate(err))
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", translate(err))
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUser overwrites every mutable column of u.
func (s *Store) UpdateUser(ctx context.Context, u models.User) (*models.User, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password = ?, role = ? WHERE id = ?`,
		u.Name, u.Email, u.Password, u.Role, u.ID)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", u.ID, translate(err))
	}
	if err := affected(res); err != nil {
		return nil, fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return s.GetUserByID(ctx, u.ID)
}
