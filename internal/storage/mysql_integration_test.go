package storage

import (
	"context"
	"testing"

	"github.com/dev-gabriel-henrique/gerenciador-de-tarefas-api/internal/models"

	"github.com/stretchr/testify/require"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	"go.uber.org/zap"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MySQL integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcmysql.Run(ctx,
		"mysql:8.0.36",
		tcmysql.WithDatabase("tasks"),
		tcmysql.WithUsername("test"),
		tcmysql.WithPassword("test"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	db, err := NewDB(ctx, Config{
		Host:     host,
		Port:     port.Port(),
		User:     "test",
		Password: "test",
		DBName:   "tasks",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := zap.NewNop().Sugar()
	require.NoError(t, RunMigrations(ctx, db, log))

	return NewStore(db, log)
}

func TestStoreIntegration(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		u, err := s.CreateUser(ctx, models.User{Name: "Ana", Email: "ana@x.com", Password: "hash"})
		require.NoError(t, err)
		require.NotZero(t, u.ID)
		require.Equal(t, models.RoleMember, u.Role)

		_, err = s.CreateUser(ctx, models.User{Name: "Ana 2", Email: "ana@x.com", Password: "hash"})
		require.ErrorIs(t, err, ErrDuplicate)

		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)

		byEmail, err := s.GetUserByEmail(ctx, "ana@x.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)
		require.Equal(t, "hash", byEmail.Password)

		_, err = s.GetUserByEmail(ctx, "nobody@x.com")
		require.ErrorIs(t, err, ErrNotFound)

		u.Name = "Ana Maria"
		u.Role = models.RoleAdmin
		updated, err := s.UpdateUser(ctx, *u)
		require.NoError(t, err)
		require.Equal(t, "Ana Maria", updated.Name)
		require.Equal(t, models.RoleAdmin, updated.Role)

		// unchanged rows still count as found
		_, err = s.UpdateUser(ctx, *updated)
		require.NoError(t, err)

		_, err = s.UpdateUser(ctx, models.User{ID: 9999, Name: "x", Email: "x@x.com", Role: models.RoleMember})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("teams, members and tasks", func(t *testing.T) {
		desc := "backend squad"
		team, err := s.CreateTeam(ctx, models.Team{Name: "Backend", Description: &desc})
		require.NoError(t, err)
		require.Equal(t, "backend squad", *team.Description)

		other, err := s.CreateTeam(ctx, models.Team{Name: "Frontend"})
		require.NoError(t, err)
		require.Nil(t, other.Description)

		bob, err := s.CreateUser(ctx, models.User{Name: "Bob", Email: "bob@x.com", Password: "hash"})
		require.NoError(t, err)

		m, err := s.AddTeamMember(ctx, team.ID, bob.ID)
		require.NoError(t, err)
		require.Equal(t, team.ID, m.TeamID)

		_, err = s.AddTeamMember(ctx, team.ID, bob.ID)
		require.ErrorIs(t, err, ErrDuplicate)

		_, err = s.AddTeamMember(ctx, 9999, bob.ID)
		require.ErrorIs(t, err, ErrNotFound)

		ok, err := s.IsTeamMember(ctx, team.ID, bob.ID)
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = s.IsTeamMember(ctx, other.ID, bob.ID)
		require.NoError(t, err)
		require.False(t, ok)

		ids, err := s.UserTeamIDs(ctx, bob.ID)
		require.NoError(t, err)
		require.Equal(t, []int64{team.ID}, ids)

		teams, err := s.ListTeams(ctx)
		require.NoError(t, err)
		require.Len(t, teams, 2)
		require.Len(t, teams[0].Members, 1)
		require.Equal(t, "Bob", teams[0].Members[0].User.Name)
		require.Empty(t, teams[1].Members)

		task, err := s.CreateTask(ctx, models.Task{
			Title:       "Write docs",
			Description: "API docs",
			Status:      models.StatusPending,
			Priority:    models.PriorityHigh,
			AssignedTo:  bob.ID,
			TeamID:      team.ID,
		})
		require.NoError(t, err)
		require.Equal(t, models.StatusPending, task.Status)

		scoped, err := s.ListTasks(ctx, models.TaskFilter{TeamIDs: []int64{other.ID}})
		require.NoError(t, err)
		require.Empty(t, scoped)

		scoped, err = s.ListTasks(ctx, models.TaskFilter{TeamIDs: []int64{team.ID, other.ID}, Priority: models.PriorityHigh})
		require.NoError(t, err)
		require.Len(t, scoped, 1)

		none, err := s.ListTasks(ctx, models.TaskFilter{TeamIDs: []int64{}})
		require.NoError(t, err)
		require.Empty(t, none)

		task.Status = models.StatusCompleted
		updated, err := s.UpdateTask(ctx, *task)
		require.NoError(t, err)
		require.Equal(t, models.StatusCompleted, updated.Status)

		require.NoError(t, s.DeleteTeamMember(ctx, m.ID))
		require.ErrorIs(t, s.DeleteTeamMember(ctx, m.ID), ErrNotFound)

		require.NoError(t, s.DeleteTeam(ctx, team.ID))
		_, err = s.GetTask(ctx, task.ID)
		require.ErrorIs(t, err, ErrNotFound)
		require.ErrorIs(t, s.DeleteTask(ctx, task.ID), ErrNotFound)
		require.ErrorIs(t, s.DeleteTeam(ctx, team.ID), ErrNotFound)
	})
}
