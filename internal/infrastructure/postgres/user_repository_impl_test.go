package postgres

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/internal/domain/repository"
)

func TestTranslateError(t *testing.T) {
	err := translateError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_username_key"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	err = translateError(&pgconn.PgError{Code: "23502"})
	assert.NotErrorIs(t, err, repository.ErrConflict)

	plain := errors.New("connection reset")
	assert.ErrorIs(t, translateError(plain), plain)
}

// newIntegrationRepo connects to TEST_DATABASE_URL and starts from an empty users table.
func newIntegrationRepo(t *testing.T) *UserRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	require.NoError(t, Migrate(dsn, "../../../db/migrations", logger))

	pool, err := NewPool(context.Background(), dsn, 4, 1, 0)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), "TRUNCATE TABLE users RESTART IDENTITY")
	require.NoError(t, err)
	return NewUserRepository(pool)
}

func TestUserRepositoryIntegration(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	alice := &entity.User{Username: "alice", Password: "hash", Name: "Alice Smith", Address: "1 Main St"}
	require.NoError(t, repo.Create(ctx, alice))
	assert.NotZero(t, alice.ID)

	dup := &entity.User{Username: "alice", Password: "hash2", Name: "Other", Address: "2 Main St"}
	assert.ErrorIs(t, repo.Create(ctx, dup), repository.ErrConflict)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", got.Name)
	assert.Equal(t, "1 Main St", got.Address)

	second := &entity.User{Username: "alice2", Password: "hash", Name: "Alice Smith", Address: "1 Main St"}
	require.NoError(t, repo.Create(ctx, second))

	byName, err := repo.GetByName(ctx, "Alice Smith")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byAddress, err := repo.GetByAddress(ctx, "1 Main St")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byAddress.ID)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "alice2", users[1].Username)
}
