package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/internal/domain/repository"
)

func newTestRepo(t *testing.T) *UserRepository {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestCreateAssignsID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := &entity.User{Username: "alice", Password: "h1", Name: "Alice Smith", Address: "1 Main St"}
	second := &entity.User{Username: "bob", Password: "h2", Name: "Bob", Address: "2 Main St"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
}

func TestCreateDuplicateUsername(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "alice", Password: "h1", Name: "A", Address: "X"}))
	err := repo.Create(ctx, &entity.User{Username: "alice", Password: "h2", Name: "B", Address: "Y"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "A", users[0].Name)
}

func TestConcurrentCreateSameUsername(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	const n = 2
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, &entity.User{Username: "racer", Password: "h", Name: fmt.Sprintf("R%d", i), Address: "X"})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repository.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUsernameIsCaseSensitive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "alice", Password: "h", Name: "A", Address: "X"}))
	require.NoError(t, repo.Create(ctx, &entity.User{Username: "Alice", Password: "h", Name: "A", Address: "X"}))

	_, err := repo.GetByUsername(ctx, "ALICE")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLookups(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := &entity.User{Username: "alice", Password: "h", Name: "Alice Smith", Address: "1 Main St"}
	twin := &entity.User{Username: "alice2", Password: "h", Name: "Alice Smith", Address: "1 Main St"}
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, twin))

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", got.Name)
	assert.Equal(t, "1 Main St", got.Address)
	assert.Equal(t, "h", got.Password)

	byName, err := repo.GetByName(ctx, "Alice Smith")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byAddress, err := repo.GetByAddress(ctx, "1 Main St")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byAddress.ID)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByName(ctx, "Nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByAddress(ctx, "Nowhere")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	const n = 5
	for i := 0; i < n; i++ {
		u := &entity.User{Username: fmt.Sprintf("user%d", i), Password: "h", Name: "N", Address: "A"}
		require.NoError(t, repo.Create(ctx, u))
	}

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, n)
	for i, u := range users {
		assert.Equal(t, fmt.Sprintf("user%d", i), u.Username)
	}
}

func TestDurableAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.db")
	ctx := context.Background()

	db, err := Open(path)
	require.NoError(t, err)
	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(ctx))
	require.NoError(t, repo.Create(ctx, &entity.User{Username: "carol", Password: "h", Name: "Carol", Address: "3 Main St"}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo = NewUserRepository(db)
	require.NoError(t, repo.Init(ctx))

	got, err := repo.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, "Carol", got.Name)
}
