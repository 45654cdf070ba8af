package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/internal/domain/repository"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	name TEXT NOT NULL,
	address TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_users_name ON users (name)`,
	`CREATE INDEX IF NOT EXISTS idx_users_address ON users (address)`,
}

const selectUser = `SELECT id, username, password, name, address FROM users`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Init creates the users table when it does not exist yet.
func (r *UserRepository) Init(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create users table: %w", err)
		}
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, password, name, address)
VALUES (?, ?, ?, ?)`,
		u.Username,
		u.Password,
		u.Name,
		u.Address,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user: %w", repository.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user last insert id: %w", err)
	}
	u.ID = id
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, selectUser+` WHERE username = ?`, username)
}

func (r *UserRepository) GetByName(ctx context.Context, name string) (*entity.User, error) {
	return r.getOne(ctx, selectUser+` WHERE name = ? ORDER BY id LIMIT 1`, name)
}

func (r *UserRepository) GetByAddress(ctx context.Context, address string) (*entity.User, error) {
	return r.getOne(ctx, selectUser+` WHERE address = ? ORDER BY id LIMIT 1`, address)
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	users := make([]entity.User, 0)
	if err := r.db.SelectContext(ctx, &users, selectUser+` ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	var u entity.User
	if err := r.db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

var _ repository.UserRepository = (*UserRepository)(nil)
