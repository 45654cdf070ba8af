package rediscache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/internal/domain/repository"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

// UserRepository caches successful lookups of the wrapped repository in Redis.
//
// Users are never updated or deleted, and the lowest-id match for a name or
// address cannot change once it exists, so a cached hit stays correct for the
// whole TTL. Misses are never cached.
type UserRepository struct {
	next   repository.UserRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewUserRepository(next repository.UserRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *UserRepository {
	return &UserRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func lookupKey(field, value string) string {
	return "user:by:" + field + ":" + value
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return r.next.Create(ctx, u)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.cached(ctx, "username", username, r.next.GetByUsername)
}

func (r *UserRepository) GetByName(ctx context.Context, name string) (*entity.User, error) {
	return r.cached(ctx, "name", name, r.next.GetByName)
}

func (r *UserRepository) GetByAddress(ctx context.Context, address string) (*entity.User, error) {
	return r.cached(ctx, "address", address, r.next.GetByAddress)
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	return r.next.List(ctx)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

func (r *UserRepository) cached(ctx context.Context, field, value string, load func(context.Context, string) (*entity.User, error)) (*entity.User, error) {
	key := lookupKey(field, value)

	var u entity.User
	found, err := helpers.RedisGetJSON(ctx, r.rdb, key, &u)
	if err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("redis get failed")
	} else if found {
		return &u, nil
	}

	loaded, err := load(ctx, value)
	if err != nil {
		return nil, err
	}
	if err := helpers.RedisSetJSON(ctx, r.rdb, key, loaded, r.ttl); err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("redis set failed")
	}
	return loaded, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
