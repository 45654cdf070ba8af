package container

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/config"
	userapp "github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/internal/domain/repository"
	pginfra "github.com/oksasatya/go-user-accounts/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-accounts/internal/infrastructure/rediscache"
	"github.com/oksasatya/go-user-accounts/internal/infrastructure/search"
	sqliteinfra "github.com/oksasatya/go-user-accounts/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

// Container holds the components shared by the HTTP server and the
// command-line tools. Build it once at startup and pass it down.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Users  repository.UserRepository
	Hasher *helpers.PasswordHasher

	// Optional; nil when the backing service is not configured.
	Redis     *redis.Client
	Publisher *helpers.RabbitPublisher
	Indexer   *search.Indexer

	closers []func()
}

// Build connects the user store selected by DB_DRIVER and every optional
// backend whose address is configured. On error everything opened so far is closed.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		Hasher: helpers.NewPasswordHasher(cfg.BcryptCost),
	}
	ok := false
	defer func() {
		if !ok {
			c.Close()
		}
	}()

	users, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	c.Users = users

	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable, lookup cache disabled")
			_ = rdb.Close()
		} else {
			c.Redis = rdb
			c.onClose(func() { _ = rdb.Close() })
			c.Users = rediscache.NewUserRepository(c.Users, rdb, cfg.CacheTTL, logger)
		}
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQUserEventsQueue)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		c.Publisher = pub
		c.onClose(pub.Close)
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := search.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			return nil, fmt.Errorf("elasticsearch: %w", err)
		}
		c.Indexer = search.NewIndexer(es, cfg.ESUsersIndex)
	}

	ok = true
	return c, nil
}

func (c *Container) openStore(ctx context.Context) (repository.UserRepository, error) {
	switch c.Config.DBDriver {
	case config.DriverPostgres:
		dsn := c.Config.PostgresDSN()
		pool, err := pginfra.NewPool(ctx, dsn, c.Config.DBMaxConns, c.Config.DBMinConns, c.Config.DBMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.onClose(pool.Close)
		if err := pginfra.Migrate(dsn, c.Config.MigrationsDir, c.Logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return pginfra.NewUserRepository(pool), nil

	case config.DriverSQLite:
		db, err := sqliteinfra.Open(c.Config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		c.onClose(func() { _ = db.Close() })
		repo := sqliteinfra.NewUserRepository(db)
		if err := repo.Init(ctx); err != nil {
			return nil, fmt.Errorf("init sqlite schema: %w", err)
		}
		return repo, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.Config.DBDriver)
}

// NewUserService wires the application service with whichever optional
// backends are present.
func (c *Container) NewUserService() *userapp.Service {
	svc := userapp.NewService(c.Users, c.Hasher, c.Logger)
	if c.Publisher != nil {
		svc.Events = c.Publisher
	}
	if c.Indexer != nil {
		svc.Search = c.Indexer
	}
	return svc
}

func (c *Container) onClose(fn func()) {
	c.closers = append(c.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
