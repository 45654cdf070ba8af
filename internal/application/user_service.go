package application

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	repo "github.com/oksasatya/go-user-accounts/internal/domain/repository"
	"github.com/oksasatya/go-user-accounts/pkg/events"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrNotVerified        = errors.New("user not verified")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidLookupField = errors.New("lookup field must be one of username, name, address")
)

var (
	usersCreated           = expvar.NewInt("users_created")
	verificationsSucceeded = expvar.NewInt("verifications_succeeded")
	verificationsFailed    = expvar.NewInt("verifications_failed")
)

// PasswordHasher is satisfied by helpers.PasswordHasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// EventPublisher is satisfied by helpers.RabbitPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserSearcher is satisfied by search.Indexer.
type UserSearcher interface {
	IndexUser(ctx context.Context, p entity.UserProfile) error
	SearchUsers(ctx context.Context, q string, size int) ([]entity.UserProfile, error)
}

// LookupField names the column a single-user lookup matches on.
type LookupField string

const (
	ByUsername LookupField = "username"
	ByName     LookupField = "name"
	ByAddress  LookupField = "address"
)

// ParseLookupField maps a query value to a LookupField; empty means username.
func ParseLookupField(s string) (LookupField, error) {
	switch LookupField(strings.ToLower(strings.TrimSpace(s))) {
	case "", ByUsername:
		return ByUsername, nil
	case ByName:
		return ByName, nil
	case ByAddress:
		return ByAddress, nil
	}
	return "", ErrInvalidLookupField
}

type Service struct {
	Repo   repo.UserRepository
	Hasher PasswordHasher
	Logger *logrus.Logger

	// Optional. Nil disables the feature.
	Events EventPublisher
	Search UserSearcher
}

func NewService(users repo.UserRepository, hasher PasswordHasher, logger *logrus.Logger) *Service {
	return &Service{Repo: users, Hasher: hasher, Logger: logger}
}

type RegisterInput struct {
	Username string
	Password string
	Name     string
	Address  string
}

// Register hashes the password and persists a new user.
// The returned user carries the hash, never the plaintext.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		Username: in.Username,
		Password: hash,
		Name:     in.Name,
		Address:  in.Address,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	usersCreated.Add(1)
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user created")

	s.announce(ctx, u)
	return u, nil
}

// announce publishes user.created, or indexes inline when only search is configured.
// The user is already durable, so failures here are logged and swallowed.
func (s *Service) announce(ctx context.Context, u *entity.User) {
	switch {
	case s.Events != nil:
		if err := s.Events.PublishJSON(ctx, events.NewUserCreated(u)); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("publish user event failed")
		}
	case s.Search != nil:
		if err := s.Search.IndexUser(ctx, u.Profile()); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
	}
}

// Verify checks a username/password pair. Unknown users and wrong passwords
// both return ErrNotVerified; only the log tells them apart.
func (s *Service) Verify(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.verifyFailed(username, "unknown_user")
			return nil, ErrNotVerified
		}
		return nil, err
	}
	if !s.Hasher.Verify(password, u.Password) {
		s.verifyFailed(username, "password_mismatch")
		return nil, ErrNotVerified
	}
	verificationsSucceeded.Add(1)
	return u, nil
}

func (s *Service) verifyFailed(username, reason string) {
	verificationsFailed.Add(1)
	s.Logger.WithFields(logrus.Fields{"username": username, "reason": reason}).Info("verification failed")
}

// ListUsers returns every user in insertion order.
func (s *Service) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.Repo.List(ctx)
}

// FindUser returns the first user whose field equals value.
func (s *Service) FindUser(ctx context.Context, field LookupField, value string) (*entity.User, error) {
	var (
		u   *entity.User
		err error
	)
	switch field {
	case ByUsername:
		u, err = s.Repo.GetByUsername(ctx, value)
	case ByName:
		u, err = s.Repo.GetByName(ctx, value)
	case ByAddress:
		u, err = s.Repo.GetByAddress(ctx, value)
	default:
		return nil, ErrInvalidLookupField
	}
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// SearchUsers runs a full-text query; without a search backend it returns no results.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]entity.UserProfile, error) {
	if s.Search == nil || strings.TrimSpace(q) == "" {
		return []entity.UserProfile{}, nil
	}
	return s.Search.SearchUsers(ctx, q, size)
}

// Healthy reports whether the user store is reachable.
func (s *Service) Healthy(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}
