package events

import (
	"time"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
)

// UserCreated is the event type emitted after a user is persisted.
const UserCreated = "user.created"

// UserEvent is the JSON payload put on the RabbitMQ queue when a user changes.
// It carries the password-free profile only.
type UserEvent struct {
	Type       string             `json:"type"`
	User       entity.UserProfile `json:"user"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// NewUserCreated builds a user.created event stamped with the current time.
func NewUserCreated(u *entity.User) UserEvent {
	return UserEvent{Type: UserCreated, User: u.Profile(), OccurredAt: time.Now().UTC()}
}
