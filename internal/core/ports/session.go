package ports

import (
	"context"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// KeyValueStore is the client-side persistent storage the session snapshot lives in.
// Get returns domain.ErrKeyNotFound for absent keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Navigator performs forced navigation on behalf of the session.
type Navigator interface {
	Redirect(path string)
}

// Notifier shows a transient user-visible message.
type Notifier interface {
	Notify(message string)
}

// SessionStore owns the authentication state of one client.
type SessionStore interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	ResetSessionTimeout()
	AuthenticatedUserData(ctx context.Context) *domain.AuthenticatedUserData
	IsAuthenticated(ctx context.Context) bool
	Err() string
}
