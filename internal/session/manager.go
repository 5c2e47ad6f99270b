package session

import (
	"context"
	"time"

	"whisperwall/internal/models"
	"whisperwall/internal/observability"
	"whisperwall/internal/repository"

	"github.com/google/uuid"
)

// DefaultTTL is the session lifetime used when configuration does not
// override it.
const DefaultTTL = 7 * 24 * time.Hour

// Manager issues opaque session tokens and resolves them back to users.
type Manager struct {
	store Store
	users repository.UserRepository
	ttl   time.Duration
}

// NewManager returns a Manager with the given store and TTL. A non-positive
// ttl falls back to DefaultTTL.
func NewManager(store Store, users repository.UserRepository, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, users: users, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a new session for the user and returns its opaque token.
// The token carries no claims; everything it grants lives server-side.
func (m *Manager) Issue(ctx context.Context, userID uint, method string) (string, error) {
	token := uuid.NewString()
	if err := m.store.Put(ctx, token, userID, m.ttl); err != nil {
		return "", err
	}
	observability.SessionsIssued.WithLabelValues(method).Inc()
	return token, nil
}

// Resolve maps a session token to its user. An empty, unknown or expired
// token resolves to (nil, nil) rather than an error; a token whose user has
// since been deleted is discarded the same way.
func (m *Manager) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	userID, ok, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		if models.IsNotFound(err) {
			_ = m.store.Delete(ctx, token)
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Revoke invalidates a session token. Revoking an unknown token succeeds.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}
