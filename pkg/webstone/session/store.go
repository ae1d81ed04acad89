package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is the session persistence collaborator. Implementations are
// expected to be expiry-aware: an expired session resolves to nil, not an
// error.
type Store interface {
	// GetUserByToken resolves a session token to a user, or nil when the
	// token is unknown or expired.
	GetUserByToken(ctx context.Context, token string) (*User, error)
	// Put stores a user under a session token for the given lifetime.
	Put(ctx context.Context, token string, user *User, ttl time.Duration) error
	// Delete removes a session token.
	Delete(ctx context.Context, token string) error
}

type memoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an in-process session store. Used for tests and
// single-node deployments; production deployments plug their own Store.
func NewMemoryStore() Store {
	return &memoryStore{
		cache: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

func (s *memoryStore) GetUserByToken(_ context.Context, token string) (*User, error) {
	// Get value from cache
	res, ok := s.cache.Get(token)
	if !ok {
		return nil, nil
	}

	user, _ := res.(*User)
	// Check expiry
	if user == nil || user.Expired(time.Now()) {
		return nil, nil
	}

	return user, nil
}

func (s *memoryStore) Put(_ context.Context, token string, user *User, ttl time.Duration) error {
	s.cache.Set(token, user, ttl)

	return nil
}

func (s *memoryStore) Delete(_ context.Context, token string) error {
	s.cache.Delete(token)

	return nil
}
