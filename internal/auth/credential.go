package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lmfernandez/tastify/internal/shared"
)

// Credential is the access credential obtained from the token endpoint.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresIn    int64     `json:"expires_in"`
	ObtainedAt   time.Time `json:"-"`
}

// ExpiresAt returns the instant the credential's access token expires.
func (c Credential) ExpiresAt() time.Time {
	return c.ObtainedAt.Add(time.Duration(c.ExpiresIn) * time.Second)
}

// Expired reports whether the credential is past its lifetime, with skew
// subtracted from the remaining window. Credentials without an expires_in
// value never expire.
func (c Credential) Expired(skew time.Duration) bool {
	if c.ExpiresIn <= 0 {
		return false
	}
	return !time.Now().Add(skew).Before(c.ExpiresAt())
}

// Store holds at most one [Credential] for the process.
//
// All access is serialized under one mutex; the notify channel is closed on
// Set so the callback's write is visible to every blocked waiter.
type Store struct {
	mu     sync.Mutex
	cred   *Credential
	notify chan struct{}
}

// NewStore creates an empty credential store.
func NewStore() *Store {
	return &Store{notify: make(chan struct{})}
}

// Get returns the cached credential, if any.
func (s *Store) Get() (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cred == nil {
		return Credential{}, false
	}
	return *s.cred, true
}

// Set replaces the stored credential and wakes all waiters.
func (s *Store) Set(c Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = &c
	close(s.notify)
	s.notify = make(chan struct{})
}

// Clear empties the slot. Pending waiters keep waiting for the next Set.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = nil
}

// Wait blocks until the store holds a credential, the timeout elapses, or ctx
// is canceled. A timeout error wraps [shared.ErrAuthTimeout].
func (s *Store) Wait(ctx context.Context, timeout time.Duration) (Credential, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		s.mu.Lock()
		cred, changed := s.cred, s.notify
		s.mu.Unlock()

		if cred != nil {
			return *cred, nil
		}

		select {
		case <-changed:
		case <-deadline.C:
			return Credential{}, fmt.Errorf("%w: no credential received within %s", shared.ErrAuthTimeout, timeout)
		case <-ctx.Done():
			return Credential{}, ctx.Err()
		}
	}
}
