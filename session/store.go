package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Persisted key layout. Restore tolerates any subset of these being absent.
const (
	keyAuthenticated = "authenticated"
	keyRole          = "role"
	keyIdentity      = "currentIdentity"
	keyToken         = "sessionToken"
)

// Store is the single source of truth for who is logged in and as what role.
// All mutation happens under one mutex and re-persists before returning, so no
// concurrent Restore can observe a half-written session.
type Store struct {
	mu          sync.Mutex
	kv          KV
	current     Session
	tokenLeeway time.Duration
	now         func() time.Time
}

// NewStore creates a [Store] over the given backend. tokenLeeway widens the
// token expiry check to absorb clock skew between client and gateway; zero is
// a strict check.
func NewStore(kv KV, tokenLeeway time.Duration) *Store {
	if kv == nil {
		kv = NewMemoryKV()
	}
	return &Store{
		kv:          kv,
		tokenLeeway: tokenLeeway,
		now:         time.Now,
	}
}

// Restore reconstructs the session from persisted state. It performs no
// network call and never fails hard: absent or corrupt keys yield the
// logged-out session.
func (s *Store) Restore(ctx context.Context) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := Session{}

	if v, ok, err := s.kv.Get(ctx, keyAuthenticated); err == nil && ok {
		sess.Authenticated = v == "true"
	}
	if v, ok, err := s.kv.Get(ctx, keyRole); err == nil && ok {
		sess.Role = ParseRole(v)
	}
	if v, ok, err := s.kv.Get(ctx, keyIdentity); err == nil && ok && v != "" && v != "null" {
		var id Identity
		if err := json.Unmarshal([]byte(v), &id); err == nil {
			sess.Identity = &id
		}
	}
	if v, ok, err := s.kv.Get(ctx, keyToken); err == nil && ok {
		sess.Token = v
	}

	s.current = sess.normalize()
	return s.current.clone()
}

// Login sets the session to authenticated with the given identity and role and
// persists it before returning. token may be empty when the gateway issues no
// bearer marker.
func (s *Store) Login(ctx context.Context, identity Identity, role Role, token string) error {
	if role == RoleNone {
		role = RoleUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idJSON, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	if err := s.kv.Set(ctx, keyAuthenticated, "true"); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, keyRole, role.String()); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, keyIdentity, string(idJSON)); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, keyToken, token); err != nil {
		return err
	}

	id := identity
	s.current = Session{
		Authenticated: true,
		Role:          role,
		Identity:      &id,
		Token:         token,
	}
	return nil
}

// Logout resets the session and clears persisted state. Calling it on an
// already-logged-out session is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current.Authenticated {
		return nil
	}

	if err := s.kv.Delete(ctx, keyAuthenticated, keyRole, keyIdentity, keyToken); err != nil {
		return err
	}

	s.current = Session{}
	return nil
}

// Current returns the in-memory session without touching the backend.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current.clone()
}

// TokenExpired reports whether the persisted session marker is stale. A
// session with no token falls back to presence-only semantics and is never
// considered expired here.
func (s *Store) TokenExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current.Authenticated || s.current.Token == "" {
		return false
	}
	return tokenExpired(s.current.Token, s.tokenLeeway, s.now())
}
