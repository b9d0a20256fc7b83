package client

import (
	"fmt"
	"sync"
)

// TokenStore persists the access token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Session owns the access token of the operator. It is set on login and
// cleared on logout or when the server rejects it.
type Session struct {
	mu        sync.Mutex
	token     string
	store     TokenStore
	onExpired func()
	expired   bool
}

// NewSession restores a persisted token from store, if any. onExpired is the
// redirect to the login entry point; it runs at most once per token.
// store may be nil for a memory-only session.
func NewSession(store TokenStore, onExpired func()) (*Session, error) {
	s := &Session{store: store, onExpired: onExpired}
	if store != nil {
		token, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("restore token: %w", err)
		}
		s.token = token
	}
	return s, nil
}

// Token returns the current token or "" when signed out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Begin installs a freshly issued token and re-arms the expiry callback.
func (s *Session) Begin(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.expired = false
	if s.store != nil {
		if err := s.store.Save(token); err != nil {
			return fmt.Errorf("persist token: %w", err)
		}
	}
	return nil
}

// End discards the token on logout. The expiry callback does not run.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discardLocked()
}

// Expire discards the token after the server rejected it and runs the expiry
// callback. fired reports whether this call was the one that tore the session
// down; concurrent rejections of the same token fire the callback once.
// err is set when the persisted copy could not be removed; the in-memory
// token is gone either way.
func (s *Session) Expire() (fired bool, err error) {
	s.mu.Lock()
	if s.expired {
		s.mu.Unlock()
		return false, nil
	}
	s.expired = true
	err = s.discardLocked()
	cb := s.onExpired
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
	return true, err
}

func (s *Session) discardLocked() error {
	s.token = ""
	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
	}
	return nil
}
