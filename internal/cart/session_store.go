package cart

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repository persists cart lists keyed by session id.
type Repository interface {
	// Load returns the stored list, or an empty list when the session has none.
	Load(ctx context.Context, sessionID string) ([]string, error)

	// Save replaces the stored list for the session.
	Save(ctx context.Context, sessionID string, ids []string) error
}

// sessionLocks serializes read-modify-write cycles on one session across the
// containers of this process.
var sessionLocks = &keyedMutex{locks: make(map[string]*refMutex)}

type refMutex struct {
	sync.Mutex
	refs int
}

// keyedMutex hands out one mutex per key and forgets it once nobody holds or
// waits on it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()

	return func() {
		m.Unlock()

		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// SessionStore is a server-side Store for one session.
type SessionStore struct {
	repo      Repository
	sessionID string
	logger    zerolog.Logger
}

// NewSessionStore binds a repository to a session id.
func NewSessionStore(repo Repository, sessionID string, logger zerolog.Logger) *SessionStore {
	return &SessionStore{
		repo:      repo,
		sessionID: sessionID,
		logger: logger.With().
			Str("component", "session-cart-store").
			Str("session_id", sessionID).
			Logger(),
	}
}

// Read loads the session's list; repository failures read as empty.
func (s *SessionStore) Read(ctx context.Context) IDList {
	ids, err := s.repo.Load(ctx, s.sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load cart, treating as empty")
		return IDList{}
	}
	if ids == nil {
		return IDList{}
	}

	return IDList(ids)
}

// Lock holds the session exclusively until the returned func is called.
// Every SessionStore for the same session id shares the lock.
func (s *SessionStore) Lock() func() {
	return sessionLocks.lock(s.sessionID)
}

// Write saves the session's list.
func (s *SessionStore) Write(ctx context.Context, ids IDList) error {
	if ids == nil {
		ids = IDList{}
	}

	if err := s.repo.Save(ctx, s.sessionID, []string(ids)); err != nil {
		s.logger.Error().Err(err).Int("units", len(ids)).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

// SessionID returns the session id carried by the named cookie, issuing a new
// one on the response when the request has none or it is not a UUID.
func SessionID(w http.ResponseWriter, r *http.Request, cookieName string, maxAge int) string {
	if c, err := r.Cookie(cookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}
