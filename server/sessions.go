package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/mentor/pkg/mentor"
)

// errTooManySessions is returned by create when the registry is full of live sessions.
var errTooManySessions = errors.New("too many sessions")

// sessionEntry pairs a session with the lock that serializes requests against it.
type sessionEntry struct {
	mu      sync.Mutex
	session *mentor.Session

	// guarded by sessionRegistry.mu
	lastUsed time.Time
}

// sessionRegistry holds the live chat sessions of the server. Sessions are kept in
// memory only and disappear on restart, when deleted, or after idleTTL without use.
type sessionRegistry struct {
	maxSessions int
	idleTTL     time.Duration
	onEvict     func(id string)
	now         func() time.Time

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

// newSessionRegistry creates a registry. A zero maxSessions or idleTTL disables that
// limit. onEvict is called with the id of every removed or expired session.
func newSessionRegistry(maxSessions int, idleTTL time.Duration, onEvict func(string)) *sessionRegistry {
	if onEvict == nil {
		onEvict = func(string) {}
	}
	return &sessionRegistry{
		maxSessions: maxSessions,
		idleTTL:     idleTTL,
		onEvict:     onEvict,
		now:         time.Now,
		entries:     make(map[string]*sessionEntry),
	}
}

func (r *sessionRegistry) create() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.expireLocked(now)
	if r.maxSessions > 0 && len(r.entries) >= r.maxSessions {
		return "", errTooManySessions
	}

	id := uuid.NewString()
	r.entries[id] = &sessionEntry{session: mentor.NewSession(id), lastUsed: now}
	return id, nil
}

// get returns a live session and marks it used. Expired sessions are dropped.
func (r *sessionRegistry) get(id string) (*sessionEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}

	now := r.now()
	if r.expired(e, now) {
		r.deleteLocked(id)
		return nil, false
	}
	e.lastUsed = now
	return e, true
}

// has reports whether id is still registered, without touching it.
func (r *sessionRegistry) has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[id]
	return ok
}

// remove deletes a session and reports whether it existed.
func (r *sessionRegistry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return false
	}
	r.deleteLocked(id)
	return true
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

func (r *sessionRegistry) expired(e *sessionEntry, now time.Time) bool {
	return r.idleTTL > 0 && now.Sub(e.lastUsed) > r.idleTTL
}

func (r *sessionRegistry) expireLocked(now time.Time) {
	for id, e := range r.entries {
		if r.expired(e, now) {
			r.deleteLocked(id)
		}
	}
}

func (r *sessionRegistry) deleteLocked(id string) {
	delete(r.entries, id)
	r.onEvict(id)
}
