// Package session keeps per-visitor storefront state on the server: identity,
// cart, active view, and catalog browsing criteria. Sessions are keyed by an
// opaque cookie and evicted after a period of inactivity.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"powerbooks/internal/auth"
	"powerbooks/internal/cart"
	"powerbooks/internal/catalog"
	"powerbooks/internal/view"
)

// CookieName carries the session id between visits.
const CookieName = "pb_session"

// DefaultIdleTTL is how long an untouched session survives.
const DefaultIdleTTL = 30 * time.Minute

// Session is one visitor's state. Handlers serialize access through the
// mutex; the contained types are otherwise plain data.
type Session struct {
	ID string

	mu       sync.Mutex
	identity auth.Identity
	cart     *cart.Cart
	views    *view.State
	browser  *catalog.Browser
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's state.
func (s *Session) Do(fn func(state *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&State{
		Identity: &s.identity,
		Cart:     s.cart,
		Views:    s.views,
		Browser:  s.browser,
	})
}

// State is the view of a session handed to Do callbacks.
type State struct {
	Identity *auth.Identity
	Cart     *cart.Cart
	Views    *view.State
	Browser  *catalog.Browser
}

// Manager owns the live sessions. It mints ids, resolves cookies, and evicts
// idle entries in the background.
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex

	source  catalog.Source
	mode    catalog.Mode
	idleTTL time.Duration
	logger  *zap.Logger
}

func NewManager(source catalog.Source, mode catalog.Mode, idleTTL time.Duration, logger *zap.Logger) *Manager {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	m := &Manager{
		sessions: make(map[string]*Session),
		source:   source,
		mode:     mode,
		idleTTL:  idleTTL,
		logger:   logger,
	}

	go m.evictIdle()
	return m
}

func (m *Manager) evictIdle() {
	ticker := time.NewTicker(m.idleTTL)
	defer ticker.Stop()
	for range ticker.C {
		m.mu.Lock()
		for id, s := range m.sessions {
			s.mu.Lock()
			idle := time.Since(s.lastSeen) > m.idleTTL
			s.mu.Unlock()
			if idle {
				delete(m.sessions, id)
				m.logger.Debug("evicted idle session", zap.String("session_id", id))
			}
		}
		m.mu.Unlock()
	}
}

func (m *Manager) newSession() *Session {
	return &Session{
		ID:       uuid.NewString(),
		cart:     cart.New(),
		views:    view.NewState(),
		browser:  catalog.NewBrowser(m.source, m.mode, m.logger),
		lastSeen: time.Now(),
	}
}

// Resolve returns the session for the request's cookie, minting a fresh one
// (and setting the cookie) when the cookie is absent or unknown.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(CookieName); err == nil {
		m.mu.RLock()
		s, ok := m.sessions[c.Value]
		m.mu.RUnlock()
		if ok {
			s.mu.Lock()
			s.lastSeen = time.Now()
			s.mu.Unlock()
			return s
		}
	}

	s := m.newSession()
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
