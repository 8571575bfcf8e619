package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yildizm/MeetSum/internal/presenter"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "meetsum_session"

// Session is one browser's presenter. mu guards every field.
type Session struct {
	ID string

	mu        sync.Mutex
	presenter *presenter.Presenter
	inFlight  bool
	lastSeen  time.Time
}

// begin marks an upload as running. It reports false when one already is.
func (s *Session) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

func (s *Session) end() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// with runs fn while holding the session lock.
func (s *Session) with(fn func(p *presenter.Presenter)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.presenter)
}

// SessionStore keeps sessions in memory and drops idle ones.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	factory  func() *presenter.Presenter
}

// NewSessionStore creates a store whose sessions expire after ttl idle.
func NewSessionStore(ttl time.Duration, factory func() *presenter.Presenter) *SessionStore {
	if factory == nil {
		factory = func() *presenter.Presenter { return presenter.New() }
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		factory:  factory,
	}
}

// Get returns a live session and refreshes its idle timer.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if st.expired(s, now) {
		delete(st.sessions, id)
		return nil, false
	}
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
	return s, true
}

// Create starts a new empty session.
func (st *SessionStore) Create() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		presenter: st.factory(),
		lastSeen:  st.now(),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Sweep removes expired sessions and returns how many are left.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	for id, s := range st.sessions {
		if st.expired(s, now) {
			delete(st.sessions, id)
		}
	}
	return len(st.sessions)
}

// Len returns the number of held sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// expired must be called with st.mu held. Running uploads keep a session alive.
func (st *SessionStore) expired(s *Session, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.inFlight && now.Sub(s.lastSeen) > st.ttl
}

// Resolve returns the request's session, creating one and setting the
// cookie when it is missing or expired.
func (st *SessionStore) Resolve(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if s, ok := st.Get(c.Value); ok {
			return s
		}
	}

	s := st.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return s
}
