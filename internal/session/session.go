// Package session holds per-shopper state: the auth token, the active
// coupon, and the notification queue. Sessions are handed explicitly to
// services; nothing reads them from ambient globals.
package session

import (
	"sync"

	"tienda/internal/domain"
	"tienda/internal/store"
)

type Session struct {
	SID string

	// flight serializes cart mutations for this session so a rapid
	// double-click cannot interleave two remote calls and lose an update.
	flight sync.Mutex

	mu     sync.Mutex
	token  string
	user   *domain.User
	coupon *domain.Coupon
	notes  []domain.Notification
}

// BeginMutation takes the single-flight gate; the returned func releases it.
func (s *Session) BeginMutation() func() {
	s.flight.Lock()
	return s.flight.Unlock
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Authenticated() bool { return s.Token() != "" }

func (s *Session) SetAuth(token string, u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = u
}

func (s *Session) ClearAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.coupon = nil
}

func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Coupon returns the active coupon, or nil.
func (s *Session) Coupon() *domain.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coupon
}

// SetCoupon replaces any active coupon; at most one is active at a time.
func (s *Session) SetCoupon(c *domain.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon = c
}

// Notify queues a user-visible message; the next response drains the queue.
func (s *Session) Notify(level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, domain.Notification{Level: level, Message: message})
}

func (s *Session) NotifyError(message string) { s.Notify("error", message) }

func (s *Session) DrainNotifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notes
	s.notes = nil
	if out == nil {
		out = []domain.Notification{}
	}
	return out
}

// Manager tracks live sessions and restores persisted tokens on first touch,
// so an authenticated session survives a process restart.
type Manager struct {
	repo *store.SessionRepo

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(repo *store.SessionRepo) *Manager {
	return &Manager{repo: repo, sessions: map[string]*Session{}}
}

func (m *Manager) Get(sid string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[sid]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	if s, ok = m.sessions[sid]; ok {
		m.mu.Unlock()
		return s
	}
	s = &Session{SID: sid}
	m.sessions[sid] = s
	m.mu.Unlock()

	if m.repo != nil {
		if tok, err := m.repo.Token(sid); err == nil && tok != "" {
			s.SetAuth(tok, nil)
		}
	}
	return s
}
