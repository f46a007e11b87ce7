// Package session gives every visitor their own content store, seeded at first
// contact and dropped after a period of inactivity.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Pranavsangichetty/portfolio/internal/blobs"
	"github.com/Pranavsangichetty/portfolio/internal/content"
)

const (
	// CookieName holds the visitor's session id.
	CookieName = "portfolio_session"

	contextKey = "portfolio.session"
)

// Session is one visitor's view of the portfolio.
type Session struct {
	ID    string
	Blobs *blobs.Registry

	mu    sync.Mutex
	store *content.Store

	// unix nanoseconds; read without mu so expiry checks never wait on a busy store
	lastSeen atomic.Int64
}

// Do runs fn with exclusive access to the session's store.
func (s *Session) Do(fn func(*content.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.store)
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) seen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Config controls session lifetime and size.
type Config struct {
	TTL              time.Duration
	SweepInterval    time.Duration
	StrictCategories bool
	Secure           bool

	// MaxSessions caps live sessions; the least recently seen one is evicted
	// to make room. Zero means no cap.
	MaxSessions int

	// UploadQuota caps the upload bytes one session may hold. Zero means no cap.
	UploadQuota int64
}

// Manager owns all live sessions.
type Manager struct {
	cfg       Config
	seed      *content.Seed
	ids       *content.IDSource
	deliverer content.Deliverer
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(cfg Config, seed *content.Seed, deliverer content.Deliverer, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:       cfg,
		seed:      seed,
		ids:       content.NewIDSource(nil),
		deliverer: deliverer,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Get returns the live session for id, starting a fresh one when id is unknown or expired.
func (m *Manager) Get(id string) *Session {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok && !m.expired(s, now) {
		s.touch(now)
		return s
	}
	if s, ok := m.sessions[id]; ok {
		m.drop(s)
	}
	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		m.evictOldest()
	}

	s := m.newSession(now)
	m.sessions[s.ID] = s
	m.logger.Debug("session started", "session", s.ID, "active", len(m.sessions))
	return s
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle longer than the TTL and returns how many went.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	candidates := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		candidates = append(candidates, s)
	}
	m.mu.Unlock()

	var stale []*Session
	for _, s := range candidates {
		if m.expired(s, now) {
			stale = append(stale, s)
		}
	}
	if len(stale) == 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, s := range stale {
		// a request may have revived it since the first pass
		if m.sessions[s.ID] != s || !m.expired(s, now) {
			continue
		}
		m.drop(s)
		n++
	}
	return n
}

// Run sweeps on the configured interval until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			if n := m.Sweep(t); n > 0 {
				m.logger.Info("expired sessions removed", "count", n, "active", m.Len())
			}
		}
	}
}

// Middleware resolves the visitor's session from the cookie and stores it on the context.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(CookieName)
		s := m.Get(id)

		// refreshed on every request so the browser's expiry slides with the server's
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, s.ID, int(m.cfg.TTL.Seconds()), "/", "", m.cfg.Secure, true)
		c.Set(contextKey, s)
		c.Next()
	}
}

// FromContext returns the session attached by Middleware.
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}

func (m *Manager) newSession(now time.Time) *Session {
	reg := blobs.NewRegistry(m.cfg.UploadQuota)
	store := content.NewStore(m.seed, content.Options{
		IDs:              m.ids,
		Refs:             reg,
		Deliverer:        m.deliverer,
		StrictCategories: m.cfg.StrictCategories,
	})
	s := &Session{
		ID:    uuid.NewString(),
		Blobs: reg,
		store: store,
	}
	s.touch(now)
	return s
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return m.cfg.TTL > 0 && now.Sub(s.seen()) > m.cfg.TTL
}

// evictOldest must be called with m.mu held.
func (m *Manager) evictOldest() {
	var oldest *Session
	for _, s := range m.sessions {
		if oldest == nil || s.lastSeen.Load() < oldest.lastSeen.Load() {
			oldest = s
		}
	}
	if oldest != nil {
		m.drop(oldest)
		m.logger.Debug("session evicted", "session", oldest.ID, "limit", m.cfg.MaxSessions)
	}
}

// drop must be called with m.mu held.
func (m *Manager) drop(s *Session) {
	s.Blobs.Clear()
	delete(m.sessions, s.ID)
}
