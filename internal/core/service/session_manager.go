package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/pkg/clock"
	"github.com/99minutos/admin-console/internal/pkg/metrics"
)

// ClientSession is the server-side counterpart of one browser tab: its auth
// store plus the channel used to reach the client when the timer fires.
type ClientSession struct {
	ID    string
	store *AuthStore

	// lastSeen is guarded by the SessionManager's mutex.
	lastSeen time.Time

	mu       sync.Mutex
	notices  []string
	redirect string
}

// Store returns the client's auth store.
func (c *ClientSession) Store() *AuthStore {
	return c.store
}

// Redirect records a forced navigation; the client's next request is sent to path.
func (c *ClientSession) Redirect(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.redirect = path
}

// Notify queues a transient message shown on the client's next login page.
func (c *ClientSession) Notify(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, message)
}

// TakeRedirect returns and clears the pending forced navigation.
func (c *ClientSession) TakeRedirect() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	path := c.redirect
	c.redirect = ""
	return path
}

// DrainNotices returns and clears the queued messages.
func (c *ClientSession) DrainNotices() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.notices
	c.notices = nil
	return out
}

// SessionManager keeps one AuthStore per client. Each client's storage is
// scoped under "session:<client id>:" so its snapshot key is
// "session:<client id>:auth".
type SessionManager struct {
	api     ports.Authenticator
	storage ports.KeyValueStore
	opts    AuthStoreOptions
	log     zerolog.Logger

	mu      sync.Mutex
	clients map[string]*ClientSession
}

// NewSessionManager builds a manager. Navigator and Notifier in opts are
// ignored: every client session is its own navigator and notifier.
func NewSessionManager(api ports.Authenticator, storage ports.KeyValueStore, opts AuthStoreOptions, log zerolog.Logger) *SessionManager {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	return &SessionManager{
		api:     api,
		storage: storage,
		opts:    opts,
		log:     log,
		clients: make(map[string]*ClientSession),
	}
}

// NewClientID returns a fresh random client identifier.
func (m *SessionManager) NewClientID() string {
	return uuid.NewString()
}

// Open returns the session of clientID, creating it on first use. A client
// whose snapshot survived a restart is authenticated again as soon as its
// store is opened.
func (m *SessionManager) Open(clientID string) *ClientSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.Clock.Now()
	if c, ok := m.clients[clientID]; ok {
		c.lastSeen = now
		return c
	}

	c := &ClientSession{ID: clientID, lastSeen: now}
	opts := m.opts
	opts.Navigator = c
	opts.Notifier = c
	c.store = NewAuthStore(
		m.api,
		scopedStore{inner: m.storage, prefix: "session:" + clientID + ":"},
		opts,
		m.log.With().Str("client_id", clientID).Logger(),
	)
	m.clients[clientID] = c
	metrics.ActiveSessions.Set(float64(len(m.clients)))
	return c
}

// Lookup returns the session of clientID if it is held in memory.
func (m *SessionManager) Lookup(clientID string) (*ClientSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[clientID]
	return c, ok
}

// Forget drops the in-memory session of clientID. Persisted data is untouched.
func (m *SessionManager) Forget(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, clientID)
	metrics.ActiveSessions.Set(float64(len(m.clients)))
}

// Sweep drops sessions unseen for at least maxIdle whose store has no expiry
// pending, such as clients that never came back after their session expired.
// It returns the number of sessions dropped.
func (m *SessionManager) Sweep(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.Clock.Now()
	dropped := 0
	for id, c := range m.clients {
		if now.Sub(c.lastSeen) < maxIdle || c.store.TimerPending() {
			continue
		}
		delete(m.clients, id)
		dropped++
	}
	if dropped > 0 {
		metrics.ActiveSessions.Set(float64(len(m.clients)))
		m.log.Debug().Int("dropped", dropped).Int("remaining", len(m.clients)).Msg("swept idle sessions")
	}
	return dropped
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *SessionManager) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(maxIdle)
		}
	}
}

// Len returns the number of sessions held in memory.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

type scopedStore struct {
	inner  ports.KeyValueStore
	prefix string
}

func (s scopedStore) Get(ctx context.Context, key string) (string, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s scopedStore) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s scopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}
