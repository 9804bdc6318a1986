package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/pkg/clock"
	"github.com/99minutos/admin-console/internal/pkg/metrics"
)

const (
	// AuthStorageKey is the storage key of the persisted session snapshot.
	AuthStorageKey = "auth"

	DefaultSessionTimeout = 15 * time.Minute

	SessionExpiredNotice = "Session expired! You have been logged out."

	expiryLogoutTimeout = 5 * time.Second
)

// AuthStoreOptions configures an AuthStore. Navigator and Notifier are optional.
type AuthStoreOptions struct {
	SessionTimeout time.Duration
	Clock          clock.Clock
	Navigator      ports.Navigator
	Notifier       ports.Notifier
}

// AuthStore owns the session of one client. The persisted snapshot under
// AuthStorageKey is the only record of who is logged in; the store keeps
// just the last login error and the inactivity timer in memory.
type AuthStore struct {
	api      ports.Authenticator
	storage  ports.KeyValueStore
	timeout  time.Duration
	clock    clock.Clock
	nav      ports.Navigator
	notifier ports.Notifier
	log      zerolog.Logger

	mu      sync.Mutex
	lastErr string
	timer   clock.Timer
	// generation identifies the current timer; a fired timer whose
	// generation is stale was superseded and must not log out.
	generation uint64
}

func NewAuthStore(api ports.Authenticator, storage ports.KeyValueStore, opts AuthStoreOptions, log zerolog.Logger) *AuthStore {
	s := &AuthStore{
		api:      api,
		storage:  storage,
		timeout:  opts.SessionTimeout,
		clock:    opts.Clock,
		nav:      opts.Navigator,
		notifier: opts.Notifier,
		log:      log,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultSessionTimeout
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	return s
}

// Login checks the credentials with the API. On success the snapshot is
// persisted and the session timer started. On any failure the session is
// cleared, nothing is persisted and the returned *domain.APIError carries the
// message also exposed by Err.
func (s *AuthStore) Login(ctx context.Context, email, password string) error {
	res, err := s.api.Login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		return s.failLocked(ctx, err)
	}

	payload, err := json.Marshal(domain.AuthenticatedUserData{
		User:            res.User.Public(),
		Permissions:     res.Permissions,
		IsAuthenticated: true,
	})
	if err != nil {
		return s.failLocked(ctx, fmt.Errorf("encode session: %w", err))
	}
	if err := s.storage.Set(ctx, AuthStorageKey, string(payload)); err != nil {
		return s.failLocked(ctx, fmt.Errorf("persist session: %w", err))
	}

	s.lastErr = ""
	s.resetLocked()

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Int("user_id", res.User.ID).Str("role", string(res.User.Role)).Msg("logged in")
	return nil
}

func (s *AuthStore) failLocked(ctx context.Context, err error) error {
	var declared *domain.APIError
	result := "unexpected_failure"
	if errors.As(err, &declared) && !errors.Is(declared, domain.ErrUnexpected) {
		result = "declared_failure"
	}
	apiErr := domain.AsAPIError(err)

	s.stopTimerLocked()
	s.lastErr = apiErr.Message
	if derr := s.storage.Delete(ctx, AuthStorageKey); derr != nil {
		s.log.Warn().Err(derr).Msg("failed to clear session after failed login")
	}

	metrics.LoginsTotal.WithLabelValues(result).Inc()
	s.log.Info().Str("result", result).Str("reason", apiErr.Message).Msg("login failed")
	return apiErr
}

// Logout clears the session. Calling it while logged out is harmless.
func (s *AuthStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logoutLocked(ctx)
}

// logoutLocked deletes the snapshot before touching the timer, so a failed
// delete leaves the session with its expiry still scheduled.
func (s *AuthStore) logoutLocked(ctx context.Context) error {
	if err := s.storage.Delete(ctx, AuthStorageKey); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.lastErr = ""
	s.stopTimerLocked()
	return nil
}

// TimerPending reports whether an expiry timer is scheduled.
func (s *AuthStore) TimerPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// ResetSessionTimeout cancels the pending timer, if any, and schedules a new
// one for the full session timeout.
func (s *AuthStore) ResetSessionTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *AuthStore) resetLocked() {
	s.stopTimerLocked()
	gen := s.generation
	s.timer = s.clock.AfterFunc(s.timeout, func() { s.expire(gen) })
}

func (s *AuthStore) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
}

func (s *AuthStore) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil

	ctx, cancel := context.WithTimeout(context.Background(), expiryLogoutTimeout)
	defer cancel()
	if err := s.logoutLocked(ctx); err != nil {
		// the snapshot survived; retry on a fresh timer instead of leaving it unexpired
		s.resetLocked()
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("failed to clear expired session")
		return
	}
	s.mu.Unlock()

	metrics.SessionExpirationsTotal.Inc()
	s.log.Info().Dur("timeout", s.timeout).Msg("session expired")

	if s.nav != nil {
		s.nav.Redirect(domain.PathLogin)
	}
	if s.notifier != nil {
		s.notifier.Notify(SessionExpiredNotice)
	}
}

// AuthenticatedUserData re-reads the persisted snapshot. It returns nil when
// the snapshot is absent, undecodable or the storage cannot be read.
func (s *AuthStore) AuthenticatedUserData(ctx context.Context) *domain.AuthenticatedUserData {
	raw, err := s.storage.Get(ctx, AuthStorageKey)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.log.Warn().Err(err).Msg("failed to read session")
		}
		return nil
	}

	var data domain.AuthenticatedUserData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		s.log.Warn().Err(err).Msg("discarding undecodable session")
		return nil
	}
	return &data
}

// IsAuthenticated is a projection of the persisted snapshot.
func (s *AuthStore) IsAuthenticated(ctx context.Context) bool {
	data := s.AuthenticatedUserData(ctx)
	return data != nil && data.IsAuthenticated
}

// Err returns the message of the last failed login, or "" after a success or logout.
func (s *AuthStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

var _ ports.SessionStore = (*AuthStore)(nil)
