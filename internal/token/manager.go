package token

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kypgh/fitbook-client/internal/api"
	"github.com/kypgh/fitbook-client/internal/domain"
	"github.com/kypgh/fitbook-client/internal/utils"
	"github.com/kypgh/fitbook-client/pkg/credstore"
	"github.com/kypgh/fitbook-client/pkg/observability"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Refresher performs the refresh network call. It must not attach the
// expired access token to the request.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}

// Config holds the refresh retry policy. The Manager is the single owner
// of refresh retries; callers never retry a refresh themselves.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	ExpirySkew  time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.ExpirySkew <= 0 {
		c.ExpirySkew = 30 * time.Second
	}
	return c
}

// Manager is the single authoritative owner of the credential pair. It
// guarantees at most one refresh in flight and a shared outcome for every
// caller that arrives while one is running.
type Manager struct {
	store     credstore.Store
	refresher Refresher
	emitter   *Emitter
	logger    *zap.Logger
	metrics   *observability.Metrics
	cfg       Config

	sf singleflight.Group

	mu     sync.RWMutex
	pair   *domain.TokenPair
	loaded bool
}

// NewManager creates a token manager over the given store and refresher
func NewManager(store credstore.Store, refresher Refresher, logger *zap.Logger, metrics *observability.Metrics, cfg Config) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:     store,
		refresher: refresher,
		emitter:   NewEmitter(),
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg.withDefaults(),
	}
}

// Subscribe registers a handler for the given event kind and returns an
// unsubscribe function
func (m *Manager) Subscribe(kind EventKind, h Handler) func() {
	return m.emitter.Subscribe(kind, h)
}

// StoreTokens persists a new token pair, overwriting any existing one.
// A missing expiry is recovered from the access token's JWT exp claim.
// Storing is silent: no event is emitted.
func (m *Manager) StoreTokens(ctx context.Context, pair *domain.TokenPair) error {
	if pair == nil {
		return errors.New("token pair is required")
	}

	normalized := *pair
	if normalized.TokenType == "" {
		normalized.TokenType = "Bearer"
	}
	if normalized.ExpiresAt.IsZero() {
		if exp, err := utils.TokenExpiry(normalized.AccessToken); err == nil {
			normalized.ExpiresAt = exp
		}
	}

	if err := m.store.Save(ctx, &normalized); err != nil {
		return fmt.Errorf("failed to store tokens: %w", err)
	}

	m.mu.Lock()
	m.pair = &normalized
	m.loaded = true
	m.mu.Unlock()

	return nil
}

// AccessToken returns a valid access token, refreshing first when the
// current one is expired. An empty token with a nil error means "not
// authenticated" — a valid steady state, not a failure.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	pair := m.currentPair(ctx)
	if pair == nil {
		return "", nil
	}
	if !pair.IsExpired(m.cfg.ExpirySkew) {
		return pair.AccessToken, nil
	}
	return m.RefreshAccessToken(ctx)
}

// IsTokenExpired checks whether the stored access token is absent or past
// its expiry (within the configured skew)
func (m *Manager) IsTokenExpired(ctx context.Context) bool {
	pair := m.currentPair(ctx)
	if pair == nil {
		return true
	}
	return pair.IsExpired(m.cfg.ExpirySkew)
}

// IsTokenValid checks whether the stored access token is usable as-is
func (m *Manager) IsTokenValid(ctx context.Context) bool {
	return !m.IsTokenExpired(ctx)
}

// IsAuthenticated checks whether a session exists that can self-heal: an
// expired access token still counts when a usable refresh token remains
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	pair := m.currentPair(ctx)
	if pair == nil {
		return false
	}
	return pair.CanRefresh()
}

// RefreshAccessToken refreshes the credential pair. Concurrent callers
// coalesce onto a single in-flight refresh and observe the same outcome.
// On terminal failure the tokens are cleared, TokenExpired is emitted
// once, and "" is returned.
func (m *Manager) RefreshAccessToken(ctx context.Context) (string, error) {
	pair := m.currentPair(ctx)
	if pair == nil || !pair.CanRefresh() {
		return "", nil
	}

	// The refresh outlives any single caller: a late arrival must not have
	// its shared result cancelled by the first caller going away.
	refreshCtx := context.WithoutCancel(ctx)

	v, _, _ := m.sf.Do("refresh", func() (any, error) {
		// Re-check under the flight: a refresh that just finished may have
		// already produced a valid token for us.
		cur := m.currentPair(refreshCtx)
		if cur == nil || !cur.CanRefresh() {
			return "", nil
		}
		if !cur.IsExpired(m.cfg.ExpirySkew) {
			return cur.AccessToken, nil
		}
		return m.doRefresh(refreshCtx, cur.RefreshToken), nil
	})
	return v.(string), nil
}

// doRefresh runs the bounded retry loop. It returns the new access token,
// or "" when the credential pair is terminally dead.
func (m *Manager) doRefresh(ctx context.Context, refreshToken string) string {
	for attempt := 1; attempt <= m.cfg.MaxAttempts; attempt++ {
		newPair, err := m.refresher.Refresh(ctx, refreshToken)
		if err == nil && newPair != nil {
			m.metrics.RecordRefresh(ctx, "success")
			return m.adoptRefreshed(ctx, newPair)
		}

		m.metrics.RecordRefresh(ctx, "failure")

		var apiErr *api.Error
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			m.logger.Warn("refresh rejected", zap.Error(err))
			m.emit(ctx, Event{Kind: EventAuthenticationFailed, Err: err})
			break
		}

		m.logger.Warn("refresh attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", m.cfg.MaxAttempts),
			zap.Error(err),
		)

		if attempt < m.cfg.MaxAttempts {
			delay := api.Backoff(m.cfg.BaseDelay, m.cfg.MaxDelay, attempt)
			if apiErr != nil && apiErr.Code == api.CodeRateLimited {
				delay = apiErr.RetryDelay(attempt)
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				attempt = m.cfg.MaxAttempts
			}
		}
	}

	// Terminal for this credential pair: wipe silently, then announce the
	// expiry exactly once.
	if err := m.wipe(ctx); err != nil {
		m.logger.Error("failed to clear tokens after refresh failure", zap.Error(err))
	}
	m.emit(ctx, Event{Kind: EventTokenExpired, Reason: "refresh failed"})
	return ""
}

func (m *Manager) adoptRefreshed(ctx context.Context, newPair *domain.TokenPair) string {
	normalized := *newPair
	if normalized.TokenType == "" {
		normalized.TokenType = "Bearer"
	}
	if normalized.ExpiresAt.IsZero() {
		if exp, err := utils.TokenExpiry(normalized.AccessToken); err == nil {
			normalized.ExpiresAt = exp
		}
	}

	// A freshly issued pair must not be lost to a storage hiccup: keep it
	// in memory even when the write fails.
	if err := m.store.Save(ctx, &normalized); err != nil {
		m.logger.Error("failed to persist refreshed tokens", zap.Error(err))
	}

	m.mu.Lock()
	m.pair = &normalized
	m.loaded = true
	m.mu.Unlock()

	m.emit(ctx, Event{Kind: EventTokenRefreshed, AccessToken: normalized.AccessToken})
	return normalized.AccessToken
}

// ClearTokens wipes stored credentials and emits TokensCleared. Clearing
// an already-empty store is a no-op, not an error.
func (m *Manager) ClearTokens(ctx context.Context) error {
	if err := m.wipe(ctx); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	m.emit(ctx, Event{Kind: EventTokensCleared})
	return nil
}

func (m *Manager) wipe(ctx context.Context) error {
	err := m.store.Delete(ctx)

	m.mu.Lock()
	m.pair = nil
	m.loaded = true
	m.mu.Unlock()

	return err
}

// currentPair returns a copy of the cached pair, lazily restoring it from
// the store on first access. A store read failure is treated as "no
// token": the manager fails open to unauthenticated rather than erroring.
func (m *Manager) currentPair(ctx context.Context) *domain.TokenPair {
	m.mu.RLock()
	if m.loaded {
		pair := m.pair
		m.mu.RUnlock()
		if pair == nil {
			return nil
		}
		copied := *pair
		return &copied
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		pair, err := m.store.Load(ctx)
		if err != nil {
			if !errors.Is(err, credstore.ErrNotFound) {
				m.logger.Warn("failed to load stored credentials", zap.Error(err))
			}
			pair = nil
		}
		m.pair = pair
		m.loaded = true
	}
	if m.pair == nil {
		return nil
	}
	copied := *m.pair
	return &copied
}

func (m *Manager) emit(ctx context.Context, ev Event) {
	m.metrics.RecordAuthEvent(ctx, string(ev.Kind))
	m.emitter.Emit(ev)
}
