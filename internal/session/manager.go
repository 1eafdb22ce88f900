package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/fullstack-starter/internal/config"
)

// Manager owns the session lifecycle: issuing at login, resolving on each
// request, refreshing aging sessions and revoking at logout. Resolution may
// be served from a short-lived signed cookie cache to avoid paying the store
// round trip on every request; staleness is bounded by the cache max age.
type Manager struct {
	store       Store
	ttl         time.Duration
	updateAge   time.Duration
	cacheMaxAge time.Duration
	signSecret  []byte
	logger      *zap.Logger
	now         func() time.Time
}

// NewManager builds a session manager from configuration.
func NewManager(store Store, cfg config.SessionConfig, signSecret string, logger *zap.Logger) *Manager {
	return &Manager{
		store:       store,
		ttl:         cfg.TTL(),
		updateAge:   cfg.UpdateAge(),
		cacheMaxAge: cfg.CookieCacheMaxAge(),
		signSecret:  []byte(signSecret),
		logger:      logger,
		now:         time.Now,
	}
}

// Issue creates and persists a fresh session for the given user.
func (m *Manager) Issue(ctx context.Context, userID string) (*Session, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	now := m.now()
	s := Session{
		ID:          uuid.NewString(),
		Token:       token,
		UserID:      userID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.ttl),
		RefreshedAt: now,
	}
	if err := m.store.Create(ctx, s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Resolve looks up the session for a presented token. The cached argument is
// the raw value of the cache cookie, if any; when it verifies and is fresh
// the store is not consulted at all. The returned string is a new cache
// cookie value to issue, empty when the caller should leave cookies alone.
//
// A (nil, "", nil) result means no valid session; a non-nil error means the
// store lookup itself failed and must not be mistaken for "unauthenticated".
func (m *Manager) Resolve(ctx context.Context, token, cached string) (*Session, string, error) {
	if token == "" {
		return nil, "", nil
	}

	if s := m.decodeCache(cached); s != nil && s.Token == token {
		return s, "", nil
	}

	s, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, "", err
	}
	if s == nil {
		return nil, "", nil
	}

	now := m.now()
	if !s.Valid(now) {
		_ = m.store.Delete(ctx, token)
		return nil, "", nil
	}

	if s.NeedsRefresh(now, m.updateAge) {
		s.ExpiresAt = now.Add(m.ttl)
		s.RefreshedAt = now
		if err := m.store.Refresh(ctx, *s); err != nil {
			// The session is still valid; a failed refresh only shortens it.
			m.logger.Warn("session refresh failed", zap.Error(err), zap.String("session_id", s.ID))
		}
	}

	if m.cacheMaxAge <= 0 {
		return s, "", nil
	}
	cacheValue, err := m.encodeCache(s)
	if err != nil {
		m.logger.Warn("session cache encode failed", zap.Error(err))
		return s, "", nil
	}
	return s, cacheValue, nil
}

// Revoke removes the session behind the token.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}

// CacheMaxAge exposes the configured cookie cache lifetime.
func (m *Manager) CacheMaxAge() time.Duration {
	return m.cacheMaxAge
}

type cachePayload struct {
	Session  Session   `json:"session"`
	CachedAt time.Time `json:"cached_at"`
}

func (m *Manager) encodeCache(s *Session) (string, error) {
	payload, err := json.Marshal(cachePayload{Session: *s, CachedAt: m.now()})
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + m.sign(encoded), nil
}

func (m *Manager) decodeCache(value string) *Session {
	if m.cacheMaxAge <= 0 || value == "" {
		return nil
	}

	encoded, sig, ok := strings.Cut(value, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(m.sign(encoded))) {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	var payload cachePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	now := m.now()
	if now.Sub(payload.CachedAt) > m.cacheMaxAge || !payload.Session.Valid(now) {
		return nil
	}
	return &payload.Session
}

func (m *Manager) sign(encoded string) string {
	mac := hmac.New(sha256.New, m.signSecret)
	mac.Write([]byte(encoded))
	return hex.EncodeToString(mac.Sum(nil))
}
