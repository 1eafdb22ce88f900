package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/fullstack-starter/internal/config"
)

type fakeStore struct {
	sessions   map[string]Session
	getCalls   int
	getErr     error
	refreshErr error
	deleted    []string
	refreshed  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]Session)}
}

func (f *fakeStore) Create(_ context.Context, s Session) error {
	f.sessions[s.Token] = s
	return nil
}

func (f *fakeStore) Get(_ context.Context, token string) (*Session, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.sessions[token]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeStore) Refresh(_ context.Context, s Session) error {
	f.refreshed++
	if f.refreshErr != nil {
		return f.refreshErr
	}
	f.sessions[s.Token] = s
	return nil
}

func (f *fakeStore) Delete(_ context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	delete(f.sessions, token)
	return nil
}

func testConfig() config.SessionConfig {
	return config.SessionConfig{
		TTLHours:             24 * 7,
		UpdateAgeHours:       24,
		CookieCacheMaxAgeMin: 5,
		CookieName:           "session_token",
	}
}

func newTestManager(store Store) (*Manager, *time.Time) {
	m := NewManager(store, testConfig(), "test-secret", zap.NewNop())
	now := time.Now()
	m.now = func() time.Time { return now }
	return m, &now
}

func TestIssue(t *testing.T) {
	store := newFakeStore()
	m, now := newTestManager(store)

	sess, err := m.Issue(context.Background(), "user-1")

	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, now.Add(7*24*time.Hour), sess.ExpiresAt)
	assert.Contains(t, store.sessions, sess.Token)
}

func TestResolve_EmptyToken(t *testing.T) {
	store := newFakeStore()
	m, _ := newTestManager(store)

	sess, cache, err := m.Resolve(context.Background(), "", "")

	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Empty(t, cache)
	assert.Zero(t, store.getCalls, "empty token must not hit the store")
}

func TestResolve_NotFoundIsNotAnError(t *testing.T) {
	store := newFakeStore()
	m, _ := newTestManager(store)

	sess, _, err := m.Resolve(context.Background(), "missing", "")

	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestResolve_StoreFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	m, _ := newTestManager(store)

	sess, _, err := m.Resolve(context.Background(), "tok", "")

	require.Error(t, err)
	assert.Nil(t, sess)
}

func TestResolve_ValidSession(t *testing.T) {
	store := newFakeStore()
	m, _ := newTestManager(store)
	issued, err := m.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	sess, cache, err := m.Resolve(context.Background(), issued.Token, "")

	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, issued.ID, sess.ID)
	assert.NotEmpty(t, cache, "a fresh cache cookie value should be produced")
}

func TestResolve_ExpiredSessionIsDropped(t *testing.T) {
	store := newFakeStore()
	m, now := newTestManager(store)
	issued, err := m.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	*now = now.Add(8 * 24 * time.Hour)

	sess, _, err := m.Resolve(context.Background(), issued.Token, "")

	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Contains(t, store.deleted, issued.Token)
}

func TestResolve_RefreshAfterUpdateAge(t *testing.T) {
	store := newFakeStore()
	m, now := newTestManager(store)
	issued, err := m.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	*now = now.Add(25 * time.Hour)

	sess, _, err := m.Resolve(context.Background(), issued.Token, "")

	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, 1, store.refreshed)
	assert.Equal(t, now.Add(7*24*time.Hour), sess.ExpiresAt)
	assert.Equal(t, *now, sess.RefreshedAt)
}

func TestResolve_NoRefreshWithinUpdateAge(t *testing.T) {
	store := newFakeStore()
	m, now := newTestManager(store)
	issued, err := m.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	*now = now.Add(time.Hour)

	_, _, err = m.Resolve(context.Background(), issued.Token, "")

	require.NoError(t, err)
	assert.Zero(t, store.refreshed)
}

func TestResolve_RefreshFailureKeepsSessionValid(t *testing.T) {
	store := newFakeStore()
	m, now := newTestManager(store)
	issued, err := m.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	store.refreshErr = errors.New("write timeout")
	*now = now.Add(25 * time.Hour)

	sess, _, err := m.Resolve(context.Background(), issued.Token, "")

	require.NoError(t, err)
	assert.NotNil(t, sess)
}

func TestResolve_CacheHitSkipsStore(t *testing.T) {
	store := newFakeStore()
	m, _ := newTestManager(store)
	issued, err := m.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	_, cache, err := m.Resolve(context.Background(), issued.Token, "")
	require.NoError(t, err)
	require.NotEmpty(t, cache)
	callsAfterFirst := store.getCalls

	sess, newCache, err := m.Resolve(context.Background(), issued.Token, cache)

	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, issued.ID, sess.ID)
	assert.Empty(t, newCache, "a cache hit should not mint a new cookie")
	assert.Equal(t, callsAfterFirst, store.getCalls, "cache hit must not hit the store")
}

func TestResolve_StaleCacheFallsBackToStore(t *testing.T) {
	store := newFakeStore()
	m, now := newTestManager(store)
	issued, err := m.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	_, cache, err := m.Resolve(context.Background(), issued.Token, "")
	require.NoError(t, err)
	callsAfterFirst := store.getCalls

	*now = now.Add(10 * time.Minute)

	sess, _, err := m.Resolve(context.Background(), issued.Token, cache)

	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Greater(t, store.getCalls, callsAfterFirst, "stale cache must re-consult the store")
}

func TestResolve_TamperedCacheIsIgnored(t *testing.T) {
	store := newFakeStore()
	m, _ := newTestManager(store)
	issued, err := m.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	_, cache, err := m.Resolve(context.Background(), issued.Token, "")
	require.NoError(t, err)

	parts := strings.SplitN(cache, ".", 2)
	require.Len(t, parts, 2)
	tampered := parts[0] + ".deadbeef"
	callsBefore := store.getCalls

	sess, _, err := m.Resolve(context.Background(), issued.Token, tampered)

	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Greater(t, store.getCalls, callsBefore, "bad signature must force a store lookup")
}

func TestRevoke(t *testing.T) {
	store := newFakeStore()
	m, _ := newTestManager(store)
	issued, err := m.Issue(context.Background(), "user-1")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(context.Background(), issued.Token))

	assert.NotContains(t, store.sessions, issued.Token)
}

func TestSessionValidity(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now.Add(time.Minute)}

	assert.True(t, s.Valid(now))
	assert.False(t, s.Valid(now.Add(2*time.Minute)))
	assert.False(t, (*Session)(nil).Valid(now))
}
