package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	redisclient "github.com/Vickmut/v0-haven-craft-website-design/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func newTestManager() (*Manager, *mockStore) {
	store := newMockStore()
	return &Manager{store: store, ttl: time.Hour, now: time.Now}, store
}

func TestManagerGenerateAndRotate(t *testing.T) {
	manager, store := newTestManager()
	ctx := context.Background()

	token, err := manager.Generate(ctx, "access-123", "u1")
	require.NoError(t, err)
	assert.NotContains(t, store.data["sess:access-123"], token, "plaintext token stored")
	assert.Contains(t, store.data["sess:access-123"], digest(token))

	_, _, err = manager.Rotate(ctx, "access-123", "u1", "wrong")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	newAccessID, newToken, err := manager.Rotate(ctx, "access-123", "u1", token)
	require.NoError(t, err)
	assert.NotEqual(t, token, newToken)
	_, exists := store.data["sess:access-123"]
	assert.False(t, exists, "old access key left behind")

	ok, err := manager.HasSession(ctx, newAccessID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, _, err = manager.Rotate(ctx, "access-123", "u1", token)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRotateRejectsOtherUser(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	token, err := manager.Generate(ctx, "access-1", "u1")
	require.NoError(t, err)

	_, _, err = manager.Rotate(ctx, "access-1", "u2", token)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRevokeRemovesSession(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	_, err := manager.Generate(ctx, "access-1", "u1")
	require.NoError(t, err)
	require.NoError(t, manager.Revoke(ctx, "access-1"))

	ok, err := manager.HasSession(ctx, "access-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.Error(t, manager.Revoke(ctx, " "))
}

func TestGenerateRequiresIDs(t *testing.T) {
	manager, _ := newTestManager()
	_, err := manager.Generate(context.Background(), "", "u1")
	require.Error(t, err)
	_, err = manager.Generate(context.Background(), "a", "")
	require.Error(t, err)
}

func TestNewManagerValidatesTTL(t *testing.T) {
	_, err := NewManager(nil, config.JWTConfig{})
	require.Error(t, err)
}

func TestRotateRejectsCorruptRecord(t *testing.T) {
	manager, store := newTestManager()
	store.data["sess:access-1"] = `{"uid":"u1"}`

	_, _, err := manager.Rotate(context.Background(), "access-1", "u1", "anything")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestNewManagerRequiresLongerRefreshTTL(t *testing.T) {
	cfg := config.JWTConfig{ExpirationMinutes: 60, RefreshTokenTTLMinutes: 30}
	_, err := NewManager(&redisclient.Client{}, cfg)
	require.ErrorContains(t, err, "must exceed")

	cfg.RefreshTokenTTLMinutes = 120
	m, err := NewManager(&redisclient.Client{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, m.ttl)
}
