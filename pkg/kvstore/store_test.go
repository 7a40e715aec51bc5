package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "items")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "items", []byte(`[{"id":"m1"}]`)))
	got, err := s.Get(ctx, "items")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"m1"}]`, string(got))

	require.NoError(t, s.Set(ctx, "items", []byte(`[]`)))
	got, err = s.Get(ctx, "items")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	m := NewMemory()
	payload := []byte("abc")
	require.NoError(t, m.Set(context.Background(), "k", payload))
	payload[0] = 'z'

	got, err := m.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryStoreFailWrites(t *testing.T) {
	m := NewMemory()
	m.FailWrites(ErrUnavailable)
	require.ErrorIs(t, m.Set(context.Background(), "k", []byte("v")), ErrUnavailable)

	m.FailWrites(nil)
	require.NoError(t, m.Set(context.Background(), "k", []byte("v")))
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir)
	require.NoError(t, err)
	exerciseStore(t, s)

	_, err = os.Stat(filepath.Join(dir, "items.json"))
	require.NoError(t, err)
}

func TestFileStoreRequiresDir(t *testing.T) {
	_, err := NewFile("  ")
	require.Error(t, err)
}

func TestQuotaRejectsOversizedWrites(t *testing.T) {
	base := NewMemory()
	s := WithQuota(base, 8)

	require.NoError(t, s.Set(context.Background(), "k", []byte("12345678")))
	err := s.Set(context.Background(), "k", []byte("123456789"))
	require.ErrorIs(t, err, ErrQuotaExceeded)

	got, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "12345678", string(got), "rejected write must not replace the last good payload")
}

func TestQuotaDisabled(t *testing.T) {
	base := NewMemory()
	assert.Same(t, Store(base), WithQuota(base, 0))
}

type fakeRedis struct {
	data map[string]string
	err  error
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.data[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeRedis) SlotKey(name string) string { return "hc:slot:" + name }

func TestRedisStore(t *testing.T) {
	fake := &fakeRedis{data: map[string]string{}}
	s, err := NewRedis(fake)
	require.NoError(t, err)
	exerciseStore(t, s)
	assert.Contains(t, fake.data, "hc:slot:items")
}

func TestRedisStoreUnavailable(t *testing.T) {
	fake := &fakeRedis{data: map[string]string{}, err: errors.New("dial tcp: connection refused")}
	s, err := NewRedis(fake)
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "items")
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, s.Set(context.Background(), "items", []byte("[]")), ErrUnavailable)
}
