package db

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNewSQLiteFile(t *testing.T) {
	cfg := config.DBConfig{SQLitePath: filepath.Join(t.TempDir(), "havencraft.db"), MaxOpenConns: 2}
	client, err := New(context.Background(), cfg, true, nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", client.DB().Dialector.Name())
	assert.NoError(t, client.Ping(context.Background()))
	require.NoError(t, client.Close())
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewRequiresDSNForPostgres(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{}, false, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN")
}

func TestDialectorFor(t *testing.T) {
	d, err := dialectorFor(config.DBConfig{DSN: "postgres://u@localhost/hc"}, false)
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = dialectorFor(config.DBConfig{DSN: "ignored"}, true)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())
}

func newBufferedQueryLogger(slow time.Duration) (*queryLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: buf})
	return newQueryLogger(logg, slow), buf
}

func TestQueryLoggerSkipsFastQueries(t *testing.T) {
	q, buf := newBufferedQueryLogger(time.Second)
	q.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	q.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, gorm.ErrRecordNotFound)
	assert.Zero(t, buf.Len())
}

func TestQueryLoggerReportsSlowAndFailedQueries(t *testing.T) {
	q, buf := newBufferedQueryLogger(10 * time.Millisecond)
	q.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT * FROM profiles", 3
	}, nil)
	assert.Contains(t, buf.String(), `"db.query_slow"`)
	assert.Contains(t, buf.String(), `"sql":"SELECT * FROM profiles"`)

	buf.Reset()
	q.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO wishlist_entries", 0
	}, errors.New("constraint failed"))
	assert.Contains(t, buf.String(), `"db.query_failed"`)
	assert.Contains(t, buf.String(), `"error":"constraint failed"`)
}

func TestQueryLoggerSlowDisabled(t *testing.T) {
	q, buf := newBufferedQueryLogger(0)
	q.Trace(context.Background(), time.Now().Add(-time.Hour), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Zero(t, buf.Len())
}
