package session

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	redisclient "github.com/Vickmut/v0-haven-craft-website-design/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	errAccessIDRequired    = errors.New("access id is required")
)

type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// record is the value stored under an access id. Only a digest of the
// refresh token is kept, and the uid binding stops a token from being
// replayed against another user's expired access token.
type record struct {
	UserID   string    `json:"uid"`
	Digest   string    `json:"digest"`
	IssuedAt time.Time `json:"iat"`
}

// AccessSessionChecker is the read side used by the auth middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Manager issues and rotates refresh sessions keyed by access token id.
type Manager struct {
	store store
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	switch {
	case ttl <= 0:
		return nil, errors.New("refresh token ttl must be positive")
	case ttl <= accessTTL:
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: client, ttl: ttl, now: time.Now}, nil
}

// Generate opens a refresh session for userID under accessID and returns the
// plaintext refresh token. The token is not recoverable afterwards.
func (m *Manager) Generate(ctx context.Context, accessID, userID string) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", errAccessIDRequired
	}
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("user id is required")
	}
	return m.open(ctx, accessID, userID)
}

// Rotate swaps the session behind oldAccessID for a fresh one. The provided
// token must match and belong to userID.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, userID, provided string) (newAccessID, newToken string, err error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return "", "", ErrInvalidRefreshToken
	}
	oldKey := m.store.AccessSessionKey(oldAccessID)
	stored, err := m.load(ctx, oldKey)
	if err != nil {
		return "", "", err
	}
	if stored.UserID != userID || subtle.ConstantTimeCompare([]byte(stored.Digest), []byte(digest(provided))) != 1 {
		return "", "", ErrInvalidRefreshToken
	}

	newAccessID = NewAccessID()
	if newToken, err = m.open(ctx, newAccessID, userID); err != nil {
		return "", "", err
	}
	if err := m.store.Del(ctx, oldKey); err != nil {
		return "", "", fmt.Errorf("dropping rotated session: %w", err)
	}
	return newAccessID, newToken, nil
}

func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return errAccessIDRequired
	}
	return m.store.Del(ctx, m.store.AccessSessionKey(accessID))
}

// HasSession reports whether accessID still has a live refresh session.
// Signing out revokes it, which invalidates the access token too.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, errAccessIDRequired
	}
	_, err := m.store.Get(ctx, m.store.AccessSessionKey(accessID))
	switch {
	case errors.Is(err, redislib.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (m *Manager) open(ctx context.Context, accessID, userID string) (string, error) {
	token, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(record{UserID: userID, Digest: digest(token), IssuedAt: m.now().UTC()})
	if err != nil {
		return "", err
	}
	if err := m.store.Set(ctx, m.store.AccessSessionKey(accessID), string(data), m.ttl); err != nil {
		return "", fmt.Errorf("storing refresh session: %w", err)
	}
	return token, nil
}

func (m *Manager) load(ctx context.Context, key string) (record, error) {
	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, redislib.Nil) {
		return record{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return record{}, err
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Digest == "" {
		return record{}, ErrInvalidRefreshToken
	}
	return rec, nil
}
