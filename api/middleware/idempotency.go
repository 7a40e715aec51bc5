package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Vickmut/v0-haven-craft-website-design/api/responses"
	"github.com/Vickmut/v0-haven-craft-website-design/api/validators"
	pkgerrors "github.com/Vickmut/v0-haven-craft-website-design/pkg/errors"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	pkgredis "github.com/Vickmut/v0-haven-craft-website-design/pkg/redis"
)

const (
	idempotencyHeader     = "Idempotency-Key"
	defaultIdempotencyTTL = 24 * time.Hour
	shortIdempotencyTTL   = 10 * time.Minute
)

type idempotencyRule struct {
	ttl      time.Duration
	required bool
	maxBody  int64
}

// bodyLimit matches the cap the route's handler decodes with.
func (r idempotencyRule) bodyLimit() int64 {
	if r.maxBody > 0 {
		return r.maxBody
	}
	return validators.MaxBodyBytes
}

// idempotencyRules is keyed by "METHOD chi-pattern". Admin item creation
// must carry a key; the other writes dedupe only when the client sends one.
var idempotencyRules = map[string]idempotencyRule{
	"POST /api/admin/v1/items":                   {ttl: defaultIdempotencyTTL, required: true, maxBody: validators.MaxItemBodyBytes},
	"POST /api/admin/v1/items/{itemId}/discount": {ttl: defaultIdempotencyTTL},
	"POST /api/v1/auth/signup":                   {ttl: defaultIdempotencyTTL},
	"POST /api/v1/wishlist":                      {ttl: shortIdempotencyTTL},
}

func matchRule(method, pattern string) (idempotencyRule, bool) {
	rule, ok := idempotencyRules[method+" "+pattern]
	return rule, ok
}

// storedResponse is the replayable part of a handled request.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	Fingerprint string `json:"fingerprint"`
}

// Idempotency replays the first non-5xx response stored for a key. Reusing a
// key with a different body is a 409.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			rule, ok := matchRule(r.Method, routePattern(r))
			if !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if clientKey == "" {
				if rule.required {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, idempotencyHeader+" header required"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			limit := rule.bodyLimit()
			body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body could not be read"))
				return
			}
			if int64(len(body)) > limit {
				responses.WriteError(ctx, logg, w, pkgerrors.Newf(pkgerrors.CodeValidation, "request body exceeds %d bytes", limit))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			fingerprint := fingerprintBody(body)
			key := store.IdempotencyKey(UserIDFromContext(ctx)+"|"+r.Method+"|"+r.URL.Path, clientKey)

			prior, err := store.Get(ctx, key)
			switch {
			case err != nil && !errors.Is(err, redis.Nil):
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			case err == nil:
				var saved storedResponse
				if err := json.Unmarshal([]byte(prior), &saved); err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
					return
				}
				if saved.Fingerprint != fingerprint {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				replay(w, saved)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			saved := storedResponse{
				Status:      capture.statusOrOK(),
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
				Fingerprint: fingerprint,
			}
			if saved.Status >= http.StatusInternalServerError {
				return
			}
			payload, err := json.Marshal(saved)
			if err == nil {
				_, err = store.SetNX(ctx, key, string(payload), rule.ttl)
			}
			if err != nil && logg != nil {
				logg.Error(logg.WithField(ctx, "route", routePattern(r)), "idempotency.store_failed", err)
			}
		})
	}
}

func replay(w http.ResponseWriter, saved storedResponse) {
	if saved.ContentType != "" {
		w.Header().Set("Content-Type", saved.ContentType)
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(saved.Status)
	_, _ = w.Write(saved.Body)
}

func fingerprintBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// responseCapture tees the response so it can be stored after the handler.
type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusOrOK() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}

func (c *responseCapture) Unwrap() http.ResponseWriter {
	return c.ResponseWriter
}
