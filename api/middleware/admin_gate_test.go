package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/auth"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	"github.com/stretchr/testify/assert"
)

func gatedHandler(cfg config.AdminConfig, seen *bool) http.Handler {
	return OptionalAuth(testJWT, stubSessionVerifier{ok: true}, nil)(AdminGate(cfg, nil)(okHandler(seen)))
}

func TestAdminGate(t *testing.T) {
	cfg := config.AdminConfig{Email: "owner@havencraft.test", SignInPath: "/auth/signin"}

	tests := []struct {
		name     string
		token    string
		accept   string
		status   int
		location string
		passes   bool
	}{
		{
			name:     "anonymous browser redirected",
			accept:   "text/html,application/xhtml+xml",
			status:   http.StatusFound,
			location: "/auth/signin?next=%2Fadmin%2Fitems%3Fpage%3D2",
		},
		{
			name:   "anonymous api client",
			accept: "application/json",
			status: http.StatusUnauthorized,
		},
		{
			name:   "customer forbidden",
			token:  mintTestToken(t, testJWT, auth.RoleCustomer, "shopper@example.com"),
			accept: "text/html",
			status: http.StatusForbidden,
		},
		{
			name:   "admin role with another email",
			token:  mintTestToken(t, testJWT, auth.RoleAdmin, "someone@example.com"),
			status: http.StatusForbidden,
		},
		{
			name:   "configured admin",
			token:  mintTestToken(t, testJWT, auth.RoleAdmin, "Owner@HavenCraft.test"),
			status: http.StatusOK,
			passes: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen bool
			req := httptest.NewRequest(http.MethodGet, "/admin/items?page=2", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp := httptest.NewRecorder()
			gatedHandler(cfg, &seen).ServeHTTP(resp, req)

			assert.Equal(t, tt.status, resp.Code)
			assert.Equal(t, tt.passes, seen)
			if tt.location != "" {
				assert.Equal(t, tt.location, resp.Header().Get("Location"))
			}
		})
	}
}
