package admingate

import (
	"testing"

	pkgAuth "github.com/Vickmut/v0-haven-craft-website-design/pkg/auth"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	cfg := config.AdminConfig{Email: "admin@x.test"}

	tests := []struct {
		name   string
		claims *pkgAuth.AccessTokenClaims
		want   State
	}{
		{name: "no token", claims: nil, want: Unauthenticated},
		{name: "empty uid", claims: &pkgAuth.AccessTokenClaims{Email: "admin@x.test", Role: pkgAuth.RoleAdmin}, want: Unauthenticated},
		{name: "customer", claims: &pkgAuth.AccessTokenClaims{UserID: "u", Email: "shopper@x.test", Role: pkgAuth.RoleCustomer}, want: AuthenticatedNonAdmin},
		{name: "admin role different email", claims: &pkgAuth.AccessTokenClaims{UserID: "u", Email: "old-admin@x.test", Role: pkgAuth.RoleAdmin}, want: AuthenticatedNonAdmin},
		{name: "admin email without role", claims: &pkgAuth.AccessTokenClaims{UserID: "u", Email: "admin@x.test", Role: pkgAuth.RoleCustomer}, want: AuthenticatedNonAdmin},
		{name: "admin", claims: &pkgAuth.AccessTokenClaims{UserID: "u", Email: "Admin@X.test", Role: pkgAuth.RoleAdmin}, want: AuthenticatedAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.claims, cfg))
		})
	}
}

func TestEvaluateWithoutConfiguredAdmin(t *testing.T) {
	claims := &pkgAuth.AccessTokenClaims{UserID: "u", Email: "", Role: pkgAuth.RoleAdmin}
	assert.Equal(t, AuthenticatedNonAdmin, Evaluate(claims, config.AdminConfig{}))
}

func TestSignInRedirect(t *testing.T) {
	cfg := config.AdminConfig{SignInPath: "/auth/signin"}
	assert.Equal(t, "/auth/signin?next=%2Fadmin%2Fitems", SignInRedirect(cfg, "/admin/items"))
	assert.Equal(t, "/auth/signin", SignInRedirect(cfg, "https://evil.test/"))
	assert.Equal(t, "/auth/signin", SignInRedirect(cfg, "//evil.test"))
	assert.Equal(t, "/auth/signin", SignInRedirect(config.AdminConfig{}, ""))
}

func TestWantsHTML(t *testing.T) {
	assert.True(t, WantsHTML("text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"))
	assert.False(t, WantsHTML("application/json"))
	assert.False(t, WantsHTML(""))
	assert.False(t, WantsHTML("*/*"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
	assert.Equal(t, "authenticated-non-admin", AuthenticatedNonAdmin.String())
	assert.Equal(t, "authenticated-admin", AuthenticatedAdmin.String())
}
