// Package admingate decides who may use the admin surface.
//
// A caller is in one of three states. Only AuthenticatedAdmin passes. The
// admin state requires a server-signed admin role claim and an email equal to
// the configured admin email, so neither a forged client flag nor a stale
// token for a former admin is enough.
package admingate

import (
	"net/url"
	"strings"

	pkgAuth "github.com/Vickmut/v0-haven-craft-website-design/pkg/auth"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
)

type State int

const (
	Unauthenticated State = iota
	AuthenticatedNonAdmin
	AuthenticatedAdmin
)

func (s State) String() string {
	switch s {
	case AuthenticatedNonAdmin:
		return "authenticated-non-admin"
	case AuthenticatedAdmin:
		return "authenticated-admin"
	default:
		return "unauthenticated"
	}
}

// Evaluate maps verified claims (nil when no valid token was presented) to a state.
func Evaluate(claims *pkgAuth.AccessTokenClaims, cfg config.AdminConfig) State {
	if claims == nil || strings.TrimSpace(claims.UserID) == "" {
		return Unauthenticated
	}
	if claims.IsAdmin(cfg.Email) {
		return AuthenticatedAdmin
	}
	return AuthenticatedNonAdmin
}

// SignInRedirect builds the sign-in location for an unauthenticated browser,
// carrying the page to return to. Only same-site paths are carried.
func SignInRedirect(cfg config.AdminConfig, returnTo string) string {
	path := strings.TrimSpace(cfg.SignInPath)
	if path == "" {
		path = "/auth/signin"
	}
	if !strings.HasPrefix(returnTo, "/") || strings.HasPrefix(returnTo, "//") {
		return path
	}
	return path + "?next=" + url.QueryEscape(returnTo)
}

// WantsHTML reports whether the Accept header prefers a page over JSON.
// Browsers navigating to the admin UI get a redirect, API clients a 401.
func WantsHTML(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		switch strings.ToLower(strings.TrimSpace(mediaType)) {
		case "text/html", "application/xhtml+xml":
			return true
		case "application/json":
			return false
		}
	}
	return false
}
