package middleware

import (
	"net/http"

	"github.com/Vickmut/v0-haven-craft-website-design/api/responses"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/admingate"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	pkgerrors "github.com/Vickmut/v0-haven-craft-website-design/pkg/errors"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
)

// AdminGate lets only the configured admin through. Run it after OptionalAuth.
// Anonymous browsers are redirected to sign-in, anonymous API clients get 401
// and signed-in non-admins get 403 without a redirect.
func AdminGate(cfg config.AdminConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch admingate.Evaluate(ClaimsFromContext(r.Context()), cfg) {
			case admingate.AuthenticatedAdmin:
				next.ServeHTTP(w, r)
			case admingate.AuthenticatedNonAdmin:
				if logg != nil {
					logg.Warn(r.Context(), "admin.access_denied")
				}
				responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeForbidden, "Access denied. This area is for administrators only."))
			default:
				if admingate.WantsHTML(r.Header.Get("Accept")) {
					http.Redirect(w, r, admingate.SignInRedirect(cfg, r.URL.RequestURI()), http.StatusFound)
					return
				}
				responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Please sign in to continue."))
			}
		})
	}
}
