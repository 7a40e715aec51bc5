package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Vickmut/v0-haven-craft-website-design/api/controllers"
	"github.com/Vickmut/v0-haven-craft-website-design/api/middleware"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/discounts"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/identity"
	"github.com/Vickmut/v0-haven-craft-website-design/internal/wishlist"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/auth/session"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/metrics"
	pkgredis "github.com/Vickmut/v0-haven-craft-website-design/pkg/redis"
)

// RequestStore backs rate limiting and idempotency. *redis.Client satisfies it.
type RequestStore interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	requestStore RequestStore,
	sessions session.AccessSessionChecker,
	catalogStore controllers.CatalogEditor,
	identityService identity.Service,
	wishlistService wishlist.Service,
	discountService discounts.Service,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		chimw.RealIP,
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	signInPolicy := middleware.NewAuthRateLimitPolicy(
		"signin",
		cfg.AuthRateLimit.SignInWindow,
		cfg.AuthRateLimit.SignInIPLimit,
		cfg.AuthRateLimit.SignInEmailLimit,
	)
	signUpPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignUpWindow,
		cfg.AuthRateLimit.SignUpIPLimit,
		cfg.AuthRateLimit.SignUpEmailLimit,
	)
	idempotent := middleware.Idempotency(requestStore, logg)
	requireAuth := middleware.Auth(cfg.JWT, sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/items", controllers.CatalogItems(catalogStore, logg))
		r.Get("/items/recent", controllers.CatalogRecent(catalogStore, logg))
		r.Get("/items/{itemId}", controllers.CatalogItem(catalogStore, logg))
		r.Get("/rooms", controllers.CatalogRooms(catalogStore, logg))
		r.Get("/categories", controllers.CatalogCategories())
		r.Get("/events", controllers.CatalogEvents(catalogStore, httpMetrics, logg))
	})

	r.Route("/api/v1/items/{itemId}/discount", func(r chi.Router) {
		r.Get("/", controllers.DiscountGet(discountService, logg))
		r.Get("/stream", controllers.DiscountStream(discountService, httpMetrics, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signUpPolicy, requestStore, logg), idempotent).
			Post("/signup", controllers.AuthSignUp(identityService, logg))
		r.With(middleware.AuthRateLimit(signInPolicy, requestStore, logg)).
			Post("/signin", controllers.AuthSignIn(identityService, logg))
		r.Get("/google/url", controllers.AuthGoogleURL(identityService, logg))
		r.With(middleware.AuthRateLimit(signInPolicy, requestStore, logg)).
			Post("/google", controllers.AuthGoogle(identityService, logg))
		r.Post("/refresh", controllers.AuthRefresh(identityService, logg))
		r.With(requireAuth).Post("/signout", controllers.AuthSignOut(identityService, logg))
		r.With(requireAuth).Get("/me", controllers.AuthMe(identityService, logg))
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.WishlistList(wishlistService, logg))
		r.Get("/count", controllers.WishlistCount(wishlistService, logg))
		r.With(idempotent).Post("/", controllers.WishlistAddItem(wishlistService, logg))
		r.Delete("/{itemId}", controllers.WishlistRemoveItem(wishlistService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, sessions, logg))
		r.Use(middleware.AdminGate(cfg.Admin, logg))

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.AdminListItems(catalogStore, logg))
			r.With(idempotent).Post("/", controllers.AdminCreateItem(catalogStore, logg))
			r.Put("/{itemId}", controllers.AdminUpdateItem(catalogStore, logg))
			r.Delete("/{itemId}", controllers.AdminDeleteItem(catalogStore, logg))
			r.With(idempotent).Post("/{itemId}/discount", controllers.AdminSetDiscount(catalogStore, discountService, logg))
			r.Delete("/{itemId}/discount", controllers.AdminClearDiscount(discountService, logg))
		})
	})

	return r
}
