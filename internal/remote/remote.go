package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vickmut/v0-haven-craft-website-design/internal/discounts"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/config"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/kvstore"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/logger"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/pubsub"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/redis"
	"go.uber.org/multierr"
)

// Clients holds the long-lived connections the API process owns.
type Clients struct {
	DB    *db.Client
	Redis *redis.Client
	// PubSub is nil unless the pubsub discount broker is selected.
	PubSub *pubsub.Client
}

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Open dials every backend the configuration needs. On failure the
// connections opened so far are closed before returning.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Clients, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	c := &Clients{}

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap database: %w", err)
	}
	c.DB = dbClient

	if needsRedis(cfg) {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("bootstrap redis: %w", err), c.Close())
		}
		c.Redis = redisClient
	}

	if strings.EqualFold(cfg.Discounts.Broker, config.BrokerPubSub) {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("bootstrap pubsub: %w", err), c.Close())
		}
		c.PubSub = psClient
	}

	return c, nil
}

// Sessions and request guards always live in Redis.
func needsRedis(cfg *config.Config) bool {
	return cfg.Redis.URL != "" || cfg.Redis.Address != ""
}

// Readiness lists the connections the readiness probe should ping.
func (c *Clients) Readiness() map[string]Pinger {
	checks := map[string]Pinger{}
	if c == nil {
		return checks
	}
	if c.DB != nil {
		checks["db"] = c.DB
	}
	if c.Redis != nil {
		checks["redis"] = c.Redis
	}
	if c.PubSub != nil {
		checks["pubsub"] = c.PubSub
	}
	return checks
}

// Close releases every open connection and reports all failures together.
func (c *Clients) Close() error {
	if c == nil {
		return nil
	}
	var err error
	if c.PubSub != nil {
		err = multierr.Append(err, c.PubSub.Close())
	}
	if c.Redis != nil {
		err = multierr.Append(err, c.Redis.Close())
	}
	if c.DB != nil {
		err = multierr.Append(err, c.DB.Close())
	}
	return err
}

// CatalogSlot picks the key-value backend holding the catalog and applies
// the configured size quota.
func (c *Clients) CatalogSlot(cfg config.CatalogConfig) (kvstore.Store, error) {
	var (
		slot kvstore.Store
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case config.CatalogBackendRedis, "":
		if c == nil || c.Redis == nil {
			return nil, errors.New("catalog redis backend needs a redis connection")
		}
		slot, err = kvstore.NewRedis(c.Redis)
	case config.CatalogBackendFile:
		slot, err = kvstore.NewFile(cfg.Dir)
	case config.CatalogBackendMemory:
		slot = kvstore.NewMemory()
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if cfg.QuotaBytes > 0 {
		slot = kvstore.WithQuota(slot, cfg.QuotaBytes)
	}
	return slot, nil
}

// DiscountBroker builds the cross-instance fan-out for discount updates.
func (c *Clients) DiscountBroker(cfg config.DiscountsConfig, logg *logger.Logger) (discounts.Broker, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Broker)) {
	case config.BrokerMemory:
		return discounts.NewMemoryBroker(), nil
	case config.BrokerRedis, "":
		if c == nil || c.Redis == nil {
			return nil, errors.New("redis discount broker needs a redis connection")
		}
		return discounts.NewRedisBroker(c.Redis, cfg.RedisChannel, logg)
	case config.BrokerPubSub:
		if c == nil || c.PubSub == nil {
			return nil, errors.New("pubsub discount broker needs a pubsub connection")
		}
		return discounts.NewPubSubBroker(c.PubSub.DiscountsPublisher(), c.PubSub.DiscountsSubscription(), logg)
	default:
		return nil, fmt.Errorf("unknown discounts broker %q", cfg.Broker)
	}
}
