package config

// EnvPrefix is handed to envconfig; every tag carries the full variable name.
const EnvPrefix = "HAVENCRAFT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	BrokerRedis  = "redis"
	BrokerPubSub = "pubsub"
	BrokerMemory = "memory"
)

const (
	CatalogBackendRedis  = "redis"
	CatalogBackendFile   = "file"
	CatalogBackendMemory = "memory"
)

const (
	EnvAppEnv                 = "HAVENCRAFT_APP_ENV"
	EnvPort                   = "HAVENCRAFT_APP_PORT"
	EnvDBDSN                  = "HAVENCRAFT_DB_DSN"
	EnvDBHost                 = "HAVENCRAFT_DB_HOST"
	EnvDBUser                 = "HAVENCRAFT_DB_USER"
	EnvDBName                 = "HAVENCRAFT_DB_NAME"
	EnvUseSQLite              = "HAVENCRAFT_USE_SQLITE"
	EnvRedisURL               = "HAVENCRAFT_REDIS_URL"
	EnvJWTSecret              = "HAVENCRAFT_JWT_SECRET"
	EnvJWTIssuer              = "HAVENCRAFT_JWT_ISSUER"
	EnvJWTExpMins             = "HAVENCRAFT_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "HAVENCRAFT_REFRESH_TOKEN_TTL_MINUTES"
	EnvAdminEmail             = "HAVENCRAFT_ADMIN_EMAIL"
	EnvCatalogBackend         = "HAVENCRAFT_CATALOG_BACKEND"
	EnvCatalogQuotaBytes      = "HAVENCRAFT_CATALOG_QUOTA_BYTES"
	EnvDiscountsBroker        = "HAVENCRAFT_DISCOUNTS_BROKER"
	EnvPubSubDiscountsTopic   = "HAVENCRAFT_PUBSUB_DISCOUNTS_TOPIC"
	EnvPubSubDiscountsSub     = "HAVENCRAFT_PUBSUB_DISCOUNTS_SUBSCRIPTION"
	EnvCORSAllowedOrigins     = "HAVENCRAFT_CORS_ALLOWED_ORIGINS"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
