package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Catalog       CatalogConfig
	Admin         AdminConfig
	Google        GoogleOAuthConfig
	Discounts     DiscountsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Discounts.validate(cfg.PubSub); err != nil {
		return nil, err
	}
	if err := cfg.Admin.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HAVENCRAFT_APP_ENV" required:"true"`
	Port         string `envconfig:"HAVENCRAFT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HAVENCRAFT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"HAVENCRAFT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"HAVENCRAFT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HAVENCRAFT_DB_DSN"`
	Driver string `envconfig:"HAVENCRAFT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"HAVENCRAFT_DB_HOST"`
	Port     int    `envconfig:"HAVENCRAFT_DB_PORT" default:"5432"`
	User     string `envconfig:"HAVENCRAFT_DB_USER"`
	Password string `envconfig:"HAVENCRAFT_DB_PASSWORD"`
	Name     string `envconfig:"HAVENCRAFT_DB_NAME"`
	SSLMode  string `envconfig:"HAVENCRAFT_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"HAVENCRAFT_SQLITE_PATH" default:"havencraft.db"`

	MaxOpenConns    int           `envconfig:"HAVENCRAFT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HAVENCRAFT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HAVENCRAFT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HAVENCRAFT_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"HAVENCRAFT_DB_SLOW_QUERY" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HAVENCRAFT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HAVENCRAFT_REDIS_ADDR"`
	Password     string        `envconfig:"HAVENCRAFT_REDIS_PASSWORD"`
	DB           int           `envconfig:"HAVENCRAFT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HAVENCRAFT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HAVENCRAFT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HAVENCRAFT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HAVENCRAFT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HAVENCRAFT_REDIS_WRITE_TIMEOUT" default:"5s"`
	Namespace    string        `envconfig:"HAVENCRAFT_REDIS_NAMESPACE" default:"hc"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"HAVENCRAFT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"HAVENCRAFT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"HAVENCRAFT_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"HAVENCRAFT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HAVENCRAFT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HAVENCRAFT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"HAVENCRAFT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"HAVENCRAFT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HAVENCRAFT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	SignInWindow      time.Duration `envconfig:"HAVENCRAFT_AUTH_RATE_LIMIT_SIGNIN_WINDOW" default:"1m"`
	SignInEmailLimit  int           `envconfig:"HAVENCRAFT_AUTH_RATE_LIMIT_SIGNIN_EMAIL_LIMIT" default:"5"`
	SignInIPLimit     int           `envconfig:"HAVENCRAFT_AUTH_RATE_LIMIT_SIGNIN_IP_LIMIT" default:"20"`
	SignUpWindow      time.Duration `envconfig:"HAVENCRAFT_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignUpEmailLimit  int           `envconfig:"HAVENCRAFT_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignUpIPLimit     int           `envconfig:"HAVENCRAFT_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"HAVENCRAFT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"HAVENCRAFT_AUTO_MIGRATE" default:"false"`
}

// CatalogConfig selects the key-value slot that holds the serialized catalog.
type CatalogConfig struct {
	Backend    string `envconfig:"HAVENCRAFT_CATALOG_BACKEND" default:"redis"`
	Key        string `envconfig:"HAVENCRAFT_CATALOG_KEY" default:"havencraft-furniture-items"`
	Dir        string `envconfig:"HAVENCRAFT_CATALOG_DIR" default:"data"`
	QuotaBytes int    `envconfig:"HAVENCRAFT_CATALOG_QUOTA_BYTES" default:"5242880"`
}

type AdminConfig struct {
	Email      string `envconfig:"HAVENCRAFT_ADMIN_EMAIL" required:"true"`
	SignInPath string `envconfig:"HAVENCRAFT_ADMIN_SIGNIN_PATH" default:"/auth/signin"`
}

// IsAdminEmail reports an exact match with the configured admin. Account
// emails are stored lowercase, which validate enforces for the config too.
func (a AdminConfig) IsAdminEmail(email string) bool {
	want := strings.TrimSpace(a.Email)
	return want != "" && want == strings.TrimSpace(email)
}

func (a AdminConfig) validate() error {
	if email := strings.TrimSpace(a.Email); email != strings.ToLower(email) {
		return fmt.Errorf("%s must be lowercase", EnvAdminEmail)
	}
	return nil
}

type GoogleOAuthConfig struct {
	ClientID     string `envconfig:"HAVENCRAFT_GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"HAVENCRAFT_GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"HAVENCRAFT_GOOGLE_REDIRECT_URL"`
}

// Enabled reports whether federated sign-in has enough configuration to run.
func (g GoogleOAuthConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURL != ""
}

type DiscountsConfig struct {
	Broker       string `envconfig:"HAVENCRAFT_DISCOUNTS_BROKER" default:"redis"`
	RedisChannel string `envconfig:"HAVENCRAFT_DISCOUNTS_REDIS_CHANNEL" default:"havencraft:discounts"`
	BufferSize   int    `envconfig:"HAVENCRAFT_DISCOUNTS_BUFFER" default:"16"`
}

func (d DiscountsConfig) validate(ps PubSubConfig) error {
	switch strings.ToLower(d.Broker) {
	case BrokerRedis, BrokerMemory:
		return nil
	case BrokerPubSub:
		if ps.DiscountsTopic == "" || ps.DiscountsSubscription == "" {
			return fmt.Errorf("%s and %s are required when the pubsub broker is selected", EnvPubSubDiscountsTopic, EnvPubSubDiscountsSub)
		}
		return nil
	default:
		return fmt.Errorf("unknown discounts broker %q", d.Broker)
	}
}

type GCPConfig struct {
	ProjectID              string `envconfig:"HAVENCRAFT_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"HAVENCRAFT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"HAVENCRAFT_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DiscountsTopic        string `envconfig:"HAVENCRAFT_PUBSUB_DISCOUNTS_TOPIC"`
	DiscountsSubscription string `envconfig:"HAVENCRAFT_PUBSUB_DISCOUNTS_SUBSCRIPTION"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"HAVENCRAFT_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
