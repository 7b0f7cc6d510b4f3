package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
	Catalog      CatalogConfig
	Payments     PaymentsConfig
	Storefront   StorefrontConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
	FeatureFlags FeatureFlagsConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TIENDITA_APP_ENV" required:"true"`
	Port         string `envconfig:"TIENDITA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TIENDITA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TIENDITA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TIENDITA_DB_DSN"`
	Driver string `envconfig:"TIENDITA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TIENDITA_DB_HOST"`
	LegacyPort     int    `envconfig:"TIENDITA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TIENDITA_DB_USER"`
	LegacyPassword string `envconfig:"TIENDITA_DB_PASSWORD"`
	LegacyName     string `envconfig:"TIENDITA_DB_NAME"`
	LegacySSLMode  string `envconfig:"TIENDITA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TIENDITA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TIENDITA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TIENDITA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TIENDITA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TIENDITA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TIENDITA_REDIS_ADDR"`
	Password     string        `envconfig:"TIENDITA_REDIS_PASSWORD"`
	DB           int           `envconfig:"TIENDITA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TIENDITA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TIENDITA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TIENDITA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TIENDITA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TIENDITA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TIENDITA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TIENDITA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TIENDITA_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TIENDITA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TIENDITA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TIENDITA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TIENDITA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TIENDITA_ARGON_KEY_LEN" default:"32"`
}

// CartConfig controls how long an idle cart survives in Redis.
type CartConfig struct {
	TTL time.Duration `envconfig:"TIENDITA_CART_TTL" default:"720h"`
}

// CatalogConfig tunes the storefront snapshot cache.
type CatalogConfig struct {
	SnapshotRefresh time.Duration `envconfig:"TIENDITA_CATALOG_SNAPSHOT_REFRESH" default:"5m"`
}

// PaymentsConfig points the checkout orchestrator at the hosted payment
// provider's preference API.
type PaymentsConfig struct {
	BaseURL     string `envconfig:"TIENDITA_PAYMENTS_BASE_URL"`
	AccessToken string `envconfig:"TIENDITA_PAYMENTS_ACCESS_TOKEN" required:"true"`
	Env         string `envconfig:"TIENDITA_PAYMENTS_ENV" default:"sandbox"`
	CurrencyID  string `envconfig:"TIENDITA_PAYMENTS_CURRENCY" default:"ARS"`
	WebhookKey  string `envconfig:"TIENDITA_PAYMENTS_WEBHOOK_KEY"`
}

// Environment returns the normalized provider environment (sandbox/production).
func (p PaymentsConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(p.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

// StorefrontConfig carries the public URLs the provider redirects back to.
type StorefrontConfig struct {
	PublicBaseURL string `envconfig:"TIENDITA_STOREFRONT_BASE_URL" required:"true"`
	SuccessPath   string `envconfig:"TIENDITA_STOREFRONT_SUCCESS_PATH" default:"/checkout/success"`
	FailurePath   string `envconfig:"TIENDITA_STOREFRONT_FAILURE_PATH" default:"/checkout/failure"`
	PendingPath   string `envconfig:"TIENDITA_STOREFRONT_PENDING_PATH" default:"/checkout/pending"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TIENDITA_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TIENDITA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TIENDITA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"TIENDITA_GCS_BUCKET_NAME" required:"true"`
	PublicHost string `envconfig:"TIENDITA_GCS_PUBLIC_HOST" default:"https://storage.googleapis.com"`
}

type MediaConfig struct {
	MaxUploadMB   int `envconfig:"TIENDITA_MAX_UPLOAD_MB" default:"10"`
	MaxFiles      int `envconfig:"TIENDITA_MEDIA_MAX_FILES" default:"8"`
	ImageMaxWidth int `envconfig:"TIENDITA_MEDIA_IMAGE_MAX_WIDTH" default:"1600"`
	ImageQuality  int `envconfig:"TIENDITA_MEDIA_IMAGE_QUALITY" default:"82"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TIENDITA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TIENDITA_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TIENDITA_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type RateLimitConfig struct {
	Window time.Duration `envconfig:"TIENDITA_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int64         `envconfig:"TIENDITA_RATE_LIMIT_MAX" default:"300"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
