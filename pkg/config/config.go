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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Orders       OrdersConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"SOFTMART_APP_ENV" required:"true"`
	Port         string `envconfig:"SOFTMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SOFTMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOFTMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SOFTMART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SOFTMART_DB_DSN"`
	Driver string `envconfig:"SOFTMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SOFTMART_DB_HOST"`
	LegacyPort     int    `envconfig:"SOFTMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SOFTMART_DB_USER"`
	LegacyPassword string `envconfig:"SOFTMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"SOFTMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"SOFTMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOFTMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOFTMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOFTMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOFTMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOFTMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SOFTMART_REDIS_ADDR"`
	Password     string        `envconfig:"SOFTMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOFTMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOFTMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOFTMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOFTMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOFTMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOFTMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SOFTMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SOFTMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SOFTMART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SOFTMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SOFTMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SOFTMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SOFTMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SOFTMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SOFTMART_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SOFTMART_AUTO_MIGRATE" default:"false"`
}

// OrdersConfig tunes the order lifecycle machinery.
type OrdersConfig struct {
	// InFlightTTL caps how long a per-order mutation guard can stay held
	// if a process dies before releasing it.
	InFlightTTL time.Duration `envconfig:"SOFTMART_ORDERS_INFLIGHT_TTL" default:"30s"`
	// PendingExpiryDays is how long an order may sit in PENDING before the
	// expiry worker cancels it.
	PendingExpiryDays int           `envconfig:"SOFTMART_ORDERS_PENDING_EXPIRY_DAYS" default:"14"`
	ExpiryInterval    time.Duration `envconfig:"SOFTMART_ORDERS_EXPIRY_INTERVAL" default:"1h"`
	// SystemUserID is the actor recorded on history rows written by workers.
	SystemUserID string `envconfig:"SOFTMART_ORDERS_SYSTEM_USER_ID"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SOFTMART_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SOFTMART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SOFTMART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"SOFTMART_PUBSUB_ORDERS_TOPIC" default:"sm-order-events"`
	OrdersSubscription string `envconfig:"SOFTMART_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SOFTMART_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SOFTMART_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SOFTMART_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
