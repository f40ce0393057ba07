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
	Revocation    RevocationConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Password.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OMS_APP_ENV" required:"true"`
	Port         string `envconfig:"OMS_APP_PORT" required:"true"`
	ServiceName  string `envconfig:"OMS_SERVICE_NAME" default:"ordermanagementapi"`
	LogLevel     string `envconfig:"OMS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OMS_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"OMS_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"OMS_DB_DSN"`
	Driver string `envconfig:"OMS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"OMS_DB_HOST"`
	LegacyPort     int    `envconfig:"OMS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OMS_DB_USER"`
	LegacyPassword string `envconfig:"OMS_DB_PASSWORD"`
	LegacyName     string `envconfig:"OMS_DB_NAME"`
	LegacySSLMode  string `envconfig:"OMS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OMS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OMS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"OMS_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OMS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"OMS_REDIS_ADDR"`
	Password     string        `envconfig:"OMS_REDIS_PASSWORD"`
	DB           int           `envconfig:"OMS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OMS_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyNamespace string        `envconfig:"OMS_REDIS_KEY_NAMESPACE" default:"ordermanagementapi"`
}

type JWTConfig struct {
	Secret            string `envconfig:"OMS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"OMS_JWT_ISSUER" default:"ordermanagementapi"`
	SubjectType       string `envconfig:"OMS_JWT_SUBJECT_TYPE" default:"userInfo"`
	ExpirationMinutes int    `envconfig:"OMS_JWT_EXPIRATION_MINUTES" default:"86400"`
}

// TTL returns the configured token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RevocationConfig controls how revoked token identifiers are consulted.
// FailOpen=false means a registry outage rejects authenticated requests.
type RevocationConfig struct {
	LookupTimeout time.Duration `envconfig:"OMS_REVOCATION_LOOKUP_TIMEOUT" default:"1s"`
	FailOpen      bool          `envconfig:"OMS_REVOCATION_FAIL_OPEN" default:"false"`
}

const (
	MinPBKDF2Iterations = 10000
	MaxPBKDF2Iterations = 1_000_000
	MinPBKDF2KeyLen     = 64
	MaxPBKDF2KeyLen     = 1024
	MinPBKDF2SaltLen    = 16
	MaxPBKDF2SaltLen    = 64
)

type PasswordConfig struct {
	Iterations int `envconfig:"OMS_PBKDF2_ITERATIONS" default:"10000"`
	KeyLen     int `envconfig:"OMS_PBKDF2_KEY_LEN" default:"512"`
	SaltLen    int `envconfig:"OMS_PBKDF2_SALT_LEN" default:"16"`
}

func (p PasswordConfig) validate() error {
	if p.Iterations < MinPBKDF2Iterations || p.Iterations > MaxPBKDF2Iterations {
		return fmt.Errorf("%s must be between %d and %d", EnvPBKDF2Iterations, MinPBKDF2Iterations, MaxPBKDF2Iterations)
	}
	if p.KeyLen < MinPBKDF2KeyLen || p.KeyLen > MaxPBKDF2KeyLen {
		return fmt.Errorf("%s must be between %d and %d bytes", EnvPBKDF2KeyLen, MinPBKDF2KeyLen, MaxPBKDF2KeyLen)
	}
	if p.SaltLen < MinPBKDF2SaltLen || p.SaltLen > MaxPBKDF2SaltLen {
		return fmt.Errorf("%s must be between %d and %d bytes", EnvPBKDF2SaltLen, MinPBKDF2SaltLen, MaxPBKDF2SaltLen)
	}
	return nil
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"OMS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"OMS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"OMS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"OMS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"OMS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"OMS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite     bool `envconfig:"OMS_USE_SQLITE" default:"false"`
	AutoMigrate   bool `envconfig:"OMS_AUTO_MIGRATE" default:"false"`
	ExposeMetrics bool `envconfig:"OMS_EXPOSE_METRICS" default:"true"`
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
