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
	Cart          CartConfig
	JWT           JWTConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MESAQR_APP_ENV" required:"true"`
	Port         string `envconfig:"MESAQR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MESAQR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MESAQR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MESAQR_DB_DSN"`
	Driver string `envconfig:"MESAQR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MESAQR_DB_HOST"`
	LegacyPort     int    `envconfig:"MESAQR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MESAQR_DB_USER"`
	LegacyPassword string `envconfig:"MESAQR_DB_PASSWORD"`
	LegacyName     string `envconfig:"MESAQR_DB_NAME"`
	LegacySSLMode  string `envconfig:"MESAQR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MESAQR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MESAQR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MESAQR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MESAQR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MESAQR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MESAQR_REDIS_ADDR"`
	Password     string        `envconfig:"MESAQR_REDIS_PASSWORD"`
	DB           int           `envconfig:"MESAQR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MESAQR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MESAQR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MESAQR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MESAQR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MESAQR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartConfig tunes the session cart store.
type CartConfig struct {
	TTL           time.Duration `envconfig:"MESAQR_CART_TTL" default:"72h"`
	SessionCookie string        `envconfig:"MESAQR_CART_SESSION_COOKIE" default:"mesaqr_session"`
	SessionTTL    time.Duration `envconfig:"MESAQR_CART_SESSION_TTL" default:"72h"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MESAQR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MESAQR_JWT_ISSUER" default:"mesaqr"`
	ExpirationMinutes int    `envconfig:"MESAQR_JWT_EXPIRATION_MINUTES" default:"480"`
}

// AccessTokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MESAQR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MESAQR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MESAQR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MESAQR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MESAQR_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow    time.Duration `envconfig:"MESAQR_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit int           `envconfig:"MESAQR_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit   int           `envconfig:"MESAQR_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MESAQR_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MESAQR_AUTO_MIGRATE" default:"false"`
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
