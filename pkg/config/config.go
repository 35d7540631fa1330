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
	Scheduler    SchedulerConfig
	Files        FilesConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"GESTIONBC_APP_ENV" required:"true"`
	Port         string `envconfig:"GESTIONBC_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GESTIONBC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GESTIONBC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GESTIONBC_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"GESTIONBC_DB_DSN"`
	Driver string `envconfig:"GESTIONBC_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GESTIONBC_DB_HOST"`
	LegacyPort     int    `envconfig:"GESTIONBC_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GESTIONBC_DB_USER"`
	LegacyPassword string `envconfig:"GESTIONBC_DB_PASSWORD"`
	LegacyName     string `envconfig:"GESTIONBC_DB_NAME"`
	LegacySSLMode  string `envconfig:"GESTIONBC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GESTIONBC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GESTIONBC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GESTIONBC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GESTIONBC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GESTIONBC_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GESTIONBC_REDIS_ADDR"`
	Password     string        `envconfig:"GESTIONBC_REDIS_PASSWORD"`
	DB           int           `envconfig:"GESTIONBC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GESTIONBC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GESTIONBC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GESTIONBC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GESTIONBC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GESTIONBC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GESTIONBC_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GESTIONBC_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GESTIONBC_JWT_EXPIRATION_MINUTES" required:"true"`
}

// Expiration returns the configured access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type SchedulerConfig struct {
	DelaySweepInterval time.Duration `envconfig:"GESTIONBC_DELAY_SWEEP_INTERVAL" default:"6h"`
	SnapshotInterval   time.Duration `envconfig:"GESTIONBC_SNAPSHOT_INTERVAL" default:"24h"`
	DelayThresholdDays int           `envconfig:"GESTIONBC_DELAY_THRESHOLD_DAYS" default:"7"`
}

// DelayThreshold returns the age past which a tracking record counts as stalled.
func (s SchedulerConfig) DelayThreshold() time.Duration {
	return time.Duration(s.DelayThresholdDays) * 24 * time.Hour
}

type FilesConfig struct {
	MaxUploadMiB int `envconfig:"GESTIONBC_MAX_UPLOAD_MIB" default:"10"`
}

// MaxUploadBytes returns the upload ceiling in bytes.
func (f FilesConfig) MaxUploadBytes() int64 {
	return int64(f.MaxUploadMiB) << 20
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GESTIONBC_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GESTIONBC_AUTO_MIGRATE" default:"false"`
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
