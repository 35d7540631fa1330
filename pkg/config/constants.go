package config

const (
	EnvPrefix = "GESTIONBC"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "GESTIONBC_APP_ENV"
	EnvPort     = "GESTIONBC_APP_PORT"
	EnvLogLevel = "GESTIONBC_LOG_LEVEL"

	EnvDBDSN      = "GESTIONBC_DB_DSN"
	EnvDBHost     = "GESTIONBC_DB_HOST"
	EnvDBPort     = "GESTIONBC_DB_PORT"
	EnvDBUser     = "GESTIONBC_DB_USER"
	EnvDBPassword = "GESTIONBC_DB_PASSWORD"
	EnvDBName     = "GESTIONBC_DB_NAME"
	EnvDBSSLMode  = "GESTIONBC_DB_SSLMODE"

	EnvRedisURL = "GESTIONBC_REDIS_URL"

	EnvJWTSecret  = "GESTIONBC_JWT_SECRET"
	EnvJWTIssuer  = "GESTIONBC_JWT_ISSUER"
	EnvJWTExpMins = "GESTIONBC_JWT_EXPIRATION_MINUTES"

	EnvDelaySweepInterval = "GESTIONBC_DELAY_SWEEP_INTERVAL"
	EnvSnapshotInterval   = "GESTIONBC_SNAPSHOT_INTERVAL"
	EnvDelayThresholdDays = "GESTIONBC_DELAY_THRESHOLD_DAYS"

	EnvMaxUploadMiB = "GESTIONBC_MAX_UPLOAD_MIB"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
