package config

const (
	EnvPrefix = "OMS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "OMS_APP_ENV"
	EnvPort     = "OMS_APP_PORT"
	EnvLogLevel = "OMS_LOG_LEVEL"

	EnvDBDSN  = "OMS_DB_DSN"
	EnvDBHost = "OMS_DB_HOST"
	EnvDBUser = "OMS_DB_USER"
	EnvDBName = "OMS_DB_NAME"

	EnvRedisURL = "OMS_REDIS_URL"

	EnvJWTSecret  = "OMS_JWT_SECRET"
	EnvJWTIssuer  = "OMS_JWT_ISSUER"
	EnvJWTExpMins = "OMS_JWT_EXPIRATION_MINUTES"

	EnvRevocationTimeout  = "OMS_REVOCATION_LOOKUP_TIMEOUT"
	EnvRevocationFailOpen = "OMS_REVOCATION_FAIL_OPEN"

	EnvPBKDF2Iterations = "OMS_PBKDF2_ITERATIONS"
	EnvPBKDF2KeyLen     = "OMS_PBKDF2_KEY_LEN"
	EnvPBKDF2SaltLen    = "OMS_PBKDF2_SALT_LEN"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
