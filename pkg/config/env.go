package config

// EnvPrefix is handed to envconfig; every field carries its full name in the tag.
const EnvPrefix = "BAKERY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:bakery.db?_foreign_keys=on"
)

const (
	EnvAppEnv      = "BAKERY_APP_ENV"
	EnvPort        = "BAKERY_APP_PORT"
	EnvDBDSN       = "BAKERY_DB_DSN"
	EnvDBHost      = "BAKERY_DB_HOST"
	EnvDBUser      = "BAKERY_DB_USER"
	EnvDBName      = "BAKERY_DB_NAME"
	EnvRedisURL    = "BAKERY_REDIS_URL"
	EnvJWTSecret   = "BAKERY_JWT_SECRET"
	EnvJWTIssuer   = "BAKERY_JWT_ISSUER"
	EnvJWTExpMins  = "BAKERY_JWT_EXPIRATION_MINUTES"
	EnvShippingFee = "BAKERY_SHIPPING_FEE"
	EnvUseSQLite   = "BAKERY_USE_SQLITE"
	EnvCORSOrigins = "BAKERY_CORS_ALLOWED_ORIGINS"
)

var splitDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
