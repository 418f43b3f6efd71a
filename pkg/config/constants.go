package config

const (
	EnvPrefix = "CATALOG"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "CATALOG_APP_ENV"
	EnvPort     = "CATALOG_APP_PORT"
	EnvDBDSN    = "CATALOG_DB_DSN"
	EnvRedisURL = "CATALOG_REDIS_URL"
)
