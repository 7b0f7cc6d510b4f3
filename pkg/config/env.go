package config

// EnvPrefix namespaces every environment variable this service reads.
const EnvPrefix = "TIENDITA"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "TIENDITA_APP_ENV"
	EnvPort   = "TIENDITA_APP_PORT"
	EnvDBDSN  = "TIENDITA_DB_DSN"
	EnvDBHost = "TIENDITA_DB_HOST"
	EnvDBUser = "TIENDITA_DB_USER"
	EnvDBName = "TIENDITA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
