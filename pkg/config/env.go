package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "MESAQR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "MESAQR_DB_DSN"
	EnvDBHost = "MESAQR_DB_HOST"
	EnvDBUser = "MESAQR_DB_USER"
	EnvDBName = "MESAQR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
