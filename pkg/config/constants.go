package config

const (
	// EnvPrefix is the envconfig prefix shared by every service binary.
	EnvPrefix = "softmart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SOFTMART_DB_DSN"
	EnvDBHost = "SOFTMART_DB_HOST"
	EnvDBUser = "SOFTMART_DB_USER"
	EnvDBName = "SOFTMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
