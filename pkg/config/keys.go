package config

// EnvPrefix scopes every environment variable read by envconfig.
const EnvPrefix = "PRINTFORGE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv      = "PRINTFORGE_APP_ENV"
	EnvAppPort     = "PRINTFORGE_APP_PORT"
	EnvStorageRoot = "PRINTFORGE_STORAGE_ROOT"
)
