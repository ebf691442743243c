package config

const (
	EnvPrefix = "shopfront"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv          = "SHOPFRONT_APP_ENV"
	EnvLogLevel        = "SHOPFRONT_LOG_LEVEL"
	EnvAPIBaseURL      = "SHOPFRONT_API_BASE_URL"
	EnvAPIDevBaseURL   = "SHOPFRONT_API_DEV_BASE_URL"
	EnvStoragePath     = "SHOPFRONT_STORAGE_PATH"
	EnvStorageInMemory = "SHOPFRONT_STORAGE_IN_MEMORY"
)
