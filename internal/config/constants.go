package config

import "time"

// Environment variable names
const (
	EnvSchemaVersion  = "ENV_SCHEMA_VERSION"
	EnvBotToken       = "BOT_TOKEN"
	EnvGuildID        = "DISCORD_GUILD_ID"
	EnvDBDriver       = "DB_DRIVER"
	EnvSQLitePath     = "SQLITE_PATH"
	EnvPostgresHost   = "POSTGRES_HOST"
	EnvPostgresPort   = "POSTGRES_PORT"
	EnvPostgresUser   = "POSTGRES_USER"
	EnvPostgresPass   = "POSTGRES_PASSWORD"
	EnvPostgresDB     = "POSTGRES_DB"
	EnvDBMaxConns     = "DB_MAX_CONNS"
	EnvDBMaxIdle      = "DB_MAX_CONN_IDLE_TIME"
	EnvDBMaxLifetime  = "DB_MAX_CONN_LIFETIME"
	EnvHTTPPort       = "HTTP_PORT"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
	EnvEnvironment    = "ENVIRONMENT"
	EnvLogDir         = "LOG_DIR"
	EnvEconomyConfig  = "ECONOMY_CONFIG"
	EnvSegmentsDir    = "MAP_SEGMENTS_DIR"
	EnvViewTimeout    = "DISCORD_VIEW_TIMEOUT"
	EnvShutdownPeriod = "SHUTDOWN_TIMEOUT"
	EnvAPIKey         = "API_KEY"
	EnvTrustedProxies = "TRUSTED_PROXIES"
	EnvCORSOrigins    = "CORS_ALLOWED_ORIGINS"

	EnvForceCommandUpdate = "DISCORD_FORCE_COMMAND_UPDATE"
)

// Defaults
const (
	DefaultDBDriver       = "postgres"
	DefaultSQLitePath     = "mapbot.db"
	DefaultPostgresHost   = "localhost"
	DefaultPostgresPort   = "5432"
	DefaultDBMaxConns     = 20
	DefaultDBMaxIdle      = 5 * time.Minute
	DefaultDBMaxLifetime  = 30 * time.Minute
	DefaultHTTPPort       = 8080
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultEnvironment    = "dev"
	DefaultLogDir         = "logs"
	DefaultSegmentsDir    = "assets/segments"
	DefaultViewTimeout    = 3 * time.Minute
	DefaultShutdownPeriod = 10 * time.Second
	DefaultSegmentCost    = 150
	DefaultCORSOrigins    = "*"
)

// Formatted error messages
const (
	ErrMsgInvalidPortFmt     = "invalid %s value: %w"
	ErrMsgInvalidDriverFmt   = "invalid %s value %q: must be postgres or sqlite"
	ErrMsgMissingVarFmt      = "%s environment variable must be set"
	ErrMsgReadEconomyFmt     = "failed to read economy config %s: %w"
	ErrMsgUnknownKeysFmt     = "unknown keys in economy config %s: %s"
	ErrMsgInvalidEconomyFmt  = "invalid economy config: %w"
	ErrMsgSchemaMissingFmt   = "ENV_SCHEMA_VERSION is not set - please update your .env file to include this field (expected: %s)"
	ErrMsgSchemaMismatchFmt  = "ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated"
	ErrMsgMissingRequiredFmt = "missing required environment variables: %s"
)
