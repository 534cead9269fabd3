package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the application configuration
type Config struct {
	BotToken           string
	GuildID            string // register commands in one guild only; empty means global
	ForceCommandUpdate bool

	DBDriver          string
	SQLitePath        string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	Port           int
	APIKey         string // guards /api/v1 when set
	TrustedProxies []string
	CORSOrigins    []string
	LogLevel       string
	LogFormat      string
	Environment    string
	LogDir         string

	SegmentsDir    string
	ViewTimeout    time.Duration
	ShutdownPeriod time.Duration
	Economy        Economy
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:          getEnv(EnvBotToken, ""),
		GuildID:           getEnv(EnvGuildID, ""),
		DBDriver:          getEnv(EnvDBDriver, DefaultDBDriver),
		SQLitePath:        getEnv(EnvSQLitePath, DefaultSQLitePath),
		DBUser:            getEnv(EnvPostgresUser, ""),
		DBPassword:        getEnv(EnvPostgresPass, ""),
		DBHost:            getEnv(EnvPostgresHost, DefaultPostgresHost),
		DBPort:            getEnv(EnvPostgresPort, DefaultPostgresPort),
		DBName:            getEnv(EnvPostgresDB, ""),
		DBMaxConns:        getEnvAsInt(EnvDBMaxConns, DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration(EnvDBMaxIdle, DefaultDBMaxIdle),
		DBMaxConnLifetime: getEnvAsDuration(EnvDBMaxLifetime, DefaultDBMaxLifetime),
		LogLevel:          getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:         getEnv(EnvLogFormat, DefaultLogFormat),
		Environment:       getEnv(EnvEnvironment, DefaultEnvironment),
		LogDir:            getEnv(EnvLogDir, DefaultLogDir),
		SegmentsDir:       getEnv(EnvSegmentsDir, DefaultSegmentsDir),
		ViewTimeout:       getEnvAsDuration(EnvViewTimeout, DefaultViewTimeout),
		ShutdownPeriod:    getEnvAsDuration(EnvShutdownPeriod, DefaultShutdownPeriod),
		APIKey:            getEnv(EnvAPIKey, ""),
		TrustedProxies:    getEnvAsList(EnvTrustedProxies, ""),
		CORSOrigins:       getEnvAsList(EnvCORSOrigins, DefaultCORSOrigins),
	}
	cfg.ForceCommandUpdate, _ = strconv.ParseBool(getEnv(EnvForceCommandUpdate, "false"))

	port, err := strconv.Atoi(getEnv(EnvHTTPPort, strconv.Itoa(DefaultHTTPPort)))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgInvalidPortFmt, EnvHTTPPort, err)
	}
	cfg.Port = port

	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return nil, fmt.Errorf(ErrMsgInvalidDriverFmt, EnvDBDriver, cfg.DBDriver)
	}

	econ, err := LoadEconomy(getEnv(EnvEconomyConfig, ""))
	if err != nil {
		return nil, err
	}
	cfg.Economy = econ

	return cfg, nil
}

// RequireBotToken fails when the Discord token is missing. Only `run` needs it.
func (c *Config) RequireBotToken() error {
	if c.BotToken == "" {
		return fmt.Errorf(ErrMsgMissingVarFmt, EnvBotToken)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back on absence or parse failure
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a duration such as "90s", falling back on absence or parse failure
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated variable, dropping blank entries
func getEnvAsList(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
