package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars lists the variables every deployment must set
var RequiredEnvVars = []string{
	EnvSchemaVersion,
	EnvBotToken,
}

// RequiredPostgresVars are required in addition when DB_DRIVER is postgres
var RequiredPostgresVars = []string{
	EnvPostgresUser,
	EnvPostgresPass,
	EnvPostgresDB,
}

// ValidateEnv checks that all required environment variables are set
// and that the schema version matches expectations
func ValidateEnv() error {
	schemaVersion := os.Getenv(EnvSchemaVersion)
	if schemaVersion == "" {
		return fmt.Errorf(ErrMsgSchemaMissingFmt, ExpectedEnvSchemaVersion)
	}
	if schemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf(ErrMsgSchemaMismatchFmt, ExpectedEnvSchemaVersion, schemaVersion)
	}

	required := RequiredEnvVars
	if getEnv(EnvDBDriver, DefaultDBDriver) == DriverPostgres {
		required = append(append([]string{}, RequiredEnvVars...), RequiredPostgresVars...)
	}

	var missing []string
	for _, envVar := range required {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf(ErrMsgMissingRequiredFmt, strings.Join(missing, ", "))
	}

	return nil
}

// ValidateEnvWithWarnings checks environment variables and returns warnings
// for non-critical issues (like using default values)
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string

	if os.Getenv(EnvPostgresPass) == "change_this_secure_password" {
		warnings = append(warnings, "POSTGRES_PASSWORD appears to be using the example value - please use a secure password")
	}
	if os.Getenv(EnvEconomyConfig) == "" {
		warnings = append(warnings, "ECONOMY_CONFIG is not set - using the default 6x5 map at 150 points per segment")
	}

	return warnings, nil
}
