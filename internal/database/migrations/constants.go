package migrations

// Error messages
const (
	ErrMsgUnknownDialectFmt = "unknown migration dialect %q"
	ErrMsgOpenMigrationsFmt = "failed to open %s migrations: %w"
	ErrMsgCreateProviderFmt = "failed to create migration provider: %w"
	ErrMsgMigrateUpFmt      = "failed to apply migrations: %w"
	ErrMsgMigrateDownFmt    = "failed to roll back migration: %w"
	ErrMsgMigrateStatusFmt  = "failed to read migration status: %w"
)

// Log messages
const (
	LogMsgMigrationApplied    = "Applied migration"
	LogMsgMigrationRolledBack = "Rolled back migration"
	LogMsgSchemaUpToDate      = "Schema is up to date"
)
