package cli

import "time"

// wait-for-db defaults
const (
	DefaultWaitRetries  = 30
	DefaultWaitInterval = 2 * time.Second
)

// Output formats
const (
	MsgVersionFmt      = "mapbot %s (%s, commit %s, built %s)\n"
	MsgStatusHeader    = "VERSION\tSTATE\tAPPLIED AT\tSOURCE"
	MsgStatusRowFmt    = "%d\t%s\t%s\t%s\n"
	MsgNotApplied      = "-"
	MsgMigrationsDone  = "Migrations applied"
	MsgMigrationUndone = "Rolled back one migration"
	StatusTimeFormat   = "2006-01-02 15:04:05"

	MsgDatabaseReady       = "Database is ready"
	MsgDatabaseNotReadyFmt = "Database not ready (%d/%d): %v\n"
)

// Error messages
const (
	ErrMsgDatabaseNeverReadyFmt = "database failed to become ready after %d attempts"
)

// Warnings and log messages
const (
	LogMsgConfigWarning = "Configuration warning"
	LogMsgBotStopped    = "MapBot stopped"
)
