package bootstrap

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files (read/write for owner, read for group/others)
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of log files kept before a new session file is opened
	LogFileRetentionCount = 9

	// ServiceName tags every log record
	ServiceName = "mapbot"
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingMapBot      = "Starting MapBot"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// Error messages
const (
	ErrMsgCreateLogsDirFmt  = "failed to create logs directory: %w"
	ErrMsgOpenLogFileFmt    = "failed to open log file: %w"
	ErrMsgOpenStoreFmt      = "failed to open %s store: %w"
	ErrMsgMigrateFmt        = "failed to migrate %s schema: %w"
	ErrMsgCreateRendererFmt = "failed to create map renderer: %w"
	ErrMsgCreateBotFmt      = "failed to create discord bot: %w"
	ErrMsgStartBotFmt       = "failed to start discord bot: %w"
	ErrMsgServerFmt         = "http server failed: %w"
)

// =============================================================================
// Application Lifecycle Messages
// =============================================================================

const (
	LogMsgStoreReady         = "Store ready"
	LogMsgServicesWired      = "Services wired"
	LogMsgShutdownSignal     = "Shutdown signal received"
	LogMsgShuttingDownServer = "Shutting down HTTP server..."
	LogMsgShuttingDownBot    = "Closing Discord gateway..."
	LogMsgClosingStore       = "Closing store..."
	LogMsgServerForcedStop   = "HTTP server forced to shutdown"
	LogMsgBotStopFailed      = "Discord gateway close failed"
	LogMsgShutdownComplete   = "Shutdown complete"
)
