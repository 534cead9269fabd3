package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/osse101/MapBot_Go/internal/config"
	"github.com/osse101/MapBot_Go/internal/handler"
	"github.com/osse101/MapBot_Go/internal/logger"
)

// SetupLogger initializes the application logger with file and stdout output.
// It creates the log directory, cleans up old logs and installs the default
// slog logger over a MultiWriter of stdout and a session file.
// Returns the log file handle (caller must close) and any error encountered.
func SetupLogger(cfg *config.Config) (*os.File, error) {
	return setupLogger(cfg, os.Stdout, time.Now())
}

func setupLogger(cfg *config.Config, stdout io.Writer, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf(ErrMsgCreateLogsDirFmt, err)
	}

	cleanupLogs(cfg.LogDir)

	logFileName := filepath.Join(cfg.LogDir, fmt.Sprintf(LogFileNamePattern, now.Format(LogFileTimestampFormat)))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermission)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgOpenLogFileFmt, err)
	}

	version := handler.CurrentVersion().Version
	logCfg := logger.NewConfig(cfg.LogLevel, cfg.LogFormat, ServiceName, version, cfg.Environment, false)
	logger.InitLoggerWithWriter(logCfg, io.MultiWriter(stdout, logFile))

	slog.Info(LogMsgLoggingInitialized, "level", logCfg.LogLevel())
	slog.Info(LogMsgStartingMapBot,
		"environment", cfg.Environment,
		"log_format", cfg.LogFormat,
		"version", version)

	slog.Debug(LogMsgConfigurationLoaded,
		"db_driver", cfg.DBDriver,
		"db_host", cfg.DBHost,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"segments_dir", cfg.SegmentsDir)

	return logFile, nil
}

// cleanupLogs removes the oldest session logs so that, with the file about to
// be opened, at most LogFileRetentionCount+1 remain. Names embed the start time
// so lexical order is chronological.
func cleanupLogs(logDir string) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var logFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), LogFileExtension) {
			logFiles = append(logFiles, entry.Name())
		}
	}

	for i := 0; i < len(logFiles)-LogFileRetentionCount; i++ {
		if err := os.Remove(filepath.Join(logDir, logFiles[i])); err != nil {
			slog.Warn(LogMsgFailedDeleteOldLog, "file", logFiles[i], "error", err)
		}
	}
}
