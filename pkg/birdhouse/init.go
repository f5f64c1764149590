// Package birdhouse wires the navigation controller for a Birdhouse site:
// a page, a router that swaps documents into it, the modules those documents
// declare, and the alerts shown when something goes wrong.
//
// The package handles logging setup and the process-wide role. NewNavigator
// builds a ready router from a Config.
package birdhouse

import (
	"log/slog"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/constants"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/internal"
)

// Options configures process-wide state.
type Options struct {
	LogPath  string         // Full path for log file including filename (creates parent directories)
	LogLevel string         // "debug", "info", "warn" or "error" (default: info, debug in dev mode)
	Role     constants.Role // Role of the signed-in user (default: RoleNone)
}

// Init sets up logging and the process-wide role.
// Call once at startup before any navigation.
func Init(options Options) {
	if options.LogPath != "" {
		internal.SetLogPath(options.LogPath)
	}

	switch {
	case options.LogLevel != "":
		internal.SetRawLogLevel(options.LogLevel)
	case constants.IsDevMode():
		internal.SetLogLevel(slog.LevelDebug)
	default:
		internal.SetLogLevel(slog.LevelInfo)
	}

	role := options.Role
	if !role.Valid() {
		if role != "" {
			internal.GetLogger().Warn("Unknown role, using none", "role", string(role))
		}
		role = constants.RoleNone
	}
	internal.SetRole(role)
}

// Close flushes and closes the log file.
func Close() {
	internal.CloseLogger()
}

// SetLogPath sets the full path for the log file, including filename.
// Call before Init() to take effect during initialization.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}

// GetRole returns the process-wide role.
func GetRole() constants.Role {
	return internal.GetRole()
}
