// Package debug provides the process-wide structured logger using log/slog
package debug

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Options configures the global logger.
type Options struct {
	// Level is one of debug, info, warn, error, off. Empty means warn.
	Level string
	// Format is text or json. Empty means text.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

var (
	// logger is the global logger instance
	logger *slog.Logger
	// level is the active minimum level
	level slog.Level
	// mu protects logger and level
	mu sync.RWMutex
)

func init() {
	Init(Options{})
}

// ParseLevel maps a level name to a slog level. "off" maps above Error so
// nothing is written.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	case "off", "none", "disabled":
		return slog.LevelError + 1
	}
	return slog.LevelWarn
}

// Init replaces the global logger.
func Init(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	lvl := ParseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(handler)
	level = lvl
}

// SetLogger installs an externally configured logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	logger = l
	level = slog.LevelDebug
}

// Enabled returns whether debug logging is enabled
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return level <= slog.LevelDebug
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// Logger returns the underlying slog.Logger instance
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
