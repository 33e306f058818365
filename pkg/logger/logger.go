package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log is the process-wide logger. Init replaces it; until then it writes info and above to stdout.
var Log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to slog levels. Unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// Init builds the global logger and installs it as the slog default.
func Init(level string) *slog.Logger {
	Log = New(os.Stdout, level)
	slog.SetDefault(Log)
	return Log
}

func Info(format string, v ...interface{}) {
	Log.Info(fmt.Sprintf(format, v...))
}

func Error(format string, v ...interface{}) {
	Log.Error(fmt.Sprintf(format, v...))
}

func Debug(format string, v ...interface{}) {
	Log.Debug(fmt.Sprintf(format, v...))
}

func Warn(format string, v ...interface{}) {
	Log.Warn(fmt.Sprintf(format, v...))
}
