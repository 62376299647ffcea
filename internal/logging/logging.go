// Package logging builds the logrus logger shared by the installer.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvLogLevel is consulted when no explicit level is given
const EnvLogLevel = "LOG_LEVEL"

// ParseLevel maps a level name to a logrus level. Empty or unknown names
// fall back to warn.
func ParseLevel(name string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.WarnLevel
	}
}

// LevelFromEnv resolves the level from flag, then LOG_LEVEL
func LevelFromEnv(flag string) logrus.Level {
	if flag != "" {
		return ParseLevel(flag)
	}
	return ParseLevel(os.Getenv(EnvLogLevel))
}

// New creates a text logger writing to w (stderr when nil)
func New(level logrus.Level, w io.Writer) *logrus.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

// Discard returns a logger that drops everything
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
