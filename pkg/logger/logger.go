// Package logger sets up the process-wide logrus logger and the field
// helpers shared by the commands and the match engine.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the process logger installed by InitLogger.
var Logger *logrus.Logger

// Options configures New.
type Options struct {
	// Level falls back to LOG_LEVEL, then to debug in development and info
	// otherwise
	Level       string
	Development bool
	// Output defaults to stderr; commentary and reports own stdout
	Output io.Writer
}

// New builds a logger. Production output is JSON; development output is
// text unless LOG_FORMAT=json.
func New(opts Options) *logrus.Logger {
	log := logrus.New()

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)

	if useJSON(opts.Development) {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}

	name := resolveLevel(opts.Level, opts.Development)
	level, err := logrus.ParseLevel(name)
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", name).Warn("Invalid log level, using info")
		return log
	}
	log.SetLevel(level)

	return log
}

func resolveLevel(level string, development bool) string {
	switch {
	case level != "":
	case os.Getenv("LOG_LEVEL") != "":
		level = os.Getenv("LOG_LEVEL")
	case development:
		level = "debug"
	default:
		level = "info"
	}
	return strings.ToLower(level)
}

func useJSON(development bool) bool {
	return !development || strings.EqualFold(os.Getenv("LOG_FORMAT"), "json")
}

// InitLogger builds the process logger and installs it as Logger.
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	Logger = New(Options{Level: logLevel, Development: isDevelopment})
	return Logger
}

// GetLogger returns Logger, installing an info-level one if needed.
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	return New(Options{Level: "panic", Output: io.Discard})
}

func base(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return GetLogger()
	}
	return log
}

// WithService tags log with the command name.
func WithService(log logrus.FieldLogger, service string) *logrus.Entry {
	return base(log).WithField("service", service)
}

// WithMatch scopes log to one fixture.
func WithMatch(log logrus.FieldLogger, matchID, home, away string) *logrus.Entry {
	return base(log).WithFields(logrus.Fields{
		"match_id": matchID,
		"home":     home,
		"away":     away,
	})
}

// WithTeam scopes log to one side of a fixture.
func WithTeam(log logrus.FieldLogger, team string, side int) *logrus.Entry {
	return base(log).WithFields(logrus.Fields{
		"team": team,
		"side": side,
	})
}
