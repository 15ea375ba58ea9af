package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// FieldComponent is the structured field carrying a logger's prefix.
const FieldComponent = "component"

// Logger is a prefixed logger backed by a shared logrus instance
type Logger struct {
	base   *logrus.Logger
	prefix string
	entry  *logrus.Entry
}

// Config holds logger configuration options
type Config struct {
	Level       string // "debug", "info", "warn", "error", "fatal"
	Output      io.Writer
	Prefix      string
	EnableColor bool
	JSON        bool
}

// DefaultConfig returns a default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Output:      os.Stdout,
		EnableColor: true,
	}
}

// ParseLevel converts a string level to a logrus level, defaulting to info
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
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
	default:
		return logrus.InfoLevel
	}
}

// New creates a new Logger instance
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	base := logrus.New()
	base.SetOutput(config.Output)
	base.SetLevel(ParseLevel(config.Level))
	if config.JSON {
		base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			ForceColors:     config.EnableColor,
			DisableColors:   !config.EnableColor,
		})
	}

	return newWithBase(base, config.Prefix)
}

func newWithBase(base *logrus.Logger, prefix string) *Logger {
	entry := logrus.NewEntry(base)
	if prefix != "" {
		entry = entry.WithField(FieldComponent, prefix)
	}
	return &Logger{base: base, prefix: prefix, entry: entry}
}

// NewDefault creates a logger with default configuration
func NewDefault() *Logger {
	return New(DefaultConfig())
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level string) {
	l.base.SetLevel(ParseLevel(level))
}

// SetOutput sets the output destination
func (l *Logger) SetOutput(w io.Writer) {
	l.base.SetOutput(w)
}

// IsLevelEnabled checks if the given level is enabled
func (l *Logger) IsLevelEnabled(level string) bool {
	return l.base.IsLevelEnabled(ParseLevel(level))
}

// Prefix returns the component prefix of this logger
func (l *Logger) Prefix() string {
	return l.prefix
}

func (l *Logger) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Info(args ...interface{})                  { l.entry.Info(args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warn(args ...interface{})                  { l.entry.Warn(args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// Fatal logs a message at FATAL level and exits the program
func (l *Logger) Fatal(args ...interface{}) { l.entry.Fatal(args...) }

// Fatalf logs a formatted message at FATAL level and exits the program
func (l *Logger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

// WithPrefix returns a new logger with the specified prefix. Prefixes nest
// with a colon so "api" then "predictions" logs as "api:predictions".
func (l *Logger) WithPrefix(prefix string) *Logger {
	newPrefix := prefix
	if l.prefix != "" {
		newPrefix = l.prefix + ":" + prefix
	}
	return newWithBase(l.base, newPrefix)
}

// WithField returns a logger entry carrying an extra structured field.
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.entry.WithField(key, value)
}

// WithFields returns a logger entry carrying extra structured fields.
func (l *Logger) WithFields(fields map[string]interface{}) *logrus.Entry {
	return l.entry.WithFields(logrus.Fields(fields))
}
