package logging

import (
	"os"
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// Initialize the global logger from the environment so packages can log
// before config.Load has run.
func init() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	globalLogger = New(Config{
		Level:       level,
		Output:      os.Stdout,
		EnableColor: os.Getenv("LOG_COLOR") != "false",
	})
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// Configure configures the global logger
func Configure(config Config) {
	SetGlobalLogger(New(config))
}

func Debug(args ...interface{})                 { GetGlobalLogger().Debug(args...) }
func Debugf(format string, args ...interface{}) { GetGlobalLogger().Debugf(format, args...) }
func Info(args ...interface{})                  { GetGlobalLogger().Info(args...) }
func Infof(format string, args ...interface{})  { GetGlobalLogger().Infof(format, args...) }
func Warn(args ...interface{})                  { GetGlobalLogger().Warn(args...) }
func Warnf(format string, args ...interface{})  { GetGlobalLogger().Warnf(format, args...) }
func Error(args ...interface{})                 { GetGlobalLogger().Error(args...) }
func Errorf(format string, args ...interface{}) { GetGlobalLogger().Errorf(format, args...) }

// Fatal logs a message at FATAL level using the global logger and exits the program
func Fatal(args ...interface{}) { GetGlobalLogger().Fatal(args...) }

// Fatalf logs a formatted message at FATAL level using the global logger and exits the program
func Fatalf(format string, args ...interface{}) { GetGlobalLogger().Fatalf(format, args...) }

// WithPrefix returns a new logger with the specified prefix using the global logger
func WithPrefix(prefix string) *Logger {
	return GetGlobalLogger().WithPrefix(prefix)
}
