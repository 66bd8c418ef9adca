// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu  sync.RWMutex
	log *logrus.Logger
)

// Init configures the global logger.
// env: "dev"/"development" gives text output, anything else JSON.
func Init(env, level string) {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	switch env {
	case "dev", "development", "local":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		l.SetLevel(logrus.DebugLevel)
	default:
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(logrus.InfoLevel)
	}

	if level != "" {
		if parsed, err := logrus.ParseLevel(level); err == nil {
			l.SetLevel(parsed)
		}
	}

	mu.Lock()
	log = l
	mu.Unlock()
}

// SetOutput redirects the global logger, used by tests to silence output.
func SetOutput(w io.Writer) {
	GetLogger().SetOutput(w)
}

// GetLogger returns the global logger, initializing a development logger if needed.
func GetLogger() *logrus.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l == nil {
		Init("development", "")
		mu.RLock()
		l = log
		mu.RUnlock()
	}
	return l
}

func Debug(msg string, args ...any) {
	With(args...).Debug(msg)
}

func Info(msg string, args ...any) {
	With(args...).Info(msg)
}

func Warn(msg string, args ...any) {
	With(args...).Warn(msg)
}

func Error(msg string, args ...any) {
	With(args...).Error(msg)
}

// Fatal logs and exits the process.
func Fatal(msg string, args ...any) {
	With(args...).Error(msg)
	os.Exit(1)
}

// With builds an entry from alternating key/value pairs.
// Example: logger.With("user_id", id, "job_id", jobID).Info("applied")
func With(args ...any) *logrus.Entry {
	return GetLogger().WithFields(fields(args))
}

// WithError returns an entry carrying the error field.
func WithError(err error) *logrus.Entry {
	return GetLogger().WithError(err)
}

func fields(args []any) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		f[key] = args[i+1]
	}
	if len(args)%2 == 1 {
		f["!BADKEY"] = args[len(args)-1]
	}
	return f
}
