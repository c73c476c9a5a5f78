package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger represents a structured logger
type Logger struct {
	logger zerolog.Logger
}

// Fields represents log fields
type Fields map[string]interface{}

// Options configures the logger outputs
type Options struct {
	Level string
	// File is the path of the rotating log file. Empty disables file output.
	File    string
	AppName string
	// Console overrides the console writer, mostly for tests.
	Console io.Writer
}

var (
	// Default is the default logger instance
	Default *Logger
)

// Init initializes the logger with the given options
func Init(opts Options) {
	level := parseLevel(opts.Level)

	// Configure zerolog
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(level)

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
	}}

	// Rotate at 1MB, keep 3 backups
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    1,
			MaxBackups: 3,
		})
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp()
	if opts.AppName != "" {
		ctx = ctx.Str("app", opts.AppName)
	}

	Default = &Logger{logger: ctx.Logger()}

	Default.Debug().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// New wraps an existing zerolog logger
func New(l zerolog.Logger) *Logger {
	return &Logger{logger: l}
}

// parseLevel returns the zerolog level for a textual level, defaulting to info
func parseLevel(levelStr string) zerolog.Level {
	if levelStr == "" {
		return zerolog.InfoLevel
	}

	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func ensureDefault() {
	if Default == nil {
		Init(Options{})
	}
}

// WithFields creates a new logger with fields
func (l *Logger) WithFields(fields Fields) *Logger {
	newLogger := l.logger.With()
	for k, v := range fields {
		newLogger = newLogger.Interface(k, v)
	}
	return &Logger{logger: newLogger.Logger()}
}

// WithField creates a new logger with a single field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// Debug returns a debug event
func (l *Logger) Debug() *zerolog.Event {
	return l.logger.Debug()
}

// Info returns an info event
func (l *Logger) Info() *zerolog.Event {
	return l.logger.Info()
}

// Warn returns a warn event
func (l *Logger) Warn() *zerolog.Event {
	return l.logger.Warn()
}

// Error returns an error event
func (l *Logger) Error() *zerolog.Event {
	return l.logger.Error()
}

// WithError adds an error to the logger
func (l *Logger) WithError(err error) *Logger {
	return &Logger{logger: l.logger.With().Err(err).Logger()}
}

// Global functions for backward compatibility

// Debug logs a debug message
func Debug(format string, v ...interface{}) {
	ensureDefault()
	Default.Debug().Msgf(format, v...)
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	ensureDefault()
	Default.Info().Msgf(format, v...)
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	ensureDefault()
	Default.Warn().Msgf(format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	ensureDefault()
	Default.Error().Msgf(format, v...)
}

// ForCrawler creates a logger for a specific crawler
func ForCrawler(crawlerName string) *Logger {
	ensureDefault()
	return Default.WithField("crawler", crawlerName)
}

// ForWorker creates a logger for the worker
func ForWorker() *Logger {
	ensureDefault()
	return Default.WithField("component", "worker")
}

// ForNotifier creates a logger for the notifier
func ForNotifier() *Logger {
	ensureDefault()
	return Default.WithField("component", "notifier")
}

// ForCache creates a logger for the cache
func ForCache() *Logger {
	ensureDefault()
	return Default.WithField("component", "cache")
}

// ForStorage creates a logger for the product storage
func ForStorage() *Logger {
	ensureDefault()
	return Default.WithField("component", "storage")
}

// ForAPI creates a logger for the HTTP API
func ForAPI() *Logger {
	ensureDefault()
	return Default.WithField("component", "api")
}

// LogError is a convenience method for logging errors with context
func LogError(component string, err error, format string, v ...interface{}) {
	ensureDefault()
	msg := fmt.Sprintf(format, v...)
	Default.Error().
		Str("component", component).
		Err(err).
		Msg(msg)
}

// LogInfo is a convenience method for logging info with context
func LogInfo(component string, format string, v ...interface{}) {
	ensureDefault()
	msg := fmt.Sprintf(format, v...)
	Default.Info().
		Str("component", component).
		Msg(msg)
}
