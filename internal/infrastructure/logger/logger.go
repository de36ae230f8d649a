package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// LevelSuccess sits between info and warn so that success lines survive an
// info threshold but are hidden once only warnings and errors are wanted.
const LevelSuccess = slog.LevelInfo + 2

// LevelFrom creates a Level from a string value.
// Returns LevelInfo if the value is invalid.
func LevelFrom(s string) Level {
	switch Level(s) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn:
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

type LogHandler string

const (
	JSON    LogHandler = "json"
	TEXT    LogHandler = "text"
	CONSOLE LogHandler = "console"
)

// FormatFrom creates a LogHandler from a string value.
// Returns CONSOLE if the value is invalid.
func FormatFrom(s string) LogHandler {
	switch LogHandler(s) {
	case JSON:
		return JSON
	case TEXT:
		return TEXT
	default:
		return CONSOLE
	}
}

// Logger is the structured logger handed to every component. It is always
// passed explicitly; nothing in the module touches a process-wide logger.
type Logger struct {
	logger *slog.Logger
}

// New creates a new Logger with the specified level, handler type, and output.
// If output is nil, stdout is used.
func New(level Level, logHandler LogHandler, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: replaceLevelName,
	}

	handler := createHandler(logHandler, output, opts)
	return &Logger{
		logger: slog.New(handler),
	}
}

// NewFromEnvs creates a new Logger with settings from environment variables.
// Uses sensible defaults if environment variables are not set:
//   - THERMOCORD_LOG_LEVEL: defaults to "info" (debug, info, warn, error)
//   - THERMOCORD_LOG_FORMAT: defaults to "console" (console, json or text)
//   - Output: always stdout
func NewFromEnvs() *Logger {
	level := LevelFrom(os.Getenv("THERMOCORD_LOG_LEVEL"))
	format := FormatFrom(os.Getenv("THERMOCORD_LOG_FORMAT"))
	return New(level, format, nil)
}

func createHandler(handlerType LogHandler, output io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch handlerType {
	case JSON:
		return slog.NewJSONHandler(output, opts)
	case TEXT:
		return slog.NewTextHandler(output, opts)
	default:
		return newConsoleHandler(output, opts.Level.Level())
	}
}

func parseLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// replaceLevelName gives LevelSuccess a readable name in the json and text
// handlers, which would otherwise print it as "INFO+2".
func replaceLevelName(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) != 0 {
		return a
	}
	if level, ok := a.Value.Any().(slog.Level); ok && level == LevelSuccess {
		return slog.String(slog.LevelKey, "SUCCESS")
	}
	return a
}

func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

// Success logs an outcome worth highlighting, such as a completed handshake.
func (l *Logger) Success(msg string, args ...any) {
	l.logger.Log(context.Background(), LevelSuccess, msg, args...)
}

func (l *Logger) SuccessContext(ctx context.Context, msg string, args ...any) {
	l.logger.Log(ctx, LevelSuccess, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		logger: l.logger.With(args...),
	}
}

func (l *Logger) WithGroup(name string) *Logger {
	return &Logger{
		logger: l.logger.WithGroup(name),
	}
}

// Stop performs any necessary cleanup for the logger.
// This is a no-op for slog-based loggers.
func (l *Logger) Stop() error {
	return nil
}
