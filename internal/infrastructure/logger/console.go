package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// ANSI 256 colors used by the console format.
const (
	colorError     uint8 = 9
	colorSuccess   uint8 = 10
	colorTimestamp uint8 = 13
	colorLog       uint8 = 14
)

const (
	tagLog   = "[LOG]"
	tagError = "[ERROR]"
)

// consoleHandler moves the record time into the message so that a line
// reads "[LOG] [d/m/yyyy | HH:MM:SS UTC] message". tint always prints the
// time before the level.
type consoleHandler struct {
	slog.Handler
	color bool
}

func newConsoleHandler(output io.Writer, level slog.Level) slog.Handler {
	color := colorEnabled(output)
	return &consoleHandler{
		Handler: tint.NewHandler(output, &tint.Options{
			Level:       level,
			NoColor:     !color,
			ReplaceAttr: replaceConsoleAttr,
		}),
		color: color,
	}
}

func (h *consoleHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(time.Time{}, r.Level, h.timestamp(r.Time)+" "+r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(a)
		return true
	})
	return h.Handler.Handle(ctx, out)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{Handler: h.Handler.WithAttrs(attrs), color: h.color}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	return &consoleHandler{Handler: h.Handler.WithGroup(name), color: h.color}
}

func (h *consoleHandler) timestamp(t time.Time) string {
	stamp := "[" + FormatTimestamp(t) + "]"
	if !h.color {
		return stamp
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorTimestamp, stamp)
}

// colorEnabled reports whether escape codes should be written. Buffers and
// files never get them, and NO_COLOR turns them off everywhere.
func colorEnabled(output io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return output == os.Stdout || output == os.Stderr
}

func replaceConsoleAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) != 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		return slog.Attr{}
	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok {
			return severityAttr(level)
		}
	}
	return a
}

func severityAttr(level slog.Level) slog.Attr {
	color := colorLog
	switch {
	case level >= slog.LevelError:
		color = colorError
	case level == LevelSuccess:
		color = colorSuccess
	}
	return tint.Attr(color, slog.String(slog.LevelKey, severityTag(level)))
}

// severityTag returns the console tag printed for a level.
func severityTag(level slog.Level) string {
	if level >= slog.LevelError {
		return tagError
	}
	return tagLog
}

// FormatTimestamp renders t as "d/m/yyyy | HH:MM:SS UTC".
//
// The calendar date is taken in the local zone while the clock is taken in
// UTC, so around midnight the two halves can disagree by a day.
func FormatTimestamp(t time.Time) string {
	return formatTimestampIn(t, time.Local)
}

func formatTimestampIn(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	utc := t.UTC()
	return fmt.Sprintf("%d/%d/%d | %02d:%02d:%02d UTC",
		local.Day(), int(local.Month()), local.Year(),
		utc.Hour(), utc.Minute(), utc.Second(),
	)
}
