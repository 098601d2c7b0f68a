// Package logging builds the process logger and decorates it with request
// scoped attributes.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shinyyama/kidtokid/internal/reqctx"
)

// New creates a slog logger. level is one of debug, info, warn, error and
// format is json or text.
func New(level, format string, out io.Writer) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h)
}

// Discard returns a logger that drops everything. Used when a caller passes nil.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// FromContext adds rid and listing attributes found in ctx.
func FromContext(ctx context.Context, l *slog.Logger) *slog.Logger {
	if l == nil {
		l = Discard()
	}
	var args []any
	if rid := reqctx.RID(ctx); rid != "" {
		args = append(args, "rid", rid)
	}
	if id := reqctx.ListingID(ctx); id != "" {
		args = append(args, "listing", id)
	}
	if len(args) == 0 {
		return l
	}
	return l.With(args...)
}
