// Package observe builds the process logger. The TUI owns the terminal, so
// records go to a file. With telemetry on they also go to the OpenTelemetry
// log pipeline, and request spans are recorded in the same file.
package observe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/gravitrone/libris/internal/config"
)

// ScopeName identifies libris in telemetry backends.
const ScopeName = "libris"

const shutdownTimeout = 5 * time.Second

// NewLogger returns a JSON logger writing to w at level. With telemetry on,
// every record is also handed to the otelslog bridge.
func NewLogger(w io.Writer, level slog.Level, telemetry bool) *slog.Logger {
	var handlers []slog.Handler
	if w != nil {
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	if telemetry {
		handlers = append(handlers, otelslog.NewHandler(ScopeName))
	}
	switch len(handlers) {
	case 0:
		return slog.New(slog.DiscardHandler)
	case 1:
		return slog.New(handlers[0])
	}
	return slog.New(fanout(handlers))
}

// Setup opens the log file named by cfg and returns the logger and a closer.
// With telemetry on it also installs a global TracerProvider whose spans are
// written to the logger; the closer flushes it.
func Setup(cfg *config.Config) (*slog.Logger, func() error, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	f, err := OpenLogFile(config.LogPath())
	if err != nil {
		return nil, nil, err
	}
	logger := NewLogger(f, cfg.Level(), cfg.Telemetry)
	if !cfg.Telemetry {
		return logger, f.Close, nil
	}

	tp, err := NewTracerProvider(logger)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	closeFn := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(tp.Shutdown(ctx), f.Close())
	}
	return logger, closeFn, nil
}

// NewTracerProvider returns an SDK provider that batches finished spans into
// logger at debug level.
func NewTracerProvider(logger *slog.Logger) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceNameKey.String(ScopeName)),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanLogger{logger: logger}),
		sdktrace.WithResource(res),
	), nil
}

// OpenLogFile opens path for appending, creating its directory.
func OpenLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// spanLogger exports spans as log records.
type spanLogger struct {
	logger *slog.Logger
}

func (e spanLogger) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		e.logger.LogAttrs(ctx, slog.LevelDebug, "span",
			slog.String("name", s.Name()),
			slog.String("trace_id", s.SpanContext().TraceID().String()),
			slog.String("span_id", s.SpanContext().SpanID().String()),
			slog.String("status", s.Status().Code.String()),
			slog.Duration("duration", s.EndTime().Sub(s.StartTime())),
		)
	}
	return nil
}

func (spanLogger) Shutdown(context.Context) error { return nil }

// fanout hands each record to every handler that accepts its level.
type fanout []slog.Handler

func (h fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, next := range h {
		if next.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, next := range h {
		if next.Enabled(ctx, r.Level) {
			errs = append(errs, next.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(h))
	for i, next := range h {
		out[i] = next.WithAttrs(attrs)
	}
	return out
}

func (h fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(h))
	for i, next := range h {
		out[i] = next.WithGroup(name)
	}
	return out
}
