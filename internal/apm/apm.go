// Package apm wires OpenTelemetry tracing. Without a trace file the global
// no-op provider stays in place.
package apm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(context.Context) error

// Setup installs a global tracer provider exporting spans as JSON lines to
// traceFile. An empty traceFile installs nothing and returns a no-op shutdown.
func Setup(traceFile string) (ShutdownFunc, error) {
	if traceFile == "" {
		return func(context.Context) error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(traceFile), 0o700); err != nil {
		return nil, fmt.Errorf("creating trace dir: %w", err)
	}
	f, err := os.OpenFile(traceFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}, nil
}
