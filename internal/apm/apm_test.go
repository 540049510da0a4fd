package apm_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/Mohsinsiddi/cdico/internal/apm"
)

func TestSetupWithoutFileIsNoop(t *testing.T) {
	shutdown, err := apm.Setup("")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	path := filepath.Join(t.TempDir(), "trace", "spans.json")
	shutdown, err := apm.Setup(path)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "eth_chainId")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "eth_chainId")
}
