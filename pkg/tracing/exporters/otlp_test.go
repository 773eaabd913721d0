package exporters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOTLPExporter(t *testing.T) {
	t.Run("should reject an unknown protocol", func(t *testing.T) {
		_, err := NewOTLPExporter(context.Background(), OTLPConfig{Protocol: "udp"})
		assert.ErrorContains(t, err, "unsupported OTLP protocol")
	})

	for _, protocol := range []string{"grpc", "http"} {
		t.Run("should build a "+protocol+" exporter without a collector", func(t *testing.T) {
			exp, err := NewOTLPExporter(context.Background(), OTLPConfig{
				Endpoint: "localhost:4317",
				Protocol: protocol,
				Insecure: true,
				Timeout:  time.Second,
			})
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = exp.Shutdown(ctx)
		})
	}
}
