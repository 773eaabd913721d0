package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	t.Run("should count renders by status", func(t *testing.T) {
		before := testutil.ToFloat64(RendersTotal.WithLabelValues("success"))
		RecordRender("success", 0.3)
		assert.Equal(t, before+1, testutil.ToFloat64(RendersTotal.WithLabelValues("success")))
	})

	t.Run("should add copied template items", func(t *testing.T) {
		before := testutil.ToFloat64(TemplateItemsCopied)
		RecordTemplateItemsCopied(4)
		assert.Equal(t, before+4, testutil.ToFloat64(TemplateItemsCopied))
	})

	t.Run("should count substitutions by outcome", func(t *testing.T) {
		before := testutil.ToFloat64(BracketSubstitutions.WithLabelValues("unmapped"))
		RecordBracketSubstitution("unmapped")
		RecordBracketSubstitution("unmapped")
		assert.Equal(t, before+2, testutil.ToFloat64(BracketSubstitutions.WithLabelValues("unmapped")))
	})

	t.Run("should count http requests by route", func(t *testing.T) {
		RecordHTTPRequest("GET", "/api/val/:valId/pdf", "200", 1.2)
		assert.GreaterOrEqual(t, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/val/:valId/pdf", "200")), 1.0)
	})
}
