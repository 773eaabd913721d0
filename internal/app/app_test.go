package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickylandino/val-builder-api/config"
	"github.com/rickylandino/val-builder-api/pkg/health"
	"github.com/rickylandino/val-builder-api/pkg/pdf"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)

	a := &App{
		Config:  cfg,
		Logger:  ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}),
		Checker: health.NewChecker("test"),
	}
	a.wire()
	return a
}

func TestNewLogger(t *testing.T) {
	t.Run("should reject an unknown level", func(t *testing.T) {
		_, _, err := NewLogger(&config.Config{LogLevel: "loud"})
		assert.Error(t, err)
	})

	t.Run("should build a development logger", func(t *testing.T) {
		logger, zapLogger, err := NewLogger(&config.Config{LogLevel: "debug", PrettyLogs: true})
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.NotNil(t, zapLogger)
	})
}

func TestRouter(t *testing.T) {
	a := newTestApp(t)
	e := a.Router()

	t.Run("should mount every api route", func(t *testing.T) {
		routes := map[string]bool{}
		for _, r := range e.Routes() {
			routes[r.Method+" "+r.Path] = true
		}

		for _, want := range []string{
			"GET /api/companies/:id",
			"GET /api/companyplan/company/:companyId",
			"POST /api/valheader",
			"POST /api/val/:valId/details/save-changes",
			"DELETE /api/val/:valId/details/:id",
			"GET /api/val/:valId/pdf",
			"GET /api/valsections/group/:groupId",
			"PUT /api/valtemplateitems/displayorder",
			"GET /api/valpdfattachments/by-val/:valId",
			"DELETE /api/valannotations/:id",
			"PUT /api/bracketmappings/:id",
			"GET /api/health/ready",
			"GET /metrics",
		} {
			assert.True(t, routes[want], "missing route %s", want)
		}
	})

	t.Run("should report not ready before startup", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("should stamp a request id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/live", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("should answer unknown routes with a json error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nothing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), `"request_id"`)
	})
}

func TestWithRenderTimeout(t *testing.T) {
	var hasDeadline bool
	spy := pdf.RendererFunc(func(ctx context.Context, _ string, _ pdf.PageOptions) ([]byte, error) {
		_, hasDeadline = ctx.Deadline()
		return []byte("%PDF"), ctx.Err()
	})

	t.Run("should leave the deadline to the caller by default", func(t *testing.T) {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "none.env"))
		require.NoError(t, err)
		assert.Zero(t, cfg.RenderTimeout)

		out, err := withRenderTimeout(spy, cfg.RenderTimeout).Render(context.Background(), "<p/>", pdf.LetterPage())
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF"), out)
		assert.False(t, hasDeadline)
	})

	t.Run("should bound the render when a limit is configured", func(t *testing.T) {
		_, err := withRenderTimeout(spy, time.Minute).Render(context.Background(), "<p/>", pdf.LetterPage())
		require.NoError(t, err)
		assert.True(t, hasDeadline)
	})
}
