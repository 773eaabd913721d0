package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok() PingFunc   { return func(context.Context) error { return nil } }
func down() PingFunc { return func(context.Context) error { return errors.New("connection refused") } }

func get(t *testing.T, c *Checker, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	e := echo.New()
	c.RegisterRoutes(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestChecker(t *testing.T) {
	t.Run("should report not ready until startup completes", func(t *testing.T) {
		c := NewChecker("test").Critical("database", ok())

		rec, resp := get(t, c, "/api/health/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, StatusUnhealthy, resp.Checks["startup"].Status)

		c.SetReady(true)
		rec, resp = get(t, c, "/api/health/ready")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, StatusHealthy, resp.Status)
	})

	t.Run("should degrade on optional failures", func(t *testing.T) {
		c := NewChecker("test").Critical("database", ok()).Optional("redis", down())

		rec, resp := get(t, c, "/api/health")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, StatusDegraded, resp.Status)
		assert.Equal(t, "connection refused", resp.Checks["redis"].Message)
	})

	t.Run("should fail on critical failures", func(t *testing.T) {
		c := NewChecker("test").Critical("database", down()).Optional("redis", ok())

		rec, resp := get(t, c, "/api/health")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, StatusUnhealthy, resp.Status)
		assert.Equal(t, []string{"database", "redis"}, c.Names())
	})

	t.Run("should always be live", func(t *testing.T) {
		rec, resp := get(t, NewChecker("1.0").Critical("database", down()), "/api/health/live")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "1.0", resp.Version)
	})
}
