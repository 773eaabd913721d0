// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type Response struct {
	Status     Status                 `json:"status"`
	Version    string                 `json:"version,omitempty"`
	Uptime     string                 `json:"uptime,omitempty"`
	Checks     map[string]CheckResult `json:"checks,omitempty"`
	ReportedAt time.Time              `json:"reportedAt"`
}

// Pinger is anything that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type check struct {
	name     string
	pinger   Pinger
	critical bool
}

// Checker aggregates named dependency checks. A failing critical check makes
// the service unhealthy, a failing optional one only degraded.
type Checker struct {
	checks    []check
	startTime time.Time
	version   string
	ready     atomic.Bool
	timeout   time.Duration
}

func NewChecker(version string) *Checker {
	return &Checker{
		startTime: time.Now(),
		version:   version,
		timeout:   5 * time.Second,
	}
}

// Critical registers a check that must pass for the service to be ready.
func (c *Checker) Critical(name string, p Pinger) *Checker {
	c.checks = append(c.checks, check{name: name, pinger: p, critical: true})
	return c
}

// Optional registers a check whose failure degrades the service.
func (c *Checker) Optional(name string, p Pinger) *Checker {
	c.checks = append(c.checks, check{name: name, pinger: p})
	return c
}

func (c *Checker) SetReady(ready bool) {
	c.ready.Store(ready)
}

func (c *Checker) IsReady() bool {
	return c.ready.Load()
}

// LivenessHandler reports that the process is serving requests.
func (c *Checker) LivenessHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, Response{
		Status:     StatusHealthy,
		Version:    c.version,
		Uptime:     c.uptime(),
		ReportedAt: time.Now(),
	})
}

// ReadinessHandler fails until startup completes, then runs every check.
func (c *Checker) ReadinessHandler(ctx echo.Context) error {
	if !c.IsReady() {
		return ctx.JSON(http.StatusServiceUnavailable, Response{
			Status:     StatusUnhealthy,
			Version:    c.version,
			ReportedAt: time.Now(),
			Checks: map[string]CheckResult{
				"startup": {Status: StatusUnhealthy, Message: "service is still starting up"},
			},
		})
	}
	return c.HealthHandler(ctx)
}

func (c *Checker) HealthHandler(ctx echo.Context) error {
	resp := c.Run(ctx.Request().Context())

	statusCode := http.StatusOK
	if resp.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	return ctx.JSON(statusCode, resp)
}

// Run executes every registered check.
func (c *Checker) Run(ctx context.Context) Response {
	results := make(map[string]CheckResult, len(c.checks))
	overall := StatusHealthy

	for _, chk := range c.checks {
		res := c.ping(ctx, chk.pinger)
		if res.Status == StatusUnhealthy && !chk.critical {
			res.Status = StatusDegraded
		}
		results[chk.name] = res
		overall = worst(overall, res.Status)
	}

	return Response{
		Status:     overall,
		Version:    c.version,
		Uptime:     c.uptime(),
		Checks:     results,
		ReportedAt: time.Now(),
	}
}

// Names lists registered checks in sorted order.
func (c *Checker) Names() []string {
	names := make([]string, 0, len(c.checks))
	for _, chk := range c.checks {
		names = append(names, chk.name)
	}
	sort.Strings(names)
	return names
}

func (c *Checker) ping(ctx context.Context, p Pinger) CheckResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Message: err.Error(), Latency: time.Since(start).String()}
	}
	return CheckResult{Status: StatusHealthy, Latency: time.Since(start).String()}
}

func (c *Checker) uptime() string {
	return time.Since(c.startTime).Round(time.Second).String()
}

func worst(a, b Status) Status {
	rank := map[Status]int{StatusHealthy: 0, StatusDegraded: 1, StatusUnhealthy: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// RegisterRoutes mounts the probes under /api/health.
func (c *Checker) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/health")
	g.GET("", c.HealthHandler)
	g.GET("/live", c.LivenessHandler)
	g.GET("/ready", c.ReadinessHandler)
}
