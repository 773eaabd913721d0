package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/rickylandino/val-builder-api/internal/handlers"
	"github.com/rickylandino/val-builder-api/pkg/middleware"
)

// Router builds the echo instance with every route mounted. Start must have
// been called.
func (a *App) Router() *echo.Echo {
	cfg, logger := a.Config, a.Logger

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomw.Recover())
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(echomw.BodyLimit(cfg.BodyLimit))

	a.Checker.RegisterRoutes(e)
	e.GET(cfg.MetricsPath, echo.WrapHandler(promhttp.Handler()))

	r, s := a.Repositories, a.Services
	api := e.Group("/api")

	handlers.NewCompanyHandler(r.Companies, logger).Register(api.Group("/companies"))
	handlers.NewCompanyPlanHandler(r.Plans, logger).Register(api.Group("/companyplan"))
	handlers.NewValHeaderHandler(s.Headers, logger).Register(api.Group("/valheader"))

	val := api.Group("/val")
	handlers.NewValDetailHandler(s.Details, logger).Register(val)
	handlers.NewValPdfHandler(s.PDF, logger).Register(val)

	handlers.NewValSectionHandler(r.Sections, logger).Register(api.Group("/valsections"))
	handlers.NewValTemplateItemHandler(r.Templates, logger).Register(api.Group("/valtemplateitems"))
	handlers.NewAttachmentHandler(r.Attachments, logger).Register(api.Group("/valpdfattachments"))
	handlers.NewAnnotationHandler(r.Annotations, logger).Register(api.Group("/valannotations"))
	handlers.NewBracketMappingHandler(s.Mappings, logger).Register(api.Group("/bracketmappings"))

	return e
}

// Serve runs the HTTP server until ctx is cancelled, then drains it.
func (a *App) Serve(ctx context.Context) error {
	cfg := a.Config

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           a.Router(),
		ReadTimeout:       time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.WithContext(ctx).Infof("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Checker.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	a.Logger.WithContext(ctx).Info("Shutting down HTTP server")
	return server.Shutdown(shutdownCtx)
}
