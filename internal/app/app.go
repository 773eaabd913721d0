// Package app wires configuration, infrastructure and handlers into a
// runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rickylandino/val-builder-api/config"
	"github.com/rickylandino/val-builder-api/internal/repositories"
	"github.com/rickylandino/val-builder-api/internal/services/bracketmapping"
	"github.com/rickylandino/val-builder-api/internal/services/valdetail"
	"github.com/rickylandino/val-builder-api/internal/services/valheader"
	"github.com/rickylandino/val-builder-api/internal/services/valpdf"
	"github.com/rickylandino/val-builder-api/pkg/database"
	"github.com/rickylandino/val-builder-api/pkg/health"
	"github.com/rickylandino/val-builder-api/pkg/kafka"
	"github.com/rickylandino/val-builder-api/pkg/pdf"
	"github.com/rickylandino/val-builder-api/pkg/redis"
	"github.com/rickylandino/val-builder-api/pkg/render"
	"github.com/rickylandino/val-builder-api/pkg/startup"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

// Startup dependency names.
const (
	DependencyPostgres = "postgres"
	DependencyRedis    = "redis"
	DependencyKafka    = "kafka"
	DependencyBrowser  = "browser"
)

type Repositories struct {
	Companies      *repositories.CompanyRepository
	Plans          *repositories.CompanyPlanRepository
	Headers        *repositories.ValHeaderRepository
	Details        *repositories.ValDetailRepository
	Sections       *repositories.ValSectionRepository
	Templates      *repositories.ValTemplateItemRepository
	Attachments    *repositories.AttachmentRepository
	Annotations    *repositories.AnnotationRepository
	BracketMapping *repositories.BracketMappingRepository
}

type Services struct {
	Headers  *valheader.Service
	Details  *valdetail.Service
	Mappings *bracketmapping.Service
	PDF      *valpdf.Service
}

type App struct {
	Config   *config.Config
	Logger   ectologger.Logger
	DB       database.DB
	Redis    *redis.Client
	Events   kafka.Publisher
	Renderer *pdf.ChromeRenderer
	Checker  *health.Checker

	Repositories Repositories
	Services     Services

	zap      *zap.Logger
	tracer   *sdktrace.TracerProvider
	startup  *startup.Startup
	producer *kafka.Producer
}

// NewLogger builds the zap backed logger. PrettyLogs selects the development
// encoder.
func NewLogger(cfg *config.Config) (ectologger.Logger, *zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := zapCfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil), zapLogger, nil
}

// New sets up logging and tracing. Nothing is connected until Start.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, zapLogger, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	tracer, err := tracing.NewProvider(ctx, cfg.Tracing())
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Events:  kafka.NopPublisher{},
		zap:     zapLogger,
		tracer:  tracer,
		startup: startup.NewStartup(logger, cfg.StartupMaxAttempts),
	}
	a.Renderer = pdf.NewChromeRenderer(pdf.DefaultInstaller(cfg.ChromeBin), logger)
	a.Checker = health.NewChecker(cfg.Version)

	return a, nil
}

// Start connects every enabled dependency and builds the services. The
// browser is provisioned up front only when warmBrowser is set; otherwise the
// first render installs it.
func (a *App) Start(ctx context.Context, warmBrowser bool) error {
	a.startup.AddDependency(&startup.Dependency{
		Name:    DependencyPostgres,
		OnStart: a.startDatabase,
		OnStop: func(context.Context) error {
			return a.DB.Close()
		},
	})
	a.Checker.Critical(DependencyPostgres, health.PingFunc(func(ctx context.Context) error {
		if a.DB == nil {
			return errors.New("not connected")
		}
		return a.DB.PingContext(ctx)
	}))

	if a.Config.RedisEnabled {
		a.startup.AddDependency(&startup.Dependency{
			Name: DependencyRedis,
			OnStart: func(ctx context.Context) error {
				client, err := redis.NewClient(ctx, a.Config.Redis(), a.Logger)
				if err != nil {
					return err
				}
				a.Redis = client
				return nil
			},
			OnStop: func(context.Context) error {
				return a.Redis.Close()
			},
		})
		a.Checker.Optional(DependencyRedis, health.PingFunc(func(ctx context.Context) error {
			if a.Redis == nil {
				return errors.New("not connected")
			}
			return a.Redis.Ping(ctx)
		}))
	}

	if a.Config.KafkaEnabled {
		a.startup.AddDependency(&startup.Dependency{
			Name:    DependencyKafka,
			OnStart: a.startKafka,
			OnStop: func(context.Context) error {
				return a.producer.Close()
			},
		})
		a.Checker.Optional(DependencyKafka, health.PingFunc(func(ctx context.Context) error {
			return kafka.Ping(ctx, a.Config.KafkaBrokers)
		}))
	}

	if warmBrowser {
		a.startup.AddDependency(&startup.Dependency{
			Name:    DependencyBrowser,
			OnStart: a.Renderer.Warmup,
		})
	}

	if err := a.startup.Start(ctx); err != nil {
		return err
	}

	a.wire()
	a.Checker.SetReady(true)
	return nil
}

func (a *App) startDatabase(ctx context.Context) error {
	db, err := database.Connect(ctx, a.Config.Database(), a.Logger)
	if err != nil {
		return err
	}

	migrations := database.NewMigrationService(a.Logger, a.Config.Migrations())
	if err := migrations.MigratePostgres(db, a.Config.DatabaseName); err != nil {
		_ = db.Close()
		return err
	}

	a.DB = db
	return nil
}

func (a *App) startKafka(ctx context.Context) error {
	if err := kafka.Ping(ctx, a.Config.KafkaBrokers); err != nil {
		return fmt.Errorf("failed to reach kafka: %w", err)
	}

	producer, err := kafka.NewProducer(a.Config.Kafka(), a.Logger)
	if err != nil {
		return err
	}
	a.producer = producer
	a.Events = producer
	return nil
}

// wire builds repositories and services over the started dependencies.
func (a *App) wire() {
	cfg, logger := a.Config, a.Logger

	a.Repositories = Repositories{
		Companies:      repositories.NewCompanyRepository(a.DB, logger),
		Plans:          repositories.NewCompanyPlanRepository(a.DB, logger),
		Headers:        repositories.NewValHeaderRepository(a.DB, logger),
		Details:        repositories.NewValDetailRepository(a.DB, logger),
		Sections:       repositories.NewValSectionRepository(a.DB, logger),
		Templates:      repositories.NewValTemplateItemRepository(a.DB, logger),
		Attachments:    repositories.NewAttachmentRepository(a.DB, logger),
		Annotations:    repositories.NewAnnotationRepository(a.DB, logger),
		BracketMapping: repositories.NewBracketMappingRepository(a.DB, logger),
	}
	r := a.Repositories

	var (
		cache  bracketmapping.Cache
		locker valdetail.Locker
	)
	if a.Redis != nil {
		cache = redis.NewMappingCache(a.Redis, cfg.MappingCacheTTL)
		locker = redis.NewLocker(a.Redis, cfg.DetailLockTTL, cfg.DetailLockWait)
	}

	mappings := bracketmapping.NewService(logger, r.BracketMapping, cache)

	renderer := withRenderTimeout(a.Renderer, cfg.RenderTimeout)

	a.Services = Services{
		Headers:  valheader.NewService(logger, a.DB, r.Headers, r.Templates, r.Details, a.Events),
		Details:  valdetail.NewService(logger, a.DB, r.Details, locker, a.Events),
		Mappings: mappings,
		PDF: valpdf.NewService(logger, valpdf.Sources{
			Headers:     r.Headers,
			Details:     r.Details,
			Sections:    r.Sections,
			Attachments: r.Attachments,
			Plans:       r.Plans,
			Companies:   r.Companies,
			Mappings:    mappings,
		}, render.NewBuilder(cfg.Branding()), renderer, pdf.NewPageMerger(logger), cfg.Page(), a.Events),
	}
}

// withRenderTimeout bounds each browser render when limit is positive.
// Otherwise the caller's context is the only deadline.
func withRenderTimeout(r pdf.Renderer, limit time.Duration) pdf.Renderer {
	if limit <= 0 {
		return r
	}
	return pdf.RendererFunc(func(ctx context.Context, html string, opts pdf.PageOptions) ([]byte, error) {
		ctx, cancel := context.WithTimeout(ctx, limit)
		defer cancel()
		return r.Render(ctx, html, opts)
	})
}

// Stop releases dependencies in reverse start order and flushes telemetry.
func (a *App) Stop(ctx context.Context) error {
	err := a.startup.Stop(ctx)
	if a.tracer != nil {
		if terr := a.tracer.Shutdown(ctx); terr != nil && err == nil {
			err = terr
		}
	}
	_ = a.zap.Sync()
	return err
}

// Migrate applies pending migrations and disconnects.
func (a *App) Migrate(ctx context.Context) error {
	if err := a.startDatabase(ctx); err != nil {
		return err
	}
	return a.DB.Close()
}
