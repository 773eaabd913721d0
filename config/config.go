package config

import (
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/joho/godotenv"

	"github.com/rickylandino/val-builder-api/pkg/database"
	"github.com/rickylandino/val-builder-api/pkg/kafka"
	"github.com/rickylandino/val-builder-api/pkg/pdf"
	"github.com/rickylandino/val-builder-api/pkg/redis"
	"github.com/rickylandino/val-builder-api/pkg/render"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
	"github.com/rickylandino/val-builder-api/pkg/tracing/exporters"
)

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"val-builder-api"`
	Version                       string   `env:"APP_VERSION" env-default:"dev"`
	Port                          int      `env:"PORT" env-default:"5000"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"120"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"60"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	BodyLimit                     string   `env:"HTTP_SERVER_BODY_LIMIT" env-default:"50M"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`
	MetricsPath                   string   `env:"METRICS_PATH" env-default:"/metrics"`

	// Database driver
	DatabaseDriver string `env:"DB_DRIVER" env-default:"postgres"`
	// Database host
	DatabaseHost string `env:"DB_HOST" env-default:"localhost"`
	// Database port
	DatabasePort string `env:"DB_PORT" env-default:"5432"`
	// Database user
	DatabaseUserName string `env:"DB_USER_NAME" env-default:"postgres"`
	// Database user password
	DatabasePassword string `env:"DB_PASSWORD" env-default:""`
	// Database name
	DatabaseName string `env:"DB_NAME" env-default:"valbuilder"`
	// Database SSL Mode
	DatabaseSSLMode string `env:"DB_SSL_MODE" env-default:"disable"`
	// Max Open Conns
	DatabaseMaxOpenConns int `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	// Max Idle Conns
	DatabaseMaxIdleConns int `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	// Conn Max Lifetime
	DatabaseConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	// Migration Folder Path
	DatabaseMigrationFolderPath string `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	// Database Migration Version
	DatabaseMigrationVersion int `env:"DB_MIGRATION_VERSION" env-default:"0"`
	// Database Migration Force
	DatabaseMigrationForce int `env:"DB_MIGRATION_FORCE" env-default:"0"`
	// Database Migration Auto Rollback
	DatabaseMigrationAutoRollback bool `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Redis backs the mapping cache and the detail batch lock. Both are skipped when disabled.
	RedisEnabled    bool          `env:"REDIS_ENABLED" env-default:"false"`
	RedisHost       string        `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort       int           `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD" env-default:""`
	RedisDB         int           `env:"REDIS_DB" env-default:"0"`
	RedisKeyPrefix  string        `env:"REDIS_KEY_PREFIX" env-default:"valbuilder"`
	MappingCacheTTL time.Duration `env:"MAPPING_CACHE_TTL" env-default:"5m"`
	DetailLockTTL   time.Duration `env:"DETAIL_LOCK_TTL" env-default:"30s"`
	DetailLockWait  time.Duration `env:"DETAIL_LOCK_WAIT" env-default:"2s"`

	// Kafka Producer
	KafkaEnabled      bool     `env:"KAFKA_ENABLED" env-default:"false"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaTopic        string   `env:"KAFKA_TOPIC" env-default:"val-document-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"1"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"10"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Tracing
	TracingEnabled  bool          `env:"TRACING_ENABLED" env-default:"false"`
	TracingEndpoint string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4317"`
	TracingProtocol string        `env:"OTEL_EXPORTER_OTLP_PROTOCOL" env-default:"grpc"`
	TracingInsecure bool          `env:"OTEL_EXPORTER_OTLP_INSECURE" env-default:"true"`
	TracingTimeout  time.Duration `env:"OTEL_EXPORTER_OTLP_TIMEOUT" env-default:"10s"`

	// PDF engine. An empty ChromeBin looks up a local browser and downloads one as a last resort.
	ChromeBin string `env:"CHROME_BIN" env-default:""`
	// Zero leaves render deadlines to the request context.
	RenderTimeout     time.Duration `env:"PDF_RENDER_TIMEOUT" env-default:"0s"`
	PaperWidthInches  float64       `env:"PDF_PAPER_WIDTH" env-default:"8.5"`
	PaperHeightInches float64       `env:"PDF_PAPER_HEIGHT" env-default:"11"`
	MarginInches      float64       `env:"PDF_MARGIN" env-default:"1"`

	// Branding printed on the cover page
	BrandName       string `env:"BRAND_NAME" env-default:"Pension"`
	BrandAccent     string `env:"BRAND_ACCENT" env-default:"Consultants"`
	BrandAddress    string `env:"BRAND_ADDRESS" env-default:"10 WATERSIDE DRIVE, SUITE 200 • FARMINGTON, CONNECTICUT 06032"`
	BrandPhone      string `env:"BRAND_PHONE" env-default:"860/676-8000"`
	BrandFax        string `env:"BRAND_FAX" env-default:"860/678-8925"`
	BrandWebsiteURL string `env:"BRAND_WEBSITE_URL" env-default:"https://www.mypensionconsultants.com"`
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	// a missing .env is normal outside local development
	_ = godotenv.Load(files...)

	var cfg Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Database() database.ConnectionConfig {
	return database.ConnectionConfig{
		Driver:          c.DatabaseDriver,
		Host:            c.DatabaseHost,
		Port:            c.DatabasePort,
		User:            c.DatabaseUserName,
		Password:        c.DatabasePassword,
		Name:            c.DatabaseName,
		SSLMode:         c.DatabaseSSLMode,
		MaxOpenConns:    c.DatabaseMaxOpenConns,
		MaxIdleConns:    c.DatabaseMaxIdleConns,
		ConnMaxLifetime: c.DatabaseConnMaxLifetime,
	}
}

func (c *Config) Migrations() *database.MigrationConfig {
	return &database.MigrationConfig{
		MigrationFolderPath: c.DatabaseMigrationFolderPath,
		Version:             uint(max(c.DatabaseMigrationVersion, 0)),
		Force:               c.DatabaseMigrationForce,
		AutoRollback:        c.DatabaseMigrationAutoRollback,
	}
}

func (c *Config) Redis() redis.Config {
	return redis.Config{
		Host:      c.RedisHost,
		Port:      c.RedisPort,
		Password:  c.RedisPassword,
		DB:        c.RedisDB,
		KeyPrefix: c.RedisKeyPrefix,
	}
}

func (c *Config) Kafka() kafka.ProducerConfig {
	cfg := kafka.DefaultProducerConfig()
	cfg.Brokers = c.KafkaBrokers
	cfg.Topic = c.KafkaTopic
	cfg.BatchSize = c.KafkaBatchSize
	cfg.BatchTimeout = time.Duration(c.KafkaBatchTimeout) * time.Millisecond
	cfg.RequiredAcks = c.KafkaRequiredAcks
	cfg.Compression = c.KafkaCompression
	return cfg
}

func (c *Config) Tracing() tracing.ProviderConfig {
	return tracing.ProviderConfig{
		ServiceName: c.AppName,
		Enabled:     c.TracingEnabled,
		OTLP: exporters.OTLPConfig{
			Endpoint: c.TracingEndpoint,
			Protocol: c.TracingProtocol,
			Insecure: c.TracingInsecure,
			Timeout:  c.TracingTimeout,
		},
	}
}

func (c *Config) Page() pdf.PageOptions {
	page := pdf.LetterPage()
	page.PaperWidth = c.PaperWidthInches
	page.PaperHeight = c.PaperHeightInches
	page.MarginTop = c.MarginInches
	page.MarginRight = c.MarginInches
	page.MarginBottom = c.MarginInches
	page.MarginLeft = c.MarginInches
	return page
}

func (c *Config) Branding() render.Branding {
	return render.Branding{
		Name:       c.BrandName,
		Accent:     c.BrandAccent,
		Address:    c.BrandAddress,
		Phone:      c.BrandPhone,
		Fax:        c.BrandFax,
		WebsiteURL: c.BrandWebsiteURL,
	}
}
