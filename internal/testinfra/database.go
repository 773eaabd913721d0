package testinfra

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/rickylandino/val-builder-api/pkg/database"
)

// MigratedPostgres starts Postgres, applies db/pg and returns an open
// connection closed with t.
func MigratedPostgres(t *testing.T, logger ectologger.Logger) database.DB {
	t.Helper()

	pg := StartPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, database.ConnectionConfig{
		Host:         pg.Host,
		Port:         pg.Port,
		User:         pg.User,
		Password:     pg.Password,
		Name:         pg.Database,
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}, logger)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	migrations := database.NewMigrationService(logger, &database.MigrationConfig{MigrationFolderPath: migrationFolder(t)})
	if err := migrations.MigratePostgres(db, pg.Database); err != nil {
		t.Fatalf("failed to migrate postgres: %v", err)
	}
	return db
}

func migrationFolder(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to locate migrations")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "db", "pg")
}
