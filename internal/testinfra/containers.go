// Package testinfra starts throwaway Postgres and Redis containers for
// integration tests. Tests are skipped under -short or without Docker.
package testinfra

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type Redis struct {
	Host string
	Port int
}

func start(t *testing.T, req testcontainers.ContainerRequest) (string, func(port string) string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("container runtime unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to read container host: %v", err)
	}

	return host, func(port string) string {
		mapped, err := container.MappedPort(ctx, nat.Port(port))
		if err != nil {
			t.Fatalf("failed to read mapped port %s: %v", port, err)
		}
		return mapped.Port()
	}
}

// StartPostgres runs postgres:15-alpine for the lifetime of t.
func StartPostgres(t *testing.T) Postgres {
	t.Helper()

	pg := Postgres{User: "val", Password: "val", Database: "valbuilder"}
	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     pg.User,
			"POSTGRES_PASSWORD": pg.Password,
			"POSTGRES_DB":       pg.Database,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	})

	pg.Host = host
	pg.Port = port("5432")
	return pg
}

// StartRedis runs redis:7-alpine for the lifetime of t.
func StartRedis(t *testing.T) Redis {
	t.Helper()

	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForLog("Ready to accept connections").
			WithStartupTimeout(30 * time.Second),
	})

	p, err := strconv.Atoi(port("6379"))
	if err != nil {
		t.Fatalf("invalid redis port: %v", err)
	}
	return Redis{Host: host, Port: p}
}
