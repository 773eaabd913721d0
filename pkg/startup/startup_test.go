package startup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func noWait(_ context.Context, _ time.Duration) error { return nil }

func TestStartup_StartsParentsFirstAndStopsInReverse(t *testing.T) {
	var events []string
	dep := func(name string, requires ...string) *Dependency {
		return &Dependency{
			Name:     name,
			Requires: requires,
			OnStart:  func(context.Context) error { events = append(events, "start:"+name); return nil },
			OnStop:   func(context.Context) error { events = append(events, "stop:"+name); return nil },
		}
	}

	s := NewStartup(silentLogger(), 1)
	s.AddDependency(dep("api", "database", "pdf"))
	s.AddDependency(dep("database"))
	s.AddDependency(dep("pdf"))

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"start:database", "start:pdf", "start:api"}, events)

	events = nil
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, []string{"stop:pdf", "stop:database", "stop:api"}, events)
	assert.Equal(t, StartupStatusStopped, s.Status("api"))
}

func TestStartup_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	s := NewStartup(silentLogger(), 3)
	s.wait = noWait
	s.AddDependency(&Dependency{
		Name: "redis",
		OnStart: func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		},
	})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 3, calls)
	assert.Equal(t, StartupStatusStarted, s.Status("redis"))
}

func TestStartup_GivesUpAfterMaxAttempts(t *testing.T) {
	s := NewStartup(silentLogger(), 2)
	s.wait = noWait
	s.AddDependency(&Dependency{
		Name:    "kafka",
		OnStart: func(context.Context) error { return errors.New("no brokers") },
	})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Contains(t, err.Error(), "no brokers")
	assert.Equal(t, StartupStatusFailed, s.Status("kafka"))
}

func TestStartup_DetectsCycles(t *testing.T) {
	s := NewStartup(silentLogger(), 1)
	s.AddDependency(&Dependency{Name: "a", Requires: []string{"b"}})
	s.AddDependency(&Dependency{Name: "b", Requires: []string{"a"}})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}
