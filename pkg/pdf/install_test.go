package pdf

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestInstallGate(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("should install once for concurrent first callers", func(t *testing.T) {
		var calls atomic.Int32
		release := make(chan struct{})
		var logs atomic.Int32
		gate := newInstallGate(func(context.Context) (string, error) {
			calls.Add(1)
			<-release
			return "/usr/bin/chromium", nil
		}, countingLogger(&logs))

		var wg sync.WaitGroup
		bins := make([]string, 8)
		for i := range bins {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				bin, err := gate.ensure(context.Background())
				assert.NoError(t, err)
				bins[i] = bin
			}(i)
		}
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, bin := range bins {
			assert.Equal(t, "/usr/bin/chromium", bin)
		}
	})

	t.Run("should retry after a failed install", func(t *testing.T) {
		var calls atomic.Int32
		var logs atomic.Int32
		gate := newInstallGate(func(context.Context) (string, error) {
			if calls.Add(1) == 1 {
				return "", errors.New("download failed")
			}
			return "/opt/chrome", nil
		}, countingLogger(&logs))

		_, err := gate.ensure(context.Background())
		require.Error(t, err)

		bin, err := gate.ensure(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "/opt/chrome", bin)

		_, err = gate.ensure(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("should use the configured binary without lookup", func(t *testing.T) {
		bin, err := DefaultInstaller("/custom/chrome")(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "/custom/chrome", bin)
	})
}
