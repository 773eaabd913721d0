package pdf

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Gobusters/ectologger"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/pkg/errors"

	"github.com/rickylandino/val-builder-api/pkg/metrics"
)

// Installer resolves the path of a browser binary, downloading one if needed.
type Installer func(ctx context.Context) (string, error)

// DefaultInstaller prefers bin, then a browser found on the system, then a
// downloaded Chromium revision.
func DefaultInstaller(bin string) Installer {
	return func(ctx context.Context) (string, error) {
		if bin != "" {
			return bin, nil
		}
		if path, ok := launcher.LookPath(); ok {
			return path, nil
		}
		b := launcher.NewBrowser()
		b.Context = ctx
		path, err := b.Get()
		if err != nil {
			return "", errors.Wrap(err, "failed to download browser")
		}
		return path, nil
	}
}

// installGate runs the installer at most once successfully. Concurrent first
// callers block on the mutex only while installation runs. A failed install
// leaves the gate open so the next request tries again.
type installGate struct {
	ready   atomic.Bool
	mu      sync.Mutex
	bin     string
	install Installer
	logger  ectologger.Logger
}

func newInstallGate(install Installer, logger ectologger.Logger) *installGate {
	return &installGate{install: install, logger: logger}
}

func (g *installGate) ensure(ctx context.Context) (string, error) {
	if g.ready.Load() {
		return g.bin, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ready.Load() {
		return g.bin, nil
	}

	g.logger.WithContext(ctx).Info("Provisioning headless browser for PDF generation")
	bin, err := g.install(ctx)
	if err != nil {
		metrics.RecordBrowserInstall("error")
		return "", err
	}

	g.bin = bin
	g.ready.Store(true)
	metrics.RecordBrowserInstall("success")
	g.logger.WithContext(ctx).WithField("bin", bin).Info("Headless browser ready")
	return bin, nil
}
