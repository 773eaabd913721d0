package pdf

import (
	"context"
	"io"

	"github.com/Gobusters/ectologger"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pkg/errors"

	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

// ChromeRenderer prints HTML with a headless Chromium launched per request.
// The browser binary is provisioned once per process.
type ChromeRenderer struct {
	gate   *installGate
	logger ectologger.Logger
}

func NewChromeRenderer(install Installer, logger ectologger.Logger) *ChromeRenderer {
	return &ChromeRenderer{
		gate:   newInstallGate(install, logger),
		logger: logger,
	}
}

// Warmup provisions the browser ahead of the first request.
func (r *ChromeRenderer) Warmup(ctx context.Context) error {
	_, err := r.gate.ensure(ctx)
	return err
}

// Render blocks until the browser has produced the document or ctx is done.
func (r *ChromeRenderer) Render(ctx context.Context, html string, opts PageOptions) ([]byte, error) {
	ctx, span := tracing.StartSpan(ctx, "pdf.ChromeRenderer.Render")
	defer span.End()

	bin, err := r.gate.ensure(ctx)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	l := launcher.New().
		Bin(bin).
		Headless(true).
		NoSandbox(true).
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage").
		Context(ctx)
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, errors.Wrap(err, "failed to launch browser")
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		tracing.RecordError(ctx, err)
		return nil, errors.Wrap(err, "failed to connect to browser")
	}
	defer func() {
		if err := browser.Close(); err != nil {
			r.logger.WithContext(ctx).WithError(err).Debug("Failed to close browser")
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, errors.Wrap(err, "failed to open page")
	}

	if err := page.SetDocumentContent(html); err != nil {
		tracing.RecordError(ctx, err)
		return nil, errors.Wrap(err, "failed to load document")
	}
	if err := page.WaitLoad(); err != nil {
		tracing.RecordError(ctx, err)
		return nil, errors.Wrap(err, "failed waiting for document load")
	}

	stream, err := page.PDF(printOptions(opts))
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, errors.Wrap(err, "failed to print document")
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, errors.Wrap(err, "failed to read printed document")
	}

	return data, nil
}

func printOptions(opts PageOptions) *proto.PagePrintToPDF {
	f := func(v float64) *float64 { return &v }
	return &proto.PagePrintToPDF{
		PrintBackground: opts.PrintBackground,
		PaperWidth:      f(opts.PaperWidth),
		PaperHeight:     f(opts.PaperHeight),
		MarginTop:       f(opts.MarginTop),
		MarginRight:     f(opts.MarginRight),
		MarginBottom:    f(opts.MarginBottom),
		MarginLeft:      f(opts.MarginLeft),
	}
}
