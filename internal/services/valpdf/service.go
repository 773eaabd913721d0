// Package valpdf turns a stored VAL into a finished PDF: it loads the
// document data, substitutes bracket tags, renders HTML through the browser
// and appends the VAL's PDF attachments.
package valpdf

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"golang.org/x/sync/errgroup"

	"github.com/rickylandino/val-builder-api/pkg/bracket"
	"github.com/rickylandino/val-builder-api/pkg/document"
	"github.com/rickylandino/val-builder-api/pkg/kafka"
	"github.com/rickylandino/val-builder-api/pkg/metrics"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/pdf"
	"github.com/rickylandino/val-builder-api/pkg/render"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
	"github.com/rickylandino/val-builder-api/pkg/utils"
)

type HeaderSource interface {
	GetByID(ctx context.Context, id int) (*models.ValHeader, error)
}

type DetailSource interface {
	ListByVal(ctx context.Context, valID int, groupID *int) ([]models.ValDetail, error)
}

type SectionSource interface {
	List(ctx context.Context) ([]models.ValSection, error)
}

type AttachmentSource interface {
	ListByVal(ctx context.Context, valID int) ([]models.ValPdfAttachment, error)
}

type PlanSource interface {
	GetByID(ctx context.Context, id int) (*models.CompanyPlan, error)
}

type CompanySource interface {
	GetByID(ctx context.Context, id int) (*models.Company, error)
}

type MappingSource interface {
	List(ctx context.Context) ([]models.BracketMapping, error)
}

// Sources groups the reads a render needs.
type Sources struct {
	Headers     HeaderSource
	Details     DetailSource
	Sections    SectionSource
	Attachments AttachmentSource
	Plans       PlanSource
	Companies   CompanySource
	Mappings    MappingSource
}

// Data is everything read from storage for one render.
type Data struct {
	Header   models.ValHeader
	Details  []models.ValDetail
	Sections []models.ValSection
	Mappings []models.BracketMapping
	Plan     *models.CompanyPlan
	Company  *models.Company
}

type Result struct {
	PDF         []byte
	Filename    string
	Pages       int
	Attachments int
	Skipped     []int
}

type Service struct {
	logger   ectologger.Logger
	sources  Sources
	builder  *render.Builder
	renderer pdf.Renderer
	merger   pdf.Merger
	page     pdf.PageOptions
	events   kafka.Publisher
	now      func() time.Time
}

func NewService(logger ectologger.Logger, sources Sources, builder *render.Builder, renderer pdf.Renderer, merger pdf.Merger, page pdf.PageOptions, events kafka.Publisher) *Service {
	if events == nil {
		events = kafka.NopPublisher{}
	}
	return &Service{
		logger:   logger,
		sources:  sources,
		builder:  builder,
		renderer: renderer,
		merger:   merger,
		page:     page,
		events:   events,
		now:      time.Now,
	}
}

// Generate renders the VAL. A missing header is a 404; any other failure is a
// 500 carrying the cause in its meta.
func (s *Service) Generate(ctx context.Context, valID int, opts render.Options) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "valpdf.Generate")
	defer span.End()

	start := time.Now()
	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"val_id":          valID,
		"include_headers": opts.IncludeHeaders,
		"show_watermark":  opts.ShowWatermark,
	})

	data, err := s.Load(ctx, valID)
	if err == nil {
		var result *Result
		result, err = s.Render(ctx, data, opts)
		if err == nil {
			metrics.RecordRender("success", time.Since(start).Seconds())
			log.WithFields(map[string]any{
				"bytes":       len(result.PDF),
				"attachments": result.Attachments,
				"skipped":     len(result.Skipped),
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("generated val pdf")
			s.publish(ctx, valID, result)
			return result, nil
		}
	}

	tracing.RecordError(ctx, err)
	if httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound {
		metrics.RecordRender("not_found", time.Since(start).Seconds())
		return nil, err
	}

	metrics.RecordRender("error", time.Since(start).Seconds())
	log.WithError(err).Error("failed to generate val pdf")
	return nil, utils.ErrorWithMeta(http.StatusInternalServerError, "Error generating PDF", map[string]any{
		"error": err.Error(),
	})
}

// Load reads the header first so a missing VAL is always a 404, then
// concurrently its details, the section table and the bracket mappings. The
// plan and company are looked up afterwards and left nil when missing.
func (s *Service) Load(ctx context.Context, valID int) (*Data, error) {
	ctx, span := tracing.StartSpan(ctx, "valpdf.Load")
	defer span.End()

	start := time.Now()
	defer func() { metrics.RecordRenderStage("load", time.Since(start).Seconds()) }()

	header, err := s.sources.Headers.GetByID(ctx, valID)
	if isNotFound(err) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "VAL %d not found", valID)
	}
	if err != nil {
		return nil, err
	}

	data := Data{Header: *header}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Details, err = s.sources.Details.ListByVal(gctx, valID, nil)
		return err
	})
	g.Go(func() (err error) {
		data.Sections, err = s.sources.Sections.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Mappings, err = s.sources.Mappings.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if header.PlanID != nil {
		plan, err := s.sources.Plans.GetByID(ctx, *header.PlanID)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		data.Plan = plan
	}
	if data.Plan != nil && data.Plan.CompanyID != nil {
		company, err := s.sources.Companies.GetByID(ctx, *data.Plan.CompanyID)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		data.Company = company
	}

	return &data, nil
}

// Render builds the HTML, converts it and appends attachments. With no
// attachments the browser output is returned as is.
func (s *Service) Render(ctx context.Context, data *Data, opts render.Options) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "valpdf.Render")
	defer span.End()

	html := s.HTML(ctx, data, opts)

	start := time.Now()
	main, err := s.renderer.Render(ctx, html, s.page)
	metrics.RecordRenderStage("browser", time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to render html: %w", err)
	}

	valID := data.Header.ValID
	result := &Result{PDF: main, Filename: s.Filename(valID)}

	attachments, err := s.sources.Attachments.ListByVal(ctx, valID)
	if err != nil {
		return nil, err
	}
	if len(attachments) == 0 {
		return result, nil
	}

	inputs := make([][]byte, 0, len(attachments)+1)
	inputs = append(inputs, main)
	for _, a := range attachments {
		if a.PDFContents == nil {
			continue
		}
		inputs = append(inputs, a.PDFContents)
	}

	start = time.Now()
	merged, err := s.merger.Merge(ctx, inputs)
	metrics.RecordRenderStage("merge", time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to merge attachments: %w", err)
	}

	result.PDF = merged.Data
	result.Pages = merged.Pages
	result.Attachments = len(inputs) - 1
	result.Skipped = merged.Skipped
	return result, nil
}

// HTML substitutes bracket tags and builds the print document.
func (s *Service) HTML(ctx context.Context, data *Data, opts render.Options) string {
	start := time.Now()
	defer func() { metrics.RecordRenderStage("html", time.Since(start).Seconds()) }()

	engine, problems := bracket.NewEngine(data.Mappings)
	for _, p := range problems {
		s.logger.WithContext(ctx).WithFields(map[string]any{
			"tag_name":    p.TagName,
			"object_path": p.ObjectPath,
		}).Warn("bracket mapping has an unresolvable object path")
	}

	header := data.Header
	tags := bracket.Context{Header: &header, Plan: data.Plan, Company: data.Company}
	assembler := document.NewAssembler(func(text string) string {
		return engine.Substitute(text, tags)
	})

	doc := assembler.Assemble(header, data.Details, data.Sections)
	orphans := 0
	for _, section := range doc.Sections {
		if section.Orphan {
			orphans++
		}
	}
	s.logger.WithContext(ctx).WithFields(map[string]any{
		"val_id":          header.ValID,
		"sections":        len(doc.Sections),
		"orphan_sections": orphans,
		"details":         doc.DetailCount(),
	}).Debug("assembled val document")

	return s.builder.Build(doc, opts)
}

// Filename names the download, stamped with the local time.
func (s *Service) Filename(valID int) string {
	return fmt.Sprintf("VAL-%d-%s.pdf", valID, s.now().Format("20060102-150405"))
}

func (s *Service) publish(ctx context.Context, valID int, r *Result) {
	err := s.events.Publish(ctx, kafka.Event{
		Type:  kafka.EventDocumentRendered,
		ValID: valID,
		Data: kafka.RenderedData{
			Pages:       r.Pages,
			Attachments: r.Attachments,
			Skipped:     len(r.Skipped),
			Bytes:       len(r.PDF),
		},
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Warnf("failed to publish %s", kafka.EventDocumentRendered)
	}
}

func isNotFound(err error) bool {
	return err != nil && httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound
}
