package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/Gobusters/ectologger"
	"github.com/jung-kurt/gofpdf"
	fpdi "github.com/jung-kurt/gofpdf/contrib/gofpdi"
	"github.com/phpdave11/gofpdi"
	"github.com/pkg/errors"

	"github.com/rickylandino/val-builder-api/pkg/metrics"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

const mediaBox = "/MediaBox"

// PageMerger copies every page of every readable input into a new document.
// Unreadable inputs are skipped with a warning.
type PageMerger struct {
	logger ectologger.Logger
}

func NewPageMerger(logger ectologger.Logger) *PageMerger {
	return &PageMerger{logger: logger}
}

func (m *PageMerger) Merge(ctx context.Context, inputs [][]byte) (*MergeResult, error) {
	ctx, span := tracing.StartSpan(ctx, "pdf.PageMerger.Merge")
	defer span.End()

	out := gofpdf.New("P", "pt", "Letter", "")
	out.SetAutoPageBreak(false, 0)
	importer := fpdi.NewImporter()

	// The importer keys sources by the address of their reader, so every
	// reader must stay reachable until the document is written.
	sources := make([]*io.ReadSeeker, 0, len(inputs))

	result := &MergeResult{}
	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rs := io.ReadSeeker(bytes.NewReader(input))
		sources = append(sources, &rs)

		pages, err := m.append(out, importer, &rs, input)
		if err != nil {
			m.logger.WithContext(ctx).WithFields(map[string]any{
				"input": i,
				"size":  len(input),
			}).WithError(err).Warnf("Skipping PDF during merge due to error: %s", err.Error())
			metrics.RecordMergeInput("skipped")
			result.Skipped = append(result.Skipped, i)
			continue
		}

		metrics.RecordMergeInput("merged")
		result.Pages += pages
	}

	var buf bytes.Buffer
	err := out.Output(&buf)
	runtime.KeepAlive(sources)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, errors.Wrap(err, "failed to write merged PDF")
	}

	metrics.RecordMergedPages(result.Pages)
	result.Data = buf.Bytes()
	return result, nil
}

// append imports all pages of input into out. The page count is read with a
// separate parser, then every page is imported into a scratch document. Only
// an input that survives both reaches the shared importer, so a document that
// fails partway contributes no pages. The PDF libraries report parse failures
// by panicking.
func (m *PageMerger) append(out *gofpdf.Fpdf, importer *fpdi.Importer, rs *io.ReadSeeker, input []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	if len(input) == 0 {
		return 0, errors.New("empty input")
	}

	sizes, count := inspect(input)
	if count < 1 {
		return 0, errors.New("document has no pages")
	}

	if err := rehearse(input, sizes, count); err != nil {
		return 0, err
	}

	copyPages(out, importer, rs, sizes, count)
	if out.Err() {
		return 0, out.Error()
	}
	return count, nil
}

func rehearse(input []byte, sizes map[int]map[string]map[string]float64, count int) error {
	scratch := gofpdf.New("P", "pt", "Letter", "")
	scratch.SetAutoPageBreak(false, 0)
	rs := io.ReadSeeker(bytes.NewReader(input))

	copyPages(scratch, fpdi.NewImporter(), &rs, sizes, count)
	if scratch.Err() {
		return scratch.Error()
	}
	err := scratch.Output(io.Discard)
	runtime.KeepAlive(&rs)
	return err
}

func copyPages(doc *gofpdf.Fpdf, importer *fpdi.Importer, rs *io.ReadSeeker, sizes map[int]map[string]map[string]float64, count int) {
	for page := 1; page <= count; page++ {
		tpl := importer.ImportPageFromStream(doc, rs, page, mediaBox)
		w, h := pageSize(sizes, page)
		doc.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
		importer.UseImportedTemplate(doc, tpl, 0, 0, w, h)
	}
}

func inspect(input []byte) (map[int]map[string]map[string]float64, int) {
	rs := io.ReadSeeker(bytes.NewReader(input))
	probe := gofpdi.NewImporter()
	probe.SetSourceStream(&rs)
	return probe.GetPageSizes(), probe.GetNumPages()
}

func pageSize(sizes map[int]map[string]map[string]float64, page int) (float64, float64) {
	if box, ok := sizes[page][mediaBox]; ok && box["w"] > 0 && box["h"] > 0 {
		return box["w"], box["h"]
	}
	return 612, 792
}
