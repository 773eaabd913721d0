package render

import (
	_ "embed"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/rickylandino/val-builder-api/pkg/document"
)

//go:embed styles.css
var styles string

// Options controls optional parts of the output.
type Options struct {
	IncludeHeaders bool
	ShowWatermark  bool
}

// DefaultOptions matches the render endpoint's defaults.
func DefaultOptions() Options {
	return Options{IncludeHeaders: false, ShowWatermark: true}
}

// Branding is the firm block printed at the foot of the cover page.
type Branding struct {
	Name       string
	Accent     string
	Address    string
	Phone      string
	Fax        string
	WebsiteURL string
}

func DefaultBranding() Branding {
	return Branding{
		Name:       "Pension",
		Accent:     "Consultants",
		Address:    "10 WATERSIDE DRIVE, SUITE 200 • FARMINGTON, CONNECTICUT 06032",
		Phone:      "860/676-8000",
		Fax:        "860/678-8925",
		WebsiteURL: "https://www.mypensionconsultants.com",
	}
}

type Builder struct {
	branding Branding
}

func NewBuilder(branding Branding) *Builder {
	return &Builder{branding: branding}
}

// Build renders the complete HTML document. Sections and details are emitted
// in display order. Header text is escaped, detail text is not.
func (b *Builder) Build(doc document.Document, opts Options) string {
	var sb strings.Builder

	sb.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	sb.WriteString(`<meta charset="UTF-8">`)
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
	sb.WriteString("<title>VAL Document - " + strconv.Itoa(doc.Header.ValID) + "</title>")
	sb.WriteString("<style>")
	sb.WriteString(styles)
	sb.WriteString("</style></head><body>")
	sb.WriteString("<div class='document-container'>")

	b.writeCover(&sb, doc.Header, opts.ShowWatermark)

	sb.WriteString("<div class='document-content'>")
	for _, section := range sortedSections(doc.Sections) {
		if opts.IncludeHeaders {
			sb.WriteString("<div class='section'>")
			sb.WriteString("<h2 class='section-header'>" + html.EscapeString(section.Title) + "</h2>")
			sb.WriteString("<div class='section-content'>")
		}
		for _, d := range sortedDetails(section.Details) {
			sb.WriteString(RenderDetail(d))
		}
		if opts.IncludeHeaders {
			sb.WriteString("</div></div>")
		}
	}
	sb.WriteString("</div></div></body></html>")

	return sb.String()
}

func (b *Builder) writeCover(sb *strings.Builder, h document.Header, watermark bool) {
	sb.WriteString("<div class='cover-page' style='height: 100vh; position: relative; page-break-after: always;'>")
	if watermark {
		sb.WriteString("<div class='stamp' style='position: absolute; left: 0; top: 15px;'>VAL DRAFT</div>")
	}

	sb.WriteString("<div style='display: flex; flex-direction: column; align-items: center; justify-content: center; height: 70vh;'>")
	sb.WriteString("<div style='font-size: 1.3rem; font-weight: bold; text-align: center; margin-bottom: 1.5rem;'>" +
		html.EscapeString(h.Description) + "</div>")
	sb.WriteString("<div style='font-size: 1.1rem; text-align: center; margin-bottom: 2.5rem;'>")
	if h.PlanYearEndDate != nil {
		sb.WriteString(h.PlanYearEndDate.Format("01/02/2006") + " Valuation")
	}
	sb.WriteString("</div>")
	sb.WriteString("<div style='font-size: 1.1rem; font-weight: bold; text-align: center; margin-bottom: 1.5rem;'>Report Prepared for</div>")
	sb.WriteString("<div style='font-size: 1.1rem; font-weight: bold; text-align: center;'>" +
		html.EscapeString(h.RecipientName) + "</div>")
	sb.WriteString("</div>")

	br := b.branding
	sb.WriteString("<div style='position: absolute; bottom: 0px; left: 0; width: 100%; text-align: center;'>")
	sb.WriteString("<div style='font-size: 2.5rem; font-weight: bold; color: #222; margin-bottom: 0.2rem;'>" +
		html.EscapeString(br.Name) + " <span style='color: #6bc04b;'>" + html.EscapeString(br.Accent) + "</span></div>")
	sb.WriteString("<div style='font-size: 1rem; color: #222; margin-bottom: 0.2rem;'>" + html.EscapeString(br.Address) + "</div>")
	site := strings.TrimPrefix(strings.TrimPrefix(br.WebsiteURL, "https://"), "http://")
	sb.WriteString("<div style='font-size: 1rem; color: #222;'>TEL " + html.EscapeString(br.Phone) +
		" • FAX " + html.EscapeString(br.Fax) +
		" • <a href='" + html.EscapeString(br.WebsiteURL) + "' style='color: #1a73e8;'>" + html.EscapeString(site) + "</a></div>")
	sb.WriteString("</div>")

	sb.WriteString("</div>")
}

func sortedSections(in []document.Section) []document.Section {
	out := make([]document.Section, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

func sortedDetails(in []document.Detail) []document.Detail {
	out := make([]document.Detail, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}
