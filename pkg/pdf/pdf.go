// Package pdf converts HTML to PDF through a headless browser and merges PDF
// buffers into one document.
package pdf

import (
	"context"
)

// PageOptions describes the printed page. Lengths are in inches.
type PageOptions struct {
	PaperWidth      float64
	PaperHeight     float64
	MarginTop       float64
	MarginRight     float64
	MarginBottom    float64
	MarginLeft      float64
	PrintBackground bool
}

// LetterPage is US Letter with one inch margins.
func LetterPage() PageOptions {
	return PageOptions{
		PaperWidth:      8.5,
		PaperHeight:     11,
		MarginTop:       1,
		MarginRight:     1,
		MarginBottom:    1,
		MarginLeft:      1,
		PrintBackground: true,
	}
}

// Renderer converts an HTML document to PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string, opts PageOptions) ([]byte, error)
}

// Merger concatenates PDF buffers in order.
type Merger interface {
	Merge(ctx context.Context, inputs [][]byte) (*MergeResult, error)
}

type MergeResult struct {
	Data []byte
	// Pages is the number of pages copied from the inputs.
	Pages int
	// Skipped holds the indexes of inputs that could not be read.
	Skipped []int
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, html string, opts PageOptions) ([]byte, error)

func (f RendererFunc) Render(ctx context.Context, html string, opts PageOptions) ([]byte, error) {
	return f(ctx, html, opts)
}
