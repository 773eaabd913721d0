package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rickylandino/val-builder-api/internal/services/valpdf"
	"github.com/rickylandino/val-builder-api/pkg/render"
)

var (
	renderValID          int
	renderOut            string
	renderIncludeHeaders bool
	renderWatermark      bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a VAL to a PDF file",
	Long: `Loads a VAL from the database and writes the merged PDF to disk.

Example:
  valbuilder render --val-id 42 --out val-42.pdf --include-headers`,
	RunE: runRender,
}

func init() {
	defaults := render.DefaultOptions()
	renderCmd.Flags().IntVar(&renderValID, "val-id", 0, "VAL to render")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "output file (defaults to the generated file name)")
	renderCmd.Flags().BoolVar(&renderIncludeHeaders, "include-headers", defaults.IncludeHeaders, "print section headers")
	renderCmd.Flags().BoolVar(&renderWatermark, "watermark", defaults.ShowWatermark, "print the draft watermark")
	_ = renderCmd.MarkFlagRequired("val-id")
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = a.Stop(context.Background()) }()

	result, err := a.Services.PDF.Generate(ctx, renderValID, render.Options{
		IncludeHeaders: renderIncludeHeaders,
		ShowWatermark:  renderWatermark,
	})
	if err != nil {
		return err
	}

	out := renderOut
	if out == "" {
		out = result.Filename
	}
	if err := os.WriteFile(out, result.PDF, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(out, result))
	return nil
}

func renderSummary(out string, result *valpdf.Result) string {
	return fmt.Sprintf("wrote %s (%d pages, %d attachments, %d skipped)",
		out, result.Pages, result.Attachments, len(result.Skipped))
}
