package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/utils"
)

var seedFile string

var seedMappingsCmd = &cobra.Command{
	Use:   "seed-mappings",
	Short: "Upsert bracket mappings from a YAML file",
	Long: `Reads a list of bracket mappings and upserts them by tag name.

File format:
  mappings:
    - tagName: PlanName
      objectPath: companyPlan.PlanName
      description: Plan name`,
	RunE: runSeedMappings,
}

func init() {
	seedMappingsCmd.Flags().StringVar(&seedFile, "file", "db/seed/mappings.yaml", "mapping file")
}

type mappingFile struct {
	Mappings []models.BracketMapping `yaml:"mappings"`
}

// readMappings decodes and validates a mapping file.
func readMappings(r io.Reader) ([]models.BracketMapping, error) {
	var file mappingFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode mappings: %w", err)
	}

	for i, m := range file.Mappings {
		if _, err := utils.Validate(m); err != nil {
			return nil, fmt.Errorf("mapping %d (%q): %w", i, m.TagName, err)
		}
	}
	return file.Mappings, nil
}

func runSeedMappings(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	f, err := os.Open(seedFile)
	if err != nil {
		return err
	}
	defer f.Close()

	mappings, err := readMappings(f)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = a.Stop(context.Background()) }()

	n, err := a.Services.Mappings.Seed(ctx, mappings)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "upserted %d bracket mappings from %s\n", n, seedFile)
	return nil
}
