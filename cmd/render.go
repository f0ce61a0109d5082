package cmd

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/shelfreport/internal/config"
	"github.com/lehigh-university-libraries/shelfreport/internal/pipeline"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var inputPath string
	var outputDir string
	var configPath string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the Excel report from a Parquet export",
		Long: `Reads records previously written by "scrape --parquet" and renders a new
workbook. Covers are embedded from their recorded paths when the files still exist.

Without --output the workbook goes to the same output directory scrape would
use: shelfreport.yaml (and shelfreport.local.yaml), then SHELFREPORT_OUTPUT_DIR.`,
		Example: `  shelfreport render --input output/books_20240101_120000.parquet
  shelfreport render --input books.parquet --output ./rerendered`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(inputPath); os.IsNotExist(err) {
				return fmt.Errorf("input file not found: %s", inputPath)
			}

			dir, err := renderOutputDir(cmd, configPath, outputDir)
			if err != nil {
				return err
			}

			_, err = pipeline.RenderExport(inputPath, dir, cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Parquet export to render")
	cmd.Flags().StringVarP(&outputDir, "output", "o", config.DefaultOutputDir, "Directory for the workbook")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file (default "+config.DefaultFile+" if present)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// renderOutputDir prefers an explicit --output, then the configured output
// directory.
func renderOutputDir(cmd *cobra.Command, configPath, flagValue string) (string, error) {
	if cmd.Flags().Changed("output") {
		return flagValue, nil
	}

	path, required := configPath, true
	if path == "" {
		path, required = config.DefaultFile, false
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return "", err
	}
	return cfg.OutputDir, nil
}
