package cmd

import (
	"time"

	"github.com/lehigh-university-libraries/shelfreport/internal/config"
	"github.com/lehigh-university-libraries/shelfreport/internal/pipeline"
	"github.com/spf13/cobra"
)

type scrapeFlags struct {
	configPath string
	baseURL    string
	pages      int
	outputDir  string
	imageDir   string
	timeout    time.Duration
	parquet    bool
	manifest   bool
}

func newScrapeCmd() *cobra.Command {
	var f scrapeFlags

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape catalogue pages and write the Excel report",
		Long: `Fetches up to --pages listing pages, stopping early at the first page that
cannot be retrieved. Every book's cover is downloaded into the image directory and
embedded in the workbook. Books whose cover could not be fetched are still listed.

Settings come from defaults, then shelfreport.yaml (and shelfreport.local.yaml),
then SHELFREPORT_* environment variables, then flags.`,
		Example: `  # Scrape the first three pages into ./output
  shelfreport scrape

  # Scrape ten pages and keep a Parquet export plus run manifest
  shelfreport scrape --pages 10 --parquet --manifest

  # Use a mirror and a custom output directory
  shelfreport scrape --base-url http://localhost:8080/ --output ./reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}

			_, err = pipeline.Run(cmd.Context(), cfg, cmd.OutOrStdout())
			return err
		},
	}

	bindScrapeFlags(cmd, &f)

	return cmd
}

func bindScrapeFlags(cmd *cobra.Command, f *scrapeFlags) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to YAML config file (default "+config.DefaultFile+" if present)")
	cmd.Flags().StringVar(&f.baseURL, "base-url", config.DefaultBaseURL, "Catalogue root URL")
	cmd.Flags().IntVarP(&f.pages, "pages", "p", config.DefaultPages, "Maximum number of listing pages to scrape")
	cmd.Flags().StringVarP(&f.outputDir, "output", "o", config.DefaultOutputDir, "Directory for the workbook and exports")
	cmd.Flags().StringVar(&f.imageDir, "images", "", "Directory for downloaded covers (default <output>/images)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", config.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().BoolVar(&f.parquet, "parquet", false, "Also write the records to a Parquet file")
	cmd.Flags().BoolVar(&f.manifest, "manifest", false, "Also write a YAML run manifest")
}

// resolveConfig loads the config file and environment, then applies only the
// flags the user actually set.
func resolveConfig(cmd *cobra.Command, f scrapeFlags) (config.Config, error) {
	path, required := f.configPath, true
	if path == "" {
		path, required = config.DefaultFile, false
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if flags.Changed("pages") {
		cfg.Pages = f.pages
	}
	if flags.Changed("output") {
		cfg.OutputDir = f.outputDir
	}
	if flags.Changed("images") {
		cfg.ImageDir = f.imageDir
	}
	if flags.Changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if flags.Changed("parquet") {
		cfg.Parquet = f.parquet
	}
	if flags.Changed("manifest") {
		cfg.Manifest = f.manifest
	}

	return cfg, nil
}
