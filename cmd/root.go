package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "shelfreport",
		Short: "Scrape a book catalogue into a styled Excel report",
		Long: `Shelfreport walks the paginated listing of a books.toscrape.com style catalogue,
downloads each cover, and writes a formatted workbook with a star rating summary
and chart.

Scraped records can also be exported to Parquet and rendered again later without
touching the network.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			if verbose {
				setupDebugLogging()
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newRenderCmd())

	return cmd
}

func setupDebugLogging() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(handler))
}
