package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/shelfreport/internal/book"
	"github.com/lehigh-university-libraries/shelfreport/internal/catalog"
	"github.com/lehigh-university-libraries/shelfreport/internal/config"
	"github.com/lehigh-university-libraries/shelfreport/internal/export"
	"github.com/lehigh-university-libraries/shelfreport/internal/images"
	"github.com/lehigh-university-libraries/shelfreport/internal/report"
	"github.com/lehigh-university-libraries/shelfreport/internal/tally"
)

// TimestampLayout names each run's output files
const TimestampLayout = "20060102_150405"

var (
	now     = time.Now
	extract = catalog.Extract
)

// Result describes what a run produced
type Result struct {
	WorkbookPath     string
	ParquetPath      string
	ManifestPath     string
	PagesScraped     int
	ImagesDownloaded int
	ImagesMissing    int
	Records          []book.Record
	Counts           tally.Counts
}

// Run scrapes up to cfg.Pages listing pages, downloads covers, and writes the
// workbook (plus optional exports) into cfg.OutputDir. Progress lines go to out.
// Only directory creation and output writing failures are returned.
func Run(ctx context.Context, cfg config.Config, out io.Writer) (*Result, error) {
	cfg.Finalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := cfg.ParsedBaseURL()
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if err := ensureDirs(cfg.OutputDir, cfg.ImageDir); err != nil {
		return nil, err
	}

	slog.Info("Starting scrape", "base_url", cfg.BaseURL, "pages", cfg.Pages, "output", cfg.OutputDir, "images", cfg.ImageDir)

	httpClient := NewHTTPClient(cfg.Timeout, cfg.UserAgent)
	client := catalog.NewClient(base, httpClient)
	fetcher := images.NewFetcher(cfg.ImageDir, httpClient)

	result := &Result{}
	skipped := 0

	pages, err := client.Pages(ctx, cfg.Pages, func(page int, body []byte) error {
		records, err := extract(bytes.NewReader(body), base)
		if err != nil {
			slog.Warn("Skipping unparsable catalogue page", "page", page, "error", err)
			skipped++
			return nil
		}

		for _, rec := range records {
			if rec.ImageURL != "" {
				rec.ImagePath = fetcher.FetchCover(ctx, rec)
				if rec.HasImage() {
					result.ImagesDownloaded++
				} else {
					result.ImagesMissing++
				}
			}
			result.Records = append(result.Records, rec)
		}

		slog.Debug("Extracted records", "page", page, "count", len(records))
		fmt.Fprintf(out, "✅ Scraped page %d\n", page)
		return nil
	})
	// skipped pages were fetched but contributed no records
	result.PagesScraped = pages - skipped
	if err != nil {
		return nil, err
	}

	tally.Sort(result.Records)
	result.Counts = tally.Count(result.Records)

	stamp := now().Format(TimestampLayout)
	result.WorkbookPath = filepath.Join(cfg.OutputDir, fmt.Sprintf("books_%s.xlsx", stamp))

	if err := report.New().Render(result.WorkbookPath, result.Records, result.Counts); err != nil {
		return nil, err
	}

	if cfg.Parquet {
		result.ParquetPath = filepath.Join(cfg.OutputDir, fmt.Sprintf("books_%s.parquet", stamp))
		if err := export.WriteParquet(result.ParquetPath, result.Records); err != nil {
			return nil, err
		}
	}

	if cfg.Manifest {
		result.ManifestPath = filepath.Join(cfg.OutputDir, fmt.Sprintf("books_%s.yaml", stamp))
		m := export.Manifest{
			Timestamp:        stamp,
			BaseURL:          cfg.BaseURL,
			PageLimit:        cfg.Pages,
			PagesScraped:     result.PagesScraped,
			Records:          len(result.Records),
			ImagesDownloaded: result.ImagesDownloaded,
			ImagesMissing:    result.ImagesMissing,
			Unrated:          result.Counts.Unrated,
			Ratings:          export.RatingsFrom(result.Counts),
			Workbook:         result.WorkbookPath,
			Parquet:          result.ParquetPath,
			ImageDir:         cfg.ImageDir,
		}
		if err := export.WriteManifest(result.ManifestPath, m); err != nil {
			return nil, err
		}
	}

	slog.Info("Scrape finished",
		"pages", result.PagesScraped,
		"records", len(result.Records),
		"images_downloaded", result.ImagesDownloaded,
		"images_missing", result.ImagesMissing)

	fmt.Fprintln(out)
	result.Counts.PrintSummary(out)
	fmt.Fprintf(out, "\n✅ Scraping completed! Data saved as '%s'.\n", result.WorkbookPath)

	return result, nil
}

// RenderExport re-renders a workbook from a Parquet export without any
// network access. The workbook path is returned.
func RenderExport(inputPath, outputDir string, out io.Writer) (string, error) {
	records, err := export.ReadParquet(inputPath)
	if err != nil {
		return "", err
	}

	if err := ensureDirs(outputDir); err != nil {
		return "", err
	}

	tally.Sort(records)
	counts := tally.Count(records)

	path := filepath.Join(outputDir, fmt.Sprintf("books_%s.xlsx", now().Format(TimestampLayout)))
	if err := report.New().Render(path, records, counts); err != nil {
		return "", err
	}

	counts.PrintSummary(out)
	fmt.Fprintf(out, "\n✅ Report rendered! Data saved as '%s'.\n", path)
	return path, nil
}

func ensureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return nil
}
