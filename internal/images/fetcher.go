package images

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/lehigh-university-libraries/shelfreport/internal/book"
)

// MaxFilenameLength caps the sanitized title used as a cover file name
const MaxFilenameLength = 50

// Fetcher downloads book cover images into a directory
type Fetcher struct {
	Dir  string
	http *resty.Client
}

// NewFetcher creates a cover fetcher writing into dir
func NewFetcher(dir string, http *resty.Client) *Fetcher {
	return &Fetcher{
		Dir:  dir,
		http: http,
	}
}

// FetchCover downloads the record's cover and returns the local path, or ""
// when the record has no image reference or the download failed. Failures
// are logged, never retried.
func (f *Fetcher) FetchCover(ctx context.Context, rec book.Record) string {
	if rec.ImageURL == "" {
		return ""
	}

	outputPath := f.CoverPath(rec.Title)
	if err := f.downloadImage(ctx, rec.ImageURL, outputPath); err != nil {
		slog.Warn("Failed to download cover image", "title", rec.Title, "url", rec.ImageURL, "error", err)
		return ""
	}

	slog.Debug("Downloaded cover image", "title", rec.Title, "path", outputPath)
	return outputPath
}

// CoverPath is where the cover for a title is stored. Titles that sanitize
// to the same name share a path.
func (f *Fetcher) CoverPath(title string) string {
	return filepath.Join(f.Dir, SanitizeFilename(title)+".jpg")
}

// downloadImage downloads an image from a URL to a file
func (f *Fetcher) downloadImage(ctx context.Context, url, outputPath string) error {
	resp, err := f.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return fmt.Errorf("failed to fetch image: %w", err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("image URL returned status %d", resp.StatusCode())
	}

	if err := os.WriteFile(outputPath, resp.Body(), 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return nil
}

var unsafeFilenameChars = strings.NewReplacer(
	"/", "", `\`, "", ":", "", "*", "", "?", "",
	`"`, "", "<", "", ">", "", "|", "", ",", "",
)

// SanitizeFilename strips characters that are unsafe in file names and
// truncates the result to MaxFilenameLength characters.
func SanitizeFilename(title string) string {
	cleaned := []rune(unsafeFilenameChars.Replace(title))
	if len(cleaned) > MaxFilenameLength {
		cleaned = cleaned[:MaxFilenameLength]
	}
	return string(cleaned)
}
