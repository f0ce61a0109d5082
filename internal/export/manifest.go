package export

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/shelfreport/internal/tally"
	"gopkg.in/yaml.v3"
)

// RatingCount is one level of the manifest's rating distribution
type RatingCount struct {
	Stars int `yaml:"stars"`
	Count int `yaml:"count"`
}

// Manifest summarizes one scrape run
type Manifest struct {
	Timestamp        string        `yaml:"timestamp"`
	BaseURL          string        `yaml:"baseurl"`
	PageLimit        int           `yaml:"pagelimit"`
	PagesScraped     int           `yaml:"pagesscraped"`
	Records          int           `yaml:"records"`
	ImagesDownloaded int           `yaml:"imagesdownloaded"`
	ImagesMissing    int           `yaml:"imagesmissing"`
	Unrated          int           `yaml:"unrated"`
	Ratings          []RatingCount `yaml:"ratings"`
	Workbook         string        `yaml:"workbook"`
	Parquet          string        `yaml:"parquet,omitempty"`
	ImageDir         string        `yaml:"imagedir"`
}

// RatingsFrom converts counts to manifest rows, 5 stars first
func RatingsFrom(counts tally.Counts) []RatingCount {
	levels := counts.Levels()
	out := make([]RatingCount, 0, len(levels))
	for _, level := range levels {
		out = append(out, RatingCount{Stars: level.Rating.Stars(), Count: level.Count})
	}
	return out
}

// WriteManifest saves the manifest as YAML
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}

	return nil
}
