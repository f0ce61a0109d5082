package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL   = "https://books.toscrape.com/"
	DefaultPages     = 3
	DefaultOutputDir = "./output"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "shelfreport/0.1"

	// DefaultFile is read when present and no --config flag is given
	DefaultFile = "shelfreport.yaml"

	envPrefix = "SHELFREPORT_"
)

// Config controls a scrape run
type Config struct {
	BaseURL   string        `yaml:"baseurl"`
	Pages     int           `yaml:"pages"`
	OutputDir string        `yaml:"outputdir"`
	ImageDir  string        `yaml:"imagedir"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"useragent"`
	Parquet   bool          `yaml:"parquet"`
	Manifest  bool          `yaml:"manifest"`
}

// Defaults returns the built-in configuration. ImageDir stays empty and is
// derived from OutputDir by Finalize.
func Defaults() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Pages:     DefaultPages,
		OutputDir: DefaultOutputDir,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Load builds a configuration from defaults, the YAML file at path and its
// <name>.local.<ext> sibling, then SHELFREPORT_* environment variables.
// A missing file is not an error unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Defaults()

	fromFile, err := ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if required {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
	case err != nil:
		return cfg, err
	default:
		if err := fromFile.apply(&cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Values holds only the keys a config file sets, so an explicit false or
// empty string is kept apart from a missing key.
type Values map[string]any

// ReadFile reads a YAML config and merges <name>.local.<ext> over it.
// os.ErrNotExist is returned when neither file exists.
func ReadFile(path string) (Values, error) {
	out := Values{}
	found := false

	base, err := readYAML(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return out, err
	}
	if err == nil {
		out = base
		found = true
	}

	localPath := localName(path)
	local, err := readYAML(localPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return out, err
	}
	if err == nil {
		if err := mergo.Merge(&out, local, mergo.WithOverride, mergo.WithOverwriteWithEmptyValue); err != nil {
			return out, fmt.Errorf("failed to merge %s: %w", localPath, err)
		}
		slog.Info("merging config with local overrides", "local", localPath)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

func readYAML(path string) (Values, error) {
	out := Values{}
	data, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return out, nil
}

// apply decodes the set keys onto cfg, leaving every other field untouched
func (v Values) apply(cfg *Config) error {
	data, err := yaml.Marshal(map[string]any(v))
	if err != nil {
		return fmt.Errorf("failed to encode config values: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode config values: %w", err)
	}
	return nil
}

// localName turns "dir/name.yaml" into "dir/name.local.yaml"
func localName(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(envPrefix + "BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(envPrefix + "OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv(envPrefix + "IMAGE_DIR"); v != "" {
		cfg.ImageDir = v
	}
	if v := os.Getenv(envPrefix + "PAGES"); v != "" {
		pages, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sPAGES %q: %w", envPrefix, v, err)
		}
		cfg.Pages = pages
	}
	return nil
}

// Finalize fills derived values: a trailing slash on the base URL and the
// image directory under the output directory when unset.
func (c *Config) Finalize() {
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.ImageDir == "" {
		c.ImageDir = filepath.Join(c.OutputDir, "images")
	}
}

// Validate reports configuration values the run cannot work with
func (c Config) Validate() error {
	if c.Pages < 1 {
		return fmt.Errorf("page limit must be at least 1, got %d", c.Pages)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must be http or https, got %q", c.BaseURL)
	}
	return nil
}

// ParsedBaseURL returns the base URL as a *url.URL
func (c Config) ParsedBaseURL() (*url.URL, error) {
	return url.Parse(c.BaseURL)
}
