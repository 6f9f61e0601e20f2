package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeClean()
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.MLHDRoot, err = expandPath(strings.TrimSpace(c.Paths.MLHDRoot)); err != nil {
		return fmt.Errorf("paths.mlhd_root: %w", err)
	}
	if c.Paths.WriteRoot, err = expandPath(strings.TrimSpace(c.Paths.WriteRoot)); err != nil {
		return fmt.Errorf("paths.write_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		c.Paths.CatalogPath = defaultCatalogPath
	}
	if c.Paths.CatalogPath, err = expandPath(strings.TrimSpace(c.Paths.CatalogPath)); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeClean() {
	if c.Clean.ChunkSize <= 0 {
		c.Clean.ChunkSize = defaultChunkSize
	}
	if c.Clean.MaxWorkers <= 0 {
		c.Clean.MaxWorkers = defaultMaxWorkers
	}
	c.Clean.LogFileName = strings.TrimSpace(c.Clean.LogFileName)
	if c.Clean.LogFileName == "" {
		c.Clean.LogFileName = defaultLogFileName
	}
	if c.Clean.Limit < 0 {
		c.Clean.Limit = 0
	}
	if c.Clean.MinFreeGiB < 0 {
		c.Clean.MinFreeGiB = 0
	}

	exts := make([]string, 0, len(c.Clean.InputExtensions))
	seen := make(map[string]struct{}, len(c.Clean.InputExtensions))
	for _, ext := range c.Clean.InputExtensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = append(exts, defaultInputExtensions...)
	}
	c.Clean.InputExtensions = exts
}

func (c *Config) normalizeCatalog() error {
	c.Catalog.PostgresURL = strings.TrimSpace(c.Catalog.PostgresURL)
	if strings.TrimSpace(c.Catalog.SourceDir) == "" {
		c.Catalog.SourceDir = defaultCatalogSrcDir
	}
	var err error
	if c.Catalog.SourceDir, err = expandPath(strings.TrimSpace(c.Catalog.SourceDir)); err != nil {
		return fmt.Errorf("catalog.source_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
