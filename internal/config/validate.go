package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateClean(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.MLHDRoot) == "" {
		return errors.New("paths.mlhd_root must be set (or export MLHD_ROOT)")
	}
	if strings.TrimSpace(c.Paths.WriteRoot) == "" {
		return errors.New("paths.write_root must be set (or export WRITE_ROOT)")
	}
	if filepath.Clean(c.Paths.MLHDRoot) == filepath.Clean(c.Paths.WriteRoot) {
		return errors.New("paths.write_root must differ from paths.mlhd_root; cleaned files would overwrite their sources")
	}
	return nil
}

func (c *Config) validateClean() error {
	if err := ensurePositiveMap(map[string]int{
		"clean.chunk_size":  c.Clean.ChunkSize,
		"clean.max_workers": c.Clean.MaxWorkers,
	}); err != nil {
		return err
	}
	if c.Clean.LogEpoch < 0 {
		return errors.New("clean.log_epoch must be >= 0 (0 flushes only at the end of a run)")
	}
	if strings.ContainsRune(c.Clean.LogFileName, filepath.Separator) {
		return errors.New("clean.log_file_name must be a file name, not a path")
	}
	if !strings.HasSuffix(strings.ToLower(c.Clean.LogFileName), ".json") {
		return errors.New("clean.log_file_name must end in .json")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
