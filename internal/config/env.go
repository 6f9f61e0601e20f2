package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// loadDotEnv populates the process environment from a dotenv file when one
// exists. Variables already present in the environment are left untouched.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// applyEnvironment overlays environment values on top of defaults. Values from
// a config file are decoded afterwards and therefore take precedence.
func (c *Config) applyEnvironment() {
	if value, ok := lookupEnv(envMLHDRoot); ok {
		c.Paths.MLHDRoot = value
	}
	if value, ok := lookupEnv(envWriteRoot); ok {
		c.Paths.WriteRoot = value
	}
	if value, ok := lookupEnv(envLogWriteRoot); ok {
		c.Paths.LogDir = value
	}
	if value, ok := lookupEnv(envMusicBrainzDBURL); ok {
		c.Catalog.PostgresURL = value
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
