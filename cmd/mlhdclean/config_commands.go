package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mlhdclean/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the mlhdclean configuration",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

// writeSampleConfig writes the sample configuration to target, or to the
// default location when target is empty, and returns the path written.
func writeSampleConfig(target string, overwrite bool) (string, error) {
	var err error
	if target = strings.TrimSpace(target); target == "" {
		target, err = config.DefaultConfigPath()
	} else {
		target, err = config.ExpandPath(target)
	}
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}

	switch _, statErr := os.Stat(target); {
	case statErr == nil && !overwrite:
		return "", fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
	case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
		return "", fmt.Errorf("check config path: %w", statErr)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := config.CreateSample(target); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return target, nil
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := writeSampleConfig(targetPath, overwrite)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", written)
			fmt.Fprintln(out, "Next: set paths.mlhd_root and paths.write_root (or MLHD_ROOT and WRITE_ROOT), then run `mlhdclean catalog import`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and show the resolved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := ctx.configPath
			if !ctx.configExists {
				source = "defaults (no config file found)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Value"},
				resolvedSettings(source, cfg),
				[]columnAlignment{alignLeft, alignLeft},
			))
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}
}

func resolvedSettings(source string, cfg *config.Config) [][]string {
	return [][]string{
		{"config", source},
		{"paths.mlhd_root", cfg.Paths.MLHDRoot},
		{"paths.write_root", cfg.Paths.WriteRoot},
		{"paths.catalog_path", cfg.Paths.CatalogPath},
		{"clean.chunk_size", strconv.Itoa(cfg.Clean.ChunkSize)},
		{"clean.max_workers", strconv.Itoa(cfg.Clean.MaxWorkers)},
		{"clean.log_epoch", strconv.Itoa(cfg.Clean.LogEpoch)},
		{"clean.input_extensions", strings.Join(cfg.Clean.InputExtensions, ", ")},
		{"progress log", cfg.ProgressLogPath()},
		{"ignored settings set", yesNo(cfg.Clean.KeepMissing || cfg.Clean.TurnBlank)},
	}
}
