package config

const (
	defaultMLHDRoot       = "~/data/mlhd"
	defaultWriteRoot      = "~/data/mlhd-clean"
	defaultLogDir         = "~/.local/share/mlhdclean/logs"
	defaultCatalogPath    = "~/.local/share/mlhdclean/catalog.db"
	defaultChunkSize      = 5
	defaultMaxWorkers     = 1
	defaultLogEpoch       = 50
	defaultLogFileName    = "clean_master_log.json"
	defaultMinFreeGiB     = 1
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultRetentionDays  = 30
	defaultCatalogSrcDir  = "warehouse/MB_tables"
	envMLHDRoot           = "MLHD_ROOT"
	envWriteRoot          = "WRITE_ROOT"
	envLogWriteRoot       = "LOG_WRITE_ROOT"
	envMusicBrainzDBURL   = "MB_DATABASE_URL"
	defaultEnvFileName    = ".env"
	defaultInputExtension = ".txt"
)

var defaultInputExtensions = []string{defaultInputExtension, ".txt.zst", ".tsv", ".tsv.zst"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MLHDRoot:    defaultMLHDRoot,
			WriteRoot:   defaultWriteRoot,
			LogDir:      defaultLogDir,
			CatalogPath: defaultCatalogPath,
		},
		Clean: Clean{
			ChunkSize:       defaultChunkSize,
			MaxWorkers:      defaultMaxWorkers,
			LogEpoch:        defaultLogEpoch,
			LogFileName:     defaultLogFileName,
			InputExtensions: append([]string(nil), defaultInputExtensions...),
			MinFreeGiB:      defaultMinFreeGiB,
		},
		Catalog: Catalog{
			SourceDir: defaultCatalogSrcDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}
