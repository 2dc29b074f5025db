package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultSourceDir       = "~/Downloads"
	defaultTargetName      = "Cleaned"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultPDFOutputPrefix = "merged"

	// HistoryFileName is the history file kept alongside the source directory.
	HistoryFileName = ".cleanup_history.json"
	// LockFileName guards against two runs over the same source directory.
	LockFileName = ".downsweep.lock"
)

// DefaultTempSuffixes returns the incomplete-download suffixes removed by the
// temp-clean stage when no override is configured.
func DefaultTempSuffixes() []string {
	return []string{".crdownload", ".part", ".tmp", ".partial", ".download", ".temp"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir: defaultSourceDir,
		},
		Cleaner: Cleaner{
			TempClean:    true,
			TempSuffixes: DefaultTempSuffixes(),
		},
		Duplicates: Duplicates{
			Enabled:      true,
			CacheEnabled: true,
		},
		PDF: PDF{
			OutputPrefix: defaultPDFOutputPrefix,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultDigestCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "downsweep", "digests.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/downsweep/digests.db"
	}
	return filepath.Join(home, ".cache", "downsweep", "digests.db")
}
