package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains source and destination directory configuration.
type Paths struct {
	SourceDir string `toml:"source_dir"`
	TargetDir string `toml:"target_dir"`
	LogDir    string `toml:"log_dir"`
}

// Cleaner contains configuration for the temp-file cleanup stage.
type Cleaner struct {
	TempClean    bool     `toml:"temp_clean"`
	TempSuffixes []string `toml:"temp_suffixes"`
}

// Duplicates contains configuration for duplicate detection.
type Duplicates struct {
	Enabled      bool   `toml:"enabled"`
	CacheEnabled bool   `toml:"cache_enabled"`
	CachePath    string `toml:"cache_path"`
}

// PDF contains configuration for the optional PDF merge stage.
type PDF struct {
	Merge        bool   `toml:"merge"`
	OutputPrefix string `toml:"output_prefix"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for downsweep.
//
// Configuration sections by subsystem:
//   - Paths: source folder, organized target root, optional log directory
//   - Cleaner: temp-file suffixes and stage toggle
//   - Duplicates: duplicate detection toggle and digest cache location
//   - PDF: merge stage toggle and output naming
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Cleaner    Cleaner    `toml:"cleaner"`
	Duplicates Duplicates `toml:"duplicates"`
	PDF        PDF        `toml:"pdf"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/downsweep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. A missing file is not an error;
// defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("downsweep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		c.Paths.SourceDir = defaultSourceDir
	}
	if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TargetDir) == "" {
		c.Paths.TargetDir = filepath.Join(c.Paths.SourceDir, defaultTargetName)
	}
	if c.Paths.TargetDir, err = expandPath(c.Paths.TargetDir); err != nil {
		return fmt.Errorf("paths.target_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}

	suffixes := make([]string, 0, len(c.Cleaner.TempSuffixes))
	seen := make(map[string]struct{}, len(c.Cleaner.TempSuffixes))
	for _, suffix := range c.Cleaner.TempSuffixes {
		normalized := strings.ToLower(strings.TrimSpace(suffix))
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
		suffixes = append(suffixes, normalized)
	}
	if len(suffixes) == 0 {
		suffixes = DefaultTempSuffixes()
	}
	c.Cleaner.TempSuffixes = suffixes

	if strings.TrimSpace(c.Duplicates.CachePath) == "" {
		c.Duplicates.CachePath = defaultDigestCachePath()
	}
	if c.Duplicates.CachePath, err = expandPath(c.Duplicates.CachePath); err != nil {
		return fmt.Errorf("duplicates.cache_path: %w", err)
	}

	c.PDF.OutputPrefix = strings.TrimSpace(c.PDF.OutputPrefix)
	if c.PDF.OutputPrefix == "" {
		c.PDF.OutputPrefix = defaultPDFOutputPrefix
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// Validate checks configuration invariants that cannot be repaired by normalize.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.Paths.TargetDir == c.Paths.SourceDir {
		return errors.New("paths.target_dir must differ from paths.source_dir")
	}
	return nil
}

// EnsureDirectories creates directories the run needs before any stage starts.
// The target root is created eagerly so an unwritable target fails the run up
// front rather than mid-move.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.TargetDir, 0o755); err != nil {
		return fmt.Errorf("create target directory %q: %w", c.Paths.TargetDir, err)
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", c.Paths.LogDir, err)
		}
	}
	return nil
}

// HistoryPath returns the location of the persisted cleanup history.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.SourceDir, HistoryFileName)
}

// LockPath returns the location of the per-source run lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.SourceDir, LockFileName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
