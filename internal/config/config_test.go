package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Paths.SourceDir == "" || strings.HasPrefix(cfg.Paths.SourceDir, "~") {
		t.Fatalf("source dir not expanded: %q", cfg.Paths.SourceDir)
	}
	if cfg.Paths.TargetDir != filepath.Join(cfg.Paths.SourceDir, "Cleaned") {
		t.Fatalf("unexpected default target: %q", cfg.Paths.TargetDir)
	}
	if !cfg.Cleaner.TempClean || !cfg.Duplicates.Enabled {
		t.Fatal("expected temp clean and duplicate detection enabled by default")
	}
	if len(cfg.Cleaner.TempSuffixes) == 0 {
		t.Fatal("expected default temp suffixes")
	}
}

func TestLoadParsesFileAndNormalizesSuffixes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
source_dir = "` + dir + `"

[cleaner]
temp_suffixes = ["CRDOWNLOAD", ".part", ".part", "  "]

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s, got %s (exists=%v)", path, resolved, exists)
	}
	want := []string{".crdownload", ".part"}
	if len(cfg.Cleaner.TempSuffixes) != len(want) {
		t.Fatalf("suffixes = %v, want %v", cfg.Cleaner.TempSuffixes, want)
	}
	for i, suffix := range want {
		if cfg.Cleaner.TempSuffixes[i] != suffix {
			t.Fatalf("suffixes = %v, want %v", cfg.Cleaner.TempSuffixes, want)
		}
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestLoadRejectsTargetEqualSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[paths]\nsource_dir = \"" + dir + "\"\ntarget_dir = \"" + dir + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error when target equals source")
	}
}

func TestHistoryAndLockPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.SourceDir = "/tmp/dl"
	if got := cfg.HistoryPath(); got != "/tmp/dl/.cleanup_history.json" {
		t.Fatalf("HistoryPath = %q", got)
	}
	if got := cfg.LockPath(); got != "/tmp/dl/.downsweep.lock" {
		t.Fatalf("LockPath = %q", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[cleaner]") {
		t.Fatal("sample config missing cleaner section")
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/Downloads")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "Downloads") {
		t.Fatalf("ExpandPath = %q", got)
	}
}
