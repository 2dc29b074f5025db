package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCLIConfig(t *testing.T, base string) string {
	t.Helper()

	source := filepath.Join(base, "downloads")
	if err := os.MkdirAll(source, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}
	configPath := filepath.Join(base, "config.toml")
	body := strings.Join([]string{
		"[paths]",
		`source_dir = "` + source + `"`,
		`target_dir = "` + filepath.Join(source, "Cleaned") + `"`,
		`log_dir = "` + filepath.Join(base, "logs") + `"`,
		"",
		"[duplicates]",
		"cache_enabled = false",
		"",
		"[logging]",
		`format = "json"`,
		`level = "error"`,
	}, "\n") + "\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func requireContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, out)
	}
}

func TestCleanCommandOrganizesFolder(t *testing.T) {
	base := t.TempDir()
	configPath := writeCLIConfig(t, base)
	source := filepath.Join(base, "downloads")

	if err := os.WriteFile(filepath.Join(source, "photo.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(source, "draft.crdownload"), []byte("partial"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	out, err := runCLI(t, "--config", configPath)
	if err != nil {
		t.Fatalf("clean run: %v\n%s", err, out)
	}
	requireContains(t, out, "Files categorized")

	moved := filepath.Join(source, "Cleaned", "Images", "photo.jpg")
	if _, err := os.Stat(moved); err != nil {
		t.Fatalf("expected %s: %v", moved, err)
	}
	if _, err := os.Stat(filepath.Join(source, "draft.crdownload")); !os.IsNotExist(err) {
		t.Fatalf("expected temp file removed, stat err: %v", err)
	}
}

func TestUndoCommandRestoresFiles(t *testing.T) {
	base := t.TempDir()
	configPath := writeCLIConfig(t, base)
	source := filepath.Join(base, "downloads")

	original := filepath.Join(source, "notes.txt")
	if err := os.WriteFile(original, []byte("text"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if out, err := runCLI(t, "--config", configPath); err != nil {
		t.Fatalf("clean run: %v\n%s", err, out)
	}
	if _, err := os.Stat(original); !os.IsNotExist(err) {
		t.Fatalf("expected notes.txt moved, stat err: %v", err)
	}

	out, err := runCLI(t, "undo", "--config", configPath)
	if err != nil {
		t.Fatalf("undo run: %v\n%s", err, out)
	}
	requireContains(t, out, "Successfully reversed")

	if _, err := os.Stat(original); err != nil {
		t.Fatalf("expected notes.txt restored: %v", err)
	}
}

func TestHistoryCommandListsSessions(t *testing.T) {
	base := t.TempDir()
	configPath := writeCLIConfig(t, base)
	source := filepath.Join(base, "downloads")

	if err := os.WriteFile(filepath.Join(source, "track.mp3"), []byte("audio"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if out, err := runCLI(t, "--config", configPath); err != nil {
		t.Fatalf("clean run: %v\n%s", err, out)
	}

	out, err := runCLI(t, "history", "--config", configPath)
	if err != nil {
		t.Fatalf("history run: %v\n%s", err, out)
	}
	requireContains(t, out, "Session")
}

func TestHistoryCommandWithoutRuns(t *testing.T) {
	base := t.TempDir()
	configPath := writeCLIConfig(t, base)

	out, err := runCLI(t, "history", "--config", configPath)
	if err != nil {
		t.Fatalf("history run: %v\n%s", err, out)
	}
	requireContains(t, out, "No cleanup history")
}

func TestConfigInitWritesSample(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "config.toml")

	out, err := runCLI(t, "config", "init", "--config", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	requireContains(t, out, "Wrote sample config")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config at %s: %v", target, err)
	}

	if _, err := runCLI(t, "config", "init", "--config", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestConfigShowPrintsResolvedConfig(t *testing.T) {
	base := t.TempDir()
	configPath := writeCLIConfig(t, base)

	out, err := runCLI(t, "config", "show", "--config", configPath)
	if err != nil {
		t.Fatalf("config show: %v\n%s", err, out)
	}
	requireContains(t, out, "source_dir")
}

func TestDryRunLeavesSourceAlone(t *testing.T) {
	base := t.TempDir()
	configPath := writeCLIConfig(t, base)
	source := filepath.Join(base, "downloads")

	original := filepath.Join(source, "report.pdf")
	if err := os.WriteFile(original, []byte("pdf"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	out, err := runCLI(t, "--config", configPath, "--dry-run")
	if err != nil {
		t.Fatalf("dry run: %v\n%s", err, out)
	}

	if _, err := os.Stat(original); err != nil {
		t.Fatalf("expected report.pdf untouched: %v", err)
	}
	if _, err := os.Stat(filepath.Join(source, "Cleaned")); !os.IsNotExist(err) {
		t.Fatalf("expected no target dir in dry run, stat err: %v", err)
	}
}
