package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestListSortedRegularFilesOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"))
	writeFile(t, filepath.Join(dir, "a.PDF"))
	writeFile(t, filepath.Join(dir, ".cleanup_history.json"))
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	entries, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != "a.PDF" || entries[1].Name != "b.txt" {
		t.Fatalf("unexpected order: %v", entries)
	}
	if entries[0].Ext != "pdf" {
		t.Fatalf("ext = %q, want pdf", entries[0].Ext)
	}
}

func TestListMissingDir(t *testing.T) {
	if _, err := List(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"photo.JPG":    "jpg",
		"archive.tar":  "tar",
		"noext":        "",
		"weird.name.":  "",
		"report.crdownload": "crdownload",
	}
	for name, want := range cases {
		if got := Extension(name); got != want {
			t.Errorf("Extension(%q) = %q, want %q", name, got, want)
		}
	}
}
