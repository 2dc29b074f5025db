package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry describes one regular file found in the source directory.
type Entry struct {
	Path string
	Name string
	Size int64
	// Ext is the lowercased extension without the leading dot, empty when the
	// name has no extension.
	Ext string
}

// List returns the regular files directly inside dir, sorted by name so every
// stage sees the same deterministic order. Subdirectories, symlinks, and
// dot-prefixed bookkeeping files (history, lock) are skipped. Entries that
// vanish between listing and stat are silently dropped.
func List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !de.Type().IsRegular() {
			continue
		}
		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Path: filepath.Join(dir, name),
			Name: name,
			Size: info.Size(),
			Ext:  Extension(name),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Extension returns the lowercased extension of name without the leading dot.
func Extension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return strings.TrimPrefix(ext, ".")
}
