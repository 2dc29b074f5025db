package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := MoveFile(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source still present after move")
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "data" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestUniquePathFreeDestination(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "file.txt")
	got, err := UniquePath(dst)
	if err != nil {
		t.Fatal(err)
	}
	if got != dst {
		t.Fatalf("UniquePath = %q, want %q", got, dst)
	}
}

func TestUniquePathDisambiguates(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(dst, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "file (1).txt"), []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := UniquePath(dst)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "file (2).txt") {
		t.Fatalf("UniquePath = %q, want file (2).txt", got)
	}
}

func TestUniquePathNoExtension(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "README")
	if err := os.WriteFile(dst, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := UniquePath(dst)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "README (1)") {
		t.Fatalf("UniquePath = %q, want README (1)", got)
	}
}
