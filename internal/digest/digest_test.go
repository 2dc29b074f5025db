package digest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileDigestKnownValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	// sha256("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Fatalf("digest = %s, want %s", got, want)
	}
}

func TestFileDigestIdenticalContentMatches(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("same bytes"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	da, err := File(a)
	if err != nil {
		t.Fatal(err)
	}
	db, err := File(b)
	if err != nil {
		t.Fatal(err)
	}
	if da != db {
		t.Fatalf("identical content produced different digests: %s vs %s", da, db)
	}
}

func TestFileDigestMissingFile(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "digests.db"))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	if err := cache.Store(ctx, "/tmp/a", 10, 111, "abc"); err != nil {
		t.Fatal(err)
	}

	value, ok, err := cache.Lookup(ctx, "/tmp/a", 10, 111)
	if err != nil || !ok || value != "abc" {
		t.Fatalf("Lookup = (%q, %v, %v), want (abc, true, nil)", value, ok, err)
	}

	// Size change invalidates the entry.
	if _, ok, err := cache.Lookup(ctx, "/tmp/a", 11, 111); err != nil || ok {
		t.Fatalf("stale lookup: ok=%v err=%v, want miss", ok, err)
	}

	// Upsert replaces the row.
	if err := cache.Store(ctx, "/tmp/a", 11, 222, "def"); err != nil {
		t.Fatal(err)
	}
	value, ok, err = cache.Lookup(ctx, "/tmp/a", 11, 222)
	if err != nil || !ok || value != "def" {
		t.Fatalf("Lookup after upsert = (%q, %v, %v)", value, ok, err)
	}

	if err := cache.Forget(ctx, "/tmp/a"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := cache.Lookup(ctx, "/tmp/a", 11, 222); ok {
		t.Fatal("entry survived Forget")
	}
}

func TestCachePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digests.db")
	cache, err := OpenCache(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cache.Store(context.Background(), "/tmp/x", 1, 2, "xyz"); err != nil {
		t.Fatal(err)
	}
	if err := cache.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenCache(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	value, ok, err := reopened.Lookup(context.Background(), "/tmp/x", 1, 2)
	if err != nil || !ok || value != "xyz" {
		t.Fatalf("Lookup after reopen = (%q, %v, %v)", value, ok, err)
	}
}

func TestResolverUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	cache, err := OpenCache(filepath.Join(dir, "digests.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	resolver := NewResolver(cache, nil)
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, path)
	if err != nil {
		t.Fatal(err)
	}

	// Seed a sentinel under the current stat key to prove the cache is hit.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cache.Store(ctx, path, info.Size(), info.ModTime().UnixNano(), "sentinel"); err != nil {
		t.Fatal(err)
	}
	second, err := resolver.Resolve(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if second != "sentinel" {
		t.Fatalf("expected cache hit, got %s", second)
	}

	// Touching the file invalidates the sentinel and recomputes.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	third, err := resolver.Resolve(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if third != first {
		t.Fatalf("recomputed digest %s, want %s", third, first)
	}
}

func TestResolverWithoutCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolver := NewResolver(nil, nil)
	value, err := resolver.Resolve(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	want, err := File(path)
	if err != nil {
		t.Fatal(err)
	}
	if value != want {
		t.Fatalf("Resolve = %s, want %s", value, want)
	}
}
