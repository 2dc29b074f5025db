package digest

import (
	"context"
	"log/slog"
	"os"

	"downsweep/internal/logging"
)

// Resolver computes file digests, consulting an optional Cache first. Cache
// failures degrade to plain hashing and are logged at debug level; they never
// surface as run errors.
type Resolver struct {
	cache  *Cache
	logger *slog.Logger
}

// NewResolver builds a Resolver. Both cache and logger may be nil.
func NewResolver(cache *Cache, logger *slog.Logger) *Resolver {
	return &Resolver{
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "digest"),
	}
}

// Resolve returns the content digest for path, preferring a valid cache entry.
func (r *Resolver) Resolve(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	size := info.Size()
	mtime := info.ModTime().UnixNano()

	if r.cache != nil {
		if value, ok, err := r.cache.Lookup(ctx, path, size, mtime); err != nil {
			r.logger.Debug("digest cache lookup failed", logging.String("path", path), logging.Error(err))
		} else if ok {
			return value, nil
		}
	}

	value, err := File(path)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		if err := r.cache.Store(ctx, path, size, mtime, value); err != nil {
			r.logger.Debug("digest cache store failed", logging.String("path", path), logging.Error(err))
		}
	}
	return value, nil
}

// Forget removes the cache entry for a path that no longer exists at that
// location. No-op without a cache.
func (r *Resolver) Forget(ctx context.Context, path string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Forget(ctx, path); err != nil {
		r.logger.Debug("digest cache forget failed", logging.String("path", path), logging.Error(err))
	}
}
