package cleaner

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"downsweep/internal/category"
	"downsweep/internal/fileutil"
	"downsweep/internal/history"
	"downsweep/internal/logging"
	"downsweep/internal/scan"
)

// moveDuplicates hashes every non-temp file, groups by digest in first-seen
// order, keeps the first member of each group in place, and parks the rest in
// the Duplicates folder. The returned set holds paths this stage claimed
// (moved, or would move in a dry run) so categorization skips them.
func (c *Cleaner) moveDuplicates(ctx context.Context, hist *history.Log, summary *Summary) (map[string]struct{}, error) {
	claimed := map[string]struct{}{}

	entries, err := scan.List(c.cfg.Paths.SourceDir)
	if err != nil {
		return claimed, Wrap(ErrConfiguration, "duplicates", "list source", "", err)
	}

	// The listing is alphabetical, so group membership order and therefore
	// the retained "original" are deterministic across runs.
	groups := map[string][]scan.Entry{}
	order := make([]string, 0, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			return claimed, ctx.Err()
		}
		if c.isTempFile(entry.Name) {
			continue
		}
		value, err := c.digests.Resolve(ctx, entry.Path)
		if err != nil {
			c.logger.Warn("unreadable file excluded from duplicate detection",
				logging.String("name", entry.Name),
				logging.Error(classifyFileError("duplicates", "hash", entry.Path, err)),
			)
			summary.Errors++
			continue
		}
		if _, seen := groups[value]; !seen {
			order = append(order, value)
		}
		groups[value] = append(groups[value], entry)
	}

	dupDir := filepath.Join(c.cfg.Paths.TargetDir, category.DuplicatesDir)
	for _, value := range order {
		group := groups[value]
		if len(group) < 2 {
			continue
		}
		c.logger.Debug("duplicate group found",
			logging.String("digest", value),
			logging.Int("copies", len(group)),
			logging.String("original", group[0].Name),
		)

		for _, dup := range group[1:] {
			if c.opts.DryRun {
				c.logger.Info("would move duplicate",
					logging.String("name", dup.Name),
					logging.String("original", group[0].Name),
				)
				claimed[dup.Path] = struct{}{}
				summary.DuplicatesMoved++
				continue
			}

			if err := c.moveTo(ctx, hist, dup, dupDir); err != nil {
				c.logger.Warn("duplicate move failed", logging.String("name", dup.Name), logging.Error(err))
				summary.Errors++
				continue
			}
			claimed[dup.Path] = struct{}{}
			summary.DuplicatesMoved++
		}
	}
	return claimed, nil
}

// moveTo moves entry into destDir, creating it on demand and resolving name
// collisions. The move is recorded in history only after it succeeded.
func (c *Cleaner) moveTo(ctx context.Context, hist *history.Log, entry scan.Entry, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return classifyFileError("move", "create destination", destDir, err)
	}

	dest, err := fileutil.UniquePath(filepath.Join(destDir, entry.Name))
	if err != nil {
		if errors.Is(err, fileutil.ErrNoFreeName) {
			return Wrap(ErrCollisionUnresolved, "move", "resolve name", entry.Name, err)
		}
		return classifyFileError("move", "resolve name", entry.Name, err)
	}

	if err := fileutil.MoveFile(entry.Path, dest); err != nil {
		return classifyFileError("move", "rename", entry.Path, err)
	}

	if hist != nil {
		hist.RecordMove(entry.Path, dest)
	}
	c.digests.Forget(ctx, entry.Path)
	c.logger.Debug("moved file",
		logging.String("source", entry.Path),
		logging.String("destination", dest),
	)
	return nil
}
