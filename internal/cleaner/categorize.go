package cleaner

import (
	"context"
	"path/filepath"

	"downsweep/internal/category"
	"downsweep/internal/history"
	"downsweep/internal/logging"
	"downsweep/internal/scan"
)

// categorize moves every remaining file into its extension-derived category
// folder under the target root.
func (c *Cleaner) categorize(ctx context.Context, hist *history.Log, claimed map[string]struct{}, summary *Summary) error {
	entries, err := scan.List(c.cfg.Paths.SourceDir)
	if err != nil {
		return Wrap(ErrConfiguration, "categorize", "list source", "", err)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.isTempFile(entry.Name) {
			continue
		}
		if _, ok := claimed[entry.Path]; ok {
			continue
		}

		cat := category.FromExtension(entry.Ext)
		destDir := filepath.Join(c.cfg.Paths.TargetDir, cat.FolderName())

		if c.opts.DryRun {
			c.logger.Info("would categorize file",
				logging.String("name", entry.Name),
				logging.String("category", cat.FolderName()),
			)
			summary.Categorized++
			continue
		}

		if err := c.moveTo(ctx, hist, entry, destDir); err != nil {
			c.logger.Warn("categorization failed", logging.String("name", entry.Name), logging.Error(err))
			summary.Errors++
			continue
		}
		summary.Categorized++
		c.logger.Debug("categorized file",
			logging.String("name", entry.Name),
			logging.String("category", cat.FolderName()),
		)
	}
	return nil
}
