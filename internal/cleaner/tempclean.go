package cleaner

import (
	"context"
	"os"

	"downsweep/internal/history"
	"downsweep/internal/logging"
	"downsweep/internal/scan"
)

// cleanTempFiles deletes incomplete-download leftovers from the source
// directory. Each delete is recorded only after it succeeded.
func (c *Cleaner) cleanTempFiles(ctx context.Context, hist *history.Log, summary *Summary) error {
	entries, err := scan.List(c.cfg.Paths.SourceDir)
	if err != nil {
		return Wrap(ErrConfiguration, "temp-clean", "list source", "", err)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !c.isTempFile(entry.Name) {
			continue
		}

		if c.opts.DryRun {
			c.logger.Info("would remove temp file", logging.String("name", entry.Name))
			summary.TempRemoved++
			continue
		}

		if err := os.Remove(entry.Path); err != nil {
			c.logger.Warn("temp file removal failed",
				logging.String("name", entry.Name),
				logging.Error(classifyFileError("temp-clean", "remove", entry.Path, err)),
			)
			summary.Errors++
			continue
		}

		if hist != nil {
			hist.RecordDelete(entry.Path)
		}
		c.digests.Forget(ctx, entry.Path)
		summary.TempRemoved++
		c.logger.Debug("removed temp file", logging.String("name", entry.Name))
	}
	return nil
}
