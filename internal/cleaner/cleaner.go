package cleaner

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofrs/flock"

	"downsweep/internal/config"
	"downsweep/internal/digest"
	"downsweep/internal/history"
	"downsweep/internal/logging"
	"downsweep/internal/pdfmerge"
	"downsweep/internal/preflight"
)

// Options selects which stages a run executes and whether anything is mutated.
type Options struct {
	DryRun     bool
	TempClean  bool
	Duplicates bool
	MergePDFs  bool
}

// Summary aggregates per-run counters. It is created fresh per run and only
// the CLI renders it.
type Summary struct {
	Categorized     int
	TempRemoved     int
	DuplicatesMoved int
	PDFsMerged      int
	Errors          int
}

// Stats converts the summary into the history record shape.
func (s Summary) Stats() history.Stats {
	return history.Stats{
		Categorized:     s.Categorized,
		TempRemoved:     s.TempRemoved,
		DuplicatesMoved: s.DuplicatesMoved,
		PDFsMerged:      s.PDFsMerged,
		Errors:          s.Errors,
	}
}

// Cleaner sequences the cleanup stages over one source directory.
type Cleaner struct {
	cfg     *config.Config
	opts    Options
	logger  *slog.Logger
	digests *digest.Resolver
	merger  pdfmerge.Merger
}

// New constructs a Cleaner. digests must be non-nil; merger may be nil, which
// degrades the merge stage to a reported no-op.
func New(cfg *config.Config, opts Options, logger *slog.Logger, digests *digest.Resolver, merger pdfmerge.Merger) *Cleaner {
	return &Cleaner{
		cfg:     cfg,
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "cleaner"),
		digests: digests,
		merger:  merger,
	}
}

// Run executes the configured stages and returns the run summary. Per-file
// errors are counted in the summary; the returned error is non-nil only for
// fatal setup failures (bad source path, unwritable target, held lock).
func (c *Cleaner) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	if err := preflight.Run(c.cfg.Paths.SourceDir, c.cfg.Paths.TargetDir); err != nil {
		return summary, Wrap(ErrConfiguration, "run", "preflight", err.Error(), nil)
	}

	// Dry runs take no lock and write nothing: the lock file itself would be
	// a filesystem mutation.
	var hist *history.Log
	if !c.opts.DryRun {
		lock := flock.New(c.cfg.LockPath())
		ok, err := lock.TryLock()
		if err != nil {
			return summary, Wrap(ErrConfiguration, "run", "acquire lock", c.cfg.LockPath(), err)
		}
		if !ok {
			return summary, Wrap(ErrConfiguration, "run", "acquire lock", "another downsweep run owns this source directory", nil)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				c.logger.Warn("failed to release run lock", logging.Error(err))
			}
		}()

		if err := c.cfg.EnsureDirectories(); err != nil {
			return summary, Wrap(ErrConfiguration, "run", "ensure directories", "", err)
		}

		var histErr error
		hist, histErr = history.Open(c.cfg.HistoryPath())
		if histErr != nil {
			// A corrupt history file must not block cleaning, but without it
			// this run cannot be undone; run with recording disabled.
			c.logger.Error("history unusable, undo disabled for this run", logging.Error(histErr))
			summary.Errors++
			hist = nil
		}
		if hist != nil {
			sessionID := hist.Begin()
			c.logger.Debug("run session started", logging.String("session_id", sessionID))
		}
	}

	c.logger.Info("cleanup started",
		logging.String("source", c.cfg.Paths.SourceDir),
		logging.String("target", c.cfg.Paths.TargetDir),
		logging.Bool("dry_run", c.opts.DryRun),
	)

	if c.opts.TempClean {
		if err := c.cleanTempFiles(ctx, hist, &summary); err != nil {
			return summary, err
		}
	}

	claimed := map[string]struct{}{}
	if c.opts.Duplicates {
		var err error
		claimed, err = c.moveDuplicates(ctx, hist, &summary)
		if err != nil {
			return summary, err
		}
	}

	if err := c.categorize(ctx, hist, claimed, &summary); err != nil {
		return summary, err
	}

	if c.opts.MergePDFs {
		c.mergePDFs(ctx, hist, &summary)
	}

	if hist != nil {
		hist.SetStats(summary.Stats())
		if err := hist.Close(); err != nil {
			c.logger.Error("failed to persist history", logging.Error(err))
			summary.Errors++
		}
	}

	c.logger.Info("cleanup finished",
		logging.Int("categorized", summary.Categorized),
		logging.Int("temp_removed", summary.TempRemoved),
		logging.Int("duplicates_moved", summary.DuplicatesMoved),
		logging.Int("pdfs_merged", summary.PDFsMerged),
		logging.Int("errors", summary.Errors),
	)
	return summary, nil
}

// isTempFile reports whether name carries one of the configured
// incomplete-download suffixes.
func (c *Cleaner) isTempFile(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range c.cfg.Cleaner.TempSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
