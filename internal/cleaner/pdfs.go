package cleaner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"downsweep/internal/category"
	"downsweep/internal/history"
	"downsweep/internal/logging"
)

// mergePDFs concatenates everything in the PDFs folder into one timestamped
// document and deletes the originals. Failures abort only this stage; the run
// summary still reports the earlier stages.
func (c *Cleaner) mergePDFs(ctx context.Context, hist *history.Log, summary *Summary) {
	if c.merger == nil {
		c.logger.Warn("pdf merge skipped",
			logging.Error(Wrap(ErrMergeUnavailable, "merge-pdfs", "resolve merger", "no PDF merger wired", nil)),
		)
		return
	}

	pdfDir := filepath.Join(c.cfg.Paths.TargetDir, category.PDFs.FolderName())
	dirEntries, err := os.ReadDir(pdfDir)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		c.logger.Warn("pdf merge skipped", logging.Error(classifyFileError("merge-pdfs", "list", pdfDir, err)))
		summary.Errors++
		return
	}

	inputs := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(strings.ToLower(de.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(pdfDir, de.Name())
		if err := c.merger.Validate(ctx, path); err != nil {
			c.logger.Warn("corrupt pdf excluded from merge",
				logging.String("name", de.Name()),
				logging.Error(Wrap(ErrMergeSourceCorrupt, "merge-pdfs", "validate", de.Name(), err)),
			)
			summary.Errors++
			continue
		}
		inputs = append(inputs, path)
	}
	sort.Strings(inputs)

	if len(inputs) < 2 {
		c.logger.Debug("not enough PDFs to merge", logging.Int("count", len(inputs)))
		return
	}

	output := filepath.Join(pdfDir, fmt.Sprintf("%s_%s.pdf",
		c.cfg.PDF.OutputPrefix, time.Now().Format("20060102_150405")))

	if c.opts.DryRun {
		c.logger.Info("would merge PDFs",
			logging.Int("count", len(inputs)),
			logging.String("output", filepath.Base(output)),
		)
		summary.PDFsMerged += len(inputs)
		return
	}

	if err := c.merger.Merge(ctx, inputs, output); err != nil {
		c.logger.Error("pdf merge failed", logging.Error(err))
		summary.Errors++
		return
	}

	// Deleting a merged original is informational in history: undo cannot
	// restore its pages, only the merged document keeps them.
	for _, input := range inputs {
		if err := os.Remove(input); err != nil {
			c.logger.Warn("failed to remove merged original",
				logging.String("name", filepath.Base(input)),
				logging.Error(classifyFileError("merge-pdfs", "remove", input, err)),
			)
			summary.Errors++
			continue
		}
		if hist != nil {
			hist.RecordDelete(input)
		}
		c.digests.Forget(ctx, input)
	}
	summary.PDFsMerged += len(inputs)
	c.logger.Info("merged PDFs",
		logging.Int("count", len(inputs)),
		logging.String("output", filepath.Base(output)),
	)
}
