package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"downsweep/internal/cleaner"
	"downsweep/internal/digest"
	"downsweep/internal/logging"
	"downsweep/internal/pdfmerge"
)

type cleanOptions struct {
	dryRun     bool
	tempClean  bool
	duplicates bool
	mergePDFs  bool
	verbose    bool
}

func runClean(cmd *cobra.Command, ctx *commandContext, opts cleanOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg, opts.verbose)
	if err != nil {
		return err
	}

	// The digest cache stays closed in dry runs: a preview must not write
	// anywhere, not even outside the source tree.
	var cache *digest.Cache
	if opts.duplicates && cfg.Duplicates.Enabled && cfg.Duplicates.CacheEnabled && !opts.dryRun {
		cache, err = digest.OpenCache(cfg.Duplicates.CachePath)
		if err != nil {
			logger.Warn("digest cache unavailable, hashing without it", logging.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	var merger pdfmerge.Merger
	if opts.mergePDFs || cfg.PDF.Merge {
		merger = pdfmerge.New()
	}

	cl := cleaner.New(cfg, cleaner.Options{
		DryRun:     opts.dryRun,
		TempClean:  opts.tempClean && cfg.Cleaner.TempClean,
		Duplicates: opts.duplicates && cfg.Duplicates.Enabled,
		MergePDFs:  opts.mergePDFs || cfg.PDF.Merge,
	}, logger, digest.NewResolver(cache, logger), merger)

	summary, err := cl.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	title := "Cleanup summary"
	if opts.dryRun {
		title = "Cleanup summary (dry run)"
	}
	fmt.Fprintln(out, title)

	rows := [][]string{
		{"Files categorized", strconv.Itoa(summary.Categorized)},
		{"Temp files removed", strconv.Itoa(summary.TempRemoved)},
		{"Duplicates moved", strconv.Itoa(summary.DuplicatesMoved)},
	}
	if opts.mergePDFs || cfg.PDF.Merge {
		rows = append(rows, []string{"PDFs merged", strconv.Itoa(summary.PDFsMerged)})
	}
	rows = append(rows, []string{"Errors encountered", strconv.Itoa(summary.Errors)})
	fmt.Fprintln(out, renderTable([]string{"Stage", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))

	if opts.dryRun {
		fmt.Fprintln(out, "This was a dry run; no files were moved. Run without --dry-run to apply.")
	}
	return nil
}
