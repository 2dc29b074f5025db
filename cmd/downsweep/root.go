package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag    string
		pathFlag      string
		targetFlag    string
		logFormatFlag string
		verbose       bool
		dryRun        bool

		noTempClean  bool
		noDuplicates bool
		mergePDFs    bool
		undoFlag     bool
	)

	ctx := newCommandContext(&configFlag, &pathFlag, &targetFlag, &logFormatFlag)

	rootCmd := &cobra.Command{
		Use:           "downsweep",
		Short:         "Organize and clean a downloads folder",
		Long: `downsweep sorts a flat downloads folder into category subfolders, removes
incomplete-download leftovers, parks byte-identical duplicates, and keeps an
undo log so the last run can be reversed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if undoFlag {
				return runUndo(cmd, ctx, dryRun, verbose)
			}
			return runClean(cmd, ctx, cleanOptions{
				dryRun:     dryRun,
				tempClean:  !noTempClean,
				duplicates: !noDuplicates,
				mergePDFs:  mergePDFs,
				verbose:    verbose,
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&pathFlag, "path", "", "Source folder to clean (default: ~/Downloads)")
	rootCmd.PersistentFlags().StringVar(&targetFlag, "target", "", "Target folder for organized files (default: <path>/Cleaned)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log output format: console or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress information")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Preview changes without moving any files")

	rootCmd.Flags().BoolVar(&noTempClean, "no-temp-clean", false, "Skip removal of temporary files")
	rootCmd.Flags().BoolVar(&noDuplicates, "no-duplicates", false, "Skip duplicate detection")
	rootCmd.Flags().BoolVar(&mergePDFs, "merge-pdfs", false, "Merge all PDF files in the PDFs folder into one")
	rootCmd.Flags().BoolVar(&undoFlag, "undo", false, "Undo the last cleanup run")

	rootCmd.AddCommand(newUndoCommand(ctx, &dryRun, &verbose))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx, &configFlag))

	return rootCmd
}
