package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"downsweep/internal/cleaner"
	"downsweep/internal/logging"
)

func newUndoCommand(ctx *commandContext, dryRun, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent cleanup run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUndo(cmd, ctx, *dryRun, *verbose)
		},
	}
}

func runUndo(cmd *cobra.Command, ctx *commandContext, dryRun, verbose bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg, verbose)
	if err != nil {
		return err
	}

	summary, err := cleaner.Undo(cmd.Context(), cfg, dryRun, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	title := "Undo summary"
	if dryRun {
		title = "Undo summary (dry run)"
	}
	fmt.Fprintf(out, "%s — session %s from %s\n", title, shortID(summary.SessionID), summary.StartedAt.Local().Format("2006-01-02 15:04:05"))
	rows := [][]string{
		{"Operations in session", strconv.Itoa(summary.Operations)},
		{"Successfully reversed", strconv.Itoa(summary.Reversed)},
		{"Could not reverse", strconv.Itoa(summary.Failed)},
	}
	fmt.Fprintln(out, renderTable([]string{"Result", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))

	if dryRun {
		fmt.Fprintln(out, "This was a dry run; nothing was moved back.")
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
