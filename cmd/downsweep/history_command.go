package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"downsweep/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded cleanup sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}

			sessions := log.Sessions()
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cleanup history recorded.")
				return nil
			}

			rows := make([][]string, 0, len(sessions))
			// Newest first: the top row is what undo would replay.
			for i := len(sessions) - 1; i >= 0; i-- {
				s := sessions[i]
				rows = append(rows, []string{
					shortID(s.ID),
					s.StartedAt.Local().Format("2006-01-02 15:04:05"),
					strconv.Itoa(len(s.Operations)),
					strconv.Itoa(s.Stats.Categorized),
					strconv.Itoa(s.Stats.DuplicatesMoved),
					strconv.Itoa(s.Stats.TempRemoved),
					strconv.Itoa(s.Stats.Errors),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Session", "Started", "Ops", "Categorized", "Duplicates", "Temp", "Errors"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}
