package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"videodigest/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent digest runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runstore.Open(runStorePath(cfg))
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			headers := []string{"RUN", "VIDEO", "STATUS", "STARTED", "OUTPUT", "DETAIL"}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				detail := run.ErrorMessage
				if detail == "" && len(run.DegradationNotes) > 0 {
					detail = strings.Join(run.DegradationNotes, "; ")
				}
				rows = append(rows, []string{
					shortRunID(run.ID),
					run.VideoID,
					string(run.Status),
					run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					run.OutputDir,
					detail,
				})
			}
			if isTerminal(out) {
				fmt.Fprintln(out, renderTable(headers, rows, nil))
			} else {
				fmt.Fprintln(out, renderPlain(headers, rows))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list")
	return cmd
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
