package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"videodigest/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(
				cfg.YtDlpBinary(), cfg.FFmpegBinary(), cfg.WhisperBinary()))

			headers := []string{"TOOL", "COMMAND", "AVAILABLE", "DETAIL"}
			rows := make([][]string, 0, len(statuses))
			missingRequired := false
			for _, status := range statuses {
				available := "yes"
				if !status.Available {
					available = "no"
					if !status.Optional {
						missingRequired = true
					}
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Description
				}
				rows = append(rows, []string{status.Name, status.Command, available, detail})
			}

			out := cmd.OutOrStdout()
			if isTerminal(out) {
				fmt.Fprintln(out, renderTable(headers, rows, nil))
			} else {
				fmt.Fprintln(out, renderPlain(headers, rows))
			}
			if missingRequired {
				return fmt.Errorf("required external tools are missing")
			}
			return nil
		},
	}
}
