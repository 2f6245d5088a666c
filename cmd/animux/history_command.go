package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"animux/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent mux runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.Spec,
					yesNo(run.DryRun),
					formatTime(run.StartedAt),
					strconv.Itoa(run.Succeeded) + "/" + strconv.Itoa(run.Episodes),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Spec", "Dry run", "Started", "Succeeded"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.AddCommand(newHistoryResultsCommand(ctx))
	return cmd
}

func newHistoryResultsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "results <run-id>",
		Short: "Show the episode outcomes of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			results, err := store.RunResults(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No results recorded for run %s\n", args[0])
				return nil
			}

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				status := "OK"
				if !result.Success {
					status = "FAILED"
				}
				rows = append(rows, []string{
					result.Episode,
					status,
					result.Duration.Round(time.Millisecond).String(),
					result.OutputPath,
					result.Message,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Episode", "Status", "Duration", "Output", "Message"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func openHistory(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("history is disabled; set history.enabled in the configuration")
	}
	return history.Open(cfg)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
