package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cinematch/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded catalog builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ledgerStore(cmd.Context())
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("build ledger is disabled (set ledger.enabled = true)")
			}
			builds, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				if builds == nil {
					builds = []ledger.Build{}
				}
				return writeJSON(cmd, builds)
			}

			out := cmd.OutOrStdout()
			if len(builds) == 0 {
				fmt.Fprintln(out, "No builds recorded")
				return nil
			}
			rows := make([][]string, 0, len(builds))
			for _, b := range builds {
				rows = append(rows, historyRow(b))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Status", "Movies", "Terms", "Duration", "Build ID"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of builds to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func historyRow(b ledger.Build) []string {
	movies, terms := "-", "-"
	if b.Rows > 0 {
		movies = strconv.Itoa(b.Rows)
	}
	if b.Vocabulary > 0 {
		terms = strconv.Itoa(b.Vocabulary)
	}
	status := string(b.Status)
	if b.Status == ledger.StatusFailed && b.Error != "" {
		status += ": " + truncate(b.Error, 48)
	}
	return []string{
		b.StartedAt.Local().Format("2006-01-02 15:04:05"),
		status,
		movies,
		terms,
		b.Duration.Round(time.Millisecond).String(),
		b.ID,
	}
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
