package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduz/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show quizzes recorded on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		// Local history needs neither the backend nor a session.
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.Storage.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		recs, err := st.HistoryRepo().Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No quizzes recorded yet.")
			return nil
		}
		fmt.Fprintf(out, "%-16s  %-8s  %-28s  %7s  %9s  %s\n", "When", "Category", "Item", "Score", "Correct", "Took")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, r := range recs {
			item := r.ItemName
			if item == "" {
				item = fmt.Sprintf("#%d", r.ItemID)
			}
			if len(item) > 28 {
				item = item[:25] + "..."
			}
			took := "-"
			if !r.StartedAt.IsZero() && r.EndedAt.After(r.StartedAt) {
				took = r.EndedAt.Sub(r.StartedAt).Round(time.Second).String()
			}
			fmt.Fprintf(out, "%-16s  %-8s  %-28s  %6.1f%%  %4d/%-4d  %s\n",
				r.RecordedAt.Local().Format("2006-01-02 15:04"), r.Category, item,
				r.Score, r.CorrectAnswers, r.TotalQuestions, took)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of records to show (0 = all)")
}
