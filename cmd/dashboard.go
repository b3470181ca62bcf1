package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/screens/dashboard"
	"github.com/abhisek/eduz/internal/session"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the dashboard of the signed-in role",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, cleanup, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := requireLogin(deps); err != nil {
			return err
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		var stats api.Stats
		switch role := deps.Session.Role(); role {
		case session.RoleStudent:
			d, err := deps.API.StudentDashboard(ctx)
			if err != nil {
				deps.Expire(ctx, err)
				return fmt.Errorf("dashboard: %s", api.Message(err, "Could not load the dashboard"))
			}
			printStats(out, []dashboard.Stat{
				{Label: "Total Quizzes", Value: fmt.Sprint(d.TotalQuizzes)},
				{Label: "Average Score", Value: fmt.Sprintf("%.2f", d.AverageScore)},
				{Label: "Highest Score", Value: fmt.Sprintf("%.2f", d.HighestScore)},
				{Label: "Lowest Score", Value: fmt.Sprintf("%.2f", d.LowestScore)},
				{Label: "Total Attempts", Value: fmt.Sprint(d.TotalAttempts)},
				{Label: "Easy / Medium / Hard", Value: fmt.Sprintf("%d / %d / %d", d.EasyCount, d.MediumCount, d.HardCount)},
			})
			if len(d.QuizHistory) > 0 {
				fmt.Fprintf(out, "\n%-8s  %7s  %9s  %-10s  %s\n", "Quiz", "Score", "Correct", "Difficulty", "Completed")
				fmt.Fprintln(out, strings.Repeat("─", 60))
				for _, h := range d.QuizHistory {
					fmt.Fprintf(out, "%-8s  %6.1f%%  %4d/%-4d  %-10s  %s\n",
						h.QuizID, h.Score, h.CorrectAnswers, h.TotalQuestions, h.Difficulty,
						h.CompletedAt.Local().Format("2006-01-02 15:04"))
				}
			}
			return nil
		case session.RoleTeacher:
			stats, err = deps.API.TeacherDashboard(ctx)
		case session.RoleAdmin:
			stats, err = deps.API.AdminDashboard(ctx)
		default:
			return fmt.Errorf("role unknown: run `eduz whoami` or sign in again")
		}
		if err != nil {
			deps.Expire(ctx, err)
			return fmt.Errorf("dashboard: %s", api.Message(err, "Could not load the dashboard"))
		}
		if len(stats) == 0 {
			fmt.Fprintln(out, "No statistics yet.")
			return nil
		}
		printStats(out, dashboard.StatsOf(stats))
		return nil
	},
}

func printStats(w io.Writer, stats []dashboard.Stat) {
	for _, s := range stats {
		fmt.Fprintf(w, "%-22s %s\n", s.Label, s.Value)
	}
}
