package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/eduz/internal/app"
	"github.com/abhisek/eduz/internal/guard"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the full-screen client",
	Long: `Open the full-screen client at the landing page, or at --start.
The route guard still applies: a protected page redirects to login first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetString("start")
		return runApp(cmd, guard.Path(start))
	},
}

func init() {
	runCmd.Flags().String("start", string(guard.PathLanding), "Page to open first (e.g. /quizprep, /questions/add)")
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, start guard.Path) error {
	deps, cleanup, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer cleanup()
	return app.Run(deps, start)
}
