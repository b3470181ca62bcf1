package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/authoring"
	"github.com/abhisek/eduz/internal/guard"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Author questions (teacher and admin)",
}

var questionsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Create every question of a JSON batch file, in order",
	Long: `Read a JSON array of questions, validate all of them, then create them one
at a time. A failure stops the batch; questions created before it stay saved.
With --dry-run the batch is only validated and printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		drafts, err := authoring.LoadBatchFile(args[0])
		if err != nil {
			return fmt.Errorf("load %s: %w", args[0], err)
		}
		if err := authoring.Validate(drafts); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if dryRun {
			for i, item := range authoring.PreviewItems(drafts) {
				fmt.Fprintf(out, "%d. %s [%s]\n", i+1, derefOr(item.QuestionText), item.DifficultyLabel())
				for j, o := range item.Options {
					fmt.Fprintf(out, "   %c) %s\n", 'a'+j, derefOr(o))
				}
			}
			fmt.Fprintf(out, "\n%d question(s) valid, nothing sent.\n", len(drafts))
			return nil
		}

		deps, cleanup, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := requireRoute(deps, guard.PathAddQuestions); err != nil {
			return err
		}

		created, err := deps.Submitter.SubmitBatch(cmd.Context(), drafts)
		var batchErr *authoring.BatchError
		switch {
		case errors.As(err, &batchErr):
			deps.Expire(cmd.Context(), err)
			deps.Log.Warn("batch import stopped", zap.Int("index", batchErr.Index), zap.Error(batchErr.Err))
			return fmt.Errorf("%d saved. Question %d failed: %s",
				len(batchErr.Created), batchErr.Index+1, api.Message(batchErr.Err, batchErr.Err.Error()))
		case err != nil:
			return err
		}
		for _, q := range created {
			fmt.Fprintf(out, "created %s  %s\n", q.ID, q.QuestionText)
		}
		fmt.Fprintf(out, "\nAdded %d question(s).\n", len(created))
		return nil
	},
}

func init() {
	questionsImportCmd.Flags().Bool("dry-run", false, "Validate and print without sending")
	questionsCmd.AddCommand(questionsImportCmd)
}

// requireRoute applies the same guard the full-screen client uses.
func requireRoute(deps *appctx.Deps, p guard.Path) error {
	if err := requireLogin(deps); err != nil {
		return err
	}
	if !guard.CheckPath(deps.Session.State(), p).Allow {
		return fmt.Errorf("your account (%s) cannot do this", deps.Session.Role())
	}
	return nil
}

func derefOr(s *string) string {
	if s == nil {
		return "Not specified"
	}
	return *s
}
