package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/quiz"
	"github.com/abhisek/eduz/internal/screens/result"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take a quiz on the command line",
	Long: `Start a quiz for one subject, topic or branch and answer it line by line.
Answer with the option number; an empty line goes back one question.
Use "eduz entities list" to find item ids.`,
	RunE: runQuiz,
}

func init() {
	quizCmd.Flags().String("category", quiz.CategorySubject, "Scope category: subject, topic or branch")
	quizCmd.Flags().String("item", "", "Id of the subject, topic or branch (required)")
	quizCmd.Flags().Int("count", quiz.DefaultNumQuestions, "Number of questions")
	_ = quizCmd.MarkFlagRequired("item")
}

func runQuiz(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	itemVal, _ := cmd.Flags().GetString("item")
	count, _ := cmd.Flags().GetInt("count")

	itemID, err := api.ParseID(itemVal)
	if err != nil {
		return err
	}

	flow := quiz.NewFlow()
	if err := flow.Begin(quiz.Scope{Category: category, ItemID: itemID, NumQuestions: count}); err != nil {
		return err
	}

	deps, cleanup, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := requireRoute(deps, guard.PathQuizPrep); err != nil {
		return err
	}

	ctx := cmd.Context()
	started := time.Now()
	start, err := deps.API.StartQuiz(ctx, category, itemID, count)
	if err != nil {
		deps.Expire(ctx, err)
		flow.Failed(err)
		return fmt.Errorf("start quiz: %s", api.Message(err, "Could not start the quiz"))
	}
	if err := flow.Started(start); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())
	for flow.State() == quiz.StateInProgress {
		q, _ := flow.Current()
		cur, total, _ := flow.Progress()
		fmt.Fprintf(out, "── Question %d/%d ──\n%s\n", cur, total, q.QuestionText)
		for j, o := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", j+1, o)
		}
		if prev, ok := flow.Answered(q.ID); ok {
			fmt.Fprintf(out, "(current answer: %s)\n", prev)
		}

		line, ok := prompt(cmd, in, "\nYour answer: ")
		if !ok {
			return errors.New("input closed before the quiz was submitted")
		}
		if line == "" {
			if cur == 1 {
				return errors.New("quiz abandoned")
			}
			_ = flow.Back()
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(q.Options) {
			fmt.Fprintf(out, "Pick a number from 1 to %d.\n\n", len(q.Options))
			continue
		}
		if err := flow.Answer(q.Options[n-1]); err != nil {
			return err
		}
		if err := flow.Next(); err != nil {
			return err
		}
		fmt.Fprintln(out)

		for flow.State() == quiz.StateSubmitting {
			err := deps.API.SubmitQuiz(ctx, flow.SubmitRequest())
			if err == nil {
				_ = flow.Submitted()
				break
			}
			if deps.Expire(ctx, err) {
				return errors.New("session expired: sign in again")
			}
			flow.SubmitFailed(err)
			fmt.Fprintf(out, "Submit failed: %s\n", api.Message(err, "Could not submit your answers"))
			if !confirm(cmd, in, "Retry? [y/N] ") {
				return err
			}
			_ = flow.Retry()
		}
	}

	res, err := deps.API.QuizResult(ctx, flow.SessionID())
	if err != nil {
		deps.Expire(ctx, err)
		return fmt.Errorf("load result: %s", api.Message(err, "Could not load the result"))
	}
	saved := result.Record(ctx, deps, result.Params{
		SessionID: flow.SessionID(),
		Category:  category,
		ItemID:    itemID,
		ItemName:  itemName(cmd, deps, category, itemID),
		StartedAt: started,
	}, res)

	fmt.Fprintf(out, "── Score: %.0f%% (%d/%d correct) ──\n", res.Score, res.CorrectAnswers, res.TotalQuestions)
	if !saved {
		fmt.Fprintln(out, "(not saved to local history)")
	}
	return nil
}

// itemName looks up the display name of the quiz scope; "" when the
// catalog can't be loaded.
func itemName(cmd *cobra.Command, deps *appctx.Deps, category string, id api.ID) string {
	if err := deps.Catalog.Load(cmd.Context()); err != nil {
		return ""
	}
	switch category {
	case quiz.CategorySubject:
		s, _ := deps.Catalog.Subject(id)
		return s.Name
	case quiz.CategoryTopic:
		t, _ := deps.Catalog.Topic(id)
		return t.Name
	case quiz.CategoryBranch:
		b, _ := deps.Catalog.Branch(id)
		return b.Name
	}
	return ""
}

// confirm asks a yes/no question. Anything but an explicit yes is a no,
// closed input included.
func confirm(cmd *cobra.Command, in *bufio.Reader, label string) bool {
	answer, ok := prompt(cmd, in, label)
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
