package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "Browse and create subjects, topics, branches and systems",
}

var entitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the entity tree (optionally for one level)",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("level")

		deps, cleanup, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		levels := deps.Catalog.Levels()
		if level != "" {
			levels = []string{level}
		}
		out := cmd.OutOrStdout()
		for _, l := range levels {
			subjects := deps.Catalog.SubjectsForLevel(l)
			if level != "" && len(subjects) == 0 {
				return fmt.Errorf("no subjects found for level %q", l)
			}
			fmt.Fprintln(out, l)
			for _, s := range subjects {
				fmt.Fprintf(out, "  %-6s %s\n", s.ID, s.Name)
				for _, b := range deps.Catalog.BranchesForSubject(s.ID) {
					fmt.Fprintf(out, "    branch %-6s %s\n", b.ID, b.Name)
				}
				for _, t := range deps.Catalog.TopicsForSubject(s.ID) {
					fmt.Fprintf(out, "    topic  %-6s %s\n", t.ID, t.Name)
				}
			}
		}

		var systems []string
		for _, s := range deps.Catalog.Systems() {
			systems = append(systems, s.Name)
		}
		if len(systems) > 0 {
			fmt.Fprintf(out, "\nsystems: %s\n", strings.Join(systems, ", "))
		}
		return nil
	},
}

var entitiesAddCmd = &cobra.Command{
	Use:   "add {subject|topic|branch|system} NAME",
	Short: "Create an entity, reusing an existing one with the same name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, name := args[0], args[1]
		level, _ := cmd.Flags().GetString("level")
		subjectFlag, _ := cmd.Flags().GetString("subject")

		var subjectID api.ID
		if subjectFlag != "" {
			id, err := api.ParseID(subjectFlag)
			if err != nil {
				return err
			}
			subjectID = id
		}

		deps, cleanup, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		var (
			id      string
			created bool
		)
		switch kind {
		case "subject":
			s, c, err := deps.Catalog.EnsureSubject(ctx, level, name)
			if err != nil {
				return entityErr(deps, cmd, err)
			}
			id, name, created = s.ID.String(), s.Name, c
		case "topic":
			if level == "" {
				if s, ok := deps.Catalog.Subject(subjectID); ok {
					level = s.Level
				}
			}
			t, c, err := deps.Catalog.EnsureTopic(ctx, subjectID, level, name)
			if err != nil {
				return entityErr(deps, cmd, err)
			}
			id, name, created = t.ID.String(), t.Name, c
		case "branch":
			b, c, err := deps.Catalog.EnsureBranch(ctx, subjectID, name)
			if err != nil {
				return entityErr(deps, cmd, err)
			}
			id, name, created = b.ID.String(), b.Name, c
		case "system":
			s, c, err := deps.Catalog.EnsureSystem(ctx, name)
			if err != nil {
				return entityErr(deps, cmd, err)
			}
			id, name, created = "-", s.Name, c
		default:
			return fmt.Errorf("unknown entity kind %q: use subject, topic, branch or system", kind)
		}

		verb := "Using existing"
		if created {
			verb = "Created"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %q (id %s)\n", verb, kind, name, id)
		return nil
	},
}

func init() {
	entitiesListCmd.Flags().String("level", "", "Only show this level")
	entitiesAddCmd.Flags().String("level", "", "Level of a new subject or topic")
	entitiesAddCmd.Flags().String("subject", "", "Parent subject id of a topic or branch")

	entitiesCmd.AddCommand(entitiesListCmd)
	entitiesCmd.AddCommand(entitiesAddCmd)
}

// loadCatalog sets up, checks the session and fills the entity cache.
func loadCatalog(cmd *cobra.Command) (*appctx.Deps, func(), error) {
	deps, cleanup, err := setup(cmd, true)
	if err != nil {
		return nil, nil, err
	}
	if err := requireLogin(deps); err != nil {
		cleanup()
		return nil, nil, err
	}
	if err := deps.Catalog.Load(cmd.Context()); err != nil {
		deps.Expire(cmd.Context(), err)
		cleanup()
		return nil, nil, fmt.Errorf("load entities: %s", api.Message(err, "Could not load entities"))
	}
	return deps, cleanup, nil
}

func entityErr(deps *appctx.Deps, cmd *cobra.Command, err error) error {
	deps.Expire(cmd.Context(), err)
	return errors.New(api.Message(err, err.Error()))
}
