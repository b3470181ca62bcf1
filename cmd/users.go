package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/session"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List and promote accounts (admin)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every account",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, cleanup, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := requireRoute(deps, guard.PathPromote); err != nil {
			return err
		}

		users, err := deps.API.ListUsers(cmd.Context())
		if err != nil {
			deps.Expire(cmd.Context(), err)
			return fmt.Errorf("list users: %s", api.Message(err, "Could not load users"))
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-6s  %-24s  %-32s  %s\n", "ID", "Name", "Email", "Role")
		fmt.Fprintln(out, strings.Repeat("─", 76))
		for _, u := range users {
			fmt.Fprintf(out, "%-6s  %-24s  %-32s  %s\n", u.ID, u.Name, u.Email, u.Role)
		}
		fmt.Fprintf(out, "\n%d users\n", len(users))
		return nil
	},
}

var usersPromoteCmd = &cobra.Command{
	Use:   "promote ID",
	Short: "Raise an account one role (student to teacher, teacher to admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := api.ParseID(args[0])
		if err != nil {
			return err
		}

		deps, cleanup, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := requireRoute(deps, guard.PathPromote); err != nil {
			return err
		}

		ctx := cmd.Context()
		users, err := deps.API.ListUsers(ctx)
		if err != nil {
			deps.Expire(ctx, err)
			return fmt.Errorf("list users: %s", api.Message(err, "Could not load users"))
		}
		var target *api.User
		for i := range users {
			if users[i].ID == id {
				target = &users[i]
				break
			}
		}
		if target == nil {
			return fmt.Errorf("no user with id %s", id)
		}
		next, ok := session.Promotion(session.ParseRole(target.Role))
		if !ok {
			return fmt.Errorf("%s is %s and cannot be promoted further", target.Email, target.Role)
		}

		u, err := deps.API.PromoteUser(ctx, id, string(next))
		if err != nil {
			deps.Expire(ctx, err)
			return fmt.Errorf("promote: %s", api.Message(err, "Promotion failed"))
		}
		role := u.Role
		if role == "" {
			role = string(next)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s.\n", target.Email, role)
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersPromoteCmd)
}
