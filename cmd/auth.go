package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/screens/signup"
	"github.com/abhisek/eduz/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the token",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		in := bufio.NewReader(cmd.InOrStdin())
		if email == "" {
			email, _ = prompt(cmd, in, "Email: ")
		}
		if password == "" {
			password, _ = prompt(cmd, in, "Password: ")
		}
		if email == "" || password == "" {
			return fmt.Errorf("email and password are required")
		}

		deps, cleanup, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()

		role, err := deps.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login: %s", api.Message(err, "Login failed"))
		}
		if role == session.RoleUnknown {
			fmt.Fprintln(cmd.OutOrStdout(), "Signed in (role unknown).")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, cleanup, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := deps.Session.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, cleanup, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := requireLogin(deps); err != nil {
			return err
		}
		me, err := deps.API.Me(cmd.Context())
		if err != nil {
			deps.Expire(cmd.Context(), err)
			return fmt.Errorf("whoami: %s", api.Message(err, "Could not load your account"))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\nrole: %s\nid:   %s\n", me.Name, me.Email, me.Role, me.ID)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a student account",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		in := bufio.NewReader(cmd.InOrStdin())
		if name == "" {
			name, _ = prompt(cmd, in, "Name: ")
		}
		if email == "" {
			email, _ = prompt(cmd, in, "Email: ")
		}
		if password == "" {
			password, _ = prompt(cmd, in, "Password: ")
		}
		if name == "" || email == "" {
			return fmt.Errorf("name and email are required")
		}
		if p := signup.PasswordProblem(password); p != "" {
			return errors.New(p)
		}

		deps, cleanup, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()

		u, err := deps.API.Register(cmd.Context(), api.RegisterRequest{
			Name:     name,
			Email:    email,
			Password: password,
			Role:     string(session.RoleStudent),
		})
		if err != nil {
			return fmt.Errorf("register: %s", api.Message(err, "Registration failed"))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (id %s). Run `eduz login` to sign in.\n", u.Email, u.ID)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email (prompted when empty)")
	loginCmd.Flags().String("password", "", "Account password (prompted when empty)")

	registerCmd.Flags().String("name", "", "Display name")
	registerCmd.Flags().String("email", "", "Account email")
	registerCmd.Flags().String("password", "", "Account password")
}

// prompt writes label and reads one trimmed line. ok is false once the
// input is closed and nothing more was read.
func prompt(cmd *cobra.Command, in *bufio.Reader, label string) (line string, ok bool) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	raw, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || raw == "") {
		return "", false
	}
	return strings.TrimSpace(raw), true
}
