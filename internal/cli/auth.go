package cli

import (
	"time"

	"tour_admin/internal/app"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

func loginCommand(c *CLI) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Example: heredoc.Doc(`
			$ tour_admin login
			$ tour_admin login --email admin@example.com --password secret
		`),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			var err error
			if email == "" {
				if email, err = c.prompt("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = c.prompt("Password: "); err != nil {
					return err
				}
			}

			session, err := a.Sessions.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			name := session.Name
			if name == "" {
				name = session.Email
			}
			c.printf("เข้าสู่ระบบแล้ว: %s <%s>\n", name, session.Email)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Admin email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password")

	return cmd
}

func logoutCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored session",
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			if err := a.Sessions.Logout(cmd.Context()); err != nil {
				return err
			}

			c.println("ออกจากระบบแล้ว")
			return nil
		}),
	}
}

func whoamiCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			session, err := a.Sessions.Current(cmd.Context())
			if err != nil {
				return err
			}

			t := newTable(c.out)
			row(t, "Email", session.Email)
			row(t, "Name", orDash(session.Name))
			row(t, "Logged in", session.IssuedAt.Local().Format(time.DateTime))
			if session.ExpiresAt != nil {
				row(t, "Expires", session.ExpiresAt.Local().Format(time.DateTime))
			}
			return t.Flush()
		}),
	}
}

func optionsCommand(c *CLI) *cobra.Command {
	var types bool

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Show the reference data used by tab conditions",
		Example: heredoc.Doc(`
			$ tour_admin options
			$ tour_admin options --types
		`),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			if types {
				printConditionTypes(c.out)
				return nil
			}

			opts, err := a.Tabs.ConditionOptions(cmd.Context())
			if err != nil {
				return err
			}

			printOptions(c.out, *opts)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&types, "types", false, "List condition types instead of reference data")

	return cmd
}
