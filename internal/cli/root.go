package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tour_admin/internal/app"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

// Builder creates the application for the config file at configPath.
type Builder func(ctx context.Context, configPath string) (*app.App, error)

type CLI struct {
	build      Builder
	in         *bufio.Reader
	out        io.Writer
	configPath string

	app  *app.App
	root *cobra.Command
}

func New(build Builder, in io.Reader, out io.Writer) *CLI {
	c := &CLI{
		build: build,
		in:    bufio.NewReader(in),
		out:   out,
	}

	root := &cobra.Command{
		Use:           "tour_admin <command> <subcommand> [flags]",
		Short:         "Tour tabs and festival administration",
		Long:          "Manage the homepage tour tabs and festival holidays of the tour website.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Example: heredoc.Doc(`
			$ tour_admin login
			$ tour_admin tab list
			$ tour_admin tab preview 3 --export
			$ tour_admin festival create --name สงกรานต์ --start 2026-04-13 --end 2026-04-15
			$ tour_admin shell 3
		`),
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Override config file")

	root.AddCommand(
		loginCommand(c),
		logoutCommand(c),
		whoamiCommand(c),
		optionsCommand(c),
		tabCommand(c),
		festivalCommand(c),
		shellCommand(c),
	)

	c.root = root
	return c
}

func (c *CLI) Command() *cobra.Command {
	return c.root
}

// Execute runs the command line args and releases the application afterwards.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	c.root.SetArgs(args)
	err := c.root.ExecuteContext(ctx)

	if c.app != nil {
		if closeErr := c.app.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		c.app = nil
	}

	return err
}

// App builds the application on first use, after flags are parsed.
func (c *CLI) App(ctx context.Context) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}

	a, err := c.build(ctx, c.configPath)
	if err != nil {
		return nil, err
	}

	c.app = a
	return a, nil
}

type runFunc func(cmd *cobra.Command, a *app.App, args []string) error

// run wraps a command body. Every error goes through the session manager, which
// turns an unauthorized answer into ErrLoginRequired.
func (c *CLI) run(fn runFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := c.App(ctx)
		if err != nil {
			return err
		}

		return a.Sessions.Handle(ctx, fn(cmd, a, args))
	}
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *CLI) println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// prompt prints label and reads one line. A final line without newline is accepted.
func (c *CLI) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)

	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// confirm asks a y/N question. Anything but an explicit yes is a no.
func (c *CLI) confirm(question string) bool {
	answer, err := c.prompt(question + " [y/N]: ")
	if err != nil {
		return false
	}

	switch strings.ToLower(answer) {
	case "y", "yes", "ใช่":
		return true
	}
	return false
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
