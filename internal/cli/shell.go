package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"tour_admin/internal/app"
	"tour_admin/internal/domain/models"
	"tour_admin/internal/lib/logger/sl"
	schemasvc "tour_admin/internal/services/schema_service"
	sessionsvc "tour_admin/internal/services/session_service"
	tabsvc "tour_admin/internal/services/tab_service"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

var errBusy = errors.New("a save or preview is still running")

var shellHelp = heredoc.Doc(`
	list                    show the tab and its conditions
	add [type]              add a condition (default price_min)
	type <#> <type>         change the type of a condition, its value is cleared
	value <#> <value>       set the value of a condition; lists are comma separated
	rm <#>                  remove a condition
	set <field> <value>     name, slug, description, icon, badge, color, limit, sort, order, active
	types                   list condition types
	options                 list countries, regions, wholesalers and tour types
	save                    create or update the tab
	preview                 show the tours the saved conditions match
	quit                    leave the shell
`)

func shellCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "shell [tab-id]",
		Short: "Edit one tab interactively",
		Long: heredoc.Doc(`
			Open an editing session for one tab. Without an id a new tab is drafted;
			it gets an id on the first save. Changes are kept in memory until saved.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()

			tab := models.TourTab{IsActive: true}
			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				loaded, err := a.Tabs.Get(ctx, id)
				if err != nil {
					return err
				}
				tab = *loaded
			}

			opts, err := a.Tabs.ConditionOptions(ctx)
			if err != nil {
				return err
			}

			if err := listen(a); err != nil {
				a.Log.Warn("diagnostics server disabled", sl.Err(err))
			} else if a.HTTPServer != nil {
				go func() {
					if err := a.HTTPServer.Start(); err != nil {
						a.Log.Error("diagnostics server failed", sl.Err(err))
					}
				}()
				defer func() {
					if err := a.HTTPServer.Stop(); err != nil {
						a.Log.Warn("failed to stop diagnostics server", sl.Err(err))
					}
				}()
			}

			s := &shell{
				c:    c,
				a:    a,
				b:    tabsvc.NewRuleBuilder(tab),
				opts: opts,
			}
			return s.loop(ctx)
		}),
	}
}

// listen binds the diagnostics port before the session starts, so stopping it
// never races the bind.
func listen(a *app.App) error {
	if a.HTTPServer == nil {
		return nil
	}
	return a.HTTPServer.Listen()
}

// shell is one editing session of one tab.
type shell struct {
	c    *CLI
	a    *app.App
	b    *tabsvc.RuleBuilder
	opts *models.ConditionOptions

	// dirty is set by any edit and cleared by a successful save.
	dirty bool
	// inflight guards save and preview against a second submit.
	inflight sync.Mutex
}

func (s *shell) loop(ctx context.Context) error {
	s.c.println(faint.Sprint("พิมพ์ help เพื่อดูคำสั่ง"))
	s.list()

	for {
		line, err := s.c.prompt(s.promptLabel())
		if errors.Is(err, io.EOF) {
			s.c.println()
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		quit, err := s.exec(ctx, line)
		if err != nil {
			err = s.a.Sessions.Handle(ctx, err)
			if errors.Is(err, sessionsvc.ErrLoginRequired) {
				return err
			}
			s.c.println(failure.Sprint(FormatError(err)))
		}
		if quit {
			return nil
		}
	}
}

func (s *shell) promptLabel() string {
	name := s.b.Tab().Name
	if name == "" {
		name = "new tab"
	}
	if s.dirty {
		name += "*"
	}
	return name + "> "
}

// exec runs one shell line. quit reports the end of the session.
func (s *shell) exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help", "?":
		s.c.printf("%s", shellHelp)
	case "list", "ls":
		s.list()
	case "types":
		printConditionTypes(s.c.out)
	case "options":
		printOptions(s.c.out, *s.opts)
	case "add":
		return false, s.add(args)
	case "type":
		return false, s.setType(args)
	case "value":
		return false, s.setValue(line, args)
	case "rm", "remove":
		return false, s.remove(args)
	case "set":
		return false, s.set(line, args)
	case "save":
		return false, s.save(ctx)
	case "preview":
		return false, s.preview(ctx)
	case "quit", "exit", "q":
		if s.dirty && !s.c.confirm("มีการแก้ไขที่ยังไม่บันทึก ออกเลย?") {
			return false, nil
		}
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q, type help", cmd)
	}

	return false, nil
}

func (s *shell) list() {
	tab := s.b.Tab()

	id := "draft"
	if tab.Persisted() {
		id = "#" + strconv.FormatInt(tab.ID, 10)
	}
	s.c.printf("%s %s %s (limit %d, %s)\n", id, orDash(tab.Name), Badge(tab.BadgeText, tab.BadgeColor), tab.DisplayLimit, tab.SortBy)
	printConditions(s.c.out, s.b.Conditions(), s.opts)
}

func (s *shell) index(arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid condition number %q", arg)
	}
	return i, nil
}

func (s *shell) add(args []string) error {
	i := s.b.Add()
	s.dirty = true

	if len(args) > 0 {
		if err := s.b.UpdateType(i, models.ConditionType(args[0])); err != nil {
			_ = s.b.Remove(i)
			return err
		}
	}

	c, _ := s.b.Condition(i)
	s.describe(i, c.Type)
	return nil
}

func (s *shell) setType(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: type <#> <type>")
	}

	i, err := s.index(args[0])
	if err != nil {
		return err
	}

	t := models.ConditionType(args[1])
	if err := s.b.UpdateType(i, t); err != nil {
		return err
	}
	s.dirty = true

	s.describe(i, t)
	return nil
}

// describe prints what the value input of condition i expects.
func (s *shell) describe(i int, t models.ConditionType) {
	d, ok := schemasvc.Describe(t, s.opts)
	if !ok {
		return
	}

	hint := string(d.Shape)
	if d.Unit != "" {
		hint += ", " + d.Unit
	}
	s.c.printf("[%d] %s (%s)\n", i, d.Label, hint)

	if len(d.Choices) > 0 {
		keys := make([]string, 0, len(d.Choices))
		for _, ch := range d.Choices {
			keys = append(keys, ch.Key+"="+ch.Label)
		}
		s.c.println(faint.Sprint("    " + schemasvc.Truncate(keys, 8)))
	}
}

func (s *shell) setValue(line string, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: value <#> <value>")
	}

	i, err := s.index(args[0])
	if err != nil {
		return err
	}

	c, err := s.b.Condition(i)
	if err != nil {
		return err
	}

	v, err := schemasvc.ParseValue(c.Type, tail(line, 2), s.opts)
	if err != nil {
		return err
	}

	if err := s.b.UpdateValue(i, v); err != nil {
		return err
	}
	s.dirty = true

	s.c.printf("[%d] %s: %s\n", i, schemasvc.Label(c.Type), schemasvc.FormatValue(c.Type, v, s.opts, listItems))
	return nil
}

func (s *shell) remove(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rm <#>")
	}

	i, err := s.index(args[0])
	if err != nil {
		return err
	}

	if err := s.b.Remove(i); err != nil {
		return err
	}
	s.dirty = true

	s.list()
	return nil
}

func (s *shell) set(line string, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: set <field> <value>")
	}

	field, value := args[0], tail(line, 2)

	var setErr error
	s.b.Edit(func(tab *models.TourTab) {
		switch field {
		case "name":
			tab.Name = value
		case "slug":
			tab.Slug = value
		case "description":
			tab.Description = value
		case "icon":
			tab.Icon = value
		case "badge":
			tab.BadgeText = value
		case "color":
			tab.BadgeColor = value
		case "sort":
			tab.SortBy = models.SortBy(value)
		case "limit", "order":
			n, err := strconv.Atoi(value)
			if err != nil {
				setErr = fmt.Errorf("%s must be a number", field)
				return
			}
			if field == "limit" {
				tab.DisplayLimit = n
			} else {
				tab.SortOrder = n
			}
		case "active":
			switch strings.ToLower(value) {
			case "true", "yes", "y", "1", "ใช่":
				tab.IsActive = true
			case "false", "no", "n", "0", "ไม่":
				tab.IsActive = false
			default:
				setErr = fmt.Errorf("active must be yes or no")
			}
		default:
			setErr = fmt.Errorf("unknown field %q", field)
		}
	})
	if setErr != nil {
		return setErr
	}

	s.dirty = true
	return nil
}

func (s *shell) save(ctx context.Context) error {
	if !s.inflight.TryLock() {
		return errBusy
	}
	defer s.inflight.Unlock()

	created := !s.b.Tab().Persisted()

	saved, err := s.a.Tabs.Save(ctx, s.b)
	if err != nil {
		return err
	}
	s.dirty = false

	if created {
		s.c.println(success.Sprintf("สร้างแท็บ #%d แล้ว", saved.ID))
	} else {
		s.c.println(success.Sprintf("บันทึกแท็บ #%d แล้ว", saved.ID))
	}

	s.a.Log.Debug("tab saved from shell", slog.Int64("tab_id", saved.ID), slog.Int("conditions", len(saved.Conditions)))
	return nil
}

func (s *shell) preview(ctx context.Context) error {
	if !s.inflight.TryLock() {
		return errBusy
	}
	defer s.inflight.Unlock()

	if s.dirty && s.b.Tab().Persisted() {
		s.c.println(warning.Sprint("ตัวอย่างนี้ใช้เงื่อนไขที่บันทึกไว้ล่าสุด ยังไม่รวมการแก้ไขปัจจุบัน"))
	}

	preview, err := s.a.Tabs.Preview(ctx, s.b.Tab())
	if err != nil {
		return err
	}

	printTabPreview(s.c.out, preview)
	return nil
}

// tail returns line without its first n words, keeping inner spacing.
func tail(line string, n int) string {
	line = strings.TrimSpace(line)
	for i := 0; i < n; i++ {
		idx := strings.IndexAny(line, " \t")
		if idx < 0 {
			return ""
		}
		line = strings.TrimSpace(line[idx:])
	}
	return line
}
