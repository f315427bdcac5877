package cli

import (
	"fmt"
	"sort"
	"strings"

	"tour_admin/internal/app"
	"tour_admin/internal/domain/models"
	"tour_admin/internal/export"
	schemasvc "tour_admin/internal/services/schema_service"
	tabsvc "tour_admin/internal/services/tab_service"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

func tabCommand(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tab",
		Aliases: []string{"tabs"},
		Short:   "Manage homepage tour tabs",
		Example: heredoc.Doc(`
			$ tour_admin tab list
			$ tour_admin tab show 3
			$ tour_admin tab create --name ทัวร์ญี่ปุ่น --condition countries=Japan --condition price_max=30000
			$ tour_admin tab preview 3
		`),
	}

	cmd.AddCommand(
		listTabsCommand(c),
		showTabCommand(c),
		createTabCommand(c),
		editTabCommand(c),
		previewTabCommand(c),
		toggleTabCommand(c),
		deleteTabCommand(c),
	)

	return cmd
}

func listTabsCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tabs in display order",
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			tabs, err := a.Tabs.List(cmd.Context())
			if err != nil {
				return err
			}

			printTabs(c.out, tabs)
			return nil
		}),
	}
}

func showTabCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a tab and its conditions",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			tab, err := a.Tabs.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			opts, err := a.Tabs.ConditionOptions(cmd.Context())
			if err != nil {
				return err
			}

			printTab(c.out, *tab, opts)
			return nil
		}),
	}
}

type tabFlags struct {
	name        string
	slug        string
	description string
	icon        string
	badgeText   string
	badgeColor  string
	sortBy      string
	limit       int
	order       int
	active      bool

	conditions []string
	remove     []int
	clear      bool
}

func (f *tabFlags) register(cmd *cobra.Command, edit bool) {
	flags := cmd.Flags()
	flags.StringVar(&f.name, "name", "", "Tab name")
	flags.StringVar(&f.slug, "slug", "", "URL slug")
	flags.StringVar(&f.description, "description", "", "Description")
	flags.StringVar(&f.icon, "icon", "", "Icon name")
	flags.StringVar(&f.badgeText, "badge-text", "", "Badge text")
	flags.StringVar(&f.badgeColor, "badge-color", "", "Badge color: red, orange, yellow, green, blue, purple or pink")
	flags.StringVar(&f.sortBy, "sort", string(models.SortPopular), "Sort: popular, price_asc, price_desc, newest or departure_date")
	flags.IntVar(&f.limit, "limit", models.DefaultDisplayLimit, "Number of tours shown (1-50)")
	flags.IntVar(&f.order, "order", 0, "Position among tabs")
	flags.BoolVar(&f.active, "active", true, "Show the tab on the website")
	flags.StringArrayVar(&f.conditions, "condition", nil, "Condition as type=value, repeatable; lists are comma separated")

	if edit {
		flags.IntSliceVar(&f.remove, "remove-condition", nil, "Remove the conditions at these positions")
		flags.BoolVar(&f.clear, "clear-conditions", false, "Remove every condition before adding new ones")
	}
}

// apply copies the flags that were set on the command line into tab.
func (f *tabFlags) apply(cmd *cobra.Command, tab *models.TourTab) {
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}

	set("name", func() { tab.Name = f.name })
	set("slug", func() { tab.Slug = f.slug })
	set("description", func() { tab.Description = f.description })
	set("icon", func() { tab.Icon = f.icon })
	set("badge-text", func() { tab.BadgeText = f.badgeText })
	set("badge-color", func() { tab.BadgeColor = f.badgeColor })
	set("sort", func() { tab.SortBy = models.SortBy(f.sortBy) })
	set("limit", func() { tab.DisplayLimit = f.limit })
	set("order", func() { tab.SortOrder = f.order })
	set("active", func() { tab.IsActive = f.active })
}

// editConditions removes, clears, then appends, in that order. Positions refer
// to the list before any removal; a position given twice is removed once.
func (f *tabFlags) editConditions(b *tabsvc.RuleBuilder, opts *models.ConditionOptions) error {
	remove := append([]int(nil), f.remove...)
	sort.Sort(sort.Reverse(sort.IntSlice(remove)))
	for n, i := range remove {
		if n > 0 && remove[n-1] == i {
			continue
		}
		if err := b.Remove(i); err != nil {
			return err
		}
	}

	if f.clear {
		for b.Len() > 0 {
			if err := b.Remove(b.Len() - 1); err != nil {
				return err
			}
		}
	}

	for _, arg := range f.conditions {
		t, v, err := parseConditionArg(arg, opts)
		if err != nil {
			return err
		}
		if err := addCondition(b, t, v); err != nil {
			return err
		}
	}

	return nil
}

// parseConditionArg reads "type=value".
func parseConditionArg(arg string, opts *models.ConditionOptions) (models.ConditionType, models.ConditionValue, error) {
	key, raw, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("condition %q: expected type=value", arg)
	}

	t := models.ConditionType(strings.TrimSpace(key))
	if _, ok := schemasvc.Shape(t); !ok {
		return "", nil, fmt.Errorf("condition %q: %w", arg, models.ErrUnknownConditionType)
	}

	v, err := schemasvc.ParseValue(t, raw, opts)
	if err != nil {
		return "", nil, fmt.Errorf("condition %q: %w", arg, err)
	}

	return t, v, nil
}

func addCondition(b *tabsvc.RuleBuilder, t models.ConditionType, v models.ConditionValue) error {
	i := b.Add()
	if err := b.UpdateType(i, t); err != nil {
		_ = b.Remove(i)
		return err
	}
	if err := b.UpdateValue(i, v); err != nil {
		_ = b.Remove(i)
		return err
	}
	return nil
}

func createTabCommand(c *CLI) *cobra.Command {
	var f tabFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tab",
		Example: heredoc.Doc(`
			$ tour_admin tab create --name ทัวร์ยอดนิยม --badge-text HOT --badge-color red \
				--condition min_views=1000 --condition has_available_seats=yes
		`),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()

			tab := models.TourTab{
				DisplayLimit: f.limit,
				SortBy:       models.SortBy(f.sortBy),
				IsActive:     f.active,
			}
			f.apply(cmd, &tab)
			b := tabsvc.NewRuleBuilder(tab)

			var opts *models.ConditionOptions
			if len(f.conditions) > 0 {
				var err error
				if opts, err = a.Tabs.ConditionOptions(ctx); err != nil {
					return err
				}
			}
			if err := f.editConditions(b, opts); err != nil {
				return err
			}

			saved, err := a.Tabs.Save(ctx, b)
			if err != nil {
				return err
			}

			c.printf("สร้างแท็บ #%d %s แล้ว\n", saved.ID, saved.Name)
			return nil
		}),
	}

	f.register(cmd, false)

	return cmd
}

func editTabCommand(c *CLI) *cobra.Command {
	var f tabFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a tab; only the flags given are changed",
		Args:  cobra.ExactArgs(1),
		Example: heredoc.Doc(`
			$ tour_admin tab edit 3 --badge-color green
			$ tour_admin tab edit 3 --remove-condition 0 --condition regions=asia,europe
		`),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			tab, err := a.Tabs.Get(ctx, id)
			if err != nil {
				return err
			}

			opts, err := a.Tabs.ConditionOptions(ctx)
			if err != nil {
				return err
			}

			b := tabsvc.NewRuleBuilder(*tab)
			b.Edit(func(t *models.TourTab) { f.apply(cmd, t) })
			if err := f.editConditions(b, opts); err != nil {
				return err
			}

			saved, err := a.Tabs.Save(ctx, b)
			if err != nil {
				return err
			}

			c.printf("บันทึกแท็บ #%d แล้ว\n", saved.ID)
			printConditions(c.out, saved.Conditions, opts)
			return nil
		}),
	}

	f.register(cmd, true)

	return cmd
}

func previewTabCommand(c *CLI) *cobra.Command {
	var toExcel bool

	cmd := &cobra.Command{
		Use:   "preview <id>",
		Short: "Show the tours the saved conditions of a tab match",
		Args:  cobra.ExactArgs(1),
		Example: heredoc.Doc(`
			$ tour_admin tab preview 3
			$ tour_admin tab preview 3 --export
		`),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			tab, err := a.Tabs.Get(ctx, id)
			if err != nil {
				return err
			}

			preview, err := a.Tabs.Preview(ctx, *tab)
			if err != nil {
				return err
			}

			printTabPreview(c.out, preview)

			if toExcel {
				data, err := export.TabPreview(*tab, preview)
				if err != nil {
					return err
				}
				path, err := export.WriteFile(a.Config.Export.Dir, export.FileName("tab", tab.Name), data)
				if err != nil {
					return err
				}
				c.printf("บันทึกไฟล์ %s แล้ว\n", path)
			}

			return nil
		}),
	}

	cmd.Flags().BoolVar(&toExcel, "export", false, "Also write the preview to an .xlsx file")

	return cmd
}

func toggleTabCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Switch a tab between active and inactive",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			tab, err := a.Tabs.ToggleStatus(cmd.Context(), id)
			if err != nil {
				return err
			}

			c.printf("แท็บ #%d: %s\n", tab.ID, status(tab.IsActive))
			return nil
		}),
	}
}

func deleteTabCommand(c *CLI) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tab",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !yes && !c.confirm(fmt.Sprintf("ลบแท็บ #%d?", id)) {
				c.println("ยกเลิก")
				return nil
			}

			if err := a.Tabs.Delete(cmd.Context(), id); err != nil {
				return err
			}

			c.printf("ลบแท็บ #%d แล้ว\n", id)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
