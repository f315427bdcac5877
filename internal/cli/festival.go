package cli

import (
	"errors"
	"fmt"

	"tour_admin/internal/app"
	"tour_admin/internal/domain/models"
	"tour_admin/internal/export"
	festivalsvc "tour_admin/internal/services/festival_service"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

func festivalCommand(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "festival",
		Aliases: []string{"festivals", "fest"},
		Short:   "Manage festival holidays",
		Example: heredoc.Doc(`
			$ tour_admin festival list
			$ tour_admin festival create --name สงกรานต์ --start 2026-04-13 --end 2026-04-15 --display card,period --image songkran.jpg
			$ tour_admin festival preview 7
			$ tour_admin festival cover 7 banner.webp --position "center top"
		`),
	}

	cmd.AddCommand(
		listFestivalsCommand(c),
		showFestivalCommand(c),
		createFestivalCommand(c),
		editFestivalCommand(c),
		previewFestivalCommand(c),
		toggleFestivalCommand(c),
		deleteFestivalCommand(c),
		festivalAssetCommand(c, festivalsvc.AssetImage),
		festivalAssetCommand(c, festivalsvc.AssetCover),
		pageSettingsCommand(c),
	)

	return cmd
}

func listFestivalsCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List festivals in display order",
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			festivals, err := a.Festivals.List(cmd.Context())
			if err != nil {
				return err
			}

			printFestivals(c.out, festivals)
			return nil
		}),
	}
}

func showFestivalCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a festival",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			f, err := a.Festivals.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			printFestival(c.out, *f)
			return nil
		}),
	}
}

type festivalFlags struct {
	name          string
	description   string
	start         string
	end           string
	badgeText     string
	badgeColor    string
	badgeIcon     string
	display       []string
	coverPosition string
	order         int
	active        bool

	image string
	cover string
}

func (f *festivalFlags) register(cmd *cobra.Command, create bool) {
	flags := cmd.Flags()
	flags.StringVar(&f.name, "name", "", "Festival name")
	flags.StringVar(&f.description, "description", "", "Description")
	flags.StringVar(&f.start, "start", "", "First day, YYYY-MM-DD")
	flags.StringVar(&f.end, "end", "", "Last day, YYYY-MM-DD")
	flags.StringVar(&f.badgeText, "badge-text", "", "Badge text")
	flags.StringVar(&f.badgeColor, "badge-color", "", "Badge color: red, orange, yellow, green, blue, purple or pink")
	flags.StringVar(&f.badgeIcon, "badge-icon", "", "Badge icon, e.g. an emoji")
	flags.StringSliceVar(&f.display, "display", nil, "Where the badge appears: card, period (comma separated, may be empty)")
	flags.StringVar(&f.coverPosition, "cover-position", "", `Cover anchor such as "center top"`)
	flags.IntVar(&f.order, "order", 0, "Position among festivals")
	flags.BoolVar(&f.active, "active", true, "Show the festival on the website")

	if create {
		flags.StringVar(&f.image, "image", "", "Image file to attach after the festival is created")
		flags.StringVar(&f.cover, "cover", "", "Cover image file to attach after the festival is created")
	}
}

// apply copies the flags that were set on the command line into festival.
func (f *festivalFlags) apply(cmd *cobra.Command, festival *models.FestivalHoliday) error {
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}

	set("name", func() { festival.Name = f.name })
	set("description", func() { festival.Description = f.description })
	set("start", func() { festival.StartDate = f.start })
	set("end", func() { festival.EndDate = f.end })
	set("badge-text", func() { festival.BadgeText = f.badgeText })
	set("badge-color", func() { festival.BadgeColor = f.badgeColor })
	set("badge-icon", func() { festival.BadgeIcon = f.badgeIcon })
	set("order", func() { festival.SortOrder = f.order })
	set("active", func() { festival.IsActive = f.active })

	if flags.Changed("display") {
		modes := make([]models.DisplayMode, 0, len(f.display))
		for _, m := range f.display {
			if m != "" {
				modes = append(modes, models.DisplayMode(m))
			}
		}
		festival.DisplayModes = models.NewDisplayModes(modes...)
	}

	if flags.Changed("cover-position") {
		pos, err := models.ParseImagePosition(f.coverPosition)
		if err != nil {
			return err
		}
		festival.CoverImagePosition = pos
	}

	return nil
}

func createFestivalCommand(c *CLI) *cobra.Command {
	var f festivalFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a festival, then attach its images",
		Example: heredoc.Doc(`
			$ tour_admin festival create --name "ปีใหม่" --start 2026-12-30 --end 2027-01-02 \
				--badge-text "New Year" --badge-color red --display card --cover newyear.jpg
		`),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			festival := models.FestivalHoliday{IsActive: f.active}
			if err := f.apply(cmd, &festival); err != nil {
				return err
			}

			saved, err := a.Festivals.CreateWithAssets(cmd.Context(), festivalsvc.NewFestivalRequest(festival), festivalsvc.Assets{
				ImagePath: f.image,
				CoverPath: f.cover,
			})

			var partial *festivalsvc.PartialError
			switch {
			case errors.As(err, &partial):
				c.printf("สร้างเทศกาล #%d %s แล้ว\n", saved.ID, saved.Name)
				return err
			case err != nil:
				return err
			}

			c.printf("สร้างเทศกาล #%d %s แล้ว\n", saved.ID, saved.Name)
			printFestival(c.out, *saved)
			return nil
		}),
	}

	f.register(cmd, true)

	return cmd
}

func editFestivalCommand(c *CLI) *cobra.Command {
	var f festivalFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a festival; only the flags given are changed",
		Args:  cobra.ExactArgs(1),
		Example: heredoc.Doc(`
			$ tour_admin festival edit 7 --end 2026-04-16
			$ tour_admin festival edit 7 --display ""
		`),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			festival, err := a.Festivals.Get(ctx, id)
			if err != nil {
				return err
			}
			if err := f.apply(cmd, festival); err != nil {
				return err
			}

			saved, err := a.Festivals.Update(ctx, id, festivalsvc.NewFestivalRequest(*festival))
			if err != nil {
				return err
			}

			c.printf("บันทึกเทศกาล #%d แล้ว\n", saved.ID)
			printFestival(c.out, *saved)
			return nil
		}),
	}

	f.register(cmd, false)

	return cmd
}

func previewFestivalCommand(c *CLI) *cobra.Command {
	var toExcel bool

	cmd := &cobra.Command{
		Use:   "preview <id>",
		Short: "Show tours departing during a festival",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			preview, err := a.Festivals.Preview(ctx, id)
			if err != nil {
				return err
			}

			printFestivalPreview(c.out, *preview)

			if toExcel {
				festival, err := a.Festivals.Get(ctx, id)
				if err != nil {
					return err
				}
				data, err := export.FestivalPreview(*festival, *preview)
				if err != nil {
					return err
				}
				path, err := export.WriteFile(a.Config.Export.Dir, export.FileName("festival", festival.Name), data)
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

func toggleFestivalCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Switch a festival between active and inactive",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			f, err := a.Festivals.ToggleStatus(cmd.Context(), id)
			if err != nil {
				return err
			}

			c.printf("เทศกาล #%d: %s\n", f.ID, status(f.IsActive))
			return nil
		}),
	}
}

func deleteFestivalCommand(c *CLI) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a festival",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !yes && !c.confirm(fmt.Sprintf("ลบเทศกาล #%d?", id)) {
				c.println("ยกเลิก")
				return nil
			}

			if err := a.Festivals.Delete(cmd.Context(), id); err != nil {
				return err
			}

			c.printf("ลบเทศกาล #%d แล้ว\n", id)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// festivalAssetCommand manages one image slot: "image" or "cover".
func festivalAssetCommand(c *CLI, kind festivalsvc.AssetKind) *cobra.Command {
	var (
		remove   bool
		position string
	)

	use, short := "image <id> [file]", "Attach or remove the festival image"
	if kind == festivalsvc.AssetCover {
		use, short = "cover <id> [file]", "Attach or remove the festival cover image"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			festival, err := a.Festivals.Get(ctx, id)
			if err != nil {
				return err
			}

			if remove {
				if err := a.Festivals.Detach(ctx, *festival, kind); err != nil {
					return err
				}
				c.printf("ลบ %s ของเทศกาล #%d แล้ว\n", kind, id)
				return nil
			}

			if len(args) < 2 {
				return fmt.Errorf("file is required unless --remove is given")
			}

			updated, err := a.Festivals.Attach(ctx, *festival, kind, args[1])
			if err != nil {
				return err
			}

			if position != "" {
				pos, err := models.ParseImagePosition(position)
				if err != nil {
					return err
				}
				updated.CoverImagePosition = pos
				if updated, err = a.Festivals.Update(ctx, id, festivalsvc.NewFestivalRequest(*updated)); err != nil {
					return err
				}
			}

			c.printf("อัปโหลด %s ของเทศกาล #%d แล้ว\n", kind, id)
			printFestival(c.out, *updated)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the image instead of attaching one")
	if kind == festivalsvc.AssetCover {
		cmd.Flags().StringVar(&position, "position", "", `Cover anchor such as "center top"`)
	}

	return cmd
}

func pageSettingsCommand(c *CLI) *cobra.Command {
	var (
		title       string
		subtitle    string
		position    string
		cover       string
		removeCover bool
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the festival page banner",
		Example: heredoc.Doc(`
			$ tour_admin festival settings
			$ tour_admin festival settings --title "เทศกาลท่องเที่ยว" --cover hero.jpg --position "center bottom"
		`),
		RunE: c.run(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()

			settings, err := a.Festivals.PageSettings(ctx)
			if err != nil {
				return err
			}

			if flags.Changed("title") || flags.Changed("subtitle") || flags.Changed("position") {
				if flags.Changed("title") {
					settings.Title = title
				}
				if flags.Changed("subtitle") {
					settings.Subtitle = subtitle
				}
				if flags.Changed("position") {
					pos, err := models.ParseImagePosition(position)
					if err != nil {
						return err
					}
					settings.CoverImagePosition = pos
				}

				if settings, err = a.Festivals.UpdatePageSettings(ctx, festivalsvc.NewPageSettingsRequest(*settings)); err != nil {
					return err
				}
			}

			switch {
			case removeCover:
				if err := a.Festivals.DetachPageCover(ctx); err != nil {
					return err
				}
				settings.CoverImageURL = ""
			case cover != "":
				if settings, err = a.Festivals.AttachPageCover(ctx, cover); err != nil {
					return err
				}
			}

			printPageSettings(c.out, *settings)
			return nil
		}),
	}

	cmd.Flags().StringVar(&title, "title", "", "Banner title")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "Banner subtitle")
	cmd.Flags().StringVar(&position, "position", "", `Cover anchor such as "center top"`)
	cmd.Flags().StringVar(&cover, "cover", "", "Cover image file")
	cmd.Flags().BoolVar(&removeCover, "remove-cover", false, "Remove the cover image")

	return cmd
}
