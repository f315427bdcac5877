package cli

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/lib/validate"
	festivalsvc "tour_admin/internal/services/festival_service"
	schemasvc "tour_admin/internal/services/schema_service"
	sessionsvc "tour_admin/internal/services/session_service"
	tabsvc "tour_admin/internal/services/tab_service"
	"tour_admin/internal/transport/rest"

	"github.com/fatih/color"
)

// listItems is how many ids a condition cell shows before "+N อื่นๆ".
const listItems = 3

var (
	faint   = color.New(color.Faint)
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	failure = color.New(color.FgRed, color.Bold)
)

// Badge renders text on the palette color of key. Unknown keys use the default color.
func Badge(text, key string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	r, g, b := rgb(models.ResolveBadgeColor(key).Hex())
	return color.BgRGB(r, g, b).Add(color.FgHiWhite, color.Bold).Sprint(" " + text + " ")
}

func rgb(hex string) (int, int, int) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func status(active bool) string {
	if active {
		return success.Sprint("active")
	}
	return faint.Sprint("inactive")
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func row(w io.Writer, cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
}

func printTabs(w io.Writer, tabs []models.TourTab) {
	if len(tabs) == 0 {
		fmt.Fprintln(w, "ยังไม่มีแท็บทัวร์")
		return
	}

	t := newTable(w)
	row(t, "ID", "NAME", "BADGE", "CONDITIONS", "LIMIT", "SORT", "ORDER", "STATUS")
	for _, tab := range tabs {
		row(t, tab.ID, tab.Name, Badge(tab.BadgeText, tab.BadgeColor), len(tab.Conditions), tab.DisplayLimit, tab.SortBy, tab.SortOrder, status(tab.IsActive))
	}
	t.Flush()
}

func printTab(w io.Writer, tab models.TourTab, opts *models.ConditionOptions) {
	t := newTable(w)
	row(t, "ID", tab.ID)
	row(t, "Name", tab.Name)
	if tab.Slug != "" {
		row(t, "Slug", tab.Slug)
	}
	if tab.Description != "" {
		row(t, "Description", tab.Description)
	}
	if tab.BadgeText != "" {
		row(t, "Badge", Badge(tab.BadgeText, tab.BadgeColor))
	}
	row(t, "Display limit", tab.DisplayLimit)
	row(t, "Sort", tab.SortBy)
	row(t, "Order", tab.SortOrder)
	row(t, "Status", status(tab.IsActive))
	t.Flush()

	fmt.Fprintln(w)
	printConditions(w, tab.Conditions, opts)
}

func printConditions(w io.Writer, conditions []models.Condition, opts *models.ConditionOptions) {
	if len(conditions) == 0 {
		fmt.Fprintln(w, faint.Sprint("ไม่มีเงื่อนไข (แสดงทัวร์ทั้งหมด)"))
		return
	}

	t := newTable(w)
	row(t, "#", "TYPE", "CONDITION", "VALUE")
	for i, c := range conditions {
		row(t, i, c.Type, schemasvc.Label(c.Type), schemasvc.FormatValue(c.Type, c.Value, opts, listItems))
	}
	t.Flush()
}

func printTours(w io.Writer, tours []models.TourSummary) {
	t := newTable(w)
	row(t, "ID", "CODE", "TITLE", "COUNTRY", "DAYS", "PRICE", "DEPARTURE")
	for _, tour := range tours {
		row(t, tour.ID, tour.TourCode, tour.Title, tour.Country, fmt.Sprintf("%dD%dN", tour.Days, tour.Nights), price(tour.Price), tour.DepartureDate)
	}
	t.Flush()
}

func price(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', 0, 64)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if v < 0 && s != "0" {
		s = "-" + s
	}
	return s
}

func printTabPreview(w io.Writer, preview models.TabPreview) {
	if preview.Empty() {
		fmt.Fprintln(w, "ไม่พบทัวร์ที่ตรงกับเงื่อนไข")
		return
	}
	printTours(w, preview.Tours)
	fmt.Fprintf(w, "\n%d ทัวร์\n", len(preview.Tours))
}

func printFestivalPreview(w io.Writer, preview models.FestivalPreview) {
	if preview.Empty() {
		fmt.Fprintln(w, "ไม่พบทัวร์ที่ออกเดินทางในช่วงเทศกาลนี้")
		return
	}
	printTours(w, preview.PreviewTours)

	fmt.Fprintf(w, "\nพบทั้งหมด %d ทัวร์", preview.TotalCount)
	if preview.Truncated() {
		fmt.Fprintf(w, " (%s)", schemasvc.Overflow(preview.Overflow()))
	}
	fmt.Fprintln(w)
}

func printFestivals(w io.Writer, festivals []models.FestivalHoliday) {
	if len(festivals) == 0 {
		fmt.Fprintln(w, "ยังไม่มีเทศกาล")
		return
	}

	t := newTable(w)
	row(t, "ID", "NAME", "PERIOD", "BADGE", "DISPLAY", "IMAGES", "ORDER", "STATUS")
	for _, f := range festivals {
		row(t, f.ID, f.Name, festivalsvc.Period(f), Badge(f.BadgeText, f.BadgeColor), displayModes(f.DisplayModes), f.State(), f.SortOrder, status(f.IsActive))
	}
	t.Flush()
}

func printFestival(w io.Writer, f models.FestivalHoliday) {
	t := newTable(w)
	row(t, "ID", f.ID)
	row(t, "Name", f.Name)
	if f.Description != "" {
		row(t, "Description", f.Description)
	}
	row(t, "Period", festivalsvc.Period(f))
	if f.BadgeText != "" {
		row(t, "Badge", Badge(strings.TrimSpace(f.BadgeIcon+" "+f.BadgeText), f.BadgeColor))
	}
	row(t, "Display", displayModes(f.DisplayModes))
	row(t, "Image", orDash(f.ImageURL))
	row(t, "Cover", orDash(f.CoverImageURL))
	if f.CoverImageURL != "" {
		row(t, "Cover position", orDash(string(f.CoverImagePosition)))
	}
	row(t, "Order", f.SortOrder)
	row(t, "Status", status(f.IsActive))
	t.Flush()
}

func printPageSettings(w io.Writer, s models.FestivalPageSettings) {
	t := newTable(w)
	row(t, "Title", orDash(s.Title))
	row(t, "Subtitle", orDash(s.Subtitle))
	row(t, "Cover", orDash(s.CoverImageURL))
	row(t, "Cover position", orDash(string(s.CoverImagePosition)))
	t.Flush()
}

func printOptions(w io.Writer, opts models.ConditionOptions) {
	t := newTable(w)
	row(t, "GROUP", "KEY", "LABEL")
	for _, c := range opts.Countries {
		row(t, "country", c.ID, c.NameTH+" / "+c.NameEN)
	}
	for _, k := range models.SortedKeys(opts.Regions) {
		row(t, "region", k, opts.Regions[k])
	}
	for _, wh := range opts.Wholesalers {
		row(t, "wholesaler", wh.ID, wh.Name+" ("+wh.Code+")")
	}
	for _, k := range models.SortedKeys(opts.TourTypes) {
		row(t, "tour_type", k, opts.TourTypes[k])
	}
	t.Flush()
}

func printConditionTypes(w io.Writer) {
	t := newTable(w)
	row(t, "TYPE", "INPUT", "LABEL")
	for _, ct := range models.ConditionTypes() {
		shape, _ := schemasvc.Shape(ct)
		row(t, ct, shape, schemasvc.Label(ct))
	}
	t.Flush()
}

func displayModes(modes models.DisplayModes) string {
	list := modes.List()
	if len(list) == 0 {
		return "-"
	}
	out := make([]string, len(list))
	for i, m := range list {
		out[i] = string(m)
	}
	return strings.Join(out, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// FormatError turns an error into the message shown to the operator.
func FormatError(err error) string {
	var (
		fieldErrs  validate.FieldErrors
		apiInvalid *rest.ValidationError
		apiErr     *rest.APIError
		partial    *festivalsvc.PartialError
	)

	switch {
	case errors.Is(err, sessionsvc.ErrLoginRequired):
		return "เซสชันหมดอายุหรือยังไม่ได้เข้าสู่ระบบ: run `tour_admin login`"
	case errors.Is(err, tabsvc.ErrNotPersisted):
		return "ต้องบันทึกแท็บก่อนจึงจะดูตัวอย่างได้"
	case errors.Is(err, festivalsvc.ErrDraftEntity):
		return "ต้องบันทึกเทศกาลก่อนจึงจะแนบรูปหรือดูตัวอย่างได้"
	case errors.As(err, &partial):
		retry := "image"
		if partial.Asset == festivalsvc.AssetCover {
			retry = "cover"
		}
		return fmt.Sprintf("บันทึกเทศกาล #%d แล้ว แต่อัปโหลด %s ไม่สำเร็จ: %v\nลองอีกครั้งด้วย `tour_admin festival %s %d <file>`",
			partial.Festival.ID, partial.Asset, partial.Err, retry, partial.Festival.ID)
	case errors.As(err, &fieldErrs):
		return "ข้อมูลไม่ถูกต้อง:\n" + fieldLines(fieldErrs)
	case errors.As(err, &apiInvalid):
		if len(apiInvalid.Fields) == 0 {
			return "ข้อมูลไม่ถูกต้อง: " + apiInvalid.Message
		}
		return "ข้อมูลไม่ถูกต้อง:\n  " + strings.Join(apiInvalid.First(), "\n  ")
	case rest.IsNotFound(err):
		return "ไม่พบข้อมูล"
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return "เกิดข้อผิดพลาด: " + apiErr.Message
		}
		return fmt.Sprintf("เกิดข้อผิดพลาด (HTTP %d)", apiErr.Status)
	}

	return "เกิดข้อผิดพลาด: " + err.Error()
}

func fieldLines(errs validate.FieldErrors) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, "  "+f+": "+strings.Join(errs[f], ", "))
	}
	return strings.Join(lines, "\n")
}
