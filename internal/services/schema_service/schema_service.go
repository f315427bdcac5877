package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"tour_admin/internal/domain/models"
)

var (
	ErrUnknownChoice = errors.New("unknown choice")
	ErrInvalidInput  = errors.New("invalid input")
)

// Choice is one selectable entry of a select or multiselect input.
type Choice struct {
	Key   string
	Label string
}

// InputDescriptor is everything needed to render the value input of a condition.
type InputDescriptor struct {
	Type    models.ConditionType
	Shape   models.ValueShape
	Label   string
	Unit    string
	Choices []Choice
}

type typeInfo struct {
	label string
	unit  string
}

var typeInfos = map[models.ConditionType]typeInfo{
	models.ConditionPriceMin:            {label: "ราคาขั้นต่ำ", unit: "บาท"},
	models.ConditionPriceMax:            {label: "ราคาสูงสุด", unit: "บาท"},
	models.ConditionCountries:           {label: "ประเทศ"},
	models.ConditionRegions:             {label: "ภูมิภาค"},
	models.ConditionWholesalers:         {label: "โฮลเซลล์"},
	models.ConditionDepartureWithinDays: {label: "ออกเดินทางภายใน", unit: "วัน"},
	models.ConditionHasDiscount:         {label: "มีส่วนลด"},
	models.ConditionDiscountMinPercent:  {label: "ส่วนลดขั้นต่ำ", unit: "%"},
	models.ConditionTourType:            {label: "ประเภททัวร์"},
	models.ConditionMinDays:             {label: "จำนวนวันขั้นต่ำ", unit: "วัน"},
	models.ConditionMaxDays:             {label: "จำนวนวันสูงสุด", unit: "วัน"},
	models.ConditionIsPremium:           {label: "ทัวร์พรีเมียม"},
	models.ConditionCreatedWithinDays:   {label: "เพิ่มใหม่ภายใน", unit: "วัน"},
	models.ConditionHasAvailableSeats:   {label: "มีที่นั่งว่าง"},
	models.ConditionMinViews:            {label: "ยอดเข้าชมขั้นต่ำ", unit: "ครั้ง"},
}

// Shape reports the value shape of t. Unknown types report false.
func Shape(t models.ConditionType) (models.ValueShape, bool) {
	return models.ShapeOf(t)
}

// Label returns the display label of t, or the raw key for unknown types.
func Label(t models.ConditionType) string {
	if info, ok := typeInfos[t]; ok {
		return info.label
	}
	return string(t)
}

// Describe returns the input descriptor of t. Choices of select and multiselect
// types are taken from opts; a nil opts yields no choices. Unknown types yield
// no input.
func Describe(t models.ConditionType, opts *models.ConditionOptions) (InputDescriptor, bool) {
	shape, ok := models.ShapeOf(t)
	if !ok {
		return InputDescriptor{}, false
	}

	info := typeInfos[t]
	d := InputDescriptor{
		Type:  t,
		Shape: shape,
		Label: info.label,
		Unit:  info.unit,
	}

	if opts != nil {
		d.Choices = choices(t, *opts)
	}

	return d, true
}

func choices(t models.ConditionType, opts models.ConditionOptions) []Choice {
	switch t {
	case models.ConditionCountries:
		out := make([]Choice, 0, len(opts.Countries))
		for _, c := range opts.Countries {
			out = append(out, Choice{Key: strconv.FormatInt(c.ID, 10), Label: c.NameTH})
		}
		return out
	case models.ConditionWholesalers:
		out := make([]Choice, 0, len(opts.Wholesalers))
		for _, w := range opts.Wholesalers {
			out = append(out, Choice{Key: strconv.FormatInt(w.ID, 10), Label: w.Name})
		}
		return out
	case models.ConditionRegions:
		return mapChoices(opts.Regions)
	case models.ConditionTourType:
		return mapChoices(opts.TourTypes)
	}
	return nil
}

func mapChoices(m map[string]string) []Choice {
	out := make([]Choice, 0, len(m))
	for _, k := range models.SortedKeys(m) {
		out = append(out, Choice{Key: k, Label: m[k]})
	}
	return out
}

// ParseValue reads operator input into the value variant of t.
//
// Numbers accept plain decimals; "" is the empty number. Booleans accept
// true/false, yes/no, 1/0 and ใช่/ไม่. Lists are comma separated; countries match
// by id or by Thai or English name, wholesalers by id or code, regions and tour
// types by key. When opts is nil choices are not checked.
func ParseValue(t models.ConditionType, raw string, opts *models.ConditionOptions) (models.ConditionValue, error) {
	empty := models.EmptyValue(t)
	if empty == nil {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownConditionType, t)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return empty, nil
	}

	switch empty.(type) {
	case models.Number:
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s expects a number, got %q", ErrInvalidInput, t, raw)
		}
		return models.NumberOf(v), nil

	case models.Flag:
		v, ok := parseBool(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects yes or no, got %q", ErrInvalidInput, t, raw)
		}
		return models.FlagOf(v), nil

	case models.Choice:
		if opts != nil && len(opts.TourTypes) > 0 {
			if _, ok := opts.TourTypes[raw]; !ok {
				return nil, fmt.Errorf("%w: %s %q", ErrUnknownChoice, t, raw)
			}
		}
		return models.Choice(raw), nil

	case models.KeyList:
		keys := models.KeyList{}
		for _, item := range splitList(raw) {
			if opts != nil && len(opts.Regions) > 0 {
				if _, ok := opts.Regions[item]; !ok {
					return nil, fmt.Errorf("%w: %s %q", ErrUnknownChoice, t, item)
				}
			}
			keys = append(keys, item)
		}
		return keys, nil

	case models.IDList:
		ids := models.IDList{}
		for _, item := range splitList(raw) {
			id, err := resolveID(t, item, opts)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	}

	return nil, fmt.Errorf("%w: %q", models.ErrUnknownConditionType, t)
}

func resolveID(t models.ConditionType, item string, opts *models.ConditionOptions) (int64, error) {
	id, err := strconv.ParseInt(item, 10, 64)

	if opts == nil {
		if err != nil {
			return 0, fmt.Errorf("%w: %s expects numeric ids, got %q", ErrInvalidInput, t, item)
		}
		return id, nil
	}

	switch t {
	case models.ConditionCountries:
		for _, c := range opts.Countries {
			if (err == nil && c.ID == id) || strings.EqualFold(c.NameEN, item) || c.NameTH == item {
				return c.ID, nil
			}
		}
	case models.ConditionWholesalers:
		for _, w := range opts.Wholesalers {
			if (err == nil && w.ID == id) || strings.EqualFold(w.Code, item) {
				return w.ID, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: %s %q", ErrUnknownChoice, t, item)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "true", "yes", "y", "1", "ใช่":
		return true, true
	case "false", "no", "n", "0", "ไม่":
		return false, true
	}
	return false, false
}

// FormatValue renders v for display, naming reference ids through opts.
// Lists longer than maxItems are cut with a "+N อื่นๆ" suffix; maxItems <= 0 shows all.
func FormatValue(t models.ConditionType, v models.ConditionValue, opts *models.ConditionOptions, maxItems int) string {
	if v == nil || v.IsEmpty() {
		return "-"
	}

	var items []string

	switch val := v.(type) {
	case models.Flag:
		if val.Value {
			return "ใช่"
		}
		return "ไม่"
	case models.Number:
		if unit := typeInfos[t].unit; unit != "" {
			return val.String() + " " + unit
		}
		return val.String()
	case models.Choice:
		if opts != nil {
			if label, ok := opts.TourTypes[string(val)]; ok {
				return label
			}
		}
		return string(val)
	case models.KeyList:
		for _, k := range val {
			label := k
			if opts != nil {
				if l, ok := opts.Regions[k]; ok {
					label = l
				}
			}
			items = append(items, label)
		}
	case models.IDList:
		for _, id := range val {
			items = append(items, idLabel(t, id, opts))
		}
	default:
		return v.String()
	}

	return Truncate(items, maxItems)
}

func idLabel(t models.ConditionType, id int64, opts *models.ConditionOptions) string {
	if opts != nil {
		switch t {
		case models.ConditionCountries:
			if c, ok := opts.Country(id); ok {
				return c.NameTH
			}
		case models.ConditionWholesalers:
			if w, ok := opts.Wholesaler(id); ok {
				return w.Name
			}
		}
	}
	return strconv.FormatInt(id, 10)
}

// Truncate joins the first max items and appends the overflow indicator.
func Truncate(items []string, max int) string {
	if max <= 0 || len(items) <= max {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:max], ", ") + " " + Overflow(len(items)-max)
}

// Overflow is the "+N อื่นๆ" indicator for n hidden items.
func Overflow(n int) string {
	return fmt.Sprintf("+%d อื่นๆ", n)
}
