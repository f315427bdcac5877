package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ConditionType string

const (
	ConditionPriceMin            ConditionType = "price_min"
	ConditionPriceMax            ConditionType = "price_max"
	ConditionCountries           ConditionType = "countries"
	ConditionRegions             ConditionType = "regions"
	ConditionWholesalers         ConditionType = "wholesalers"
	ConditionDepartureWithinDays ConditionType = "departure_within_days"
	ConditionHasDiscount         ConditionType = "has_discount"
	ConditionDiscountMinPercent  ConditionType = "discount_min_percent"
	ConditionTourType            ConditionType = "tour_type"
	ConditionMinDays             ConditionType = "min_days"
	ConditionMaxDays             ConditionType = "max_days"
	ConditionIsPremium           ConditionType = "is_premium"
	ConditionCreatedWithinDays   ConditionType = "created_within_days"
	ConditionHasAvailableSeats   ConditionType = "has_available_seats"
	ConditionMinViews            ConditionType = "min_views"
)

// DefaultConditionType is the type a freshly added condition starts with.
const DefaultConditionType = ConditionPriceMin

type ValueShape string

const (
	ShapeNumber      ValueShape = "number"
	ShapeBoolean     ValueShape = "boolean"
	ShapeSelect      ValueShape = "select"
	ShapeMultiselect ValueShape = "multiselect"
)

// conditionTypes keeps the display order used by pickers.
var conditionTypes = []ConditionType{
	ConditionPriceMin,
	ConditionPriceMax,
	ConditionCountries,
	ConditionRegions,
	ConditionWholesalers,
	ConditionDepartureWithinDays,
	ConditionHasDiscount,
	ConditionDiscountMinPercent,
	ConditionTourType,
	ConditionMinDays,
	ConditionMaxDays,
	ConditionIsPremium,
	ConditionCreatedWithinDays,
	ConditionHasAvailableSeats,
	ConditionMinViews,
}

var conditionShapes = map[ConditionType]ValueShape{
	ConditionPriceMin:            ShapeNumber,
	ConditionPriceMax:            ShapeNumber,
	ConditionCountries:           ShapeMultiselect,
	ConditionRegions:             ShapeMultiselect,
	ConditionWholesalers:         ShapeMultiselect,
	ConditionDepartureWithinDays: ShapeNumber,
	ConditionHasDiscount:         ShapeBoolean,
	ConditionDiscountMinPercent:  ShapeNumber,
	ConditionTourType:            ShapeSelect,
	ConditionMinDays:             ShapeNumber,
	ConditionMaxDays:             ShapeNumber,
	ConditionIsPremium:           ShapeBoolean,
	ConditionCreatedWithinDays:   ShapeNumber,
	ConditionHasAvailableSeats:   ShapeBoolean,
	ConditionMinViews:            ShapeNumber,
}

// ConditionTypes returns every known condition type in display order.
func ConditionTypes() []ConditionType {
	out := make([]ConditionType, len(conditionTypes))
	copy(out, conditionTypes)
	return out
}

// ShapeOf reports the value shape of t. Unknown types report false.
func ShapeOf(t ConditionType) (ValueShape, bool) {
	shape, ok := conditionShapes[t]
	return shape, ok
}

func (t ConditionType) Valid() bool {
	_, ok := conditionShapes[t]
	return ok
}

// usesStringKeys reports whether a multiselect type holds string keys instead of numeric IDs.
func (t ConditionType) usesStringKeys() bool {
	return t == ConditionRegions
}

var (
	ErrUnknownConditionType = errors.New("unknown condition type")
	ErrValueShape           = errors.New("value does not match condition type")
)

// ConditionValue is the payload of a Condition. The concrete variant is fixed by the
// condition type: Number, Flag, Choice, IDList or KeyList.
type ConditionValue interface {
	Shape() ValueShape
	IsEmpty() bool
	String() string
	conditionValue()
}

// Number is a numeric condition value. The zero Number is empty.
type Number struct {
	Value float64
	Valid bool
}

func NumberOf(v float64) Number { return Number{Value: v, Valid: true} }

func (Number) Shape() ValueShape { return ShapeNumber }
func (n Number) IsEmpty() bool   { return !n.Valid }
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
func (Number) conditionValue() {}

// Finite reports whether the value can be sent; NaN and infinities cannot.
func (n Number) Finite() bool {
	return !math.IsNaN(n.Value) && !math.IsInf(n.Value, 0)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*n = Number{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		if *n = NumberOf(v); !n.Finite() {
			return fmt.Errorf("invalid number %q", s)
		}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NumberOf(v)
	return nil
}

// Flag is a boolean condition value. The zero Flag is empty, not false.
type Flag struct {
	Value bool
	Valid bool
}

func FlagOf(v bool) Flag { return Flag{Value: v, Valid: true} }

func (Flag) Shape() ValueShape { return ShapeBoolean }
func (f Flag) IsEmpty() bool   { return !f.Valid }
func (f Flag) String() string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatBool(f.Value)
}
func (Flag) conditionValue() {}

func (f Flag) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = Flag{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch strings.TrimSpace(s) {
		case "":
			*f = Flag{}
		case "true", "1":
			*f = FlagOf(true)
		case "false", "0":
			*f = FlagOf(false)
		default:
			return fmt.Errorf("invalid boolean %q", s)
		}
		return nil
	}

	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlagOf(v)
	return nil
}

// Choice is a single key out of a server-provided vocabulary (tour_type).
type Choice string

func (Choice) Shape() ValueShape { return ShapeSelect }
func (c Choice) IsEmpty() bool   { return strings.TrimSpace(string(c)) == "" }
func (c Choice) String() string  { return string(c) }
func (Choice) conditionValue()   {}

// IDList is an ordered list of numeric reference IDs (countries, wholesalers).
type IDList []int64

func (IDList) Shape() ValueShape { return ShapeMultiselect }
func (l IDList) IsEmpty() bool   { return len(l) == 0 }
func (l IDList) String() string {
	parts := make([]string, len(l))
	for i, id := range l {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
func (IDList) conditionValue() {}

func (l IDList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int64(l))
}

// KeyList is an ordered list of string keys (regions).
type KeyList []string

func (KeyList) Shape() ValueShape { return ShapeMultiselect }
func (l KeyList) IsEmpty() bool   { return len(l) == 0 }
func (l KeyList) String() string  { return strings.Join(l, ",") }
func (KeyList) conditionValue()   {}

func (l KeyList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// EmptyValue returns the empty value for t, or nil when t is unknown.
func EmptyValue(t ConditionType) ConditionValue {
	shape, ok := conditionShapes[t]
	if !ok {
		return nil
	}

	switch shape {
	case ShapeNumber:
		return Number{}
	case ShapeBoolean:
		return Flag{}
	case ShapeSelect:
		return Choice("")
	case ShapeMultiselect:
		if t.usesStringKeys() {
			return KeyList{}
		}
		return IDList{}
	}

	return nil
}

// Accepts reports whether v is the variant t expects.
func Accepts(t ConditionType, v ConditionValue) bool {
	if v == nil {
		return false
	}

	switch v.(type) {
	case Number:
		return conditionShapes[t] == ShapeNumber
	case Flag:
		return conditionShapes[t] == ShapeBoolean
	case Choice:
		return conditionShapes[t] == ShapeSelect
	case IDList:
		return conditionShapes[t] == ShapeMultiselect && !t.usesStringKeys()
	case KeyList:
		return conditionShapes[t] == ShapeMultiselect && t.usesStringKeys()
	}

	return false
}

// Condition is one filter predicate of a tour tab. Value always matches Type.
type Condition struct {
	Type  ConditionType
	Value ConditionValue
}

// NewCondition returns a condition of type t holding the empty value for t.
func NewCondition(t ConditionType) (Condition, error) {
	v := EmptyValue(t)
	if v == nil {
		return Condition{}, fmt.Errorf("%w: %q", ErrUnknownConditionType, t)
	}
	return Condition{Type: t, Value: v}, nil
}

// WithValue returns a copy of c holding v, rejecting values of another shape.
func (c Condition) WithValue(v ConditionValue) (Condition, error) {
	if !Accepts(c.Type, v) {
		return c, fmt.Errorf("%w: %s cannot hold %T", ErrValueShape, c.Type, v)
	}
	c.Value = v
	return c, nil
}

func (c Condition) IsEmpty() bool {
	return c.Value == nil || c.Value.IsEmpty()
}

type conditionJSON struct {
	Type  ConditionType   `json:"type"`
	Value json.RawMessage `json:"value"`
}

func (c Condition) MarshalJSON() ([]byte, error) {
	value := c.Value
	if value == nil {
		value = EmptyValue(c.Type)
	}
	if value == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConditionType, c.Type)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return json.Marshal(conditionJSON{Type: c.Type, Value: raw})
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw conditionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cond, err := NewCondition(raw.Type)
	if err != nil {
		return err
	}

	// a cleared form input posts "" whatever the type
	switch string(bytes.TrimSpace(raw.Value)) {
	case "", "null", `""`:
		*c = cond
		return nil
	}

	switch cond.Value.(type) {
	case Number:
		var n Number
		if err := json.Unmarshal(raw.Value, &n); err != nil {
			return fmt.Errorf("condition %s: %w", raw.Type, err)
		}
		cond.Value = n
	case Flag:
		var f Flag
		if err := json.Unmarshal(raw.Value, &f); err != nil {
			return fmt.Errorf("condition %s: %w", raw.Type, err)
		}
		cond.Value = f
	case Choice:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return fmt.Errorf("condition %s: %w", raw.Type, err)
		}
		cond.Value = Choice(s)
	case IDList:
		ids, err := decodeIDs(raw.Value)
		if err != nil {
			return fmt.Errorf("condition %s: %w", raw.Type, err)
		}
		cond.Value = ids
	case KeyList:
		var keys []string
		if err := json.Unmarshal(raw.Value, &keys); err != nil {
			return fmt.Errorf("condition %s: %w", raw.Type, err)
		}
		cond.Value = KeyList(keys)
	}

	*c = cond
	return nil
}

// decodeIDs accepts both [392, 764] and ["392", "764"]; multiselect inputs post strings.
func decodeIDs(data []byte) (IDList, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}

	ids := make(IDList, 0, len(items))
	for _, item := range items {
		var id int64
		if err := json.Unmarshal(item, &id); err == nil {
			ids = append(ids, id)
			continue
		}

		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, fmt.Errorf("invalid id %s", string(item))
		}
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", s, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
