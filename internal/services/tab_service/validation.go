package services

import (
	"fmt"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/lib/validate"
	"tour_admin/internal/transport/rest/dto"

	"github.com/go-playground/validator/v10"
)

const (
	tagConditionType  = "condition_type"
	tagConditionShape = "condition_shape"
	tagConditionValue = "condition_value"
	tagFinite         = "finite"
	tagNonNegative    = "non_negative"
	tagPercent        = "percent"
	tagPriceRange     = "price_range"
	tagDaysRange      = "days_range"
)

func mustValidator() validate.Validator {
	v, err := validate.NewBuilder().
		WithTranslations([]validate.Translation{
			{Tag: tagConditionType, Message: "unknown condition type"},
			{Tag: tagConditionShape, Message: "value does not match the condition type"},
			{Tag: tagConditionValue, Message: "a value is required"},
			{Tag: tagFinite, Message: "must be a finite number"},
			{Tag: tagNonNegative, Message: "must be 0 or greater"},
			{Tag: tagPercent, Message: "must be 100 or less"},
			{Tag: tagPriceRange, Message: "price_min must not be greater than price_max"},
			{Tag: tagDaysRange, Message: "min_days must not be greater than max_days"},
		}).
		WithStructValidations([]validate.StructValidation{
			{Type: dto.TourTabRequest{}, Func: validateConditions},
		}).
		Build()
	if err != nil {
		panic(err)
	}
	return v
}

// bound tracks the tightest value of one side of a range pair.
type bound struct {
	index int
	value float64
	set   bool
}

// validateConditions checks every condition of a tab: known type, matching and
// non-empty value, sane numbers, and the two min/max pairs.
func validateConditions(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.TourTabRequest)

	var priceMin, priceMax, minDays, maxDays bound

	for i, c := range req.Conditions {
		field := func(name string) string {
			return fmt.Sprintf("conditions[%d].%s", i, name)
		}

		if !c.Type.Valid() {
			sl.ReportError(c.Type, field("type"), "Type", tagConditionType, "")
			continue
		}
		if c.IsEmpty() {
			sl.ReportError(c.Value, field("value"), "Value", tagConditionValue, "")
			continue
		}
		if !models.Accepts(c.Type, c.Value) {
			sl.ReportError(c.Value, field("value"), "Value", tagConditionShape, "")
			continue
		}

		n, ok := c.Value.(models.Number)
		if !ok {
			continue
		}

		if !n.Finite() {
			sl.ReportError(c.Value, field("value"), "Value", tagFinite, "")
			continue
		}
		if n.Value < 0 {
			sl.ReportError(c.Value, field("value"), "Value", tagNonNegative, "")
			continue
		}
		if c.Type == models.ConditionDiscountMinPercent && n.Value > 100 {
			sl.ReportError(c.Value, field("value"), "Value", tagPercent, "")
			continue
		}

		switch c.Type {
		case models.ConditionPriceMin:
			priceMin.raise(i, n.Value)
		case models.ConditionPriceMax:
			priceMax.lower(i, n.Value)
		case models.ConditionMinDays:
			minDays.raise(i, n.Value)
		case models.ConditionMaxDays:
			maxDays.lower(i, n.Value)
		}
	}

	if priceMin.set && priceMax.set && priceMin.value > priceMax.value {
		sl.ReportError(priceMin.value, fmt.Sprintf("conditions[%d].value", priceMin.index), "Value", tagPriceRange, "")
	}
	if minDays.set && maxDays.set && minDays.value > maxDays.value {
		sl.ReportError(minDays.value, fmt.Sprintf("conditions[%d].value", minDays.index), "Value", tagDaysRange, "")
	}
}

func (b *bound) raise(i int, v float64) {
	if !b.set || v > b.value {
		*b = bound{index: i, value: v, set: true}
	}
}

func (b *bound) lower(i int, v float64) {
	if !b.set || v < b.value {
		*b = bound{index: i, value: v, set: true}
	}
}
