package services

import (
	"errors"
	"fmt"
	"strings"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/transport/rest/dto"
)

var (
	ErrIndexOutOfRange = errors.New("condition index out of range")
	ErrValueShape      = models.ErrValueShape
)

// RuleBuilder holds one tab while it is being authored: the header fields and
// the ordered condition list. Every operation is index addressed and leaves the
// other entries untouched.
type RuleBuilder struct {
	tab        models.TourTab
	conditions []models.Condition
}

// NewRuleBuilder starts a session from tab. A zero tab starts a new draft with
// the default display limit and sort.
func NewRuleBuilder(tab models.TourTab) *RuleBuilder {
	if tab.DisplayLimit == 0 {
		tab.DisplayLimit = models.DefaultDisplayLimit
	}
	if tab.SortBy == "" {
		tab.SortBy = models.SortPopular
	}

	conditions := make([]models.Condition, len(tab.Conditions))
	copy(conditions, tab.Conditions)
	tab.Conditions = nil

	return &RuleBuilder{tab: tab, conditions: conditions}
}

// Add appends a price_min condition with an empty value and returns its index.
func (b *RuleBuilder) Add() int {
	cond, _ := models.NewCondition(models.DefaultConditionType)
	b.conditions = append(b.conditions, cond)
	return len(b.conditions) - 1
}

// UpdateType switches entry i to t. The previous value is dropped and replaced
// by the empty value of t; setting the current type again changes nothing.
func (b *RuleBuilder) UpdateType(i int, t models.ConditionType) error {
	if err := b.check(i); err != nil {
		return err
	}

	if b.conditions[i].Type == t {
		return nil
	}

	cond, err := models.NewCondition(t)
	if err != nil {
		return err
	}

	b.conditions[i] = cond
	return nil
}

// UpdateValue replaces the value of entry i, keeping its type.
func (b *RuleBuilder) UpdateValue(i int, v models.ConditionValue) error {
	if err := b.check(i); err != nil {
		return err
	}

	cond, err := b.conditions[i].WithValue(v)
	if err != nil {
		return err
	}

	b.conditions[i] = cond
	return nil
}

// Remove deletes entry i; later entries shift down by one.
func (b *RuleBuilder) Remove(i int) error {
	if err := b.check(i); err != nil {
		return err
	}

	b.conditions = append(b.conditions[:i:i], b.conditions[i+1:]...)
	return nil
}

func (b *RuleBuilder) check(i int) error {
	if i < 0 || i >= len(b.conditions) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(b.conditions))
	}
	return nil
}

func (b *RuleBuilder) Len() int {
	return len(b.conditions)
}

// Conditions returns a copy of the current list.
func (b *RuleBuilder) Conditions() []models.Condition {
	out := make([]models.Condition, len(b.conditions))
	copy(out, b.conditions)
	return out
}

// Condition returns entry i.
func (b *RuleBuilder) Condition(i int) (models.Condition, error) {
	if err := b.check(i); err != nil {
		return models.Condition{}, err
	}
	return b.conditions[i], nil
}

// Edit changes header fields. Changes fn makes to Conditions are ignored.
func (b *RuleBuilder) Edit(fn func(tab *models.TourTab)) {
	fn(&b.tab)
	b.tab.Conditions = nil
}

// Tab returns the tab as currently authored.
func (b *RuleBuilder) Tab() models.TourTab {
	tab := b.tab
	tab.Conditions = b.Conditions()
	return tab
}

func (b *RuleBuilder) ID() int64 {
	return b.tab.ID
}

// Persisted marks the session as saved under id.
func (b *RuleBuilder) Persisted(saved models.TourTab) {
	b.tab.ID = saved.ID
	b.tab.Slug = saved.Slug
	b.tab.CreatedAt = saved.CreatedAt
	b.tab.UpdatedAt = saved.UpdatedAt
}

// Serialize produces the create/update body. Optional strings are trimmed and
// blank ones are left out of the body.
func (b *RuleBuilder) Serialize() dto.TourTabRequest {
	return NewTabRequest(b.Tab())
}

// NewTabRequest builds the persistence body of tab.
func NewTabRequest(tab models.TourTab) dto.TourTabRequest {
	conditions := make([]models.Condition, len(tab.Conditions))
	copy(conditions, tab.Conditions)

	return dto.TourTabRequest{
		Name:         strings.TrimSpace(tab.Name),
		Slug:         dto.Optional(tab.Slug),
		Description:  dto.Optional(tab.Description),
		Icon:         dto.Optional(tab.Icon),
		BadgeText:    dto.Optional(tab.BadgeText),
		BadgeColor:   dto.Optional(tab.BadgeColor),
		Conditions:   conditions,
		DisplayLimit: tab.DisplayLimit,
		SortBy:       tab.SortBy,
		SortOrder:    tab.SortOrder,
		IsActive:     tab.IsActive,
	}
}
