package models

import "time"

type SortBy string

const (
	SortPopular       SortBy = "popular"
	SortPriceAsc      SortBy = "price_asc"
	SortPriceDesc     SortBy = "price_desc"
	SortNewest        SortBy = "newest"
	SortDepartureDate SortBy = "departure_date"
)

const (
	MinDisplayLimit     = 1
	MaxDisplayLimit     = 50
	DefaultDisplayLimit = 12
)

func (s SortBy) Valid() bool {
	switch s {
	case SortPopular, SortPriceAsc, SortPriceDesc, SortNewest, SortDepartureDate:
		return true
	}
	return false
}

// TourTab is a homepage section defined by a set of AND-combined conditions.
// Conditions keep their authoring order; order has no effect on matching.
type TourTab struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Slug         string      `json:"slug,omitempty"`
	Description  string      `json:"description,omitempty"`
	Icon         string      `json:"icon,omitempty"`
	BadgeText    string      `json:"badge_text,omitempty"`
	BadgeColor   string      `json:"badge_color,omitempty"`
	Conditions   []Condition `json:"conditions"`
	DisplayLimit int         `json:"display_limit"`
	SortBy       SortBy      `json:"sort_by"`
	SortOrder    int         `json:"sort_order"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    *time.Time  `json:"created_at,omitempty"`
	UpdatedAt    *time.Time  `json:"updated_at,omitempty"`
}

// Persisted reports whether the server has assigned an id.
func (t TourTab) Persisted() bool {
	return t.ID != 0
}

// Badge returns the palette color of the tab badge.
func (t TourTab) Badge() BadgeColor {
	return ResolveBadgeColor(t.BadgeColor)
}
