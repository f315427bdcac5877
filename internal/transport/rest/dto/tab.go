package dto

import "tour_admin/internal/domain/models"

// TourTabRequest is the create/update body of a tour tab.
type TourTabRequest struct {
	Name         string             `json:"name" validate:"required,max=255"`
	Slug         *string            `json:"slug,omitempty" validate:"omitempty,max=255"`
	Description  *string            `json:"description,omitempty"`
	Icon         *string            `json:"icon,omitempty" validate:"omitempty,max=100"`
	BadgeText    *string            `json:"badge_text,omitempty" validate:"omitempty,max=50"`
	BadgeColor   *string            `json:"badge_color,omitempty" validate:"omitempty,oneof=red orange yellow green blue purple pink"`
	Conditions   []models.Condition `json:"conditions"`
	DisplayLimit int                `json:"display_limit" validate:"min=1,max=50"`
	SortBy       models.SortBy      `json:"sort_by" validate:"required,oneof=popular price_asc price_desc newest departure_date"`
	SortOrder    int                `json:"sort_order" validate:"min=0"`
	IsActive     bool               `json:"is_active"`
}

type TabPreviewResponse struct {
	Tours []models.TourSummary `json:"tours"`
}
