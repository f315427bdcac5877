package dto

import "tour_admin/internal/domain/models"

// FestivalRequest is the JSON body of a festival; images travel separately as multipart.
type FestivalRequest struct {
	Name               string              `json:"name" validate:"required,max=255"`
	Description        *string             `json:"description,omitempty"`
	StartDate          string              `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate            string              `json:"end_date" validate:"required,datetime=2006-01-02"`
	BadgeText          *string             `json:"badge_text,omitempty" validate:"omitempty,max=50"`
	BadgeColor         *string             `json:"badge_color,omitempty" validate:"omitempty,oneof=red orange yellow green blue purple pink"`
	BadgeIcon          *string             `json:"badge_icon,omitempty" validate:"omitempty,max=50"`
	DisplayModes       models.DisplayModes `json:"display_modes"`
	CoverImagePosition *string             `json:"cover_image_position,omitempty"`
	IsActive           bool                `json:"is_active"`
	SortOrder          int                 `json:"sort_order" validate:"min=0"`
}

type FestivalPageSettingsRequest struct {
	Title              *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Subtitle           *string `json:"subtitle,omitempty" validate:"omitempty,max=500"`
	CoverImagePosition *string `json:"cover_image_position,omitempty"`
}
