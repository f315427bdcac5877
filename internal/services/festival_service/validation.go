package services

import (
	"tour_admin/internal/domain/models"
	"tour_admin/internal/lib/validate"
	"tour_admin/internal/transport/rest/dto"

	"github.com/go-playground/validator/v10"
)

const (
	tagDateRange     = "date_range"
	tagDisplayMode   = "display_mode"
	tagImagePosition = "image_position"
)

func mustValidator() validate.Validator {
	v, err := validate.NewBuilder().
		WithTranslations([]validate.Translation{
			{Tag: tagDateRange, Message: "start_date must not be after end_date"},
			{Tag: tagDisplayMode, Message: "display modes must be card or period"},
			{Tag: tagImagePosition, Message: "must be one of the 3x3 anchor positions, e.g. center top"},
		}).
		WithStructValidations([]validate.StructValidation{
			{Type: dto.FestivalRequest{}, Func: validateFestival},
			{Type: dto.FestivalPageSettingsRequest{}, Func: validatePageSettings},
		}).
		Build()
	if err != nil {
		panic(err)
	}
	return v
}

func validateFestival(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.FestivalRequest)

	start, startErr := ParseDate(req.StartDate)
	end, endErr := ParseDate(req.EndDate)
	if startErr == nil && endErr == nil && start.Gt(end) {
		sl.ReportError(req.EndDate, "end_date", "EndDate", tagDateRange, "")
	}

	for m := range req.DisplayModes {
		if !m.Valid() {
			sl.ReportError(req.DisplayModes, "display_modes", "DisplayModes", tagDisplayMode, "")
			break
		}
	}

	if req.CoverImagePosition != nil && !models.ImagePosition(*req.CoverImagePosition).Valid() {
		sl.ReportError(*req.CoverImagePosition, "cover_image_position", "CoverImagePosition", tagImagePosition, "")
	}
}

func validatePageSettings(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.FestivalPageSettingsRequest)

	if req.CoverImagePosition != nil && !models.ImagePosition(*req.CoverImagePosition).Valid() {
		sl.ReportError(*req.CoverImagePosition, "cover_image_position", "CoverImagePosition", tagImagePosition, "")
	}
}
