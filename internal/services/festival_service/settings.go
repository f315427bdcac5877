package services

import (
	"context"
	"fmt"
	"log/slog"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/lib/logger/sl"
	"tour_admin/internal/transport/rest/dto"
)

// PageSettings returns the hero banner of the festival page. There is one per site.
func (s *FestivalService) PageSettings(ctx context.Context) (*models.FestivalPageSettings, error) {
	const op = "festival_service.PageSettings"

	settings, err := s.client.GetPageSettings(ctx)
	if err != nil {
		s.log.Error("failed to get page settings", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return settings, nil
}

// NewPageSettingsRequest builds the update body; blank strings are left out.
func NewPageSettingsRequest(settings models.FestivalPageSettings) dto.FestivalPageSettingsRequest {
	return dto.FestivalPageSettingsRequest{
		Title:              dto.Optional(settings.Title),
		Subtitle:           dto.Optional(settings.Subtitle),
		CoverImagePosition: dto.Optional(string(settings.CoverImagePosition)),
	}
}

func (s *FestivalService) UpdatePageSettings(ctx context.Context, req dto.FestivalPageSettingsRequest) (*models.FestivalPageSettings, error) {
	const op = "festival_service.UpdatePageSettings"
	log := s.log.With(slog.String("op", op))

	if err := s.validator.Validate(req); err != nil {
		log.Warn("invalid page settings", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	settings, err := s.client.UpdatePageSettings(ctx, req)
	if err != nil {
		log.Error("failed to update page settings", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("page settings updated")
	return settings, nil
}

// AttachPageCover uploads the file at path as the page cover image.
func (s *FestivalService) AttachPageCover(ctx context.Context, path string) (*models.FestivalPageSettings, error) {
	const op = "festival_service.AttachPageCover"
	log := s.log.With(slog.String("op", op))

	file, err := s.files.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	settings, err := s.client.UploadPageCoverImage(ctx, file)
	if err != nil {
		log.Error("failed to upload page cover", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("page cover attached", slog.String("filename", file.Filename))
	return settings, nil
}

func (s *FestivalService) DetachPageCover(ctx context.Context) error {
	const op = "festival_service.DetachPageCover"

	if err := s.client.DeletePageCoverImage(ctx); err != nil {
		s.log.Error("failed to delete page cover", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
