package services

import (
	"context"
	"fmt"
	"log/slog"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/lib/logger/sl"
)

// Preview asks the server for tours departing inside the festival range. The
// server sends a sample plus the true match count; a count below the sample
// size is raised to the sample size.
func (s *FestivalService) Preview(ctx context.Context, id int64) (*models.FestivalPreview, error) {
	const op = "festival_service.Preview"
	log := s.log.With(slog.String("op", op), slog.Int64("festival_id", id))

	if id == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrDraftEntity)
	}

	preview, err := s.client.PreviewFestivalTours(ctx, id)
	if err != nil {
		log.Error("failed to preview festival tours", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if preview.PreviewTours == nil {
		preview.PreviewTours = []models.TourSummary{}
	}

	if preview.TotalCount < len(preview.PreviewTours) {
		log.Warn("total count below sample size",
			slog.Int("total_count", preview.TotalCount),
			slog.Int("sample", len(preview.PreviewTours)),
		)
		preview.TotalCount = len(preview.PreviewTours)
	}

	log.Debug("festival preview",
		slog.Int("total_count", preview.TotalCount),
		slog.Int("sample", len(preview.PreviewTours)),
		slog.Bool("truncated", preview.Truncated()),
	)

	return preview, nil
}
