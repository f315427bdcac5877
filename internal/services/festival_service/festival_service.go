package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/lib/logger/sl"
	"tour_admin/internal/lib/validate"
	storage "tour_admin/internal/storage/filestorage"
	"tour_admin/internal/transport/rest/dto"
)

type FestivalClient interface {
	ListFestivals(ctx context.Context) ([]models.FestivalHoliday, error)
	GetFestival(ctx context.Context, id int64) (*models.FestivalHoliday, error)
	CreateFestival(ctx context.Context, req dto.FestivalRequest) (*models.FestivalHoliday, error)
	UpdateFestival(ctx context.Context, id int64, req dto.FestivalRequest) (*models.FestivalHoliday, error)
	ToggleFestivalStatus(ctx context.Context, id int64) (*models.FestivalHoliday, error)
	DeleteFestival(ctx context.Context, id int64) error
	PreviewFestivalTours(ctx context.Context, id int64) (*models.FestivalPreview, error)

	UploadFestivalImage(ctx context.Context, id int64, file *storage.Upload) (*models.FestivalHoliday, error)
	DeleteFestivalImage(ctx context.Context, id int64) error
	UploadFestivalCoverImage(ctx context.Context, id int64, file *storage.Upload) (*models.FestivalHoliday, error)
	DeleteFestivalCoverImage(ctx context.Context, id int64) error

	GetPageSettings(ctx context.Context) (*models.FestivalPageSettings, error)
	UpdatePageSettings(ctx context.Context, req dto.FestivalPageSettingsRequest) (*models.FestivalPageSettings, error)
	UploadPageCoverImage(ctx context.Context, file *storage.Upload) (*models.FestivalPageSettings, error)
	DeletePageCoverImage(ctx context.Context) error
}

type FestivalService struct {
	log       *slog.Logger
	client    FestivalClient
	files     storage.FileStorage
	validator validate.Validator
}

func NewFestivalService(log *slog.Logger, client FestivalClient, files storage.FileStorage) *FestivalService {
	return &FestivalService{
		log:       log,
		client:    client,
		files:     files,
		validator: mustValidator(),
	}
}

// NewFestivalRequest builds the JSON body of f. Optional strings are trimmed and
// blank ones left out; an unset cover position is left to the server.
func NewFestivalRequest(f models.FestivalHoliday) dto.FestivalRequest {
	modes := f.DisplayModes
	if modes == nil {
		modes = models.NewDisplayModes()
	}

	return dto.FestivalRequest{
		Name:               strings.TrimSpace(f.Name),
		Description:        dto.Optional(f.Description),
		StartDate:          strings.TrimSpace(f.StartDate),
		EndDate:            strings.TrimSpace(f.EndDate),
		BadgeText:          dto.Optional(f.BadgeText),
		BadgeColor:         dto.Optional(f.BadgeColor),
		BadgeIcon:          dto.Optional(f.BadgeIcon),
		DisplayModes:       modes,
		CoverImagePosition: dto.Optional(string(f.CoverImagePosition)),
		IsActive:           f.IsActive,
		SortOrder:          f.SortOrder,
	}
}

// List returns every festival ordered by sort_order, then start date.
func (s *FestivalService) List(ctx context.Context) ([]models.FestivalHoliday, error) {
	const op = "festival_service.List"
	log := s.log.With(slog.String("op", op))

	festivals, err := s.client.ListFestivals(ctx)
	if err != nil {
		log.Error("failed to list festivals", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.SliceStable(festivals, func(i, j int) bool {
		if festivals[i].SortOrder != festivals[j].SortOrder {
			return festivals[i].SortOrder < festivals[j].SortOrder
		}
		return festivals[i].StartDate < festivals[j].StartDate
	})

	return festivals, nil
}

func (s *FestivalService) Get(ctx context.Context, id int64) (*models.FestivalHoliday, error) {
	const op = "festival_service.Get"
	log := s.log.With(slog.String("op", op), slog.Int64("festival_id", id))

	f, err := s.client.GetFestival(ctx, id)
	if err != nil {
		log.Error("failed to get festival", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

// Validate checks req before it is sent. The error is a validate.FieldErrors.
func (s *FestivalService) Validate(req dto.FestivalRequest) error {
	return s.validator.Validate(req)
}

func (s *FestivalService) Create(ctx context.Context, req dto.FestivalRequest) (*models.FestivalHoliday, error) {
	const op = "festival_service.Create"
	log := s.log.With(slog.String("op", op), slog.String("name", req.Name))

	if err := s.Validate(req); err != nil {
		log.Warn("invalid festival", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.create(ctx, req)
}

// create sends an already validated request.
func (s *FestivalService) create(ctx context.Context, req dto.FestivalRequest) (*models.FestivalHoliday, error) {
	const op = "festival_service.Create"
	log := s.log.With(slog.String("op", op), slog.String("name", req.Name))

	f, err := s.client.CreateFestival(ctx, req)
	if err != nil {
		log.Error("failed to create festival", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("festival created", slog.Int64("festival_id", f.ID))
	return f, nil
}

func (s *FestivalService) Update(ctx context.Context, id int64, req dto.FestivalRequest) (*models.FestivalHoliday, error) {
	const op = "festival_service.Update"
	log := s.log.With(slog.String("op", op), slog.Int64("festival_id", id))

	if id == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrDraftEntity)
	}

	if err := s.Validate(req); err != nil {
		log.Warn("invalid festival", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f, err := s.client.UpdateFestival(ctx, id, req)
	if err != nil {
		log.Error("failed to update festival", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("festival updated")
	return f, nil
}

func (s *FestivalService) ToggleStatus(ctx context.Context, id int64) (*models.FestivalHoliday, error) {
	const op = "festival_service.ToggleStatus"
	log := s.log.With(slog.String("op", op), slog.Int64("festival_id", id))

	f, err := s.client.ToggleFestivalStatus(ctx, id)
	if err != nil {
		log.Error("failed to toggle festival", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("festival status changed", slog.Bool("is_active", f.IsActive))
	return f, nil
}

func (s *FestivalService) Delete(ctx context.Context, id int64) error {
	const op = "festival_service.Delete"
	log := s.log.With(slog.String("op", op), slog.Int64("festival_id", id))

	if err := s.client.DeleteFestival(ctx, id); err != nil {
		log.Error("failed to delete festival", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("festival deleted")
	return nil
}
