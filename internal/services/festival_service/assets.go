package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/lib/logger/sl"
	storage "tour_admin/internal/storage/filestorage"
	"tour_admin/internal/transport/rest/dto"
)

// ErrDraftEntity is returned for asset actions on a festival that has no id yet.
var ErrDraftEntity = errors.New("festival must be saved before images can be attached")

// AssetKind names one of the two independent image slots of a festival.
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetCover AssetKind = "cover_image"
)

func (k AssetKind) Valid() bool {
	return k == AssetImage || k == AssetCover
}

// Assets are local files to attach after a festival is created. Empty paths are skipped.
type Assets struct {
	ImagePath string
	CoverPath string
}

func (a Assets) empty() bool {
	return a.ImagePath == "" && a.CoverPath == ""
}

// PartialError reports a festival that was created but whose asset upload failed.
// Festival is the persisted entity; nothing is rolled back.
type PartialError struct {
	Festival *models.FestivalHoliday
	Asset    AssetKind
	Err      error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("festival %d was saved but attaching %s failed: %v", e.Festival.ID, e.Asset, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// Attach uploads the file at path into the kind slot of f.
func (s *FestivalService) Attach(ctx context.Context, f models.FestivalHoliday, kind AssetKind, path string) (*models.FestivalHoliday, error) {
	const op = "festival_service.Attach"

	if f.State() == models.AssetDraft {
		return nil, fmt.Errorf("%s: %w", op, ErrDraftEntity)
	}

	file, err := s.files.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.attach(ctx, f, kind, file)
}

func (s *FestivalService) attach(ctx context.Context, f models.FestivalHoliday, kind AssetKind, file *storage.Upload) (*models.FestivalHoliday, error) {
	const op = "festival_service.attach"
	log := s.log.With(
		slog.String("op", op),
		slog.Int64("festival_id", f.ID),
		slog.String("asset", string(kind)),
	)

	if f.State() == models.AssetDraft {
		return nil, fmt.Errorf("%s: %w", op, ErrDraftEntity)
	}

	var (
		updated *models.FestivalHoliday
		err     error
	)
	switch kind {
	case AssetImage:
		updated, err = s.client.UploadFestivalImage(ctx, f.ID, file)
	case AssetCover:
		updated, err = s.client.UploadFestivalCoverImage(ctx, f.ID, file)
	default:
		return nil, fmt.Errorf("%s: unknown asset %q", op, kind)
	}
	if err != nil {
		log.Error("failed to upload asset", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("asset attached",
		slog.String("filename", file.Filename),
		slog.String("content_type", file.ContentType),
		slog.Int64("size", file.Size),
	)
	return updated, nil
}

// Detach deletes the kind slot of f.
func (s *FestivalService) Detach(ctx context.Context, f models.FestivalHoliday, kind AssetKind) error {
	const op = "festival_service.Detach"
	log := s.log.With(
		slog.String("op", op),
		slog.Int64("festival_id", f.ID),
		slog.String("asset", string(kind)),
	)

	if f.State() == models.AssetDraft {
		return fmt.Errorf("%s: %w", op, ErrDraftEntity)
	}

	var err error
	switch kind {
	case AssetImage:
		err = s.client.DeleteFestivalImage(ctx, f.ID)
	case AssetCover:
		err = s.client.DeleteFestivalCoverImage(ctx, f.ID)
	default:
		return fmt.Errorf("%s: unknown asset %q", op, kind)
	}
	if err != nil {
		log.Error("failed to delete asset", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("asset deleted")
	return nil
}

// CreateWithAssets creates the festival, then attaches the given files. Files are
// opened and checked before anything is sent. When an attach fails after the
// create succeeded, the persisted festival comes back inside a *PartialError.
func (s *FestivalService) CreateWithAssets(ctx context.Context, req dto.FestivalRequest, assets Assets) (*models.FestivalHoliday, error) {
	const op = "festival_service.CreateWithAssets"

	if err := s.Validate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	type pending struct {
		kind AssetKind
		file *storage.Upload
	}
	var uploads []pending

	for _, a := range []struct {
		kind AssetKind
		path string
	}{
		{AssetImage, assets.ImagePath},
		{AssetCover, assets.CoverPath},
	} {
		if a.path == "" {
			continue
		}
		file, err := s.files.Open(ctx, a.path)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, a.kind, err)
		}
		uploads = append(uploads, pending{kind: a.kind, file: file})
	}

	f, err := s.create(ctx, req)
	if err != nil {
		return nil, err
	}
	if assets.empty() {
		return f, nil
	}

	for _, u := range uploads {
		updated, err := s.attach(ctx, *f, u.kind, u.file)
		if err != nil {
			s.log.Warn("festival saved without all assets",
				slog.String("op", op),
				slog.Int64("festival_id", f.ID),
				slog.String("asset", string(u.kind)),
				sl.Err(err),
			)
			return f, &PartialError{Festival: f, Asset: u.kind, Err: err}
		}
		f = updated
	}

	return f, nil
}
