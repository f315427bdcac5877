package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/lib/validate"
	storagepkg "tour_admin/internal/storage"
	storage "tour_admin/internal/storage/filestorage"
	"tour_admin/internal/transport/rest/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFestivalClient struct {
	mock.Mock
}

func (m *MockFestivalClient) festival(args mock.Arguments) (*models.FestivalHoliday, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FestivalHoliday), args.Error(1)
}

func (m *MockFestivalClient) settings(args mock.Arguments) (*models.FestivalPageSettings, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FestivalPageSettings), args.Error(1)
}

func (m *MockFestivalClient) ListFestivals(ctx context.Context) ([]models.FestivalHoliday, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FestivalHoliday), args.Error(1)
}

func (m *MockFestivalClient) GetFestival(ctx context.Context, id int64) (*models.FestivalHoliday, error) {
	return m.festival(m.Called(ctx, id))
}

func (m *MockFestivalClient) CreateFestival(ctx context.Context, req dto.FestivalRequest) (*models.FestivalHoliday, error) {
	return m.festival(m.Called(ctx, req))
}

func (m *MockFestivalClient) UpdateFestival(ctx context.Context, id int64, req dto.FestivalRequest) (*models.FestivalHoliday, error) {
	return m.festival(m.Called(ctx, id, req))
}

func (m *MockFestivalClient) ToggleFestivalStatus(ctx context.Context, id int64) (*models.FestivalHoliday, error) {
	return m.festival(m.Called(ctx, id))
}

func (m *MockFestivalClient) DeleteFestival(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFestivalClient) PreviewFestivalTours(ctx context.Context, id int64) (*models.FestivalPreview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FestivalPreview), args.Error(1)
}

func (m *MockFestivalClient) UploadFestivalImage(ctx context.Context, id int64, file *storage.Upload) (*models.FestivalHoliday, error) {
	return m.festival(m.Called(ctx, id, file))
}

func (m *MockFestivalClient) DeleteFestivalImage(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFestivalClient) UploadFestivalCoverImage(ctx context.Context, id int64, file *storage.Upload) (*models.FestivalHoliday, error) {
	return m.festival(m.Called(ctx, id, file))
}

func (m *MockFestivalClient) DeleteFestivalCoverImage(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFestivalClient) GetPageSettings(ctx context.Context) (*models.FestivalPageSettings, error) {
	return m.settings(m.Called(ctx))
}

func (m *MockFestivalClient) UpdatePageSettings(ctx context.Context, req dto.FestivalPageSettingsRequest) (*models.FestivalPageSettings, error) {
	return m.settings(m.Called(ctx, req))
}

func (m *MockFestivalClient) UploadPageCoverImage(ctx context.Context, file *storage.Upload) (*models.FestivalPageSettings, error) {
	return m.settings(m.Called(ctx, file))
}

func (m *MockFestivalClient) DeletePageCoverImage(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Open(ctx context.Context, path string) (*storage.Upload, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Upload), args.Error(1)
}

func (m *MockFileStorage) MaxSize() int64 {
	return 5 << 20
}

var testCtx = context.Background()

func newTestService() (*FestivalService, *MockFestivalClient, *MockFileStorage) {
	client := new(MockFestivalClient)
	files := new(MockFileStorage)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFestivalService(log, client, files), client, files
}

func songkran() models.FestivalHoliday {
	return models.FestivalHoliday{
		Name:         "สงกรานต์",
		StartDate:    "2026-04-13",
		EndDate:      "2026-04-15",
		BadgeText:    "สงกรานต์",
		BadgeColor:   "blue",
		DisplayModes: models.NewDisplayModes(models.DisplayCard, models.DisplayPeriod),
		IsActive:     true,
	}
}

func tours(n int) []models.TourSummary {
	out := make([]models.TourSummary, n)
	for i := range out {
		out[i] = models.TourSummary{ID: int64(i + 1)}
	}
	return out
}

func TestFestivalService_SongkranPreview(t *testing.T) {
	service, client, _ := newTestService()

	req := NewFestivalRequest(songkran())
	saved := songkran()
	saved.ID = 42
	client.On("CreateFestival", testCtx, req).Return(&saved, nil)
	client.On("PreviewFestivalTours", testCtx, int64(42)).
		Return(&models.FestivalPreview{PreviewTours: tours(6), TotalCount: 25}, nil)

	f, err := service.Create(testCtx, req)
	require.NoError(t, err)
	assert.Equal(t, models.AssetPersisted, f.State())

	preview, err := service.Preview(testCtx, f.ID)
	require.NoError(t, err)

	assert.Equal(t, 25, preview.TotalCount)
	assert.Len(t, preview.PreviewTours, 6)
	assert.True(t, preview.Truncated())
	assert.Equal(t, 19, preview.Overflow())
	client.AssertExpectations(t)
}

func TestFestivalService_PreviewCountInvariant(t *testing.T) {
	tests := []struct {
		name          string
		returned      *models.FestivalPreview
		wantTotal     int
		wantTruncated bool
		wantEmpty     bool
	}{
		{
			name:      "count equals sample",
			returned:  &models.FestivalPreview{PreviewTours: tours(4), TotalCount: 4},
			wantTotal: 4,
		},
		{
			name:      "count below sample is raised",
			returned:  &models.FestivalPreview{PreviewTours: tours(3), TotalCount: 1},
			wantTotal: 3,
		},
		{
			name:          "truncated",
			returned:      &models.FestivalPreview{PreviewTours: tours(2), TotalCount: 9},
			wantTotal:     9,
			wantTruncated: true,
		},
		{
			name:      "no matches",
			returned:  &models.FestivalPreview{},
			wantTotal: 0,
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, client, _ := newTestService()
			client.On("PreviewFestivalTours", testCtx, int64(1)).Return(tt.returned, nil)

			preview, err := service.Preview(testCtx, 1)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTotal, preview.TotalCount)
			assert.GreaterOrEqual(t, preview.TotalCount, len(preview.PreviewTours))
			assert.Equal(t, tt.wantTruncated, preview.Truncated())
			assert.Equal(t, tt.wantEmpty, preview.Empty())
			assert.NotNil(t, preview.PreviewTours)
		})
	}
}

func TestFestivalService_PreviewDraft(t *testing.T) {
	service, client, _ := newTestService()

	_, err := service.Preview(testCtx, 0)

	assert.ErrorIs(t, err, ErrDraftEntity)
	client.AssertNotCalled(t, "PreviewFestivalTours", mock.Anything, mock.Anything)
}

func TestFestivalService_Validate(t *testing.T) {
	service, _, _ := newTestService()

	with := func(fn func(f *models.FestivalHoliday)) dto.FestivalRequest {
		f := songkran()
		fn(&f)
		return NewFestivalRequest(f)
	}

	tests := []struct {
		name       string
		req        dto.FestivalRequest
		wantFields []string
	}{
		{name: "valid", req: with(func(*models.FestivalHoliday) {})},
		{name: "single day", req: with(func(f *models.FestivalHoliday) { f.EndDate = f.StartDate })},
		{name: "no display modes", req: with(func(f *models.FestivalHoliday) { f.DisplayModes = nil })},
		{
			name:       "missing name and dates",
			req:        with(func(f *models.FestivalHoliday) { f.Name, f.StartDate, f.EndDate = " ", "", "" }),
			wantFields: []string{"name", "start_date", "end_date"},
		},
		{
			name:       "inverted range",
			req:        with(func(f *models.FestivalHoliday) { f.StartDate, f.EndDate = "2026-04-15", "2026-04-13" }),
			wantFields: []string{"end_date"},
		},
		{
			name:       "bad date format",
			req:        with(func(f *models.FestivalHoliday) { f.StartDate = "13/04/2026" }),
			wantFields: []string{"start_date"},
		},
		{
			name:       "unknown display mode",
			req:        with(func(f *models.FestivalHoliday) { f.DisplayModes = models.NewDisplayModes("banner") }),
			wantFields: []string{"display_modes"},
		},
		{
			name:       "bad cover position",
			req:        with(func(f *models.FestivalHoliday) { f.CoverImagePosition = "middle" }),
			wantFields: []string{"cover_image_position"},
		},
		{
			name:       "badge color outside palette",
			req:        with(func(f *models.FestivalHoliday) { f.BadgeColor = "gold" }),
			wantFields: []string{"badge_color"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Validate(tt.req)

			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var fieldErrs validate.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			got := make([]string, 0, len(fieldErrs))
			for f := range fieldErrs {
				got = append(got, f)
			}
			assert.ElementsMatch(t, tt.wantFields, got)
		})
	}
}

func TestNewFestivalRequest_DisplayModesAreASet(t *testing.T) {
	f := songkran()
	f.DisplayModes = models.NewDisplayModes(models.DisplayPeriod, models.DisplayCard, models.DisplayPeriod)
	f.Description = "   "

	raw, err := json.Marshal(NewFestivalRequest(f))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, []any{"card", "period"}, body["display_modes"])
	assert.NotContains(t, body, "description")
	assert.NotContains(t, body, "cover_image_position")

	f.DisplayModes = nil
	raw, err = json.Marshal(NewFestivalRequest(f))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, []any{}, body["display_modes"])
}

func TestFestivalService_AttachRequiresPersistedFestival(t *testing.T) {
	service, client, files := newTestService()

	_, err := service.Attach(testCtx, songkran(), AssetCover, "cover.png")
	assert.ErrorIs(t, err, ErrDraftEntity)

	err = service.Detach(testCtx, songkran(), AssetImage)
	assert.ErrorIs(t, err, ErrDraftEntity)

	files.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "UploadFestivalCoverImage", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "DeleteFestivalImage", mock.Anything, mock.Anything)
}

func TestFestivalService_Attach(t *testing.T) {
	service, client, files := newTestService()

	f := songkran()
	f.ID = 5
	upload := storage.NewUpload("card.webp", "image/webp", []byte("webp"))
	attached := f
	attached.ImageURL = "https://cdn.example.com/card.webp"

	files.On("Open", testCtx, "card.webp").Return(upload, nil)
	client.On("UploadFestivalImage", testCtx, int64(5), upload).Return(&attached, nil)

	got, err := service.Attach(testCtx, f, AssetImage, "card.webp")
	require.NoError(t, err)
	assert.Equal(t, models.AssetAttached, got.State())
	client.AssertExpectations(t)
}

func TestFestivalService_AttachRejectedFile(t *testing.T) {
	service, client, files := newTestService()

	f := songkran()
	f.ID = 5
	files.On("Open", testCtx, "notes.txt").Return(nil, storagepkg.ErrInvalidFileType)

	_, err := service.Attach(testCtx, f, AssetImage, "notes.txt")

	assert.ErrorIs(t, err, storagepkg.ErrInvalidFileType)
	client.AssertNotCalled(t, "UploadFestivalImage", mock.Anything, mock.Anything, mock.Anything)
}

func TestFestivalService_CreateWithAssetsPartialFailure(t *testing.T) {
	service, client, files := newTestService()

	req := NewFestivalRequest(songkran())
	saved := songkran()
	saved.ID = 9
	withImage := saved
	withImage.ImageURL = "https://cdn.example.com/card.png"

	image := storage.NewUpload("card.png", "image/png", []byte("a"))
	cover := storage.NewUpload("cover.png", "image/png", []byte("b"))
	uploadErr := errors.New("storage backend unavailable")

	files.On("Open", testCtx, "card.png").Return(image, nil)
	files.On("Open", testCtx, "cover.png").Return(cover, nil)
	client.On("CreateFestival", testCtx, req).Return(&saved, nil)
	client.On("UploadFestivalImage", testCtx, int64(9), image).Return(&withImage, nil)
	client.On("UploadFestivalCoverImage", testCtx, int64(9), cover).Return(nil, uploadErr)

	f, err := service.CreateWithAssets(testCtx, req, Assets{ImagePath: "card.png", CoverPath: "cover.png"})

	var partial *PartialError
	require.ErrorAs(t, err, &partial)
	assert.ErrorIs(t, err, uploadErr)
	assert.Equal(t, AssetCover, partial.Asset)
	assert.Equal(t, int64(9), partial.Festival.ID)
	assert.Equal(t, withImage.ImageURL, partial.Festival.ImageURL)
	require.NotNil(t, f)
	assert.Equal(t, int64(9), f.ID)
	client.AssertExpectations(t)
}

func TestFestivalService_CreateWithAssetsChecksFilesFirst(t *testing.T) {
	service, client, files := newTestService()

	files.On("Open", testCtx, "huge.png").Return(nil, storagepkg.ErrFileTooLarge)

	_, err := service.CreateWithAssets(testCtx, NewFestivalRequest(songkran()), Assets{CoverPath: "huge.png"})

	assert.ErrorIs(t, err, storagepkg.ErrFileTooLarge)
	var partial *PartialError
	assert.False(t, errors.As(err, &partial))
	client.AssertNotCalled(t, "CreateFestival", mock.Anything, mock.Anything)
}

func TestFestivalService_CreateWithAssetsInvalidRequest(t *testing.T) {
	service, client, files := newTestService()

	f := songkran()
	f.StartDate, f.EndDate = "2026-04-15", "2026-04-13"

	_, err := service.CreateWithAssets(testCtx, NewFestivalRequest(f), Assets{ImagePath: "card.png"})

	var fieldErrs validate.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "end_date")
	assert.Equal(t, 1, strings.Count(err.Error(), "festival_service."), "validated in one place")
	files.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "CreateFestival", mock.Anything, mock.Anything)
}

func TestFestivalService_CreateWithoutAssets(t *testing.T) {
	service, client, _ := newTestService()

	req := NewFestivalRequest(songkran())
	saved := songkran()
	saved.ID = 3
	client.On("CreateFestival", testCtx, req).Return(&saved, nil)

	f, err := service.CreateWithAssets(testCtx, req, Assets{})
	require.NoError(t, err)
	assert.Equal(t, models.AssetPersisted, f.State())
}

func TestFestivalService_PageSettings(t *testing.T) {
	service, client, _ := newTestService()

	req := NewPageSettingsRequest(models.FestivalPageSettings{
		Title:              "เทศกาลท่องเที่ยว",
		Subtitle:           " ",
		CoverImagePosition: "center top",
	})
	assert.Nil(t, req.Subtitle)

	client.On("UpdatePageSettings", testCtx, req).
		Return(&models.FestivalPageSettings{Title: "เทศกาลท่องเที่ยว", CoverImagePosition: "center top"}, nil)

	settings, err := service.UpdatePageSettings(testCtx, req)
	require.NoError(t, err)
	assert.Equal(t, models.ImagePosition("center top"), settings.CoverImagePosition)

	bad := NewPageSettingsRequest(models.FestivalPageSettings{CoverImagePosition: "middle"})
	_, err = service.UpdatePageSettings(testCtx, bad)
	var fieldErrs validate.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "cover_image_position")
}

func TestPeriod(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		wantDays int
		want     string
	}{
		{name: "songkran", start: "2026-04-13", end: "2026-04-15", wantDays: 3, want: "13 Apr 2026 - 15 Apr 2026 (3 วัน)"},
		{name: "single day", start: "2026-12-31", end: "2026-12-31", wantDays: 1, want: "31 Dec 2026 (1 วัน)"},
		{name: "unreadable", start: "soon", end: "later", wantDays: 0, want: "soon - later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := models.FestivalHoliday{StartDate: tt.start, EndDate: tt.end}
			assert.Equal(t, tt.wantDays, Days(f))
			assert.Equal(t, tt.want, Period(f))
		})
	}
}
