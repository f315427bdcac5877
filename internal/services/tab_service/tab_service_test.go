package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/lib/validate"
	"tour_admin/internal/transport/rest/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTabClient struct {
	mock.Mock
}

func (m *MockTabClient) ListTabs(ctx context.Context) ([]models.TourTab, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TourTab), args.Error(1)
}

func (m *MockTabClient) GetTab(ctx context.Context, id int64) (*models.TourTab, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TourTab), args.Error(1)
}

func (m *MockTabClient) CreateTab(ctx context.Context, req dto.TourTabRequest) (*models.TourTab, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TourTab), args.Error(1)
}

func (m *MockTabClient) UpdateTab(ctx context.Context, id int64, req dto.TourTabRequest) (*models.TourTab, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TourTab), args.Error(1)
}

func (m *MockTabClient) ToggleTabStatus(ctx context.Context, id int64) (*models.TourTab, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TourTab), args.Error(1)
}

func (m *MockTabClient) DeleteTab(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTabClient) PreviewTab(ctx context.Context, id int64) ([]models.TourSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TourSummary), args.Error(1)
}

type MockOptionsProvider struct {
	mock.Mock
}

func (m *MockOptionsProvider) Options(ctx context.Context) (*models.ConditionOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConditionOptions), args.Error(1)
}

var testCtx = context.Background()

func newTestService() (*TabService, *MockTabClient, *MockOptionsProvider) {
	client := new(MockTabClient)
	options := new(MockOptionsProvider)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTabService(log, client, options), client, options
}

func tours(n int) []models.TourSummary {
	out := make([]models.TourSummary, n)
	for i := range out {
		out[i] = models.TourSummary{ID: int64(i + 1), Title: "tour"}
	}
	return out
}

func TestTabService_CreatePopularTabWithoutConditions(t *testing.T) {
	service, client, _ := newTestService()

	b := NewRuleBuilder(models.TourTab{Name: "ทัวร์ยอดนิยม", DisplayLimit: 12, SortBy: models.SortPopular, IsActive: true})
	req := b.Serialize()

	saved := &models.TourTab{ID: 7, Name: "ทัวร์ยอดนิยม", Slug: "popular", DisplayLimit: 12, SortBy: models.SortPopular, IsActive: true}
	client.On("CreateTab", testCtx, req).Return(saved, nil)
	client.On("PreviewTab", testCtx, int64(7)).Return(tours(12), nil)

	tab, err := service.Save(testCtx, b)
	require.NoError(t, err)
	assert.Equal(t, int64(7), tab.ID)
	assert.Equal(t, int64(7), b.ID())
	assert.Equal(t, "popular", b.Tab().Slug)

	preview, err := service.Preview(testCtx, *tab)
	require.NoError(t, err)
	assert.Len(t, preview.Tours, 12)
	assert.False(t, preview.Empty())

	client.AssertExpectations(t)
}

func TestTabService_SaveUpdatesPersistedTab(t *testing.T) {
	service, client, _ := newTestService()

	b := NewRuleBuilder(models.TourTab{ID: 3, Name: "Japan", DisplayLimit: 8, SortBy: models.SortPriceAsc})
	i := b.Add()
	require.NoError(t, b.UpdateValue(i, models.NumberOf(20000)))
	req := b.Serialize()

	client.On("UpdateTab", testCtx, int64(3), req).Return(&models.TourTab{ID: 3, Name: "Japan"}, nil)

	_, err := service.Save(testCtx, b)
	require.NoError(t, err)

	client.AssertExpectations(t)
	client.AssertNotCalled(t, "CreateTab", mock.Anything, mock.Anything)
}

func TestTabService_Validate(t *testing.T) {
	service, _, _ := newTestService()

	valid := func() dto.TourTabRequest {
		return dto.TourTabRequest{Name: "Japan", DisplayLimit: 12, SortBy: models.SortPopular}
	}
	withConditions := func(cs ...models.Condition) dto.TourTabRequest {
		req := valid()
		req.Conditions = cs
		return req
	}
	c := func(ct models.ConditionType, v models.ConditionValue) models.Condition {
		return cond(t, ct, v)
	}

	tests := []struct {
		name       string
		req        dto.TourTabRequest
		wantFields []string
	}{
		{
			name: "valid without conditions",
			req:  valid(),
		},
		{
			name: "valid with conditions",
			req: withConditions(
				c(models.ConditionPriceMin, models.NumberOf(10000)),
				c(models.ConditionPriceMax, models.NumberOf(50000)),
				c(models.ConditionCountries, models.IDList{392}),
				c(models.ConditionDiscountMinPercent, models.NumberOf(100)),
			),
		},
		{
			name:       "missing name",
			req:        dto.TourTabRequest{DisplayLimit: 12, SortBy: models.SortPopular},
			wantFields: []string{"name"},
		},
		{
			name:       "display limit bounds",
			req:        dto.TourTabRequest{Name: "x", DisplayLimit: 51, SortBy: models.SortPopular},
			wantFields: []string{"display_limit"},
		},
		{
			name:       "bad sort and badge",
			req:        dto.TourTabRequest{Name: "x", DisplayLimit: 1, SortBy: "random", BadgeColor: dto.Optional("gold")},
			wantFields: []string{"badge_color", "sort_by"},
		},
		{
			name:       "empty value",
			req:        withConditions(c(models.ConditionCountries, nil)),
			wantFields: []string{"conditions[0].value"},
		},
		{
			name:       "negative number",
			req:        withConditions(c(models.ConditionMinViews, models.NumberOf(1)), c(models.ConditionPriceMin, models.NumberOf(-1))),
			wantFields: []string{"conditions[1].value"},
		},
		{
			name:       "percent over 100",
			req:        withConditions(c(models.ConditionDiscountMinPercent, models.NumberOf(120))),
			wantFields: []string{"conditions[0].value"},
		},
		{
			name: "price range inverted",
			req: withConditions(
				c(models.ConditionPriceMax, models.NumberOf(10000)),
				c(models.ConditionPriceMin, models.NumberOf(20000)),
			),
			wantFields: []string{"conditions[1].value"},
		},
		{
			name: "days range inverted",
			req: withConditions(
				c(models.ConditionMinDays, models.NumberOf(8)),
				c(models.ConditionMaxDays, models.NumberOf(5)),
			),
			wantFields: []string{"conditions[0].value"},
		},
		{
			name:       "wrong shape",
			req:        withConditions(models.Condition{Type: models.ConditionIsPremium, Value: models.IDList{1}}),
			wantFields: []string{"conditions[0].value"},
		},
		{
			name:       "not a number",
			req:        withConditions(c(models.ConditionPriceMin, models.NumberOf(math.NaN()))),
			wantFields: []string{"conditions[0].value"},
		},
		{
			name: "infinite price",
			req: withConditions(
				c(models.ConditionPriceMin, models.NumberOf(1000)),
				c(models.ConditionPriceMax, models.NumberOf(math.Inf(1))),
			),
			wantFields: []string{"conditions[1].value"},
		},
		{
			name:       "unknown type",
			req:        withConditions(models.Condition{Type: "flight_class", Value: models.NumberOf(1)}),
			wantFields: []string{"conditions[0].type"},
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
			for field := range fieldErrs {
				got = append(got, field)
			}
			assert.ElementsMatch(t, tt.wantFields, got)
		})
	}
}

func TestTabService_CreateRejectsInvalidWithoutRequest(t *testing.T) {
	service, client, _ := newTestService()

	_, err := service.Create(testCtx, dto.TourTabRequest{Name: "", DisplayLimit: 12, SortBy: models.SortPopular})

	var fieldErrs validate.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	client.AssertNotCalled(t, "CreateTab", mock.Anything, mock.Anything)
}

func TestTabService_Preview(t *testing.T) {
	tests := []struct {
		name      string
		tab       models.TourTab
		returned  []models.TourSummary
		clientErr error
		wantLen   int
		wantEmpty bool
		wantErr   error
	}{
		{
			name:    "draft tab",
			tab:     models.TourTab{Name: "draft", DisplayLimit: 12},
			wantErr: ErrNotPersisted,
		},
		{
			name:     "cut to display limit",
			tab:      models.TourTab{ID: 1, DisplayLimit: 5},
			returned: tours(9),
			wantLen:  5,
		},
		{
			name:     "fewer than limit",
			tab:      models.TourTab{ID: 1, DisplayLimit: 12},
			returned: tours(3),
			wantLen:  3,
		},
		{
			name:      "no matches",
			tab:       models.TourTab{ID: 1, DisplayLimit: 12},
			returned:  nil,
			wantEmpty: true,
		},
		{
			name:      "server failure",
			tab:       models.TourTab{ID: 1, DisplayLimit: 12},
			clientErr: errors.New("boom"),
			wantErr:   errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, client, _ := newTestService()
			if tt.tab.ID != 0 {
				if tt.clientErr != nil {
					client.On("PreviewTab", testCtx, tt.tab.ID).Return(nil, tt.clientErr)
				} else {
					client.On("PreviewTab", testCtx, tt.tab.ID).Return(tt.returned, nil)
				}
			}

			preview, err := service.Preview(testCtx, tt.tab)

			switch {
			case errors.Is(tt.wantErr, ErrNotPersisted):
				assert.ErrorIs(t, err, ErrNotPersisted)
				client.AssertNotCalled(t, "PreviewTab", mock.Anything, mock.Anything)
				return
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.clientErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, preview.Tours, tt.wantLen)
			assert.Equal(t, tt.wantEmpty, preview.Empty())
			assert.NotNil(t, preview.Tours)
			client.AssertExpectations(t)
		})
	}
}

func TestTabService_ListSortsBySortOrder(t *testing.T) {
	service, client, _ := newTestService()

	client.On("ListTabs", testCtx).Return([]models.TourTab{
		{ID: 3, SortOrder: 2},
		{ID: 1, SortOrder: 5},
		{ID: 2, SortOrder: 2},
	}, nil)

	tabs, err := service.List(testCtx)
	require.NoError(t, err)

	ids := make([]int64, len(tabs))
	for i, tab := range tabs {
		ids[i] = tab.ID
	}
	assert.Equal(t, []int64{2, 3, 1}, ids)
}

func TestTabService_ToggleAndDelete(t *testing.T) {
	service, client, _ := newTestService()

	client.On("ToggleTabStatus", testCtx, int64(4)).Return(&models.TourTab{ID: 4, IsActive: false}, nil)
	client.On("DeleteTab", testCtx, int64(4)).Return(nil)

	tab, err := service.ToggleStatus(testCtx, 4)
	require.NoError(t, err)
	assert.False(t, tab.IsActive)

	require.NoError(t, service.Delete(testCtx, 4))
	client.AssertExpectations(t)
}

func TestTabService_ConditionOptions(t *testing.T) {
	service, _, options := newTestService()

	want := &models.ConditionOptions{TourTypes: map[string]string{"join": "จอยทัวร์"}}
	options.On("Options", testCtx).Return(want, nil).Once()

	got, err := service.ConditionOptions(testCtx)
	require.NoError(t, err)
	assert.Same(t, want, got)
	options.AssertExpectations(t)
}
