package rest

import (
	"context"
	"net/http"

	"tour_admin/internal/domain/models"
	storage "tour_admin/internal/storage/filestorage"
	"tour_admin/internal/transport/rest/dto"
)

func (c *Client) ListFestivals(ctx context.Context) ([]models.FestivalHoliday, error) {
	var out []models.FestivalHoliday
	if err := c.do(ctx, call{method: http.MethodGet, route: routeFestivals}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetFestival(ctx context.Context, id int64) (*models.FestivalHoliday, error) {
	var out models.FestivalHoliday
	if err := c.do(ctx, call{method: http.MethodGet, route: routeFestival, pathParams: idParam(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateFestival(ctx context.Context, req dto.FestivalRequest) (*models.FestivalHoliday, error) {
	var out models.FestivalHoliday
	if err := c.do(ctx, call{method: http.MethodPost, route: routeFestivals, body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateFestival(ctx context.Context, id int64, req dto.FestivalRequest) (*models.FestivalHoliday, error) {
	var out models.FestivalHoliday
	if err := c.do(ctx, call{method: http.MethodPut, route: routeFestival, pathParams: idParam(id), body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleFestivalStatus(ctx context.Context, id int64) (*models.FestivalHoliday, error) {
	var out models.FestivalHoliday
	if err := c.do(ctx, call{method: http.MethodPatch, route: routeFestivalToggle, pathParams: idParam(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFestival(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, route: routeFestival, pathParams: idParam(id)}, nil)
}

func (c *Client) PreviewFestivalTours(ctx context.Context, id int64) (*models.FestivalPreview, error) {
	var out models.FestivalPreview
	if err := c.do(ctx, call{method: http.MethodPost, route: routeFestivalPreview, pathParams: idParam(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UploadFestivalImage(ctx context.Context, id int64, file *storage.Upload) (*models.FestivalHoliday, error) {
	var out models.FestivalHoliday
	cl := call{
		method:     http.MethodPost,
		route:      routeFestivalImage,
		pathParams: idParam(id),
		upload:     &upload{field: fieldImage, file: file},
	}
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFestivalImage(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, route: routeFestivalImage, pathParams: idParam(id)}, nil)
}

func (c *Client) UploadFestivalCoverImage(ctx context.Context, id int64, file *storage.Upload) (*models.FestivalHoliday, error) {
	var out models.FestivalHoliday
	cl := call{
		method:     http.MethodPost,
		route:      routeFestivalCoverImage,
		pathParams: idParam(id),
		upload:     &upload{field: fieldCoverImage, file: file},
	}
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFestivalCoverImage(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, route: routeFestivalCoverImage, pathParams: idParam(id)}, nil)
}

func (c *Client) GetPageSettings(ctx context.Context) (*models.FestivalPageSettings, error) {
	var out models.FestivalPageSettings
	if err := c.do(ctx, call{method: http.MethodGet, route: routePageSettings}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePageSettings(ctx context.Context, req dto.FestivalPageSettingsRequest) (*models.FestivalPageSettings, error) {
	var out models.FestivalPageSettings
	if err := c.do(ctx, call{method: http.MethodPut, route: routePageSettings, body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UploadPageCoverImage(ctx context.Context, file *storage.Upload) (*models.FestivalPageSettings, error) {
	var out models.FestivalPageSettings
	cl := call{
		method: http.MethodPost,
		route:  routePageSettingsCover,
		upload: &upload{field: fieldCoverImage, file: file},
	}
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePageCoverImage(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodDelete, route: routePageSettingsCover}, nil)
}
