package rest

import (
	"context"
	"net/http"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/transport/rest/dto"
)

func (c *Client) ListTabs(ctx context.Context) ([]models.TourTab, error) {
	var out []models.TourTab
	if err := c.do(ctx, call{method: http.MethodGet, route: routeTabs}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTab(ctx context.Context, id int64) (*models.TourTab, error) {
	var out models.TourTab
	if err := c.do(ctx, call{method: http.MethodGet, route: routeTab, pathParams: idParam(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTab(ctx context.Context, req dto.TourTabRequest) (*models.TourTab, error) {
	var out models.TourTab
	if err := c.do(ctx, call{method: http.MethodPost, route: routeTabs, body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTab(ctx context.Context, id int64, req dto.TourTabRequest) (*models.TourTab, error) {
	var out models.TourTab
	if err := c.do(ctx, call{method: http.MethodPut, route: routeTab, pathParams: idParam(id), body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleTabStatus(ctx context.Context, id int64) (*models.TourTab, error) {
	var out models.TourTab
	if err := c.do(ctx, call{method: http.MethodPatch, route: routeTabToggle, pathParams: idParam(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTab(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, route: routeTab, pathParams: idParam(id)}, nil)
}

func (c *Client) PreviewTab(ctx context.Context, id int64) ([]models.TourSummary, error) {
	var out dto.TabPreviewResponse
	if err := c.do(ctx, call{method: http.MethodGet, route: routeTabPreview, pathParams: idParam(id)}, &out); err != nil {
		return nil, err
	}
	return out.Tours, nil
}

func (c *Client) ConditionOptions(ctx context.Context) (*models.ConditionOptions, error) {
	var out models.ConditionOptions
	if err := c.do(ctx, call{method: http.MethodGet, route: routeConditionOptions}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
