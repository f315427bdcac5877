package rest

import (
	"context"
	"net/http"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/transport/rest/dto"
)

func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*models.LoginResult, error) {
	var out models.LoginResult
	if err := c.do(ctx, call{method: http.MethodPost, route: routeLogin, body: req, public: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodPost, route: routeLogout}, nil)
}
