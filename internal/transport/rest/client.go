package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tour_admin/internal/lib/logger/sl"
	"tour_admin/internal/metrics"
	storage "tour_admin/internal/storage/filestorage"
	"tour_admin/internal/transport/rest/dto"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// TokenSource yields the bearer token for each request. It is read on every
// call, the stored session may change between two requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a plain function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client is the typed client of the admin REST backend.
type Client struct {
	log    *slog.Logger
	http   *resty.Client
	tokens TokenSource
}

func New(log *slog.Logger, cfg Config, tokens TokenSource) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json")

	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		log:    log,
		http:   client,
		tokens: tokens,
	}
}

// call describes one backend request. route is the path template and doubles
// as the metrics label.
type call struct {
	method     string
	route      string
	pathParams map[string]string
	query      map[string]string
	body       any
	upload     *upload
	public     bool
}

type upload struct {
	field string
	file  *storage.Upload
}

func idParam(id int64) map[string]string {
	return map[string]string{"id": strconv.FormatInt(id, 10)}
}

// do performs c and decodes the "data" member of the envelope into out (when non-nil).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	const op = "rest.Client.do"

	requestID := uuid.NewString()

	log := c.log.With(
		slog.String("op", op),
		slog.String("method", cl.method),
		slog.String("route", cl.route),
		slog.String("request_id", requestID),
	)

	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID)

	if !cl.public {
		if c.tokens == nil {
			return ErrUnauthorized
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		req.SetAuthToken(token)
	}

	if cl.pathParams != nil {
		req.SetPathParams(cl.pathParams)
	}
	if cl.query != nil {
		req.SetQueryParams(cl.query)
	}
	if cl.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(cl.body)
	}
	if cl.upload != nil {
		req.SetMultipartField(cl.upload.field, cl.upload.file.Filename, cl.upload.file.ContentType, cl.upload.file.Reader())
	}

	start := time.Now()
	resp, err := req.Execute(cl.method, cl.route)
	metrics.APIRequestDuration.WithLabelValues(cl.method, cl.route).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(cl.method, cl.route, "error").Inc()
		log.Error("request failed", sl.Err(err))
		return fmt.Errorf("%s %s: %w", cl.method, cl.route, err)
	}

	status := resp.StatusCode()
	metrics.APIRequestsTotal.WithLabelValues(cl.method, cl.route, strconv.Itoa(status)).Inc()

	log.Debug("response", slog.Int("status", status), slog.Duration("duration", resp.Time()))

	if status >= http.StatusBadRequest {
		return decodeError(status, resp.Body())
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}

	if err := decodeData(resp.Body(), out); err != nil {
		log.Error("failed to decode response", sl.Err(err))
		return fmt.Errorf("%s %s: decode response: %w", cl.method, cl.route, err)
	}

	return nil
}

func decodeError(status int, body []byte) error {
	var errResp dto.ErrorResponse
	_ = json.Unmarshal(body, &errResp)

	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusUnprocessableEntity || len(errResp.Errors) > 0:
		return &ValidationError{
			Message: errResp.Text(),
			Fields:  errResp.Errors,
		}
	default:
		msg := errResp.Text()
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &APIError{Status: status, Message: msg}
	}
}

// decodeData reads {"data": ...} envelopes and falls back to the bare body.
func decodeData(body []byte, out any) error {
	var env dto.Response
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}

	return json.Unmarshal(body, out)
}

// IsUnauthorized reports whether err asks for a new login.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
