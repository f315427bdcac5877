// Package resttest is an in-memory stand-in for the admin backend, used by tests.
package resttest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/transport/rest/dto"

	"github.com/labstack/echo/v4"
)

const (
	DefaultToken    = "test-token"
	DefaultEmail    = "admin@example.com"
	DefaultPassword = "secret123"
)

// Request is one recorded call.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
	Body          []byte
	FileField     string
	FileName      string
}

// Failure forces a response for a "METHOD /path" key.
type Failure struct {
	Status  int
	Message string
	Errors  map[string][]string
}

type Backend struct {
	mu sync.Mutex

	Token    string
	Email    string
	Password string

	Options          models.ConditionOptions
	Tabs             map[int64]models.TourTab
	Festivals        map[int64]models.FestivalHoliday
	TabPreviews      map[int64][]models.TourSummary
	FestivalPreviews map[int64]models.FestivalPreview
	PageSettings     models.FestivalPageSettings

	failures map[string]Failure
	requests []Request
	nextID   int64

	e *echo.Echo
}

func New() *Backend {
	b := &Backend{
		Token:            DefaultToken,
		Email:            DefaultEmail,
		Password:         DefaultPassword,
		Options:          SampleOptions(),
		Tabs:             make(map[int64]models.TourTab),
		Festivals:        make(map[int64]models.FestivalHoliday),
		TabPreviews:      make(map[int64][]models.TourSummary),
		FestivalPreviews: make(map[int64]models.FestivalPreview),
		failures:         make(map[string]Failure),
		nextID:           100,
	}
	b.e = b.routes()
	return b
}

// Start serves the backend until the test ends and returns its base URL.
func (b *Backend) Start(t testing.TB) string {
	t.Helper()

	srv := httptest.NewServer(b.e)
	t.Cleanup(srv.Close)

	return srv.URL
}

func (b *Backend) Handler() http.Handler {
	return b.e
}

// Fail makes every call matching "METHOD /path" answer with f.
func (b *Backend) Fail(key string, f Failure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[key] = f
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// LastRequest returns the most recent call to path, if any.
func (b *Backend) LastRequest(method, path string) (Request, bool) {
	reqs := b.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return Request{}, false
}

// SeedTab stores tab under a fresh id and returns it.
func (b *Backend) SeedTab(tab models.TourTab) models.TourTab {
	b.mu.Lock()
	defer b.mu.Unlock()

	tab.ID = b.newID()
	b.Tabs[tab.ID] = tab
	return tab
}

func (b *Backend) SeedFestival(f models.FestivalHoliday) models.FestivalHoliday {
	b.mu.Lock()
	defer b.mu.Unlock()

	f.ID = b.newID()
	b.Festivals[f.ID] = f
	return f
}

// SetTabPreview sets the tours returned by the preview of tab id.
func (b *Backend) SetTabPreview(id int64, tours []models.TourSummary) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.TabPreviews[id] = tours
}

func (b *Backend) SetFestivalPreview(id int64, p models.FestivalPreview) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.FestivalPreviews[id] = p
}

func (b *Backend) Tab(id int64) (models.TourTab, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	tab, found := b.Tabs[id]
	return tab, found
}

func (b *Backend) Festival(id int64) (models.FestivalHoliday, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, found := b.Festivals[id]
	return f, found
}

func (b *Backend) newID() int64 {
	b.nextID++
	return b.nextID
}

func (b *Backend) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(b.record, b.inject, b.auth)

	e.POST("/auth/login", b.login)
	e.POST("/auth/logout", func(c echo.Context) error { return ok(c, nil) })

	e.GET("/tour-tabs/condition-options", func(c echo.Context) error { return ok(c, b.Options) })
	e.GET("/tour-tabs", b.listTabs)
	e.POST("/tour-tabs", b.saveTab)
	e.GET("/tour-tabs/:id", b.getTab)
	e.PUT("/tour-tabs/:id", b.saveTab)
	e.DELETE("/tour-tabs/:id", b.deleteTab)
	e.PATCH("/tour-tabs/:id/toggle-status", b.toggleTab)
	e.GET("/tour-tabs/:id/preview", b.previewTab)

	e.GET("/festival-holidays", b.listFestivals)
	e.POST("/festival-holidays", b.saveFestival)
	e.GET("/festival-holidays/:id", b.getFestival)
	e.PUT("/festival-holidays/:id", b.saveFestival)
	e.DELETE("/festival-holidays/:id", b.deleteFestival)
	e.PATCH("/festival-holidays/:id/toggle-status", b.toggleFestival)
	e.POST("/festival-holidays/:id/preview-tours", b.previewFestival)
	e.POST("/festival-holidays/:id/image", b.uploadFestivalImage(false))
	e.DELETE("/festival-holidays/:id/image", b.deleteFestivalImage(false))
	e.POST("/festival-holidays/:id/cover-image", b.uploadFestivalImage(true))
	e.DELETE("/festival-holidays/:id/cover-image", b.deleteFestivalImage(true))

	e.GET("/festival-page-settings", func(c echo.Context) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		return ok(c, b.PageSettings)
	})
	e.PUT("/festival-page-settings", b.updatePageSettings)
	e.POST("/festival-page-settings/cover-image", b.uploadPageCover)
	e.DELETE("/festival-page-settings/cover-image", func(c echo.Context) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.PageSettings.CoverImageURL = ""
		return ok(c, b.PageSettings)
	})

	return e
}

func (b *Backend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		rec := Request{
			Method:        req.Method,
			Path:          req.URL.Path,
			Authorization: req.Header.Get("Authorization"),
			RequestID:     req.Header.Get("X-Request-ID"),
			ContentType:   req.Header.Get("Content-Type"),
			Body:          body,
		}

		if strings.HasPrefix(rec.ContentType, "multipart/form-data") {
			if form, err := c.MultipartForm(); err == nil {
				for field, files := range form.File {
					if len(files) > 0 {
						rec.FileField = field
						rec.FileName = files[0].Filename
					}
				}
			}
		}

		b.mu.Lock()
		b.requests = append(b.requests, rec)
		b.mu.Unlock()

		return next(c)
	}
}

func (b *Backend) inject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Method + " " + c.Request().URL.Path

		b.mu.Lock()
		f, found := b.failures[key]
		b.mu.Unlock()

		if !found {
			return next(c)
		}

		return c.JSON(f.Status, map[string]any{
			"success": false,
			"message": f.Message,
			"errors":  f.Errors,
		})
	}
}

func (b *Backend) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().URL.Path == "/auth/login" {
			return next(c)
		}

		if c.Request().Header.Get("Authorization") != "Bearer "+b.Token {
			return c.JSON(http.StatusUnauthorized, map[string]any{
				"success": false,
				"message": "Unauthenticated.",
			})
		}

		return next(c)
	}
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": data})
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]any{"success": false, "message": "Not found"})
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (b *Backend) login(c echo.Context) error {
	var req dto.LoginRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
	}

	if req.Email != b.Email || req.Password != b.Password {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"message": "The given data was invalid.",
			"errors":  map[string][]string{"email": {"These credentials do not match our records."}},
		})
	}

	return ok(c, models.LoginResult{
		Token: b.Token,
		User:  models.AdminUser{ID: 1, Name: "Admin", Email: b.Email, Role: "admin"},
	})
}

func (b *Backend) listTabs(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tabs := make([]models.TourTab, 0, len(b.Tabs))
	for _, t := range b.Tabs {
		tabs = append(tabs, t)
	}
	return ok(c, tabs)
}

func (b *Backend) getTab(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tab, found := b.Tabs[id]
	if !found {
		return notFound(c)
	}
	return ok(c, tab)
}

func (b *Backend) saveTab(c echo.Context) error {
	var req dto.TourTabRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var id int64
	if c.Request().Method == http.MethodPut {
		parsed, err := pathID(c)
		if err != nil {
			return notFound(c)
		}
		if _, found := b.Tabs[parsed]; !found {
			return notFound(c)
		}
		id = parsed
	} else {
		id = b.newID()
	}

	tab := models.TourTab{
		ID:           id,
		Name:         req.Name,
		Slug:         deref(req.Slug),
		Description:  deref(req.Description),
		Icon:         deref(req.Icon),
		BadgeText:    deref(req.BadgeText),
		BadgeColor:   deref(req.BadgeColor),
		Conditions:   req.Conditions,
		DisplayLimit: req.DisplayLimit,
		SortBy:       req.SortBy,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
	}
	if tab.Slug == "" {
		tab.Slug = fmt.Sprintf("tab-%d", id)
	}

	b.Tabs[id] = tab

	status := http.StatusOK
	if c.Request().Method == http.MethodPost {
		status = http.StatusCreated
	}
	return c.JSON(status, map[string]any{"success": true, "data": tab})
}

func (b *Backend) deleteTab(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.Tabs[id]; !found {
		return notFound(c)
	}
	delete(b.Tabs, id)
	return ok(c, nil)
}

func (b *Backend) toggleTab(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tab, found := b.Tabs[id]
	if !found {
		return notFound(c)
	}
	tab.IsActive = !tab.IsActive
	b.Tabs[id] = tab
	return ok(c, tab)
}

func (b *Backend) previewTab(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.Tabs[id]; !found {
		return notFound(c)
	}

	tours := b.TabPreviews[id]
	if tours == nil {
		tours = []models.TourSummary{}
	}
	return ok(c, map[string]any{"tours": tours})
}

func (b *Backend) listFestivals(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.FestivalHoliday, 0, len(b.Festivals))
	for _, f := range b.Festivals {
		out = append(out, f)
	}
	return ok(c, out)
}

func (b *Backend) getFestival(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	f, found := b.Festivals[id]
	if !found {
		return notFound(c)
	}
	return ok(c, f)
}

func (b *Backend) saveFestival(c echo.Context) error {
	var req dto.FestivalRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var existing models.FestivalHoliday
	if c.Request().Method == http.MethodPut {
		id, err := pathID(c)
		if err != nil {
			return notFound(c)
		}
		found := false
		existing, found = b.Festivals[id]
		if !found {
			return notFound(c)
		}
	} else {
		existing.ID = b.newID()
	}

	f := models.FestivalHoliday{
		ID:            existing.ID,
		Name:          req.Name,
		Description:   deref(req.Description),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		BadgeText:     deref(req.BadgeText),
		BadgeColor:    deref(req.BadgeColor),
		BadgeIcon:     deref(req.BadgeIcon),
		DisplayModes:  req.DisplayModes,
		ImageURL:      existing.ImageURL,
		CoverImageURL: existing.CoverImageURL,
		IsActive:      req.IsActive,
		SortOrder:     req.SortOrder,
	}
	f.CoverImagePosition = existing.CoverImagePosition
	if req.CoverImagePosition != nil {
		f.CoverImagePosition = models.ImagePosition(*req.CoverImagePosition)
	}

	b.Festivals[f.ID] = f

	status := http.StatusOK
	if c.Request().Method == http.MethodPost {
		status = http.StatusCreated
	}
	return c.JSON(status, map[string]any{"success": true, "data": f})
}

func (b *Backend) deleteFestival(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.Festivals[id]; !found {
		return notFound(c)
	}
	delete(b.Festivals, id)
	return ok(c, nil)
}

func (b *Backend) toggleFestival(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	f, found := b.Festivals[id]
	if !found {
		return notFound(c)
	}
	f.IsActive = !f.IsActive
	b.Festivals[id] = f
	return ok(c, f)
}

func (b *Backend) previewFestival(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return notFound(c)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.Festivals[id]; !found {
		return notFound(c)
	}

	p, found := b.FestivalPreviews[id]
	if !found {
		p = models.FestivalPreview{PreviewTours: []models.TourSummary{}}
	}
	return ok(c, p)
}

func (b *Backend) uploadFestivalImage(cover bool) echo.HandlerFunc {
	field := "image"
	if cover {
		field = "cover_image"
	}

	return func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return notFound(c)
		}

		file, err := c.FormFile(field)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{
				"success": false,
				"errors":  map[string][]string{field: {"The " + field + " field is required."}},
			})
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		f, found := b.Festivals[id]
		if !found {
			return notFound(c)
		}

		url := fmt.Sprintf("https://cdn.example.com/festivals/%d/%s", id, file.Filename)
		if cover {
			f.CoverImageURL = url
		} else {
			f.ImageURL = url
		}
		b.Festivals[id] = f
		return ok(c, f)
	}
}

func (b *Backend) deleteFestivalImage(cover bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return notFound(c)
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		f, found := b.Festivals[id]
		if !found {
			return notFound(c)
		}
		if cover {
			f.CoverImageURL = ""
		} else {
			f.ImageURL = ""
		}
		b.Festivals[id] = f
		return ok(c, f)
	}
}

func (b *Backend) updatePageSettings(c echo.Context) error {
	var req dto.FestivalPageSettingsRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.PageSettings.Title = deref(req.Title)
	b.PageSettings.Subtitle = deref(req.Subtitle)
	if req.CoverImagePosition != nil {
		b.PageSettings.CoverImagePosition = models.ImagePosition(*req.CoverImagePosition)
	}
	return ok(c, b.PageSettings)
}

func (b *Backend) uploadPageCover(c echo.Context) error {
	file, err := c.FormFile("cover_image")
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"errors":  map[string][]string{"cover_image": {"The cover image field is required."}},
		})
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.PageSettings.CoverImageURL = "https://cdn.example.com/festival-page/" + file.Filename
	return ok(c, b.PageSettings)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SampleOptions is a small reference bundle with Japan and Thailand.
func SampleOptions() models.ConditionOptions {
	return models.ConditionOptions{
		Countries: []models.Country{
			{ID: 392, NameTH: "ญี่ปุ่น", NameEN: "Japan"},
			{ID: 764, NameTH: "ไทย", NameEN: "Thailand"},
			{ID: 410, NameTH: "เกาหลีใต้", NameEN: "South Korea"},
		},
		Regions: map[string]string{
			"asia":   "เอเชีย",
			"europe": "ยุโรป",
		},
		Wholesalers: []models.Wholesaler{
			{ID: 1, Name: "Zego Travel", Code: "ZEGO"},
			{ID: 2, Name: "Go Holiday", Code: "GOH"},
		},
		TourTypes: map[string]string{
			"join":    "จอยทัวร์",
			"private": "ไพรเวททัวร์",
		},
	}
}
