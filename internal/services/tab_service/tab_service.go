package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/lib/logger/sl"
	"tour_admin/internal/lib/validate"
	"tour_admin/internal/transport/rest/dto"
)

var ErrNotPersisted = errors.New("tab must be saved before it can be previewed")

type TabClient interface {
	ListTabs(ctx context.Context) ([]models.TourTab, error)
	GetTab(ctx context.Context, id int64) (*models.TourTab, error)
	CreateTab(ctx context.Context, req dto.TourTabRequest) (*models.TourTab, error)
	UpdateTab(ctx context.Context, id int64, req dto.TourTabRequest) (*models.TourTab, error)
	ToggleTabStatus(ctx context.Context, id int64) (*models.TourTab, error)
	DeleteTab(ctx context.Context, id int64) error
	PreviewTab(ctx context.Context, id int64) ([]models.TourSummary, error)
}

// OptionsProvider hands out the reference bundle of the session.
type OptionsProvider interface {
	Options(ctx context.Context) (*models.ConditionOptions, error)
}

type TabService struct {
	log       *slog.Logger
	client    TabClient
	options   OptionsProvider
	validator validate.Validator
}

func NewTabService(log *slog.Logger, client TabClient, options OptionsProvider) *TabService {
	return &TabService{
		log:       log,
		client:    client,
		options:   options,
		validator: mustValidator(),
	}
}

// List returns every tab in sibling order.
func (s *TabService) List(ctx context.Context) ([]models.TourTab, error) {
	const op = "tab_service.List"
	log := s.log.With(slog.String("op", op))

	tabs, err := s.client.ListTabs(ctx)
	if err != nil {
		log.Error("failed to list tabs", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.SliceStable(tabs, func(i, j int) bool {
		if tabs[i].SortOrder != tabs[j].SortOrder {
			return tabs[i].SortOrder < tabs[j].SortOrder
		}
		return tabs[i].ID < tabs[j].ID
	})

	return tabs, nil
}

func (s *TabService) Get(ctx context.Context, id int64) (*models.TourTab, error) {
	const op = "tab_service.Get"
	log := s.log.With(slog.String("op", op), slog.Int64("tab_id", id))

	tab, err := s.client.GetTab(ctx, id)
	if err != nil {
		log.Error("failed to get tab", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tab, nil
}

// Validate checks req before it is sent. The error is a validate.FieldErrors.
func (s *TabService) Validate(req dto.TourTabRequest) error {
	return s.validator.Validate(req)
}

func (s *TabService) Create(ctx context.Context, req dto.TourTabRequest) (*models.TourTab, error) {
	const op = "tab_service.Create"
	log := s.log.With(slog.String("op", op), slog.String("name", req.Name))

	if err := s.Validate(req); err != nil {
		log.Warn("invalid tab", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tab, err := s.client.CreateTab(ctx, req)
	if err != nil {
		log.Error("failed to create tab", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("tab created", slog.Int64("tab_id", tab.ID), slog.Int("conditions", len(req.Conditions)))
	return tab, nil
}

func (s *TabService) Update(ctx context.Context, id int64, req dto.TourTabRequest) (*models.TourTab, error) {
	const op = "tab_service.Update"
	log := s.log.With(slog.String("op", op), slog.Int64("tab_id", id))

	if id == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNotPersisted)
	}

	if err := s.Validate(req); err != nil {
		log.Warn("invalid tab", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tab, err := s.client.UpdateTab(ctx, id, req)
	if err != nil {
		log.Error("failed to update tab", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("tab updated", slog.Int("conditions", len(req.Conditions)))
	return tab, nil
}

// Save creates or updates the builder's tab and records the server id on it.
func (s *TabService) Save(ctx context.Context, b *RuleBuilder) (*models.TourTab, error) {
	req := b.Serialize()

	var (
		tab *models.TourTab
		err error
	)
	if b.ID() == 0 {
		tab, err = s.Create(ctx, req)
	} else {
		tab, err = s.Update(ctx, b.ID(), req)
	}
	if err != nil {
		return nil, err
	}

	b.Persisted(*tab)
	return tab, nil
}

func (s *TabService) ToggleStatus(ctx context.Context, id int64) (*models.TourTab, error) {
	const op = "tab_service.ToggleStatus"
	log := s.log.With(slog.String("op", op), slog.Int64("tab_id", id))

	tab, err := s.client.ToggleTabStatus(ctx, id)
	if err != nil {
		log.Error("failed to toggle tab", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("tab status changed", slog.Bool("is_active", tab.IsActive))
	return tab, nil
}

func (s *TabService) Delete(ctx context.Context, id int64) error {
	const op = "tab_service.Delete"
	log := s.log.With(slog.String("op", op), slog.Int64("tab_id", id))

	if err := s.client.DeleteTab(ctx, id); err != nil {
		log.Error("failed to delete tab", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("tab deleted")
	return nil
}

// Preview asks the server to evaluate the saved conditions of tab. Results past
// the tab's display limit are dropped. An empty preview is not an error.
func (s *TabService) Preview(ctx context.Context, tab models.TourTab) (models.TabPreview, error) {
	const op = "tab_service.Preview"
	log := s.log.With(slog.String("op", op), slog.Int64("tab_id", tab.ID))

	if !tab.Persisted() {
		return models.TabPreview{}, fmt.Errorf("%s: %w", op, ErrNotPersisted)
	}

	tours, err := s.client.PreviewTab(ctx, tab.ID)
	if err != nil {
		log.Error("failed to preview tab", sl.Err(err))
		return models.TabPreview{}, fmt.Errorf("%s: %w", op, err)
	}

	if tab.DisplayLimit > 0 && len(tours) > tab.DisplayLimit {
		log.Debug("preview cut to display limit",
			slog.Int("returned", len(tours)),
			slog.Int("display_limit", tab.DisplayLimit),
		)
		tours = tours[:tab.DisplayLimit]
	}
	if tours == nil {
		tours = []models.TourSummary{}
	}

	return models.TabPreview{TabID: tab.ID, Tours: tours}, nil
}

// ConditionOptions returns the reference bundle, fetched once per session.
func (s *TabService) ConditionOptions(ctx context.Context) (*models.ConditionOptions, error) {
	const op = "tab_service.ConditionOptions"

	opts, err := s.options.Options(ctx)
	if err != nil {
		s.log.Error("failed to load condition options", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return opts, nil
}
