package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/lib/logger/sl"
	"tour_admin/internal/metrics"

	"github.com/patrickmn/go-cache"
)

const optionsKey = "condition_options"

// OptionsRepo fetches the reference bundle once and hands out the same value for
// the rest of the session. Nothing invalidates it.
type OptionsRepo struct {
	log    *slog.Logger
	source OptionsSource
	cache  *cache.Cache
	mu     sync.Mutex
}

func NewOptionsRepo(log *slog.Logger, source OptionsSource) *OptionsRepo {
	return &OptionsRepo{
		log:    log,
		source: source,
		cache:  cache.New(cache.NoExpiration, 0),
	}
}

func (r *OptionsRepo) Options(ctx context.Context) (*models.ConditionOptions, error) {
	const op = "repository.OptionsRepo.Options"

	if opts, ok := r.cached(); ok {
		metrics.OptionsCacheHits.WithLabelValues("hit").Inc()
		return opts, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// another caller may have filled it while we waited
	if opts, ok := r.cached(); ok {
		metrics.OptionsCacheHits.WithLabelValues("hit").Inc()
		return opts, nil
	}

	metrics.OptionsCacheHits.WithLabelValues("miss").Inc()

	opts, err := r.source.ConditionOptions(ctx)
	if err != nil {
		r.log.Error("failed to fetch condition options", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.cache.Set(optionsKey, opts, cache.NoExpiration)

	r.log.Debug("condition options cached",
		slog.String("op", op),
		slog.Int("countries", len(opts.Countries)),
		slog.Int("regions", len(opts.Regions)),
		slog.Int("wholesalers", len(opts.Wholesalers)),
		slog.Int("tour_types", len(opts.TourTypes)),
	)

	return opts, nil
}

func (r *OptionsRepo) cached() (*models.ConditionOptions, bool) {
	v, found := r.cache.Get(optionsKey)
	if !found {
		return nil, false
	}
	opts, ok := v.(*models.ConditionOptions)
	return opts, ok
}
