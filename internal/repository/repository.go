package repository

import (
	"context"
	"fmt"

	"tour_admin/internal/config"
	redisapp "tour_admin/internal/storage/redis"
)

type Repository struct {
	redis   *redisapp.Client
	Session SessionRepository
}

// NewRepository opens the session store selected by cfg.Session.Driver.
func NewRepository(ctx context.Context, cfg *config.Config) (*Repository, error) {
	switch cfg.Session.Driver {
	case config.SessionDriverRedis:
		client := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
		if err := client.HealthCheck(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		return &Repository{
			redis:   client,
			Session: NewRedisSessionRepo(client, cfg.Session.Key, cfg.Session.TTL),
		}, nil

	case config.SessionDriverFile, "":
		path := cfg.Session.Path
		if path == "" {
			p, err := DefaultSessionPath()
			if err != nil {
				return nil, fmt.Errorf("failed to resolve session path: %w", err)
			}
			path = p
		}

		return &Repository{Session: NewFileSessionRepo(path)}, nil
	}

	return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
}

// HealthCheck pings the redis store; the file store is always healthy.
func (r *Repository) HealthCheck(ctx context.Context) error {
	if r.redis == nil {
		return nil
	}
	return r.redis.HealthCheck(ctx)
}

func (r *Repository) Close() error {
	if r.redis == nil {
		return nil
	}
	return r.redis.Close()
}
