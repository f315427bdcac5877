package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "tour_admin/internal/app/http"
	"tour_admin/internal/config"
	"tour_admin/internal/repository"
	festivalsvc "tour_admin/internal/services/festival_service"
	sessionsvc "tour_admin/internal/services/session_service"
	tabsvc "tour_admin/internal/services/tab_service"
	filestorage "tour_admin/internal/storage/filestorage"
	"tour_admin/internal/transport/rest"
)

type App struct {
	Log    *slog.Logger
	Config *config.Config

	Repository *repository.Repository
	Client     *rest.Client
	Options    *repository.OptionsRepo

	Sessions  *sessionsvc.SessionService
	Tabs      *tabsvc.TabService
	Festivals *festivalsvc.FestivalService

	// HTTPServer is nil when no diagnostics port is configured.
	HTTPServer *httpapp.Server
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	repo, err := repository.NewRepository(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// the client reads the token from the session service, which needs the
	// client for login and logout
	var sessions *sessionsvc.SessionService
	tokens := rest.TokenFunc(func(ctx context.Context) (string, error) {
		return sessions.Token(ctx)
	})

	client := rest.New(log, rest.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	}, tokens)

	sessions = sessionsvc.NewSessionService(log, repo.Session, client)

	options := repository.NewOptionsRepo(log, client)
	files := filestorage.NewLocalFileStorage(cfg.FileStorage.MaxSize, cfg.FileStorage.AllowedTypes)

	a := &App{
		Log:        log,
		Config:     cfg,
		Repository: repo,
		Client:     client,
		Options:    options,
		Sessions:   sessions,
		Tabs:       tabsvc.NewTabService(log, client, options),
		Festivals:  festivalsvc.NewFestivalService(log, client, files),
	}

	if cfg.HTTP.Port != "" {
		a.HTTPServer = httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, repo)
	}

	log.Debug("application initialized",
		slog.String("op", op),
		slog.String("api", cfg.API.BaseURL),
		slog.String("session_driver", cfg.Session.Driver),
	)

	return a, nil
}

func (a *App) Close() error {
	return a.Repository.Close()
}
