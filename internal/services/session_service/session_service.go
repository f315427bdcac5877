package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/lib/jwt"
	"tour_admin/internal/lib/logger/sl"
	"tour_admin/internal/lib/validate"
	"tour_admin/internal/metrics"
	"tour_admin/internal/repository"
	"tour_admin/internal/storage"
	"tour_admin/internal/transport/rest"
	"tour_admin/internal/transport/rest/dto"
)

// ErrLoginRequired means the stored session is gone and the operator has to log in again.
var ErrLoginRequired = errors.New("login required")

type AuthClient interface {
	Login(ctx context.Context, req dto.LoginRequest) (*models.LoginResult, error)
	Logout(ctx context.Context) error
}

// SessionService owns the stored session. It is the token source of the REST
// client and the only component that reacts to an unauthorized answer.
type SessionService struct {
	log       *slog.Logger
	repo      repository.SessionRepository
	client    AuthClient
	validator validate.Validator
	now       func() time.Time
}

func NewSessionService(log *slog.Logger, repo repository.SessionRepository, client AuthClient) *SessionService {
	v, err := validate.NewBuilder().Build()
	if err != nil {
		panic(err)
	}

	return &SessionService{
		log:       log,
		repo:      repo,
		client:    client,
		validator: v,
		now:       time.Now,
	}
}

func (s *SessionService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	const op = "session_service.Login"
	log := s.log.With(slog.String("op", op), slog.String("email", email))

	req := dto.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("attempting to login")

	res, err := s.client.Login(ctx, req)
	if err != nil {
		log.Warn("login failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if res.Token == "" {
		return nil, fmt.Errorf("%s: empty token in login response", op)
	}

	session := models.Session{
		Token:    res.Token,
		Email:    res.User.Email,
		Name:     res.User.Name,
		IssuedAt: s.now(),
	}
	if session.Email == "" {
		session.Email = req.Email
	}
	if claims, err := jwt.Parse(res.Token); err == nil {
		session.ExpiresAt = claims.ExpiresAt
	}

	if err := s.repo.Save(ctx, session); err != nil {
		log.Error("failed to store session", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("logged in")
	return &session, nil
}

// Logout tells the backend (best effort) and clears the stored session.
func (s *SessionService) Logout(ctx context.Context) error {
	const op = "session_service.Logout"
	log := s.log.With(slog.String("op", op))

	if _, err := s.repo.Load(ctx); err == nil {
		if err := s.client.Logout(ctx); err != nil {
			log.Warn("backend logout failed", sl.Err(err))
		}
	}

	if err := s.repo.Clear(ctx); err != nil {
		log.Error("failed to clear session", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("logged out")
	return nil
}

// Current returns the stored session.
func (s *SessionService) Current(ctx context.Context) (*models.Session, error) {
	const op = "session_service.Current"

	session, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		return nil, ErrLoginRequired
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &session, nil
}

// Token reads the store on every call. A missing session asks for a login; an
// unreadable or expired one is reported as unauthorized so Handle tears it down.
func (s *SessionService) Token(ctx context.Context) (string, error) {
	const op = "session_service.Token"

	session, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		return "", ErrLoginRequired
	case errors.Is(err, storage.ErrSessionCorrupt):
		s.log.Warn("stored session is unreadable", slog.String("op", op), sl.Err(err))
		return "", rest.ErrUnauthorized
	case err != nil:
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if session.ExpiresAt != nil && !s.now().Before(*session.ExpiresAt) {
		return "", rest.ErrUnauthorized
	}
	if jwt.Expired(session.Token, s.now()) {
		return "", rest.ErrUnauthorized
	}

	return session.Token, nil
}

// Handle is the single reaction to an unauthorized answer: the stored session
// is cleared and ErrLoginRequired is returned. Other errors pass through.
func (s *SessionService) Handle(ctx context.Context, err error) error {
	const op = "session_service.Handle"

	if err == nil || !rest.IsUnauthorized(err) {
		return err
	}

	log := s.log.With(slog.String("op", op))
	log.Warn("session rejected, clearing stored session")

	if clearErr := s.repo.Clear(ctx); clearErr != nil {
		log.Error("failed to clear session", sl.Err(clearErr))
	}
	metrics.SessionTeardowns.Inc()

	return ErrLoginRequired
}
