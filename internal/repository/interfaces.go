package repository

import (
	"context"

	"tour_admin/internal/domain/models"
)

// SessionRepository keeps the login session between CLI invocations.
// Load returns storage.ErrSessionNotFound when nobody is logged in.
type SessionRepository interface {
	Save(ctx context.Context, session models.Session) error
	Load(ctx context.Context) (models.Session, error)
	Clear(ctx context.Context) error
}

// OptionsSource is where the reference bundle comes from, the backend's options endpoint.
type OptionsSource interface {
	ConditionOptions(ctx context.Context) (*models.ConditionOptions, error)
}
