package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/storage"
	redisapp "tour_admin/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

type RedisSessionRepo struct {
	Client *redisapp.Client
	key    string
	ttl    time.Duration
}

func NewRedisSessionRepo(client *redisapp.Client, key string, ttl time.Duration) *RedisSessionRepo {
	return &RedisSessionRepo{Client: client, key: key, ttl: ttl}
}

func (r *RedisSessionRepo) Save(ctx context.Context, session models.Session) error {
	const op = "repository.RedisSessionRepo.Save"

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.Client.Set(ctx, r.key, string(data), sessionTTL(session, r.ttl, time.Now())).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisSessionRepo) Load(ctx context.Context) (models.Session, error) {
	const op = "repository.RedisSessionRepo.Load"

	val, err := r.Client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, storage.ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return decodeSession(val)
}

func (r *RedisSessionRepo) Clear(ctx context.Context) error {
	const op = "repository.RedisSessionRepo.Clear"

	if err := r.Client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// sessionTTL keeps the key no longer than the token itself is valid.
func sessionTTL(session models.Session, ttl time.Duration, now time.Time) time.Duration {
	if session.ExpiresAt == nil {
		return ttl
	}

	left := session.ExpiresAt.Sub(now)
	if left <= 0 {
		return time.Second
	}
	if ttl == 0 || left < ttl {
		return left
	}
	return ttl
}

// FileSessionRepo stores the session as a JSON file readable by the current user only.
type FileSessionRepo struct {
	path string
}

func NewFileSessionRepo(path string) *FileSessionRepo {
	return &FileSessionRepo{path: path}
}

// DefaultSessionPath is <user config dir>/tour_admin/session.json.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tour_admin", "session.json"), nil
}

func (r *FileSessionRepo) Path() string {
	return r.path
}

func (r *FileSessionRepo) Save(ctx context.Context, session models.Session) error {
	const op = "repository.FileSessionRepo.Save"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *FileSessionRepo) Load(ctx context.Context) (models.Session, error) {
	const op = "repository.FileSessionRepo.Load"

	if err := ctx.Err(); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.Session{}, storage.ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return decodeSession(data)
}

func (r *FileSessionRepo) Clear(ctx context.Context) error {
	const op = "repository.FileSessionRepo.Clear"

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func decodeSession(data []byte) (models.Session, error) {
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", storage.ErrSessionCorrupt, err)
	}
	if session.Token == "" {
		return models.Session{}, storage.ErrSessionCorrupt
	}
	return session, nil
}
