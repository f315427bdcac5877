package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tour_admin/internal/domain/models"
	"tour_admin/internal/repository"
	"tour_admin/internal/storage"
	redisapp "tour_admin/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sessionKey = "tour_admin:session"
	sessionTTL = 24 * time.Hour
)

var testCtx = context.Background()

func testSession() models.Session {
	return models.Session{
		Token:    "test-token",
		Email:    "admin@example.com",
		Name:     "Admin",
		IssuedAt: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func NewMockClient() (*redisapp.Client, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return redisapp.Wrap(db), mock
}

func setupRedisRepo() (*repository.RedisSessionRepo, redismock.ClientMock) {
	db, mock := NewMockClient()
	return repository.NewRedisSessionRepo(db, sessionKey, sessionTTL), mock
}

func TestRedisSessionRepo_Save(t *testing.T) {
	repo, mock := setupRedisRepo()
	session := testSession()
	data, err := json.Marshal(session)
	require.NoError(t, err)

	t.Run("successful save", func(t *testing.T) {
		mock.ExpectSet(sessionKey, string(data), sessionTTL).SetVal("OK")
		err := repo.Save(testCtx, session)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectSet(sessionKey, string(data), sessionTTL).SetErr(redis.ErrClosed)
		err := repo.Save(testCtx, session)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})
}

func TestRedisSessionRepo_Load(t *testing.T) {
	repo, mock := setupRedisRepo()
	session := testSession()
	data, err := json.Marshal(session)
	require.NoError(t, err)

	t.Run("session exists", func(t *testing.T) {
		mock.ExpectGet(sessionKey).SetVal(string(data))
		got, err := repo.Load(testCtx)
		require.NoError(t, err)
		assert.Equal(t, session.Token, got.Token)
		assert.Equal(t, session.Email, got.Email)
		assert.True(t, session.IssuedAt.Equal(got.IssuedAt))
	})

	t.Run("no session", func(t *testing.T) {
		mock.ExpectGet(sessionKey).RedisNil()
		_, err := repo.Load(testCtx)
		assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	})

	t.Run("corrupt value", func(t *testing.T) {
		mock.ExpectGet(sessionKey).SetVal("{not json")
		_, err := repo.Load(testCtx)
		assert.ErrorIs(t, err, storage.ErrSessionCorrupt)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectGet(sessionKey).SetErr(redis.ErrClosed)
		_, err := repo.Load(testCtx)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})
}

func TestRedisSessionRepo_Clear(t *testing.T) {
	repo, mock := setupRedisRepo()

	t.Run("successful delete", func(t *testing.T) {
		mock.ExpectDel(sessionKey).SetVal(1)
		assert.NoError(t, repo.Clear(testCtx))
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectDel(sessionKey).SetErr(redis.ErrClosed)
		assert.ErrorIs(t, repo.Clear(testCtx), redis.ErrClosed)
	})
}

func TestFileSessionRepo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	repo := repository.NewFileSessionRepo(path)

	_, err := repo.Load(testCtx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	session := testSession()
	require.NoError(t, repo.Save(testCtx, session))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := repo.Load(testCtx)
	require.NoError(t, err)
	assert.Equal(t, session.Token, got.Token)
	assert.Equal(t, session.Name, got.Name)

	require.NoError(t, repo.Clear(testCtx))
	_, err = repo.Load(testCtx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	// clearing twice is fine
	assert.NoError(t, repo.Clear(testCtx))
}

func TestFileSessionRepo_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "token=abc"},
		{name: "no token", content: `{"email":"admin@example.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := repository.NewFileSessionRepo(path).Load(testCtx)
			assert.ErrorIs(t, err, storage.ErrSessionCorrupt)
		})
	}
}

type countingSource struct {
	calls atomic.Int32
	opts  *models.ConditionOptions
	err   error
}

func (s *countingSource) ConditionOptions(context.Context) (*models.ConditionOptions, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.opts, nil
}

func TestOptionsRepo_FetchesOnce(t *testing.T) {
	source := &countingSource{opts: &models.ConditionOptions{
		Countries: []models.Country{{ID: 392, NameTH: "ญี่ปุ่น", NameEN: "Japan"}},
	}}
	repo := repository.NewOptionsRepo(slog.New(slog.NewTextHandler(io.Discard, nil)), source)

	var wg sync.WaitGroup
	results := make([]*models.ConditionOptions, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			opts, err := repo.Options(testCtx)
			assert.NoError(t, err)
			results[i] = opts
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), source.calls.Load())
	for _, opts := range results {
		assert.Same(t, source.opts, opts)
	}
}

func TestOptionsRepo_ErrorIsNotCached(t *testing.T) {
	wantErr := errors.New("backend down")
	source := &countingSource{err: wantErr}
	repo := repository.NewOptionsRepo(slog.New(slog.NewTextHandler(io.Discard, nil)), source)

	_, err := repo.Options(testCtx)
	assert.ErrorIs(t, err, wantErr)

	source.err = nil
	source.opts = &models.ConditionOptions{}

	opts, err := repo.Options(testCtx)
	require.NoError(t, err)
	assert.Same(t, source.opts, opts)
	assert.Equal(t, int32(2), source.calls.Load())
}
