package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"tour_admin/internal/storage"
)

// FileStorage opens local files that are about to be attached to a persisted entity.
type FileStorage interface {
	Open(ctx context.Context, path string) (*Upload, error)
	MaxSize() int64
}

// Upload is a file read into memory and checked against the upload limits.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	data        []byte
}

func NewUpload(filename, contentType string, data []byte) *Upload {
	return &Upload{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		data:        data,
	}
}

// Reader returns a fresh reader over the file content.
func (u *Upload) Reader() io.Reader {
	return bytes.NewReader(u.data)
}

// LocalFileStorage reads uploads from the local file system
type LocalFileStorage struct {
	maxSize      int64
	allowedTypes []string
}

func NewLocalFileStorage(maxSize int64, allowedTypes []string) *LocalFileStorage {
	return &LocalFileStorage{
		maxSize:      maxSize,
		allowedTypes: allowedTypes,
	}
}

func (s *LocalFileStorage) MaxSize() int64 {
	return s.maxSize
}

func (s *LocalFileStorage) Open(ctx context.Context, path string) (*Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, storage.ErrFileNotFound)
		}
		return nil, err
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, storage.ErrFileNotFound)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", path, storage.ErrEmptyFile)
	}
	if s.maxSize > 0 && info.Size() > s.maxSize {
		return nil, fmt.Errorf("%s (%d bytes, limit %d): %w", path, info.Size(), s.maxSize, storage.ErrFileTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	mtype := mimetype.Detect(data)
	if !s.allowed(mtype) {
		return nil, fmt.Errorf("%s (%s): %w", path, mtype.String(), storage.ErrInvalidFileType)
	}

	return &Upload{
		Filename:    filepath.Base(path),
		ContentType: mtype.String(),
		Size:        int64(len(data)),
		data:        data,
	}, nil
}

func (s *LocalFileStorage) allowed(mtype *mimetype.MIME) bool {
	if len(s.allowedTypes) == 0 {
		return true
	}
	for _, t := range s.allowedTypes {
		if mtype.Is(t) {
			return true
		}
	}
	return false
}
