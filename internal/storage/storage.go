package storage

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionCorrupt  = errors.New("session is corrupt")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
	ErrEmptyFile       = errors.New("file is empty")
)
