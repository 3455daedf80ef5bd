package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the suffix format for saved artifacts, e.g. 20250101_153000.
const TimestampLayout = "20060102_150405"

// FileStore persists generated artifacts onto the local filesystem.
type FileStore struct {
	basePath string
	now      func() time.Time
	create   func(path string) (writeCloser, error)
}

// NewFileStore initializes a FileStore rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath, now: time.Now, create: createExclusive}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// SaveTimestamped writes data as <name>_<YYYYMMDD_HHMMSS>.<ext> and returns
// the full path. An existing file is never overwritten; a counter is appended
// instead.
func (s *FileStore) SaveTimestamped(ctx context.Context, name, ext string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	base := sanitizeName(name)
	if base == "" {
		return "", errors.New("storage: name is required")
	}
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		return "", errors.New("storage: extension is required")
	}

	stem := base + "_" + s.now().Format(TimestampLayout)
	for i := 1; ; i++ {
		filename := stem + "." + ext
		if i > 1 {
			filename = fmt.Sprintf("%s_%d.%s", stem, i, ext)
		}
		fullPath := filepath.Join(s.basePath, filename)
		f, err := s.create(fullPath)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("storage: create file: %w", err)
		}
		if err := writeAndClose(f, data); err != nil {
			_ = os.Remove(fullPath)
			return "", err
		}
		return fullPath, nil
	}
}

type writeCloser interface {
	Write(p []byte) (int, error)
	Close() error
}

func createExclusive(path string) (writeCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

// writeAndClose leaves cleanup of a failed write to the caller.
func writeAndClose(f writeCloser, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("storage: write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("storage: close file: %w", err)
	}
	return nil
}

// sanitizeName keeps a user supplied file stem to a single safe path element.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r < 0x20:
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ". ")
}
