package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	s.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }
	return s
}

func TestSaveTimestamped(t *testing.T) {
	s := newStore(t)
	path, err := s.SaveTimestamped(context.Background(), "gemini_video", "mp4", []byte("video"))
	if err != nil {
		t.Fatalf("SaveTimestamped: %v", err)
	}
	if filepath.Base(path) != "gemini_video_20250304_050607.mp4" {
		t.Fatalf("unexpected name %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "video" {
		t.Fatalf("read back %q, %v", data, err)
	}
}

func TestSaveTimestampedPattern(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	path, err := s.SaveTimestamped(context.Background(), "cat", ".png", []byte{1})
	if err != nil {
		t.Fatalf("SaveTimestamped: %v", err)
	}
	if !regexp.MustCompile(`^cat_\d{8}_\d{6}\.png$`).MatchString(filepath.Base(path)) {
		t.Fatalf("unexpected name %q", filepath.Base(path))
	}
}

func TestSaveTimestampedDoesNotOverwrite(t *testing.T) {
	s := newStore(t)
	first, err := s.SaveTimestamped(context.Background(), "img", "png", []byte("one"))
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := s.SaveTimestamped(context.Background(), "img", "png", []byte("two"))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first == second {
		t.Fatal("second save reused the first path")
	}
	if filepath.Base(second) != "img_20250304_050607_2.png" {
		t.Fatalf("unexpected name %q", filepath.Base(second))
	}
	data, _ := os.ReadFile(first)
	if string(data) != "one" {
		t.Fatalf("first file overwritten: %q", data)
	}
}

func TestSaveTimestampedSanitizesName(t *testing.T) {
	s := newStore(t)
	path, err := s.SaveTimestamped(context.Background(), "../../etc/passwd", "png", []byte("x"))
	if err != nil {
		t.Fatalf("SaveTimestamped: %v", err)
	}
	if filepath.Dir(path) != s.BasePath() {
		t.Fatalf("file escaped base path: %q", path)
	}
	if _, err := s.SaveTimestamped(context.Background(), " .. ", "png", nil); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestSaveTimestampedCanceled(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.SaveTimestamped(ctx, "x", "png", nil); err == nil {
		t.Fatal("expected context error")
	}
}

type failingFile struct {
	f        *os.File
	writeErr error
	closeErr error
}

func (f *failingFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		n, _ := f.f.Write(p[:len(p)/2])
		return n, f.writeErr
	}
	return f.f.Write(p)
}

func (f *failingFile) Close() error {
	err := f.f.Close()
	if f.closeErr != nil {
		return f.closeErr
	}
	return err
}

func TestSaveTimestampedRemovesPartialFile(t *testing.T) {
	tests := []struct {
		name     string
		writeErr error
		closeErr error
	}{
		{name: "write fails", writeErr: errors.New("disk full")},
		{name: "close fails", closeErr: errors.New("sync failed")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			s.create = func(path string) (writeCloser, error) {
				f, err := os.Create(path)
				if err != nil {
					return nil, err
				}
				return &failingFile{f: f, writeErr: tc.writeErr, closeErr: tc.closeErr}, nil
			}

			path, err := s.SaveTimestamped(context.Background(), "gemini_video", "mp4", []byte("video-bytes"))
			if err == nil {
				t.Fatalf("expected error, saved %q", path)
			}
			entries, err := os.ReadDir(s.BasePath())
			if err != nil {
				t.Fatalf("ReadDir: %v", err)
			}
			if len(entries) != 0 {
				t.Fatalf("partial artifact left behind: %v", entries)
			}
		})
	}
}
