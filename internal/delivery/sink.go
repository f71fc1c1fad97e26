package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink stores a delivered payload and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// DirSink saves payloads into a local download directory.
type DirSink struct {
	Dir string
}

// Put writes data to a temporary file first and renames it into place, so a
// partially written file never carries the final name. An existing file is
// not overwritten; a " (n)" suffix is added instead.
func (s DirSink) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, ".download-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	final, err := uniquePath(s.Dir, name)
	if err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, final); err != nil {
		return "", fmt.Errorf("move %s into place: %w", name, err)
	}
	return final, nil
}

func uniquePath(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 0; i < 1000; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", base, i, ext)
		}
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("no free file name for %s in %s", name, dir)
}
