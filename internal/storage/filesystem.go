package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

// Filesystem is the default backend: one subdirectory per area under a root
// directory, served publicly under baseURL.
type Filesystem struct {
	root    string
	baseURL string
}

// NewFilesystem provisions every area directory up front.
func NewFilesystem(root, baseURL string) (*Filesystem, error) {
	for _, area := range Areas() {
		if err := os.MkdirAll(filepath.Join(root, string(area)), 0o755); err != nil {
			return nil, fmt.Errorf("storage: create area %s: %w", area, err)
		}
	}
	return &Filesystem{root: root, baseURL: baseURL}, nil
}

// Root returns the directory attachments are stored under.
func (f *Filesystem) Root() string { return f.root }

func (f *Filesystem) path(area Area, key string) string {
	return filepath.Join(f.root, string(area), filepath.Base(key))
}

// URL returns the public URL for a stored key.
func (f *Filesystem) URL(area Area, key string) string {
	return f.baseURL + "/files/" + string(area) + "/" + url.PathEscape(key)
}

func (f *Filesystem) Store(ctx context.Context, area Area, key string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst, err := os.Create(f.path(area, key))
	if err != nil {
		return "", fmt.Errorf("storage: create %s/%s: %w", area, key, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("storage: write %s/%s: %w", area, key, err)
	}
	return f.URL(area, key), nil
}

func (f *Filesystem) Delete(ctx context.Context, area Area, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(f.path(area, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete %s/%s: %w", area, key, err)
	}
	return nil
}

func (f *Filesystem) Exists(ctx context.Context, area Area, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(f.path(area, key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
