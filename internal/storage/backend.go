// Package storage holds uploaded attachments. Each content kind gets its own
// named area so ticket attachments, response media and solution media never
// share a namespace.
package storage

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"path"
	"strings"
	"time"
)

type Area string

const (
	AreaFormAttachments Area = "form-attachments"
	AreaResponseImages  Area = "response-images"
	AreaResponseFiles   Area = "response-files"
	AreaSolutionImages  Area = "solution-images"
	AreaSolutionFiles   Area = "solution-files"
)

// Areas lists every storage area, for provisioning.
func Areas() []Area {
	return []Area{
		AreaFormAttachments,
		AreaResponseImages, AreaResponseFiles,
		AreaSolutionImages, AreaSolutionFiles,
	}
}

// Backend stores raw bytes under a key and hands out public URLs.
type Backend interface {
	// Store writes the content and returns its public URL.
	Store(ctx context.Context, area Area, key string, r io.Reader) (string, error)

	// Delete removes stored content. Missing keys are not an error.
	Delete(ctx context.Context, area Area, key string) error

	// Exists checks whether a key is present.
	Exists(ctx context.Context, area Area, key string) (bool, error)
}

const keyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	var b strings.Builder
	for range n {
		b.WriteByte(keyAlphabet[rand.IntN(len(keyAlphabet))])
	}
	return b.String()
}

// NewKey builds an anonymous storage key keeping only the original extension:
// "<unix-millis>-<random>.<ext>". Used for ticket form attachments.
func NewKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), randomSuffix(10), ext)
}

// NewNamedKey prefixes the original filename with a timestamp to avoid
// collisions while keeping the name readable: "<unix-millis>-<name>". Used
// for response and solution uploads.
func NewNamedKey(filename string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), path.Base(filename))
}
