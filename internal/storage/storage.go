// Package storage uploads task images to object storage.
package storage

import (
	"context"
	"errors"
)

// ErrDisabled is returned when no bucket is configured.
var ErrDisabled = errors.New("object storage not configured")

// Uploader stores a blob under key and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Disabled is an Uploader that always fails with ErrDisabled.
type Disabled struct{}

// Upload implements Uploader.
func (Disabled) Upload(context.Context, string, []byte, string) (string, error) {
	return "", ErrDisabled
}
