// Package blob stores uploaded file bytes and hands back the opaque
// content location recorded on the document.
package blob

import (
	"context"
	"fmt"
	"io"

	"docmanager/internal/config"
)

// Store writes and removes uploaded content.
type Store interface {
	// Put stores size bytes from r under key and returns the content location.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Open builds the Store selected by cfg.BlobDriver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.BlobDriver {
	case "local", "":
		return NewLocalStore(cfg.BlobDir, LocalURLPrefix)
	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.BlobDriver)
	}
}
