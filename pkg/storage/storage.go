// Package storage provides blob storage operations with Azure Blob Storage
// and MinIO implementations.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mherrada/veridoc/pkg/lifecycle"
)

// DefaultSignedURLTTL is the lifetime of signed download links when the
// configuration does not override it.
const DefaultSignedURLTTL = 60 * time.Second

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the storage container.
	Start(lc *lifecycle.Coordinator) error
	// Put streams data to a blob at the given key with the specified content type.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Remove deletes the blob at the given key. Removing a blob that does not
	// exist is not an error.
	Remove(ctx context.Context, key string) error
	// SignedURL returns a time-limited download URL for the blob at the given
	// key. Returns ErrNotFound if the blob does not exist.
	SignedURL(ctx context.Context, key string) (string, error)
	// Exists reports whether a blob exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

// New creates a storage system for the configured provider.
// It validates credentials and creates the provider client but does not
// establish a connection until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Provider {
	case ProviderAzure:
		return newAzure(cfg, logger)
	case ProviderMinio:
		return newMinio(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
