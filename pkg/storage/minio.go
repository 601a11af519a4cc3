package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mherrada/veridoc/pkg/lifecycle"
)

type minioStore struct {
	client *minio.Client
	bucket string
	urlTTL time.Duration
	logger *slog.Logger
}

func newMinio(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &minioStore{
		client: client,
		bucket: cfg.ContainerName,
		urlTTL: cfg.SignedURLTTLDuration(),
		logger: logger.With("system", "storage", "provider", ProviderMinio),
	}, nil
}

func (m *minioStore) Start(lc *lifecycle.Coordinator) error {
	m.logger.Info("starting storage system")

	lc.OnStartup(func() {
		ctx := lc.Context()

		exists, err := m.client.BucketExists(ctx, m.bucket)
		if err != nil {
			m.logger.Error("storage bucket check failed", "error", err)
			return
		}

		if !exists {
			if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
				m.logger.Error("storage bucket initialization failed", "error", err)
				return
			}
		}

		m.logger.Info("storage bucket ready", "bucket", m.bucket)
	})

	return nil
}

func (m *minioStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := m.client.PutObject(ctx, m.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload object %s: %w", key, err)
	}

	return nil
}

func (m *minioStore) Remove(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil
		}
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	return nil
}

func (m *minioStore) SignedURL(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	exists, err := m.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrNotFound
	}

	signed, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.urlTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("sign object url %s: %w", key, err)
	}

	return signed.String(), nil
}

func (m *minioStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("check object existence %s: %w", key, err)
	}

	return true, nil
}

func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
	}
	return false
}
