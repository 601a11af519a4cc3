package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/mherrada/veridoc/pkg/pagination"
	"github.com/mherrada/veridoc/pkg/storage"
)

type service struct {
	repo       Repository
	storage    storage.System
	audit      AuditLog
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the document system backed by the given repository, blob
// storage, and deletion audit log.
func New(
	repo Repository,
	store storage.System,
	audit AuditLog,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &service{
		repo:       repo,
		storage:    store,
		audit:      audit,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (s *service) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *service) Upload(ctx context.Context, cmd UploadCommand) (*Document, error) {
	code := strings.TrimSpace(cmd.VerifierCode)
	holder := strings.TrimSpace(cmd.Holder)

	if code == "" || holder == "" || cmd.ValidUntil == "" || len(cmd.Data) == 0 {
		return nil, ErrMissingFields
	}

	validUntil, err := NormalizeDate(cmd.ValidUntil)
	if err != nil {
		return nil, err
	}

	key := FileKey(code)
	if key == ".pdf" {
		return nil, ErrInvalidFile
	}

	// Distinct codes can sanitize to the same key; overwriting the blob
	// would strand the record that owns it.
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check document blob: %w", err)
	}
	if exists {
		return nil, ErrDuplicate
	}

	if err := s.storage.Put(ctx, key, bytes.NewReader(cmd.Data), int64(len(cmd.Data)), "application/pdf"); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	doc, err := s.repo.Insert(ctx, Document{
		VerifierCode: code,
		Holder:       holder,
		ValidUntil:   validUntil,
		FileKey:      key,
		SizeBytes:    int64(len(cmd.Data)),
		PageCount:    extractPageCount(s.logger, cmd.Data),
	})
	if err != nil {
		if delErr := s.storage.Remove(ctx, key); delErr != nil {
			s.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, err
	}

	s.logger.Info("document uploaded", "id", doc.ID, "key", key, "valid_until", validUntil)
	return doc, nil
}

func (s *service) Validate(ctx context.Context, q ValidationQuery) (string, error) {
	validUntil, err := NormalizeDate(q.ValidUntil)
	if err != nil {
		// A date the caller cannot format correctly can never match a
		// stored record.
		return "", ErrNotFound
	}
	q.ValidUntil = validUntil

	doc, err := s.repo.FindMatch(ctx, q)
	if err != nil {
		return "", err
	}

	return s.DownloadURL(ctx, doc.FileKey)
}

func (s *service) DownloadURL(ctx context.Context, fileKey string) (string, error) {
	url, err := s.storage.SignedURL(ctx, fileKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("sign download url: %w", err)
	}
	return url, nil
}

func (s *service) Find(ctx context.Context, id int64) (*Document, error) {
	return s.repo.Find(ctx, id)
}

func (s *service) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Document], error) {
	page.Normalize(s.pagination)
	return s.repo.List(ctx, page)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	doc, err := s.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Already gone. A concurrent sweep or repeated submit lands here.
			return nil
		}
		return err
	}

	if err := s.storage.Remove(ctx, doc.FileKey); err != nil {
		return fmt.Errorf("remove document blob: %w", err)
	}

	if err := s.audit.Record(ctx, doc.FileKey); err != nil {
		s.logger.Warn("deletion audit record failed", "key", doc.FileKey, "error", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	s.logger.Info("document deleted", "id", id, "key", doc.FileKey)
	return nil
}

func (s *service) Sweep(ctx context.Context) (SweepReport, error) {
	today := Today()

	expired, err := s.repo.ListExpired(ctx, today)
	if err != nil {
		return SweepReport{}, fmt.Errorf("list expired documents: %w", err)
	}

	report := SweepReport{Expired: len(expired)}

	for _, doc := range expired {
		if _, err := NormalizeDate(doc.ValidUntil); err != nil {
			s.logger.Warn("skipping record with malformed validity date",
				"id", doc.ID, "valid_until", doc.ValidUntil)
			report.Failed++
			continue
		}

		if err := s.Delete(ctx, doc.ID); err != nil {
			s.logger.Error("expired document delete failed", "id", doc.ID, "error", err)
			report.Failed++
			continue
		}

		report.Deleted++
	}

	s.logger.Info("expiration sweep complete",
		"expired", report.Expired, "deleted", report.Deleted, "failed", report.Failed)
	return report, nil
}

func extractPageCount(logger *slog.Logger, data []byte) *int {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}
	return &count
}
