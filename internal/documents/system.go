package documents

import (
	"context"

	"github.com/mherrada/veridoc/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Upload stores the file and registers its metadata. The blob is removed
	// again if the metadata insert fails.
	Upload(ctx context.Context, cmd UploadCommand) (*Document, error)
	// Validate returns a signed download URL when all three fields match a
	// stored record exactly, or ErrNotFound.
	Validate(ctx context.Context, q ValidationQuery) (string, error)
	// DownloadURL returns a signed download URL for a stored file key.
	DownloadURL(ctx context.Context, fileKey string) (string, error)
	// Find returns a document by ID, or ErrNotFound.
	Find(ctx context.Context, id int64) (*Document, error)
	// List returns a page of documents ordered by upload time descending.
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Document], error)
	// Delete removes the blob, records the deletion in the audit log, and
	// deletes the metadata record. Deleting an absent record is a no-op.
	Delete(ctx context.Context, id int64) error
	// Sweep deletes every document whose validity ended before today.
	// A failure on one record does not stop the rest.
	Sweep(ctx context.Context) (SweepReport, error)
}

// AuditLog records deleted file keys. Implemented by the deletions domain.
type AuditLog interface {
	Record(ctx context.Context, fileKey string) error
}

// SweepReport summarizes one expiration sweep run.
type SweepReport struct {
	Expired int `json:"expired"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}
