// Package deletions implements the deletion audit log. Every removed
// document leaves an entry recording its file key and when it was deleted.
package deletions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mherrada/veridoc/pkg/database"
)

// DefaultListLimit bounds audit log listings when no limit is given.
const DefaultListLimit = 50

// Entry is a single deletion audit record.
type Entry struct {
	ID        int64     `json:"id"`
	FileKey   string    `json:"archivo_pdf"`
	DeletedAt time.Time `json:"deleted_at"`
}

// System defines the contract for the deletion audit log.
type System interface {
	// Record appends an audit entry for the given file key.
	Record(ctx context.Context, fileKey string) error
	// ListRecent returns the most recent entries, newest first. A limit of
	// zero or less uses DefaultListLimit.
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

// New creates the audit log for the database system's driver.
func New(db database.System, logger *slog.Logger) (System, error) {
	log := logger.With("system", "deletions")

	switch db.Driver() {
	case database.DriverPostgres:
		return &postgresLog{db: db.Connection(), logger: log}, nil
	case database.DriverSQLite:
		return &sqliteLog{db: db.Connection(), logger: log}, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", db.Driver())
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
