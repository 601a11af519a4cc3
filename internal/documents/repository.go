package documents

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mherrada/veridoc/pkg/database"
	"github.com/mherrada/veridoc/pkg/pagination"
)

// Repository defines metadata persistence for documents. Implementations
// exist for PostgreSQL and SQLite.
type Repository interface {
	// Insert stores a new document record and returns it with its assigned ID.
	Insert(ctx context.Context, d Document) (*Document, error)
	// Find returns a document by ID, or ErrNotFound.
	Find(ctx context.Context, id int64) (*Document, error)
	// FindMatch returns the document matching all three validation fields
	// exactly, or ErrNotFound.
	FindMatch(ctx context.Context, q ValidationQuery) (*Document, error)
	// List returns a page of documents ordered by upload time descending.
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Document], error)
	// ListExpired returns all documents whose validity ended strictly before
	// the given date.
	ListExpired(ctx context.Context, before string) ([]Document, error)
	// Delete removes a document record. Returns ErrNotFound if no row matched.
	Delete(ctx context.Context, id int64) error
}

// NewRepository creates a Repository for the database system's driver.
func NewRepository(db database.System, pagination pagination.Config, logger *slog.Logger) (Repository, error) {
	switch db.Driver() {
	case database.DriverPostgres:
		return newPostgresRepository(db.Connection(), pagination), nil
	case database.DriverSQLite:
		return newSQLiteRepository(db.Connection(), pagination), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", db.Driver())
	}
}

func countRows(ctx context.Context, db *sql.DB, query string, args []any) (int, error) {
	var total int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return total, nil
}
