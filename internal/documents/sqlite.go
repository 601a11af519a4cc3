package documents

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mherrada/veridoc/pkg/pagination"
	"github.com/mherrada/veridoc/pkg/repository"
)

const sqliteColumns = "id, codigo_verificador, documento, fecha_vigencia, archivo_pdf, size_bytes, page_count, uploaded_at"

type sqliteRepository struct {
	db         *sql.DB
	pagination pagination.Config
}

func newSQLiteRepository(db *sql.DB, cfg pagination.Config) Repository {
	return &sqliteRepository{db: db, pagination: cfg}
}

func (r *sqliteRepository) Insert(ctx context.Context, d Document) (*Document, error) {
	q := `
		INSERT INTO documents(codigo_verificador, documento, fecha_vigencia, archivo_pdf, size_bytes, page_count)
		VALUES (?, ?, ?, ?, ?, ?)`

	id, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		result, err := tx.ExecContext(ctx, q,
			d.VerifierCode,
			d.Holder,
			d.ValidUntil,
			d.FileKey,
			d.SizeBytes,
			d.PageCount,
		)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return r.Find(ctx, id)
}

func (r *sqliteRepository) Find(ctx context.Context, id int64) (*Document, error) {
	q := fmt.Sprintf("SELECT %s FROM documents WHERE id = ?", sqliteColumns)

	d, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *sqliteRepository) FindMatch(ctx context.Context, vq ValidationQuery) (*Document, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM documents WHERE codigo_verificador = ? AND documento = ? AND fecha_vigencia = ? LIMIT 1",
		sqliteColumns,
	)

	d, err := repository.QueryOne(ctx, r.db, q, []any{vq.VerifierCode, vq.Holder, vq.ValidUntil}, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *sqliteRepository) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	where := ""
	args := []any{}
	if page.Search != nil && *page.Search != "" {
		where = " WHERE codigo_verificador LIKE ? OR documento LIKE ?"
		pattern := "%" + *page.Search + "%"
		args = append(args, pattern, pattern)
	}

	total, err := countRows(ctx, r.db, "SELECT COUNT(*) FROM documents"+where, args)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(
		"SELECT %s FROM documents%s ORDER BY uploaded_at DESC LIMIT ? OFFSET ?",
		sqliteColumns, where,
	)
	pageArgs := append(append([]any{}, args...), page.PageSize, page.Offset())

	docs, err := repository.QueryMany(ctx, r.db, q, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *sqliteRepository) ListExpired(ctx context.Context, before string) ([]Document, error) {
	q := fmt.Sprintf("SELECT %s FROM documents WHERE fecha_vigencia < ? ORDER BY id", sqliteColumns)

	docs, err := repository.QueryMany(ctx, r.db, q, []any{before}, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query expired documents: %w", err)
	}
	return docs, nil
}

func (r *sqliteRepository) Delete(ctx context.Context, id int64) error {
	err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}
