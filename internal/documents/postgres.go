package documents

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mherrada/veridoc/pkg/pagination"
	"github.com/mherrada/veridoc/pkg/query"
	"github.com/mherrada/veridoc/pkg/repository"
)

type postgresRepository struct {
	db         *sql.DB
	pagination pagination.Config
}

func newPostgresRepository(db *sql.DB, cfg pagination.Config) Repository {
	return &postgresRepository{db: db, pagination: cfg}
}

func (r *postgresRepository) Insert(ctx context.Context, d Document) (*Document, error) {
	q := `
		INSERT INTO public.documents(codigo_verificador, documento, fecha_vigencia, archivo_pdf, size_bytes, page_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, codigo_verificador, documento, fecha_vigencia, archivo_pdf, size_bytes, page_count, uploaded_at`

	args := []any{
		d.VerifierCode,
		d.Holder,
		d.ValidUntil,
		d.FileKey,
		d.SizeBytes,
		d.PageCount,
	}

	inserted, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, args, scanDocument)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &inserted, nil
}

func (r *postgresRepository) Find(ctx context.Context, id int64) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *postgresRepository) FindMatch(ctx context.Context, vq ValidationQuery) (*Document, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("VerifierCode", vq.VerifierCode).
		WhereEquals("Holder", vq.Holder).
		WhereEquals("ValidUntil", vq.ValidUntil).
		BuildSingleOrNull()

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *postgresRepository) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "VerifierCode", "Holder")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := countRows(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, err
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *postgresRepository) ListExpired(ctx context.Context, before string) ([]Document, error) {
	q, args := query.
		NewBuilder(projection).
		WhereLess("ValidUntil", before).
		OrderByFields([]query.SortField{{Field: "ID"}}).
		Build()

	docs, err := repository.QueryMany(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query expired documents: %w", err)
	}
	return docs, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM public.documents WHERE id = $1",
		id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}
