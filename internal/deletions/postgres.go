package deletions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mherrada/veridoc/pkg/repository"
)

type postgresLog struct {
	db     *sql.DB
	logger *slog.Logger
}

func (l *postgresLog) Record(ctx context.Context, fileKey string) error {
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO public.borrados(archivo_pdf) VALUES ($1)",
		fileKey,
	)
	if err != nil {
		return fmt.Errorf("record deletion: %w", err)
	}

	l.logger.Info("deletion recorded", "key", fileKey)
	return nil
}

func (l *postgresLog) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	q := "SELECT id, archivo_pdf, deleted_at FROM public.borrados ORDER BY deleted_at DESC, id DESC LIMIT $1"

	entries, err := repository.QueryMany(ctx, l.db, q, []any{normalizeLimit(limit)}, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("list deletions: %w", err)
	}
	return entries, nil
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(&e.ID, &e.FileKey, &e.DeletedAt)
	return e, err
}
