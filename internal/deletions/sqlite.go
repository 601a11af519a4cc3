package deletions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mherrada/veridoc/pkg/repository"
)

type sqliteLog struct {
	db     *sql.DB
	logger *slog.Logger
}

func (l *sqliteLog) Record(ctx context.Context, fileKey string) error {
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO borrados(archivo_pdf) VALUES (?)",
		fileKey,
	)
	if err != nil {
		return fmt.Errorf("record deletion: %w", err)
	}

	l.logger.Info("deletion recorded", "key", fileKey)
	return nil
}

func (l *sqliteLog) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	q := "SELECT id, archivo_pdf, deleted_at FROM borrados ORDER BY deleted_at DESC, id DESC LIMIT ?"

	entries, err := repository.QueryMany(ctx, l.db, q, []any{normalizeLimit(limit)}, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("list deletions: %w", err)
	}
	return entries, nil
}
