package documents_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mherrada/veridoc/internal/documents"
	"github.com/mherrada/veridoc/pkg/database"
)

func openTestRepository(t *testing.T) (documents.Repository, database.System) {
	t.Helper()

	cfg := &database.Config{Driver: database.DriverSQLite, Path: ":memory:"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	db, err := database.New(cfg, testLogger())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Connection().Close() })

	_, err = db.Connection().Exec(`
		CREATE TABLE documents (
			id INTEGER PRIMARY KEY,
			codigo_verificador TEXT NOT NULL UNIQUE,
			documento TEXT NOT NULL,
			fecha_vigencia TEXT NOT NULL,
			archivo_pdf TEXT NOT NULL,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			page_count INTEGER,
			uploaded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}

	repo, err := documents.NewRepository(db, testPagination, testLogger())
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	return repo, db
}

func seedDocument(t *testing.T, db database.System, id int64, code, validUntil string) {
	t.Helper()

	_, err := db.Connection().Exec(`
		INSERT INTO documents(id, codigo_verificador, documento, fecha_vigencia, archivo_pdf)
		VALUES (?, ?, ?, ?, ?)`,
		id, code, "12345678", validUntil, code+".pdf")
	if err != nil {
		t.Fatalf("seed document %d: %v", id, err)
	}
}

func TestSQLiteListExpired(t *testing.T) {
	ctx := context.Background()
	repo, db := openTestRepository(t)

	// Seeded out of id order so the result order is the query's doing.
	seedDocument(t, db, 30, "CCC", "2024-01-01")
	seedDocument(t, db, 10, "AAA", "2024-06-15")
	seedDocument(t, db, 20, "BBB", "2023-12-31")
	seedDocument(t, db, 40, "DDD", "2026-12-31")

	docs, err := repo.ListExpired(ctx, "2025-01-01")
	if err != nil {
		t.Fatalf("ListExpired: %v", err)
	}

	want := []int64{10, 20, 30}
	if len(docs) != len(want) {
		t.Fatalf("got %d documents, want %d", len(docs), len(want))
	}
	for i, d := range docs {
		if d.ID != want[i] {
			t.Errorf("docs[%d].ID = %d, want %d", i, d.ID, want[i])
		}
	}
}

func TestSQLiteFindMatch(t *testing.T) {
	ctx := context.Background()
	repo, db := openTestRepository(t)

	seedDocument(t, db, 1, "ABC123", "2026-12-31")

	doc, err := repo.FindMatch(ctx, documents.ValidationQuery{
		VerifierCode: "ABC123",
		Holder:       "12345678",
		ValidUntil:   "2026-12-31",
	})
	if err != nil {
		t.Fatalf("FindMatch: %v", err)
	}
	if doc.FileKey != "ABC123.pdf" {
		t.Errorf("FileKey = %q, want %q", doc.FileKey, "ABC123.pdf")
	}

	_, err = repo.FindMatch(ctx, documents.ValidationQuery{
		VerifierCode: "ABC123",
		Holder:       "99999999",
		ValidUntil:   "2026-12-31",
	})
	if !errors.Is(err, documents.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
