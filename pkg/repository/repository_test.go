package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mherrada/veridoc/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}

	return db
}

func scanName(s repository.Scanner) (string, error) {
	var name string
	err := s.Scan(&name)
	return name, err
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db := openTestDB(t)

		id, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (int64, error) {
			result, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES (?)`, "first")
			if err != nil {
				return 0, err
			}
			return result.LastInsertId()
		})
		if err != nil {
			t.Fatalf("WithTx: %v", err)
		}
		if id != 1 {
			t.Errorf("id = %d, want 1", id)
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := openTestDB(t)
		boom := errors.New("boom")

		_, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (int64, error) {
			if _, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES (?)`, "orphan"); err != nil {
				return 0, err
			}
			return 0, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want boom", err)
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 0 {
			t.Errorf("count = %d, want 0 after rollback", count)
		}
	})
}

func TestQueryOne(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if _, err := db.Exec(`INSERT INTO items (name) VALUES (?)`, "alpha"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	name, err := repository.QueryOne(ctx, db, `SELECT name FROM items WHERE id = ?`, []any{1}, scanName)
	if err != nil {
		t.Fatalf("QueryOne: %v", err)
	}
	if name != "alpha" {
		t.Errorf("name = %q, want alpha", name)
	}

	_, err = repository.QueryOne(ctx, db, `SELECT name FROM items WHERE id = ?`, []any{99}, scanName)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestQueryMany(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	for _, name := range []string{"alpha", "beta"} {
		if _, err := db.Exec(`INSERT INTO items (name) VALUES (?)`, name); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	names, err := repository.QueryMany(ctx, db, `SELECT name FROM items ORDER BY id`, nil, scanName)
	if err != nil {
		t.Fatalf("QueryMany: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("names = %v", names)
	}

	empty, err := repository.QueryMany(ctx, db, `SELECT name FROM items WHERE id > ?`, []any{99}, scanName)
	if err != nil {
		t.Fatalf("QueryMany empty: %v", err)
	}
	if empty == nil {
		t.Error("expected non-nil empty slice")
	}
	if len(empty) != 0 {
		t.Errorf("len = %d, want 0", len(empty))
	}
}

func TestExecExpectOne(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if _, err := db.Exec(`INSERT INTO items (name) VALUES (?)`, "alpha"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := repository.ExecExpectOne(ctx, db, `DELETE FROM items WHERE id = ?`, 1); err != nil {
		t.Fatalf("ExecExpectOne: %v", err)
	}

	err := repository.ExecExpectOne(ctx, db, `DELETE FROM items WHERE id = ?`, 1)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestMapError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		if err := repository.MapError(nil, errNotFound, errDuplicate); err != nil {
			t.Errorf("err = %v, want nil", err)
		}
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		err := repository.MapError(sql.ErrNoRows, errNotFound, errDuplicate)
		if !errors.Is(err, errNotFound) {
			t.Errorf("err = %v, want errNotFound", err)
		}
	})

	t.Run("sqlite unique violation maps to duplicate", func(t *testing.T) {
		db := openTestDB(t)

		if _, err := db.Exec(`INSERT INTO items (name) VALUES (?)`, "alpha"); err != nil {
			t.Fatalf("seed: %v", err)
		}

		_, raw := db.Exec(`INSERT INTO items (name) VALUES (?)`, "alpha")
		err := repository.MapError(raw, errNotFound, errDuplicate)
		if !errors.Is(err, errDuplicate) {
			t.Errorf("err = %v, want errDuplicate", err)
		}
	})

	t.Run("unknown errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		if err := repository.MapError(boom, errNotFound, errDuplicate); !errors.Is(err, boom) {
			t.Errorf("err = %v, want boom", err)
		}
	})
}
