package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE test_table (id INTEGER PRIMARY KEY, value TEXT)`)
	if err != nil {
		db.Close()
		t.Fatalf("failed to create table: %v", err)
	}

	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM test_table`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count
}

func TestWithTx_Success(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "test")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	if count := countRows(t, db); count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	testErr := errors.New("test error")

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "first"); err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "second"); err != nil {
			return err
		}
		return testErr
	})

	if !errors.Is(err, testErr) {
		t.Fatalf("WithTx should return the error: got %v, want %v", err, testErr)
	}
	if count := countRows(t, db); count != 0 {
		t.Errorf("count = %d, want 0 (rolled back)", count)
	}
}

func TestWithTx_CancelledContext(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WithTx(ctx, db, func(_ *sql.Tx) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("WithTx should fail with a cancelled context")
	}
	if called {
		t.Error("fn should not run when the transaction cannot begin")
	}
}

func TestValue(t *testing.T) {
	if got := Value(sql.Null[string]{V: "a", Valid: true}); got != "a" {
		t.Errorf("Value() = %q, want %q", got, "a")
	}
	if got := Value(sql.Null[string]{V: "a"}); got != "" {
		t.Errorf("Value(NULL) = %q, want empty", got)
	}
	if got := Value(sql.Null[int64]{V: 7}); got != 0 {
		t.Errorf("Value(NULL) = %d, want 0", got)
	}
}

func TestUnixMillis_RoundTrip(t *testing.T) {
	ts := time.Date(2024, 2, 14, 20, 30, 0, 0, time.UTC)

	v := UnixMillis(ts)
	ms, ok := v.(int64)
	if !ok {
		t.Fatalf("UnixMillis() = %T, want int64", v)
	}
	if got := Time(sql.Null[int64]{V: ms, Valid: true}); !got.Equal(ts) {
		t.Errorf("Time() = %v, want %v", got, ts)
	}

	if UnixMillis(time.Time{}) != nil {
		t.Error("zero time should be stored as NULL")
	}
	if !Time(sql.Null[int64]{}).IsZero() {
		t.Error("NULL should read back as zero time")
	}
}

func TestValue_ScansNull(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	if _, err := db.Exec(`INSERT INTO test_table (id, value) VALUES (1, NULL), (2, 'kept')`); err != nil {
		t.Fatal(err)
	}

	var got []string
	rows, err := db.Query(`SELECT value FROM test_table ORDER BY id`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	for rows.Next() {
		var v sql.Null[string]
		if err := rows.Scan(&v); err != nil {
			t.Fatal(err)
		}
		got = append(got, Value(v))
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "" || got[1] != "kept" {
		t.Errorf("scanned %q, want [\"\" \"kept\"]", got)
	}
}
