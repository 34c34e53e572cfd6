package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/go-playground/assert/v2"
)

func TestSplitStatementsIgnoresQuotedSemicolons(t *testing.T) {
	stmts := splitStatements(`
		-- yorum; bölmez
		CREATE TABLE a (x TEXT DEFAULT 'a;b');
		INSERT INTO a VALUES ('it''s');
	`)
	assert.Equal(t, 2, len(stmts))
	assert.Equal(t, "INSERT INTO a VALUES ('it''s')", stmts[1])
}

func TestOpenAppliesEmbeddedMigrations(t *testing.T) {
	db, err := Open(MemoryPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	err = db.Conn.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('users','posts','admires','comments','follows')",
	).Scan(&n)
	assert.Equal(t, nil, err)
	assert.Equal(t, 5, n)
}

func TestMigrationsAreRecordedOnce(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte("CREATE TABLE a (x INTEGER);")},
		"002_b.sql": {Data: []byte("ALTER TABLE a ADD COLUMN y INTEGER;")},
	}
	db, err := New(MemoryPath, fsys)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	// İkinci çalıştırma ALTER TABLE'ı tekrar denemez.
	assert.Equal(t, nil, db.migrate(fsys))

	var n int
	_ = db.Conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n)
	assert.Equal(t, 2, n)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, err := New(MemoryPath, fstest.MapFS{
		"001.sql": {Data: []byte("CREATE TABLE a (x INTEGER);")},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	boom := errors.New("boom")
	err = WithTx(context.Background(), db.Conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO a VALUES (1)"); err != nil {
			return err
		}
		return boom
	})
	assert.Equal(t, true, errors.Is(err, boom))

	var n int
	_ = db.Conn.QueryRow("SELECT COUNT(*) FROM a").Scan(&n)
	assert.Equal(t, 0, n)
}
