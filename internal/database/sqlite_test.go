package database

import (
	"testing"
	"testing/fstest"
)

func TestOpenMigratedCreatesSchema(t *testing.T) {
	db, err := OpenMigrated(Memory)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for _, table := range []string{"players", "scores", "ledger_records", "daily_results"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(Memory)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"002_b.sql": {Data: []byte(`INSERT INTO a VALUES (1);`)},
		"notes.txt": {Data: []byte(`ignored`)},
	}
	for i := 0; i < 2; i++ {
		if err := Migrate(db, fsys); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}
	var rows, applied int
	_ = db.QueryRow(`SELECT COUNT(*) FROM a`).Scan(&rows)
	_ = db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&applied)
	if rows != 1 || applied != 2 {
		t.Fatalf("rows=%d applied=%d", rows, applied)
	}
}

func TestMigrateFailureIsReported(t *testing.T) {
	db, err := Open(Memory)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	bad := fstest.MapFS{"001_bad.sql": {Data: []byte(`CREATE TABLE (;`)}}
	if err := Migrate(db, bad); err == nil {
		t.Fatal("broken migration applied")
	}
	var applied int
	_ = db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&applied)
	if applied != 0 {
		t.Fatal("failed migration was recorded")
	}
}
