package db

import "testing"

func TestRebind(t *testing.T) {
	q := `INSERT INTO records (kind, id, data) VALUES (?, ?, ?)`

	if got := SQLite.Rebind(q); got != q {
		t.Errorf("sqlite should keep ? placeholders, got %q", got)
	}

	want := `INSERT INTO records (kind, id, data) VALUES ($1, $2, $3)`
	if got := Postgres.Rebind(q); got != want {
		t.Errorf("postgres rebind = %q, want %q", got, want)
	}
}

func TestDialectFor(t *testing.T) {
	for _, name := range []string{"sqlite", "postgres"} {
		d, err := DialectFor(name)
		if err != nil {
			t.Fatalf("DialectFor(%q): %v", name, err)
		}
		if d.Name != name {
			t.Errorf("expected %q, got %q", name, d.Name)
		}
	}
	if _, err := DialectFor("mysql"); err == nil {
		t.Error("expected error for unsupported dialect")
	}
}

func TestMigrateIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := Migrate(database, SQLite); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var n int
	err := database.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'records'`).Scan(&n)
	if err != nil {
		t.Fatalf("querying schema: %v", err)
	}
	if n != 1 {
		t.Errorf("expected records table, got count %d", n)
	}
}
