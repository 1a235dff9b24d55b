package shared

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	cases := map[string]struct {
		ms   int
		want string
	}{
		"minutes only":    {ms: 5 * 60000, want: "5m"},
		"hours and mins":  {ms: 2*3600000 + 14*60000, want: "2h 14m"},
		"zero":            {ms: 0, want: "0m"},
		"sub-minute lost": {ms: 59000, want: "0m"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := FormatDuration(tc.ms); got != tc.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tc.ms, got, tc.want)
			}
		})
	}
}

func TestFormatTrackDuration(t *testing.T) {
	if got := FormatTrackDuration(215000); got != "3:35" {
		t.Errorf("got %q, want 3:35", got)
	}
	if got := FormatTrackDuration(61000); got != "1:01" {
		t.Errorf("got %q, want 1:01", got)
	}
}

func TestVisibilityString(t *testing.T) {
	public := true
	private := false

	if got := VisibilityString(nil); got != "unknown" {
		t.Errorf("nil = %q", got)
	}
	if got := VisibilityString(&public); got != "public" {
		t.Errorf("true = %q", got)
	}
	if got := VisibilityString(&private); got != "private" {
		t.Errorf("false = %q", got)
	}
}

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig parses the embedded template", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path == "" {
			t.Error("expected a database path")
		}
		if config.Server.Port == 0 {
			t.Error("expected a server port")
		}
	})

	t.Run("LoadConfig reads a TOML file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[credentials.spotify]
client_id = "abc"
client_secret = "def"

[database]
path = "test.db"

[server]
host = "localhost"
port = 9090
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.Credentials.Spotify.ClientID != "abc" {
			t.Errorf("client_id = %q", config.Credentials.Spotify.ClientID)
		}
		if config.Server.Addr() != "localhost:9090" {
			t.Errorf("addr = %q", config.Server.Addr())
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected an error for a missing file")
		}
	})

	t.Run("Origin falls back to the listen address", func(t *testing.T) {
		server := ServerConfig{Host: "localhost", Port: 8080}
		if got := server.Origin(); got != "http://localhost:8080" {
			t.Errorf("origin = %q", got)
		}

		server.BaseURL = "https://decades.example.com"
		if got := server.Origin(); got != "https://decades.example.com" {
			t.Errorf("origin = %q", got)
		}
	})

	t.Run("CreateConfigFile refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := CreateConfigFile(path); err == nil {
			t.Error("expected an error for an existing file")
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()

	if a == b {
		t.Error("expected unique IDs")
	}
	if len(strings.Split(a, "-")) != 5 {
		t.Errorf("expected a uuid, got %q", a)
	}
}

func TestMigrations(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	t.Run("RunMigrations creates the auth tables", func(t *testing.T) {
		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for _, table := range []string{"users", "sessions"} {
			var name string
			err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
			if err != nil {
				t.Errorf("expected table %s: %v", table, err)
			}
		}
	})

	t.Run("RunMigrations is idempotent", func(t *testing.T) {
		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected no error on second run, got %v", err)
		}
	})

	t.Run("RollbackMigration drops the tables", func(t *testing.T) {
		if err := RollbackMigration(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='sessions'").Scan(&name)
		if err == nil {
			t.Error("expected sessions table to be dropped")
		}
	})

	t.Run("RollbackMigration with nothing applied", func(t *testing.T) {
		if err := RollbackMigration(db); err == nil {
			t.Error("expected an error with no applied migrations")
		}
	})
}

func TestRunStatements(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	t.Run("semicolon inside a comment does not split a statement", func(t *testing.T) {
		script := `
-- header comment; with a semicolon in it
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY -- trailing comment; also with one
);
CREATE INDEX IF NOT EXISTS idx_notes_id ON notes(id)
`
		if err := runStatements(db, script, func(*sql.Tx) error { return nil }); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var name string
		if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='notes'").Scan(&name); err != nil {
			t.Errorf("expected notes table: %v", err)
		}
	})

	t.Run("bookkeeping failure rolls back", func(t *testing.T) {
		script := "CREATE TABLE IF NOT EXISTS discarded (id TEXT PRIMARY KEY)"
		record := func(*sql.Tx) error { return fmt.Errorf("bookkeeping failed") }

		if err := runStatements(db, script, record); err == nil {
			t.Fatal("expected the bookkeeping error")
		}

		var name string
		if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='discarded'").Scan(&name); err == nil {
			t.Error("expected the statement to be rolled back")
		}
	})
}
