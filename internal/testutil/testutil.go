// Package testutil provides shared test helpers for setting up workspaces and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/graphol/internal/index"
	"github.com/starford/graphol/internal/storage"
)

// PersonStudent is a small diagram that translates to three axioms.
const PersonStudent = `iri: http://example.org/uni
prefix: uni
nodes:
  - {id: person, type: concept, label: Person}
  - {id: student, type: concept, label: Student}
edges:
  - {id: isa, type: inclusion, source: student, target: person}
`

// Malformed decodes but fails translation at edge "bad".
const Malformed = `nodes:
  - {id: person, type: concept, label: Person}
  - {id: knows, type: role, label: knows}
edges:
  - {id: bad, type: inclusion, source: person, target: knows}
`

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "graphol-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestWorkspace creates a temporary diagram workspace with a storage.Provider.
func TestWorkspace(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// WriteDiagram writes content under the workspace root, creating parent dirs.
func WriteDiagram(t *testing.T, root, path, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
