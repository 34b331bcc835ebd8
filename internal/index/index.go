package index

import "github.com/starford/graphol/internal/models"

// Store defines the persistence operations of the translation index.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Store interface {
	RecordRun(run models.TranslationRun, axioms []models.Axiom) error
	DeleteDiagram(path string) error
	GetChecksum(path string) (string, error)
	GetDiagram(path string) (*DiagramRow, error)
	ListDiagrams(limit, offset int, status string) ([]DiagramRow, int, error)
	Runs(path string, limit int) ([]models.TranslationRun, error)
	Axioms(path, kind string) ([]models.Axiom, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
