package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/graphol/internal/models"
)

// DiagramRow represents a row in the diagrams table: the latest run state
// of one workspace diagram.
type DiagramRow struct {
	Path        string
	Checksum    string
	OntologyIRI string
	Status      string
	Axioms      int
	LastRun     string
	UpdatedAt   time.Time
}

// SearchResult represents one axiom search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Snippet string `json:"snippet"`
}

// RecordRun stores a run and makes it the current state of its diagram,
// unless the diagram already reflects a run that started later. The
// diagram's axioms are replaced by the given ones; a failed run leaves the
// diagram without axioms.
func (db *DB) RecordRun(run models.TranslationRun, axioms []models.Axiom) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO runs (id, path, checksum, ontology_iri, status, nodes, edges, axioms,
		                  resolutions, error, element, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Path, run.Checksum, run.OntologyIRI, run.Status, run.Nodes, run.Edges, run.Axioms,
		run.Resolutions, run.Error, run.Element, run.DurationMS, run.StartedAt)
	if err != nil {
		return fmt.Errorf("index: insert run: %w", err)
	}

	res, err := tx.Exec(`
		INSERT INTO diagrams (path, checksum, ontology_iri, status, axioms, last_run, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum     = excluded.checksum,
			ontology_iri = excluded.ontology_iri,
			status       = excluded.status,
			axioms       = excluded.axioms,
			last_run     = excluded.last_run,
			updated_at   = excluded.updated_at
		WHERE julianday(excluded.updated_at) >= julianday(diagrams.updated_at)
	`, run.Path, run.Checksum, run.OntologyIRI, run.Status, run.Axioms, run.ID, run.StartedAt)
	if err != nil {
		return fmt.Errorf("index: upsert diagram: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("index: upsert diagram: %w", err)
	}
	if n == 0 {
		// A run that started later already owns the diagram; keep this one
		// as history only.
		return tx.Commit()
	}

	if err := ftsDelete(tx, run.Path); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM axioms WHERE path = ?`, run.Path); err != nil {
		return fmt.Errorf("index: clear axioms: %w", err)
	}
	if len(axioms) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO axioms (path, kind, text) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare axiom insert: %w", err)
		}
		defer stmt.Close()
		for _, a := range axioms {
			if _, err := stmt.Exec(run.Path, a.Kind, a.Text); err != nil {
				return fmt.Errorf("index: insert axiom: %w", err)
			}
			if err := ftsInsert(tx, run.Path, a.Kind, a.Text); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// DeleteDiagram removes a diagram, its runs and its axioms.
func (db *DB) DeleteDiagram(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ftsDelete(tx, path); err != nil {
		return err
	}
	for _, q := range []string{
		`DELETE FROM axioms WHERE path = ?`,
		`DELETE FROM runs WHERE path = ?`,
		`DELETE FROM diagrams WHERE path = ?`,
	} {
		if _, err := tx.Exec(q, path); err != nil {
			return fmt.Errorf("index: delete diagram: %w", err)
		}
	}
	return tx.Commit()
}

// GetChecksum returns the checksum of the last translated version of a
// diagram, or an empty string if it was never translated.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM diagrams WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns the stored checksum of every known diagram.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM diagrams`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// GetDiagram returns the current state of a diagram, or nil if it is unknown.
func (db *DB) GetDiagram(path string) (*DiagramRow, error) {
	var d DiagramRow
	err := db.conn.QueryRow(`
		SELECT path, checksum, ontology_iri, status, axioms, last_run, updated_at
		FROM diagrams WHERE path = ?
	`, path).Scan(&d.Path, &d.Checksum, &d.OntologyIRI, &d.Status, &d.Axioms, &d.LastRun, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: get diagram: %w", err)
	}
	return &d, nil
}

// ListDiagrams returns a page of diagrams ordered by path, optionally
// filtered by run status, and the total number of matching diagrams.
func (db *DB) ListDiagrams(limit, offset int, status string) ([]DiagramRow, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRow(`
		SELECT count(*) FROM diagrams WHERE ? = '' OR status = ?
	`, status, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count diagrams: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT path, checksum, ontology_iri, status, axioms, last_run, updated_at
		FROM diagrams
		WHERE ? = '' OR status = ?
		ORDER BY path
		LIMIT ? OFFSET ?
	`, status, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list diagrams: %w", err)
	}
	defer rows.Close()

	var out []DiagramRow
	for rows.Next() {
		var d DiagramRow
		if err := rows.Scan(&d.Path, &d.Checksum, &d.OntologyIRI, &d.Status, &d.Axioms, &d.LastRun, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// Runs returns the most recent runs of a diagram, newest first.
func (db *DB) Runs(path string, limit int) ([]models.TranslationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, path, checksum, ontology_iri, status, nodes, edges, axioms,
		       resolutions, error, element, duration_ms, started_at
		FROM runs
		WHERE path = ?
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, path, limit)
	if err != nil {
		return nil, fmt.Errorf("index: runs: %w", err)
	}
	defer rows.Close()

	var out []models.TranslationRun
	for rows.Next() {
		var r models.TranslationRun
		if err := rows.Scan(&r.ID, &r.Path, &r.Checksum, &r.OntologyIRI, &r.Status, &r.Nodes, &r.Edges, &r.Axioms,
			&r.Resolutions, &r.Error, &r.Element, &r.DurationMS, &r.StartedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Axioms returns the stored axioms of a diagram in insertion order. An empty
// path selects every diagram; an empty kind selects every axiom kind.
func (db *DB) Axioms(path, kind string) ([]models.Axiom, error) {
	var (
		where []string
		args  []any
	)
	if path != "" {
		where = append(where, "path = ?")
		args = append(args, path)
	}
	if kind != "" {
		where = append(where, "kind = ?")
		args = append(args, kind)
	}
	q := `SELECT path, kind, text FROM axioms`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY path, rowid`

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("index: axioms: %w", err)
	}
	defer rows.Close()

	var out []models.Axiom
	for rows.Next() {
		var a models.Axiom
		if err := rows.Scan(&a.Path, &a.Kind, &a.Text); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
