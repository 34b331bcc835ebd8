// Package models defines the domain types shared by the graphol service layers.
package models

import "time"

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// DiagramMetadata is a lightweight representation returned by list operations.
type DiagramMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TranslationRun is the persisted outcome of one translation of a diagram.
type TranslationRun struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Checksum    string    `json:"checksum"`
	OntologyIRI string    `json:"ontology_iri,omitempty"`
	Status      string    `json:"status"`
	Nodes       int       `json:"nodes"`
	Edges       int       `json:"edges"`
	Axioms      int       `json:"axioms"`
	Resolutions int       `json:"resolutions"`
	Error       string    `json:"error,omitempty"`
	// Element is the document key of the node or edge a failed run stopped at.
	Element    string    `json:"element,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	StartedAt  time.Time `json:"started_at"`
}

// Axiom is one stored axiom in OWL 2 functional syntax.
type Axiom struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}
