package api

import (
	"github.com/starford/graphol/internal/index"
	"github.com/starford/graphol/internal/models"
	"github.com/starford/graphol/internal/ontoservice"
)

// PutDiagramRequest is the request body for creating or replacing a diagram.
type PutDiagramRequest struct {
	Content string `json:"content" example:"nodes: []" validate:"required"`
}

// DiagramDetail is the full diagram response type (aliased from the domain layer).
type DiagramDetail = ontoservice.DiagramDetail

// DiagramListItem is a lightweight item in a list response (aliased from the domain layer).
type DiagramListItem = ontoservice.DiagramListItem

// DiagramListResponse wraps paginated diagram listings.
type DiagramListResponse struct {
	Diagrams []DiagramListItem `json:"diagrams" validate:"required"`
	Total    int               `json:"total" example:"42" validate:"required"`
}

// TranslationResponse is returned by both translate endpoints. Axioms are
// only included for ad hoc documents; stored diagrams expose theirs under
// /axioms.
type TranslationResponse struct {
	Run    models.TranslationRun `json:"run" validate:"required"`
	Axioms []models.Axiom        `json:"axioms,omitempty"`
}

// TranslationError is returned with 422 when a diagram cannot be translated.
type TranslationError struct {
	Error   string                 `json:"error" example:"malformed diagram: e1: type mismatch in ISA" validate:"required"`
	Element string                 `json:"element,omitempty" example:"e1"`
	Run     *models.TranslationRun `json:"run,omitempty"`
}

// AxiomsResponse wraps stored axioms.
type AxiomsResponse struct {
	Axioms []models.Axiom `json:"axioms" validate:"required"`
}

// RunsResponse wraps a diagram's run history.
type RunsResponse struct {
	Runs []models.TranslationRun `json:"runs" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult = index.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}
