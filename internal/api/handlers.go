package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/graphol/internal/apperr"
	"github.com/starford/graphol/internal/models"
	"github.com/starford/graphol/internal/ontoservice"
	"github.com/starford/graphol/internal/translator"
)

const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *ontoservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *ontoservice.Service) *Handler {
	return &Handler{svc: svc}
}

// diagramPath extracts the diagram path from the URL (the wildcard segment).
// Supports encoded slashes from OpenAPI clients (e.g. models%2Funi.yaml).
func diagramPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op, path string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
	case errors.Is(err, apperr.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrInvalidDiagram):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("path", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// writeTranslationError reports a failed translation with its run, if any.
func writeTranslationError(w http.ResponseWriter, out *ontoservice.Outcome, err error) {
	body := TranslationError{Error: err.Error()}
	var mde *translator.MalformedDiagramError
	if errors.As(err, &mde) {
		body.Element = mde.Element()
	}
	if out != nil && out.Run.Path != "" {
		body.Run = &out.Run
	}
	writeJSON(w, http.StatusUnprocessableEntity, body)
}

// ListDiagrams handles GET /api/diagrams.
//
//	@Summary		List translated diagrams with optional pagination and status filter
//	@Tags			diagrams
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			status	query		string	false	"Filter by last run status"	Enums(completed, failed)
//	@Success		200		{object}	DiagramListResponse
//	@Security		BearerAuth
//	@Router			/diagrams [get]
func (h *Handler) ListDiagrams(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	status := q.Get("status")
	if status != "" && status != models.StatusCompleted && status != models.StatusFailed {
		writeJSON(w, http.StatusBadRequest, errorBody("status must be completed or failed"))
		return
	}

	items, total, err := h.svc.ListDiagrams(r.Context(), limit, offset, status)
	if err != nil {
		writeServiceError(w, "list diagrams", "", err)
		return
	}
	writeJSON(w, http.StatusOK, DiagramListResponse{Diagrams: items, Total: total})
}

// GetDiagram handles GET /api/diagrams/*.
//
//	@Summary		Get a diagram and its latest run
//	@Tags			diagrams
//	@Produce		json
//	@Param			path	path		string	true	"Diagram path"
//	@Success		200		{object}	DiagramDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/diagrams/{path} [get]
func (h *Handler) GetDiagram(w http.ResponseWriter, r *http.Request) {
	path := diagramPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	d, err := h.svc.GetDiagram(r.Context(), path)
	if err != nil {
		writeServiceError(w, "get diagram", path, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// PutDiagram handles PUT /api/diagrams/*.
//
//	@Summary		Create or replace a diagram and translate it
//	@Tags			diagrams
//	@Accept			json
//	@Produce		json
//	@Param			path		path	string				true	"Diagram path"
//	@Param			If-Match	header	string				false	"SHA-256 checksum for optimistic concurrency"
//	@Param			body		body	PutDiagramRequest	true	"Diagram document"
//	@Success		200		{object}	DiagramDetail
//	@Success		201		{object}	DiagramDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/diagrams/{path} [put]
func (h *Handler) PutDiagram(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	path := diagramPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}

	var req PutDiagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}

	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	d, created, err := h.svc.PutDiagram(r.Context(), path, []byte(req.Content), ifMatch)
	if err != nil {
		writeServiceError(w, "put diagram", path, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	w.Header().Set("ETag", `"`+d.Checksum+`"`)
	writeJSON(w, status, d)
}

// DeleteDiagram handles DELETE /api/diagrams/*.
//
//	@Summary		Delete a diagram and its runs
//	@Tags			diagrams
//	@Param			path	path	string	true	"Diagram path"
//	@Success		204		"Diagram deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/diagrams/{path} [delete]
func (h *Handler) DeleteDiagram(w http.ResponseWriter, r *http.Request) {
	path := diagramPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.DeleteDiagram(r.Context(), path); err != nil {
		writeServiceError(w, "delete diagram", path, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TranslateDocument handles POST /api/translate.
//
//	@Summary		Translate an ad hoc diagram document without storing it
//	@Tags			translation
//	@Accept			plain
//	@Produce		json
//	@Param			body	body		string	true	"YAML or JSON diagram document"
//	@Success		200		{object}	TranslationResponse
//	@Failure		422		{object}	TranslationError
//	@Security		BearerAuth
//	@Router			/translate [post]
func (h *Handler) TranslateDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	if len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("document is required"))
		return
	}

	out, err := h.svc.TranslateDocument(r.Context(), data)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidDiagram) {
			writeTranslationError(w, out, err)
			return
		}
		writeServiceError(w, "translate document", "", err)
		return
	}

	resp := TranslationResponse{Run: out.Run, Axioms: []models.Axiom{}}
	for _, a := range out.Ontology.Axioms() {
		resp.Axioms = append(resp.Axioms, models.Axiom{Kind: a.Kind().String(), Text: a.String()})
	}
	writeJSON(w, http.StatusOK, resp)
}

// TranslateDiagram handles POST /api/translate/*.
//
//	@Summary		Re-translate a stored diagram
//	@Tags			translation
//	@Produce		json
//	@Param			path	path		string	true	"Diagram path"
//	@Success		200		{object}	TranslationResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	TranslationError
//	@Security		BearerAuth
//	@Router			/translate/{path} [post]
func (h *Handler) TranslateDiagram(w http.ResponseWriter, r *http.Request) {
	path := diagramPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	out, err := h.svc.Compile(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidDiagram) {
			writeTranslationError(w, out, err)
			return
		}
		writeServiceError(w, "translate diagram", path, err)
		return
	}
	writeJSON(w, http.StatusOK, TranslationResponse{Run: out.Run})
}

// Runs handles GET /api/runs/*.
//
//	@Summary		List the recent translation runs of a diagram
//	@Tags			translation
//	@Produce		json
//	@Param			path	path		string	true	"Diagram path"
//	@Param			limit	query		int		false	"Max runs"
//	@Success		200		{object}	RunsResponse
//	@Security		BearerAuth
//	@Router			/runs/{path} [get]
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	path := diagramPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.svc.Runs(r.Context(), path, limit)
	if err != nil {
		writeServiceError(w, "runs", path, err)
		return
	}
	writeJSON(w, http.StatusOK, RunsResponse{Runs: runs})
}

// Ontology handles GET /api/ontology/*.
//
//	@Summary		Export a diagram's ontology in OWL 2 functional syntax
//	@Tags			translation
//	@Produce		plain
//	@Param			path	path		string	true	"Diagram path"
//	@Success		200		{string}	string
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	TranslationError
//	@Security		BearerAuth
//	@Router			/ontology/{path} [get]
func (h *Handler) Ontology(w http.ResponseWriter, r *http.Request) {
	path := diagramPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	doc, err := h.svc.Export(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidDiagram) {
			writeTranslationError(w, nil, err)
			return
		}
		writeServiceError(w, "export ontology", path, err)
		return
	}
	w.Header().Set("Content-Type", "text/owl-functional; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// Axioms handles GET /api/axioms and GET /api/axioms/*.
//
//	@Summary		List stored axioms, optionally for one diagram and one kind
//	@Tags			axioms
//	@Produce		json
//	@Param			path	path		string	false	"Diagram path"
//	@Param			kind	query		string	false	"Axiom kind, e.g. SubClassOf"
//	@Success		200		{object}	AxiomsResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/axioms/{path} [get]
func (h *Handler) Axioms(w http.ResponseWriter, r *http.Request) {
	path := diagramPath(r)
	axioms, err := h.svc.Axioms(r.Context(), path, r.URL.Query().Get("kind"))
	if err != nil {
		writeServiceError(w, "axioms", path, err)
		return
	}
	writeJSON(w, http.StatusOK, AxiomsResponse{Axioms: axioms})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across stored axioms
//	@Tags			axioms
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
