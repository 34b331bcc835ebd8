// Package ontoservice coordinates the diagram workspace, the translator and
// the run index: it reads a diagram, translates it, persists the run and
// notifies subscribers.
package ontoservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/starford/graphol/internal/apperr"
	"github.com/starford/graphol/internal/diagram"
	"github.com/starford/graphol/internal/index"
	"github.com/starford/graphol/internal/models"
	"github.com/starford/graphol/internal/owl"
	"github.com/starford/graphol/internal/sse"
	"github.com/starford/graphol/internal/storage"
	"github.com/starford/graphol/internal/translator"
)

// Publisher receives translation lifecycle events.
type Publisher interface {
	PublishRunEvent(kind, path string, data any)
}

// Recorder receives run measurements.
type Recorder interface {
	RunStarted()
	RunFinished(status string, d time.Duration, resolutions int, counts map[string]int)
}

type nopPublisher struct{}

func (nopPublisher) PublishRunEvent(string, string, any) {}

type nopRecorder struct{}

func (nopRecorder) RunStarted()                                            {}
func (nopRecorder) RunFinished(string, time.Duration, int, map[string]int) {}

// Outcome is the result of one translation. Ontology is nil for failed runs.
type Outcome struct {
	Run      models.TranslationRun
	Ontology *owl.Ontology
}

// DiagramDetail is the full representation of a workspace diagram.
type DiagramDetail struct {
	Path     string                 `json:"path"`
	Content  string                 `json:"content"`
	Checksum string                 `json:"checksum"`
	Status   string                 `json:"status,omitempty"`
	Axioms   int                    `json:"axioms"`
	Stale    bool                   `json:"stale"`
	LastRun  *models.TranslationRun `json:"last_run,omitempty"`
}

// DiagramListItem is a lightweight item in a list response.
type DiagramListItem struct {
	Path        string    `json:"path"`
	Checksum    string    `json:"checksum"`
	OntologyIRI string    `json:"ontology_iri,omitempty"`
	Status      string    `json:"status"`
	Axioms      int       `json:"axioms"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the sink for run events.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithRecorder sets the sink for run measurements.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

// WithLogger sets the service logger. It defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Service coordinates storage, translation and index operations.
type Service struct {
	store    storage.Provider
	db       index.Store
	compiler *Compiler
	events   Publisher
	metrics  Recorder
	logger   *slog.Logger

	// group coalesces concurrent runs of the same diagram content.
	group singleflight.Group
}

// NewService creates a new ontology service.
func NewService(store storage.Provider, db index.Store, compiler *Compiler, opts ...Option) *Service {
	s := &Service{
		store:    store,
		db:       db,
		compiler: compiler,
		events:   nopPublisher{},
		metrics:  nopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compile translates the stored diagram at path and records the run.
// A malformed diagram yields both the failed Outcome and an error wrapping
// apperr.ErrInvalidDiagram.
func (s *Service) Compile(_ context.Context, path string) (*Outcome, error) {
	data, err := s.read(path)
	if err != nil {
		return nil, err
	}
	return s.compile(path, data)
}

// CompileData is the index.CompileFunc used by workspace sync and the watcher.
func (s *Service) CompileData(path string, data []byte) error {
	_, err := s.compile(path, data)
	return err
}

// TranslateDocument translates an ad hoc document without persisting it.
func (s *Service) TranslateDocument(_ context.Context, data []byte) (*Outcome, error) {
	return s.translate("", storage.Checksum(data), data, translator.NopObserver{})
}

// Export writes the ontology of the stored diagram at path in OWL 2
// functional syntax.
func (s *Service) Export(_ context.Context, path string) ([]byte, error) {
	data, err := s.read(path)
	if err != nil {
		return nil, err
	}
	res, err := s.compiler.Translate(data, nil)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := owl.WriteFunctional(&buf, res.Ontology); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GetDiagram reads a diagram and its latest run.
func (s *Service) GetDiagram(_ context.Context, path string) (*DiagramDetail, error) {
	data, err := s.read(path)
	if err != nil {
		return nil, err
	}
	return s.buildDiagramDetail(path, data)
}

// PutDiagram creates or replaces a diagram and translates it. A non-empty
// ifMatch must equal the checksum of the stored content. Content that does
// not decode as a diagram document is rejected before anything is written;
// a well-formed document whose translation fails is stored with a failed run.
func (s *Service) PutDiagram(_ context.Context, path string, content []byte, ifMatch string) (*DiagramDetail, bool, error) {
	if !storage.IsDiagramFile(path) {
		return nil, false, fmt.Errorf("%w: %q is not a .yaml, .yml or .json path", apperr.ErrInvalidArgument, path)
	}
	if _, err := diagram.Decode(content); err != nil {
		return nil, false, fmt.Errorf("%w: %w", apperr.ErrInvalidDiagram, err)
	}

	existing, err := s.store.Read(path)
	created := errors.Is(err, os.ErrNotExist)
	switch {
	case err != nil && !created:
		return nil, false, err
	case created && ifMatch != "":
		return nil, false, apperr.ErrNotFound
	case !created && ifMatch != "" && ifMatch != storage.Checksum(existing):
		return nil, false, apperr.ErrConflict
	}

	if err := s.store.Write(path, content); err != nil {
		return nil, false, err
	}
	if _, err := s.compile(path, content); err != nil && !errors.Is(err, apperr.ErrInvalidDiagram) {
		return nil, false, err
	}
	d, err := s.buildDiagramDetail(path, content)
	return d, created, err
}

// DeleteDiagram removes a diagram from storage and index.
func (s *Service) DeleteDiagram(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.db.DeleteDiagram(path)
}

// ListDiagrams returns paginated diagrams with an optional run status filter.
func (s *Service) ListDiagrams(_ context.Context, limit, offset int, status string) ([]DiagramListItem, int, error) {
	rows, total, err := s.db.ListDiagrams(limit, offset, status)
	if err != nil {
		return nil, 0, err
	}
	items := make([]DiagramListItem, len(rows))
	for i, r := range rows {
		items[i] = DiagramListItem{
			Path:        r.Path,
			Checksum:    r.Checksum,
			OntologyIRI: r.OntologyIRI,
			Status:      r.Status,
			Axioms:      r.Axioms,
			UpdatedAt:   r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Axioms returns the stored axioms of a diagram, or of every diagram when
// path is empty. kind, if set, must name an axiom kind.
func (s *Service) Axioms(_ context.Context, path, kind string) ([]models.Axiom, error) {
	if kind != "" {
		k, err := owl.ParseAxiomKind(kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidArgument, err)
		}
		kind = k.String()
	}
	if path != "" {
		d, err := s.db.GetDiagram(path)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, apperr.ErrNotFound
		}
	}
	axioms, err := s.db.Axioms(path, kind)
	return nonNilSlice(axioms), err
}

// Runs returns the recent runs of a diagram, newest first.
func (s *Service) Runs(_ context.Context, path string, limit int) ([]models.TranslationRun, error) {
	runs, err := s.db.Runs(path, limit)
	return nonNilSlice(runs), err
}

// Search delegates full-text axiom search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	res, err := s.db.Search(query, limit)
	return nonNilSlice(res), err
}

func (s *Service) read(path string) ([]byte, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Service) compile(path string, data []byte) (*Outcome, error) {
	cs := storage.Checksum(data)
	v, err, _ := s.group.Do(path+"@"+cs, func() (any, error) {
		out, err := s.translate(path, cs, data, &runObserver{path: path, events: s.events})
		if out == nil {
			return nil, err
		}
		if recErr := s.record(out); recErr != nil {
			return nil, recErr
		}
		return out, err
	})
	out, _ := v.(*Outcome)
	return out, err
}

// translate runs the compiler and measures the run. A translation failure
// still yields an Outcome describing the failed run.
func (s *Service) translate(path, checksum string, data []byte, obs translator.Observer) (*Outcome, error) {
	started := time.Now()
	s.metrics.RunStarted()

	res, err := s.compiler.Translate(data, obs)
	if err != nil {
		run := models.TranslationRun{
			ID:         uuid.NewString(),
			Path:       path,
			Checksum:   checksum,
			Status:     models.StatusFailed,
			Error:      err.Error(),
			DurationMS: time.Since(started).Milliseconds(),
			StartedAt:  started,
		}
		var mde *translator.MalformedDiagramError
		if errors.As(err, &mde) {
			run.Element = mde.Element()
		}
		s.metrics.RunFinished(models.StatusFailed, time.Since(started), 0, nil)
		return &Outcome{Run: run}, err
	}

	s.metrics.RunFinished(models.StatusCompleted, res.Duration, res.Resolutions, res.Ontology.Counts())
	return &Outcome{
		Run: models.TranslationRun{
			ID:          res.RunID,
			Path:        path,
			Checksum:    checksum,
			OntologyIRI: string(res.Ontology.IRI),
			Status:      models.StatusCompleted,
			Nodes:       res.Nodes,
			Edges:       res.Edges,
			Axioms:      res.Ontology.Len(),
			Resolutions: res.Resolutions,
			DurationMS:  res.Duration.Milliseconds(),
			StartedAt:   started,
		},
		Ontology: res.Ontology,
	}, nil
}

// record persists the run and announces its outcome.
func (s *Service) record(out *Outcome) error {
	var axioms []models.Axiom
	if out.Ontology != nil {
		for _, a := range out.Ontology.Axioms() {
			axioms = append(axioms, models.Axiom{Path: out.Run.Path, Kind: a.Kind().String(), Text: a.String()})
		}
	}
	if err := s.db.RecordRun(out.Run, axioms); err != nil {
		return fmt.Errorf("ontoservice: record run: %w", err)
	}

	log := s.logger.With(slog.String("path", out.Run.Path), slog.String("run_id", out.Run.ID))
	if out.Run.Status == models.StatusFailed {
		log.Info("translation failed", slog.String("error", out.Run.Error), slog.String("element", out.Run.Element))
		s.events.PublishRunEvent(sse.RunFailed, out.Run.Path, out.Run)
		return nil
	}
	log.Info("translation completed", slog.Int("axioms", out.Run.Axioms), slog.Int64("duration_ms", out.Run.DurationMS))
	s.events.PublishRunEvent(sse.RunCompleted, out.Run.Path, out.Run)
	return nil
}

func (s *Service) buildDiagramDetail(path string, data []byte) (*DiagramDetail, error) {
	d := &DiagramDetail{
		Path:     path,
		Content:  string(data),
		Checksum: storage.Checksum(data),
	}
	row, err := s.db.GetDiagram(path)
	if err != nil {
		return nil, err
	}
	if row == nil {
		d.Stale = true
		return d, nil
	}
	d.Status = row.Status
	d.Axioms = row.Axioms
	d.Stale = row.Checksum != d.Checksum

	runs, err := s.db.Runs(path, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) > 0 {
		d.LastRun = &runs[0]
	}
	return d, nil
}

// runObserver forwards translator progress to the event publisher.
type runObserver struct {
	path   string
	events Publisher
}

func (o *runObserver) Started(total int) {
	o.events.PublishRunEvent(sse.RunStarted, o.path, map[string]any{"path": o.path, "total": total})
}

func (o *runObserver) Progress(count, total int) {
	o.events.PublishRunEvent(sse.RunProgress, o.path, map[string]any{"path": o.path, "count": count, "total": total})
}

func (*runObserver) Completed(*translator.Result) {}
func (*runObserver) Errored(error)                {}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
