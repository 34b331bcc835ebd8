// Package translator compiles a diagram graph into an OWL ontology: it
// resolves every node into an expression, synthesizes axioms from nodes and
// edges and assembles the result.
package translator

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/starford/graphol/internal/diagram"
	"github.com/starford/graphol/internal/owl"
)

// State is the lifecycle state of a Translator.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Observer receives run notifications. Calls happen on the goroutine that
// invoked Run.
type Observer interface {
	Started(total int)
	Progress(count, total int)
	Completed(res *Result)
	Errored(err error)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) Started(int)       {}
func (NopObserver) Progress(int, int) {}
func (NopObserver) Completed(*Result) {}
func (NopObserver) Errored(error)     {}

// Result is the outcome of a successful run.
type Result struct {
	RunID       string
	Ontology    *owl.Ontology
	Nodes       int
	Edges       int
	Resolutions int
	Duration    time.Duration
}

// Option configures a Translator.
type Option func(*Translator)

// WithOntologyIRI sets the IRI entities are named under.
func WithOntologyIRI(iri string) Option {
	return func(t *Translator) { t.iri = iri }
}

// WithPrefix sets the prefix recorded on the assembled ontology.
func WithPrefix(prefix string) Option {
	return func(t *Translator) { t.prefix = prefix }
}

// WithMaxDepth bounds operand nesting. Values <= 0 select DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(t *Translator) { t.maxDepth = depth }
}

// WithAnnotations toggles rdfs:comment annotations for node descriptions.
func WithAnnotations(enabled bool) Option {
	return func(t *Translator) { t.annotations = enabled }
}

// WithLogger sets the logger for run diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(t *Translator) { t.log = log }
}

// Translator runs translations one at a time. A second Run while one is in
// flight fails with ErrBusy.
type Translator struct {
	iri         string
	prefix      string
	maxDepth    int
	annotations bool
	log         *slog.Logger

	running atomic.Bool
	state   atomic.Int32
}

// New returns an idle Translator.
func New(opts ...Option) *Translator {
	t := &Translator{
		iri:         "http://example.org/ontology",
		maxDepth:    DefaultMaxDepth,
		annotations: true,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the state of the last or current run.
func (t *Translator) State() State { return State(t.state.Load()) }

// OntologyIRI returns the IRI entities are named under.
func (t *Translator) OntologyIRI() string { return t.iri }

// Run translates g. The first malformed element aborts the run; no partial
// ontology is returned. obs may be nil.
func (t *Translator) Run(g *diagram.Graph, obs Observer) (*Result, error) {
	if !t.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer t.running.Store(false)
	if obs == nil {
		obs = NopObserver{}
	}

	t.state.Store(int32(StateRunning))
	start := time.Now()
	runID := uuid.NewString()
	log := t.log.With(slog.String("run_id", runID))

	res, err := t.run(g, obs)
	if err != nil {
		t.state.Store(int32(StateFailed))
		log.Debug("translation failed", slog.String("error", err.Error()))
		obs.Errored(err)
		return nil, err
	}
	res.RunID = runID
	res.Duration = time.Since(start)
	t.state.Store(int32(StateCompleted))
	log.Debug("translation completed",
		slog.Int("axioms", res.Ontology.Len()),
		slog.Int("resolutions", res.Resolutions),
		slog.Duration("duration", res.Duration),
	)
	obs.Completed(res)
	return res, nil
}

func (t *Translator) run(g *diagram.Graph, obs Observer) (*Result, error) {
	total := g.Len()
	count := 0
	step := func() {
		count++
		obs.Progress(min(count, total), total)
	}
	obs.Started(total)

	r := NewResolver(g, t.iri, t.maxDepth)
	syn := &synthesizer{g: g, r: r, axioms: owl.NewAxiomSet(), annotations: t.annotations}

	for _, n := range g.Nodes() {
		if _, err := r.Resolve(n); err != nil {
			return nil, err
		}
		step()
	}
	for _, n := range g.Nodes() {
		if err := syn.node(n); err != nil {
			return nil, err
		}
	}
	for _, e := range g.Edges() {
		if err := syn.edge(e); err != nil {
			return nil, err
		}
		step()
	}

	return &Result{
		Ontology:    owl.NewOntology(owl.IRI(t.iri), t.prefix, syn.axioms),
		Nodes:       len(g.Nodes()),
		Edges:       len(g.Edges()),
		Resolutions: r.Resolutions(),
	}, nil
}
