package owl

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

// AxiomSet is a duplicate-free set of axioms keyed by their rendering. It
// grows during a translation run and is sealed when an Ontology is built
// from it. It is not safe for concurrent use.
type AxiomSet struct {
	items  map[string]Axiom
	sealed bool
}

// NewAxiomSet returns an empty set.
func NewAxiomSet() *AxiomSet {
	return &AxiomSet{items: make(map[string]Axiom)}
}

// Add inserts a and reports whether it was new. Adding to a sealed set panics.
func (s *AxiomSet) Add(a Axiom) bool {
	if s.sealed {
		panic("owl: add to sealed axiom set")
	}
	k := a.String()
	if _, ok := s.items[k]; ok {
		return false
	}
	s.items[k] = a
	return true
}

// Contains reports whether a structurally identical axiom is present.
func (s *AxiomSet) Contains(a Axiom) bool {
	_, ok := s.items[a.String()]
	return ok
}

func (s *AxiomSet) Len() int { return len(s.items) }

// Seal forbids further additions.
func (s *AxiomSet) Seal() { s.sealed = true }

func (s *AxiomSet) Sealed() bool { return s.sealed }

// Axioms returns the members ordered by kind, then by rendering.
func (s *AxiomSet) Axioms() []Axiom {
	out := make([]Axiom, 0, len(s.items))
	for _, a := range s.items {
		out = append(out, a)
	}
	slices.SortFunc(out, compareAxioms)
	return out
}

func compareAxioms(a, b Axiom) int {
	if a.Kind() != b.Kind() {
		return int(a.Kind()) - int(b.Kind())
	}
	return strings.Compare(a.String(), b.String())
}

// Ontology is an assembled, immutable translation result.
type Ontology struct {
	IRI    IRI
	Prefix string
	axioms []Axiom
	index  map[string]struct{}
	counts map[AxiomKind]int
}

// NewOntology seals set and assembles it into an ontology.
func NewOntology(iri IRI, prefix string, set *AxiomSet) *Ontology {
	set.Seal()
	o := &Ontology{
		IRI:    iri,
		Prefix: prefix,
		axioms: set.Axioms(),
		index:  make(map[string]struct{}, set.Len()),
		counts: make(map[AxiomKind]int),
	}
	for _, a := range o.axioms {
		o.index[a.String()] = struct{}{}
		o.counts[a.Kind()]++
	}
	return o
}

// Axioms returns the axioms in canonical order.
func (o *Ontology) Axioms() []Axiom { return slices.Clone(o.axioms) }

func (o *Ontology) Len() int { return len(o.axioms) }

// Contains reports whether a structurally identical axiom is present.
func (o *Ontology) Contains(a Axiom) bool {
	_, ok := o.index[a.String()]
	return ok
}

// Count returns the number of axioms of kind k.
func (o *Ontology) Count(k AxiomKind) int { return o.counts[k] }

// Counts returns the per-kind axiom counts keyed by kind name.
func (o *Ontology) Counts() map[string]int {
	out := make(map[string]int, len(o.counts))
	for k, n := range o.counts {
		out[k.String()] = n
	}
	return out
}

// WriteFunctional renders o as an OWL 2 functional-syntax document.
func WriteFunctional(w io.Writer, o *Ontology) error {
	bw := bufio.NewWriter(w)
	if o.Prefix != "" && o.IRI != "" {
		fmt.Fprintf(bw, "Prefix(%s:=<%s>)\n", o.Prefix, Namespace(string(o.IRI)))
	}
	for _, p := range []string{"owl", "rdf", "rdfs", "xml", "xsd"} {
		fmt.Fprintf(bw, "Prefix(%s:=<%s>)\n", p, StandardPrefixes[p])
	}
	bw.WriteString("\n")
	if o.IRI != "" {
		fmt.Fprintf(bw, "Ontology(%s\n", o.IRI)
	} else {
		bw.WriteString("Ontology(\n")
	}
	for _, a := range o.axioms {
		bw.WriteString(a.String())
		bw.WriteByte('\n')
	}
	bw.WriteString(")\n")
	return bw.Flush()
}
