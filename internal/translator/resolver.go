package translator

import (
	"fmt"

	"github.com/starford/graphol/internal/diagram"
	"github.com/starford/graphol/internal/owl"
)

// DefaultMaxDepth bounds the operand nesting a Resolver follows.
const DefaultMaxDepth = 256

type rule func(r *Resolver, n *diagram.Node) (owl.Expression, error)

var rules [diagram.KindCount]rule

func init() {
	rules = [diagram.KindCount]rule{
		diagram.KindConcept:             (*Resolver).concept,
		diagram.KindAttribute:           (*Resolver).attribute,
		diagram.KindRole:                (*Resolver).role,
		diagram.KindValueDomain:         (*Resolver).valueDomain,
		diagram.KindIndividual:          (*Resolver).individual,
		diagram.KindValueRestriction:    (*Resolver).valueRestriction,
		diagram.KindComplement:          (*Resolver).complement,
		diagram.KindEnumeration:         (*Resolver).enumeration,
		diagram.KindIntersection:        (*Resolver).intersection,
		diagram.KindUnion:               (*Resolver).union,
		diagram.KindDisjointUnion:       (*Resolver).union,
		diagram.KindDomainRestriction:   (*Resolver).domainRestriction,
		diagram.KindRangeRestriction:    (*Resolver).rangeRestriction,
		diagram.KindRoleChain:           (*Resolver).roleChain,
		diagram.KindRoleInverse:         (*Resolver).roleInverse,
		diagram.KindDatatypeRestriction: (*Resolver).datatypeRestriction,
		diagram.KindPropertyAssertion:   (*Resolver).propertyAssertion,
	}
	for k, fn := range rules {
		if fn == nil {
			panic(fmt.Sprintf("translator: no resolution rule for %s", diagram.Kind(k)))
		}
	}
}

// Resolver turns diagram nodes into OWL expressions. Every node is computed
// at most once; later calls return the cached expression. A Resolver belongs
// to a single run and is not safe for concurrent use.
type Resolver struct {
	g           *diagram.Graph
	ns          string
	cache       *cache
	maxDepth    int
	depth       int
	resolutions int
}

// NewResolver returns a Resolver that names entities inside ontologyIRI.
// A maxDepth <= 0 selects DefaultMaxDepth.
func NewResolver(g *diagram.Graph, ontologyIRI string, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Resolver{
		g:        g,
		ns:       owl.Namespace(ontologyIRI),
		cache:    newCache(len(g.Nodes())),
		maxDepth: maxDepth,
	}
}

// Resolutions returns how many resolution rules have run.
func (r *Resolver) Resolutions() int { return r.resolutions }

// Cached returns the expression of n if it has been resolved.
func (r *Resolver) Cached(n *diagram.Node) (owl.Expression, bool) {
	return r.cache.get(n.ID)
}

// Resolve returns the expression of n, computing it on first use.
func (r *Resolver) Resolve(n *diagram.Node) (owl.Expression, error) {
	s := r.cache.slot(n.ID)
	switch s.state {
	case slotResolved:
		return s.expr, nil
	case slotResolving:
		return nil, nodeError(n, ReasonCyclicOperand)
	}
	if r.depth >= r.maxDepth {
		return nil, nodeError(n, ReasonTooDeep)
	}

	s.state = slotResolving
	r.depth++
	expr, err := rules[n.Kind](r, n)
	r.depth--
	if err != nil {
		s.state = slotUnresolved
		return nil, err
	}
	r.resolutions++
	s.expr, s.state = expr, slotResolved
	return expr, nil
}

func (r *Resolver) iri(n *diagram.Node) owl.IRI {
	return owl.IRI(r.ns + owl.LocalName(n.Label))
}

func (r *Resolver) datatype(n *diagram.Node, curie string) (owl.IRI, error) {
	iri, ok := owl.ExpandCURIE(curie)
	if !ok || !owl.IsDatatype(curie) {
		return "", nodeError(n, ReasonUnsupportedDatatype)
	}
	return iri, nil
}

func (r *Resolver) literal(n *diagram.Node) (owl.Literal, error) {
	l := owl.Literal{Lexical: n.Value}
	if n.Datatype != "" {
		dt, err := r.datatype(n, n.Datatype)
		if err != nil {
			return owl.Literal{}, err
		}
		l.Datatype = dt
	}
	return l, nil
}

func (r *Resolver) concept(n *diagram.Node) (owl.Expression, error) {
	switch n.Special {
	case diagram.SpecialTop:
		return owl.Thing, nil
	case diagram.SpecialBottom:
		return owl.Nothing, nil
	}
	return owl.Class{IRI: r.iri(n)}, nil
}

func (r *Resolver) attribute(n *diagram.Node) (owl.Expression, error) {
	switch n.Special {
	case diagram.SpecialTop:
		return owl.TopDataProperty, nil
	case diagram.SpecialBottom:
		return owl.BottomDataProperty, nil
	}
	return owl.DataProperty{IRI: r.iri(n)}, nil
}

func (r *Resolver) role(n *diagram.Node) (owl.Expression, error) {
	switch n.Special {
	case diagram.SpecialTop:
		return owl.TopObjectProperty, nil
	case diagram.SpecialBottom:
		return owl.BottomObjectProperty, nil
	}
	return owl.ObjectProperty{IRI: r.iri(n)}, nil
}

func (r *Resolver) valueDomain(n *diagram.Node) (owl.Expression, error) {
	if n.Special == diagram.SpecialTop || n.Datatype == "" {
		return owl.TopDatatype, nil
	}
	iri, err := r.datatype(n, n.Datatype)
	if err != nil {
		return nil, err
	}
	return owl.Datatype{IRI: iri}, nil
}

func (r *Resolver) individual(n *diagram.Node) (owl.Expression, error) {
	if n.Identity == diagram.IdentityLiteral {
		return r.literal(n)
	}
	return owl.NamedIndividual{IRI: r.iri(n)}, nil
}

func (r *Resolver) valueRestriction(n *diagram.Node) (owl.Expression, error) {
	facet, ok := owl.ExpandCURIE(n.Facet)
	if !ok || !owl.IsFacet(n.Facet) {
		return nil, nodeError(n, ReasonMissingFacet)
	}
	value, err := r.literal(n)
	if err != nil {
		return nil, err
	}
	return owl.FacetRestriction{Facet: facet, Value: value}, nil
}

// complement wraps class and data range operands. Role and attribute
// operands are cached as the bare property; the edge pass turns an inclusion
// involving them into a disjointness axiom.
func (r *Resolver) complement(n *diagram.Node) (owl.Expression, error) {
	ops := r.g.Operands(n, diagram.EdgeInput, diagram.WithIdentity(
		diagram.IdentityConcept, diagram.IdentityDataRange,
		diagram.IdentityRole, diagram.IdentityAttribute))
	switch {
	case len(ops) == 0:
		return nil, nodeError(n, ReasonMissingOperand)
	case len(ops) > 1:
		return nil, nodeError(n, ReasonTooManyOperands)
	}
	op := ops[0]
	e, err := r.Resolve(op)
	if err != nil {
		return nil, err
	}
	switch op.Identity {
	case diagram.IdentityConcept:
		if ce, ok := e.(owl.ClassExpression); ok {
			return owl.ObjectComplementOf{Operand: ce}, nil
		}
	case diagram.IdentityDataRange:
		if dr, ok := e.(owl.DataRange); ok {
			return owl.DataComplementOf{Operand: dr}, nil
		}
	case diagram.IdentityRole:
		if p, ok := e.(owl.ObjectPropertyExpression); ok {
			return p, nil
		}
	case diagram.IdentityAttribute:
		if p, ok := e.(owl.DataPropertyExpression); ok {
			return p, nil
		}
	}
	return nil, unsupportedOperand(n, op)
}

func (r *Resolver) enumeration(n *diagram.Node) (owl.Expression, error) {
	ops := r.g.Operands(n, diagram.EdgeInput, diagram.OfKind(diagram.KindIndividual))
	if len(ops) == 0 {
		return nil, nodeError(n, ReasonMissingOperands)
	}
	if n.Identity == diagram.IdentityDataRange {
		literals := make([]owl.Literal, 0, len(ops))
		for _, op := range ops {
			e, err := r.Resolve(op)
			if err != nil {
				return nil, err
			}
			l, ok := e.(owl.Literal)
			if !ok {
				return nil, unsupportedOperand(n, op)
			}
			literals = append(literals, l)
		}
		return owl.NewDataOneOf(literals...), nil
	}
	individuals := make([]owl.Individual, 0, len(ops))
	for _, op := range ops {
		e, err := r.Resolve(op)
		if err != nil {
			return nil, err
		}
		i, ok := e.(owl.Individual)
		if !ok {
			return nil, unsupportedOperand(n, op)
		}
		individuals = append(individuals, i)
	}
	return owl.NewObjectOneOf(individuals...), nil
}

func (r *Resolver) intersection(n *diagram.Node) (owl.Expression, error) {
	return r.setOf(n,
		func(ops []owl.ClassExpression) owl.Expression { return owl.ClassIntersection(ops...) },
		func(ops []owl.DataRange) owl.Expression { return owl.DataRangeIntersection(ops...) })
}

// union also serves disjoint unions; their disjointness is asserted by the
// node pass.
func (r *Resolver) union(n *diagram.Node) (owl.Expression, error) {
	data := func(ops []owl.DataRange) owl.Expression { return owl.DataRangeUnion(ops...) }
	if n.Kind == diagram.KindDisjointUnion {
		data = nil
	}
	return r.setOf(n,
		func(ops []owl.ClassExpression) owl.Expression { return owl.ClassUnion(ops...) },
		data)
}

// setOf builds an n-ary class or data range expression, chosen by the
// identity of n. A nil builder rejects that identity.
func (r *Resolver) setOf(
	n *diagram.Node,
	object func([]owl.ClassExpression) owl.Expression,
	data func([]owl.DataRange) owl.Expression,
) (owl.Expression, error) {
	ops := r.g.Operands(n, diagram.EdgeInput, diagram.WithIdentity(diagram.IdentityConcept, diagram.IdentityDataRange))
	if len(ops) == 0 {
		return nil, nodeError(n, ReasonMissingOperands)
	}
	exprs := make([]owl.Expression, len(ops))
	for i, op := range ops {
		e, err := r.Resolve(op)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}

	switch {
	case n.Identity == diagram.IdentityConcept && object != nil:
		classes := make([]owl.ClassExpression, len(ops))
		for i, e := range exprs {
			ce, ok := e.(owl.ClassExpression)
			if !ok {
				return nil, unsupportedOperand(n, ops[i])
			}
			classes[i] = ce
		}
		return object(classes), nil
	case n.Identity == diagram.IdentityDataRange && data != nil:
		ranges := make([]owl.DataRange, len(ops))
		for i, e := range exprs {
			dr, ok := e.(owl.DataRange)
			if !ok {
				return nil, unsupportedOperand(n, ops[i])
			}
			ranges[i] = dr
		}
		return data(ranges), nil
	}
	return nil, unsupportedOperand(n, ops[0])
}

func (r *Resolver) domainRestriction(n *diagram.Node) (owl.Expression, error) {
	prop := r.g.FirstOperand(n, diagram.EdgeInput, diagram.WithIdentity(diagram.IdentityRole, diagram.IdentityAttribute))
	if prop == nil {
		return nil, nodeError(n, ReasonMissingOperands)
	}
	if prop.Identity == diagram.IdentityAttribute {
		dp, err := r.dataProperty(n, prop)
		if err != nil {
			return nil, err
		}
		filler, err := r.dataFiller(n)
		if err != nil {
			return nil, err
		}
		return r.dataRestriction(n, dp, filler)
	}
	op, err := r.objectProperty(n, prop)
	if err != nil {
		return nil, err
	}
	filler, err := r.classFiller(n)
	if err != nil {
		return nil, err
	}
	return r.objectRestriction(n, op, filler)
}

// rangeRestriction restricts the inverse of a role. Over an attribute it
// resolves to the attribute itself, which an inclusion into a data range
// turns into a range axiom.
func (r *Resolver) rangeRestriction(n *diagram.Node) (owl.Expression, error) {
	prop := r.g.FirstOperand(n, diagram.EdgeInput, diagram.WithIdentity(diagram.IdentityRole, diagram.IdentityAttribute))
	if prop == nil {
		return nil, nodeError(n, ReasonMissingOperand)
	}
	if prop.Identity == diagram.IdentityAttribute {
		return r.dataProperty(n, prop)
	}
	op, err := r.objectProperty(n, prop)
	if err != nil {
		return nil, err
	}
	filler, err := r.classFiller(n)
	if err != nil {
		return nil, err
	}
	return r.objectRestriction(n, owl.Inverse(op), filler)
}

func (r *Resolver) objectProperty(n, prop *diagram.Node) (owl.ObjectPropertyExpression, error) {
	if prop.Kind != diagram.KindRole && prop.Kind != diagram.KindRoleInverse {
		return nil, unsupportedOperand(n, prop)
	}
	e, err := r.Resolve(prop)
	if err != nil {
		return nil, err
	}
	p, ok := e.(owl.ObjectPropertyExpression)
	if !ok {
		return nil, unsupportedOperand(n, prop)
	}
	return p, nil
}

func (r *Resolver) dataProperty(n, prop *diagram.Node) (owl.DataPropertyExpression, error) {
	if prop.Kind != diagram.KindAttribute {
		return nil, unsupportedOperand(n, prop)
	}
	e, err := r.Resolve(prop)
	if err != nil {
		return nil, err
	}
	p, ok := e.(owl.DataPropertyExpression)
	if !ok {
		return nil, unsupportedOperand(n, prop)
	}
	return p, nil
}

func (r *Resolver) classFiller(n *diagram.Node) (owl.ClassExpression, error) {
	op := r.g.FirstOperand(n, diagram.EdgeInput, diagram.WithIdentity(diagram.IdentityConcept))
	if op == nil {
		return owl.Thing, nil
	}
	e, err := r.Resolve(op)
	if err != nil {
		return nil, err
	}
	ce, ok := e.(owl.ClassExpression)
	if !ok {
		return nil, unsupportedOperand(n, op)
	}
	return ce, nil
}

func (r *Resolver) dataFiller(n *diagram.Node) (owl.DataRange, error) {
	op := r.g.FirstOperand(n, diagram.EdgeInput, diagram.WithIdentity(diagram.IdentityDataRange))
	if op == nil {
		return owl.TopDatatype, nil
	}
	e, err := r.Resolve(op)
	if err != nil {
		return nil, err
	}
	dr, ok := e.(owl.DataRange)
	if !ok {
		return nil, unsupportedOperand(n, op)
	}
	return dr, nil
}

// objectRestriction applies the quantifier of n. A node without a
// quantifier is existential.
func (r *Resolver) objectRestriction(n *diagram.Node, p owl.ObjectPropertyExpression, filler owl.ClassExpression) (owl.Expression, error) {
	switch n.Restriction {
	case diagram.RestrictionSelf:
		return owl.ObjectHasSelf{Property: p}, nil
	case diagram.RestrictionForall:
		return owl.ObjectAllValuesFrom{Property: p, Filler: filler}, nil
	case diagram.RestrictionCardinality:
		var parts []owl.ClassExpression
		if c := n.Cardinality; c.Min != nil {
			parts = append(parts, owl.ObjectMinCardinality{N: *c.Min, Property: p, Filler: filler})
		}
		if c := n.Cardinality; c.Max != nil {
			parts = append(parts, owl.ObjectMaxCardinality{N: *c.Max, Property: p, Filler: filler})
		}
		return cardinality(n, parts)
	}
	return owl.ObjectSomeValuesFrom{Property: p, Filler: filler}, nil
}

func (r *Resolver) dataRestriction(n *diagram.Node, p owl.DataPropertyExpression, filler owl.DataRange) (owl.Expression, error) {
	switch n.Restriction {
	case diagram.RestrictionSelf:
		return nil, nodeError(n, ReasonUnsupportedRestriction)
	case diagram.RestrictionForall:
		return owl.DataAllValuesFrom{Property: p, Filler: filler}, nil
	case diagram.RestrictionCardinality:
		var parts []owl.ClassExpression
		if c := n.Cardinality; c.Min != nil {
			parts = append(parts, owl.DataMinCardinality{N: *c.Min, Property: p, Filler: filler})
		}
		if c := n.Cardinality; c.Max != nil {
			parts = append(parts, owl.DataMaxCardinality{N: *c.Max, Property: p, Filler: filler})
		}
		return cardinality(n, parts)
	}
	return owl.DataSomeValuesFrom{Property: p, Filler: filler}, nil
}

// cardinality returns a single bound as is and intersects two bounds.
// Data cardinality restrictions are class expressions too.
func cardinality(n *diagram.Node, parts []owl.ClassExpression) (owl.Expression, error) {
	switch len(parts) {
	case 0:
		return nil, nodeError(n, ReasonMissingCardinality)
	case 1:
		return parts[0], nil
	}
	return owl.NewObjectIntersectionOf(parts...), nil
}

func (r *Resolver) roleInverse(n *diagram.Node) (owl.Expression, error) {
	op := r.g.FirstOperand(n, diagram.EdgeInput, diagram.OfKind(diagram.KindRole))
	if op == nil {
		return nil, nodeError(n, ReasonMissingOperand)
	}
	p, err := r.objectProperty(n, op)
	if err != nil {
		return nil, err
	}
	return owl.Inverse(p), nil
}

func (r *Resolver) roleChain(n *diagram.Node) (owl.Expression, error) {
	ops := r.g.Inputs(n)
	if len(ops) == 0 {
		return nil, nodeError(n, ReasonMissingOperands)
	}
	chain := make([]owl.ObjectPropertyExpression, 0, len(ops))
	for _, op := range ops {
		p, err := r.objectProperty(n, op)
		if err != nil {
			return nil, err
		}
		chain = append(chain, p)
	}
	return owl.ObjectPropertyChain{Properties: chain}, nil
}

func (r *Resolver) propertyAssertion(n *diagram.Node) (owl.Expression, error) {
	ops := r.g.Inputs(n)
	switch {
	case len(ops) < 2:
		return nil, nodeError(n, ReasonMissingOperands)
	case len(ops) > 2:
		return nil, nodeError(n, ReasonTooManyOperands)
	}
	exprs := make([]owl.Expression, 2)
	for i, op := range ops {
		if op.Kind != diagram.KindIndividual {
			return nil, unsupportedOperand(n, op)
		}
		e, err := r.Resolve(op)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	subject, ok := exprs[0].(owl.Individual)
	if !ok {
		return nil, unsupportedOperand(n, ops[0])
	}
	return owl.IndividualPair{Subject: subject, Object: exprs[1]}, nil
}

func (r *Resolver) datatypeRestriction(n *diagram.Node) (owl.Expression, error) {
	vd := r.g.FirstOperand(n, diagram.EdgeInput, diagram.OfKind(diagram.KindValueDomain))
	if vd == nil {
		return nil, nodeError(n, ReasonMissingValueDomain)
	}
	e, err := r.Resolve(vd)
	if err != nil {
		return nil, err
	}
	dt, ok := e.(owl.Datatype)
	if !ok {
		return nil, unsupportedOperand(n, vd)
	}

	ops := r.g.Operands(n, diagram.EdgeInput, diagram.OfKind(diagram.KindValueRestriction))
	if len(ops) == 0 {
		return nil, nodeError(n, ReasonMissingValueRestrictions)
	}
	facets := make([]owl.FacetRestriction, 0, len(ops))
	for _, op := range ops {
		e, err := r.Resolve(op)
		if err != nil {
			return nil, err
		}
		f, ok := e.(owl.FacetRestriction)
		if !ok {
			return nil, unsupportedOperand(n, op)
		}
		facets = append(facets, f)
	}
	return owl.NewDatatypeRestriction(dt, facets...), nil
}
