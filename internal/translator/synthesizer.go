package translator

import (
	"github.com/starford/graphol/internal/diagram"
	"github.com/starford/graphol/internal/owl"
)

// synthesizer emits top-level axioms from resolved nodes and from edges.
type synthesizer struct {
	g           *diagram.Graph
	r           *Resolver
	axioms      *owl.AxiomSet
	annotations bool
}

func (s *synthesizer) add(a owl.Axiom) { s.axioms.Add(a) }

// addSet adds a set axiom unless a single distinct operand is left, which
// states nothing.
func (s *synthesizer) addSet(a owl.Axiom) {
	if len(owl.Operands(a)) > 1 {
		s.add(a)
	}
}

var roleFlagAxioms = []struct {
	flag  diagram.PropertyFlags
	axiom func(owl.ObjectPropertyExpression) owl.Axiom
}{
	{diagram.FlagFunctional, owl.FunctionalObjectProperty},
	{diagram.FlagInverseFunctional, owl.InverseFunctionalObjectProperty},
	{diagram.FlagSymmetric, owl.SymmetricObjectProperty},
	{diagram.FlagAsymmetric, owl.AsymmetricObjectProperty},
	{diagram.FlagReflexive, owl.ReflexiveObjectProperty},
	{diagram.FlagIrreflexive, owl.IrreflexiveObjectProperty},
	{diagram.FlagTransitive, owl.TransitiveObjectProperty},
}

// node runs the node pass for n.
func (s *synthesizer) node(n *diagram.Node) error {
	e, err := s.r.Resolve(n)
	if err != nil {
		return err
	}

	if n.Kind.IsPredicate() {
		if ent, ok := e.(owl.Entity); ok {
			s.add(owl.Declaration(ent))
			if s.annotations && n.Special == diagram.SpecialNone && n.Description != "" {
				s.add(owl.AnnotationAssertion(owl.RDFSComment, ent.EntityIRI(), owl.Literal{Lexical: n.Description}))
			}
		}
	}

	switch n.Kind {
	case diagram.KindRole:
		if p, ok := e.(owl.ObjectPropertyExpression); ok {
			for _, f := range roleFlagAxioms {
				if n.Flags.Has(f.flag) {
					s.add(f.axiom(p))
				}
			}
		}
	case diagram.KindAttribute:
		if p, ok := e.(owl.DataPropertyExpression); ok && n.Flags.Has(diagram.FlagFunctional) {
			s.add(owl.FunctionalDataProperty(p))
		}
	case diagram.KindDisjointUnion:
		return s.disjointUnion(n)
	}
	return nil
}

func (s *synthesizer) disjointUnion(n *diagram.Node) error {
	ops := s.g.Operands(n, diagram.EdgeInput, diagram.Any)
	classes := make([]owl.ClassExpression, 0, len(ops))
	for _, op := range ops {
		e, err := s.r.Resolve(op)
		if err != nil {
			return err
		}
		ce, ok := e.(owl.ClassExpression)
		if !ok {
			return unsupportedOperand(n, op)
		}
		classes = append(classes, ce)
	}
	s.addSet(owl.DisjointClasses(classes...))
	return nil
}

// edge runs the edge pass for e.
func (s *synthesizer) edge(e *diagram.Edge) error {
	switch e.Kind {
	case diagram.EdgeInclusion:
		if e.Complete {
			return s.equivalence(e)
		}
		return s.inclusion(e)
	case diagram.EdgeInput:
		if e.Functional {
			return s.functional(e)
		}
	case diagram.EdgeInstanceOf:
		return s.instanceOf(e)
	}
	return nil
}

func (s *synthesizer) endpoints(e *diagram.Edge) (src, dst *diagram.Node, se, de owl.Expression, err error) {
	src, dst = s.g.Source(e), s.g.Target(e)
	if se, err = s.r.Resolve(src); err != nil {
		return
	}
	de, err = s.r.Resolve(dst)
	return
}

func (s *synthesizer) inclusion(e *diagram.Edge) error {
	src, dst, se, de, err := s.endpoints(e)
	if err != nil {
		return err
	}
	mismatch := edgeError(e, ReasonISAMismatch)
	srcNeg := src.Kind == diagram.KindComplement
	dstNeg := dst.Kind == diagram.KindComplement

	switch {
	case src.Identity == diagram.IdentityConcept && dst.Identity == diagram.IdentityConcept:
		sub, ok1 := se.(owl.ClassExpression)
		sup, ok2 := de.(owl.ClassExpression)
		if !ok1 || !ok2 {
			return mismatch
		}
		s.add(owl.SubClassOf(sub, sup))

	case src.Identity == diagram.IdentityRole && dst.Identity == diagram.IdentityRole:
		sup, ok := de.(owl.ObjectPropertyExpression)
		if !ok {
			return mismatch
		}
		if chain, isChain := se.(owl.ObjectPropertyChain); isChain {
			if dstNeg {
				return mismatch
			}
			s.add(owl.SubPropertyChainOf(chain, sup))
			return nil
		}
		sub, ok := se.(owl.ObjectPropertyExpression)
		if !ok {
			return mismatch
		}
		switch {
		case srcNeg && dstNeg:
			// not A below not B is B below A.
			s.add(owl.SubObjectPropertyOf(sup, sub))
		case srcNeg || dstNeg:
			s.addSet(owl.DisjointObjectProperties(sub, sup))
		default:
			s.add(owl.SubObjectPropertyOf(sub, sup))
		}

	case src.Identity == diagram.IdentityAttribute && dst.Identity == diagram.IdentityAttribute:
		sub, ok1 := se.(owl.DataPropertyExpression)
		sup, ok2 := de.(owl.DataPropertyExpression)
		if !ok1 || !ok2 {
			return mismatch
		}
		switch {
		case srcNeg && dstNeg:
			s.add(owl.SubDataPropertyOf(sup, sub))
		case srcNeg || dstNeg:
			s.addSet(owl.DisjointDataProperties(sub, sup))
		default:
			s.add(owl.SubDataPropertyOf(sub, sup))
		}

	case src.Kind == diagram.KindRangeRestriction && dst.Identity == diagram.IdentityDataRange:
		p, ok1 := se.(owl.DataPropertyExpression)
		r, ok2 := de.(owl.DataRange)
		if !ok1 || !ok2 {
			return mismatch
		}
		s.add(owl.DataPropertyRange(p, r))

	default:
		return mismatch
	}
	return nil
}

// equivalence handles complete inclusion edges. Complements and chains have
// no equivalence form.
func (s *synthesizer) equivalence(e *diagram.Edge) error {
	src, dst, se, de, err := s.endpoints(e)
	if err != nil {
		return err
	}
	mismatch := edgeError(e, ReasonEquivalenceMismatch)

	switch {
	case src.Identity == diagram.IdentityConcept && dst.Identity == diagram.IdentityConcept:
		a, ok1 := se.(owl.ClassExpression)
		b, ok2 := de.(owl.ClassExpression)
		if !ok1 || !ok2 {
			return mismatch
		}
		s.addSet(owl.EquivalentClasses(a, b))

	case src.Identity == diagram.IdentityRole && dst.Identity == diagram.IdentityRole:
		if src.Kind == diagram.KindComplement || dst.Kind == diagram.KindComplement {
			return mismatch
		}
		a, ok1 := se.(owl.ObjectPropertyExpression)
		b, ok2 := de.(owl.ObjectPropertyExpression)
		if !ok1 || !ok2 {
			return mismatch
		}
		s.addSet(owl.EquivalentObjectProperties(a, b))

	case src.Identity == diagram.IdentityAttribute && dst.Identity == diagram.IdentityAttribute:
		if src.Kind == diagram.KindComplement || dst.Kind == diagram.KindComplement {
			return mismatch
		}
		a, ok1 := se.(owl.DataPropertyExpression)
		b, ok2 := de.(owl.DataPropertyExpression)
		if !ok1 || !ok2 {
			return mismatch
		}
		s.addSet(owl.EquivalentDataProperties(a, b))

	default:
		return mismatch
	}
	return nil
}

// functional handles input edges flagged functional: into a domain
// restriction the property is functional, into a range restriction it is
// inverse functional.
func (s *synthesizer) functional(e *diagram.Edge) error {
	src, dst, se, _, err := s.endpoints(e)
	if err != nil {
		return err
	}
	switch src.Identity {
	case diagram.IdentityRole:
		p, ok := se.(owl.ObjectPropertyExpression)
		if !ok {
			return edgeError(e, ReasonFunctionalMismatch)
		}
		switch dst.Kind {
		case diagram.KindDomainRestriction:
			s.add(owl.FunctionalObjectProperty(p))
		case diagram.KindRangeRestriction:
			s.add(owl.InverseFunctionalObjectProperty(p))
		default:
			return edgeError(e, ReasonFunctionalMismatch)
		}
	case diagram.IdentityAttribute:
		p, ok := se.(owl.DataPropertyExpression)
		if !ok {
			return edgeError(e, ReasonFunctionalMismatch)
		}
		if dst.Kind != diagram.KindDomainRestriction {
			return edgeError(e, ReasonInverseFunctionalEdge)
		}
		s.add(owl.FunctionalDataProperty(p))
	default:
		return edgeError(e, ReasonFunctionalMismatch)
	}
	return nil
}

func (s *synthesizer) instanceOf(e *diagram.Edge) error {
	src, dst, se, de, err := s.endpoints(e)
	if err != nil {
		return err
	}
	mismatch := edgeError(e, ReasonInstanceOfMismatch)

	switch {
	case src.Identity == diagram.IdentityIndividual && dst.Identity == diagram.IdentityConcept:
		i, ok1 := se.(owl.Individual)
		c, ok2 := de.(owl.ClassExpression)
		if !ok1 || !ok2 {
			return mismatch
		}
		s.add(owl.ClassAssertion(c, i))

	case src.Identity == diagram.IdentityLink && dst.Identity == diagram.IdentityRole:
		pair, ok1 := se.(owl.IndividualPair)
		p, ok2 := de.(owl.ObjectPropertyExpression)
		if !ok1 || !ok2 {
			return mismatch
		}
		obj, ok := pair.Object.(owl.Individual)
		if !ok {
			return mismatch
		}
		s.add(owl.ObjectPropertyAssertion(p, pair.Subject, obj))

	case src.Identity == diagram.IdentityLink && dst.Identity == diagram.IdentityAttribute:
		pair, ok1 := se.(owl.IndividualPair)
		p, ok2 := de.(owl.DataPropertyExpression)
		if !ok1 || !ok2 {
			return mismatch
		}
		value, ok := pair.Object.(owl.Literal)
		if !ok {
			return mismatch
		}
		s.add(owl.DataPropertyAssertion(p, pair.Subject, value))

	default:
		return mismatch
	}
	return nil
}
