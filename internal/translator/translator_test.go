package translator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/graphol/internal/diagram"
	"github.com/starford/graphol/internal/owl"
)

const testIRI = "http://example.org/onto"

func class(name string) owl.Class         { return owl.Class{IRI: owl.IRI(testIRI + "#" + name)} }
func role(name string) owl.ObjectProperty { return owl.ObjectProperty{IRI: owl.IRI(testIRI + "#" + name)} }
func attr(name string) owl.DataProperty   { return owl.DataProperty{IRI: owl.IRI(testIRI + "#" + name)} }
func ind(name string) owl.NamedIndividual { return owl.NamedIndividual{IRI: owl.IRI(testIRI + "#" + name)} }

func xsd(name string) owl.IRI { return owl.IRI(owl.NamespaceXSD + name) }

type recorder struct {
	started   int
	total     int
	progress  []int
	completed *Result
	err       error
	onStart   func()
}

func (r *recorder) Started(total int) {
	r.started++
	r.total = total
	if r.onStart != nil {
		r.onStart()
	}
}
func (r *recorder) Progress(count, total int) { r.progress = append(r.progress, count) }
func (r *recorder) Completed(res *Result)     { r.completed = res }
func (r *recorder) Errored(err error)         { r.err = err }

func translate(t *testing.T, g *diagram.Graph, opts ...Option) *owl.Ontology {
	t.Helper()
	res, err := New(append([]Option{WithOntologyIRI(testIRI)}, opts...)...).Run(g, nil)
	require.NoError(t, err)
	return res.Ontology
}

func translateErr(t *testing.T, g *diagram.Graph) *MalformedDiagramError {
	t.Helper()
	res, err := New(WithOntologyIRI(testIRI)).Run(g, nil)
	require.Error(t, err)
	assert.Nil(t, res)
	var merr *MalformedDiagramError
	require.True(t, errors.As(err, &merr), "unexpected error %v", err)
	return merr
}

func TestRuleTableCoversEveryKind(t *testing.T) {
	for k := diagram.Kind(0); k < diagram.KindCount; k++ {
		assert.NotNil(t, rules[k], "kind %s", k)
	}
}

func TestPersonStudent(t *testing.T) {
	b := diagram.NewBuilder()
	person := b.Node(diagram.KindConcept, "Person")
	student := b.Node(diagram.KindConcept, "Student")
	b.Edge(diagram.EdgeInclusion, student, person)

	o := translate(t, b.Graph())
	assert.Equal(t, 3, o.Len())
	assert.True(t, o.Contains(owl.Declaration(class("Person"))))
	assert.True(t, o.Contains(owl.Declaration(class("Student"))))
	assert.True(t, o.Contains(owl.SubClassOf(class("Student"), class("Person"))))
}

func TestCompleteInclusionIsEquivalence(t *testing.T) {
	b := diagram.NewBuilder()
	a := b.Node(diagram.KindConcept, "A")
	c := b.Node(diagram.KindConcept, "B")
	b.Edge(diagram.EdgeInclusion, a, c, diagram.Complete())

	o := translate(t, b.Graph())
	assert.True(t, o.Contains(owl.EquivalentClasses(class("A"), class("B"))))
	assert.Equal(t, 0, o.Count(owl.AxiomSubClassOf))
}

func TestCompleteInclusionBetweenRoles(t *testing.T) {
	b := diagram.NewBuilder()
	r := b.Node(diagram.KindRole, "r")
	q := b.Node(diagram.KindRole, "q")
	b.Edge(diagram.EdgeInclusion, r, q, diagram.Complete())

	o := translate(t, b.Graph())
	assert.True(t, o.Contains(owl.EquivalentObjectProperties(role("q"), role("r"))))
	assert.Equal(t, 0, o.Count(owl.AxiomSubObjectPropertyOf))
}

func TestComplementOfConcept(t *testing.T) {
	b := diagram.NewBuilder()
	a := b.Node(diagram.KindConcept, "A")
	c := b.Node(diagram.KindConcept, "B")
	not := b.Node(diagram.KindComplement, "")
	b.Input(a, not)
	b.Edge(diagram.EdgeInclusion, c, not)
	g := b.Graph()

	e, err := NewResolver(g, testIRI, 0).Resolve(g.Node(not))
	require.NoError(t, err)
	assert.Equal(t, owl.ObjectComplementOf{Operand: class("A")}, e)

	o := translate(t, g)
	assert.True(t, o.Contains(owl.SubClassOf(class("B"), owl.ObjectComplementOf{Operand: class("A")})))
}

func TestComplementOfValueDomain(t *testing.T) {
	b := diagram.NewBuilder()
	age := b.Node(diagram.KindAttribute, "age")
	rng := b.Node(diagram.KindRangeRestriction, "")
	b.Input(age, rng)
	integer := b.Node(diagram.KindValueDomain, "", diagram.WithDatatype("xsd:integer"))
	not := b.Node(diagram.KindComplement, "")
	b.Input(integer, not)
	b.Edge(diagram.EdgeInclusion, rng, not)
	g := b.Graph()

	want := owl.DataComplementOf{Operand: owl.Datatype{IRI: xsd("integer")}}
	e, err := NewResolver(g, testIRI, 0).Resolve(g.Node(not))
	require.NoError(t, err)
	assert.Equal(t, want, e)

	o := translate(t, g)
	assert.True(t, o.Contains(owl.DataPropertyRange(attr("age"), want)))
}

func TestDataRangeSets(t *testing.T) {
	b := diagram.NewBuilder()
	integer := b.Node(diagram.KindValueDomain, "", diagram.WithDatatype("xsd:integer"))
	decimal := b.Node(diagram.KindValueDomain, "", diagram.WithDatatype("xsd:decimal"))
	and := b.Node(diagram.KindIntersection, "")
	or := b.Node(diagram.KindUnion, "")
	for _, op := range []diagram.NodeID{integer, decimal} {
		b.Input(op, and)
		b.Input(op, or)
	}
	g := b.Graph()
	require.Equal(t, diagram.IdentityDataRange, g.Node(and).Identity)

	ranges := []owl.DataRange{owl.Datatype{IRI: xsd("integer")}, owl.Datatype{IRI: xsd("decimal")}}
	r := NewResolver(g, testIRI, 0)
	e, err := r.Resolve(g.Node(and))
	require.NoError(t, err)
	assert.Equal(t, owl.NewDataIntersectionOf(ranges...), e)
	e, err = r.Resolve(g.Node(or))
	require.NoError(t, err)
	assert.Equal(t, owl.NewDataUnionOf(ranges...), e)
}

func TestDuplicateOperandsCollapse(t *testing.T) {
	b := diagram.NewBuilder()
	a1 := b.Node(diagram.KindConcept, "A")
	a2 := b.Node(diagram.KindConcept, "A")
	c := b.Node(diagram.KindConcept, "C")
	and := b.Node(diagram.KindIntersection, "")
	b.Input(a1, and)
	b.Input(a2, and)
	b.Edge(diagram.EdgeInclusion, and, c)
	b.Edge(diagram.EdgeInclusion, a1, a2, diagram.Complete())

	o := translate(t, b.Graph())
	assert.True(t, o.Contains(owl.SubClassOf(class("A"), class("C"))))
	assert.Equal(t, 0, o.Count(owl.AxiomEquivalentClasses))
	for _, a := range o.Axioms() {
		assert.NotContains(t, a.String(), "ObjectIntersectionOf")
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	b := diagram.NewBuilder()
	a := b.Node(diagram.KindConcept, "A")
	c := b.Node(diagram.KindConcept, "B")
	and := b.Node(diagram.KindIntersection, "")
	or := b.Node(diagram.KindUnion, "")
	b.Input(a, and)
	b.Input(c, or)
	b.Input(a, or)
	b.Input(or, and)
	g := b.Graph()

	r := NewResolver(g, testIRI, 0)
	first, err := r.Resolve(g.Node(and))
	require.NoError(t, err)
	// A is shared by both constructors and is still computed once.
	assert.Equal(t, 4, r.Resolutions())

	second, err := r.Resolve(g.Node(and))
	require.NoError(t, err)
	assert.Equal(t, 4, r.Resolutions())
	assert.Equal(t, first.String(), second.String())

	cached, ok := r.Cached(g.Node(a))
	require.True(t, ok)
	assert.Equal(t, class("A"), cached)
}

func TestDeterministic(t *testing.T) {
	b := diagram.NewBuilder()
	a := b.Node(diagram.KindConcept, "A")
	c := b.Node(diagram.KindConcept, "B")
	d := b.Node(diagram.KindConcept, "C")
	u := b.Node(diagram.KindUnion, "")
	b.Input(a, u)
	b.Input(c, u)
	b.Edge(diagram.EdgeInclusion, u, d)
	g := b.Graph()

	first := translate(t, g)
	second := translate(t, g)
	assert.Equal(t, render(first), render(second))
}

func render(o *owl.Ontology) []string {
	var out []string
	for _, a := range o.Axioms() {
		out = append(out, a.String())
	}
	return out
}

func TestDeclarationPerPredicate(t *testing.T) {
	b := diagram.NewBuilder()
	b.Node(diagram.KindConcept, "Person")
	b.Node(diagram.KindConcept, "Person")
	b.Node(diagram.KindRole, "knows")
	b.Node(diagram.KindAttribute, "age")
	b.Node(diagram.KindValueDomain, "", diagram.WithDatatype("xsd:string"))
	b.Node(diagram.KindConcept, "", diagram.WithSpecial(diagram.SpecialTop))

	o := translate(t, b.Graph())
	assert.Equal(t, 5, o.Count(owl.AxiomDeclaration))
	assert.True(t, o.Contains(owl.Declaration(class("Person"))))
	assert.True(t, o.Contains(owl.Declaration(role("knows"))))
	assert.True(t, o.Contains(owl.Declaration(attr("age"))))
	assert.True(t, o.Contains(owl.Declaration(owl.Datatype{IRI: xsd("string")})))
	assert.True(t, o.Contains(owl.Declaration(owl.Thing)))
}

func TestDeclarationForSpecialNodes(t *testing.T) {
	b := diagram.NewBuilder()
	b.Node(diagram.KindConcept, "", diagram.WithSpecial(diagram.SpecialTop))
	b.Node(diagram.KindConcept, "", diagram.WithSpecial(diagram.SpecialBottom))
	b.Node(diagram.KindRole, "", diagram.WithSpecial(diagram.SpecialBottom))
	b.Node(diagram.KindAttribute, "", diagram.WithSpecial(diagram.SpecialTop))
	b.Node(diagram.KindValueDomain, "", diagram.WithSpecial(diagram.SpecialTop))

	o := translate(t, b.Graph())
	assert.Equal(t, 5, o.Count(owl.AxiomDeclaration))
	assert.True(t, o.Contains(owl.Declaration(owl.Thing)))
	assert.True(t, o.Contains(owl.Declaration(owl.Nothing)))
	assert.True(t, o.Contains(owl.Declaration(owl.BottomObjectProperty)))
	assert.True(t, o.Contains(owl.Declaration(owl.TopDataProperty)))
	assert.True(t, o.Contains(owl.Declaration(owl.TopDatatype)))
}

func TestDisjointUnion(t *testing.T) {
	b := diagram.NewBuilder()
	u := b.Node(diagram.KindDisjointUnion, "")
	for _, name := range []string{"A", "B", "C"} {
		b.Input(b.Node(diagram.KindConcept, name), u)
	}

	o := translate(t, b.Graph())
	assert.Equal(t, 1, o.Count(owl.AxiomDisjointClasses))
	assert.True(t, o.Contains(owl.DisjointClasses(class("A"), class("B"), class("C"))))
}

func TestEmptyDisjointUnionFails(t *testing.T) {
	b := diagram.NewBuilder()
	b.Node(diagram.KindDisjointUnion, "", diagram.WithKey("du"))

	merr := translateErr(t, b.Graph())
	assert.Equal(t, ReasonMissingOperands, merr.Reason)
	assert.Equal(t, "du", merr.Element())
}

func TestCardinality(t *testing.T) {
	b := diagram.NewBuilder()
	r := b.Node(diagram.KindRole, "R")
	c := b.Node(diagram.KindConcept, "C")
	both := b.Node(diagram.KindDomainRestriction, "", diagram.WithMin(1), diagram.WithMax(3))
	b.Input(r, both)
	b.Input(c, both)
	single := b.Node(diagram.KindDomainRestriction, "", diagram.WithMin(2))
	b.Input(r, single)
	g := b.Graph()

	res := NewResolver(g, testIRI, 0)
	e, err := res.Resolve(g.Node(both))
	require.NoError(t, err)
	want := owl.NewObjectIntersectionOf(
		owl.ObjectMinCardinality{N: 1, Property: role("R"), Filler: class("C")},
		owl.ObjectMaxCardinality{N: 3, Property: role("R"), Filler: class("C")},
	)
	assert.Equal(t, want.String(), e.String())

	e, err = res.Resolve(g.Node(single))
	require.NoError(t, err)
	assert.Equal(t, owl.ObjectMinCardinality{N: 2, Property: role("R"), Filler: owl.Thing}, e)
}

func TestMissingCardinality(t *testing.T) {
	b := diagram.NewBuilder()
	r := b.Node(diagram.KindRole, "R")
	n := b.Node(diagram.KindDomainRestriction, "", diagram.WithRestriction(diagram.RestrictionCardinality))
	b.Input(r, n)

	assert.Equal(t, ReasonMissingCardinality, translateErr(t, b.Graph()).Reason)
}

func TestDataCardinalityUsesMaxBound(t *testing.T) {
	b := diagram.NewBuilder()
	a := b.Node(diagram.KindAttribute, "age")
	n := b.Node(diagram.KindDomainRestriction, "", diagram.WithMax(1))
	b.Input(a, n)
	g := b.Graph()

	e, err := NewResolver(g, testIRI, 0).Resolve(g.Node(n))
	require.NoError(t, err)
	assert.Equal(t, owl.DataMaxCardinality{N: 1, Property: attr("age"), Filler: owl.TopDatatype}, e)
}

func TestMalformedHaltsWithoutOutput(t *testing.T) {
	b := diagram.NewBuilder()
	person := b.Node(diagram.KindConcept, "Person")
	student := b.Node(diagram.KindConcept, "Student")
	b.Edge(diagram.EdgeInclusion, student, person)
	not := b.Node(diagram.KindComplement, "", diagram.WithKey("not"))
	b.Input(person, not)
	b.Input(student, not)

	tr := New(WithOntologyIRI(testIRI))
	obs := &recorder{}
	res, err := tr.Run(b.Graph(), obs)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Nil(t, obs.completed)
	assert.Equal(t, err, obs.err)
	assert.Equal(t, StateFailed, tr.State())

	var merr *MalformedDiagramError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, ReasonTooManyOperands, merr.Reason)
	assert.Equal(t, "not", merr.Element())
	assert.EqualError(t, err, "malformed diagram: not: too many operands")
}

func TestCyclicOperand(t *testing.T) {
	b := diagram.NewBuilder()
	concept := diagram.WithNodeIdentity(diagram.IdentityConcept)
	c1 := b.Node(diagram.KindComplement, "", concept, diagram.WithKey("c1"))
	c2 := b.Node(diagram.KindComplement, "", concept, diagram.WithKey("c2"))
	b.Input(c1, c2)
	b.Input(c2, c1)

	merr := translateErr(t, b.Graph())
	assert.Equal(t, ReasonCyclicOperand, merr.Reason)
	assert.Equal(t, "c1", merr.Element())
}

func TestDepthBound(t *testing.T) {
	b := diagram.NewBuilder()
	prev := b.Node(diagram.KindConcept, "A")
	for i := 0; i < 10; i++ {
		next := b.Node(diagram.KindComplement, "")
		b.Input(prev, next)
		prev = next
	}
	g := b.Graph()

	_, err := NewResolver(g, testIRI, 4).Resolve(g.Node(prev))
	var merr *MalformedDiagramError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, ReasonTooDeep, merr.Reason)

	_, err = NewResolver(g, testIRI, 0).Resolve(g.Node(prev))
	assert.NoError(t, err)
}

func TestBusyTranslator(t *testing.T) {
	b := diagram.NewBuilder()
	b.Node(diagram.KindConcept, "A")
	g := b.Graph()

	tr := New(WithOntologyIRI(testIRI))
	var nested error
	obs := &recorder{onStart: func() {
		assert.Equal(t, StateRunning, tr.State())
		_, nested = tr.Run(g, nil)
	}}
	_, err := tr.Run(g, obs)
	require.NoError(t, err)
	assert.ErrorIs(t, nested, ErrBusy)
	assert.Equal(t, StateCompleted, tr.State())

	// The translator accepts a new run once the previous one finished.
	_, err = tr.Run(g, nil)
	assert.NoError(t, err)
}

func TestProgress(t *testing.T) {
	b := diagram.NewBuilder()
	a := b.Node(diagram.KindConcept, "A")
	c := b.Node(diagram.KindConcept, "B")
	b.Edge(diagram.EdgeInclusion, a, c)

	tr := New(WithOntologyIRI(testIRI))
	obs := &recorder{}
	res, err := tr.Run(b.Graph(), obs)
	require.NoError(t, err)
	assert.Equal(t, 1, obs.started)
	assert.Equal(t, 3, obs.total)
	assert.Equal(t, []int{1, 2, 3}, obs.progress)
	assert.Same(t, res, obs.completed)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 2, res.Nodes)
	assert.Equal(t, 1, res.Edges)
}

func TestRoleAxioms(t *testing.T) {
	b := diagram.NewBuilder()
	r1 := b.Node(diagram.KindRole, "r1", diagram.WithFlags(diagram.FlagSymmetric|diagram.FlagTransitive))
	r2 := b.Node(diagram.KindRole, "r2")
	r3 := b.Node(diagram.KindRole, "r3")

	chain := b.Node(diagram.KindRoleChain, "")
	e1 := b.Input(r1, chain)
	e2 := b.Input(r2, chain)
	b.SetInputs(chain, e2, e1)
	b.Edge(diagram.EdgeInclusion, chain, r3)

	not2 := b.Node(diagram.KindComplement, "")
	b.Input(r2, not2)
	b.Edge(diagram.EdgeInclusion, r1, not2)

	not3 := b.Node(diagram.KindComplement, "")
	b.Input(r3, not3)
	b.Edge(diagram.EdgeInclusion, not2, not3)

	inv := b.Node(diagram.KindRoleInverse, "")
	b.Input(r3, inv)
	b.Edge(diagram.EdgeInclusion, inv, r1)

	o := translate(t, b.Graph())
	assert.True(t, o.Contains(owl.SymmetricObjectProperty(role("r1"))))
	assert.True(t, o.Contains(owl.TransitiveObjectProperty(role("r1"))))
	assert.Equal(t, 0, o.Count(owl.AxiomReflexiveObjectProperty))
	assert.True(t, o.Contains(owl.SubPropertyChainOf(
		owl.ObjectPropertyChain{Properties: []owl.ObjectPropertyExpression{role("r2"), role("r1")}}, role("r3"))))
	assert.True(t, o.Contains(owl.DisjointObjectProperties(role("r1"), role("r2"))))
	assert.True(t, o.Contains(owl.SubObjectPropertyOf(role("r3"), role("r2"))))
	assert.True(t, o.Contains(owl.SubObjectPropertyOf(owl.ObjectInverseOf{Property: role("r3")}, role("r1"))))
}

func TestAttributeAxioms(t *testing.T) {
	b := diagram.NewBuilder()
	age := b.Node(diagram.KindAttribute, "age", diagram.WithFlags(diagram.FlagFunctional))
	years := b.Node(diagram.KindAttribute, "years")
	name := b.Node(diagram.KindAttribute, "name")
	b.Edge(diagram.EdgeInclusion, years, age, diagram.Complete())

	notName := b.Node(diagram.KindComplement, "")
	b.Input(name, notName)
	b.Edge(diagram.EdgeInclusion, age, notName)

	rng := b.Node(diagram.KindRangeRestriction, "")
	b.Input(age, rng)
	integer := b.Node(diagram.KindValueDomain, "", diagram.WithDatatype("xsd:integer"))
	b.Edge(diagram.EdgeInclusion, rng, integer)

	o := translate(t, b.Graph())
	assert.True(t, o.Contains(owl.FunctionalDataProperty(attr("age"))))
	assert.True(t, o.Contains(owl.EquivalentDataProperties(attr("age"), attr("years"))))
	assert.True(t, o.Contains(owl.DisjointDataProperties(attr("age"), attr("name"))))
	assert.True(t, o.Contains(owl.DataPropertyRange(attr("age"), owl.Datatype{IRI: xsd("integer")})))
}

func TestFunctionalEdges(t *testing.T) {
	b := diagram.NewBuilder()
	r := b.Node(diagram.KindRole, "r")
	a := b.Node(diagram.KindAttribute, "a")
	dom := b.Node(diagram.KindDomainRestriction, "")
	b.Input(r, dom, diagram.Functional())
	rng := b.Node(diagram.KindRangeRestriction, "")
	b.Input(r, rng, diagram.Functional())
	adom := b.Node(diagram.KindDomainRestriction, "")
	b.Input(a, adom, diagram.Functional())

	o := translate(t, b.Graph())
	assert.True(t, o.Contains(owl.FunctionalObjectProperty(role("r"))))
	assert.True(t, o.Contains(owl.InverseFunctionalObjectProperty(role("r"))))
	assert.True(t, o.Contains(owl.FunctionalDataProperty(attr("a"))))
}

func TestAssertions(t *testing.T) {
	b := diagram.NewBuilder()
	person := b.Node(diagram.KindConcept, "Person")
	knows := b.Node(diagram.KindRole, "knows")
	age := b.Node(diagram.KindAttribute, "age")
	alice := b.Node(diagram.KindIndividual, "alice")
	bob := b.Node(diagram.KindIndividual, "bob")
	thirty := b.Node(diagram.KindIndividual, "", diagram.WithValue("30"), diagram.WithDatatype("xsd:integer"))

	b.Edge(diagram.EdgeInstanceOf, alice, person)

	link := b.Node(diagram.KindPropertyAssertion, "")
	b.Input(alice, link)
	b.Input(bob, link)
	b.Edge(diagram.EdgeInstanceOf, link, knows)

	value := b.Node(diagram.KindPropertyAssertion, "")
	b.Input(alice, value)
	b.Input(thirty, value)
	b.Edge(diagram.EdgeInstanceOf, value, age)

	o := translate(t, b.Graph())
	assert.True(t, o.Contains(owl.ClassAssertion(class("Person"), ind("alice"))))
	assert.True(t, o.Contains(owl.ObjectPropertyAssertion(role("knows"), ind("alice"), ind("bob"))))
	assert.True(t, o.Contains(owl.DataPropertyAssertion(attr("age"), ind("alice"),
		owl.Literal{Lexical: "30", Datatype: xsd("integer")})))
}

func TestPropertyAssertionOperandCount(t *testing.T) {
	b := diagram.NewBuilder()
	alice := b.Node(diagram.KindIndividual, "alice")
	link := b.Node(diagram.KindPropertyAssertion, "")
	b.Input(alice, link)
	assert.Equal(t, ReasonMissingOperands, translateErr(t, b.Graph()).Reason)

	b = diagram.NewBuilder()
	link = b.Node(diagram.KindPropertyAssertion, "")
	for _, name := range []string{"a", "b", "c"} {
		b.Input(b.Node(diagram.KindIndividual, name), link)
	}
	assert.Equal(t, ReasonTooManyOperands, translateErr(t, b.Graph()).Reason)
}

func TestEnumerationAndDatatypeRestriction(t *testing.T) {
	b := diagram.NewBuilder()
	weekday := b.Node(diagram.KindConcept, "Weekday")
	enum := b.Node(diagram.KindEnumeration, "")
	b.Input(b.Node(diagram.KindIndividual, "monday"), enum)
	b.Input(b.Node(diagram.KindIndividual, "tuesday"), enum)
	b.Edge(diagram.EdgeInclusion, enum, weekday, diagram.Complete())

	age := b.Node(diagram.KindAttribute, "age")
	integer := b.Node(diagram.KindValueDomain, "", diagram.WithDatatype("xsd:integer"))
	facet := b.Node(diagram.KindValueRestriction, "",
		diagram.WithFacet("xsd:minInclusive"), diagram.WithValue("18"), diagram.WithDatatype("xsd:integer"))
	restricted := b.Node(diagram.KindDatatypeRestriction, "")
	b.Input(integer, restricted)
	b.Input(facet, restricted)
	adult := b.Node(diagram.KindDomainRestriction, "")
	b.Input(age, adult)
	b.Input(restricted, adult)
	b.Edge(diagram.EdgeInclusion, adult, b.Node(diagram.KindConcept, "Adult"))

	o := translate(t, b.Graph())
	assert.True(t, o.Contains(owl.EquivalentClasses(
		owl.NewObjectOneOf(ind("monday"), ind("tuesday")), class("Weekday"))))

	dr := owl.NewDatatypeRestriction(owl.Datatype{IRI: xsd("integer")}, owl.FacetRestriction{
		Facet: xsd("minInclusive"),
		Value: owl.Literal{Lexical: "18", Datatype: xsd("integer")},
	})
	assert.True(t, o.Contains(owl.SubClassOf(
		owl.DataSomeValuesFrom{Property: attr("age"), Filler: dr}, class("Adult"))))
}

func TestDatatypeRestrictionOperands(t *testing.T) {
	b := diagram.NewBuilder()
	b.Node(diagram.KindDatatypeRestriction, "")
	assert.Equal(t, ReasonMissingValueDomain, translateErr(t, b.Graph()).Reason)

	b = diagram.NewBuilder()
	n := b.Node(diagram.KindDatatypeRestriction, "")
	b.Input(b.Node(diagram.KindValueDomain, "", diagram.WithDatatype("xsd:string")), n)
	assert.Equal(t, ReasonMissingValueRestrictions, translateErr(t, b.Graph()).Reason)
}

func TestSelfRestriction(t *testing.T) {
	b := diagram.NewBuilder()
	r := b.Node(diagram.KindRole, "loves")
	self := b.Node(diagram.KindDomainRestriction, "", diagram.WithRestriction(diagram.RestrictionSelf))
	b.Input(r, self)
	g := b.Graph()
	e, err := NewResolver(g, testIRI, 0).Resolve(g.Node(self))
	require.NoError(t, err)
	assert.Equal(t, owl.ObjectHasSelf{Property: role("loves")}, e)

	b = diagram.NewBuilder()
	a := b.Node(diagram.KindAttribute, "age")
	bad := b.Node(diagram.KindDomainRestriction, "", diagram.WithRestriction(diagram.RestrictionSelf))
	b.Input(a, bad)
	assert.Equal(t, ReasonUnsupportedRestriction, translateErr(t, b.Graph()).Reason)
}

func TestRangeRestrictionUsesInverse(t *testing.T) {
	b := diagram.NewBuilder()
	r := b.Node(diagram.KindRole, "r")
	c := b.Node(diagram.KindConcept, "C")
	rng := b.Node(diagram.KindRangeRestriction, "", diagram.WithRestriction(diagram.RestrictionForall))
	b.Input(r, rng)
	b.Input(c, rng)
	g := b.Graph()

	e, err := NewResolver(g, testIRI, 0).Resolve(g.Node(rng))
	require.NoError(t, err)
	assert.Equal(t, owl.ObjectAllValuesFrom{Property: owl.ObjectInverseOf{Property: role("r")}, Filler: class("C")}, e)
}

func TestMissingOperands(t *testing.T) {
	cases := []struct {
		kind   diagram.Kind
		reason string
	}{
		{diagram.KindComplement, ReasonMissingOperand},
		{diagram.KindEnumeration, ReasonMissingOperands},
		{diagram.KindIntersection, ReasonMissingOperands},
		{diagram.KindUnion, ReasonMissingOperands},
		{diagram.KindDomainRestriction, ReasonMissingOperands},
		{diagram.KindRangeRestriction, ReasonMissingOperand},
		{diagram.KindRoleInverse, ReasonMissingOperand},
		{diagram.KindRoleChain, ReasonMissingOperands},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			b := diagram.NewBuilder()
			b.Node(tc.kind, "")
			assert.Equal(t, tc.reason, translateErr(t, b.Graph()).Reason)
		})
	}
}

func TestUnsupportedOperand(t *testing.T) {
	b := diagram.NewBuilder()
	chain := b.Node(diagram.KindRoleChain, "")
	b.Input(b.Node(diagram.KindConcept, "C"), chain)

	assert.Equal(t, "unsupported operand (concept)", translateErr(t, b.Graph()).Reason)
}

func TestEdgeMismatches(t *testing.T) {
	t.Run("isa", func(t *testing.T) {
		b := diagram.NewBuilder()
		b.Edge(diagram.EdgeInclusion, b.Node(diagram.KindConcept, "C"), b.Node(diagram.KindRole, "r"), diagram.WithEdgeKey("isa"))
		merr := translateErr(t, b.Graph())
		assert.Equal(t, ReasonISAMismatch, merr.Reason)
		assert.Equal(t, "isa", merr.Element())
	})
	t.Run("equivalence", func(t *testing.T) {
		b := diagram.NewBuilder()
		r := b.Node(diagram.KindRole, "r")
		not := b.Node(diagram.KindComplement, "")
		b.Input(b.Node(diagram.KindRole, "s"), not)
		b.Edge(diagram.EdgeInclusion, r, not, diagram.Complete())
		assert.Equal(t, ReasonEquivalenceMismatch, translateErr(t, b.Graph()).Reason)
	})
	t.Run("functional", func(t *testing.T) {
		b := diagram.NewBuilder()
		b.Input(b.Node(diagram.KindConcept, "C"), b.Node(diagram.KindComplement, ""), diagram.Functional())
		assert.Equal(t, ReasonFunctionalMismatch, translateErr(t, b.Graph()).Reason)
	})
	t.Run("inverse functional", func(t *testing.T) {
		b := diagram.NewBuilder()
		b.Input(b.Node(diagram.KindAttribute, "a"), b.Node(diagram.KindRangeRestriction, ""), diagram.Functional())
		assert.Equal(t, ReasonInverseFunctionalEdge, translateErr(t, b.Graph()).Reason)
	})
	t.Run("instanceOf", func(t *testing.T) {
		b := diagram.NewBuilder()
		b.Edge(diagram.EdgeInstanceOf, b.Node(diagram.KindConcept, "A"), b.Node(diagram.KindConcept, "B"))
		assert.Equal(t, ReasonInstanceOfMismatch, translateErr(t, b.Graph()).Reason)
	})
}

func TestAnnotations(t *testing.T) {
	build := func() *diagram.Graph {
		b := diagram.NewBuilder()
		b.Node(diagram.KindConcept, "Person", diagram.WithDescription("A human being"))
		return b.Graph()
	}
	want := owl.AnnotationAssertion(owl.RDFSComment, class("Person").IRI, owl.Literal{Lexical: "A human being"})

	assert.True(t, translate(t, build()).Contains(want))
	assert.False(t, translate(t, build(), WithAnnotations(false)).Contains(want))
}
