package owl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ns = "http://example.org/onto#"

func class(name string) Class         { return Class{IRI(ns + name)} }
func role(name string) ObjectProperty { return ObjectProperty{IRI(ns + name)} }
func attr(name string) DataProperty   { return DataProperty{IRI(ns + name)} }
func ind(name string) NamedIndividual { return NamedIndividual{IRI(ns + name)} }

func TestRenderingUsesFullIRIs(t *testing.T) {
	e := ObjectSomeValuesFrom{Property: role("hasPart"), Filler: Thing}
	assert.Equal(t,
		"ObjectSomeValuesFrom(<http://example.org/onto#hasPart> <http://www.w3.org/2002/07/owl#Thing>)",
		e.String())
}

func TestNaryOperandsAreCanonical(t *testing.T) {
	a := NewObjectUnionOf(class("B"), class("A"), class("B"))
	b := NewObjectUnionOf(class("A"), class("B"))
	assert.Equal(t, a.String(), b.String())
	assert.Len(t, a.Operands, 2)
}

func TestSingleOperandSetsCollapse(t *testing.T) {
	assert.Equal(t, class("A"), ClassIntersection(class("A"), class("A")))
	assert.Equal(t, class("A"), ClassUnion(class("A")))
	integer := Datatype{IRI(NamespaceXSD + "integer")}
	assert.Equal(t, integer, DataRangeIntersection(integer, integer))
	assert.Equal(t, integer, DataRangeUnion(integer))

	both := ClassIntersection(class("B"), class("A"))
	assert.Equal(t, NewObjectIntersectionOf(class("A"), class("B")), both)
}

func TestChainKeepsOrder(t *testing.T) {
	c := ObjectPropertyChain{Properties: []ObjectPropertyExpression{role("b"), role("a")}}
	assert.Equal(t, "ObjectPropertyChain(<"+ns+"b> <"+ns+"a>)", c.String())
}

func TestInverseSimplifies(t *testing.T) {
	r := role("r")
	inv := Inverse(r)
	assert.Equal(t, ObjectInverseOf{Property: r}, inv)
	assert.Equal(t, r, Inverse(inv))
}

func TestLiteralEscaping(t *testing.T) {
	l := Literal{Lexical: `say "hi" \o/`, Datatype: IRI(NamespaceXSD + "string")}
	assert.Equal(t, `"say \"hi\" \\o/"^^<`+NamespaceXSD+`string>`, l.String())
	assert.Equal(t, `"plain"`, Literal{Lexical: "plain"}.String())
}

func TestCardinalityRendering(t *testing.T) {
	assert.Equal(t, "ObjectMinCardinality(1 <"+ns+"r>)",
		ObjectMinCardinality{N: 1, Property: role("r")}.String())
	assert.Equal(t, "DataMaxCardinality(3 <"+ns+"a> <"+NamespaceRDFS+"Literal>)",
		DataMaxCardinality{N: 3, Property: attr("a"), Filler: TopDatatype}.String())
}

func TestDeclarationRendering(t *testing.T) {
	assert.Equal(t, "Declaration(Class(<"+ns+"Person>))", Declaration(class("Person")).String())
	assert.Equal(t, "Declaration(DataProperty(<"+ns+"age>))", Declaration(attr("age")).String())
}

func TestAxiomSetDeduplicates(t *testing.T) {
	s := NewAxiomSet()
	assert.True(t, s.Add(SubClassOf(class("A"), class("B"))))
	assert.False(t, s.Add(SubClassOf(class("A"), class("B"))))
	assert.True(t, s.Add(DisjointClasses(class("B"), class("A"))))
	assert.False(t, s.Add(DisjointClasses(class("A"), class("B"))))
	assert.Equal(t, 2, s.Len())
}

func TestAxiomSetSealed(t *testing.T) {
	s := NewAxiomSet()
	s.Add(Declaration(class("A")))
	o := NewOntology(IRI(ns), "ex", s)
	require.True(t, s.Sealed())
	assert.Panics(t, func() { s.Add(Declaration(class("B"))) })
	assert.Equal(t, 1, o.Len())
}

func TestOntologyOrderAndCounts(t *testing.T) {
	s := NewAxiomSet()
	s.Add(SubClassOf(class("Student"), class("Person")))
	s.Add(Declaration(class("Student")))
	s.Add(Declaration(class("Person")))
	o := NewOntology(IRI(ns), "ex", s)

	axioms := o.Axioms()
	require.Len(t, axioms, 3)
	assert.Equal(t, AxiomDeclaration, axioms[0].Kind())
	assert.Equal(t, AxiomDeclaration, axioms[1].Kind())
	assert.Equal(t, AxiomSubClassOf, axioms[2].Kind())
	assert.Equal(t, 2, o.Count(AxiomDeclaration))
	assert.Equal(t, map[string]int{"Declaration": 2, "SubClassOf": 1}, o.Counts())
	assert.True(t, o.Contains(SubClassOf(class("Student"), class("Person"))))
	assert.False(t, o.Contains(SubClassOf(class("Person"), class("Student"))))
}

func TestAssertionRendering(t *testing.T) {
	a := ObjectPropertyAssertion(role("knows"), ind("alice"), ind("bob"))
	assert.Equal(t, "ObjectPropertyAssertion(<"+ns+"knows> <"+ns+"alice> <"+ns+"bob>)", a.String())
	d := DataPropertyAssertion(attr("age"), ind("alice"), Literal{Lexical: "30", Datatype: IRI(NamespaceXSD + "integer")})
	assert.Equal(t, AxiomDataPropertyAssertion, d.Kind())
}

func TestParseAxiomKind(t *testing.T) {
	k, err := ParseAxiomKind("subclassof")
	require.NoError(t, err)
	assert.Equal(t, AxiomSubClassOf, k)
	_, err = ParseAxiomKind("Nope")
	assert.Error(t, err)
	assert.Len(t, AxiomKinds(), int(axiomKindCount))
}

func TestVocabulary(t *testing.T) {
	assert.True(t, IsDatatype("xsd:string"))
	assert.False(t, IsDatatype("xsd:nope"))
	assert.True(t, IsFacet("xsd:maxLength"))
	iri, ok := ExpandCURIE("xsd:integer")
	require.True(t, ok)
	assert.Equal(t, IRI(NamespaceXSD+"integer"), iri)
	_, ok = ExpandCURIE("foo:bar")
	assert.False(t, ok)
	assert.Equal(t, "has_part_of", LocalName("has part-of"))
	assert.Equal(t, "http://x.org/o#", Namespace("http://x.org/o"))
	assert.Equal(t, "http://x.org/o/", Namespace("http://x.org/o/"))
}

func TestWriteFunctional(t *testing.T) {
	s := NewAxiomSet()
	s.Add(Declaration(class("Person")))
	o := NewOntology(IRI("http://example.org/onto"), "ex", s)

	var buf bytes.Buffer
	require.NoError(t, WriteFunctional(&buf, o))
	out := buf.String()
	assert.Contains(t, out, "Prefix(ex:=<http://example.org/onto#>)\n")
	assert.Contains(t, out, "Prefix(owl:=<"+NamespaceOWL+">)\n")
	assert.Contains(t, out, "Ontology(<http://example.org/onto>\n")
	assert.Contains(t, out, "Declaration(Class(<"+ns+"Person>))\n")
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte(")\n")))
}
