package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `
iri: http://example.org/university
prefix: uni
nodes:
  - {id: person, type: concept, label: Person, description: A human being}
  - {id: student, type: concept, label: Student}
  - {id: enrolled, type: role, label: enrolledIn, properties: [functional]}
  - id: some
    type: domain-restriction
    cardinality: {min: 1, max: 3}
  - {id: chain, type: role-chain, inputs: [i2, i1]}
  - {id: name, type: value-domain, datatype: "xsd:string"}
edges:
  - {id: isa, type: inclusion, source: student, target: person}
  - {id: i1, type: input, source: enrolled, target: chain}
  - {id: i2, type: input, source: enrolled, target: chain}
  - {id: i3, type: input, source: enrolled, target: some, functional: true}
  - {id: eq, type: inclusion, source: some, target: student, complete: true}
`

func TestDecodeDocument(t *testing.T) {
	doc, err := Decode([]byte(sampleDoc))
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/university", doc.IRI)
	assert.Equal(t, "uni", doc.Prefix)
	require.Len(t, doc.Nodes, 6)
	require.Len(t, doc.Edges, 5)

	g, err := doc.Graph()
	require.NoError(t, err)
	assert.Equal(t, 11, g.Len())

	byKey := make(map[string]*Node)
	for _, n := range g.Nodes() {
		byKey[n.Key] = n
	}
	assert.Equal(t, "A human being", byKey["person"].Description)
	assert.True(t, byKey["enrolled"].Flags.Has(FlagFunctional))
	assert.Equal(t, IdentityConcept, byKey["some"].Identity)
	assert.Equal(t, RestrictionCardinality, byKey["some"].Restriction)
	assert.Equal(t, 3, *byKey["some"].Cardinality.Max)
	assert.Equal(t, "xsd:string", byKey["name"].Datatype)

	chain := byKey["chain"]
	require.Len(t, chain.Inputs, 2)
	assert.Equal(t, "i2", g.Edge(chain.Inputs[0]).Key)
	assert.Equal(t, "i1", g.Edge(chain.Inputs[1]).Key)

	for _, e := range g.Edges() {
		switch e.Key {
		case "eq":
			assert.True(t, e.Complete)
		case "i3":
			assert.True(t, e.Functional)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	doc, err := Decode([]byte(`{"nodes":[{"id":"a","type":"concept","label":"A"}],"edges":[]}`))
	require.NoError(t, err)
	g, err := doc.Graph()
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
}

func TestDecodeInvalid(t *testing.T) {
	cases := map[string]string{
		"syntax":         `nodes: [`,
		"unknown type":   `nodes: [{id: a, type: widget}]`,
		"missing id":     `nodes: [{type: concept}]`,
		"duplicate node": `nodes: [{id: a, type: concept}, {id: a, type: role}]`,
		"bad identity":   `nodes: [{id: a, type: complement, identity: thing}]`,
		"bad flag":       `nodes: [{id: a, type: role, properties: [sticky]}]`,
		"bad datatype":   `nodes: [{id: a, type: value-domain, datatype: "xsd:blob"}]`,
		"bad facet":      `nodes: [{id: a, type: value-restriction, facet: "xsd:size"}]`,
		"negative min":   `nodes: [{id: a, type: domain-restriction, cardinality: {min: -1}}]`,
		"min over max":   `nodes: [{id: a, type: domain-restriction, cardinality: {min: 4, max: 2}}]`,
		"stray bounds":   `nodes: [{id: d, type: domain-restriction, restriction: exists, cardinality: {min: 1}}]`,
		"bad iri":        `{iri: "not an iri", nodes: []}`,
		"bad prefix":     `{prefix: "1x", nodes: []}`,
		"unknown source": `{nodes: [{id: a, type: concept}], edges: [{id: e, type: inclusion, source: b, target: a}]}`,
		"unknown target": `{nodes: [{id: a, type: concept}], edges: [{id: e, type: inclusion, source: a, target: b}]}`,
		"edge type":      `{nodes: [{id: a, type: concept}], edges: [{id: e, type: arrow, source: a, target: a}]}`,
		"foreign input": `
nodes:
  - {id: a, type: role}
  - {id: b, type: concept}
  - {id: c, type: role-chain, inputs: [e]}
edges:
  - {id: e, type: inclusion, source: a, target: b}
`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(src))
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestDecodeCardinalityBounds(t *testing.T) {
	cases := map[string]string{
		"explicit": `nodes: [{id: d, type: domain-restriction, restriction: cardinality, cardinality: {min: 1, max: 3}}]`,
		"implied":  `nodes: [{id: d, type: domain-restriction, cardinality: {min: 1, max: 3}}]`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := Decode([]byte(src))
			require.NoError(t, err)
			g, err := doc.Graph()
			require.NoError(t, err)
			n := g.Nodes()[0]
			assert.Equal(t, RestrictionCardinality, n.Restriction)
			require.NotNil(t, n.Cardinality.Min)
			require.NotNil(t, n.Cardinality.Max)
			assert.Equal(t, 1, *n.Cardinality.Min)
			assert.Equal(t, 3, *n.Cardinality.Max)
		})
	}
}

func TestDecodeExplicitRestrictionKept(t *testing.T) {
	doc, err := Decode([]byte(`nodes: [{id: d, type: domain-restriction, restriction: exists}]`))
	require.NoError(t, err)
	g, err := doc.Graph()
	require.NoError(t, err)
	assert.Equal(t, RestrictionExists, g.Nodes()[0].Restriction)
}
