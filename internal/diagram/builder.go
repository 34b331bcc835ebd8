package diagram

import "fmt"

// NodeOption configures a node added to a Builder.
type NodeOption func(*Node, *nodeState)

// EdgeOption configures an edge added to a Builder.
type EdgeOption func(*Edge)

type nodeState struct {
	identitySet bool
	inputsSet   bool
}

// Builder assembles a Graph. It is not safe for concurrent use.
type Builder struct {
	nodes  []*Node
	edges  []*Edge
	states []nodeState
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Node adds a node and returns its id.
func (b *Builder) Node(kind Kind, label string, opts ...NodeOption) NodeID {
	id := NodeID(len(b.nodes))
	n := &Node{ID: id, Kind: kind, Label: label}
	var st nodeState
	for _, opt := range opts {
		opt(n, &st)
	}
	if n.Key == "" {
		n.Key = fmt.Sprintf("n%d", id)
	}
	b.nodes = append(b.nodes, n)
	b.states = append(b.states, st)
	return id
}

// Edge adds an edge from src to dst and returns its id.
func (b *Builder) Edge(kind EdgeKind, src, dst NodeID, opts ...EdgeOption) EdgeID {
	id := EdgeID(len(b.edges))
	e := &Edge{ID: id, Kind: kind, Source: src, Target: dst}
	for _, opt := range opts {
		opt(e)
	}
	if e.Key == "" {
		e.Key = fmt.Sprintf("e%d", id)
	}
	b.edges = append(b.edges, e)
	return id
}

// Input is shorthand for an input edge from operand to node.
func (b *Builder) Input(operand, node NodeID, opts ...EdgeOption) EdgeID {
	return b.Edge(EdgeInput, operand, node, opts...)
}

// SetInputs records the operand order of node. Every edge must be an input
// edge ending at node.
func (b *Builder) SetInputs(node NodeID, edges ...EdgeID) {
	b.nodes[node].Inputs = append([]EdgeID(nil), edges...)
	b.states[node].inputsSet = true
}

// Graph finalizes the diagram. Nodes without an explicit identity receive the
// default identity of their kind; constructor identities are inferred from
// their operands. Nodes without a recorded input order use the insertion
// order of their incoming input edges.
func (b *Builder) Graph() *Graph {
	g := &Graph{
		nodes:    b.nodes,
		edges:    b.edges,
		incoming: make([][]EdgeID, len(b.nodes)),
	}
	for _, e := range b.edges {
		g.incoming[e.Target] = append(g.incoming[e.Target], e.ID)
	}
	for _, n := range g.nodes {
		if b.states[n.ID].inputsSet {
			continue
		}
		for _, e := range g.Incoming(n, EdgeInput) {
			n.Inputs = append(n.Inputs, e.ID)
		}
	}

	inf := identifier{g: g, explicit: b.states, state: make([]uint8, len(g.nodes))}
	for _, n := range g.nodes {
		inf.identify(n)
	}

	b.nodes, b.edges, b.states = nil, nil, nil
	return g
}

// WithKey sets the document key of a node.
func WithKey(key string) NodeOption {
	return func(n *Node, _ *nodeState) { n.Key = key }
}

// WithNodeIdentity sets the identity of a node explicitly.
func WithNodeIdentity(id Identity) NodeOption {
	return func(n *Node, st *nodeState) {
		n.Identity = id
		st.identitySet = true
	}
}

// WithSpecial marks an atomic node as top or bottom.
func WithSpecial(s Special) NodeOption {
	return func(n *Node, _ *nodeState) { n.Special = s }
}

// WithRestriction sets the restriction of a domain or range restriction node.
func WithRestriction(r Restriction) NodeOption {
	return func(n *Node, _ *nodeState) { n.Restriction = r }
}

// WithMin sets the lower cardinality bound and the cardinality restriction.
func WithMin(v int) NodeOption {
	return func(n *Node, _ *nodeState) {
		n.Restriction = RestrictionCardinality
		n.Cardinality.Min = &v
	}
}

// WithMax sets the upper cardinality bound and the cardinality restriction.
func WithMax(v int) NodeOption {
	return func(n *Node, _ *nodeState) {
		n.Restriction = RestrictionCardinality
		n.Cardinality.Max = &v
	}
}

// WithFlags sets property characteristics on a role or attribute node.
func WithFlags(f PropertyFlags) NodeOption {
	return func(n *Node, _ *nodeState) { n.Flags |= f }
}

// WithDatatype sets the datatype CURIE of a value-domain, literal or facet node.
func WithDatatype(curie string) NodeOption {
	return func(n *Node, _ *nodeState) { n.Datatype = curie }
}

// WithValue sets the lexical value of a literal or facet node.
func WithValue(v string) NodeOption {
	return func(n *Node, _ *nodeState) { n.Value = v }
}

// WithFacet sets the facet CURIE of a value-restriction node.
func WithFacet(curie string) NodeOption {
	return func(n *Node, _ *nodeState) { n.Facet = curie }
}

// WithDescription attaches a free-text description.
func WithDescription(d string) NodeOption {
	return func(n *Node, _ *nodeState) { n.Description = d }
}

// WithEdgeKey sets the document key of an edge.
func WithEdgeKey(key string) EdgeOption {
	return func(e *Edge) { e.Key = key }
}

// Complete marks an inclusion edge as an equivalence.
func Complete() EdgeOption {
	return func(e *Edge) { e.Complete = true }
}

// Functional marks an input edge as asserting functionality.
func Functional() EdgeOption {
	return func(e *Edge) { e.Functional = true }
}

const (
	identUnvisited uint8 = iota
	identVisiting
	identDone
)

type identifier struct {
	g        *Graph
	explicit []nodeState
	state    []uint8
}

func (f *identifier) identify(n *Node) Identity {
	switch f.state[n.ID] {
	case identDone:
		return n.Identity
	case identVisiting:
		// Cyclic operands: leave the identity undecided, the translator
		// reports the cycle.
		return IdentityUnknown
	}
	if f.explicit[n.ID].identitySet {
		f.state[n.ID] = identDone
		return n.Identity
	}
	f.state[n.ID] = identVisiting
	n.Identity = f.infer(n)
	f.state[n.ID] = identDone
	return n.Identity
}

func (f *identifier) infer(n *Node) Identity {
	switch n.Kind {
	case KindConcept, KindDomainRestriction:
		return IdentityConcept
	case KindRangeRestriction:
		// The range of an attribute is a data range.
		op := f.g.FirstOperand(n, EdgeInput, OfKind(KindRole, KindRoleInverse, KindAttribute))
		if op != nil && op.Kind == KindAttribute {
			return IdentityDataRange
		}
		return IdentityConcept
	case KindAttribute:
		return IdentityAttribute
	case KindRole, KindRoleChain, KindRoleInverse:
		return IdentityRole
	case KindValueDomain, KindDatatypeRestriction:
		return IdentityDataRange
	case KindIndividual:
		if n.Value != "" && n.Label == "" {
			return IdentityLiteral
		}
		return IdentityIndividual
	case KindPropertyAssertion:
		return IdentityLink
	case KindValueRestriction:
		return IdentityNeutral
	case KindComplement:
		for _, op := range f.g.Operands(n, EdgeInput, Any) {
			switch id := f.identify(op); id {
			case IdentityConcept, IdentityDataRange, IdentityRole, IdentityAttribute:
				return id
			}
		}
	case KindIntersection, KindUnion, KindDisjointUnion:
		for _, op := range f.g.Operands(n, EdgeInput, Any) {
			switch id := f.identify(op); id {
			case IdentityConcept, IdentityDataRange:
				return id
			}
		}
	case KindEnumeration:
		for _, op := range f.g.Operands(n, EdgeInput, Any) {
			switch f.identify(op) {
			case IdentityIndividual:
				return IdentityConcept
			case IdentityLiteral:
				return IdentityDataRange
			}
		}
	}
	return IdentityNeutral
}
