package diagram

// Filter selects operand nodes.
type Filter func(*Node) bool

// Any accepts every node.
func Any(*Node) bool { return true }

// WithIdentity accepts nodes whose identity is one of ids.
func WithIdentity(ids ...Identity) Filter {
	return func(n *Node) bool {
		for _, id := range ids {
			if n.Identity == id {
				return true
			}
		}
		return false
	}
}

// OfKind accepts nodes whose kind is one of kinds.
func OfKind(kinds ...Kind) Filter {
	return func(n *Node) bool {
		for _, k := range kinds {
			if n.Kind == k {
				return true
			}
		}
		return false
	}
}

// Graph is an immutable diagram. Build one with a Builder or by decoding a
// Document.
type Graph struct {
	nodes    []*Node
	edges    []*Edge
	incoming [][]EdgeID
}

// Nodes returns the nodes in insertion order. The slice must not be modified.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns the edges in insertion order. The slice must not be modified.
func (g *Graph) Edges() []*Edge { return g.edges }

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) *Node { return g.nodes[id] }

// Edge returns the edge with the given id.
func (g *Graph) Edge(id EdgeID) *Edge { return g.edges[id] }

// Source returns the source node of e.
func (g *Graph) Source(e *Edge) *Node { return g.nodes[e.Source] }

// Target returns the target node of e.
func (g *Graph) Target(e *Edge) *Node { return g.nodes[e.Target] }

// Len returns the number of nodes plus the number of edges.
func (g *Graph) Len() int { return len(g.nodes) + len(g.edges) }

// Incoming returns the edges of the given kind that end at n, in insertion order.
func (g *Graph) Incoming(n *Node, kind EdgeKind) []*Edge {
	var out []*Edge
	for _, id := range g.incoming[n.ID] {
		if e := g.edges[id]; e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Operands returns the source nodes of the incoming edges of the given kind
// that pass keep, in edge insertion order.
func (g *Graph) Operands(n *Node, kind EdgeKind, keep Filter) []*Node {
	var out []*Node
	for _, e := range g.Incoming(n, kind) {
		if src := g.nodes[e.Source]; keep(src) {
			out = append(out, src)
		}
	}
	return out
}

// FirstOperand returns the first operand selected by Operands, or nil.
func (g *Graph) FirstOperand(n *Node, kind EdgeKind, keep Filter) *Node {
	for _, e := range g.Incoming(n, kind) {
		if src := g.nodes[e.Source]; keep(src) {
			return src
		}
	}
	return nil
}

// Inputs returns the operands of n in its recorded input order.
func (g *Graph) Inputs(n *Node) []*Node {
	out := make([]*Node, 0, len(n.Inputs))
	for _, id := range n.Inputs {
		out = append(out, g.nodes[g.edges[id].Source])
	}
	return out
}
