// Package diagram defines the graph model of a Graphol diagram: typed nodes,
// typed edges and the read accessors the ontology translator walks.
package diagram

import (
	"fmt"
	"strings"
)

// Identity is the semantic category of a node.
type Identity int

const (
	IdentityNeutral Identity = iota
	IdentityConcept
	IdentityRole
	IdentityAttribute
	IdentityDataRange
	IdentityIndividual
	IdentityLiteral
	IdentityLink
	IdentityUnknown
)

var identityNames = [...]string{
	IdentityNeutral:    "neutral",
	IdentityConcept:    "concept",
	IdentityRole:       "role",
	IdentityAttribute:  "attribute",
	IdentityDataRange:  "datarange",
	IdentityIndividual: "individual",
	IdentityLiteral:    "literal",
	IdentityLink:       "link",
	IdentityUnknown:    "unknown",
}

func (i Identity) String() string {
	if i < 0 || int(i) >= len(identityNames) {
		return "unknown"
	}
	return identityNames[i]
}

// ParseIdentity maps a document identity name to an Identity.
func ParseIdentity(s string) (Identity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range identityNames {
		if name == s {
			return Identity(i), nil
		}
	}
	return IdentityUnknown, fmt.Errorf("diagram: unknown identity %q", s)
}

// Kind is the constructor kind of a node.
type Kind int

const (
	KindConcept Kind = iota
	KindAttribute
	KindRole
	KindValueDomain
	KindIndividual
	KindValueRestriction
	KindComplement
	KindEnumeration
	KindIntersection
	KindUnion
	KindDisjointUnion
	KindDomainRestriction
	KindRangeRestriction
	KindRoleChain
	KindRoleInverse
	KindDatatypeRestriction
	KindPropertyAssertion

	// KindCount is the number of node kinds. Tables indexed by Kind use it as
	// their length so a new kind without an entry is caught at init.
	KindCount
)

var kindNames = [KindCount]string{
	KindConcept:             "concept",
	KindAttribute:           "attribute",
	KindRole:                "role",
	KindValueDomain:         "value-domain",
	KindIndividual:          "individual",
	KindValueRestriction:    "value-restriction",
	KindComplement:          "complement",
	KindEnumeration:         "enumeration",
	KindIntersection:        "intersection",
	KindUnion:               "union",
	KindDisjointUnion:       "disjoint-union",
	KindDomainRestriction:   "domain-restriction",
	KindRangeRestriction:    "range-restriction",
	KindRoleChain:           "role-chain",
	KindRoleInverse:         "role-inverse",
	KindDatatypeRestriction: "datatype-restriction",
	KindPropertyAssertion:   "property-assertion",
}

func (k Kind) String() string {
	if k < 0 || k >= KindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindNames returns the document names of all node kinds.
func KindNames() []string {
	return append([]string(nil), kindNames[:]...)
}

// ParseKind maps a document node type to a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return KindCount, fmt.Errorf("diagram: unknown node type %q", s)
}

// IsPredicate reports whether nodes of this kind name an entity that gets
// declared in the ontology.
func (k Kind) IsPredicate() bool {
	switch k {
	case KindConcept, KindAttribute, KindRole, KindValueDomain:
		return true
	}
	return false
}

// EdgeKind is the type of an edge.
type EdgeKind int

const (
	EdgeInclusion EdgeKind = iota
	EdgeInput
	EdgeInstanceOf
)

var edgeKindNames = [...]string{
	EdgeInclusion:  "inclusion",
	EdgeInput:      "input",
	EdgeInstanceOf: "instance-of",
}

func (k EdgeKind) String() string {
	if k < 0 || int(k) >= len(edgeKindNames) {
		return fmt.Sprintf("edge(%d)", int(k))
	}
	return edgeKindNames[k]
}

// EdgeKindNames returns the document names of all edge kinds.
func EdgeKindNames() []string {
	return append([]string(nil), edgeKindNames[:]...)
}

// ParseEdgeKind maps a document edge type to an EdgeKind.
func ParseEdgeKind(s string) (EdgeKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range edgeKindNames {
		if name == s {
			return EdgeKind(k), nil
		}
	}
	return -1, fmt.Errorf("diagram: unknown edge type %q", s)
}

// Special marks an atomic node as the universal or empty member of its category.
type Special int

const (
	SpecialNone Special = iota
	SpecialTop
	SpecialBottom
)

func (s Special) String() string {
	switch s {
	case SpecialTop:
		return "top"
	case SpecialBottom:
		return "bottom"
	}
	return ""
}

// Restriction is the quantifier of a domain or range restriction node.
type Restriction int

const (
	RestrictionNone Restriction = iota
	RestrictionExists
	RestrictionForall
	RestrictionCardinality
	RestrictionSelf
)

func (r Restriction) String() string {
	switch r {
	case RestrictionExists:
		return "exists"
	case RestrictionForall:
		return "forall"
	case RestrictionCardinality:
		return "cardinality"
	case RestrictionSelf:
		return "self"
	}
	return ""
}

// Cardinality holds the optional bounds of a cardinality restriction.
type Cardinality struct {
	Min *int
	Max *int
}

// IsZero reports whether neither bound is set.
func (c Cardinality) IsZero() bool {
	return c.Min == nil && c.Max == nil
}

// PropertyFlags is the set of characteristics attached to a role or attribute node.
type PropertyFlags uint8

const (
	FlagFunctional PropertyFlags = 1 << iota
	FlagInverseFunctional
	FlagSymmetric
	FlagAsymmetric
	FlagReflexive
	FlagIrreflexive
	FlagTransitive
)

var flagNames = []struct {
	flag PropertyFlags
	name string
}{
	{FlagFunctional, "functional"},
	{FlagInverseFunctional, "inverse-functional"},
	{FlagSymmetric, "symmetric"},
	{FlagAsymmetric, "asymmetric"},
	{FlagReflexive, "reflexive"},
	{FlagIrreflexive, "irreflexive"},
	{FlagTransitive, "transitive"},
}

// Has reports whether every flag in f is set.
func (p PropertyFlags) Has(f PropertyFlags) bool {
	return p&f == f
}

// FlagNames returns the document names of all property flags.
func FlagNames() []string {
	out := make([]string, len(flagNames))
	for i, f := range flagNames {
		out[i] = f.name
	}
	return out
}

// ParseFlag maps a document property name to a flag.
func ParseFlag(s string) (PropertyFlags, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range flagNames {
		if f.name == s {
			return f.flag, nil
		}
	}
	return 0, fmt.Errorf("diagram: unknown property flag %q", s)
}

// NodeID is the dense index of a node inside its Graph.
type NodeID int

// EdgeID is the dense index of an edge inside its Graph.
type EdgeID int

// Node is a diagram node. Nodes are owned by the Graph and must not be
// modified once the graph is built.
type Node struct {
	ID          NodeID
	Key         string
	Kind        Kind
	Identity    Identity
	Label       string
	Special     Special
	Restriction Restriction
	Cardinality Cardinality
	Flags       PropertyFlags
	// Datatype is a CURIE such as xsd:string. Used by value-domain nodes,
	// literal individuals and facets.
	Datatype string
	// Value is the lexical form of a literal or a facet value.
	Value       string
	Facet       string
	Description string
	// Inputs is the recorded order of incoming input edges. Role chains and
	// property assertions read their operands in this order.
	Inputs []EdgeID
}

func (n *Node) String() string {
	if n.Label != "" {
		return fmt.Sprintf("%s %s %q", n.Kind, n.Key, n.Label)
	}
	return fmt.Sprintf("%s %s", n.Kind, n.Key)
}

// Edge is a directed diagram edge.
type Edge struct {
	ID         EdgeID
	Key        string
	Kind       EdgeKind
	Source     NodeID
	Target     NodeID
	Complete   bool
	Functional bool
}

func (e *Edge) String() string {
	return fmt.Sprintf("%s edge %s", e.Kind, e.Key)
}
