package diagram

import (
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/graphol/internal/owl"
)

// ErrInvalidDocument is returned when a diagram document cannot be decoded
// or fails validation.
var ErrInvalidDocument = errors.New("invalid diagram document")

var (
	iriRe    = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:[^\s<>"{}|\\^` + "`" + `]*$`)
	prefixRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)
)

// Document is the serialized form of a diagram. JSON documents decode too,
// since JSON is valid YAML.
type Document struct {
	IRI    string    `yaml:"iri,omitempty"`
	Prefix string    `yaml:"prefix,omitempty"`
	Nodes  []DocNode `yaml:"nodes"`
	Edges  []DocEdge `yaml:"edges"`
}

// DocNode is a serialized node.
type DocNode struct {
	ID          string          `yaml:"id"`
	Type        string          `yaml:"type"`
	Label       string          `yaml:"label,omitempty"`
	Identity    string          `yaml:"identity,omitempty"`
	Special     string          `yaml:"special,omitempty"`
	Restriction string          `yaml:"restriction,omitempty"`
	Cardinality *DocCardinality `yaml:"cardinality,omitempty"`
	Properties  []string        `yaml:"properties,omitempty"`
	Datatype    string          `yaml:"datatype,omitempty"`
	Value       string          `yaml:"value,omitempty"`
	Facet       string          `yaml:"facet,omitempty"`
	Description string          `yaml:"description,omitempty"`
	Inputs      []string        `yaml:"inputs,omitempty"`
}

// DocCardinality is a serialized cardinality bound pair.
type DocCardinality struct {
	Min *int `yaml:"min,omitempty"`
	Max *int `yaml:"max,omitempty"`
}

// DocEdge is a serialized edge.
type DocEdge struct {
	ID         string `yaml:"id"`
	Type       string `yaml:"type"`
	Source     string `yaml:"source"`
	Target     string `yaml:"target"`
	Complete   bool   `yaml:"complete,omitempty"`
	Functional bool   `yaml:"functional,omitempty"`
}

// Decode parses and validates a diagram document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// Validate checks field values and cross references.
func (d *Document) Validate() error {
	if err := validation.ValidateStruct(d,
		validation.Field(&d.IRI, validation.Match(iriRe)),
		validation.Field(&d.Prefix, validation.Match(prefixRe)),
		validation.Field(&d.Nodes),
		validation.Field(&d.Edges),
	); err != nil {
		return err
	}
	return d.validateReferences()
}

func (d *Document) validateReferences() error {
	nodes := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		if _, dup := nodes[n.ID]; dup {
			return fmt.Errorf("nodes: duplicate id %q", n.ID)
		}
		nodes[n.ID] = struct{}{}
	}
	// inputs[target] holds the input edges ending at target.
	inputs := make(map[string]map[string]struct{})
	edges := make(map[string]struct{}, len(d.Edges))
	for _, e := range d.Edges {
		if _, dup := edges[e.ID]; dup {
			return fmt.Errorf("edges: duplicate id %q", e.ID)
		}
		edges[e.ID] = struct{}{}
		if _, ok := nodes[e.Source]; !ok {
			return fmt.Errorf("edges: %q: unknown source %q", e.ID, e.Source)
		}
		if _, ok := nodes[e.Target]; !ok {
			return fmt.Errorf("edges: %q: unknown target %q", e.ID, e.Target)
		}
		if e.Type == EdgeInput.String() {
			if inputs[e.Target] == nil {
				inputs[e.Target] = make(map[string]struct{})
			}
			inputs[e.Target][e.ID] = struct{}{}
		}
	}
	for _, n := range d.Nodes {
		for _, in := range n.Inputs {
			if _, ok := inputs[n.ID][in]; !ok {
				return fmt.Errorf("nodes: %q: input %q is not an input edge of this node", n.ID, in)
			}
		}
	}
	return nil
}

// Validate checks a single node.
func (n DocNode) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.ID, validation.Required),
		validation.Field(&n.Type, validation.Required, validation.In(toAny(KindNames())...)),
		validation.Field(&n.Identity, validation.In(toAny(identityNames[:])...)),
		validation.Field(&n.Special, validation.In("top", "bottom")),
		validation.Field(&n.Restriction, validation.In("exists", "forall", "cardinality", "self")),
		validation.Field(&n.Properties, validation.Each(validation.In(toAny(FlagNames())...))),
		validation.Field(&n.Datatype, validation.By(knownCURIE(owl.IsDatatype, "datatype"))),
		validation.Field(&n.Facet, validation.By(knownCURIE(owl.IsFacet, "facet"))),
		validation.Field(&n.Cardinality, validation.When(
			n.Restriction != "" && n.Restriction != "cardinality",
			validation.Nil.Error("is only allowed with restriction cardinality"),
		)),
	)
}

// Validate checks the cardinality bounds.
func (c DocCardinality) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Min, validation.Min(0)),
		validation.Field(&c.Max, validation.Min(0)),
	); err != nil {
		return err
	}
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return fmt.Errorf("min %d exceeds max %d", *c.Min, *c.Max)
	}
	return nil
}

// Validate checks a single edge.
func (e DocEdge) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.Type, validation.Required, validation.In(toAny(EdgeKindNames())...)),
		validation.Field(&e.Source, validation.Required),
		validation.Field(&e.Target, validation.Required),
	)
}

// Graph builds the diagram graph of a validated document.
func (d *Document) Graph() (*Graph, error) {
	b := NewBuilder()
	nodeIDs := make(map[string]NodeID, len(d.Nodes))
	for _, dn := range d.Nodes {
		kind, err := ParseKind(dn.Type)
		if err != nil {
			return nil, err
		}
		opts, err := dn.options()
		if err != nil {
			return nil, fmt.Errorf("diagram: node %q: %w", dn.ID, err)
		}
		nodeIDs[dn.ID] = b.Node(kind, dn.Label, opts...)
	}

	edgeIDs := make(map[string]EdgeID, len(d.Edges))
	for _, de := range d.Edges {
		kind, err := ParseEdgeKind(de.Type)
		if err != nil {
			return nil, err
		}
		src, ok := nodeIDs[de.Source]
		if !ok {
			return nil, fmt.Errorf("diagram: edge %q: unknown source %q", de.ID, de.Source)
		}
		dst, ok := nodeIDs[de.Target]
		if !ok {
			return nil, fmt.Errorf("diagram: edge %q: unknown target %q", de.ID, de.Target)
		}
		opts := []EdgeOption{WithEdgeKey(de.ID)}
		if de.Complete {
			opts = append(opts, Complete())
		}
		if de.Functional {
			opts = append(opts, Functional())
		}
		edgeIDs[de.ID] = b.Edge(kind, src, dst, opts...)
	}

	for _, dn := range d.Nodes {
		if len(dn.Inputs) == 0 {
			continue
		}
		order := make([]EdgeID, 0, len(dn.Inputs))
		for _, key := range dn.Inputs {
			id, ok := edgeIDs[key]
			if !ok {
				return nil, fmt.Errorf("diagram: node %q: unknown input %q", dn.ID, key)
			}
			order = append(order, id)
		}
		b.SetInputs(nodeIDs[dn.ID], order...)
	}

	return b.Graph(), nil
}

func (n DocNode) options() ([]NodeOption, error) {
	opts := []NodeOption{
		WithKey(n.ID),
		WithDatatype(n.Datatype),
		WithValue(n.Value),
		WithFacet(n.Facet),
		WithDescription(n.Description),
	}
	if n.Identity != "" {
		id, err := ParseIdentity(n.Identity)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithNodeIdentity(id))
	}
	switch n.Special {
	case "top":
		opts = append(opts, WithSpecial(SpecialTop))
	case "bottom":
		opts = append(opts, WithSpecial(SpecialBottom))
	}
	switch n.Restriction {
	case "exists":
		opts = append(opts, WithRestriction(RestrictionExists))
	case "forall":
		opts = append(opts, WithRestriction(RestrictionForall))
	case "self":
		opts = append(opts, WithRestriction(RestrictionSelf))
	case "cardinality":
		opts = append(opts, WithRestriction(RestrictionCardinality))
	}
	if c := n.Cardinality; c != nil && (n.Restriction == "" || n.Restriction == "cardinality") {
		if c.Min != nil {
			opts = append(opts, WithMin(*c.Min))
		}
		if c.Max != nil {
			opts = append(opts, WithMax(*c.Max))
		}
	}
	var flags PropertyFlags
	for _, p := range n.Properties {
		f, err := ParseFlag(p)
		if err != nil {
			return nil, err
		}
		flags |= f
	}
	if flags != 0 {
		opts = append(opts, WithFlags(flags))
	}
	return opts, nil
}

func knownCURIE(known func(string) bool, what string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s == "" || known(s) {
			return nil
		}
		return fmt.Errorf("unsupported %s %q", what, s)
	}
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
