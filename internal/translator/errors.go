package translator

import (
	"errors"
	"fmt"

	"github.com/starford/graphol/internal/diagram"
)

// Reasons carried by MalformedDiagramError.
const (
	ReasonMissingOperand           = "missing operand"
	ReasonMissingOperands          = "missing operand(s)"
	ReasonTooManyOperands          = "too many operands"
	ReasonMissingCardinality       = "missing cardinality"
	ReasonUnsupportedRestriction   = "unsupported restriction"
	ReasonMissingValueDomain       = "missing value domain node"
	ReasonMissingValueRestrictions = "missing value restriction node(s)"
	ReasonMissingFacet             = "missing facet"
	ReasonUnsupportedDatatype      = "unsupported datatype"
	ReasonCyclicOperand            = "cyclic operand"
	ReasonTooDeep                  = "operand chain too deep"

	ReasonISAMismatch           = "type mismatch in ISA"
	ReasonEquivalenceMismatch   = "type mismatch in equivalence"
	ReasonFunctionalMismatch    = "type mismatch in functional edge"
	ReasonInverseFunctionalEdge = "unsupported inverse functional edge"
	ReasonInstanceOfMismatch    = "type mismatch in instanceOf"
)

// ErrBusy is returned by Run while another run on the same Translator is in flight.
var ErrBusy = errors.New("translator: run already in progress")

// MalformedDiagramError reports the diagram element a run stopped at. Exactly
// one of Node and Edge is set.
type MalformedDiagramError struct {
	Node   *diagram.Node
	Edge   *diagram.Edge
	Reason string
}

func (e *MalformedDiagramError) Error() string {
	return fmt.Sprintf("malformed diagram: %s: %s", e.Element(), e.Reason)
}

// Element returns the document key of the offending node or edge.
func (e *MalformedDiagramError) Element() string {
	switch {
	case e.Node != nil:
		return e.Node.Key
	case e.Edge != nil:
		return e.Edge.Key
	}
	return ""
}

func nodeError(n *diagram.Node, reason string) error {
	return &MalformedDiagramError{Node: n, Reason: reason}
}

func edgeError(e *diagram.Edge, reason string) error {
	return &MalformedDiagramError{Edge: e, Reason: reason}
}

func unsupportedOperand(n, operand *diagram.Node) error {
	return nodeError(n, fmt.Sprintf("unsupported operand (%s)", operand.Kind))
}
