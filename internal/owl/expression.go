// Package owl models OWL 2 expressions and axioms as immutable values.
// Every value renders to OWL 2 functional syntax with full IRIs, and that
// rendering doubles as its structural identity.
package owl

import (
	"slices"
	"strconv"
	"strings"
)

// IRI is an absolute IRI.
type IRI string

func (i IRI) String() string { return "<" + string(i) + ">" }

// Expression is any resolved OWL term.
type Expression interface {
	String() string
}

// ClassExpression is implemented by class expressions.
type ClassExpression interface {
	Expression
	classExpression()
}

// ObjectPropertyExpression is implemented by object properties and their inverses.
type ObjectPropertyExpression interface {
	Expression
	objectPropertyExpression()
}

// DataPropertyExpression is implemented by data properties.
type DataPropertyExpression interface {
	Expression
	dataPropertyExpression()
}

// DataRange is implemented by datatypes and data range expressions.
type DataRange interface {
	Expression
	dataRange()
}

// Individual is implemented by named individuals.
type Individual interface {
	Expression
	individual()
}

// Entity is a named OWL entity that can be declared.
type Entity interface {
	Expression
	EntityType() string
	EntityIRI() IRI
}

// Class is a named class.
type Class struct{ IRI IRI }

// ObjectProperty is a named object property.
type ObjectProperty struct{ IRI IRI }

// DataProperty is a named data property.
type DataProperty struct{ IRI IRI }

// NamedIndividual is a named individual.
type NamedIndividual struct{ IRI IRI }

// Datatype is a named datatype.
type Datatype struct{ IRI IRI }

// Built-in entities.
var (
	Thing                = Class{IRI(NamespaceOWL + "Thing")}
	Nothing              = Class{IRI(NamespaceOWL + "Nothing")}
	TopObjectProperty    = ObjectProperty{IRI(NamespaceOWL + "topObjectProperty")}
	BottomObjectProperty = ObjectProperty{IRI(NamespaceOWL + "bottomObjectProperty")}
	TopDataProperty      = DataProperty{IRI(NamespaceOWL + "topDataProperty")}
	BottomDataProperty   = DataProperty{IRI(NamespaceOWL + "bottomDataProperty")}
	TopDatatype          = Datatype{IRI(NamespaceRDFS + "Literal")}
)

func (c Class) String() string   { return c.IRI.String() }
func (Class) EntityType() string { return "Class" }
func (c Class) EntityIRI() IRI   { return c.IRI }
func (Class) classExpression()   {}

func (p ObjectProperty) String() string          { return p.IRI.String() }
func (ObjectProperty) EntityType() string        { return "ObjectProperty" }
func (p ObjectProperty) EntityIRI() IRI          { return p.IRI }
func (ObjectProperty) objectPropertyExpression() {}

func (p DataProperty) String() string        { return p.IRI.String() }
func (DataProperty) EntityType() string      { return "DataProperty" }
func (p DataProperty) EntityIRI() IRI        { return p.IRI }
func (DataProperty) dataPropertyExpression() {}

func (i NamedIndividual) String() string   { return i.IRI.String() }
func (NamedIndividual) EntityType() string { return "NamedIndividual" }
func (i NamedIndividual) EntityIRI() IRI   { return i.IRI }
func (NamedIndividual) individual()        {}

func (d Datatype) String() string   { return d.IRI.String() }
func (Datatype) EntityType() string { return "Datatype" }
func (d Datatype) EntityIRI() IRI   { return d.IRI }
func (Datatype) dataRange()         {}

// Literal is a typed literal. An empty Datatype renders a plain literal.
type Literal struct {
	Lexical  string
	Datatype IRI
}

func (l Literal) String() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range l.Lexical {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	if l.Datatype != "" {
		b.WriteString("^^")
		b.WriteString(l.Datatype.String())
	}
	return b.String()
}

// ObjectInverseOf is the inverse of a named object property.
type ObjectInverseOf struct{ Property ObjectProperty }

func (e ObjectInverseOf) String() string          { return render("ObjectInverseOf", e.Property) }
func (ObjectInverseOf) objectPropertyExpression() {}

// Inverse returns the inverse of p, simplifying a double inversion.
func Inverse(p ObjectPropertyExpression) ObjectPropertyExpression {
	switch v := p.(type) {
	case ObjectInverseOf:
		return v.Property
	case ObjectProperty:
		return ObjectInverseOf{Property: v}
	}
	panic("owl: unknown object property expression " + p.String())
}

// ObjectComplementOf is the complement of a class expression.
type ObjectComplementOf struct{ Operand ClassExpression }

func (e ObjectComplementOf) String() string { return render("ObjectComplementOf", e.Operand) }
func (ObjectComplementOf) classExpression() {}

// DataComplementOf is the complement of a data range.
type DataComplementOf struct{ Operand DataRange }

func (e DataComplementOf) String() string { return render("DataComplementOf", e.Operand) }
func (DataComplementOf) dataRange()       {}

// ObjectIntersectionOf is a class intersection. Build it with
// NewObjectIntersectionOf to get canonical operands.
type ObjectIntersectionOf struct{ Operands []ClassExpression }

// NewObjectIntersectionOf returns the intersection of ops.
func NewObjectIntersectionOf(ops ...ClassExpression) ObjectIntersectionOf {
	return ObjectIntersectionOf{Operands: canonical(ops)}
}

func (e ObjectIntersectionOf) String() string { return renderAll("ObjectIntersectionOf", e.Operands) }
func (ObjectIntersectionOf) classExpression() {}

// ObjectUnionOf is a class union.
type ObjectUnionOf struct{ Operands []ClassExpression }

// NewObjectUnionOf returns the union of ops.
func NewObjectUnionOf(ops ...ClassExpression) ObjectUnionOf {
	return ObjectUnionOf{Operands: canonical(ops)}
}

func (e ObjectUnionOf) String() string { return renderAll("ObjectUnionOf", e.Operands) }
func (ObjectUnionOf) classExpression() {}

// DataIntersectionOf is an intersection of data ranges.
type DataIntersectionOf struct{ Operands []DataRange }

// NewDataIntersectionOf returns the intersection of ops.
func NewDataIntersectionOf(ops ...DataRange) DataIntersectionOf {
	return DataIntersectionOf{Operands: canonical(ops)}
}

func (e DataIntersectionOf) String() string { return renderAll("DataIntersectionOf", e.Operands) }
func (DataIntersectionOf) dataRange()       {}

// DataUnionOf is a union of data ranges.
type DataUnionOf struct{ Operands []DataRange }

// NewDataUnionOf returns the union of ops.
func NewDataUnionOf(ops ...DataRange) DataUnionOf {
	return DataUnionOf{Operands: canonical(ops)}
}

func (e DataUnionOf) String() string { return renderAll("DataUnionOf", e.Operands) }
func (DataUnionOf) dataRange()       {}

// ClassIntersection intersects ops, or returns the operand itself when only
// one distinct operand remains.
func ClassIntersection(ops ...ClassExpression) ClassExpression {
	x := NewObjectIntersectionOf(ops...)
	if len(x.Operands) == 1 {
		return x.Operands[0]
	}
	return x
}

// ClassUnion is the union counterpart of ClassIntersection.
func ClassUnion(ops ...ClassExpression) ClassExpression {
	x := NewObjectUnionOf(ops...)
	if len(x.Operands) == 1 {
		return x.Operands[0]
	}
	return x
}

// DataRangeIntersection intersects data ranges, collapsing a single
// distinct operand.
func DataRangeIntersection(ops ...DataRange) DataRange {
	x := NewDataIntersectionOf(ops...)
	if len(x.Operands) == 1 {
		return x.Operands[0]
	}
	return x
}

// DataRangeUnion is the union counterpart of DataRangeIntersection.
func DataRangeUnion(ops ...DataRange) DataRange {
	x := NewDataUnionOf(ops...)
	if len(x.Operands) == 1 {
		return x.Operands[0]
	}
	return x
}

// ObjectOneOf enumerates individuals.
type ObjectOneOf struct{ Individuals []Individual }

// NewObjectOneOf returns the enumeration of ops.
func NewObjectOneOf(ops ...Individual) ObjectOneOf {
	return ObjectOneOf{Individuals: canonical(ops)}
}

func (e ObjectOneOf) String() string { return renderAll("ObjectOneOf", e.Individuals) }
func (ObjectOneOf) classExpression() {}

// DataOneOf enumerates literals.
type DataOneOf struct{ Literals []Literal }

// NewDataOneOf returns the enumeration of ops.
func NewDataOneOf(ops ...Literal) DataOneOf {
	return DataOneOf{Literals: canonical(ops)}
}

func (e DataOneOf) String() string { return renderAll("DataOneOf", e.Literals) }
func (DataOneOf) dataRange()       {}

// ObjectSomeValuesFrom is an existential restriction on an object property.
type ObjectSomeValuesFrom struct {
	Property ObjectPropertyExpression
	Filler   ClassExpression
}

func (e ObjectSomeValuesFrom) String() string {
	return render("ObjectSomeValuesFrom", e.Property, e.Filler)
}
func (ObjectSomeValuesFrom) classExpression() {}

// ObjectAllValuesFrom is a universal restriction on an object property.
type ObjectAllValuesFrom struct {
	Property ObjectPropertyExpression
	Filler   ClassExpression
}

func (e ObjectAllValuesFrom) String() string {
	return render("ObjectAllValuesFrom", e.Property, e.Filler)
}
func (ObjectAllValuesFrom) classExpression() {}

// ObjectHasSelf is a self restriction.
type ObjectHasSelf struct{ Property ObjectPropertyExpression }

func (e ObjectHasSelf) String() string { return render("ObjectHasSelf", e.Property) }
func (ObjectHasSelf) classExpression() {}

// ObjectMinCardinality is a qualified minimum cardinality restriction.
// A nil Filler renders the unqualified form.
type ObjectMinCardinality struct {
	N        int
	Property ObjectPropertyExpression
	Filler   ClassExpression
}

func (e ObjectMinCardinality) String() string {
	return renderCard("ObjectMinCardinality", e.N, e.Property, e.Filler)
}
func (ObjectMinCardinality) classExpression() {}

// ObjectMaxCardinality is a qualified maximum cardinality restriction.
type ObjectMaxCardinality struct {
	N        int
	Property ObjectPropertyExpression
	Filler   ClassExpression
}

func (e ObjectMaxCardinality) String() string {
	return renderCard("ObjectMaxCardinality", e.N, e.Property, e.Filler)
}
func (ObjectMaxCardinality) classExpression() {}

// DataSomeValuesFrom is an existential restriction on a data property.
type DataSomeValuesFrom struct {
	Property DataPropertyExpression
	Filler   DataRange
}

func (e DataSomeValuesFrom) String() string {
	return render("DataSomeValuesFrom", e.Property, e.Filler)
}
func (DataSomeValuesFrom) classExpression() {}

// DataAllValuesFrom is a universal restriction on a data property.
type DataAllValuesFrom struct {
	Property DataPropertyExpression
	Filler   DataRange
}

func (e DataAllValuesFrom) String() string {
	return render("DataAllValuesFrom", e.Property, e.Filler)
}
func (DataAllValuesFrom) classExpression() {}

// DataMinCardinality is a qualified minimum cardinality restriction on a data property.
type DataMinCardinality struct {
	N        int
	Property DataPropertyExpression
	Filler   DataRange
}

func (e DataMinCardinality) String() string {
	return renderCard("DataMinCardinality", e.N, e.Property, e.Filler)
}
func (DataMinCardinality) classExpression() {}

// DataMaxCardinality is a qualified maximum cardinality restriction on a data property.
type DataMaxCardinality struct {
	N        int
	Property DataPropertyExpression
	Filler   DataRange
}

func (e DataMaxCardinality) String() string {
	return renderCard("DataMaxCardinality", e.N, e.Property, e.Filler)
}
func (DataMaxCardinality) classExpression() {}

// FacetRestriction constrains a datatype with a facet value.
type FacetRestriction struct {
	Facet IRI
	Value Literal
}

func (e FacetRestriction) String() string { return e.Facet.String() + " " + e.Value.String() }

// DatatypeRestriction restricts a datatype by facets.
type DatatypeRestriction struct {
	Datatype     Datatype
	Restrictions []FacetRestriction
}

// NewDatatypeRestriction returns dt restricted by facets.
func NewDatatypeRestriction(dt Datatype, facets ...FacetRestriction) DatatypeRestriction {
	return DatatypeRestriction{Datatype: dt, Restrictions: canonical(facets)}
}

func (e DatatypeRestriction) String() string {
	parts := make([]Expression, 0, len(e.Restrictions)+1)
	parts = append(parts, e.Datatype)
	for _, r := range e.Restrictions {
		parts = append(parts, r)
	}
	return render("DatatypeRestriction", parts...)
}
func (DatatypeRestriction) dataRange() {}

// ObjectPropertyChain is an ordered chain of object properties. Only valid
// as the sub-property of a SubObjectPropertyOf axiom.
type ObjectPropertyChain struct{ Properties []ObjectPropertyExpression }

func (e ObjectPropertyChain) String() string {
	return renderAll("ObjectPropertyChain", e.Properties)
}

// IndividualPair is the ordered subject/object pair of a property assertion.
// Object is an Individual for object assertions and a Literal for data ones.
type IndividualPair struct {
	Subject Individual
	Object  Expression
}

func (p IndividualPair) String() string { return "(" + p.Subject.String() + " " + p.Object.String() + ")" }

func render(name string, parts ...Expression) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	return b.String()
}

func renderAll[T Expression](name string, parts []T) string {
	exprs := make([]Expression, len(parts))
	for i, p := range parts {
		exprs[i] = p
	}
	return render(name, exprs...)
}

func renderCard(name string, n int, p, filler Expression) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	b.WriteString(strconv.Itoa(n))
	b.WriteByte(' ')
	b.WriteString(p.String())
	if filler != nil {
		b.WriteByte(' ')
		b.WriteString(filler.String())
	}
	b.WriteByte(')')
	return b.String()
}

// canonical removes duplicate operands and orders the rest by rendering.
func canonical[T Expression](ops []T) []T {
	seen := make(map[string]struct{}, len(ops))
	out := make([]T, 0, len(ops))
	for _, op := range ops {
		k := op.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, op)
	}
	slices.SortFunc(out, func(a, b T) int { return strings.Compare(a.String(), b.String()) })
	return out
}
