package owl

import (
	"fmt"
	"strings"
)

// AxiomKind identifies the OWL 2 axiom type.
type AxiomKind int

const (
	AxiomDeclaration AxiomKind = iota
	AxiomSubClassOf
	AxiomEquivalentClasses
	AxiomDisjointClasses
	AxiomSubObjectPropertyOf
	AxiomEquivalentObjectProperties
	AxiomDisjointObjectProperties
	AxiomFunctionalObjectProperty
	AxiomInverseFunctionalObjectProperty
	AxiomSymmetricObjectProperty
	AxiomAsymmetricObjectProperty
	AxiomReflexiveObjectProperty
	AxiomIrreflexiveObjectProperty
	AxiomTransitiveObjectProperty
	AxiomSubDataPropertyOf
	AxiomEquivalentDataProperties
	AxiomDisjointDataProperties
	AxiomFunctionalDataProperty
	AxiomDataPropertyRange
	AxiomClassAssertion
	AxiomObjectPropertyAssertion
	AxiomDataPropertyAssertion
	AxiomAnnotationAssertion

	axiomKindCount
)

var axiomKindNames = [axiomKindCount]string{
	AxiomDeclaration:                     "Declaration",
	AxiomSubClassOf:                      "SubClassOf",
	AxiomEquivalentClasses:               "EquivalentClasses",
	AxiomDisjointClasses:                 "DisjointClasses",
	AxiomSubObjectPropertyOf:             "SubObjectPropertyOf",
	AxiomEquivalentObjectProperties:      "EquivalentObjectProperties",
	AxiomDisjointObjectProperties:        "DisjointObjectProperties",
	AxiomFunctionalObjectProperty:        "FunctionalObjectProperty",
	AxiomInverseFunctionalObjectProperty: "InverseFunctionalObjectProperty",
	AxiomSymmetricObjectProperty:         "SymmetricObjectProperty",
	AxiomAsymmetricObjectProperty:        "AsymmetricObjectProperty",
	AxiomReflexiveObjectProperty:         "ReflexiveObjectProperty",
	AxiomIrreflexiveObjectProperty:       "IrreflexiveObjectProperty",
	AxiomTransitiveObjectProperty:        "TransitiveObjectProperty",
	AxiomSubDataPropertyOf:               "SubDataPropertyOf",
	AxiomEquivalentDataProperties:        "EquivalentDataProperties",
	AxiomDisjointDataProperties:          "DisjointDataProperties",
	AxiomFunctionalDataProperty:          "FunctionalDataProperty",
	AxiomDataPropertyRange:               "DataPropertyRange",
	AxiomClassAssertion:                  "ClassAssertion",
	AxiomObjectPropertyAssertion:         "ObjectPropertyAssertion",
	AxiomDataPropertyAssertion:           "DataPropertyAssertion",
	AxiomAnnotationAssertion:             "AnnotationAssertion",
}

func (k AxiomKind) String() string {
	if k < 0 || k >= axiomKindCount {
		return fmt.Sprintf("AxiomKind(%d)", int(k))
	}
	return axiomKindNames[k]
}

// AxiomKinds returns every axiom kind in declaration order.
func AxiomKinds() []AxiomKind {
	out := make([]AxiomKind, axiomKindCount)
	for i := range out {
		out[i] = AxiomKind(i)
	}
	return out
}

// ParseAxiomKind maps a functional-syntax axiom name to its kind. Matching
// ignores case.
func ParseAxiomKind(s string) (AxiomKind, error) {
	for k, name := range axiomKindNames {
		if strings.EqualFold(name, s) {
			return AxiomKind(k), nil
		}
	}
	return -1, fmt.Errorf("owl: unknown axiom kind %q", s)
}

// Axiom is a top-level ontology statement.
type Axiom interface {
	Kind() AxiomKind
	String() string
}

type declaration struct{ entity Entity }

// Declaration declares a named entity.
func Declaration(e Entity) Axiom { return declaration{e} }

func (declaration) Kind() AxiomKind { return AxiomDeclaration }
func (a declaration) String() string {
	return "Declaration(" + a.entity.EntityType() + "(" + a.entity.EntityIRI().String() + "))"
}

// characteristic covers the single-property axioms.
type characteristic struct {
	kind     AxiomKind
	property Expression
}

func (a characteristic) Kind() AxiomKind { return a.kind }
func (a characteristic) String() string  { return render(a.kind.String(), a.property) }

// FunctionalObjectProperty asserts p is functional.
func FunctionalObjectProperty(p ObjectPropertyExpression) Axiom {
	return characteristic{AxiomFunctionalObjectProperty, p}
}

// InverseFunctionalObjectProperty asserts p is inverse functional.
func InverseFunctionalObjectProperty(p ObjectPropertyExpression) Axiom {
	return characteristic{AxiomInverseFunctionalObjectProperty, p}
}

// SymmetricObjectProperty asserts p is symmetric.
func SymmetricObjectProperty(p ObjectPropertyExpression) Axiom {
	return characteristic{AxiomSymmetricObjectProperty, p}
}

// AsymmetricObjectProperty asserts p is asymmetric.
func AsymmetricObjectProperty(p ObjectPropertyExpression) Axiom {
	return characteristic{AxiomAsymmetricObjectProperty, p}
}

// ReflexiveObjectProperty asserts p is reflexive.
func ReflexiveObjectProperty(p ObjectPropertyExpression) Axiom {
	return characteristic{AxiomReflexiveObjectProperty, p}
}

// IrreflexiveObjectProperty asserts p is irreflexive.
func IrreflexiveObjectProperty(p ObjectPropertyExpression) Axiom {
	return characteristic{AxiomIrreflexiveObjectProperty, p}
}

// TransitiveObjectProperty asserts p is transitive.
func TransitiveObjectProperty(p ObjectPropertyExpression) Axiom {
	return characteristic{AxiomTransitiveObjectProperty, p}
}

// FunctionalDataProperty asserts p is functional.
func FunctionalDataProperty(p DataPropertyExpression) Axiom {
	return characteristic{AxiomFunctionalDataProperty, p}
}

// binary covers the two-operand axioms. The operand order is significant.
type binary struct {
	kind        AxiomKind
	left, right Expression
}

func (a binary) Kind() AxiomKind { return a.kind }
func (a binary) String() string  { return render(a.kind.String(), a.left, a.right) }

// SubClassOf states that sub is subsumed by super.
func SubClassOf(sub, super ClassExpression) Axiom {
	return binary{AxiomSubClassOf, sub, super}
}

// SubObjectPropertyOf states that sub is subsumed by super.
func SubObjectPropertyOf(sub, super ObjectPropertyExpression) Axiom {
	return binary{AxiomSubObjectPropertyOf, sub, super}
}

// SubPropertyChainOf states that the composition of chain is subsumed by super.
func SubPropertyChainOf(chain ObjectPropertyChain, super ObjectPropertyExpression) Axiom {
	return binary{AxiomSubObjectPropertyOf, chain, super}
}

// SubDataPropertyOf states that sub is subsumed by super.
func SubDataPropertyOf(sub, super DataPropertyExpression) Axiom {
	return binary{AxiomSubDataPropertyOf, sub, super}
}

// DataPropertyRange states that the values of p fall in r.
func DataPropertyRange(p DataPropertyExpression, r DataRange) Axiom {
	return binary{AxiomDataPropertyRange, p, r}
}

// ClassAssertion states that i is an instance of c.
func ClassAssertion(c ClassExpression, i Individual) Axiom {
	return binary{AxiomClassAssertion, c, i}
}

// nary covers the set-valued axioms. Operands are canonical.
type nary struct {
	kind     AxiomKind
	operands []Expression
}

func (a nary) Kind() AxiomKind { return a.kind }
func (a nary) String() string  { return render(a.kind.String(), a.operands...) }

// Operands returns the canonical operands of a set-valued axiom, or nil for
// any other axiom.
func Operands(a Axiom) []Expression {
	if n, ok := a.(nary); ok {
		return append([]Expression(nil), n.operands...)
	}
	return nil
}

func newNary[T Expression](kind AxiomKind, ops []T) Axiom {
	ops = canonical(ops)
	exprs := make([]Expression, len(ops))
	for i, op := range ops {
		exprs[i] = op
	}
	return nary{kind, exprs}
}

// EquivalentClasses states that ops denote the same class.
func EquivalentClasses(ops ...ClassExpression) Axiom {
	return newNary(AxiomEquivalentClasses, ops)
}

// DisjointClasses states that ops share no instances.
func DisjointClasses(ops ...ClassExpression) Axiom {
	return newNary(AxiomDisjointClasses, ops)
}

// EquivalentObjectProperties states that ops denote the same object property.
func EquivalentObjectProperties(ops ...ObjectPropertyExpression) Axiom {
	return newNary(AxiomEquivalentObjectProperties, ops)
}

// DisjointObjectProperties states that ops never relate the same pair.
func DisjointObjectProperties(ops ...ObjectPropertyExpression) Axiom {
	return newNary(AxiomDisjointObjectProperties, ops)
}

// EquivalentDataProperties states that ops denote the same data property.
func EquivalentDataProperties(ops ...DataPropertyExpression) Axiom {
	return newNary(AxiomEquivalentDataProperties, ops)
}

// DisjointDataProperties states that ops never relate the same pair.
func DisjointDataProperties(ops ...DataPropertyExpression) Axiom {
	return newNary(AxiomDisjointDataProperties, ops)
}

type assertion struct {
	kind     AxiomKind
	property Expression
	subject  Expression
	object   Expression
}

func (a assertion) Kind() AxiomKind { return a.kind }
func (a assertion) String() string {
	return render(a.kind.String(), a.property, a.subject, a.object)
}

// ObjectPropertyAssertion states that p links subject to object.
func ObjectPropertyAssertion(p ObjectPropertyExpression, subject, object Individual) Axiom {
	return assertion{AxiomObjectPropertyAssertion, p, subject, object}
}

// DataPropertyAssertion states that p links subject to the literal value.
func DataPropertyAssertion(p DataPropertyExpression, subject Individual, value Literal) Axiom {
	return assertion{AxiomDataPropertyAssertion, p, subject, value}
}

// RDFSComment is the annotation property used for node descriptions.
const RDFSComment = IRI(NamespaceRDFS + "comment")

type annotation struct {
	property IRI
	subject  IRI
	value    Literal
}

// AnnotationAssertion annotates subject with value through property.
func AnnotationAssertion(property, subject IRI, value Literal) Axiom {
	return annotation{property, subject, value}
}

func (annotation) Kind() AxiomKind { return AxiomAnnotationAssertion }
func (a annotation) String() string {
	return render(AxiomAnnotationAssertion.String(), a.property, a.subject, a.value)
}
