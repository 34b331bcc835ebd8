package owl

import (
	"regexp"
	"sort"
	"strings"
)

// Standard namespaces.
const (
	NamespaceOWL  = "http://www.w3.org/2002/07/owl#"
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceXSD  = "http://www.w3.org/2001/XMLSchema#"
	NamespaceXML  = "http://www.w3.org/XML/1998/namespace"
)

// StandardPrefixes maps the built-in prefixes to their namespaces.
var StandardPrefixes = map[string]string{
	"owl":  NamespaceOWL,
	"rdf":  NamespaceRDF,
	"rdfs": NamespaceRDFS,
	"xsd":  NamespaceXSD,
	"xml":  NamespaceXML,
}

var datatypes = map[string]struct{}{
	"owl:rational": {}, "owl:real": {},
	"rdf:PlainLiteral": {}, "rdf:XMLLiteral": {}, "rdfs:Literal": {},
	"xsd:anyURI": {}, "xsd:base64Binary": {}, "xsd:boolean": {}, "xsd:byte": {},
	"xsd:dateTime": {}, "xsd:dateTimeStamp": {}, "xsd:decimal": {}, "xsd:double": {},
	"xsd:float": {}, "xsd:hexBinary": {}, "xsd:int": {}, "xsd:integer": {},
	"xsd:language": {}, "xsd:long": {}, "xsd:Name": {}, "xsd:NCName": {},
	"xsd:negativeInteger": {}, "xsd:NMTOKEN": {}, "xsd:nonNegativeInteger": {},
	"xsd:nonPositiveInteger": {}, "xsd:normalizedString": {}, "xsd:positiveInteger": {},
	"xsd:short": {}, "xsd:string": {}, "xsd:token": {}, "xsd:unsignedByte": {},
	"xsd:unsignedInt": {}, "xsd:unsignedLong": {}, "xsd:unsignedShort": {},
}

var facets = map[string]struct{}{
	"xsd:maxExclusive": {}, "xsd:maxInclusive": {}, "xsd:minExclusive": {},
	"xsd:minInclusive": {}, "rdf:langRange": {}, "xsd:length": {},
	"xsd:maxLength": {}, "xsd:minLength": {}, "xsd:pattern": {},
}

// IsDatatype reports whether curie names an OWL 2 datatype.
func IsDatatype(curie string) bool {
	_, ok := datatypes[curie]
	return ok
}

// IsFacet reports whether curie names an OWL 2 constraining facet.
func IsFacet(curie string) bool {
	_, ok := facets[curie]
	return ok
}

// Datatypes returns the supported datatype CURIEs, sorted.
func Datatypes() []string {
	out := make([]string, 0, len(datatypes))
	for k := range datatypes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ExpandCURIE expands a prefixed name against the standard prefixes.
func ExpandCURIE(curie string) (IRI, bool) {
	prefix, local, ok := strings.Cut(curie, ":")
	if !ok {
		return "", false
	}
	ns, ok := StandardPrefixes[prefix]
	if !ok {
		return "", false
	}
	return IRI(ns + local), true
}

var invalidNameChar = regexp.MustCompile(`\W`)

// LocalName turns a diagram label into an IRI fragment by replacing every
// non-word character with an underscore.
func LocalName(label string) string {
	return invalidNameChar.ReplaceAllString(label, "_")
}

// Namespace normalizes an ontology IRI so that local names can be appended.
func Namespace(iri string) string {
	if iri == "" || strings.HasSuffix(iri, "#") || strings.HasSuffix(iri, "/") {
		return iri
	}
	return iri + "#"
}
