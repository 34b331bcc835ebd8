package mcpserver

// DiagramFormatContract describes the diagram document format that LLM
// consumers should follow when writing diagrams for translation.
const DiagramFormatContract = `# Graphol Diagram Format Contract

A diagram is a YAML (or JSON) document with a list of typed nodes and a list
of typed edges. Translation turns it into an OWL 2 ontology.

## Structure

` + "```" + `yaml
iri: http://example.org/university   # OPTIONAL – ontology IRI; entity IRIs are built under it
prefix: uni                          # OPTIONAL – prefix recorded in the exported ontology
nodes:
  - {id: person, type: concept, label: Person, description: A human being}
  - {id: student, type: concept, label: Student}
edges:
  - {id: isa, type: inclusion, source: student, target: person}
` + "```" + `

## Node types

- Predicates (declared in the ontology): ` + "`concept`, `role`, `attribute`, `value-domain`" + `.
- ` + "`individual`" + `: a named individual, or a literal when ` + "`identity: literal`" + ` (uses ` + "`value`" + ` and ` + "`datatype`" + `).
- Constructors taking input edges: ` + "`complement`, `intersection`, `union`, `disjoint-union`, `enumeration`, `role-chain`, `role-inverse`, `datatype-restriction`, `property-assertion`" + `.
- ` + "`domain-restriction`" + ` / ` + "`range-restriction`" + `: set ` + "`restriction`" + ` to ` + "`exists`, `forall`, `self`" + ` or ` + "`cardinality`" + ` (with ` + "`cardinality: {min, max}`" + `). A ` + "`cardinality`" + ` block alone implies the cardinality restriction and is rejected next to any other restriction.
- ` + "`value-restriction`" + `: a facet restriction with ` + "`facet`" + ` (e.g. ` + "`xsd:minInclusive`" + `), ` + "`value`" + ` and ` + "`datatype`" + `.

## Node fields

- ` + "`id`" + ` REQUIRED, unique. ` + "`type`" + ` REQUIRED.
- ` + "`label`" + ` names predicates and individuals; non-word characters become underscores in IRIs.
- ` + "`special: top|bottom`" + ` turns a concept, role or attribute into the top or bottom entity of its kind (owl:Thing, owl:topObjectProperty, ...); ` + "`special: top`" + ` on a value domain is rdfs:Literal.
- ` + "`properties`" + ` (roles and attributes): ` + "`functional`, `inverse-functional`, `symmetric`, `asymmetric`, `reflexive`, `irreflexive`, `transitive`" + `.
- ` + "`datatype`" + ` is an ` + "`xsd:`" + `, ` + "`rdf:`" + ` or ` + "`rdfs:`" + ` CURIE.
- ` + "`inputs`" + ` lists input edge ids in operand order; required for order-sensitive nodes (` + "`role-chain`, `property-assertion`" + `) when the order matters.

## Edge types

- ` + "`inclusion`" + `: source is subsumed by target. ` + "`complete: true`" + ` makes it an equivalence.
- ` + "`input`" + `: source is an operand of the target constructor. ` + "`functional: true`" + ` on an input into a domain restriction makes the property functional; into a range restriction, inverse functional.
- ` + "`instance-of`" + `: an individual is a member of a concept, or a property assertion instantiates a role or attribute.

## Rules

1. Every edge ` + "`source`" + ` and ` + "`target`" + ` must name an existing node id.
2. Inclusion endpoints must have matching kinds (concept/concept, role/role, attribute/attribute, or a range restriction of an attribute into a value domain).
3. A malformed diagram is rejected as a whole: the error names the first offending node or edge id and no axioms are produced.
4. File paths end with ` + "`.yaml`, `.yml`" + ` or ` + "`.json`" + ` and use forward slashes.
`
