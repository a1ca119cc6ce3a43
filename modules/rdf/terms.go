package rdf

//go:generate go tool github.com/dmarkham/enumer -trimprefix=Kind -type=TermKind -output termkind_enums.go -json

// TermKind discriminates the three RDF term kinds. Every consumer switches
// exhaustively on it, so a new kind is a compile-visible change.
type TermKind int

const (
	KindIRI TermKind = iota
	KindBlank
	KindLiteral
)

// Term is one RDF node. Value holds the IRI, the blank node label or the
// literal lexical form depending on Kind. Language and Datatype only carry
// meaning for literals; an empty Datatype implies xsd:string.
type Term struct {
	Kind     TermKind `json:"kind"`
	Value    string   `json:"value"`
	Language string   `json:"language,omitempty"`
	Datatype string   `json:"datatype,omitempty"`
}

func IRITerm(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

func BlankTerm(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

func LiteralTerm(value, language, datatype string) Term {
	if datatype == XSDString {
		datatype = ""
	}
	return Term{Kind: KindLiteral, Value: value, Language: language, Datatype: datatype}
}

// IsIRI reports whether the term is an IRI node.
func (t Term) IsIRI() bool {
	return t.Kind == KindIRI
}

// Triple is one immutable subject-predicate-object statement.
type Triple struct {
	Subject   Term `json:"subject"`
	Predicate Term `json:"predicate"`
	Object    Term `json:"object"`
}
