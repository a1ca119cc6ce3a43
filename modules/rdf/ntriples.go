package rdf

import (
	"io"
	"strings"

	knakk "github.com/knakk/rdf"
	"github.com/pkg/errors"
)

// ErrParse wraps any syntax error from the triple decoder.
var ErrParse = errors.New("malformed triple serialization")

// ParseNTriples decodes an N-Triples body into the flat triple list,
// preserving source order. A zero-length body yields an empty, valid
// result; any syntax error (unterminated literal, bad escape, invalid
// IRI) fails the whole parse.
func ParseNTriples(r io.Reader) ([]Triple, error) {
	dec := knakk.NewTripleDecoder(r, knakk.NTriples)

	var triples []Triple
	for t, err := dec.Decode(); err != io.EOF; t, err = dec.Decode() {
		if err != nil {
			return nil, errors.Wrapf(ErrParse, "%v", err)
		}
		triples = append(triples, Triple{
			Subject:   convertTerm(t.Subj),
			Predicate: convertTerm(t.Pred),
			Object:    convertTerm(t.Obj),
		})
	}
	return triples, nil
}

func convertTerm(t knakk.Term) Term {
	switch term := t.(type) {
	case knakk.IRI:
		return IRITerm(term.String())
	case knakk.Blank:
		// The decoder's identifier carries the "_:" marker; Term.Value
		// holds the bare label.
		return BlankTerm(strings.TrimPrefix(term.String(), "_:"))
	case knakk.Literal:
		return LiteralTerm(term.String(), term.Lang(), term.DataType.String())
	}
	// The decoder only emits the three kinds above.
	return Term{}
}
