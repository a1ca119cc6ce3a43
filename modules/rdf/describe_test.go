package rdf

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

const roadDoc = `<https://data.example.org/id/road/1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/ns/Road> .
<https://data.example.org/id/road/1> <http://www.w3.org/2000/01/rdf-schema#label> "Hoofdstraat"@nl .
<https://data.example.org/id/road/1> <http://www.w3.org/2000/01/rdf-schema#label> "Main Street"@en .
<https://data.example.org/id/road/1> <http://www.w3.org/2000/01/rdf-schema#label> "Road one" .
<https://data.example.org/id/road/1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/ns/Feature> .
<https://data.example.org/id/road/1> <http://www.opengis.net/ont/geosparql#hasGeometry> _:geom1 .
<https://data.example.org/id/road/1> <http://www.opengis.net/ont/geosparql#hasGeometry> _:geom2 .
<https://data.example.org/id/road/1> <http://example.org/ns/width> "4.5"^^<http://www.w3.org/2001/XMLSchema#decimal> .
_:geom1 <http://www.opengis.net/ont/geosparql#asWKT> "POINT (4.4 50.8)"^^<http://www.opengis.net/ont/geosparql#wktLiteral> .
`

func parseRoad(t *testing.T) *DescribeResult {
	t.Helper()
	triples, err := ParseNTriples(strings.NewReader(roadDoc))
	if err != nil {
		t.Fatalf("ParseNTriples failed: %v", err)
	}
	return NewDescribeResult(triples)
}

func TestParseNTriples(t *testing.T) {
	d := parseRoad(t)
	if d.Len() != 9 {
		t.Fatalf("parsed %v triples, wanted 9", d.Len())
	}

	first := d.Triples()[0]
	if !first.Subject.IsIRI() || first.Subject.Value != "https://data.example.org/id/road/1" {
		t.Errorf("first subject = %+v", first.Subject)
	}
	if first.Object.Kind != KindIRI {
		t.Errorf("first object kind = %v, wanted %v", first.Object.Kind, KindIRI)
	}
}

func TestParseNTriplesEmpty(t *testing.T) {
	triples, err := ParseNTriples(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty input should parse, got %v", err)
	}
	if len(triples) != 0 {
		t.Fatalf("empty input produced %v triples", len(triples))
	}
}

func TestParseNTriplesMalformed(t *testing.T) {
	_, err := ParseNTriples(strings.NewReader("<http://example.org/a> <http://example.org/b> .\n"))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("malformed input error %v, wanted ErrParse", err)
	}
}

func TestLiteralTerms(t *testing.T) {
	d := parseRoad(t)
	var found bool
	for _, triple := range d.Triples() {
		if triple.Object.Kind != KindLiteral || triple.Object.Language != "nl" {
			continue
		}
		found = true
		if triple.Object.Value != "Hoofdstraat" {
			t.Errorf("nl literal value = %q", triple.Object.Value)
		}
	}
	if !found {
		t.Error("no nl literal found")
	}

	// Plain literals carry no datatype; xsd:string is normalized away.
	plain := LiteralTerm("x", "", "http://www.w3.org/2001/XMLSchema#string")
	if plain.Datatype != "" {
		t.Errorf("xsd:string literal datatype = %q, wanted empty", plain.Datatype)
	}
}

func TestTypesKeepSourceOrder(t *testing.T) {
	d := parseRoad(t)
	types := d.Types()
	if len(types) != 2 {
		t.Fatalf("got %v types, wanted 2", len(types))
	}
	if types[0].Value != "http://example.org/ns/Road" || types[1].Value != "http://example.org/ns/Feature" {
		t.Errorf("types out of order: %+v", types)
	}
}

func TestGeometryNodeFirstWins(t *testing.T) {
	d := parseRoad(t)
	node, found := d.GeometryNode()
	if !found {
		t.Fatal("no geometry node found")
	}
	if node.Kind != KindBlank || node.Value != "geom1" {
		t.Errorf("geometry node = %+v, wanted blank geom1", node)
	}
}

func TestLabelLanguagePriority(t *testing.T) {
	d := parseRoad(t)
	subject := "https://data.example.org/id/road/1"

	tests := []struct {
		language string
		want     string
	}{
		{"nl", "Hoofdstraat"},
		{"nl-BE", "Hoofdstraat"},
		{"en", "Main Street"},
		{"de", "Main Street"}, // falls back to en
		{"", "Road one"},
	}
	for _, test := range tests {
		got, found := d.Label(subject, test.language)
		if !found {
			t.Fatalf("Label(%q) found nothing", test.language)
		}
		if got != test.want {
			t.Errorf("Label(%q) = %q, wanted %q", test.language, got, test.want)
		}
	}

	if _, found := d.Label("https://data.example.org/id/road/2", "en"); found {
		t.Error("Label for unknown subject should not be found")
	}
}

func TestPropertiesOf(t *testing.T) {
	d := parseRoad(t)
	groups := d.PropertiesOf("https://data.example.org/id/road/1")
	if len(groups) != 4 {
		t.Fatalf("got %v groups, wanted 4", len(groups))
	}

	// Lexicographic by full predicate IRI.
	for i := 1; i < len(groups); i++ {
		if groups[i-1].Predicate.Value >= groups[i].Predicate.Value {
			t.Errorf("groups not sorted: %q before %q", groups[i-1].Predicate.Value, groups[i].Predicate.Value)
		}
	}

	for _, g := range groups {
		switch g.Predicate.Value {
		case RDFSLabel:
			if len(g.Values) != 3 {
				t.Errorf("label group has %v values, wanted 3", len(g.Values))
			}
			if g.Values[0].Value != "Hoofdstraat" {
				t.Errorf("label values lost source order: %+v", g.Values)
			}
		case GeoHasGeometry:
			if len(g.Values) != 2 {
				t.Errorf("geometry group has %v values, wanted 2", len(g.Values))
			}
		}
	}

	if got := d.PropertiesOf("https://data.example.org/id/road/999"); got != nil {
		t.Errorf("unknown subject produced groups: %+v", got)
	}
}
