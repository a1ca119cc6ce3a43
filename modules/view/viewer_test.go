package view

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/uriscope/uriscope/modules/geo"
	"github.com/uriscope/uriscope/modules/prefixes"
	"github.com/uriscope/uriscope/modules/rdf"
	"github.com/uriscope/uriscope/modules/resolver"
	"github.com/uriscope/uriscope/modules/sparql"
)

const roadTriples = `<%NS%/id/road/1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/ns/Road> .
<%NS%/id/road/1> <http://www.w3.org/2000/01/rdf-schema#label> "Main Street"@en .
<%NS%/id/road/1> <http://www.opengis.net/ont/geosparql#hasGeometry> _:geom .
_:geom <http://www.opengis.net/ont/geosparql#asWKT> "SRID=31370;POINT(150000 150000)"^^<http://www.opengis.net/ont/geosparql#wktLiteral> .
`

const relatedResults = `{
  "head": {"vars": ["resource"]},
  "results": {"bindings": [
    {"resource": {"type": "uri", "value": "%NS%/id/road/2"}},
    {"resource": {"type": "uri", "value": "%NS%/id/road/3"}}
  ]}
}`

// fakeEndpoint answers DESCRIBE with canned triples and the related
// SELECT with canned bindings, substituting the namespace placeholder.
func fakeEndpoint(t *testing.T, namespace string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		switch {
		case strings.HasPrefix(query, "DESCRIBE"):
			w.Header().Set("Content-Type", "application/n-triples")
			if strings.Contains(query, "/id/road/1") {
				w.Write([]byte(strings.ReplaceAll(roadTriples, "%NS%", namespace)))
			}
			// Unknown resources describe to nothing.
		case strings.Contains(query, "?resource"):
			w.Header().Set("Content-Type", "application/sparql-results+json")
			w.Write([]byte(strings.ReplaceAll(relatedResults, "%NS%", namespace)))
		default:
			t.Errorf("unexpected query %q", query)
			http.Error(w, "unexpected query", http.StatusBadRequest)
		}
	}))
}

type stubGeometry struct {
	literal string
	fail    bool
}

func (s *stubGeometry) RenderGeometry(ctx context.Context, wktLiteral string) (*GeometryView, error) {
	if s.fail {
		return nil, errors.New("render failed")
	}
	s.literal = wktLiteral
	return &GeometryView{SourceSRID: 31370}, nil
}

func newTestViewer(endpoint, namespace string) *Viewer {
	pm, _ := prefixes.Load("")
	return NewViewer(namespace, sparql.New(endpoint), pm)
}

func TestSessionLoad(t *testing.T) {
	const namespace = "https://data.example.org"
	server := fakeEndpoint(t, namespace)
	defer server.Close()

	viewer := newTestViewer(server.URL, namespace)
	geom := &stubGeometry{}
	viewer.Geometry = geom

	var states []State
	session := viewer.NewSession(namespace, func(st State) {
		states = append(states, st)
	})

	page, err := session.Load(context.Background(), "/id/road/1")
	if err != nil {
		t.Fatal(err)
	}

	if page.URI != namespace+"/id/road/1" {
		t.Errorf("page URI = %q", page.URI)
	}
	if page.Title != "Main Street" {
		t.Errorf("page title = %q, wanted the en label", page.Title)
	}
	if len(page.Types) != 1 || page.Types[0].Term.Value != "http://example.org/ns/Road" {
		t.Errorf("page types = %+v", page.Types)
	}
	if len(page.Properties) != 3 {
		t.Errorf("got %v property groups, wanted 3", len(page.Properties))
	}

	if page.Geometry == nil {
		t.Fatal("geometry section missing")
	}
	if geom.literal != "SRID=31370;POINT(150000 150000)" {
		t.Errorf("renderer got literal %q", geom.literal)
	}

	if len(page.Related) != 2 {
		t.Fatalf("related = %+v", page.Related)
	}
	if page.Related[0].Link != "/id/road/2" {
		t.Errorf("related link = %q, wanted in-app path", page.Related[0].Link)
	}

	if session.State() != Done {
		t.Errorf("final state = %v", session.State())
	}
	if states[len(states)-1] != Done {
		t.Errorf("last observed state = %v", states[len(states)-1])
	}
	if states[0] != ResolvingURI {
		t.Errorf("first observed state = %v", states[0])
	}
}

func TestSessionLoadEmptyDescribe(t *testing.T) {
	const namespace = "https://data.example.org"
	server := fakeEndpoint(t, namespace)
	defer server.Close()

	viewer := newTestViewer(server.URL, namespace)
	session := viewer.NewSession(namespace, nil)

	_, err := session.Load(context.Background(), "/id/road/404")
	if !errors.Is(err, ErrEmptyDescribe) {
		t.Fatalf("error %v, wanted ErrEmptyDescribe", err)
	}
	if session.State() != Error {
		t.Errorf("state after failure = %v", session.State())
	}
	if StatusFor(err) != http.StatusNotFound {
		t.Errorf("StatusFor = %v", StatusFor(err))
	}
}

func TestSessionLoadNoURI(t *testing.T) {
	viewer := newTestViewer("http://unused.invalid", "https://data.example.org")
	session := viewer.NewSession("https://data.example.org", nil)

	_, err := session.Load(context.Background(), "/")
	if !errors.Is(err, resolver.ErrNoURI) {
		t.Fatalf("error %v, wanted ErrNoURI", err)
	}
	if StatusFor(err) != http.StatusBadRequest {
		t.Errorf("StatusFor = %v", StatusFor(err))
	}
}

func TestSessionLoadEndpointDown(t *testing.T) {
	server := httptest.NewServer(nil)
	server.Close()

	viewer := newTestViewer(server.URL, "https://data.example.org")
	session := viewer.NewSession("https://data.example.org", nil)

	_, err := session.Load(context.Background(), "/id/road/1")
	if !errors.Is(err, sparql.ErrTransport) {
		t.Fatalf("error %v, wanted ErrTransport", err)
	}
	if StatusFor(err) != http.StatusBadGateway {
		t.Errorf("StatusFor = %v", StatusFor(err))
	}
}

func TestGeometryFailureDegrades(t *testing.T) {
	const namespace = "https://data.example.org"
	server := fakeEndpoint(t, namespace)
	defer server.Close()

	viewer := newTestViewer(server.URL, namespace)
	viewer.Geometry = &stubGeometry{fail: true}
	session := viewer.NewSession(namespace, nil)

	page, err := session.Load(context.Background(), "/id/road/1")
	if err != nil {
		t.Fatal(err)
	}
	if page.Geometry != nil {
		t.Error("failed geometry render should leave the section absent")
	}
	if len(page.Properties) == 0 {
		t.Error("page body should survive a geometry failure")
	}
}

func TestTermViewModes(t *testing.T) {
	const namespace = "https://data.example.org"
	viewer := newTestViewer("http://unused.invalid", namespace)

	// Production mode: page origin equals the namespace.
	session := viewer.NewSession(namespace, nil)
	tv := session.termView(rdf.IRITerm(namespace + "/id/road/1"))
	if tv.Link != "/id/road/1" || tv.External {
		t.Errorf("local term in production mode = %+v", tv)
	}

	// Testing mode: origin differs, links keep the full URI after the slash.
	session = viewer.NewSession("http://localhost:8080", nil)
	tv = session.termView(rdf.IRITerm(namespace + "/id/road/1"))
	if tv.Link != "/"+namespace+"/id/road/1" || tv.External {
		t.Errorf("local term in testing mode = %+v", tv)
	}

	tv = session.termView(rdf.IRITerm("http://other.example.com/x"))
	if !tv.External || tv.Link != "http://other.example.com/x" {
		t.Errorf("foreign term = %+v", tv)
	}

	tv = session.termView(rdf.BlankTerm("geom"))
	if tv.Display != "_:geom" || tv.Link != "" {
		t.Errorf("blank term = %+v", tv)
	}

	tv = session.termView(rdf.LiteralTerm("42", "", "http://www.w3.org/2001/XMLSchema#integer"))
	if tv.Display != "42" || tv.Link != "" {
		t.Errorf("literal term = %+v", tv)
	}

	shortened := session.termView(rdf.IRITerm("http://www.w3.org/2000/01/rdf-schema#label"))
	if shortened.Display != "rdfs:label" {
		t.Errorf("display = %q, wanted the shortened form", shortened.Display)
	}
}

func TestPrimary(t *testing.T) {
	tests := []struct {
		err     error
		primary bool
	}{
		{resolver.ErrNoURI, true},
		{sparql.ErrTransport, true},
		{ErrEmptyDescribe, true},
		{rdf.ErrParse, true},
		{geo.ErrGeometryParse, false},
		{geo.ErrGeometryTransform, false},
		{ErrRelatedLookup, false},
		{prefixes.ErrPrefixLoad, false},
		{errors.Wrapf(ErrRelatedLookup, "wrapped"), false},
	}
	for _, test := range tests {
		if got := Primary(test.err); got != test.primary {
			t.Errorf("Primary(%v) = %v, wanted %v", test.err, got, test.primary)
		}
	}
}

func TestFindWKTByDatatype(t *testing.T) {
	// Some endpoints serve the WKT literal under their own predicate;
	// the wktLiteral datatype still identifies it.
	const wkt = "POINT(4.35 50.85)"
	triples := []rdf.Triple{
		{
			Subject:   rdf.BlankTerm("geom"),
			Predicate: rdf.IRITerm("http://example.org/ns/geometrie"),
			Object:    rdf.LiteralTerm(wkt, "", rdf.GeoWKTLiteral),
		},
	}

	viewer := newTestViewer("http://unused.invalid", "https://data.example.org")
	session := viewer.NewSession("https://data.example.org", nil)
	session.Result = rdf.NewDescribeResult(triples)

	literal, found := session.findWKT(rdf.BlankTerm("geom"))
	if !found || literal != wkt {
		t.Errorf("findWKT = %q, %v", literal, found)
	}

	if _, found := session.findWKT(rdf.BlankTerm("other")); found {
		t.Error("unrelated node should have no literal")
	}
}

func TestRelatedUsesCache(t *testing.T) {
	const namespace = "https://data.example.org"
	var selects int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		if strings.HasPrefix(query, "DESCRIBE") {
			w.Header().Set("Content-Type", "application/n-triples")
			w.Write([]byte(strings.ReplaceAll(roadTriples, "%NS%", namespace)))
			return
		}
		selects++
		w.Header().Set("Content-Type", "application/sparql-results+json")
		w.Write([]byte(strings.ReplaceAll(relatedResults, "%NS%", namespace)))
	}))
	defer server.Close()

	viewer := newTestViewer(server.URL, namespace)

	for i := 0; i < 2; i++ {
		session := viewer.NewSession(namespace, nil)
		if _, err := session.Load(context.Background(), "/id/road/1"); err != nil {
			t.Fatal(err)
		}
	}
	if selects != 1 {
		t.Errorf("same-class lookup ran %v times, wanted 1 (cached)", selects)
	}
}
