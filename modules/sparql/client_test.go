package sparql

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestQueryRendering(t *testing.T) {
	if got := DescribeQuery("https://data.example.org/id/road/1"); got != "DESCRIBE <https://data.example.org/id/road/1>" {
		t.Errorf("DescribeQuery = %q", got)
	}

	got := WKTQuery("https://data.example.org/geom/1", "http://www.opengis.net/ont/geosparql#asWKT")
	if !strings.Contains(got, "<https://data.example.org/geom/1>") || !strings.Contains(got, "?wkt") {
		t.Errorf("WKTQuery = %q", got)
	}

	got = RelatedQuery("https://data.example.org/id/road/1", "http://example.org/ns/Road", 10)
	for _, part := range []string{"?resource a <http://example.org/ns/Road>", "FILTER(?resource != <https://data.example.org/id/road/1>)", "LIMIT 10"} {
		if !strings.Contains(got, part) {
			t.Errorf("RelatedQuery missing %q in %q", part, got)
		}
	}
}

func TestDescribe(t *testing.T) {
	const answer = `<http://example.org/a> <http://example.org/b> <http://example.org/c> .` + "\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "DESCRIBE <http://example.org/a>" {
			t.Errorf("query parameter = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/n-triples" {
			t.Errorf("accept header = %q", got)
		}
		w.Header().Set("Content-Type", "application/n-triples")
		w.Write([]byte(answer))
	}))
	defer server.Close()

	c := New(server.URL)
	body, err := c.Describe(context.Background(), "http://example.org/a")
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != answer {
		t.Errorf("body = %q", body)
	}
}

func TestDescribeAsContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/turtle" {
			t.Errorf("accept header = %q", got)
		}
		w.Header().Set("Content-Type", "text/turtle;charset=utf-8")
		w.Write([]byte("@prefix ex: <http://example.org/> .\n"))
	}))
	defer server.Close()

	c := New(server.URL)
	_, contenttype, err := c.DescribeAs(context.Background(), "http://example.org/a", "text/turtle")
	if err != nil {
		t.Fatal(err)
	}
	if contenttype != "text/turtle;charset=utf-8" {
		t.Errorf("content type = %q", contenttype)
	}
}

func TestTransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL)
	if _, err := c.Describe(context.Background(), "http://example.org/a"); !errors.Is(err, ErrTransport) {
		t.Errorf("5xx error %v, wanted ErrTransport", err)
	}

	server.Close()
	if _, err := c.Describe(context.Background(), "http://example.org/a"); !errors.Is(err, ErrTransport) {
		t.Errorf("connection failure error %v, wanted ErrTransport", err)
	}
}

func TestSelectJSON(t *testing.T) {
	const results = `{
	  "head": {"vars": ["resource"]},
	  "results": {"bindings": [
	    {"resource": {"type": "uri", "value": "http://example.org/r1"}},
	    {"resource": {"type": "uri", "value": "http://example.org/r2"}}
	  ]}
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/sparql-results+json")
		w.Write([]byte(results))
	}))
	defer server.Close()

	c := New(server.URL)
	res, err := c.SelectJSON(context.Background(), "SELECT ?resource WHERE { ?resource ?p ?o }")
	if err != nil {
		t.Fatal(err)
	}
	solutions := res.Solutions()
	if len(solutions) != 2 {
		t.Fatalf("got %v solutions, wanted 2", len(solutions))
	}
	if got := solutions[0]["resource"].String(); got != "http://example.org/r1" {
		t.Errorf("first solution = %q", got)
	}
}

func TestSelectJSONGarbage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer server.Close()

	c := New(server.URL)
	if _, err := c.SelectJSON(context.Background(), "SELECT * WHERE { ?s ?p ?o }"); !errors.Is(err, ErrTransport) {
		t.Errorf("garbage result error %v, wanted ErrTransport", err)
	}
}
