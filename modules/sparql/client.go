// Package sparql talks to the SPARQL endpoint over HTTP. The endpoint is
// a black box: one query in, one serialized answer out, no retries.
package sparql

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/knakk/sparql"
	"github.com/pkg/errors"
	"github.com/uriscope/uriscope/modules/ui"
)

// ErrTransport wraps HTTP-level failures reaching the endpoint, including
// non-success statuses. The status text travels with it for the page
// error banner.
var ErrTransport = errors.New("query transport failed")

// Accept values for content-negotiated raw downloads, keyed by the short
// format names the download links use.
var RawFormats = map[string]string{
	"ntriples": "application/n-triples",
	"turtle":   "text/turtle",
	"rdfxml":   "application/rdf+xml",
	"jsonld":   "application/ld+json",
}

// RawFormatNames lists the short format names, sorted, for usage texts.
func RawFormatNames() string {
	names := make([]string, 0, len(RawFormats))
	for name := range RawFormats {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

var (
	describeTmpl = template.Must(template.New("describe").Parse(
		`DESCRIBE <{{.}}>`))
	wktTmpl = template.Must(template.New("wkt").Parse(
		`SELECT ?wkt WHERE { <{{.Node}}> <{{.Predicate}}> ?wkt }`))
	relatedTmpl = template.Must(template.New("related").Parse(
		`SELECT DISTINCT ?resource WHERE { ?resource a <{{.Type}}> . FILTER(?resource != <{{.Resource}}>) } LIMIT {{.Limit}}`))
)

type Client struct {
	Endpoint string
	HTTP     *http.Client
}

func New(endpoint string) *Client {
	return &Client{
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

// DescribeQuery renders the DESCRIBE query text for a resource.
func DescribeQuery(resource string) string {
	var buf bytes.Buffer
	describeTmpl.Execute(&buf, resource)
	return buf.String()
}

// WKTQuery renders the geometry-literal SELECT for a geometry node.
func WKTQuery(node, predicate string) string {
	var buf bytes.Buffer
	wktTmpl.Execute(&buf, struct{ Node, Predicate string }{node, predicate})
	return buf.String()
}

// RelatedQuery renders the same-class lookup for a resource.
func RelatedQuery(resource, typeURI string, limit int) string {
	var buf bytes.Buffer
	relatedTmpl.Execute(&buf, struct {
		Type, Resource string
		Limit          int
	}{typeURI, resource, limit})
	return buf.String()
}

// Describe fetches the resource description as N-Triples. The exact,
// unambiguous serialization keeps parsing purely syntactic regardless of
// the endpoint's serializer.
func (c *Client) Describe(ctx context.Context, resource string) ([]byte, error) {
	body, _, err := c.query(ctx, DescribeQuery(resource), "application/n-triples")
	return body, err
}

// DescribeAs fetches the resource description in a negotiated
// serialization and passes it through untouched, returning the body and
// the content type the endpoint answered with.
func (c *Client) DescribeAs(ctx context.Context, resource, accept string) ([]byte, string, error) {
	return c.query(ctx, DescribeQuery(resource), accept)
}

// SelectJSON runs a SELECT query and parses the SPARQL JSON results.
func (c *Client) SelectJSON(ctx context.Context, query string) (*sparql.Results, error) {
	body, _, err := c.query(ctx, query, "application/sparql-results+json")
	if err != nil {
		return nil, err
	}
	res, err := sparql.ParseJSON(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(ErrTransport, "unparseable result set: %v", err)
	}
	return res, nil
}

func (c *Client) query(ctx context.Context, query, accept string) ([]byte, string, error) {
	values := url.Values{}
	values.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return nil, "", errors.Wrapf(ErrTransport, "%v", err)
	}
	req.Header.Set("Accept", accept)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, "", errors.Wrapf(ErrTransport, "%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", errors.Wrapf(ErrTransport, "endpoint answered %v", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrapf(ErrTransport, "reading response: %v", err)
	}
	ui.Debug().Msgf("SPARQL query answered in %v, %v bytes", time.Since(start), len(body))
	return body, resp.Header.Get("Content-Type"), nil
}
