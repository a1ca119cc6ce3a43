package view

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/akyoto/cache"
	knakkrdf "github.com/knakk/rdf"
	"github.com/pkg/errors"
	"github.com/uriscope/uriscope/modules/prefixes"
	"github.com/uriscope/uriscope/modules/rdf"
	"github.com/uriscope/uriscope/modules/resolver"
	"github.com/uriscope/uriscope/modules/sparql"
	"github.com/uriscope/uriscope/modules/ui"
)

const relatedLimit = 10

// GeometryRenderer turns a parsed spatial literal into the map payload.
// The orchestrator holds the capability instead of probing for ambient
// entry points, so a deployment without a map simply injects nothing.
type GeometryRenderer interface {
	RenderGeometry(ctx context.Context, wktLiteral string) (*GeometryView, error)
}

// GraphRenderer shapes the triple set for the interactive graph widget.
type GraphRenderer interface {
	RenderGraph(uri string, triples []rdf.Triple) any
}

// Viewer holds everything that outlives a single page load: the endpoint
// client, the prefix mapping, the geometry transformer, the injected
// renderer capabilities and the related-resources cache.
type Viewer struct {
	Namespace string // entity namespace URI
	Client    *sparql.Client
	Prefixes  *prefixes.Map

	Geometry GeometryRenderer
	Graph    GraphRenderer

	related *cache.Cache
}

func NewViewer(namespace string, client *sparql.Client, pm *prefixes.Map) *Viewer {
	if pm == nil {
		pm = prefixes.Empty()
	}
	return &Viewer{
		Namespace: namespace,
		Client:    client,
		Prefixes:  pm,
		related:   cache.New(5 * time.Minute),
	}
}

// Session is the page-session context: one page load from resolution to
// the finished page model. It single-owns the triple set; nothing mutates
// it concurrently because one session serves exactly one load.
type Session struct {
	viewer   *Viewer
	resolver resolver.Resolver
	origin   string

	statemu sync.Mutex
	state   State
	onState func(State)

	URI    string
	Result *rdf.DescribeResult
}

// NewSession creates the context for one page load. pageOrigin is the
// scheme+host the page was requested on; onState (optional) observes
// pipeline transitions.
func (v *Viewer) NewSession(pageOrigin string, onState func(State)) *Session {
	return &Session{
		viewer: v,
		resolver: resolver.Resolver{
			BaseOrigin:      pageOrigin,
			EntityNamespace: v.Namespace,
		},
		origin:  pageOrigin,
		onState: onState,
		state:   Init,
	}
}

// setState is safe for the two best-effort steps that run concurrently.
func (s *Session) setState(st State) {
	s.statemu.Lock()
	defer s.statemu.Unlock()
	s.state = st
	ui.Trace().Msgf("Page load state %v", st)
	if s.onState != nil {
		s.onState(st)
	}
}

// State returns the current pipeline state.
func (s *Session) State() State {
	s.statemu.Lock()
	defer s.statemu.Unlock()
	return s.state
}

// Resolve maps a request path to the entity URI without loading it.
func (s *Session) Resolve(path string) (string, error) {
	uri, err := s.resolver.Resolve(path)
	if err != nil {
		return "", err
	}
	s.URI = uri
	return uri, nil
}

// Load runs the whole pipeline for a request path. Primary steps abort on
// first failure; the geometry check and the related lookup are
// independent best-effort steps whose failures are logged and swallowed.
func (s *Session) Load(ctx context.Context, path string) (*Page, error) {
	page, err := s.loadPrimary(ctx, path)
	if err != nil {
		s.setState(Error)
		return nil, err
	}

	// Two independently failing steps with no ordering between them.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.setState(GeometryCheck)
		gv, err := s.geometryView(ctx)
		if err != nil {
			s.skipSection("Geometry", err)
			return
		}
		page.Geometry = gv
	}()
	go func() {
		defer wg.Done()
		s.setState(RelatedLookup)
		related, err := s.relatedResources(ctx)
		if err != nil {
			s.skipSection("See-also", err)
			return
		}
		page.Related = related
	}()
	wg.Wait()

	s.setState(Done)
	return page, nil
}

// skipSection logs a swallowed secondary failure. Primary-class errors
// leaking in (a transport failure on the WKT lookup, say) point at
// endpoint trouble rather than data, so they log louder.
func (s *Session) skipSection(section string, err error) {
	logger := ui.Warn()
	if Primary(err) {
		logger = ui.Error()
	}
	logger.Msgf("%v section skipped for %v: %v", section, s.URI, err)
}

func (s *Session) loadPrimary(ctx context.Context, path string) (*Page, error) {
	s.setState(ResolvingURI)
	uri, err := s.resolver.Resolve(path)
	if err != nil {
		return nil, err
	}
	s.URI = uri

	s.setState(Querying)
	body, err := s.viewer.Client.Describe(ctx, uri)
	if err != nil {
		return nil, err
	}

	s.setState(Parsing)
	triples, err := rdf.ParseNTriples(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if len(triples) == 0 {
		return nil, errors.Wrapf(ErrEmptyDescribe, "%v", uri)
	}
	s.Result = rdf.NewDescribeResult(triples)

	s.setState(Rendering)
	return s.renderPage(), nil
}

func (s *Session) renderPage() *Page {
	page := &Page{
		URI:   s.URI,
		Title: s.viewer.Prefixes.Shorten(s.URI),
	}
	if label, ok := s.Result.Label(s.URI, "en"); ok {
		page.Title = label
	}

	for _, t := range s.Result.Types() {
		page.Types = append(page.Types, s.termView(t))
	}
	for _, group := range s.Result.PropertiesOf(s.URI) {
		pv := PropertyView{Predicate: s.termView(group.Predicate)}
		for _, value := range group.Values {
			pv.Values = append(pv.Values, s.termView(value))
		}
		page.Properties = append(page.Properties, pv)
	}
	return page
}

// termView renders one term for display, branching exhaustively on the
// term kind.
func (s *Session) termView(t rdf.Term) TermView {
	tv := TermView{Term: t}
	switch t.Kind {
	case rdf.KindIRI:
		tv.Display = s.viewer.Prefixes.Shorten(t.Value)
		if link, ok := s.resolver.LocalLink(t.Value, s.origin); ok {
			tv.Link = link
		} else {
			tv.Link = t.Value
			tv.External = true
		}
	case rdf.KindBlank:
		tv.Display = "_:" + t.Value
	case rdf.KindLiteral:
		tv.Display = t.Value
	}
	return tv
}

// geometryView locates the spatial literal for the page's geometry node
// and hands it to the injected renderer. The literal is taken from the
// DESCRIBE result when present, otherwise fetched with a dedicated
// SELECT.
func (s *Session) geometryView(ctx context.Context) (*GeometryView, error) {
	if s.viewer.Geometry == nil {
		return nil, nil
	}
	node, ok := s.Result.GeometryNode()
	if !ok {
		return nil, nil
	}

	literal, found := s.findWKT(node)
	if !found {
		var err error
		literal, err = s.fetchWKT(ctx, node)
		if err != nil {
			return nil, err
		}
		if literal == "" {
			return nil, nil
		}
	}
	return s.viewer.Geometry.RenderGeometry(ctx, literal)
}

func (s *Session) findWKT(node rdf.Term) (string, bool) {
	if node.Kind == rdf.KindLiteral {
		// Some endpoints attach the WKT literal to hasGeometry directly.
		return node.Value, true
	}
	for _, t := range s.Result.Triples() {
		if t.Subject.Value != node.Value || t.Object.Kind != rdf.KindLiteral {
			continue
		}
		if t.Predicate.Value == rdf.GeoAsWKT || t.Object.Datatype == rdf.GeoWKTLiteral {
			return t.Object.Value, true
		}
	}
	return "", false
}

func (s *Session) fetchWKT(ctx context.Context, node rdf.Term) (string, error) {
	res, err := s.viewer.Client.SelectJSON(ctx, sparql.WKTQuery(node.Value, rdf.GeoAsWKT))
	if err != nil {
		return "", err
	}
	for _, row := range res.Solutions() {
		if lit, ok := row["wkt"].(knakkrdf.Literal); ok {
			return lit.String(), nil
		}
	}
	return "", nil
}

// relatedResources performs the "same class" lookup for the first type of
// the resource, cached for a few minutes per URI.
func (s *Session) relatedResources(ctx context.Context) ([]TermView, error) {
	types := s.Result.Types()
	if len(types) == 0 || !types[0].IsIRI() {
		return nil, nil
	}

	if cached, ok := s.viewer.related.Get(s.URI); ok {
		return s.renderRelated(cached.([]string)), nil
	}

	res, err := s.viewer.Client.SelectJSON(ctx, sparql.RelatedQuery(s.URI, types[0].Value, relatedLimit))
	if err != nil {
		return nil, errors.Wrapf(ErrRelatedLookup, "%v", err)
	}

	var uris []string
	for _, row := range res.Solutions() {
		if iri, ok := row["resource"].(knakkrdf.IRI); ok {
			uris = append(uris, iri.String())
		}
	}
	s.viewer.related.Set(s.URI, uris, 5*time.Minute)
	return s.renderRelated(uris), nil
}

func (s *Session) renderRelated(uris []string) []TermView {
	views := make([]TermView, 0, len(uris))
	for _, uri := range uris {
		views = append(views, s.termView(rdf.IRITerm(uri)))
	}
	return views
}

// GraphData returns the payload for the graph widget, or nil when no
// renderer was injected or nothing is loaded.
func (s *Session) GraphData() any {
	if s.viewer.Graph == nil || s.Result == nil {
		return nil
	}
	return s.viewer.Graph.RenderGraph(s.URI, s.Result.Triples())
}
