package view

import (
	"github.com/paulmach/orb/geojson"
	"github.com/uriscope/uriscope/modules/geo"
	"github.com/uriscope/uriscope/modules/rdf"
)

// TermView is one rendered RDF term: the raw term plus its display label,
// and for IRI nodes the navigation target. Local URIs get an in-app link;
// foreign ones open as a new top-level navigation.
type TermView struct {
	Term     rdf.Term `json:"term"`
	Display  string   `json:"display"`
	Link     string   `json:"link,omitempty"`
	External bool     `json:"external,omitempty"`
}

// PropertyView is one row of the property table.
type PropertyView struct {
	Predicate TermView   `json:"predicate"`
	Values    []TermView `json:"values"`
}

// GeometryView is the map payload: the reprojected geometry as a GeoJSON
// feature plus viewport hints.
type GeometryView struct {
	SourceSRID int              `json:"source_srid"`
	Feature    *geojson.Feature `json:"feature"`
	Fit        geo.FitHints     `json:"fit"`
}

// Page is the full model behind one resource page.
type Page struct {
	URI        string         `json:"uri"`
	Title      string         `json:"title"`
	Types      []TermView     `json:"types"`
	Properties []PropertyView `json:"properties"`

	// Best-effort sections; nil means absent.
	Geometry *GeometryView `json:"geometry,omitempty"`
	Related  []TermView    `json:"related,omitempty"`
}
