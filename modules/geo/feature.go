package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Fixed styling for the single geometry shown per page.
const (
	StrokeColor   = "#2c7fb8"
	StrokeWeight  = 3
	FillColor     = "#a6bddb"
	FillOpacity   = 0.35
	BoundsPadding = 24 // pixels
	MaxFitZoom    = 16 // keeps single points from over-zooming
)

// FitHints tells the map client how to frame the geometry.
type FitHints struct {
	BoundingBox [4]float64 `json:"bbox"` // west, south, east, north
	Padding     int        `json:"padding"`
	MaxZoom     int        `json:"maxzoom"`
}

// Feature wraps a display-system geometry in a GeoJSON feature with the
// fixed styling attached as properties.
func Feature(g orb.Geometry) *geojson.Feature {
	f := geojson.NewFeature(g)
	f.Properties["stroke"] = StrokeColor
	f.Properties["stroke-width"] = StrokeWeight
	f.Properties["fill"] = FillColor
	f.Properties["fill-opacity"] = FillOpacity
	return f
}

// FitBounds returns the viewport hints for a geometry.
func FitBounds(g orb.Geometry) FitHints {
	b := g.Bound()
	return FitHints{
		BoundingBox: [4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]},
		Padding:     BoundsPadding,
		MaxZoom:     MaxFitZoom,
	}
}
