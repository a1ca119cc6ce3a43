package frontend

import (
	"context"

	"github.com/uriscope/uriscope/modules/geo"
	"github.com/uriscope/uriscope/modules/ui"
	"github.com/uriscope/uriscope/modules/view"
)

// mapRenderer turns a spatial literal into the map section of a page:
// parse, reproject to WGS84 and attach display styling and fit hints.
type mapRenderer struct {
	transformer *geo.Transformer
}

func newMapRenderer(epsgLookupBase string) *mapRenderer {
	return &mapRenderer{
		transformer: geo.NewTransformer(epsgLookupBase),
	}
}

func (m *mapRenderer) RenderGeometry(ctx context.Context, wktLiteral string) (*view.GeometryView, error) {
	g, srid, err := geo.ParseSpatialLiteral(wktLiteral)
	if err != nil {
		return nil, err
	}

	projected, err := m.transformer.ToWGS84(ctx, g, srid)
	if err != nil {
		return nil, err
	}
	if srid != 0 && srid != geo.DisplaySRID {
		ui.Debug().Msgf("Reprojected geometry from EPSG:%v to EPSG:%v", srid, geo.DisplaySRID)
	}

	return &view.GeometryView{
		SourceSRID: srid,
		Feature:    geo.Feature(projected),
		Fit:        geo.FitBounds(projected),
	}, nil
}
