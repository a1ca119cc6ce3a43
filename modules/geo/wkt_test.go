package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

func TestParseSpatialLiteral(t *testing.T) {
	tests := []struct {
		name     string
		literal  string
		wantSRID int
		wantType string
	}{
		{"plain wkt", "POINT (4.4 50.8)", 0, "Point"},
		{"ewkt", "SRID=31370;POINT(150000 150000)", 31370, "Point"},
		{"ewkt lowercase", "srid=28992; POINT(120000 480000)", 28992, "Point"},
		{"ewkt spaced", "  SRID = ignored", 0, ""}, // falls through to plain parse and fails
		{"crs uri", "<http://www.opengis.net/def/crs/EPSG/0/31370> POINT(150000 150000)", 31370, "Point"},
		{"crs uri linestring", "<http://www.opengis.net/def/crs/EPSG/0/4326> LINESTRING(4.4 50.8, 4.5 50.9)", 4326, "LineString"},
		{"polygon", "POLYGON((0 0, 1 0, 1 1, 0 0))", 0, "Polygon"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g, srid, err := ParseSpatialLiteral(test.literal)
			if test.wantType == "" {
				if !errors.Is(err, ErrGeometryParse) {
					t.Fatalf("error %v, wanted ErrGeometryParse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if srid != test.wantSRID {
				t.Errorf("srid = %v, wanted %v", srid, test.wantSRID)
			}
			if got := g.GeoJSONType(); got != test.wantType {
				t.Errorf("geometry type = %v, wanted %v", got, test.wantType)
			}
		})
	}
}

func TestParseSpatialLiteralGarbage(t *testing.T) {
	for _, literal := range []string{"", "POINT", "SRID=31370;", "not wkt at all"} {
		if _, _, err := ParseSpatialLiteral(literal); !errors.Is(err, ErrGeometryParse) {
			t.Errorf("ParseSpatialLiteral(%q) error %v, wanted ErrGeometryParse", literal, err)
		}
	}
}

func TestParseSpatialLiteralCoordinates(t *testing.T) {
	g, _, err := ParseSpatialLiteral("SRID=31370;POINT(150000 150000)")
	if err != nil {
		t.Fatal(err)
	}
	p, ok := g.(orb.Point)
	if !ok {
		t.Fatalf("geometry is %T, wanted orb.Point", g)
	}
	if p[0] != 150000 || p[1] != 150000 {
		t.Errorf("point = %v", p)
	}
}
