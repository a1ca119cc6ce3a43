package geo

import (
	"regexp"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// ErrGeometryParse wraps any failure turning a spatial literal into a
// geometry.
var ErrGeometryParse = errors.New("unparseable spatial literal")

var (
	ewktRe   = regexp.MustCompile(`(?i)^\s*SRID=(\d+)\s*;\s*`)
	crsURIRe = regexp.MustCompile(`^\s*<http://www\.opengis\.net/def/crs/EPSG/0/(\d+)>\s*`)
)

// ParseSpatialLiteral parses a WKT-family literal into a geometry plus
// its spatial reference identifier. Formats are tried in order, first
// match wins:
//
//  1. EWKT, "SRID=31370;POINT(...)", SRID spelled case-insensitively
//  2. the OGC CRS-URI form, "<http://www.opengis.net/def/crs/EPSG/0/31370> POINT(...)"
//  3. plain WKT, srid 0: the literal is taken to be in the display
//     reference system already
func ParseSpatialLiteral(text string) (orb.Geometry, int, error) {
	srid := 0
	rest := text

	if m := ewktRe.FindStringSubmatch(text); m != nil {
		srid, _ = strconv.Atoi(m[1])
		rest = text[len(m[0]):]
	} else if m := crsURIRe.FindStringSubmatch(text); m != nil {
		srid, _ = strconv.Atoi(m[1])
		rest = text[len(m[0]):]
	}

	g, err := wkt.Unmarshal(rest)
	if err != nil {
		return nil, 0, errors.Wrapf(ErrGeometryParse, "%v", err)
	}
	return g, srid, nil
}
