package geo

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync"
	"github.com/uriscope/uriscope/modules/ui"
)

// DisplaySRID is the map's native reference system, WGS84 longitude and
// latitude.
const DisplaySRID = 4326

// Transformer reprojects geometries into the display reference system.
// A fixed table of definitions covers the common identifiers; anything
// else is fetched once per process from the lookup service and cached.
type Transformer struct {
	// LookupBase is the projection-definition service, queried as
	// <LookupBase>/<srid>.proj4. Empty disables remote lookups.
	LookupBase string
	HTTP       *http.Client

	defs *xsync.MapOf[string, *Def]
}

func NewTransformer(lookupBase string) *Transformer {
	return &Transformer{
		LookupBase: strings.TrimSuffix(lookupBase, "/"),
		HTTP:       &http.Client{Timeout: 15 * time.Second},
		defs:       xsync.NewMapOf[*Def](),
	}
}

// Definition resolves a spatial reference identifier to its projection
// definition: builtin table first, then the session cache, then the
// remote lookup service.
func (t *Transformer) Definition(ctx context.Context, srid int) (*Def, error) {
	key := strconv.Itoa(srid)
	if def, ok := t.defs.Load(key); ok {
		return def, nil
	}

	proj4, ok := builtinDefs[srid]
	if !ok {
		var err error
		proj4, err = t.fetchDefinition(ctx, srid)
		if err != nil {
			return nil, err
		}
	}

	def, err := ParseProj4(proj4)
	if err != nil {
		return nil, err
	}
	t.defs.Store(key, def)
	return def, nil
}

func (t *Transformer) fetchDefinition(ctx context.Context, srid int) (string, error) {
	if t.LookupBase == "" {
		return "", errors.Wrapf(ErrGeometryTransform, "no definition for EPSG:%v and lookups are disabled", srid)
	}
	url := t.LookupBase + "/" + strconv.Itoa(srid) + ".proj4"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrapf(ErrGeometryTransform, "%v", err)
	}
	resp, err := t.HTTP.Do(req)
	if err != nil {
		return "", errors.Wrapf(ErrGeometryTransform, "definition lookup for EPSG:%v: %v", srid, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Wrapf(ErrGeometryTransform, "definition lookup for EPSG:%v: %v", srid, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", errors.Wrapf(ErrGeometryTransform, "%v", err)
	}
	proj4 := strings.TrimSpace(string(body))
	if proj4 == "" {
		return "", errors.Wrapf(ErrGeometryTransform, "definition lookup for EPSG:%v returned nothing", srid)
	}
	ui.Debug().Msgf("Fetched projection definition for EPSG:%v: %v", srid, proj4)
	return proj4, nil
}

// ToWGS84 reprojects every coordinate of g from the given reference
// system into WGS84 longitude/latitude. srid 0 and the display system
// itself pass through untouched. The recursion follows the geometry tree
// structurally, so nesting depth is preserved by construction.
func (t *Transformer) ToWGS84(ctx context.Context, g orb.Geometry, srid int) (orb.Geometry, error) {
	if srid == 0 || srid == DisplaySRID {
		return g, nil
	}
	def, err := t.Definition(ctx, srid)
	if err != nil {
		return nil, err
	}
	return transformGeometry(g, def)
}

func transformGeometry(g orb.Geometry, def *Def) (orb.Geometry, error) {
	switch geom := g.(type) {
	case orb.Point:
		return transformPoint(geom, def)
	case orb.MultiPoint:
		out := make(orb.MultiPoint, len(geom))
		for i, p := range geom {
			tp, err := transformPoint(p, def)
			if err != nil {
				return nil, err
			}
			out[i] = tp
		}
		return out, nil
	case orb.LineString:
		out, err := transformLine(geom, def)
		return out, err
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(geom))
		for i, ls := range geom {
			tls, err := transformLine(ls, def)
			if err != nil {
				return nil, err
			}
			out[i] = tls
		}
		return out, nil
	case orb.Ring:
		out := make(orb.Ring, len(geom))
		for i, p := range geom {
			tp, err := transformPoint(p, def)
			if err != nil {
				return nil, err
			}
			out[i] = tp
		}
		return out, nil
	case orb.Polygon:
		out, err := transformPolygon(geom, def)
		return out, err
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(geom))
		for i, poly := range geom {
			tp, err := transformPolygon(poly, def)
			if err != nil {
				return nil, err
			}
			out[i] = tp
		}
		return out, nil
	case orb.Collection:
		out := make(orb.Collection, len(geom))
		for i, sub := range geom {
			tg, err := transformGeometry(sub, def)
			if err != nil {
				return nil, err
			}
			out[i] = tg
		}
		return out, nil
	case orb.Bound:
		min, err := transformPoint(geom.Min, def)
		if err != nil {
			return nil, err
		}
		max, err := transformPoint(geom.Max, def)
		if err != nil {
			return nil, err
		}
		return orb.Bound{Min: min, Max: max}, nil
	}
	return nil, errors.Wrapf(ErrGeometryTransform, "unhandled geometry type %T", g)
}

func transformPoint(p orb.Point, def *Def) (orb.Point, error) {
	lon, lat, err := def.Inverse(p[0], p[1])
	if err != nil {
		return orb.Point{}, err
	}
	return orb.Point{lon, lat}, nil
}

func transformLine(ls orb.LineString, def *Def) (orb.LineString, error) {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		tp, err := transformPoint(p, def)
		if err != nil {
			return nil, err
		}
		out[i] = tp
	}
	return out, nil
}

func transformPolygon(poly orb.Polygon, def *Def) (orb.Polygon, error) {
	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		tr := make(orb.Ring, len(ring))
		for j, p := range ring {
			tp, err := transformPoint(p, def)
			if err != nil {
				return nil, err
			}
			tr[j] = tp
		}
		out[i] = tr
	}
	return out, nil
}
