package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrGeometryTransform wraps any failure reprojecting coordinates.
var ErrGeometryTransform = errors.New("geometry transform failed")

// Ellipsoid is the reference ellipsoid of a projection definition.
type Ellipsoid struct {
	A  float64 // semi-major axis in meters
	E2 float64 // eccentricity squared, 0 for a sphere
}

var ellipsoids = map[string]struct{ a, rf float64 }{
	"WGS84":  {6378137.0, 298.257223563},
	"GRS80":  {6378137.0, 298.257222101},
	"intl":   {6378388.0, 297.0},
	"airy":   {6377563.396, 299.3249646},
	"bessel": {6377397.155, 299.1528128},
	"krass":  {6378245.0, 298.3},
	"clrk66": {6378206.4, 294.9786982},
	"clrk80": {6378249.145, 293.465},
	"sphere": {6370997.0, 0},
}

// datums maps +datum= shorthands to an ellipsoid name and towgs84 set.
var datums = map[string]struct {
	ellps   string
	toWGS84 []float64
}{
	"WGS84":   {"WGS84", nil},
	"NAD83":   {"GRS80", []float64{0, 0, 0}},
	"OSGB36":  {"airy", []float64{446.448, -125.157, 542.06, 0.15, 0.247, 0.842, -20.489}},
	"potsdam": {"bessel", []float64{598.1, 73.7, 418.2, 0.202, 0.045, -2.455, 6.7}},
}

func newEllipsoid(a, rf float64) Ellipsoid {
	if rf == 0 {
		return Ellipsoid{A: a}
	}
	f := 1 / rf
	return Ellipsoid{A: a, E2: 2*f - f*f}
}

// Def is a parsed proj4-style projection definition. Only the projection
// families the viewer actually meets in the wild are supported: longlat,
// merc, tmerc (and its utm shorthand) and lcc.
type Def struct {
	Proj       string
	Ellps      Ellipsoid
	ToWGS84    []float64 // nil, 3 or 7 Helmert parameters toward WGS84
	Lat0, Lon0 float64   // radians
	Lat1, Lat2 float64   // radians, lcc standard parallels
	K0         float64
	X0, Y0     float64
	ToMeter    float64
}

// ParseProj4 parses a proj4 definition string, e.g.
// "+proj=lcc +lat_1=49 +lat_2=44 +lat_0=46.5 +lon_0=3 +x_0=700000 ...".
func ParseProj4(s string) (*Def, error) {
	def := &Def{
		K0:      1,
		ToMeter: 1,
	}
	var a, b, rf float64
	var haveEllps bool

	for _, field := range strings.Fields(s) {
		field = strings.TrimPrefix(field, "+")
		key, value, _ := strings.Cut(field, "=")
		switch key {
		case "proj":
			def.Proj = value
		case "ellps":
			e, ok := ellipsoids[value]
			if !ok {
				return nil, errors.Wrapf(ErrGeometryTransform, "unknown ellipsoid %v", value)
			}
			a, rf = e.a, e.rf
			haveEllps = true
		case "datum":
			d, ok := datums[value]
			if !ok {
				return nil, errors.Wrapf(ErrGeometryTransform, "unknown datum %v", value)
			}
			e := ellipsoids[d.ellps]
			a, rf = e.a, e.rf
			haveEllps = true
			def.ToWGS84 = d.toWGS84
		case "towgs84":
			parts := strings.Split(value, ",")
			params := make([]float64, 0, len(parts))
			for _, p := range parts {
				v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
				if err != nil {
					return nil, errors.Wrapf(ErrGeometryTransform, "bad towgs84 value %v", p)
				}
				params = append(params, v)
			}
			if len(params) != 3 && len(params) != 7 {
				return nil, errors.Wrapf(ErrGeometryTransform, "towgs84 needs 3 or 7 parameters, got %v", len(params))
			}
			def.ToWGS84 = params
		case "a":
			a, _ = strconv.ParseFloat(value, 64)
			haveEllps = true
		case "b":
			b, _ = strconv.ParseFloat(value, 64)
		case "rf":
			rf, _ = strconv.ParseFloat(value, 64)
		case "lat_0":
			def.Lat0 = radians(value)
		case "lon_0":
			def.Lon0 = radians(value)
		case "lat_1":
			def.Lat1 = radians(value)
		case "lat_2":
			def.Lat2 = radians(value)
		case "k", "k_0":
			def.K0, _ = strconv.ParseFloat(value, 64)
		case "x_0":
			def.X0, _ = strconv.ParseFloat(value, 64)
		case "y_0":
			def.Y0, _ = strconv.ParseFloat(value, 64)
		case "zone":
			zone, _ := strconv.ParseFloat(value, 64)
			def.Lon0 = (zone*6 - 183) * math.Pi / 180
		case "south":
			def.Y0 = 10000000
		case "to_meter":
			def.ToMeter, _ = strconv.ParseFloat(value, 64)
		case "units":
			switch value {
			case "m", "":
			case "km":
				def.ToMeter = 1000
			case "ft":
				def.ToMeter = 0.3048
			case "us-ft":
				def.ToMeter = 1200.0 / 3937.0
			default:
				return nil, errors.Wrapf(ErrGeometryTransform, "unsupported units %v", value)
			}
		}
	}

	if def.Proj == "" {
		return nil, errors.Wrap(ErrGeometryTransform, "definition carries no +proj")
	}
	if def.Proj == "utm" {
		def.Proj = "tmerc"
		def.K0 = 0.9996
		def.X0 = 500000
	}
	switch def.Proj {
	case "longlat", "latlong", "merc", "tmerc", "lcc":
	default:
		return nil, errors.Wrapf(ErrGeometryTransform, "unsupported projection %v", def.Proj)
	}

	if !haveEllps {
		e := ellipsoids["WGS84"]
		a, rf = e.a, e.rf
	}
	if b != 0 {
		if b == a {
			rf = 0 // sphere, e.g. web mercator
		} else {
			rf = a / (a - b)
		}
	}
	def.Ellps = newEllipsoid(a, rf)

	return def, nil
}

func radians(value string) float64 {
	v, _ := strconv.ParseFloat(value, 64)
	return v * math.Pi / 180
}

// builtinDefs covers the spatial reference systems the viewer meets
// without asking the remote lookup service. Definition strings match the
// EPSG registry's proj4 exports.
var builtinDefs = map[int]string{
	4326:  "+proj=longlat +datum=WGS84 +no_defs",
	4258:  "+proj=longlat +ellps=GRS80 +no_defs",
	3857:  "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +no_defs",
	3395:  "+proj=merc +lon_0=0 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs",
	31370: "+proj=lcc +lat_1=51.16666723333333 +lat_2=49.8333339 +lat_0=90 +lon_0=4.367486666666666 +x_0=150000.013 +y_0=5400088.438 +ellps=intl +towgs84=-106.869,52.2978,-103.724,0.3366,-0.457,1.8422,-1.2747 +units=m +no_defs",
	2154:  "+proj=lcc +lat_1=49 +lat_2=44 +lat_0=46.5 +lon_0=3 +x_0=700000 +y_0=6600000 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
	25832: "+proj=utm +zone=32 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
	27700: "+proj=tmerc +lat_0=49 +lon_0=-2 +k=0.9996012717 +x_0=400000 +y_0=-100000 +ellps=airy +towgs84=446.448,-125.157,542.06,0.15,0.247,0.842,-20.489 +units=m +no_defs",
}
