package geo

import (
	"math"

	"github.com/pkg/errors"
)

const arcsec = math.Pi / (180 * 3600)

// Inverse projects a planar coordinate back to geodetic longitude and
// latitude in degrees on the definition's own datum, then shifts to WGS84
// when the definition carries Helmert parameters.
func (d *Def) Inverse(x, y float64) (lon, lat float64, err error) {
	x *= d.ToMeter
	y *= d.ToMeter

	var lam, phi float64
	switch d.Proj {
	case "longlat", "latlong":
		lam, phi = x*math.Pi/180, y*math.Pi/180
	case "merc":
		lam, phi = d.invMerc(x, y)
	case "tmerc":
		lam, phi = d.invTmerc(x, y)
	case "lcc":
		lam, phi, err = d.invLcc(x, y)
		if err != nil {
			return 0, 0, err
		}
	default:
		return 0, 0, errors.Wrapf(ErrGeometryTransform, "unsupported projection %v", d.Proj)
	}

	if len(d.ToWGS84) > 0 && !d.isNullShift() {
		lam, phi = d.helmertToWGS84(lam, phi)
	}
	return lam * 180 / math.Pi, phi * 180 / math.Pi, nil
}

func (d *Def) isNullShift() bool {
	for _, v := range d.ToWGS84 {
		if v != 0 {
			return false
		}
	}
	return true
}

func (d *Def) invMerc(x, y float64) (lam, phi float64) {
	a := d.Ellps.A
	lam = d.Lon0 + (x-d.X0)/(a*d.K0)
	if d.Ellps.E2 == 0 {
		phi = math.Pi/2 - 2*math.Atan(math.Exp(-(y-d.Y0)/(a*d.K0)))
		return lam, phi
	}
	ts := math.Exp(-(y - d.Y0) / (a * d.K0))
	return lam, phi2(ts, math.Sqrt(d.Ellps.E2))
}

func (d *Def) invTmerc(x, y float64) (lam, phi float64) {
	a, e2 := d.Ellps.A, d.Ellps.E2
	ep2 := e2 / (1 - e2)

	m := meridianLength(a, e2, d.Lat0) + (y-d.Y0)/d.K0
	mu := m / (a * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sin1, cos1 := math.Sincos(phi1)
	tan1 := sin1 / cos1
	c1 := ep2 * cos1 * cos1
	t1 := tan1 * tan1
	n1 := a / math.Sqrt(1-e2*sin1*sin1)
	r1 := a * (1 - e2) / math.Pow(1-e2*sin1*sin1, 1.5)
	dd := (x - d.X0) / (n1 * d.K0)

	phi = phi1 - (n1*tan1/r1)*(dd*dd/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(dd, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(dd, 6)/720)
	lam = d.Lon0 + (dd-
		(1+2*t1+c1)*math.Pow(dd, 3)/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(dd, 5)/120)/cos1
	return lam, phi
}

func (d *Def) invLcc(x, y float64) (lam, phi float64, err error) {
	a, e2 := d.Ellps.A, d.Ellps.E2
	e := math.Sqrt(e2)

	msfn := func(p float64) float64 {
		s := math.Sin(p)
		return math.Cos(p) / math.Sqrt(1-e2*s*s)
	}
	tsfn := func(p float64) float64 {
		s := e * math.Sin(p)
		return math.Tan(math.Pi/4-p/2) / math.Pow((1-s)/(1+s), e/2)
	}

	var n, f float64
	if d.Lat1 == d.Lat2 || d.Lat2 == 0 {
		// single standard parallel
		sp := d.Lat1
		if sp == 0 {
			sp = d.Lat0
		}
		n = math.Sin(sp)
		f = msfn(sp) / (n * math.Pow(tsfn(sp), n))
	} else {
		m1, m2 := msfn(d.Lat1), msfn(d.Lat2)
		t1, t2 := tsfn(d.Lat1), tsfn(d.Lat2)
		n = (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
		f = m1 / (n * math.Pow(t1, n))
	}
	if n == 0 {
		return 0, 0, errors.Wrap(ErrGeometryTransform, "degenerate lcc cone constant")
	}
	rho0 := a * f * d.K0 * math.Pow(tsfn(d.Lat0), n)

	xp := x - d.X0
	yp := rho0 - (y - d.Y0)
	rho := math.Copysign(math.Hypot(xp, yp), n)
	if rho == 0 {
		return d.Lon0, math.Copysign(math.Pi/2, n), nil
	}
	theta := math.Atan2(xp, yp)
	ts := math.Pow(rho/(a*f*d.K0), 1/n)

	return theta/n + d.Lon0, phi2(ts, e), nil
}

// phi2 computes the latitude from the isometric latitude function value,
// Snyder eq. 7-9, by fixed-point iteration.
func phi2(ts, e float64) float64 {
	phi := math.Pi/2 - 2*math.Atan(ts)
	for i := 0; i < 15; i++ {
		con := e * math.Sin(phi)
		next := math.Pi/2 - 2*math.Atan(ts*math.Pow((1-con)/(1+con), e/2))
		if math.Abs(next-phi) < 1e-12 {
			return next
		}
		phi = next
	}
	return phi
}

func meridianLength(a, e2, phi float64) float64 {
	return a * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*phi -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*phi) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*phi) -
		(35*e2*e2*e2/3072)*math.Sin(6*phi))
}

// helmertToWGS84 applies the definition's 3- or 7-parameter datum shift
// (position vector convention, rotations in arcseconds, scale in ppm) and
// returns geodetic coordinates on the WGS84 ellipsoid.
func (d *Def) helmertToWGS84(lam, phi float64) (float64, float64) {
	a, e2 := d.Ellps.A, d.Ellps.E2

	sin, cos := math.Sincos(phi)
	n := a / math.Sqrt(1-e2*sin*sin)
	x := n * cos * math.Cos(lam)
	y := n * cos * math.Sin(lam)
	z := n * (1 - e2) * sin

	dx, dy, dz := d.ToWGS84[0], d.ToWGS84[1], d.ToWGS84[2]
	var rx, ry, rz, scale float64
	if len(d.ToWGS84) == 7 {
		rx = d.ToWGS84[3] * arcsec
		ry = d.ToWGS84[4] * arcsec
		rz = d.ToWGS84[5] * arcsec
		scale = 1 + d.ToWGS84[6]*1e-6
	} else {
		scale = 1
	}

	x2 := scale*(x-rz*y+ry*z) + dx
	y2 := scale*(rz*x+y-rx*z) + dy
	z2 := scale*(-ry*x+rx*y+z) + dz

	// geocentric back to geodetic on WGS84
	const aw = 6378137.0
	fw := 1 / 298.257223563
	e2w := 2*fw - fw*fw

	p := math.Hypot(x2, y2)
	phiw := math.Atan2(z2, p*(1-e2w))
	for i := 0; i < 10; i++ {
		s := math.Sin(phiw)
		nw := aw / math.Sqrt(1-e2w*s*s)
		h := p/math.Cos(phiw) - nw
		phiw = math.Atan2(z2, p*(1-e2w*nw/(nw+h)))
	}
	return math.Atan2(y2, x2), phiw
}
