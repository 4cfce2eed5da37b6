// Package itm projects WGS84 coordinates onto the Irish Transverse Mercator
// grid (IRENET95 / ITM, EPSG:2157), the planar system used for distance and
// containment tests over the Dublin constituency polygons.
package itm

import "math"

// GRS80 ellipsoid and ITM projection parameters.
const (
	semiMajor  = 6378137.0
	flattening = 1.0 / 298.257222101

	scaleFactor   = 0.99982
	originLatDeg  = 53.5
	originLonDeg  = -8.0
	falseEasting  = 600000.0
	falseNorthing = 750000.0
)

// Forward projects a WGS84 latitude/longitude (degrees) to ITM easting and
// northing in meters, using the Redfearn transverse mercator series. The
// series is accurate to well under a millimeter across Ireland.
func Forward(latDeg, lonDeg float64) (easting, northing float64) {
	phi := latDeg * math.Pi / 180
	lam := lonDeg * math.Pi / 180
	phi0 := originLatDeg * math.Pi / 180
	lam0 := originLonDeg * math.Pi / 180

	a := semiMajor
	b := semiMajor * (1 - flattening)
	e2 := (a*a - b*b) / (a * a)
	n := (a - b) / (a + b)

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	tanPhi := math.Tan(phi)
	tan2 := tanPhi * tanPhi
	tan4 := tan2 * tan2

	nu := a * scaleFactor / math.Sqrt(1-e2*sinPhi*sinPhi)
	rho := a * scaleFactor * (1 - e2) / math.Pow(1-e2*sinPhi*sinPhi, 1.5)
	eta2 := nu/rho - 1

	// Meridional arc from the projection origin.
	dPhi := phi - phi0
	sPhi := phi + phi0
	m := b * scaleFactor * ((1+n+1.25*n*n+1.25*n*n*n)*dPhi -
		(3*n+3*n*n+(21.0/8.0)*n*n*n)*math.Sin(dPhi)*math.Cos(sPhi) +
		((15.0/8.0)*(n*n+n*n*n))*math.Sin(2*dPhi)*math.Cos(2*sPhi) -
		(35.0/24.0)*n*n*n*math.Sin(3*dPhi)*math.Cos(3*sPhi))

	i := m + falseNorthing
	ii := nu / 2 * sinPhi * cosPhi
	iii := nu / 24 * sinPhi * math.Pow(cosPhi, 3) * (5 - tan2 + 9*eta2)
	iiia := nu / 720 * sinPhi * math.Pow(cosPhi, 5) * (61 - 58*tan2 + tan4)
	iv := nu * cosPhi
	v := nu / 6 * math.Pow(cosPhi, 3) * (nu/rho - tan2)
	vi := nu / 120 * math.Pow(cosPhi, 5) * (5 - 18*tan2 + tan4 + 14*eta2 - 58*tan2*eta2)

	dLam := lam - lam0
	northing = i + ii*dLam*dLam + iii*math.Pow(dLam, 4) + iiia*math.Pow(dLam, 6)
	easting = falseEasting + iv*dLam + v*math.Pow(dLam, 3) + vi*math.Pow(dLam, 5)
	return easting, northing
}
