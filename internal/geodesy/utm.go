// Package geodesy projects geodetic WGS84 coordinates into the local UTM
// metric frame. The transverse Mercator math itself is delegated to
// github.com/wroge/wgs84; this package only derives the zone and hemisphere
// from the coordinate and applies the projection point by point.
package geodesy

import (
	"github.com/wroge/wgs84"
)

// UTMCoord is one projected point.
type UTMCoord struct {
	Easting  float64
	Northing float64
	Zone     int
	Northern bool
}

// ZoneNumber derives the UTM zone from a longitude.
func ZoneNumber(lon float64) int {
	return int((lon+180)/6) + 1
}

// ToUTM projects a single (lon, lat) pair. Stateless per-point function.
func ToUTM(lon, lat float64) UTMCoord {
	zone := ZoneNumber(lon)
	northern := lat >= 0
	east, north, _ := wgs84.LonLat().To(wgs84.UTM(float64(zone), northern))(lon, lat, 0)
	return UTMCoord{Easting: east, Northing: north, Zone: zone, Northern: northern}
}

// ToUTMBatch maps ToUTM over parallel lon/lat slices.
func ToUTMBatch(lons, lats []float64) []UTMCoord {
	coords := make([]UTMCoord, len(lons))
	for i := range lons {
		coords[i] = ToUTM(lons[i], lats[i])
	}
	return coords
}
