package geo

import (
	"math"

	"vendorconnect/internal/domain"
)

// Box is a latitude/longitude rectangle. MinLon and MaxLon may fall outside
// [-180, 180] when the box crosses the antimeridian.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// BoundingBox returns a rectangle containing every point within radiusKm of ref.
//
// Each half-width is the larger of the planar estimate (radius / 111.32 km per
// degree, scaled by cos(lat) for longitude) and the exact spherical-cap extent,
// so the box never excludes a point Haversine would accept.
func BoundingBox(ref domain.Location, radiusKm float64) Box {
	angular := radiusKm / EarthRadiusKm

	latDelta := math.Max(radiusKm/KmPerDegree, toDeg(angular))

	lonDelta := 180.0
	cosLat := math.Cos(toRad(ref.Latitude))
	if cosLat > 1e-12 && angular < math.Pi/2 {
		ratio := math.Sin(angular) / cosLat
		if ratio < 1 {
			lonDelta = math.Min(180, math.Max(radiusKm/(KmPerDegree*cosLat), toDeg(math.Asin(ratio))))
		}
	}

	return Box{
		MinLat: ref.Latitude - latDelta,
		MaxLat: ref.Latitude + latDelta,
		MinLon: ref.Longitude - lonDelta,
		MaxLon: ref.Longitude + lonDelta,
	}
}

// FullLongitude reports whether the box spans every meridian.
func (b Box) FullLongitude() bool {
	return b.MaxLon-b.MinLon >= 360
}

// CrossesAntimeridian reports whether the longitude range leaves [-180, 180].
func (b Box) CrossesAntimeridian() bool {
	return b.MinLon < -180 || b.MaxLon > 180
}

// Contains reports whether loc lies inside the box, wrapping longitude.
func (b Box) Contains(loc domain.Location) bool {
	if loc.Latitude < b.MinLat || loc.Latitude > b.MaxLat {
		return false
	}
	if b.FullLongitude() {
		return true
	}
	center := (b.MinLon + b.MaxLon) / 2
	half := (b.MaxLon - b.MinLon) / 2
	diff := math.Mod(loc.Longitude-center+540, 360) - 180
	return math.Abs(diff) <= half
}
