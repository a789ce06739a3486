// Package geo finds candidates within a radius of a reference point using a
// bounding-box pre-filter followed by great-circle refinement.
package geo

import (
	"fmt"
	"math"
	"sort"

	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
)

const (
	// EarthRadiusKm is the mean Earth radius used for great-circle distances.
	EarthRadiusKm = 6371.0
	// KmPerDegree approximates the length of one degree of latitude.
	KmPerDegree = 111.32
)

// Match is a candidate that fell inside the search radius.
type Match[T any] struct {
	Item       T
	DistanceKm float64
}

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b domain.Location) float64 {
	lat1, lat2 := toRad(a.Latitude), toRad(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ValidateQuery checks the reference point and radius of a proximity search.
func ValidateQuery(ref domain.Location, radiusKm float64) error {
	if !ref.Valid() {
		return fmt.Errorf("%w: reference location out of range", apperr.ErrInvalidArgument)
	}
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm <= 0 {
		return fmt.Errorf("%w: radius must be a positive number", apperr.ErrInvalidArgument)
	}
	return nil
}

// FindNearby returns the candidates whose location lies within radiusKm of ref,
// ordered by ascending distance. Candidates without a location are skipped and
// equal distances keep their input order. candidates is not modified.
func FindNearby[T any](
	ref domain.Location,
	radiusKm float64,
	candidates []T,
	locate func(T) (domain.Location, bool),
) ([]Match[T], error) {
	if err := ValidateQuery(ref, radiusKm); err != nil {
		return nil, err
	}

	box := BoundingBox(ref, radiusKm)
	out := make([]Match[T], 0)
	for _, c := range candidates {
		loc, ok := locate(c)
		if !ok || !loc.Valid() || !box.Contains(loc) {
			continue
		}
		d := Haversine(ref, loc)
		if d <= radiusKm {
			out = append(out, Match[T]{Item: c, DistanceKm: d})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out, nil
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

func toDeg(rad float64) float64 { return rad * 180 / math.Pi }
