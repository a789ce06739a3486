package domain

import "math"

// Location is a WGS-84 point in decimal degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the coordinates are finite and within range.
func (l Location) Valid() bool {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) ||
		math.IsInf(l.Latitude, 0) || math.IsInf(l.Longitude, 0) {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}

// Place is an address with its coordinates.
type Place struct {
	Address  string
	Location Location
}

// Page limits a listing.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPageLimit is used when a listing is requested without a limit.
const DefaultPageLimit = 10

// Normalize clamps a page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
