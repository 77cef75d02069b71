package domain

import "fmt"

// Immutable geographic coordinates (latitude, longitude) in degrees.
// The zero value (0,0) is the "not yet geocoded" sentinel.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// IsZero reports whether c is the ungeocoded sentinel.
func (c Coordinates) IsZero() bool { return c.Lat == 0 && c.Lon == 0 }

// Key renders c rounded to 5 decimals (~1m) for use as a cache key.
func (c Coordinates) Key() string { return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon) }
