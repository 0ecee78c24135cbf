package models

import (
	"encoding/json"
	"fmt"
)

// Coordinate validation constants
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Coordinates is a WGS84 lat/lng pair used to pin a listing on the map.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks that both components are within WGS84 range.
func (c Coordinates) Validate() error {
	if c.Lat < MinLatitude || c.Lat > MaxLatitude {
		return fmt.Errorf("%w: latitude must be between %.0f and %.0f, got %f",
			ErrValidation, MinLatitude, MaxLatitude, c.Lat)
	}
	if c.Lng < MinLongitude || c.Lng > MaxLongitude {
		return fmt.Errorf("%w: longitude must be between %.0f and %.0f, got %f",
			ErrValidation, MinLongitude, MaxLongitude, c.Lng)
	}
	return nil
}

// GeoJSON returns the point in GeoJSON order: [lng, lat].
func (c Coordinates) GeoJSON() [2]float64 {
	return [2]float64{c.Lng, c.Lat}
}

// UnmarshalJSON accepts either {"lat":..,"lng":..} or a GeoJSON
// position array [lng, lat], the two shapes map clients send.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var position []float64
	if err := json.Unmarshal(data, &position); err == nil {
		if len(position) != 2 {
			return fmt.Errorf("expected [lng, lat] position, got %d values", len(position))
		}
		c.Lng, c.Lat = position[0], position[1]
		return nil
	}

	var obj struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to unmarshal coordinates: %w", err)
	}
	c.Lat, c.Lng = obj.Lat, obj.Lng
	return nil
}
