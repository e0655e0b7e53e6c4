package domain

import (
	"encoding/json"
	"fmt"
)

// Coordinates is the canonical {lng, lat} pair used everywhere in the planner.
//
// Model output is not consistent about coordinate shape, so UnmarshalJSON
// accepts all three encodings seen in the wild and folds them into this one:
//
//	[121.47, 31.23]                     array pair, lng first
//	{"lng": 121.47, "lat": 31.23}       object pair ("longitude"/"latitude" too)
//	121.47 / 31.23 as flat sibling keys handled by Location.UnmarshalJSON
type Coordinates struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// coordObject mirrors the object encodings of a coordinate pair.
type coordObject struct {
	Lng       *float64 `json:"lng"`
	Lat       *float64 `json:"lat"`
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`
}

// UnmarshalJSON folds the array and object coordinate encodings into the
// canonical shape. Null leaves the value zero.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var pair []float64
		if err := json.Unmarshal(data, &pair); err != nil {
			return fmt.Errorf("coordinates array: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("coordinates array: want 2 elements, got %d", len(pair))
		}
		c.Lng, c.Lat = pair[0], pair[1]
		return nil
	}
	var obj coordObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("coordinates object: %w", err)
	}
	switch {
	case obj.Lng != nil && obj.Lat != nil:
		c.Lng, c.Lat = *obj.Lng, *obj.Lat
	case obj.Longitude != nil && obj.Latitude != nil:
		c.Lng, c.Lat = *obj.Longitude, *obj.Latitude
	default:
		return fmt.Errorf("coordinates object: missing lng/lat pair")
	}
	return nil
}

// IsZero reports whether no coordinate has been set. (0,0) is in the Gulf of
// Guinea and never a real itinerary location, so the zero value doubles as
// "absent".
func (c Coordinates) IsZero() bool { return c.Lng == 0 && c.Lat == 0 }

// Location is where an activity happens. Coordinates may be absent; the
// geocoding collaborator resolves them outside the normalization pass.
type Location struct {
	Address     string       `json:"address,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// locationWire is the permissive decode target for Location: beyond the
// canonical shape it accepts flat lng/lat fields next to the address.
type locationWire struct {
	Address     string          `json:"address"`
	Name        string          `json:"name"`
	Coordinates json.RawMessage `json:"coordinates"`
	Lng         *float64        `json:"lng"`
	Lat         *float64        `json:"lat"`
}

// UnmarshalJSON accepts either a bare address string or an object with any
// of the coordinate encodings.
func (l *Location) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &l.Address)
	}
	var w locationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("location: %w", err)
	}
	l.Address = w.Address
	if l.Address == "" {
		l.Address = w.Name
	}
	if len(w.Coordinates) > 0 && string(w.Coordinates) != "null" {
		var c Coordinates
		if err := json.Unmarshal(w.Coordinates, &c); err == nil && !c.IsZero() {
			l.Coordinates = &c
		}
		return nil
	}
	if w.Lng != nil && w.Lat != nil {
		c := Coordinates{Lng: *w.Lng, Lat: *w.Lat}
		if !c.IsZero() {
			l.Coordinates = &c
		}
	}
	return nil
}

// Clone returns a deep copy of the location.
func (l Location) Clone() Location {
	out := Location{Address: l.Address}
	if l.Coordinates != nil {
		c := *l.Coordinates
		out.Coordinates = &c
	}
	return out
}
