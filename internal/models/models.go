package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Location represents a geographic coordinate
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DistanceTo returns the great-circle distance in kilometers using the Haversine formula
func (l Location) DistanceTo(other Location) float64 {
	const R = 6371 // Earth's radius in kilometers

	lat1Rad := l.Lat * math.Pi / 180
	lat2Rad := other.Lat * math.Pi / 180
	deltaLat := (other.Lat - l.Lat) * math.Pi / 180
	deltaLon := (other.Lon - l.Lon) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}

// Coordinate is a search rectangle centered on a point
type Coordinate struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	LatSpan float64 `json:"lat_span"`
	LonSpan float64 `json:"lon_span"`
}

// Center returns the center point of the search rectangle
func (c Coordinate) Center() Location {
	return Location{Lat: c.Lat, Lon: c.Lon}
}

// Stop represents a bus stop returned by stops-for-location
type Stop struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    Location `json:"location"`
	HasLocation bool     `json:"-"`
}

// StatusKind distinguishes the three outcomes of arrival classification
type StatusKind int

const (
	StatusUnknown StatusKind = iota
	StatusArriving
	StatusMinutes
)

const (
	arrivingLabel = "arriving"
	unknownLabel  = "N/A"
)

// ArrivalStatus is a normalized arrival time
type ArrivalStatus struct {
	Kind    StatusKind
	Minutes int
}

// Unknown returns the status for missing or unusable timestamps
func Unknown() ArrivalStatus {
	return ArrivalStatus{Kind: StatusUnknown}
}

// Arriving returns the status for a vehicle at or about to reach the stop
func Arriving() ArrivalStatus {
	return ArrivalStatus{Kind: StatusArriving}
}

// MinutesUntil returns the status for a vehicle n minutes away
func MinutesUntil(n int) ArrivalStatus {
	return ArrivalStatus{Kind: StatusMinutes, Minutes: n}
}

// IsKnown reports whether the status carries usable information
func (s ArrivalStatus) IsKnown() bool {
	return s.Kind != StatusUnknown
}

func (s ArrivalStatus) String() string {
	switch s.Kind {
	case StatusArriving:
		return arrivingLabel
	case StatusMinutes:
		return fmt.Sprintf("%d min", s.Minutes)
	default:
		return unknownLabel
	}
}

// MarshalJSON encodes arriving as "arriving", minutes as a number and unknown as "N/A"
func (s ArrivalStatus) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case StatusArriving:
		return json.Marshal(arrivingLabel)
	case StatusMinutes:
		return json.Marshal(s.Minutes)
	default:
		return json.Marshal(unknownLabel)
	}
}

// UnmarshalJSON accepts the forms produced by MarshalJSON
func (s *ArrivalStatus) UnmarshalJSON(data []byte) error {
	var minutes int
	if err := json.Unmarshal(data, &minutes); err == nil {
		*s = MinutesUntil(minutes)
		return nil
	}

	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("arrival status: %w", err)
	}

	switch label {
	case arrivingLabel:
		*s = Arriving()
	case unknownLabel:
		*s = Unknown()
	default:
		return fmt.Errorf("arrival status: unexpected value %q", label)
	}
	return nil
}

// Arrival is one upcoming vehicle on a line
type Arrival struct {
	Destination string        `json:"destination"`
	Status      ArrivalStatus `json:"arrival"`
}

// StopArrivals groups arrivals by line name
type StopArrivals map[string][]Arrival

// CountFor returns how many arrivals a line has toward a destination
func (sa StopArrivals) CountFor(line, destination string) int {
	n := 0
	for _, a := range sa[line] {
		if a.Destination == destination {
			n++
		}
	}
	return n
}

// AggregateResult maps stop display names to their arrivals
type AggregateResult map[string]StopArrivals
