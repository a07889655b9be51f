package models

import (
	"encoding/json"
	"testing"
)

func TestArrivalStatusJSON(t *testing.T) {
	arrivals := StopArrivals{
		"Bx7": {
			{Destination: "RIVERDALE 263 ST", Status: Arriving()},
			{Destination: "RIVERDALE 263 ST", Status: MinutesUntil(12)},
		},
	}

	data, err := json.Marshal(arrivals)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := `{"Bx7":[{"destination":"RIVERDALE 263 ST","arrival":"arriving"},{"destination":"RIVERDALE 263 ST","arrival":12}]}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}

	var decoded StopArrivals
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if decoded["Bx7"][0].Status != Arriving() {
		t.Errorf("Expected arriving, got %v", decoded["Bx7"][0].Status)
	}
	if decoded["Bx7"][1].Status != MinutesUntil(12) {
		t.Errorf("Expected 12 min, got %v", decoded["Bx7"][1].Status)
	}
}

func TestArrivalStatusUnmarshalRejectsGarbage(t *testing.T) {
	var s ArrivalStatus
	if err := json.Unmarshal([]byte(`"soon"`), &s); err == nil {
		t.Error("Expected error for unknown label")
	}
	if err := json.Unmarshal([]byte(`true`), &s); err == nil {
		t.Error("Expected error for boolean")
	}
}

func TestArrivalStatusString(t *testing.T) {
	tests := []struct {
		status   ArrivalStatus
		expected string
	}{
		{Unknown(), "N/A"},
		{Arriving(), "arriving"},
		{MinutesUntil(7), "7 min"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}

	if Unknown().IsKnown() {
		t.Error("Unknown status should not be known")
	}
	if !MinutesUntil(0).IsKnown() {
		t.Error("Minutes status should be known")
	}
}

func TestCountFor(t *testing.T) {
	arrivals := StopArrivals{
		"M4": {
			{Destination: "PENN STATION", Status: MinutesUntil(3)},
			{Destination: "FT TRYON PARK", Status: MinutesUntil(4)},
			{Destination: "PENN STATION", Status: MinutesUntil(9)},
		},
	}

	if n := arrivals.CountFor("M4", "PENN STATION"); n != 2 {
		t.Errorf("Expected 2, got %d", n)
	}
	if n := arrivals.CountFor("M5", "PENN STATION"); n != 0 {
		t.Errorf("Expected 0, got %d", n)
	}
}

func TestDistance(t *testing.T) {
	// Times Square to Grand Central (approximately 0.97 km)
	timesSq := Location{Lat: 40.755, Lon: -73.987}
	grandCentral := Location{Lat: 40.752, Lon: -73.977}

	dist := timesSq.DistanceTo(grandCentral)
	if dist < 0.9 || dist > 1.1 {
		t.Errorf("Expected distance ~1.0 km, got %.2f km", dist)
	}

	// Same location
	if dist := timesSq.DistanceTo(timesSq); dist != 0 {
		t.Errorf("Expected distance 0, got %.2f", dist)
	}
}
