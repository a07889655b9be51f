package store

import (
	"testing"

	"github.com/jusunglee/mta-bustime/internal/models"
)

func TestStore(t *testing.T) {
	s := NewStore(2)

	t.Run("Add", func(t *testing.T) {
		added := s.Add("BROADWAY/W 181 ST", models.StopArrivals{
			"M4": {
				{Destination: "PENN STATION", Status: models.Arriving()},
				{Destination: "PENN STATION", Status: models.MinutesUntil(9)},
			},
		})
		if !added {
			t.Error("Expected arrivals to be added")
		}
		if s.Len() != 1 {
			t.Errorf("Expected 1 stop, got %d", s.Len())
		}
	})

	t.Run("AddEmpty", func(t *testing.T) {
		if s.Add("FT WASHINGTON AV/W 181 ST", models.StopArrivals{}) {
			t.Error("Expected empty arrivals to be dropped")
		}
		if s.Add("FT WASHINGTON AV/W 181 ST", nil) {
			t.Error("Expected nil arrivals to be dropped")
		}
		if _, ok := s.Result()["FT WASHINGTON AV/W 181 ST"]; ok {
			t.Error("Empty stop should not appear in result")
		}
	})

	t.Run("MergeDuplicateName", func(t *testing.T) {
		s.Add("BROADWAY/W 181 ST", models.StopArrivals{
			"M4": {
				{Destination: "PENN STATION", Status: models.MinutesUntil(15)},
				{Destination: "FT TRYON PARK", Status: models.MinutesUntil(4)},
			},
			"M98": {
				{Destination: "WASHINGTON HTS", Status: models.MinutesUntil(7)},
			},
		})

		stop := s.Result()["BROADWAY/W 181 ST"]
		if len(stop["M4"]) != 3 {
			t.Errorf("Expected 3 M4 arrivals, got %d", len(stop["M4"]))
		}
		if n := stop.CountFor("M4", "PENN STATION"); n != 2 {
			t.Errorf("Expected PENN STATION capped at 2, got %d", n)
		}
		if len(stop["M98"]) != 1 {
			t.Errorf("Expected 1 M98 arrival, got %d", len(stop["M98"]))
		}
	})

	t.Run("MergeAllCapped", func(t *testing.T) {
		if s.Add("BROADWAY/W 181 ST", models.StopArrivals{
			"M4": {{Destination: "PENN STATION", Status: models.MinutesUntil(30)}},
		}) {
			t.Error("Expected nothing to be added past the cap")
		}
	})

	t.Run("StopNames", func(t *testing.T) {
		s.Add("AMSTERDAM AV/W 181 ST", models.StopArrivals{
			"Bx11": {{Destination: "PARKCHESTER", Status: models.MinutesUntil(3)}},
		})

		names := s.StopNames()
		expected := []string{"AMSTERDAM AV/W 181 ST", "BROADWAY/W 181 ST"}
		if len(names) != len(expected) {
			t.Fatalf("Expected %d names, got %d", len(expected), len(names))
		}
		for i := range expected {
			if names[i] != expected[i] {
				t.Errorf("Name %d: expected %s, got %s", i, expected[i], names[i])
			}
		}
	})
}
