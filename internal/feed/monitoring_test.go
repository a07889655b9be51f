package feed

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/mta-bustime/internal/models"
)

var testNow = time.Date(2024, 3, 12, 8, 30, 0, 0, serviceZone)

func fixedNow() time.Time {
	return testNow
}

func TestFetchStopArrivals(t *testing.T) {
	stop := MockStops()[0]
	mock := &MockBusTime{
		Visits: map[string][]map[string]any{
			stop.ID: {
				MockVisit("M4", "PENN STATION", testNow.Add(time.Minute)),
				MockVisit("M4", "FT TRYON PARK", testNow.Add(6*time.Minute)),
				MockVisit("M4", "PENN STATION", testNow.Add(12*time.Minute)),
				MockVisit("Bx7", "RIVERDALE", testNow.Add(-20*time.Minute)),
				MockRawVisit("Bx7", "RIVERDALE", "N/A"),
				MockRawVisit("M100", "", testNow.Add(8*time.Minute).Format(time.RFC3339)),
				MockRawVisit("", "", testNow.Add(9*time.Minute).Format(time.RFC3339)),
			},
		},
	}
	f := newTestFetcher(t, mock)

	got := f.FetchStopArrivals(context.Background(), "secret", stop)

	assert.Equal(t, models.StopArrivals{
		"M4": {
			{Destination: "PENN STATION", Status: models.Arriving()},
			{Destination: "FT TRYON PARK", Status: models.MinutesUntil(6)},
			{Destination: "PENN STATION", Status: models.MinutesUntil(12)},
		},
		"M100":    {{Destination: "unknown", Status: models.MinutesUntil(8)}},
		"unknown": {{Destination: "unknown", Status: models.MinutesUntil(9)}},
	}, got)
	assert.Equal(t, 1, mock.Calls(MockMonitoringPath))
}

func TestFetchStopArrivalsCapsPerDestination(t *testing.T) {
	stop := MockStops()[0]
	var visits []map[string]any
	for i := 0; i < 8; i++ {
		visits = append(visits,
			MockVisit("Bx3", "UNIVERSITY HTS", testNow.Add(time.Duration(5+i)*time.Minute)),
			MockVisit("Bx3", "WASHINGTON HTS", testNow.Add(time.Duration(10+i)*time.Minute)),
		)
	}
	mock := &MockBusTime{Visits: map[string][]map[string]any{stop.ID: visits}}
	f := newTestFetcher(t, mock)

	got := f.FetchStopArrivals(context.Background(), "key", stop)

	require.Len(t, got["Bx3"], 2*DefaultArrivalsPerDestination)
	assert.Equal(t, DefaultArrivalsPerDestination, got.CountFor("Bx3", "UNIVERSITY HTS"))
	assert.Equal(t, DefaultArrivalsPerDestination, got.CountFor("Bx3", "WASHINGTON HTS"))
	// upstream order is kept: earliest listed first
	assert.Equal(t, models.MinutesUntil(5), got["Bx3"][0].Status)
	assert.Equal(t, models.MinutesUntil(10), got["Bx3"][1].Status)
}

func TestFetchStopArrivalsSiri2Names(t *testing.T) {
	stop := MockStops()[1]
	visit := MockVisit("", "", testNow.Add(4*time.Minute))
	journey := visit["MonitoredVehicleJourney"].(map[string]any)
	journey["PublishedLineName"] = []any{"M101"}
	journey["DestinationName"] = []any{"EAST VILLAGE 6 ST"}

	mock := &MockBusTime{Visits: map[string][]map[string]any{stop.ID: {visit}}}
	f := newTestFetcher(t, mock)

	got := f.FetchStopArrivals(context.Background(), "key", stop)
	assert.Equal(t, models.StopArrivals{
		"M101": {{Destination: "EAST VILLAGE 6 ST", Status: models.MinutesUntil(4)}},
	}, got)
}

func TestFetchStopArrivalsAbsorbsFailures(t *testing.T) {
	stop := MockStops()[2]

	t.Run("non-200", func(t *testing.T) {
		mock := &MockBusTime{StopCodes: map[string]int{stop.ID: http.StatusServiceUnavailable}}
		f := newTestFetcher(t, mock)

		got := f.FetchStopArrivals(context.Background(), "key", stop)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("no visits", func(t *testing.T) {
		f := newTestFetcher(t, &MockBusTime{})

		assert.Empty(t, f.FetchStopArrivals(context.Background(), "key", stop))
	})

	t.Run("timeout", func(t *testing.T) {
		mock := &MockBusTime{
			StopDelays: map[string]time.Duration{stop.ID: time.Second},
			Visits: map[string][]map[string]any{
				stop.ID: {MockVisit("M3", "HARLEM", testNow.Add(5*time.Minute))},
			},
		}
		f := newTestFetcher(t, mock)
		f.timeout = 50 * time.Millisecond

		assert.Empty(t, f.FetchStopArrivals(context.Background(), "key", stop))
	})
}

func TestParseVisitsMissingPath(t *testing.T) {
	f := NewFetcher(Options{Now: fixedNow})

	for name, body := range map[string]any{
		"nil":             nil,
		"no siri":         map[string]any{},
		"empty delivery":  map[string]any{"Siri": map[string]any{"ServiceDelivery": map[string]any{"StopMonitoringDelivery": []any{}}}},
		"visits not list": map[string]any{"Siri": map[string]any{"ServiceDelivery": map[string]any{"StopMonitoringDelivery": []any{map[string]any{"MonitoredStopVisit": "none"}}}}},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, f.parseVisits(body))
		})
	}
}
