package feed

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jusunglee/mta-bustime/internal/models"
)

// Paths served by MockBusTime
const (
	MockStopsPath      = "/api/where/stops-for-location.json"
	MockMonitoringPath = "/api/siri/stop-monitoring.json"
)

// MockStops returns real Washington Heights stop locations
func MockStops() []models.Stop {
	return []models.Stop{
		{
			ID:          "MTA_103400",
			Name:        "BROADWAY/W 181 ST",
			Location:    models.Location{Lat: 40.849, Lon: -73.9375},
			HasLocation: true,
		},
		{
			ID:          "MTA_103401",
			Name:        "ST NICHOLAS AV/W 181 ST",
			Location:    models.Location{Lat: 40.8497, Lon: -73.9336},
			HasLocation: true,
		},
		{
			ID:          "MTA_403960",
			Name:        "AMSTERDAM AV/W 181 ST",
			Location:    models.Location{Lat: 40.8467, Lon: -73.9339},
			HasLocation: true,
		},
	}
}

// MockVisit builds a MonitoredStopVisit arriving at the given offset from now
func MockVisit(line, destination string, arrival time.Time) map[string]any {
	return MockRawVisit(line, destination, arrival.Format("2006-01-02T15:04:05.000-0700"))
}

// MockRawVisit builds a MonitoredStopVisit with a verbatim ExpectedArrivalTime.
// Empty strings leave the field out.
func MockRawVisit(line, destination, expected string) map[string]any {
	journey := map[string]any{}
	if line != "" {
		journey["PublishedLineName"] = line
	}
	if destination != "" {
		journey["DestinationName"] = destination
	}
	call := map[string]any{}
	if expected != "" {
		call["ExpectedArrivalTime"] = expected
	}
	journey["MonitoredCall"] = call

	return map[string]any{"MonitoredVehicleJourney": journey}
}

// MockMonitoringResponse wraps visits in a SIRI stop-monitoring envelope
func MockMonitoringResponse(visits ...map[string]any) map[string]any {
	list := make([]any, len(visits))
	for i, v := range visits {
		list[i] = v
	}

	return map[string]any{
		"Siri": map[string]any{
			"ServiceDelivery": map[string]any{
				"StopMonitoringDelivery": []any{
					map[string]any{"MonitoredStopVisit": list},
				},
			},
		},
	}
}

// MockStopsResponse wraps stops in a stops-for-location envelope
func MockStopsResponse(stops ...models.Stop) map[string]any {
	list := make([]any, len(stops))
	for i, s := range stops {
		entry := map[string]any{"id": s.ID, "name": s.Name}
		if s.HasLocation {
			entry["lat"] = s.Location.Lat
			entry["lon"] = s.Location.Lon
		}
		list[i] = entry
	}

	return map[string]any{
		"code": 200,
		"data": map[string]any{"stops": list},
	}
}

// MockBusTime is an in-process stand-in for the Bus Time API
type MockBusTime struct {
	StopsBody  any
	StopsCode  int
	Visits     map[string][]map[string]any
	StopCodes  map[string]int
	StopDelays map[string]time.Duration

	mu    sync.Mutex
	calls map[string]int
	keys  []string
}

func (m *MockBusTime) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[r.URL.Path]++
	m.keys = append(m.keys, q.Get("key"))
	m.mu.Unlock()

	switch {
	case strings.HasSuffix(r.URL.Path, MockStopsPath):
		if m.StopsCode != 0 && m.StopsCode != http.StatusOK {
			w.WriteHeader(m.StopsCode)
			return
		}
		writeMockJSON(w, m.StopsBody)

	case strings.HasSuffix(r.URL.Path, MockMonitoringPath):
		stopID := q.Get("MonitoringRef")
		if d := m.StopDelays[stopID]; d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		if code := m.StopCodes[stopID]; code != 0 && code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		writeMockJSON(w, MockMonitoringResponse(m.Visits[stopID]...))

	default:
		http.NotFound(w, r)
	}
}

// Calls returns how many requests hit path
func (m *MockBusTime) Calls(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[path]
}

// Keys returns the API keys sent with every request so far
func (m *MockBusTime) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.keys...)
}

func writeMockJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}
