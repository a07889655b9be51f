package feed

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jusunglee/mta-bustime/internal/models"
)

// DiscoverStops returns the stops inside the search rectangle, nearest first.
// Entries without an id or name are skipped.
func (f *Fetcher) DiscoverStops(ctx context.Context, apiKey string, area models.Coordinate) ([]models.Stop, error) {
	if err := validateArea(apiKey, area); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("key", apiKey)
	params.Set("lat", formatFloat(area.Lat))
	params.Set("lon", formatFloat(area.Lon))
	params.Set("latSpan", formatFloat(area.LatSpan))
	params.Set("lonSpan", formatFloat(area.LonSpan))

	body, err := f.getJSON(ctx, stopsEndpoint, f.stopsURL, params)
	if err != nil {
		return nil, err
	}

	stops := parseStops(body)
	sortByDistance(stops, area.Center())

	if f.maxStops > 0 && len(stops) > f.maxStops {
		stops = stops[:f.maxStops]
	}

	zerolog.Ctx(ctx).Debug().
		Float64("lat", area.Lat).
		Float64("lon", area.Lon).
		Int("stops", len(stops)).
		Msg("discovered stops")

	return stops, nil
}

func validateArea(apiKey string, area models.Coordinate) error {
	if apiKey == "" {
		return fmt.Errorf("%w: %w", ErrInvalidParameters, ErrMissingCredential)
	}
	if !finite(area.Lat) || area.Lat < -90 || area.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidParameters, area.Lat)
	}
	if !finite(area.Lon) || area.Lon < -180 || area.Lon > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidParameters, area.Lon)
	}
	if !finite(area.LatSpan) || area.LatSpan <= 0 || !finite(area.LonSpan) || area.LonSpan <= 0 {
		return fmt.Errorf("%w: span %v x %v", ErrInvalidParameters, area.LatSpan, area.LonSpan)
	}
	return nil
}

func parseStops(body any) []models.Stop {
	raw := listAt(body, "data", "stops")
	stops := make([]models.Stop, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, entry := range raw {
		id := stringAt(entry, "", "id")
		name := stringAt(entry, "", "name")
		if id == "" || name == "" || seen[id] {
			continue
		}
		seen[id] = true

		stop := models.Stop{ID: id, Name: name}
		lat, okLat := floatAt(entry, "lat")
		lon, okLon := floatAt(entry, "lon")
		if okLat && okLon {
			stop.Location = models.Location{Lat: lat, Lon: lon}
			stop.HasLocation = true
		}
		stops = append(stops, stop)
	}

	return stops
}

// sortByDistance orders stops nearest first; stops without coordinates go last
// in their original order
func sortByDistance(stops []models.Stop, from models.Location) {
	dist := func(s models.Stop) float64 {
		if !s.HasLocation {
			return math.Inf(1)
		}
		return from.DistanceTo(s.Location)
	}

	sort.SliceStable(stops, func(i, j int) bool {
		return dist(stops[i]) < dist(stops[j])
	})
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
