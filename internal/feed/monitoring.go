package feed

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/jusunglee/mta-bustime/internal/models"
)

const unknownName = "unknown"

// FetchStopArrivals returns the upcoming arrivals at stop grouped by line.
// Upstream failures are logged and produce an empty result; a single bad
// stop never fails the caller.
func (f *Fetcher) FetchStopArrivals(ctx context.Context, apiKey string, stop models.Stop) models.StopArrivals {
	logger := zerolog.Ctx(ctx).With().
		Str("stop_id", stop.ID).
		Str("stop_name", stop.Name).
		Logger()

	params := url.Values{}
	params.Set("key", apiKey)
	params.Set("MonitoringRef", stop.ID)

	body, err := f.getJSON(ctx, monitoringEndpoint, f.monitoringURL, params)
	if err != nil {
		logger.Warn().Err(err).Msg("failed fetching stop arrivals")
		return models.StopArrivals{}
	}

	arrivals := f.parseVisits(body)
	logger.Debug().Int("lines", len(arrivals)).Msg("fetched stop arrivals")

	return arrivals
}

// parseVisits extracts MonitoredStopVisit entries from the first delivery
func (f *Fetcher) parseVisits(body any) models.StopArrivals {
	visits := listAt(body, "Siri", "ServiceDelivery", "StopMonitoringDelivery", 0, "MonitoredStopVisit")
	arrivals := models.StopArrivals{}
	now := f.now()

	for _, visit := range visits {
		journey := lookup(visit, "MonitoredVehicleJourney")
		line := stringAt(journey, unknownName, "PublishedLineName")
		destination := stringAt(journey, unknownName, "DestinationName")
		expected := stringAt(journey, notAvailable, "MonitoredCall", "ExpectedArrivalTime")

		status := ClassifyArrival(expected, now)
		if !status.IsKnown() {
			continue
		}
		if arrivals.CountFor(line, destination) >= f.perDestination {
			continue
		}

		arrivals[line] = append(arrivals[line], models.Arrival{
			Destination: destination,
			Status:      status,
		})
	}

	return arrivals
}
