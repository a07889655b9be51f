package mta

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/jusunglee/mta-bustime/internal/feed"
	"github.com/jusunglee/mta-bustime/internal/models"
	"github.com/jusunglee/mta-bustime/internal/store"
)

// Option customizes a BusTimeClient
type Option func(*feed.Options)

// WithHTTPClient sets the HTTP client shared by all upstream calls
func WithHTTPClient(c *http.Client) Option {
	return func(o *feed.Options) {
		o.HTTPClient = c
	}
}

// WithClock sets the clock used to compute minutes until arrival
func WithClock(now func() time.Time) Option {
	return func(o *feed.Options) {
		o.Now = now
	}
}

// BusTimeClient implements the Client interface against the MTA Bus Time API.
// One instance can serve many concurrent requests.
type BusTimeClient struct {
	config  Config
	fetcher *feed.Fetcher
}

// New creates a new Bus Time client
func New(config Config, opts ...Option) (*BusTimeClient, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bus time config: %w", err)
	}

	fo := feed.Options{
		StopsForLocationURL:    config.StopsForLocationURL,
		StopMonitoringURL:      config.StopMonitoringURL,
		RequestTimeout:         config.RequestTimeout,
		ArrivalsPerDestination: config.ArrivalsPerDestination,
		MaxStops:               config.MaxStops,
	}
	for _, opt := range opts {
		opt(&fo)
	}

	return &BusTimeClient{
		config:  config,
		fetcher: feed.NewFetcher(fo),
	}, nil
}

// Config returns the client configuration
func (c *BusTimeClient) Config() Config {
	return c.config
}

func (c *BusTimeClient) GetBusData(ctx context.Context, apiKey string, lat, lon float64) (models.AggregateResult, error) {
	return c.GetBusDataIn(ctx, apiKey, models.Coordinate{
		Lat:     lat,
		Lon:     lon,
		LatSpan: c.config.LatSpan,
		LonSpan: c.config.LonSpan,
	})
}

type stopResult struct {
	index    int
	stop     models.Stop
	arrivals models.StopArrivals
}

func (c *BusTimeClient) GetBusDataIn(ctx context.Context, apiKey string, area models.Coordinate) (models.AggregateResult, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}

	stops, err := c.fetcher.DiscoverStops(ctx, apiKey, area)
	if err != nil {
		return nil, fmt.Errorf("discovering stops: %w", err)
	}

	p := pool.NewWithResults[stopResult]().WithMaxGoroutines(c.config.MaxConcurrency)
	for i, stop := range stops {
		i, stop := i, stop
		p.Go(func() stopResult {
			return stopResult{
				index:    i,
				stop:     stop,
				arrivals: c.fetcher.FetchStopArrivals(ctx, apiKey, stop),
			}
		})
	}
	results := p.Wait()

	// merge in discovery order so stops sharing a name combine deterministically
	sort.Slice(results, func(i, j int) bool {
		return results[i].index < results[j].index
	})

	s := store.NewStore(c.fetcher.ArrivalsPerDestination())
	for _, r := range results {
		s.Add(r.stop.Name, r.arrivals)
	}

	zerolog.Ctx(ctx).Info().
		Float64("lat", area.Lat).
		Float64("lon", area.Lon).
		Int("stops", len(stops)).
		Int("with_arrivals", s.Len()).
		Msg("aggregated bus arrivals")

	return s.Result(), nil
}
