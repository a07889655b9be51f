package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// Bus Time endpoints
const (
	StopsForLocationURL = "https://bustime.mta.info/api/where/stops-for-location.json"
	StopMonitoringURL   = "https://bustime.mta.info/api/siri/stop-monitoring.json"
)

const (
	stopsEndpoint      = "stops-for-location"
	monitoringEndpoint = "stop-monitoring"

	// DefaultArrivalsPerDestination caps arrivals kept per line and destination
	DefaultArrivalsPerDestination = 5

	// DefaultRequestTimeout bounds each upstream call
	DefaultRequestTimeout = 5 * time.Second
)

// Options configures a Fetcher. Zero values fall back to defaults.
type Options struct {
	StopsForLocationURL    string
	StopMonitoringURL      string
	RequestTimeout         time.Duration
	ArrivalsPerDestination int
	MaxStops               int
	HTTPClient             *http.Client
	Now                    func() time.Time
}

// Fetcher talks to the Bus Time stops-for-location and stop-monitoring APIs.
// It is safe for concurrent use.
type Fetcher struct {
	stopsURL       string
	monitoringURL  string
	timeout        time.Duration
	perDestination int
	maxStops       int
	httpClient     *http.Client
	now            func() time.Time
}

// NewFetcher creates a new fetcher
func NewFetcher(opts Options) *Fetcher {
	f := &Fetcher{
		stopsURL:       opts.StopsForLocationURL,
		monitoringURL:  opts.StopMonitoringURL,
		timeout:        opts.RequestTimeout,
		perDestination: opts.ArrivalsPerDestination,
		maxStops:       opts.MaxStops,
		httpClient:     opts.HTTPClient,
		now:            opts.Now,
	}

	if f.stopsURL == "" {
		f.stopsURL = StopsForLocationURL
	}
	if f.monitoringURL == "" {
		f.monitoringURL = StopMonitoringURL
	}
	if f.timeout <= 0 {
		f.timeout = DefaultRequestTimeout
	}
	if f.perDestination <= 0 {
		f.perDestination = DefaultArrivalsPerDestination
	}
	if f.httpClient == nil {
		f.httpClient = &http.Client{}
	}
	if f.now == nil {
		f.now = time.Now
	}

	return f
}

// ArrivalsPerDestination returns the configured per line/destination cap
func (f *Fetcher) ArrivalsPerDestination() int {
	return f.perDestination
}

// getJSON issues a GET against endpoint and decodes the body into generic values
func (f *Fetcher) getJSON(ctx context.Context, name, endpoint string, params url.Values) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &UpstreamError{Endpoint: name, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Endpoint: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Endpoint: name, StatusCode: resp.StatusCode}
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &UpstreamError{Endpoint: name, Err: err}
	}

	return body, nil
}
