package mta

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jusunglee/mta-bustime/internal/feed"
	"github.com/jusunglee/mta-bustime/internal/models"
)

// Client defines the interface for nearby bus arrival lookups
type Client interface {
	// GetBusData returns arrivals for stops around a point using the configured spans
	GetBusData(ctx context.Context, apiKey string, lat, lon float64) (models.AggregateResult, error)

	// GetBusDataIn returns arrivals for stops inside an explicit search rectangle
	GetBusDataIn(ctx context.Context, apiKey string, area models.Coordinate) (models.AggregateResult, error)
}

// Config holds configuration for the Bus Time client
type Config struct {
	StopsForLocationURL    string        `yaml:"stops_for_location_url" validate:"required,url"`
	StopMonitoringURL      string        `yaml:"stop_monitoring_url" validate:"required,url"`
	LatSpan                float64       `yaml:"lat_span" validate:"gt=0,lte=1"`
	LonSpan                float64       `yaml:"lon_span" validate:"gt=0,lte=1"`
	ArrivalsPerDestination int           `yaml:"arrivals_per_destination" validate:"gt=0"`
	MaxConcurrency         int           `yaml:"max_concurrency" validate:"gt=0"`
	MaxStops               int           `yaml:"max_stops" validate:"gte=0"`
	RequestTimeout         time.Duration `yaml:"request_timeout" validate:"gt=0"`
}

// DefaultConfig returns default configuration.
// A 0.005 degree span covers roughly two blocks in each direction.
func DefaultConfig() Config {
	return Config{
		StopsForLocationURL:    feed.StopsForLocationURL,
		StopMonitoringURL:      feed.StopMonitoringURL,
		LatSpan:                0.005,
		LonSpan:                0.005,
		ArrivalsPerDestination: feed.DefaultArrivalsPerDestination,
		MaxConcurrency:         8,
		RequestTimeout:         feed.DefaultRequestTimeout,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	return validator.New().Struct(c)
}
