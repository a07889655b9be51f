package feed

import (
	"math"
	"time"
	_ "time/tzdata"

	"github.com/jusunglee/mta-bustime/internal/models"
)

const (
	// ArrivingThreshold is the largest delta, in minutes, reported as arriving
	ArrivingThreshold = 2

	// StaleThreshold is how many minutes in the past an arrival may be before
	// it is discarded as stale
	StaleThreshold = 2

	notAvailable = "N/A"
)

// serviceZone is the Bus Time operating timezone
var serviceZone = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// RepairOffset inserts the missing colon in a trailing "+HHMM"/"-HHMM"
// offset. Anything else is returned unchanged.
func RepairOffset(raw string) string {
	n := len(raw)
	if n < 6 {
		return raw
	}

	sign := raw[n-5]
	if sign != '+' && sign != '-' {
		return raw
	}
	for i := n - 4; i < n; i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return raw
		}
	}
	return raw[:n-2] + ":" + raw[n-2:]
}

// ClassifyArrival turns an ExpectedArrivalTime into an arrival status
// relative to now. It never fails: unusable input is Unknown.
func ClassifyArrival(raw string, now time.Time) models.ArrivalStatus {
	if raw == "" || raw == notAvailable {
		return models.Unknown()
	}

	arrival, err := time.Parse(time.RFC3339Nano, RepairOffset(raw))
	if err != nil {
		return models.Unknown()
	}

	delta := int(math.Floor(arrival.Sub(now.In(serviceZone)).Seconds() / 60))

	switch {
	case delta < -StaleThreshold:
		return models.Unknown()
	case delta <= ArrivingThreshold:
		return models.Arriving()
	default:
		return models.MinutesUntil(delta)
	}
}
