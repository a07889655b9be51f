package store

import (
	"sort"

	"github.com/jusunglee/mta-bustime/internal/models"
)

// Store accumulates per-stop arrivals into one aggregate result.
// It is built and read by a single goroutine.
type Store struct {
	results        models.AggregateResult
	perDestination int
}

// NewStore creates a new store that keeps at most perDestination arrivals
// for each line and destination of a stop
func NewStore(perDestination int) *Store {
	return &Store{
		results:        make(models.AggregateResult),
		perDestination: perDestination,
	}
}

// Add records the arrivals for a stop. Empty results are dropped and it
// reports whether anything was stored. Stops sharing a display name are
// merged line by line.
func (s *Store) Add(stopName string, arrivals models.StopArrivals) bool {
	if len(arrivals) == 0 {
		return false
	}

	existing, ok := s.results[stopName]
	if !ok {
		existing = make(models.StopArrivals, len(arrivals))
		s.results[stopName] = existing
	}

	added := false
	for _, line := range sortedKeys(arrivals) {
		for _, arrival := range arrivals[line] {
			if s.perDestination > 0 && existing.CountFor(line, arrival.Destination) >= s.perDestination {
				continue
			}
			existing[line] = append(existing[line], arrival)
			added = true
		}
	}

	if !ok && !added {
		delete(s.results, stopName)
	}
	return added
}

// Result returns the aggregate result
func (s *Store) Result() models.AggregateResult {
	return s.results
}

// StopNames returns the stored stop names in sorted order
func (s *Store) StopNames() []string {
	return sortedKeys(s.results)
}

// Len returns the number of stops with arrivals
func (s *Store) Len() int {
	return len(s.results)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
