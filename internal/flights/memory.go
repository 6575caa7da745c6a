package flights

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// MemoryRepository keeps flights in memory, they are lost when the application exits.
type MemoryRepository struct {
	mu      sync.RWMutex
	flights map[string]Flight
}

func NewMemoryRepository(_ context.Context) (*MemoryRepository, error) {
	return &MemoryRepository{}, nil
}

func (r *MemoryRepository) Initialize(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.flights == nil {
		r.flights = make(map[string]Flight)
	}

	return nil
}

func (r *MemoryRepository) Save(_ context.Context, flight Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.flights == nil {
		return ErrNotInitialized
	}

	if _, ok := r.flights[flight.Number]; ok {
		return fmt.Errorf("%w: %s", ErrFlightExists, flight.Number)
	}

	r.flights[flight.Number] = flight

	return nil
}

func (r *MemoryRepository) Find(_ context.Context, number string) (Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	flight, ok := r.flights[number]
	if !ok {
		return Flight{}, fmt.Errorf("%w: %s", ErrFlightNotFound, number)
	}

	return flight, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.SortedFunc(maps.Values(r.flights), func(a, b Flight) int {
		return strings.Compare(a.Number, b.Number)
	}), nil
}
