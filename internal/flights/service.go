package flights

import (
	"context"
	"log/slog"
	"strings"
)

// Service implements flight use cases on top of a Repository.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

func NewService(_ context.Context, repository Repository, logger *slog.Logger) (*Service, error) {
	return &Service{
		repository: repository,
		logger:     logger.With("component", "flights.Service"),
	}, nil
}

// Add normalizes and validates a new flight and stores it.
func (s *Service) Add(ctx context.Context, number, origin, destination string) (Flight, error) {
	flight := Flight{
		Number:      strings.ToUpper(strings.TrimSpace(number)),
		Origin:      strings.ToUpper(strings.TrimSpace(origin)),
		Destination: strings.ToUpper(strings.TrimSpace(destination)),
	}

	if err := flight.Validate(); err != nil {
		return Flight{}, err
	}

	if err := s.repository.Save(ctx, flight); err != nil {
		return Flight{}, err
	}

	s.logger.Info("Flight added", "flight", flight.Number)

	return flight, nil
}

func (s *Service) Show(ctx context.Context, number string) (Flight, error) {
	return s.repository.Find(ctx, strings.ToUpper(strings.TrimSpace(number)))
}

func (s *Service) List(ctx context.Context) ([]Flight, error) {
	return s.repository.List(ctx)
}
