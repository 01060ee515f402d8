// Package strain serves the reference strain library: known cultivars, each
// profiled under several grow contexts and ready to submit for scoring.
package strain

import (
	"context"
	"errors"
	"log/slog"

	"greenforge/internal/strain/models"
	dErrors "greenforge/pkg/domain-errors"
	"greenforge/pkg/platform/sentinel"
)

// Store is the persistence port for the strain library.
type Store interface {
	ListNames(ctx context.Context) ([]string, error)
	FindVariants(ctx context.Context, name string) ([]models.Variant, error)
}

// Service translates store results into domain errors.
type Service struct {
	store  Store
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New builds a strain service.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("strain store is required")
	}
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListNames returns the distinct strain names in the library.
func (s *Service) ListNames(ctx context.Context) ([]string, error) {
	names, err := s.store.ListNames(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "strain library unavailable")
	}
	return names, nil
}

// Variants returns every grow context recorded for name.
func (s *Service) Variants(ctx context.Context, name string) ([]models.Variant, error) {
	variants, err := s.store.FindVariants(ctx, name)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "strain not found")
	}
	if err != nil {
		s.logger.WarnContext(ctx, "strain lookup failed", "strain", name, "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "strain library unavailable")
	}
	return variants, nil
}
