package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"costaverde/internal/clock"
	"costaverde/internal/db"
	"costaverde/internal/entities"
	apperrors "costaverde/internal/errors"
)

// CatalogStore is the resource CRUD surface.
type CatalogStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateResource(ctx context.Context, res *db.Resource) error
	UpdateResource(ctx context.Context, res *db.Resource) error
	DeleteResource(ctx context.Context, id string) error
	SetResourceAvailability(ctx context.Context, id string, isAvailable bool, updatedAt time.Time) error
	GetResource(ctx context.Context, id string) (*db.Resource, error)
	GetResourceForUpdate(ctx context.Context, id string) (*db.Resource, error)
	ListResources(ctx context.Context, kind string) ([]db.Resource, error)
}

// OccupancyStore answers whether reservations still hold intervals on a
// resource, used to guard deletion.
type OccupancyStore interface {
	CountOccupyingReservations(ctx context.Context, resourceID string) (int, error)
}

type CatalogService struct {
	store     CatalogStore
	occupancy OccupancyStore
	clock     clock.Clock
	logger    zerolog.Logger
}

func NewCatalogService(store CatalogStore, occupancy OccupancyStore, clk clock.Clock, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		store:     store,
		occupancy: occupancy,
		clock:     clk,
		logger:    logger.With().Str("component", "catalog_service").Logger(),
	}
}

// validateResourceRequest checks the fields shared by create and update.
// Kind is the resource's fixed kind, not the request's.
func validateResourceRequest(req *entities.ResourceRequest, kind string) error {
	if req.Name == "" || req.Rate <= 0 {
		return apperrors.NewHTTPError(400, "name and a positive rate are required")
	}
	if kind == db.KindVehicle && req.Category != db.CategoryTwoWheeler && req.Category != db.CategoryFourWheeler {
		return apperrors.NewHTTPError(400, "vehicle category must be two-wheeler or four-wheeler")
	}
	return nil
}

func (s *CatalogService) CreateResource(ctx context.Context, req *entities.ResourceRequest) (*db.Resource, error) {
	if req.Kind != db.KindRoom && req.Kind != db.KindVehicle {
		return nil, apperrors.NewHTTPError(400, "kind must be room or vehicle")
	}
	if err := validateResourceRequest(req, req.Kind); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	res := &db.Resource{
		ID:          uuid.NewString(),
		Kind:        req.Kind,
		Name:        req.Name,
		Category:    req.Category,
		Adults:      req.Adults,
		Children:    req.Children,
		Seats:       req.Seats,
		Rate:        req.Rate,
		IsAvailable: req.IsAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateResource(ctx, res); err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}
	s.logger.Info().Str("resource_id", res.ID).Str("kind", res.Kind).Msg("resource created")
	return res, nil
}

// UpdateResource edits a resource. Rate edits apply only to reservations
// created afterwards; stamped amounts are never touched.
func (s *CatalogService) UpdateResource(ctx context.Context, id string, req *entities.ResourceRequest) (*db.Resource, error) {
	existing, err := s.store.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateResourceRequest(req, existing.Kind); err != nil {
		return nil, err
	}
	existing.Name = req.Name
	existing.Category = req.Category
	existing.Adults = req.Adults
	existing.Children = req.Children
	existing.Seats = req.Seats
	existing.Rate = req.Rate
	existing.IsAvailable = req.IsAvailable
	existing.UpdatedAt = s.clock.Now()

	if err := s.store.UpdateResource(ctx, existing); err != nil {
		return nil, fmt.Errorf("updating resource: %w", err)
	}
	return existing, nil
}

// DeleteResource removes a resource, refusing while reservations still occupy
// it. Existing reservations are never cancelled by deletion.
func (s *CatalogService) DeleteResource(ctx context.Context, id string) error {
	return s.store.WithTx(ctx, func(txCtx context.Context) error {
		// Lock the resource row so the count runs after any in-flight
		// reserve attempt holding the same lock has committed or aborted.
		if _, err := s.store.GetResourceForUpdate(txCtx, id); err != nil {
			return err
		}
		n, err := s.occupancy.CountOccupyingReservations(txCtx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("resource %s has %d active reservations: %w", id, n, apperrors.ErrResourceInUse)
		}
		return s.store.DeleteResource(txCtx, id)
	})
}

// SetAvailability flips the administrative switch. It blocks only new
// reservation attempts; existing intervals stay honored.
func (s *CatalogService) SetAvailability(ctx context.Context, id string, isAvailable bool) error {
	return s.store.SetResourceAvailability(ctx, id, isAvailable, s.clock.Now())
}

func (s *CatalogService) GetResource(ctx context.Context, id string) (*db.Resource, error) {
	return s.store.GetResource(ctx, id)
}

func (s *CatalogService) ListResources(ctx context.Context, kind string) ([]db.Resource, error) {
	return s.store.ListResources(ctx, kind)
}
