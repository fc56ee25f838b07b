package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"stovemarket/apperr"
	"stovemarket/events"
	"stovemarket/models"
)

type listingService struct {
	uowFactory UnitOfWorkFactory
}

// NewListingService creates a new listing service
func NewListingService(uowFactory UnitOfWorkFactory) ListingService {
	return &listingService{
		uowFactory: uowFactory,
	}
}

func (s *listingService) CreateListing(ctx context.Context, sellerID, stoveID, price int64) (*models.Listing, error) {
	const op = "listing.create"

	if price < 1 {
		return nil, apperr.InvalidOperation(op, "price must be at least 1, got %d", price)
	}

	uow := s.uowFactory.Create(false)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	stove, err := uow.StoveRepository().GetByID(ctx, stoveID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stove: %w", err)
	}
	if stove == nil {
		return nil, apperr.NotFound(op, "stove %d not found", stoveID)
	}
	if stove.CurrentOwnerID != sellerID {
		return nil, apperr.InvalidOperation(op, "player %d does not own stove %d", sellerID, stoveID)
	}

	existing, err := uow.ListingRepository().GetActiveByStove(ctx, stoveID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active listing: %w", err)
	}
	if existing != nil {
		return nil, apperr.InvalidState(op, "stove %d is already listed (listing %d)", stoveID, existing.ID)
	}

	// The partial unique index still rejects a concurrent duplicate here
	listing := &models.Listing{
		SellerID: sellerID,
		StoveID:  stoveID,
		Price:    price,
		ListedAt: time.Now().UTC(),
		Status:   models.ListingStatusActive,
	}
	if _, _, err := uow.ListingRepository().Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	uow.EventBus().Publish(events.ListingCreatedEvent{
		ListingID: listing.ID,
		SellerID:  sellerID,
		StoveID:   stoveID,
		Price:     price,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"listing_id": listing.ID,
		"stove_id":   stoveID,
		"seller_id":  sellerID,
		"price":      price,
	}).Info("Listing created")

	return listing, nil
}

func (s *listingService) CancelListing(ctx context.Context, listingID, playerID int64) (*models.Listing, error) {
	const op = "listing.cancel"

	uow := s.uowFactory.Create(false)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	listing, err := uow.ListingRepository().GetByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return nil, apperr.NotFound(op, "listing %d not found", listingID)
	}

	if listing.SellerID != playerID {
		player, err := uow.PlayerRepository().GetByID(ctx, playerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get player: %w", err)
		}
		if player == nil {
			return nil, apperr.NotFound(op, "player %d not found", playerID)
		}
		if !player.IsAdmin {
			return nil, apperr.InvalidOperation(op, "only the seller or an admin can cancel listing %d", listingID)
		}
	}

	if !listing.IsActive() {
		return nil, apperr.InvalidState(op, "listing is not active")
	}

	cancelled, err := uow.ListingRepository().TransitionStatus(ctx, listing.ID, models.ListingStatusActive, models.ListingStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel listing: %w", err)
	}
	if !cancelled {
		return nil, apperr.InvalidState(op, "listing is not active")
	}
	listing.Status = models.ListingStatusCancelled

	uow.EventBus().Publish(events.ListingCancelledEvent{
		ListingID:   listing.ID,
		StoveID:     listing.StoveID,
		CancelledBy: playerID,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"listing_id":   listing.ID,
		"cancelled_by": playerID,
	}).Info("Listing cancelled")

	return listing, nil
}
