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

type tradeService struct {
	uowFactory UnitOfWorkFactory
}

// NewTradeService creates a new trade service
func NewTradeService(uowFactory UnitOfWorkFactory) TradeService {
	return &tradeService{
		uowFactory: uowFactory,
	}
}

// ExecuteTrade sells an active listing to buyerID. Every step runs in one
// read-write unit of work; any failure rolls back the whole purchase. No
// currency moves between buyer and seller.
func (s *tradeService) ExecuteTrade(ctx context.Context, listingID, buyerID int64) (*models.TradeResult, error) {
	const op = "trade.execute"

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
	if !listing.IsActive() {
		return nil, apperr.InvalidState(op, "listing is not active")
	}

	// Must be checked before anything is written
	if listing.SellerID == buyerID {
		return nil, apperr.InvalidOperation(op, "cannot buy own listing")
	}

	// Flip status first so a concurrent buyer loses here
	sold, err := uow.ListingRepository().TransitionStatus(ctx, listing.ID, models.ListingStatusActive, models.ListingStatusSold)
	if err != nil {
		return nil, fmt.Errorf("failed to mark listing sold: %w", err)
	}
	if !sold {
		log.WithFields(log.Fields{
			"listing_id": listingID,
			"buyer_id":   buyerID,
		}).Warn("Listing was sold or cancelled concurrently")
		return nil, apperr.InvalidState(op, "listing is not active")
	}
	listing.Status = models.ListingStatusSold

	stove, err := uow.StoveRepository().GetByID(ctx, listing.StoveID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stove: %w", err)
	}
	if stove == nil {
		return nil, apperr.NotFound(op, "stove %d not found", listing.StoveID)
	}

	moved, err := uow.StoveRepository().UpdateOwner(ctx, stove.ID, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to transfer stove: %w", err)
	}
	if !moved {
		return nil, apperr.NotFound(op, "stove %d not found", stove.ID)
	}
	stove.CurrentOwnerID = buyerID

	now := time.Now().UTC()

	ownership := &models.Ownership{
		StoveID:     stove.ID,
		PlayerID:    buyerID,
		AcquiredAt:  now,
		AcquiredHow: models.AcquiredHowTrade,
	}
	if ok, _, err := uow.OwnershipRepository().Create(ctx, ownership); err != nil {
		return nil, fmt.Errorf("failed to record ownership: %w", err)
	} else if !ok {
		return nil, apperr.New(apperr.KindResourceFault, op, "ownership row not written")
	}

	price := &models.PriceHistory{
		TypeID:    stove.TypeID,
		SalePrice: listing.Price,
		SaleDate:  now,
	}
	if ok, _, err := uow.PriceHistoryRepository().Create(ctx, price); err != nil {
		return nil, fmt.Errorf("failed to record sale price: %w", err)
	} else if !ok {
		return nil, apperr.New(apperr.KindResourceFault, op, "price history row not written")
	}

	trade := &models.Trade{
		ListingID:  listing.ID,
		BuyerID:    buyerID,
		ExecutedAt: now,
	}
	if ok, _, err := uow.TradeRepository().Create(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	} else if !ok {
		return nil, apperr.New(apperr.KindResourceFault, op, "trade row not written")
	}

	uow.EventBus().Publish(events.TradeExecutedEvent{
		TradeID:   trade.ID,
		ListingID: listing.ID,
		StoveID:   stove.ID,
		TypeID:    stove.TypeID,
		SellerID:  listing.SellerID,
		BuyerID:   buyerID,
		Price:     listing.Price,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"trade_id":   trade.ID,
		"listing_id": listing.ID,
		"stove_id":   stove.ID,
		"seller_id":  listing.SellerID,
		"buyer_id":   buyerID,
		"price":      listing.Price,
	}).Info("Trade executed")

	return &models.TradeResult{
		Trade:       trade,
		Listing:     listing,
		Stove:       stove,
		OwnershipID: ownership.ID,
		PriceID:     price.ID,
		SellerID:    listing.SellerID,
	}, nil
}
