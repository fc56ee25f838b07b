package service

import (
	"context"
	"fmt"

	"stovemarket/apperr"
	"stovemarket/models"
)

// statsService implements the StatsService interface
type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
	}
}

// GetPriceStats returns sale price statistics for one stove type
func (s *statsService) GetPriceStats(ctx context.Context, typeID int64) (*models.PriceStats, error) {
	uow := s.uowFactory.Create(true)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	stoveType, err := uow.StoveTypeRepository().GetByID(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stove type: %w", err)
	}
	if stoveType == nil {
		return nil, apperr.NotFound("stats.price", "stove type %d not found", typeID)
	}

	stats, err := uow.PriceHistoryRepository().GetStats(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get price stats: %w", err)
	}

	return stats, nil
}

// GetMarketOverview returns marketplace totals and per-type price statistics
func (s *statsService) GetMarketOverview(ctx context.Context) (*models.MarketOverview, error) {
	uow := s.uowFactory.Create(true)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	overview := &models.MarketOverview{}
	var err error

	if overview.Players, err = uow.PlayerRepository().Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count players: %w", err)
	}
	if overview.ActiveListings, err = uow.ListingRepository().CountByStatus(ctx, models.ListingStatusActive); err != nil {
		return nil, fmt.Errorf("failed to count active listings: %w", err)
	}
	if overview.SoldListings, err = uow.ListingRepository().CountByStatus(ctx, models.ListingStatusSold); err != nil {
		return nil, fmt.Errorf("failed to count sold listings: %w", err)
	}
	if overview.Trades, err = uow.TradeRepository().Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count trades: %w", err)
	}

	catalog, err := uow.StoveTypeRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stove catalog: %w", err)
	}
	overview.StoveTypes = int64(len(catalog))

	overview.TypeStats = make([]*models.TypeMarketStats, 0, len(catalog))
	for _, stoveType := range catalog {
		minted, err := uow.StoveRepository().CountByType(ctx, stoveType.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count stoves of type %d: %w", stoveType.ID, err)
		}

		prices, err := uow.PriceHistoryRepository().GetStats(ctx, stoveType.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get price stats for type %d: %w", stoveType.ID, err)
		}

		overview.TypeStats = append(overview.TypeStats, &models.TypeMarketStats{
			StoveType: stoveType,
			Minted:    minted,
			Prices:    prices,
		})
	}

	return overview, nil
}
