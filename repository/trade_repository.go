package repository

import (
	"context"
	"fmt"

	"stovemarket/database"
	"stovemarket/models"
)

const tradeColumns = `id, listingId, buyerId, executedAt`

// TradeRepository implements the TradeRepository interface
type TradeRepository struct {
	s Session
}

// NewTradeRepository creates a new trade repository
func NewTradeRepository(s Session) *TradeRepository {
	return &TradeRepository{s: s}
}

func tradeFields(t *models.Trade) []any {
	return []any{&t.ID, &t.ListingID, &t.BuyerID, &t.ExecutedAt}
}

func (r *TradeRepository) list(ctx context.Context, op, query string, params database.Params) ([]*models.Trade, error) {
	var trades []*models.Trade
	err := r.s.Prepare(query, params).Many(ctx, func(row database.Scanner) error {
		var t models.Trade
		if err := row.Scan(tradeFields(&t)...); err != nil {
			return err
		}
		trades = append(trades, &t)
		return nil
	})
	if err != nil {
		return nil, database.Classify(op, fmt.Errorf("failed to get trades: %w", err))
	}
	return trades, nil
}

func (r *TradeRepository) one(ctx context.Context, op, query string, params database.Params) (*models.Trade, error) {
	var t models.Trade
	found, err := r.s.Prepare(query, params).One(ctx, tradeFields(&t)...)
	if err != nil {
		return nil, database.Classify(op, fmt.Errorf("failed to get trade: %w", err))
	}
	if !found {
		return nil, nil
	}
	return &t, nil
}

// GetAll returns all trades ordered by id
func (r *TradeRepository) GetAll(ctx context.Context) ([]*models.Trade, error) {
	return r.list(ctx, "trade.get_all", `SELECT `+tradeColumns+` FROM Trade ORDER BY id`, nil)
}

// GetByBuyer returns a player's purchases, newest first
func (r *TradeRepository) GetByBuyer(ctx context.Context, buyerID int64) ([]*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM Trade WHERE buyerId = :buyerId ORDER BY executedAt DESC, id DESC`
	return r.list(ctx, "trade.get_by_buyer", query, database.Params{"buyerId": buyerID})
}

// GetByID retrieves a trade, returning nil if none exists
func (r *TradeRepository) GetByID(ctx context.Context, id int64) (*models.Trade, error) {
	return r.one(ctx, "trade.get", `SELECT `+tradeColumns+` FROM Trade WHERE id = :id`, database.Params{"id": id})
}

// GetByListing returns the trade that sold a listing, if any
func (r *TradeRepository) GetByListing(ctx context.Context, listingID int64) (*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM Trade WHERE listingId = :listingId`
	return r.one(ctx, "trade.get_by_listing", query, database.Params{"listingId": listingID})
}

// Create records a trade and stores the generated id on t. A listing can be
// traded at most once.
func (r *TradeRepository) Create(ctx context.Context, t *models.Trade) (bool, int64, error) {
	query := `
		INSERT INTO Trade (listingId, buyerId, executedAt)
		VALUES (:listingId, :buyerId, :executedAt)
	`

	t.ExecutedAt = stamp(t.ExecutedAt)
	ok, id, err := insert(ctx, r.s, query, database.Params{
		"listingId":  t.ListingID,
		"buyerId":    t.BuyerID,
		"executedAt": t.ExecutedAt,
	})
	if err != nil {
		return false, 0, database.Classify("trade.create", fmt.Errorf("failed to create trade for listing %d: %w", t.ListingID, err))
	}

	t.ID = id
	return ok, id, nil
}

// Delete removes a trade
func (r *TradeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execOne(ctx, r.s, `DELETE FROM Trade WHERE id = :id`, database.Params{"id": id})
	if err != nil {
		return false, database.Classify("trade.delete", fmt.Errorf("failed to delete trade %d: %w", id, err))
	}
	return ok, nil
}

// Count returns the number of executed trades
func (r *TradeRepository) Count(ctx context.Context) (int64, error) {
	n, err := count(ctx, r.s, `SELECT COUNT(*) FROM Trade`, nil)
	if err != nil {
		return 0, database.Classify("trade.count", fmt.Errorf("failed to count trades: %w", err))
	}
	return n, nil
}
