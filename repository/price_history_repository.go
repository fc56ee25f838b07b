package repository

import (
	"context"
	"fmt"

	"stovemarket/database"
	"stovemarket/models"
)

const priceHistoryColumns = `id, typeId, salePrice, saleDate`

// PriceHistoryRepository implements the PriceHistoryRepository interface
type PriceHistoryRepository struct {
	s Session
}

// NewPriceHistoryRepository creates a new price history repository
func NewPriceHistoryRepository(s Session) *PriceHistoryRepository {
	return &PriceHistoryRepository{s: s}
}

func priceHistoryFields(ph *models.PriceHistory) []any {
	return []any{&ph.ID, &ph.TypeID, &ph.SalePrice, &ph.SaleDate}
}

func (r *PriceHistoryRepository) list(ctx context.Context, op, query string, params database.Params) ([]*models.PriceHistory, error) {
	var history []*models.PriceHistory
	err := r.s.Prepare(query, params).Many(ctx, func(row database.Scanner) error {
		var ph models.PriceHistory
		if err := row.Scan(priceHistoryFields(&ph)...); err != nil {
			return err
		}
		history = append(history, &ph)
		return nil
	})
	if err != nil {
		return nil, database.Classify(op, fmt.Errorf("failed to get price history: %w", err))
	}
	return history, nil
}

// GetAll returns every recorded sale ordered by id
func (r *PriceHistoryRepository) GetAll(ctx context.Context) ([]*models.PriceHistory, error) {
	return r.list(ctx, "price_history.get_all", `SELECT `+priceHistoryColumns+` FROM PriceHistory ORDER BY id`, nil)
}

// GetByType returns the sales of one stove type, oldest first
func (r *PriceHistoryRepository) GetByType(ctx context.Context, typeID int64) ([]*models.PriceHistory, error) {
	query := `SELECT ` + priceHistoryColumns + ` FROM PriceHistory WHERE typeId = :typeId ORDER BY saleDate, id`
	return r.list(ctx, "price_history.get_by_type", query, database.Params{"typeId": typeID})
}

// GetByID retrieves a sale record, returning nil if none exists
func (r *PriceHistoryRepository) GetByID(ctx context.Context, id int64) (*models.PriceHistory, error) {
	query := `SELECT ` + priceHistoryColumns + ` FROM PriceHistory WHERE id = :id`

	var ph models.PriceHistory
	found, err := r.s.Prepare(query, database.Params{"id": id}).One(ctx, priceHistoryFields(&ph)...)
	if err != nil {
		return nil, database.Classify("price_history.get", fmt.Errorf("failed to get price history %d: %w", id, err))
	}
	if !found {
		return nil, nil
	}
	return &ph, nil
}

// Create records a sale and stores the generated id on ph
func (r *PriceHistoryRepository) Create(ctx context.Context, ph *models.PriceHistory) (bool, int64, error) {
	query := `
		INSERT INTO PriceHistory (typeId, salePrice, saleDate)
		VALUES (:typeId, :salePrice, :saleDate)
	`

	ph.SaleDate = stamp(ph.SaleDate)
	ok, id, err := insert(ctx, r.s, query, database.Params{
		"typeId":    ph.TypeID,
		"salePrice": ph.SalePrice,
		"saleDate":  ph.SaleDate,
	})
	if err != nil {
		return false, 0, database.Classify("price_history.create", fmt.Errorf("failed to record sale of stove type %d: %w", ph.TypeID, err))
	}

	ph.ID = id
	return ok, id, nil
}

// Delete removes a sale record
func (r *PriceHistoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execOne(ctx, r.s, `DELETE FROM PriceHistory WHERE id = :id`, database.Params{"id": id})
	if err != nil {
		return false, database.Classify("price_history.delete", fmt.Errorf("failed to delete price history %d: %w", id, err))
	}
	return ok, nil
}

// GetStats returns sale price statistics for a stove type. A type that never
// sold yields zero values.
func (r *PriceHistoryRepository) GetStats(ctx context.Context, typeID int64) (*models.PriceStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(CAST(AVG(salePrice) AS DOUBLE PRECISION), 0),
			COALESCE(MIN(salePrice), 0),
			COALESCE(MAX(salePrice), 0)
		FROM PriceHistory
		WHERE typeId = :typeId
	`

	stats := &models.PriceStats{TypeID: typeID}
	_, err := r.s.Prepare(query, database.Params{"typeId": typeID}).One(ctx,
		&stats.Count,
		&stats.Average,
		&stats.Min,
		&stats.Max,
	)
	if err != nil {
		return nil, database.Classify("price_history.stats", fmt.Errorf("failed to get price stats for stove type %d: %w", typeID, err))
	}

	if stats.Count == 0 {
		return stats, nil
	}

	var prices []int64
	err = r.s.Prepare(`SELECT salePrice FROM PriceHistory WHERE typeId = :typeId ORDER BY salePrice`, database.Params{"typeId": typeID}).
		Many(ctx, func(row database.Scanner) error {
			var p int64
			if err := row.Scan(&p); err != nil {
				return err
			}
			prices = append(prices, p)
			return nil
		})
	if err != nil {
		return nil, database.Classify("price_history.stats", fmt.Errorf("failed to get sale prices for stove type %d: %w", typeID, err))
	}

	stats.Median = median(prices)
	return stats, nil
}

// median expects prices sorted ascending
func median(prices []int64) float64 {
	n := len(prices)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return float64(prices[n/2])
	}
	return float64(prices[n/2-1]+prices[n/2]) / 2
}
