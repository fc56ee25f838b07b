package repository

import (
	"context"
	"fmt"

	"stovemarket/database"
	"stovemarket/models"
)

const listingColumns = `id, sellerId, stoveId, price, listedAt, status`

// ListingRepository implements the ListingRepository interface
type ListingRepository struct {
	s Session
}

// NewListingRepository creates a new listing repository
func NewListingRepository(s Session) *ListingRepository {
	return &ListingRepository{s: s}
}

func listingFields(l *models.Listing) []any {
	return []any{&l.ID, &l.SellerID, &l.StoveID, &l.Price, &l.ListedAt, &l.Status}
}

func (r *ListingRepository) list(ctx context.Context, op, query string, params database.Params) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := r.s.Prepare(query, params).Many(ctx, func(row database.Scanner) error {
		var l models.Listing
		if err := row.Scan(listingFields(&l)...); err != nil {
			return err
		}
		listings = append(listings, &l)
		return nil
	})
	if err != nil {
		return nil, database.Classify(op, fmt.Errorf("failed to get listings: %w", err))
	}
	return listings, nil
}

func (r *ListingRepository) one(ctx context.Context, op, query string, params database.Params) (*models.Listing, error) {
	var l models.Listing
	found, err := r.s.Prepare(query, params).One(ctx, listingFields(&l)...)
	if err != nil {
		return nil, database.Classify(op, fmt.Errorf("failed to get listing: %w", err))
	}
	if !found {
		return nil, nil
	}
	return &l, nil
}

// GetAll returns all listings ordered by id
func (r *ListingRepository) GetAll(ctx context.Context) ([]*models.Listing, error) {
	return r.list(ctx, "listing.get_all", `SELECT `+listingColumns+` FROM Listing ORDER BY id`, nil)
}

// GetByStatus returns listings in the given state, newest first
func (r *ListingRepository) GetByStatus(ctx context.Context, status models.ListingStatus) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM Listing WHERE status = :status ORDER BY listedAt DESC, id DESC`
	return r.list(ctx, "listing.get_by_status", query, database.Params{"status": string(status)})
}

// GetBySeller returns every listing a player has created
func (r *ListingRepository) GetBySeller(ctx context.Context, sellerID int64) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM Listing WHERE sellerId = :sellerId ORDER BY id`
	return r.list(ctx, "listing.get_by_seller", query, database.Params{"sellerId": sellerID})
}

// GetByID retrieves a listing, returning nil if none exists
func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM Listing WHERE id = :id`
	return r.one(ctx, "listing.get", query, database.Params{"id": id})
}

// GetActiveByStove returns the active listing for a stove, if any
func (r *ListingRepository) GetActiveByStove(ctx context.Context, stoveID int64) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM Listing WHERE stoveId = :stoveId AND status = 'active'`
	return r.one(ctx, "listing.get_active", query, database.Params{"stoveId": stoveID})
}

// Create inserts a listing and stores the generated id on l. A second active
// listing for the same stove is rejected by the store.
func (r *ListingRepository) Create(ctx context.Context, l *models.Listing) (bool, int64, error) {
	query := `
		INSERT INTO Listing (sellerId, stoveId, price, listedAt, status)
		VALUES (:sellerId, :stoveId, :price, :listedAt, :status)
	`

	if l.Status == "" {
		l.Status = models.ListingStatusActive
	}
	l.ListedAt = stamp(l.ListedAt)
	ok, id, err := insert(ctx, r.s, query, database.Params{
		"sellerId": l.SellerID,
		"stoveId":  l.StoveID,
		"price":    l.Price,
		"listedAt": l.ListedAt,
		"status":   string(l.Status),
	})
	if err != nil {
		return false, 0, database.Classify("listing.create", fmt.Errorf("failed to create listing for stove %d: %w", l.StoveID, err))
	}

	l.ID = id
	return ok, id, nil
}

// UpdateStatus sets the status of an active listing. Sold and cancelled are
// terminal, so it reports false for those as well as for a missing listing.
func (r *ListingRepository) UpdateStatus(ctx context.Context, id int64, status models.ListingStatus) (bool, error) {
	query := `UPDATE Listing SET status = :status WHERE id = :id AND status = :active`

	ok, err := execOne(ctx, r.s, query, database.Params{
		"id":     id,
		"status": string(status),
		"active": string(models.ListingStatusActive),
	})
	if err != nil {
		return false, database.Classify("listing.update_status", fmt.Errorf("failed to update status for listing %d: %w", id, err))
	}
	return ok, nil
}

// TransitionStatus moves a listing from one status to another. It reports
// false when the listing is missing or no longer in the from state, which is
// how a concurrent buyer or cancel is detected.
func (r *ListingRepository) TransitionStatus(ctx context.Context, id int64, from, to models.ListingStatus) (bool, error) {
	query := `UPDATE Listing SET status = :to WHERE id = :id AND status = :from`

	ok, err := execOne(ctx, r.s, query, database.Params{"id": id, "from": string(from), "to": string(to)})
	if err != nil {
		return false, database.Classify("listing.transition", fmt.Errorf("failed to move listing %d from %s to %s: %w", id, from, to, err))
	}
	return ok, nil
}

// Delete removes a listing
func (r *ListingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execOne(ctx, r.s, `DELETE FROM Listing WHERE id = :id`, database.Params{"id": id})
	if err != nil {
		return false, database.Classify("listing.delete", fmt.Errorf("failed to delete listing %d: %w", id, err))
	}
	return ok, nil
}

// CountByStatus returns how many listings are in the given state
func (r *ListingRepository) CountByStatus(ctx context.Context, status models.ListingStatus) (int64, error) {
	n, err := count(ctx, r.s, `SELECT COUNT(*) FROM Listing WHERE status = :status`, database.Params{"status": string(status)})
	if err != nil {
		return 0, database.Classify("listing.count", fmt.Errorf("failed to count %s listings: %w", status, err))
	}
	return n, nil
}
