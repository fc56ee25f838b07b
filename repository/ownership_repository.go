package repository

import (
	"context"
	"fmt"

	"stovemarket/database"
	"stovemarket/models"
)

const ownershipColumns = `id, stoveId, playerId, acquiredAt, acquiredHow`

// OwnershipRepository implements the OwnershipRepository interface. The
// history is append-only: there is no update method.
type OwnershipRepository struct {
	s Session
}

// NewOwnershipRepository creates a new ownership repository
func NewOwnershipRepository(s Session) *OwnershipRepository {
	return &OwnershipRepository{s: s}
}

func ownershipFields(o *models.Ownership) []any {
	return []any{&o.ID, &o.StoveID, &o.PlayerID, &o.AcquiredAt, &o.AcquiredHow}
}

func (r *OwnershipRepository) list(ctx context.Context, op, query string, params database.Params) ([]*models.Ownership, error) {
	var history []*models.Ownership
	err := r.s.Prepare(query, params).Many(ctx, func(row database.Scanner) error {
		var o models.Ownership
		if err := row.Scan(ownershipFields(&o)...); err != nil {
			return err
		}
		history = append(history, &o)
		return nil
	})
	if err != nil {
		return nil, database.Classify(op, fmt.Errorf("failed to get ownership history: %w", err))
	}
	return history, nil
}

// GetAll returns every ownership record ordered by id
func (r *OwnershipRepository) GetAll(ctx context.Context) ([]*models.Ownership, error) {
	return r.list(ctx, "ownership.get_all", `SELECT `+ownershipColumns+` FROM Ownership ORDER BY id`, nil)
}

// GetByStove returns a stove's ownership history, oldest first
func (r *OwnershipRepository) GetByStove(ctx context.Context, stoveID int64) ([]*models.Ownership, error) {
	query := `SELECT ` + ownershipColumns + ` FROM Ownership WHERE stoveId = :stoveId ORDER BY acquiredAt, id`
	return r.list(ctx, "ownership.get_by_stove", query, database.Params{"stoveId": stoveID})
}

// GetByPlayer returns every acquisition made by a player
func (r *OwnershipRepository) GetByPlayer(ctx context.Context, playerID int64) ([]*models.Ownership, error) {
	query := `SELECT ` + ownershipColumns + ` FROM Ownership WHERE playerId = :playerId ORDER BY acquiredAt, id`
	return r.list(ctx, "ownership.get_by_player", query, database.Params{"playerId": playerID})
}

// GetByID retrieves an ownership record, returning nil if none exists
func (r *OwnershipRepository) GetByID(ctx context.Context, id int64) (*models.Ownership, error) {
	query := `SELECT ` + ownershipColumns + ` FROM Ownership WHERE id = :id`

	var o models.Ownership
	found, err := r.s.Prepare(query, database.Params{"id": id}).One(ctx, ownershipFields(&o)...)
	if err != nil {
		return nil, database.Classify("ownership.get", fmt.Errorf("failed to get ownership %d: %w", id, err))
	}
	if !found {
		return nil, nil
	}
	return &o, nil
}

// GetCurrentByStove returns the latest acquisition of a stove
func (r *OwnershipRepository) GetCurrentByStove(ctx context.Context, stoveID int64) (*models.Ownership, error) {
	query := `
		SELECT ` + ownershipColumns + `
		FROM Ownership
		WHERE stoveId = :stoveId
		ORDER BY acquiredAt DESC, id DESC
		LIMIT 1
	`

	var o models.Ownership
	found, err := r.s.Prepare(query, database.Params{"stoveId": stoveID}).One(ctx, ownershipFields(&o)...)
	if err != nil {
		return nil, database.Classify("ownership.get_current", fmt.Errorf("failed to get current owner of stove %d: %w", stoveID, err))
	}
	if !found {
		return nil, nil
	}
	return &o, nil
}

// Create appends an ownership record and stores the generated id on o
func (r *OwnershipRepository) Create(ctx context.Context, o *models.Ownership) (bool, int64, error) {
	query := `
		INSERT INTO Ownership (stoveId, playerId, acquiredAt, acquiredHow)
		VALUES (:stoveId, :playerId, :acquiredAt, :acquiredHow)
	`

	o.AcquiredAt = stamp(o.AcquiredAt)
	ok, id, err := insert(ctx, r.s, query, database.Params{
		"stoveId":     o.StoveID,
		"playerId":    o.PlayerID,
		"acquiredAt":  o.AcquiredAt,
		"acquiredHow": string(o.AcquiredHow),
	})
	if err != nil {
		return false, 0, database.Classify("ownership.create", fmt.Errorf("failed to record ownership of stove %d by player %d: %w", o.StoveID, o.PlayerID, err))
	}

	o.ID = id
	return ok, id, nil
}

// Delete removes an ownership record
func (r *OwnershipRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execOne(ctx, r.s, `DELETE FROM Ownership WHERE id = :id`, database.Params{"id": id})
	if err != nil {
		return false, database.Classify("ownership.delete", fmt.Errorf("failed to delete ownership %d: %w", id, err))
	}
	return ok, nil
}
