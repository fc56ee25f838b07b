package repository

import (
	"context"
	"fmt"

	"stovemarket/database"
	"stovemarket/models"
)

const stoveColumns = `id, typeId, currentOwnerId, mintedAt`

// StoveRepository implements the StoveRepository interface
type StoveRepository struct {
	s Session
}

// NewStoveRepository creates a new stove repository
func NewStoveRepository(s Session) *StoveRepository {
	return &StoveRepository{s: s}
}

func stoveFields(st *models.Stove) []any {
	return []any{&st.ID, &st.TypeID, &st.CurrentOwnerID, &st.MintedAt}
}

func (r *StoveRepository) list(ctx context.Context, op, query string, params database.Params) ([]*models.Stove, error) {
	var stoves []*models.Stove
	err := r.s.Prepare(query, params).Many(ctx, func(row database.Scanner) error {
		var st models.Stove
		if err := row.Scan(stoveFields(&st)...); err != nil {
			return err
		}
		stoves = append(stoves, &st)
		return nil
	})
	if err != nil {
		return nil, database.Classify(op, fmt.Errorf("failed to get stoves: %w", err))
	}
	return stoves, nil
}

// GetAll returns all stoves ordered by id
func (r *StoveRepository) GetAll(ctx context.Context) ([]*models.Stove, error) {
	return r.list(ctx, "stove.get_all", `SELECT `+stoveColumns+` FROM Stove ORDER BY id`, nil)
}

// GetByOwner returns the stoves a player currently owns
func (r *StoveRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Stove, error) {
	query := `SELECT ` + stoveColumns + ` FROM Stove WHERE currentOwnerId = :ownerId ORDER BY id`
	return r.list(ctx, "stove.get_by_owner", query, database.Params{"ownerId": ownerID})
}

// GetByType returns every stove minted from a catalog entry
func (r *StoveRepository) GetByType(ctx context.Context, typeID int64) ([]*models.Stove, error) {
	query := `SELECT ` + stoveColumns + ` FROM Stove WHERE typeId = :typeId ORDER BY id`
	return r.list(ctx, "stove.get_by_type", query, database.Params{"typeId": typeID})
}

// GetByID retrieves a stove, returning nil if none exists
func (r *StoveRepository) GetByID(ctx context.Context, id int64) (*models.Stove, error) {
	query := `SELECT ` + stoveColumns + ` FROM Stove WHERE id = :id`

	var st models.Stove
	found, err := r.s.Prepare(query, database.Params{"id": id}).One(ctx, stoveFields(&st)...)
	if err != nil {
		return nil, database.Classify("stove.get", fmt.Errorf("failed to get stove %d: %w", id, err))
	}
	if !found {
		return nil, nil
	}
	return &st, nil
}

// Create mints a stove and stores the generated id on st
func (r *StoveRepository) Create(ctx context.Context, st *models.Stove) (bool, int64, error) {
	query := `
		INSERT INTO Stove (typeId, currentOwnerId, mintedAt)
		VALUES (:typeId, :ownerId, :mintedAt)
	`

	st.MintedAt = stamp(st.MintedAt)
	ok, id, err := insert(ctx, r.s, query, database.Params{
		"typeId":   st.TypeID,
		"ownerId":  st.CurrentOwnerID,
		"mintedAt": st.MintedAt,
	})
	if err != nil {
		return false, 0, database.Classify("stove.create", fmt.Errorf("failed to mint stove of type %d: %w", st.TypeID, err))
	}

	st.ID = id
	return ok, id, nil
}

// UpdateOwner transfers a stove to a new owner
func (r *StoveRepository) UpdateOwner(ctx context.Context, id int64, ownerID int64) (bool, error) {
	query := `UPDATE Stove SET currentOwnerId = :ownerId WHERE id = :id`

	ok, err := execOne(ctx, r.s, query, database.Params{"id": id, "ownerId": ownerID})
	if err != nil {
		return false, database.Classify("stove.update_owner", fmt.Errorf("failed to transfer stove %d to player %d: %w", id, ownerID, err))
	}
	return ok, nil
}

// Delete removes a stove
func (r *StoveRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execOne(ctx, r.s, `DELETE FROM Stove WHERE id = :id`, database.Params{"id": id})
	if err != nil {
		return false, database.Classify("stove.delete", fmt.Errorf("failed to delete stove %d: %w", id, err))
	}
	return ok, nil
}

// CountByType returns how many stoves of a type have been minted
func (r *StoveRepository) CountByType(ctx context.Context, typeID int64) (int64, error) {
	n, err := count(ctx, r.s, `SELECT COUNT(*) FROM Stove WHERE typeId = :typeId`, database.Params{"typeId": typeID})
	if err != nil {
		return 0, database.Classify("stove.count", fmt.Errorf("failed to count stoves of type %d: %w", typeID, err))
	}
	return n, nil
}
