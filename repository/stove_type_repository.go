package repository

import (
	"context"
	"fmt"

	"stovemarket/database"
	"stovemarket/models"
)

const stoveTypeColumns = `id, name, imageRef, rarity, dropWeight`

// StoveTypeRepository implements the StoveTypeRepository interface
type StoveTypeRepository struct {
	s Session
}

// NewStoveTypeRepository creates a new stove type repository
func NewStoveTypeRepository(s Session) *StoveTypeRepository {
	return &StoveTypeRepository{s: s}
}

func stoveTypeFields(st *models.StoveType) []any {
	return []any{&st.ID, &st.Name, &st.ImageRef, &st.Rarity, &st.DropWeight}
}

func (r *StoveTypeRepository) list(ctx context.Context, op, query string, params database.Params) ([]*models.StoveType, error) {
	var types []*models.StoveType
	err := r.s.Prepare(query, params).Many(ctx, func(row database.Scanner) error {
		var st models.StoveType
		if err := row.Scan(stoveTypeFields(&st)...); err != nil {
			return err
		}
		types = append(types, &st)
		return nil
	})
	if err != nil {
		return nil, database.Classify(op, fmt.Errorf("failed to get stove types: %w", err))
	}
	return types, nil
}

// GetAll returns the whole catalog ordered by id
func (r *StoveTypeRepository) GetAll(ctx context.Context) ([]*models.StoveType, error) {
	return r.list(ctx, "stove_type.get_all", `SELECT `+stoveTypeColumns+` FROM StoveType ORDER BY id`, nil)
}

// GetByRarity returns the catalog entries of one rarity tier
func (r *StoveTypeRepository) GetByRarity(ctx context.Context, rarity models.Rarity) ([]*models.StoveType, error) {
	query := `SELECT ` + stoveTypeColumns + ` FROM StoveType WHERE rarity = :rarity ORDER BY id`
	return r.list(ctx, "stove_type.get_by_rarity", query, database.Params{"rarity": string(rarity)})
}

// GetByID retrieves a stove type, returning nil if none exists
func (r *StoveTypeRepository) GetByID(ctx context.Context, id int64) (*models.StoveType, error) {
	query := `SELECT ` + stoveTypeColumns + ` FROM StoveType WHERE id = :id`

	var st models.StoveType
	found, err := r.s.Prepare(query, database.Params{"id": id}).One(ctx, stoveTypeFields(&st)...)
	if err != nil {
		return nil, database.Classify("stove_type.get", fmt.Errorf("failed to get stove type %d: %w", id, err))
	}
	if !found {
		return nil, nil
	}
	return &st, nil
}

// GetByName retrieves a stove type by its unique name
func (r *StoveTypeRepository) GetByName(ctx context.Context, name string) (*models.StoveType, error) {
	query := `SELECT ` + stoveTypeColumns + ` FROM StoveType WHERE name = :name`

	var st models.StoveType
	found, err := r.s.Prepare(query, database.Params{"name": name}).One(ctx, stoveTypeFields(&st)...)
	if err != nil {
		return nil, database.Classify("stove_type.get", fmt.Errorf("failed to get stove type %q: %w", name, err))
	}
	if !found {
		return nil, nil
	}
	return &st, nil
}

// Create inserts a catalog entry and stores the generated id on st
func (r *StoveTypeRepository) Create(ctx context.Context, st *models.StoveType) (bool, int64, error) {
	query := `
		INSERT INTO StoveType (name, imageRef, rarity, dropWeight)
		VALUES (:name, :imageRef, :rarity, :dropWeight)
	`

	ok, id, err := insert(ctx, r.s, query, database.Params{
		"name":       st.Name,
		"imageRef":   st.ImageRef,
		"rarity":     string(st.Rarity),
		"dropWeight": st.DropWeight,
	})
	if err != nil {
		return false, 0, database.Classify("stove_type.create", fmt.Errorf("failed to create stove type %q: %w", st.Name, err))
	}

	st.ID = id
	return ok, id, nil
}

// UpdateDropWeight changes how often the type drops from lootboxes
func (r *StoveTypeRepository) UpdateDropWeight(ctx context.Context, id int64, dropWeight int64) (bool, error) {
	query := `UPDATE StoveType SET dropWeight = :dropWeight WHERE id = :id`

	ok, err := execOne(ctx, r.s, query, database.Params{"id": id, "dropWeight": dropWeight})
	if err != nil {
		return false, database.Classify("stove_type.update_drop_weight", fmt.Errorf("failed to update drop weight for stove type %d: %w", id, err))
	}
	return ok, nil
}

// Delete removes a catalog entry
func (r *StoveTypeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execOne(ctx, r.s, `DELETE FROM StoveType WHERE id = :id`, database.Params{"id": id})
	if err != nil {
		return false, database.Classify("stove_type.delete", fmt.Errorf("failed to delete stove type %d: %w", id, err))
	}
	return ok, nil
}

// Count returns the number of catalog entries
func (r *StoveTypeRepository) Count(ctx context.Context) (int64, error) {
	n, err := count(ctx, r.s, `SELECT COUNT(*) FROM StoveType`, nil)
	if err != nil {
		return 0, database.Classify("stove_type.count", fmt.Errorf("failed to count stove types: %w", err))
	}
	return n, nil
}
