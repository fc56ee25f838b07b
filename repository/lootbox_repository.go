package repository

import (
	"context"
	"fmt"

	"stovemarket/database"
	"stovemarket/models"
)

// LootboxTypeRepository implements the LootboxTypeRepository interface
type LootboxTypeRepository struct {
	s Session
}

// NewLootboxTypeRepository creates a new lootbox type repository
func NewLootboxTypeRepository(s Session) *LootboxTypeRepository {
	return &LootboxTypeRepository{s: s}
}

func lootboxTypeFields(lt *models.LootboxType) []any {
	return []any{&lt.ID, &lt.Name, &lt.Description, &lt.Price}
}

// GetAll returns every lootbox type ordered by id
func (r *LootboxTypeRepository) GetAll(ctx context.Context) ([]*models.LootboxType, error) {
	var types []*models.LootboxType
	err := r.s.Prepare(`SELECT id, name, description, price FROM LootboxType ORDER BY id`, nil).
		Many(ctx, func(row database.Scanner) error {
			var lt models.LootboxType
			if err := row.Scan(lootboxTypeFields(&lt)...); err != nil {
				return err
			}
			types = append(types, &lt)
			return nil
		})
	if err != nil {
		return nil, database.Classify("lootbox_type.get_all", fmt.Errorf("failed to get lootbox types: %w", err))
	}
	return types, nil
}

// GetByID retrieves a lootbox type, returning nil if none exists
func (r *LootboxTypeRepository) GetByID(ctx context.Context, id int64) (*models.LootboxType, error) {
	var lt models.LootboxType
	found, err := r.s.Prepare(`SELECT id, name, description, price FROM LootboxType WHERE id = :id`, database.Params{"id": id}).
		One(ctx, lootboxTypeFields(&lt)...)
	if err != nil {
		return nil, database.Classify("lootbox_type.get", fmt.Errorf("failed to get lootbox type %d: %w", id, err))
	}
	if !found {
		return nil, nil
	}
	return &lt, nil
}

// Create inserts a lootbox type and stores the generated id on lt
func (r *LootboxTypeRepository) Create(ctx context.Context, lt *models.LootboxType) (bool, int64, error) {
	query := `
		INSERT INTO LootboxType (name, description, price)
		VALUES (:name, :description, :price)
	`

	ok, id, err := insert(ctx, r.s, query, database.Params{
		"name":        lt.Name,
		"description": lt.Description,
		"price":       lt.Price,
	})
	if err != nil {
		return false, 0, database.Classify("lootbox_type.create", fmt.Errorf("failed to create lootbox type %q: %w", lt.Name, err))
	}

	lt.ID = id
	return ok, id, nil
}

// Delete removes a lootbox type
func (r *LootboxTypeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execOne(ctx, r.s, `DELETE FROM LootboxType WHERE id = :id`, database.Params{"id": id})
	if err != nil {
		return false, database.Classify("lootbox_type.delete", fmt.Errorf("failed to delete lootbox type %d: %w", id, err))
	}
	return ok, nil
}

// LootboxRepository implements the LootboxRepository interface
type LootboxRepository struct {
	s Session
}

// NewLootboxRepository creates a new lootbox repository
func NewLootboxRepository(s Session) *LootboxRepository {
	return &LootboxRepository{s: s}
}

func lootboxFields(lb *models.Lootbox) []any {
	return []any{&lb.ID, &lb.PlayerID, &lb.LootboxTypeID, &lb.OpenedAt}
}

func (r *LootboxRepository) list(ctx context.Context, op, query string, params database.Params) ([]*models.Lootbox, error) {
	var boxes []*models.Lootbox
	err := r.s.Prepare(query, params).Many(ctx, func(row database.Scanner) error {
		var lb models.Lootbox
		if err := row.Scan(lootboxFields(&lb)...); err != nil {
			return err
		}
		boxes = append(boxes, &lb)
		return nil
	})
	if err != nil {
		return nil, database.Classify(op, fmt.Errorf("failed to get lootboxes: %w", err))
	}
	return boxes, nil
}

// GetAll returns every opened lootbox ordered by id
func (r *LootboxRepository) GetAll(ctx context.Context) ([]*models.Lootbox, error) {
	return r.list(ctx, "lootbox.get_all", `SELECT id, playerId, lootboxTypeId, openedAt FROM Lootbox ORDER BY id`, nil)
}

// GetByPlayer returns the boxes a player has opened, newest first
func (r *LootboxRepository) GetByPlayer(ctx context.Context, playerID int64) ([]*models.Lootbox, error) {
	query := `SELECT id, playerId, lootboxTypeId, openedAt FROM Lootbox WHERE playerId = :playerId ORDER BY openedAt DESC, id DESC`
	return r.list(ctx, "lootbox.get_by_player", query, database.Params{"playerId": playerID})
}

// GetByID retrieves an opened lootbox, returning nil if none exists
func (r *LootboxRepository) GetByID(ctx context.Context, id int64) (*models.Lootbox, error) {
	var lb models.Lootbox
	found, err := r.s.Prepare(`SELECT id, playerId, lootboxTypeId, openedAt FROM Lootbox WHERE id = :id`, database.Params{"id": id}).
		One(ctx, lootboxFields(&lb)...)
	if err != nil {
		return nil, database.Classify("lootbox.get", fmt.Errorf("failed to get lootbox %d: %w", id, err))
	}
	if !found {
		return nil, nil
	}
	return &lb, nil
}

// Create records an opened lootbox and stores the generated id on lb
func (r *LootboxRepository) Create(ctx context.Context, lb *models.Lootbox) (bool, int64, error) {
	query := `
		INSERT INTO Lootbox (playerId, lootboxTypeId, openedAt)
		VALUES (:playerId, :lootboxTypeId, :openedAt)
	`

	lb.OpenedAt = stamp(lb.OpenedAt)
	ok, id, err := insert(ctx, r.s, query, database.Params{
		"playerId":      lb.PlayerID,
		"lootboxTypeId": lb.LootboxTypeID,
		"openedAt":      lb.OpenedAt,
	})
	if err != nil {
		return false, 0, database.Classify("lootbox.create", fmt.Errorf("failed to record lootbox for player %d: %w", lb.PlayerID, err))
	}

	lb.ID = id
	return ok, id, nil
}

// Delete removes an opened lootbox
func (r *LootboxRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execOne(ctx, r.s, `DELETE FROM Lootbox WHERE id = :id`, database.Params{"id": id})
	if err != nil {
		return false, database.Classify("lootbox.delete", fmt.Errorf("failed to delete lootbox %d: %w", id, err))
	}
	return ok, nil
}

// LootboxDropRepository implements the LootboxDropRepository interface
type LootboxDropRepository struct {
	s Session
}

// NewLootboxDropRepository creates a new lootbox drop repository
func NewLootboxDropRepository(s Session) *LootboxDropRepository {
	return &LootboxDropRepository{s: s}
}

func lootboxDropFields(d *models.LootboxDrop) []any {
	return []any{&d.ID, &d.LootboxID, &d.StoveID}
}

func (r *LootboxDropRepository) one(ctx context.Context, op, query string, params database.Params) (*models.LootboxDrop, error) {
	var d models.LootboxDrop
	found, err := r.s.Prepare(query, params).One(ctx, lootboxDropFields(&d)...)
	if err != nil {
		return nil, database.Classify(op, fmt.Errorf("failed to get lootbox drop: %w", err))
	}
	if !found {
		return nil, nil
	}
	return &d, nil
}

// GetAll returns every drop ordered by id
func (r *LootboxDropRepository) GetAll(ctx context.Context) ([]*models.LootboxDrop, error) {
	var drops []*models.LootboxDrop
	err := r.s.Prepare(`SELECT id, lootboxId, stoveId FROM LootboxDrop ORDER BY id`, nil).
		Many(ctx, func(row database.Scanner) error {
			var d models.LootboxDrop
			if err := row.Scan(lootboxDropFields(&d)...); err != nil {
				return err
			}
			drops = append(drops, &d)
			return nil
		})
	if err != nil {
		return nil, database.Classify("lootbox_drop.get_all", fmt.Errorf("failed to get lootbox drops: %w", err))
	}
	return drops, nil
}

// GetByID retrieves a drop, returning nil if none exists
func (r *LootboxDropRepository) GetByID(ctx context.Context, id int64) (*models.LootboxDrop, error) {
	return r.one(ctx, "lootbox_drop.get", `SELECT id, lootboxId, stoveId FROM LootboxDrop WHERE id = :id`, database.Params{"id": id})
}

// GetByLootbox returns the drop produced by a lootbox, if any
func (r *LootboxDropRepository) GetByLootbox(ctx context.Context, lootboxID int64) (*models.LootboxDrop, error) {
	query := `SELECT id, lootboxId, stoveId FROM LootboxDrop WHERE lootboxId = :lootboxId`
	return r.one(ctx, "lootbox_drop.get_by_lootbox", query, database.Params{"lootboxId": lootboxID})
}

// Create records a drop and stores the generated id on d. Each lootbox and
// each stove appears in at most one drop.
func (r *LootboxDropRepository) Create(ctx context.Context, d *models.LootboxDrop) (bool, int64, error) {
	query := `INSERT INTO LootboxDrop (lootboxId, stoveId) VALUES (:lootboxId, :stoveId)`

	ok, id, err := insert(ctx, r.s, query, database.Params{"lootboxId": d.LootboxID, "stoveId": d.StoveID})
	if err != nil {
		return false, 0, database.Classify("lootbox_drop.create", fmt.Errorf("failed to record drop of stove %d from lootbox %d: %w", d.StoveID, d.LootboxID, err))
	}

	d.ID = id
	return ok, id, nil
}

// Delete removes a drop
func (r *LootboxDropRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execOne(ctx, r.s, `DELETE FROM LootboxDrop WHERE id = :id`, database.Params{"id": id})
	if err != nil {
		return false, database.Classify("lootbox_drop.delete", fmt.Errorf("failed to delete lootbox drop %d: %w", id, err))
	}
	return ok, nil
}
