package repository

import (
	"context"
	"fmt"

	"stovemarket/database"
	"stovemarket/models"
)

const playerColumns = `id, username, balance, inventoryCount, isAdmin, joinedAt`

// PlayerRepository implements the PlayerRepository interface
type PlayerRepository struct {
	s Session
}

// NewPlayerRepository creates a new player repository on the given session
func NewPlayerRepository(s Session) *PlayerRepository {
	return &PlayerRepository{s: s}
}

func playerFields(p *models.Player) []any {
	return []any{&p.ID, &p.Username, &p.Balance, &p.InventoryCount, &p.IsAdmin, &p.JoinedAt}
}

// GetAll returns all players ordered by id
func (r *PlayerRepository) GetAll(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM Player ORDER BY id`

	var players []*models.Player
	err := r.s.Prepare(query, nil).Many(ctx, func(row database.Scanner) error {
		var p models.Player
		if err := row.Scan(playerFields(&p)...); err != nil {
			return err
		}
		players = append(players, &p)
		return nil
	})
	if err != nil {
		return nil, database.Classify("player.get_all", fmt.Errorf("failed to get players: %w", err))
	}

	return players, nil
}

// GetByID retrieves a player, returning nil if none exists
func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM Player WHERE id = :id`

	var p models.Player
	found, err := r.s.Prepare(query, database.Params{"id": id}).One(ctx, playerFields(&p)...)
	if err != nil {
		return nil, database.Classify("player.get", fmt.Errorf("failed to get player %d: %w", id, err))
	}
	if !found {
		return nil, nil
	}

	return &p, nil
}

// GetByUsername retrieves a player by unique username
func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM Player WHERE username = :username`

	var p models.Player
	found, err := r.s.Prepare(query, database.Params{"username": username}).One(ctx, playerFields(&p)...)
	if err != nil {
		return nil, database.Classify("player.get", fmt.Errorf("failed to get player %q: %w", username, err))
	}
	if !found {
		return nil, nil
	}

	return &p, nil
}

// Create inserts a player and stores the generated id on p
func (r *PlayerRepository) Create(ctx context.Context, p *models.Player) (bool, int64, error) {
	query := `
		INSERT INTO Player (username, balance, inventoryCount, isAdmin, joinedAt)
		VALUES (:username, :balance, :inventoryCount, :isAdmin, :joinedAt)
	`

	p.JoinedAt = stamp(p.JoinedAt)
	ok, id, err := insert(ctx, r.s, query, database.Params{
		"username":       p.Username,
		"balance":        p.Balance,
		"inventoryCount": p.InventoryCount,
		"isAdmin":        p.IsAdmin,
		"joinedAt":       p.JoinedAt,
	})
	if err != nil {
		return false, 0, database.Classify("player.create", fmt.Errorf("failed to create player %q: %w", p.Username, err))
	}

	p.ID = id
	return ok, id, nil
}

// UpdateBalance sets a player's balance
func (r *PlayerRepository) UpdateBalance(ctx context.Context, id int64, balance int64) (bool, error) {
	query := `UPDATE Player SET balance = :balance WHERE id = :id`

	ok, err := execOne(ctx, r.s, query, database.Params{"id": id, "balance": balance})
	if err != nil {
		return false, database.Classify("player.update_balance", fmt.Errorf("failed to update balance for player %d: %w", id, err))
	}
	return ok, nil
}

// AddBalance applies a signed delta to a player's balance. It reports false
// when the player does not exist or the result would be negative.
func (r *PlayerRepository) AddBalance(ctx context.Context, id int64, delta int64) (bool, error) {
	query := `
		UPDATE Player
		SET balance = balance + :delta
		WHERE id = :id AND balance + :delta >= 0
	`

	ok, err := execOne(ctx, r.s, query, database.Params{"id": id, "delta": delta})
	if err != nil {
		return false, database.Classify("player.add_balance", fmt.Errorf("failed to add %d to balance for player %d: %w", delta, id, err))
	}
	return ok, nil
}

// UpdateInventoryCount sets the cached number of stoves a player holds
func (r *PlayerRepository) UpdateInventoryCount(ctx context.Context, id int64, inventoryCount int64) (bool, error) {
	query := `UPDATE Player SET inventoryCount = :inventoryCount WHERE id = :id`

	ok, err := execOne(ctx, r.s, query, database.Params{"id": id, "inventoryCount": inventoryCount})
	if err != nil {
		return false, database.Classify("player.update_inventory", fmt.Errorf("failed to update inventory count for player %d: %w", id, err))
	}
	return ok, nil
}

// IncrementInventoryCount applies a signed delta, never going below zero
func (r *PlayerRepository) IncrementInventoryCount(ctx context.Context, id int64, delta int64) (bool, error) {
	query := `
		UPDATE Player
		SET inventoryCount = inventoryCount + :delta
		WHERE id = :id AND inventoryCount + :delta >= 0
	`

	ok, err := execOne(ctx, r.s, query, database.Params{"id": id, "delta": delta})
	if err != nil {
		return false, database.Classify("player.update_inventory", fmt.Errorf("failed to adjust inventory count for player %d: %w", id, err))
	}
	return ok, nil
}

// SetAdmin grants or revokes operator rights
func (r *PlayerRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) (bool, error) {
	query := `UPDATE Player SET isAdmin = :isAdmin WHERE id = :id`

	ok, err := execOne(ctx, r.s, query, database.Params{"id": id, "isAdmin": isAdmin})
	if err != nil {
		return false, database.Classify("player.set_admin", fmt.Errorf("failed to set admin flag for player %d: %w", id, err))
	}
	return ok, nil
}

// Delete removes a player. Rows that still reference the player make the
// store reject the delete as a constraint violation.
func (r *PlayerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execOne(ctx, r.s, `DELETE FROM Player WHERE id = :id`, database.Params{"id": id})
	if err != nil {
		return false, database.Classify("player.delete", fmt.Errorf("failed to delete player %d: %w", id, err))
	}
	return ok, nil
}

// Count returns the number of players
func (r *PlayerRepository) Count(ctx context.Context) (int64, error) {
	n, err := count(ctx, r.s, `SELECT COUNT(*) FROM Player`, nil)
	if err != nil {
		return 0, database.Classify("player.count", fmt.Errorf("failed to count players: %w", err))
	}
	return n, nil
}
