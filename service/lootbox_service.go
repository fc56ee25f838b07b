package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	log "github.com/sirupsen/logrus"

	"stovemarket/apperr"
	"stovemarket/events"
	"stovemarket/models"
)

type lootboxService struct {
	uowFactory UnitOfWorkFactory
	roll       func(n int64) int64 // uniform in [0, n)
}

// NewLootboxService creates a new lootbox service
func NewLootboxService(uowFactory UnitOfWorkFactory) LootboxService {
	return &lootboxService{
		uowFactory: uowFactory,
		roll:       rand.Int64N,
	}
}

func (s *lootboxService) OpenLootbox(ctx context.Context, playerID, lootboxTypeID int64) (*models.LootboxResult, error) {
	const op = "lootbox.open"

	uow := s.uowFactory.Create(false)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	player, err := uow.PlayerRepository().GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, apperr.NotFound(op, "player %d not found", playerID)
	}

	boxType, err := uow.LootboxTypeRepository().GetByID(ctx, lootboxTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lootbox type: %w", err)
	}
	if boxType == nil {
		return nil, apperr.NotFound(op, "lootbox type %d not found", lootboxTypeID)
	}

	if !player.CanAfford(boxType.Price) {
		return nil, apperr.InvalidOperation(op, "insufficient balance: have %d, need %d", player.Balance, boxType.Price)
	}

	catalog, err := uow.StoveTypeRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stove catalog: %w", err)
	}
	stoveType := pickStoveType(catalog, s.roll)
	if stoveType == nil {
		return nil, apperr.InvalidState(op, "stove catalog is empty")
	}

	if boxType.Price > 0 {
		paid, err := uow.PlayerRepository().AddBalance(ctx, playerID, -boxType.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to charge for lootbox: %w", err)
		}
		if !paid {
			return nil, apperr.InvalidOperation(op, "insufficient balance for lootbox %d", lootboxTypeID)
		}
		player.Balance -= boxType.Price
	}

	now := time.Now().UTC()

	box := &models.Lootbox{
		PlayerID:      playerID,
		LootboxTypeID: lootboxTypeID,
		OpenedAt:      now,
	}
	if ok, _, err := uow.LootboxRepository().Create(ctx, box); err != nil {
		return nil, fmt.Errorf("failed to record lootbox: %w", err)
	} else if !ok {
		return nil, apperr.New(apperr.KindResourceFault, op, "lootbox row not written")
	}

	stove := &models.Stove{
		TypeID:         stoveType.ID,
		CurrentOwnerID: playerID,
		MintedAt:       now,
	}
	if ok, _, err := uow.StoveRepository().Create(ctx, stove); err != nil {
		return nil, fmt.Errorf("failed to mint stove: %w", err)
	} else if !ok {
		return nil, apperr.New(apperr.KindResourceFault, op, "stove row not written")
	}

	ownership := &models.Ownership{
		StoveID:     stove.ID,
		PlayerID:    playerID,
		AcquiredAt:  now,
		AcquiredHow: models.AcquiredHowLootbox,
	}
	if ok, _, err := uow.OwnershipRepository().Create(ctx, ownership); err != nil {
		return nil, fmt.Errorf("failed to record ownership: %w", err)
	} else if !ok {
		return nil, apperr.New(apperr.KindResourceFault, op, "ownership row not written")
	}

	drop := &models.LootboxDrop{
		LootboxID: box.ID,
		StoveID:   stove.ID,
	}
	if ok, _, err := uow.LootboxDropRepository().Create(ctx, drop); err != nil {
		return nil, fmt.Errorf("failed to record lootbox drop: %w", err)
	} else if !ok {
		return nil, apperr.New(apperr.KindResourceFault, op, "lootbox drop row not written")
	}

	counted, err := uow.PlayerRepository().IncrementInventoryCount(ctx, playerID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory count: %w", err)
	}
	if !counted {
		return nil, apperr.NotFound(op, "player %d not found", playerID)
	}
	player.InventoryCount++

	uow.EventBus().Publish(events.LootboxOpenedEvent{
		LootboxID: box.ID,
		PlayerID:  playerID,
		StoveID:   stove.ID,
		TypeID:    stoveType.ID,
		Rarity:    stoveType.Rarity,
		Cost:      boxType.Price,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"player_id":  playerID,
		"lootbox_id": box.ID,
		"stove_id":   stove.ID,
		"stove_type": stoveType.Name,
		"rarity":     stoveType.Rarity,
	}).Info("Lootbox opened")

	return &models.LootboxResult{
		Lootbox:   box,
		Drop:      drop,
		Stove:     stove,
		StoveType: stoveType,
		Player:    player,
	}, nil
}

// pickStoveType selects a catalog entry with probability proportional to its
// drop weight. Entries with a non-positive weight never drop.
func pickStoveType(catalog []*models.StoveType, roll func(n int64) int64) *models.StoveType {
	var total int64
	for _, st := range catalog {
		if st.DropWeight > 0 {
			total += st.DropWeight
		}
	}
	if total == 0 {
		return nil
	}

	n := roll(total)
	for _, st := range catalog {
		if st.DropWeight <= 0 {
			continue
		}
		if n < st.DropWeight {
			return st
		}
		n -= st.DropWeight
	}
	return nil
}
