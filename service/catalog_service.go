package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"stovemarket/apperr"
	"stovemarket/events"
	"stovemarket/models"
)

// catalogService implements the CatalogService interface
type catalogService struct {
	uowFactory      UnitOfWorkFactory
	startingBalance int64
}

// NewCatalogService creates a new catalog service. New players are
// credited startingBalance.
func NewCatalogService(uowFactory UnitOfWorkFactory, startingBalance int64) CatalogService {
	return &catalogService{
		uowFactory:      uowFactory,
		startingBalance: startingBalance,
	}
}

func (s *catalogService) RegisterPlayer(ctx context.Context, username string) (*models.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.InvalidOperation("player.register", "username must not be empty")
	}

	uow := s.uowFactory.Create(false)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Database unique constraint on username prevents duplicate players
	player := &models.Player{
		Username: username,
		Balance:  s.startingBalance,
		JoinedAt: time.Now().UTC(),
	}
	if _, _, err := uow.PlayerRepository().Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	uow.EventBus().Publish(events.PlayerRegisteredEvent{
		PlayerID:       player.ID,
		Username:       player.Username,
		InitialBalance: player.Balance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"player_id": player.ID,
		"username":  username,
	}).Info("Player registered")

	return player, nil
}

func (s *catalogService) CreateStoveType(ctx context.Context, stoveType *models.StoveType) (*models.StoveType, error) {
	const op = "stove_type.create"

	if strings.TrimSpace(stoveType.Name) == "" {
		return nil, apperr.InvalidOperation(op, "name must not be empty")
	}
	if !stoveType.Rarity.Valid() {
		return nil, apperr.InvalidOperation(op, "unknown rarity %q", stoveType.Rarity)
	}
	if stoveType.DropWeight <= 0 {
		return nil, apperr.InvalidOperation(op, "drop weight must be positive, got %d", stoveType.DropWeight)
	}

	uow := s.uowFactory.Create(false)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if _, _, err := uow.StoveTypeRepository().Create(ctx, stoveType); err != nil {
		return nil, fmt.Errorf("failed to create stove type: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stoveType, nil
}

func (s *catalogService) CreateLootboxType(ctx context.Context, lootboxType *models.LootboxType) (*models.LootboxType, error) {
	const op = "lootbox_type.create"

	if strings.TrimSpace(lootboxType.Name) == "" {
		return nil, apperr.InvalidOperation(op, "name must not be empty")
	}
	if lootboxType.Price < 0 {
		return nil, apperr.InvalidOperation(op, "price must not be negative, got %d", lootboxType.Price)
	}

	uow := s.uowFactory.Create(false)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if _, _, err := uow.LootboxTypeRepository().Create(ctx, lootboxType); err != nil {
		return nil, fmt.Errorf("failed to create lootbox type: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return lootboxType, nil
}

// DeletePlayer removes a player. Players that still own stoves or appear in
// listings, trades or history are refused by the store with a constraint
// violation.
func (s *catalogService) DeletePlayer(ctx context.Context, playerID int64) error {
	uow := s.uowFactory.Create(false)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	deleted, err := uow.PlayerRepository().Delete(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if !deleted {
		return apperr.NotFound("player.delete", "player %d not found", playerID)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("player_id", playerID).Info("Player deleted")
	return nil
}
