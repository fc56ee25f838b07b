package repository

import (
	"context"
	"fmt"

	"stovemarket/database"
	"stovemarket/events"
	"stovemarket/service"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db       *database.DB
	readOnly bool
	uow      *database.UnitOfWork

	transactionalBus *events.TransactionalBus

	playerRepo       service.PlayerRepository
	stoveTypeRepo    service.StoveTypeRepository
	stoveRepo        service.StoveRepository
	listingRepo      service.ListingRepository
	ownershipRepo    service.OwnershipRepository
	priceHistoryRepo service.PriceHistoryRepository
	tradeRepo        service.TradeRepository
	lootboxTypeRepo  service.LootboxTypeRepository
	lootboxRepo      service.LootboxRepository
	lootboxDropRepo  service.LootboxDropRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Events published
// inside a unit reach eventBus after it commits; eventBus may be nil.
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create(readOnly bool) service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		readOnly:         readOnly,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin borrows a connection and binds every repository to it
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.uow != nil {
		return fmt.Errorf("unit of work already started")
	}

	uow, err := u.db.NewUnitOfWork(ctx, u.readOnly)
	if err != nil {
		return err
	}
	u.uow = uow

	u.playerRepo = NewPlayerRepository(uow)
	u.stoveTypeRepo = NewStoveTypeRepository(uow)
	u.stoveRepo = NewStoveRepository(uow)
	u.listingRepo = NewListingRepository(uow)
	u.ownershipRepo = NewOwnershipRepository(uow)
	u.priceHistoryRepo = NewPriceHistoryRepository(uow)
	u.tradeRepo = NewTradeRepository(uow)
	u.lootboxTypeRepo = NewLootboxTypeRepository(uow)
	u.lootboxRepo = NewLootboxRepository(uow)
	u.lootboxDropRepo = NewLootboxDropRepository(uow)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.uow == nil {
		return fmt.Errorf("no transaction to commit")
	}
	if err := u.uow.Commit(); err != nil {
		u.transactionalBus.Discard()
		return err
	}

	// Flush pending events after successful commit
	u.transactionalBus.Flush()
	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	u.transactionalBus.Discard()
	if u.uow == nil {
		return nil // Nothing to rollback
	}
	return u.uow.Rollback()
}

func (u *unitOfWork) mustBegin() {
	if u.uow == nil {
		panic("unit of work not started - call Begin() first")
	}
}

// PlayerRepository returns the player repository for this unit of work
func (u *unitOfWork) PlayerRepository() service.PlayerRepository {
	u.mustBegin()
	return u.playerRepo
}

// StoveTypeRepository returns the stove type repository for this unit of work
func (u *unitOfWork) StoveTypeRepository() service.StoveTypeRepository {
	u.mustBegin()
	return u.stoveTypeRepo
}

// StoveRepository returns the stove repository for this unit of work
func (u *unitOfWork) StoveRepository() service.StoveRepository {
	u.mustBegin()
	return u.stoveRepo
}

// ListingRepository returns the listing repository for this unit of work
func (u *unitOfWork) ListingRepository() service.ListingRepository {
	u.mustBegin()
	return u.listingRepo
}

// OwnershipRepository returns the ownership repository for this unit of work
func (u *unitOfWork) OwnershipRepository() service.OwnershipRepository {
	u.mustBegin()
	return u.ownershipRepo
}

// PriceHistoryRepository returns the price history repository for this unit of work
func (u *unitOfWork) PriceHistoryRepository() service.PriceHistoryRepository {
	u.mustBegin()
	return u.priceHistoryRepo
}

// TradeRepository returns the trade repository for this unit of work
func (u *unitOfWork) TradeRepository() service.TradeRepository {
	u.mustBegin()
	return u.tradeRepo
}

// LootboxTypeRepository returns the lootbox type repository for this unit of work
func (u *unitOfWork) LootboxTypeRepository() service.LootboxTypeRepository {
	u.mustBegin()
	return u.lootboxTypeRepo
}

// LootboxRepository returns the lootbox repository for this unit of work
func (u *unitOfWork) LootboxRepository() service.LootboxRepository {
	u.mustBegin()
	return u.lootboxRepo
}

// LootboxDropRepository returns the lootbox drop repository for this unit of work
func (u *unitOfWork) LootboxDropRepository() service.LootboxDropRepository {
	u.mustBegin()
	return u.lootboxDropRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}
