package service

import (
	"context"

	"stovemarket/events"
	"stovemarket/models"
)

// Lookups return (nil, nil) when the row does not exist. Create returns
// (inserted, id, err) and sets the id on the passed model. Update and Delete
// return true only when exactly one row changed.

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	GetAll(ctx context.Context) ([]*models.Player, error)
	GetByID(ctx context.Context, id int64) (*models.Player, error)
	GetByUsername(ctx context.Context, username string) (*models.Player, error)
	Create(ctx context.Context, player *models.Player) (bool, int64, error)

	// UpdateBalance sets a player's balance
	UpdateBalance(ctx context.Context, id int64, balance int64) (bool, error)

	// AddBalance applies a signed delta, failing (false) if the balance would go negative
	AddBalance(ctx context.Context, id int64, delta int64) (bool, error)

	UpdateInventoryCount(ctx context.Context, id int64, inventoryCount int64) (bool, error)
	IncrementInventoryCount(ctx context.Context, id int64, delta int64) (bool, error)
	SetAdmin(ctx context.Context, id int64, isAdmin bool) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// StoveTypeRepository defines the interface for catalog data access
type StoveTypeRepository interface {
	GetAll(ctx context.Context) ([]*models.StoveType, error)
	GetByID(ctx context.Context, id int64) (*models.StoveType, error)
	GetByName(ctx context.Context, name string) (*models.StoveType, error)
	GetByRarity(ctx context.Context, rarity models.Rarity) ([]*models.StoveType, error)
	Create(ctx context.Context, stoveType *models.StoveType) (bool, int64, error)
	UpdateDropWeight(ctx context.Context, id int64, dropWeight int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// StoveRepository defines the interface for stove data access
type StoveRepository interface {
	GetAll(ctx context.Context) ([]*models.Stove, error)
	GetByID(ctx context.Context, id int64) (*models.Stove, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.Stove, error)
	GetByType(ctx context.Context, typeID int64) ([]*models.Stove, error)

	// Create mints a new stove
	Create(ctx context.Context, stove *models.Stove) (bool, int64, error)

	// UpdateOwner transfers a stove to a new owner
	UpdateOwner(ctx context.Context, id int64, ownerID int64) (bool, error)

	Delete(ctx context.Context, id int64) (bool, error)
	CountByType(ctx context.Context, typeID int64) (int64, error)
}

// ListingRepository defines the interface for listing data access
type ListingRepository interface {
	GetAll(ctx context.Context) ([]*models.Listing, error)
	GetByID(ctx context.Context, id int64) (*models.Listing, error)
	GetByStatus(ctx context.Context, status models.ListingStatus) ([]*models.Listing, error)
	GetBySeller(ctx context.Context, sellerID int64) ([]*models.Listing, error)
	GetActiveByStove(ctx context.Context, stoveID int64) (*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) (bool, int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.ListingStatus) (bool, error)

	// TransitionStatus updates the status only if it currently equals from
	TransitionStatus(ctx context.Context, id int64, from, to models.ListingStatus) (bool, error)

	Delete(ctx context.Context, id int64) (bool, error)
	CountByStatus(ctx context.Context, status models.ListingStatus) (int64, error)
}

// OwnershipRepository defines the interface for the append-only ownership history
type OwnershipRepository interface {
	GetAll(ctx context.Context) ([]*models.Ownership, error)
	GetByID(ctx context.Context, id int64) (*models.Ownership, error)

	// GetByStove returns the history of a stove, oldest first
	GetByStove(ctx context.Context, stoveID int64) ([]*models.Ownership, error)

	// GetCurrentByStove returns the most recent acquisition of a stove
	GetCurrentByStove(ctx context.Context, stoveID int64) (*models.Ownership, error)

	GetByPlayer(ctx context.Context, playerID int64) ([]*models.Ownership, error)
	Create(ctx context.Context, ownership *models.Ownership) (bool, int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// PriceHistoryRepository defines the interface for sale price records
type PriceHistoryRepository interface {
	GetAll(ctx context.Context) ([]*models.PriceHistory, error)
	GetByID(ctx context.Context, id int64) (*models.PriceHistory, error)
	GetByType(ctx context.Context, typeID int64) ([]*models.PriceHistory, error)
	Create(ctx context.Context, entry *models.PriceHistory) (bool, int64, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// GetStats returns count, average, min, max and median sale price for a type
	GetStats(ctx context.Context, typeID int64) (*models.PriceStats, error)
}

// TradeRepository defines the interface for trade data access
type TradeRepository interface {
	GetAll(ctx context.Context) ([]*models.Trade, error)
	GetByID(ctx context.Context, id int64) (*models.Trade, error)
	GetByListing(ctx context.Context, listingID int64) (*models.Trade, error)
	GetByBuyer(ctx context.Context, buyerID int64) ([]*models.Trade, error)
	Create(ctx context.Context, trade *models.Trade) (bool, int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// LootboxTypeRepository defines the interface for lootbox catalog access
type LootboxTypeRepository interface {
	GetAll(ctx context.Context) ([]*models.LootboxType, error)
	GetByID(ctx context.Context, id int64) (*models.LootboxType, error)
	Create(ctx context.Context, lootboxType *models.LootboxType) (bool, int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// LootboxRepository defines the interface for opened lootbox records
type LootboxRepository interface {
	GetAll(ctx context.Context) ([]*models.Lootbox, error)
	GetByID(ctx context.Context, id int64) (*models.Lootbox, error)
	GetByPlayer(ctx context.Context, playerID int64) ([]*models.Lootbox, error)
	Create(ctx context.Context, lootbox *models.Lootbox) (bool, int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// LootboxDropRepository defines the interface for lootbox drop records
type LootboxDropRepository interface {
	GetAll(ctx context.Context) ([]*models.LootboxDrop, error)
	GetByID(ctx context.Context, id int64) (*models.LootboxDrop, error)
	GetByLootbox(ctx context.Context, lootboxID int64) (*models.LootboxDrop, error)
	Create(ctx context.Context, drop *models.LootboxDrop) (bool, int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// TradeService defines the interface for marketplace purchases
type TradeService interface {
	// ExecuteTrade sells an active listing to buyerID atomically
	ExecuteTrade(ctx context.Context, listingID, buyerID int64) (*models.TradeResult, error)
}

// ListingService defines the interface for listing lifecycle operations
type ListingService interface {
	// CreateListing puts a stove the seller owns up for sale
	CreateListing(ctx context.Context, sellerID, stoveID, price int64) (*models.Listing, error)

	// CancelListing withdraws an active listing; only its seller or an admin may do so
	CancelListing(ctx context.Context, listingID, playerID int64) (*models.Listing, error)
}

// LootboxService defines the interface for opening lootboxes
type LootboxService interface {
	OpenLootbox(ctx context.Context, playerID, lootboxTypeID int64) (*models.LootboxResult, error)
}

// StatsService defines the interface for read-only market statistics
type StatsService interface {
	GetPriceStats(ctx context.Context, typeID int64) (*models.PriceStats, error)
	GetMarketOverview(ctx context.Context) (*models.MarketOverview, error)
}

// CatalogService defines the interface for catalog and player administration
type CatalogService interface {
	RegisterPlayer(ctx context.Context, username string) (*models.Player, error)
	CreateStoveType(ctx context.Context, stoveType *models.StoveType) (*models.StoveType, error)
	CreateLootboxType(ctx context.Context, lootboxType *models.LootboxType) (*models.LootboxType, error)
	DeletePlayer(ctx context.Context, playerID int64) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations.
// Every repository handed out by one unit shares its connection and
// transaction.
type UnitOfWork interface {
	// Begin acquires a connection and, for read-write units, starts a transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction; it is a no-op once committed
	Commit() error

	// Rollback rolls back the transaction; it is a no-op once completed
	Rollback() error

	// Repository getters
	PlayerRepository() PlayerRepository
	StoveTypeRepository() StoveTypeRepository
	StoveRepository() StoveRepository
	ListingRepository() ListingRepository
	OwnershipRepository() OwnershipRepository
	PriceHistoryRepository() PriceHistoryRepository
	TradeRepository() TradeRepository
	LootboxTypeRepository() LootboxTypeRepository
	LootboxRepository() LootboxRepository
	LootboxDropRepository() LootboxDropRepository

	// EventBus queues events that are emitted only if the unit commits
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create returns an unstarted unit; readOnly units never open a transaction
	Create(readOnly bool) UnitOfWork
}
