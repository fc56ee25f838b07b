package service

import (
	"context"

	"stovemarket/events"
	"stovemarket/models"

	"github.com/stretchr/testify/mock"
)

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) GetAll(ctx context.Context) ([]*models.Player, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetByUsername(ctx context.Context, username string) (*models.Player, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Create(ctx context.Context, player *models.Player) (bool, int64, error) {
	args := m.Called(ctx, player)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockPlayerRepository) UpdateBalance(ctx context.Context, id int64, balance int64) (bool, error) {
	args := m.Called(ctx, id, balance)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlayerRepository) AddBalance(ctx context.Context, id int64, delta int64) (bool, error) {
	args := m.Called(ctx, id, delta)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlayerRepository) UpdateInventoryCount(ctx context.Context, id int64, inventoryCount int64) (bool, error) {
	args := m.Called(ctx, id, inventoryCount)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlayerRepository) IncrementInventoryCount(ctx context.Context, id int64, delta int64) (bool, error) {
	args := m.Called(ctx, id, delta)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlayerRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) (bool, error) {
	args := m.Called(ctx, id, isAdmin)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlayerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlayerRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockStoveTypeRepository is a mock implementation of StoveTypeRepository
type MockStoveTypeRepository struct {
	mock.Mock
}

func (m *MockStoveTypeRepository) GetAll(ctx context.Context) ([]*models.StoveType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StoveType), args.Error(1)
}

func (m *MockStoveTypeRepository) GetByID(ctx context.Context, id int64) (*models.StoveType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoveType), args.Error(1)
}

func (m *MockStoveTypeRepository) GetByName(ctx context.Context, name string) (*models.StoveType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoveType), args.Error(1)
}

func (m *MockStoveTypeRepository) GetByRarity(ctx context.Context, rarity models.Rarity) ([]*models.StoveType, error) {
	args := m.Called(ctx, rarity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StoveType), args.Error(1)
}

func (m *MockStoveTypeRepository) Create(ctx context.Context, stoveType *models.StoveType) (bool, int64, error) {
	args := m.Called(ctx, stoveType)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoveTypeRepository) UpdateDropWeight(ctx context.Context, id int64, dropWeight int64) (bool, error) {
	args := m.Called(ctx, id, dropWeight)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoveTypeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoveTypeRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockStoveRepository is a mock implementation of StoveRepository
type MockStoveRepository struct {
	mock.Mock
}

func (m *MockStoveRepository) GetAll(ctx context.Context) ([]*models.Stove, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Stove), args.Error(1)
}

func (m *MockStoveRepository) GetByID(ctx context.Context, id int64) (*models.Stove, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stove), args.Error(1)
}

func (m *MockStoveRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Stove, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Stove), args.Error(1)
}

func (m *MockStoveRepository) GetByType(ctx context.Context, typeID int64) ([]*models.Stove, error) {
	args := m.Called(ctx, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Stove), args.Error(1)
}

func (m *MockStoveRepository) Create(ctx context.Context, stove *models.Stove) (bool, int64, error) {
	args := m.Called(ctx, stove)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoveRepository) UpdateOwner(ctx context.Context, id int64, ownerID int64) (bool, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoveRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoveRepository) CountByType(ctx context.Context, typeID int64) (int64, error) {
	args := m.Called(ctx, typeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockListingRepository is a mock implementation of ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) GetAll(ctx context.Context) ([]*models.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Listing), args.Error(1)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) GetByStatus(ctx context.Context, status models.ListingStatus) ([]*models.Listing, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Listing), args.Error(1)
}

func (m *MockListingRepository) GetBySeller(ctx context.Context, sellerID int64) ([]*models.Listing, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Listing), args.Error(1)
}

func (m *MockListingRepository) GetActiveByStove(ctx context.Context, stoveID int64) (*models.Listing, error) {
	args := m.Called(ctx, stoveID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) Create(ctx context.Context, listing *models.Listing) (bool, int64, error) {
	args := m.Called(ctx, listing)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) UpdateStatus(ctx context.Context, id int64, status models.ListingStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) TransitionStatus(ctx context.Context, id int64, from, to models.ListingStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) CountByStatus(ctx context.Context, status models.ListingStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockOwnershipRepository is a mock implementation of OwnershipRepository
type MockOwnershipRepository struct {
	mock.Mock
}

func (m *MockOwnershipRepository) GetAll(ctx context.Context) ([]*models.Ownership, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ownership), args.Error(1)
}

func (m *MockOwnershipRepository) GetByID(ctx context.Context, id int64) (*models.Ownership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ownership), args.Error(1)
}

func (m *MockOwnershipRepository) GetByStove(ctx context.Context, stoveID int64) ([]*models.Ownership, error) {
	args := m.Called(ctx, stoveID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ownership), args.Error(1)
}

func (m *MockOwnershipRepository) GetCurrentByStove(ctx context.Context, stoveID int64) (*models.Ownership, error) {
	args := m.Called(ctx, stoveID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ownership), args.Error(1)
}

func (m *MockOwnershipRepository) GetByPlayer(ctx context.Context, playerID int64) ([]*models.Ownership, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ownership), args.Error(1)
}

func (m *MockOwnershipRepository) Create(ctx context.Context, ownership *models.Ownership) (bool, int64, error) {
	args := m.Called(ctx, ownership)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockOwnershipRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockPriceHistoryRepository is a mock implementation of PriceHistoryRepository
type MockPriceHistoryRepository struct {
	mock.Mock
}

func (m *MockPriceHistoryRepository) GetAll(ctx context.Context) ([]*models.PriceHistory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PriceHistory), args.Error(1)
}

func (m *MockPriceHistoryRepository) GetByID(ctx context.Context, id int64) (*models.PriceHistory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PriceHistory), args.Error(1)
}

func (m *MockPriceHistoryRepository) GetByType(ctx context.Context, typeID int64) ([]*models.PriceHistory, error) {
	args := m.Called(ctx, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PriceHistory), args.Error(1)
}

func (m *MockPriceHistoryRepository) Create(ctx context.Context, entry *models.PriceHistory) (bool, int64, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockPriceHistoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPriceHistoryRepository) GetStats(ctx context.Context, typeID int64) (*models.PriceStats, error) {
	args := m.Called(ctx, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PriceStats), args.Error(1)
}

// MockTradeRepository is a mock implementation of TradeRepository
type MockTradeRepository struct {
	mock.Mock
}

func (m *MockTradeRepository) GetAll(ctx context.Context) ([]*models.Trade, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Trade), args.Error(1)
}

func (m *MockTradeRepository) GetByID(ctx context.Context, id int64) (*models.Trade, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trade), args.Error(1)
}

func (m *MockTradeRepository) GetByListing(ctx context.Context, listingID int64) (*models.Trade, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trade), args.Error(1)
}

func (m *MockTradeRepository) GetByBuyer(ctx context.Context, buyerID int64) ([]*models.Trade, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Trade), args.Error(1)
}

func (m *MockTradeRepository) Create(ctx context.Context, trade *models.Trade) (bool, int64, error) {
	args := m.Called(ctx, trade)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockTradeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTradeRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockLootboxTypeRepository is a mock implementation of LootboxTypeRepository
type MockLootboxTypeRepository struct {
	mock.Mock
}

func (m *MockLootboxTypeRepository) GetAll(ctx context.Context) ([]*models.LootboxType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LootboxType), args.Error(1)
}

func (m *MockLootboxTypeRepository) GetByID(ctx context.Context, id int64) (*models.LootboxType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LootboxType), args.Error(1)
}

func (m *MockLootboxTypeRepository) Create(ctx context.Context, lootboxType *models.LootboxType) (bool, int64, error) {
	args := m.Called(ctx, lootboxType)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockLootboxTypeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockLootboxRepository is a mock implementation of LootboxRepository
type MockLootboxRepository struct {
	mock.Mock
}

func (m *MockLootboxRepository) GetAll(ctx context.Context) ([]*models.Lootbox, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Lootbox), args.Error(1)
}

func (m *MockLootboxRepository) GetByID(ctx context.Context, id int64) (*models.Lootbox, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lootbox), args.Error(1)
}

func (m *MockLootboxRepository) GetByPlayer(ctx context.Context, playerID int64) ([]*models.Lootbox, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Lootbox), args.Error(1)
}

func (m *MockLootboxRepository) Create(ctx context.Context, lootbox *models.Lootbox) (bool, int64, error) {
	args := m.Called(ctx, lootbox)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockLootboxRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockLootboxDropRepository is a mock implementation of LootboxDropRepository
type MockLootboxDropRepository struct {
	mock.Mock
}

func (m *MockLootboxDropRepository) GetAll(ctx context.Context) ([]*models.LootboxDrop, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LootboxDrop), args.Error(1)
}

func (m *MockLootboxDropRepository) GetByID(ctx context.Context, id int64) (*models.LootboxDrop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LootboxDrop), args.Error(1)
}

func (m *MockLootboxDropRepository) GetByLootbox(ctx context.Context, lootboxID int64) (*models.LootboxDrop, error) {
	args := m.Called(ctx, lootboxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LootboxDrop), args.Error(1)
}

func (m *MockLootboxDropRepository) Create(ctx context.Context, drop *models.LootboxDrop) (bool, int64, error) {
	args := m.Called(ctx, drop)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockLootboxDropRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Begin, Commit and
// Rollback are recorded; repository getters hand out the embedded mocks.
type MockUnitOfWork struct {
	mock.Mock

	Players      *MockPlayerRepository
	StoveTypes   *MockStoveTypeRepository
	Stoves       *MockStoveRepository
	Listings     *MockListingRepository
	Ownership    *MockOwnershipRepository
	PriceHistory *MockPriceHistoryRepository
	Trades       *MockTradeRepository
	LootboxTypes *MockLootboxTypeRepository
	Lootboxes    *MockLootboxRepository
	Drops        *MockLootboxDropRepository
	Events       *MockEventPublisher
}

// NewMockUnitOfWork creates a unit of work with a fresh mock per repository
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Players:      new(MockPlayerRepository),
		StoveTypes:   new(MockStoveTypeRepository),
		Stoves:       new(MockStoveRepository),
		Listings:     new(MockListingRepository),
		Ownership:    new(MockOwnershipRepository),
		PriceHistory: new(MockPriceHistoryRepository),
		Trades:       new(MockTradeRepository),
		LootboxTypes: new(MockLootboxTypeRepository),
		Lootboxes:    new(MockLootboxRepository),
		Drops:        new(MockLootboxDropRepository),
		Events:       new(MockEventPublisher),
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) PlayerRepository() PlayerRepository { return m.Players }
func (m *MockUnitOfWork) StoveTypeRepository() StoveTypeRepository { return m.StoveTypes }
func (m *MockUnitOfWork) StoveRepository() StoveRepository { return m.Stoves }
func (m *MockUnitOfWork) ListingRepository() ListingRepository { return m.Listings }
func (m *MockUnitOfWork) OwnershipRepository() OwnershipRepository { return m.Ownership }
func (m *MockUnitOfWork) PriceHistoryRepository() PriceHistoryRepository { return m.PriceHistory }
func (m *MockUnitOfWork) TradeRepository() TradeRepository { return m.Trades }
func (m *MockUnitOfWork) LootboxTypeRepository() LootboxTypeRepository { return m.LootboxTypes }
func (m *MockUnitOfWork) LootboxRepository() LootboxRepository { return m.Lootboxes }
func (m *MockUnitOfWork) LootboxDropRepository() LootboxDropRepository { return m.Drops }
func (m *MockUnitOfWork) EventBus() EventPublisher { return m.Events }

// AssertRepositoryExpectations asserts the expectations of every repository mock
func (m *MockUnitOfWork) AssertRepositoryExpectations(t mock.TestingT) {
	m.Players.AssertExpectations(t)
	m.StoveTypes.AssertExpectations(t)
	m.Stoves.AssertExpectations(t)
	m.Listings.AssertExpectations(t)
	m.Ownership.AssertExpectations(t)
	m.PriceHistory.AssertExpectations(t)
	m.Trades.AssertExpectations(t)
	m.LootboxTypes.AssertExpectations(t)
	m.Lootboxes.AssertExpectations(t)
	m.Drops.AssertExpectations(t)
}

// MockEventPublisher records published events instead of emitting them
type MockEventPublisher struct {
	Published []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Published = append(m.Published, event)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create(readOnly bool) UnitOfWork {
	args := m.Called(readOnly)
	return args.Get(0).(UnitOfWork)
}
