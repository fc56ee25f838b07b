package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stovemarket/database"
	"stovemarket/models"
	"stovemarket/repository/testutil"
)

// fixture binds every repository to one read-write unit of work
type fixture struct {
	ctx          context.Context
	uow          *database.UnitOfWork
	players      *PlayerRepository
	stoveTypes   *StoveTypeRepository
	stoves       *StoveRepository
	listings     *ListingRepository
	ownership    *OwnershipRepository
	priceHistory *PriceHistoryRepository
	trades       *TradeRepository
	lootboxTypes *LootboxTypeRepository
	lootboxes    *LootboxRepository
	drops        *LootboxDropRepository
}

func newFixture(t *testing.T, td *testutil.TestDatabase) *fixture {
	t.Helper()

	uow := td.Begin(t)
	return &fixture{
		ctx:          context.Background(),
		uow:          uow,
		players:      NewPlayerRepository(uow),
		stoveTypes:   NewStoveTypeRepository(uow),
		stoves:       NewStoveRepository(uow),
		listings:     NewListingRepository(uow),
		ownership:    NewOwnershipRepository(uow),
		priceHistory: NewPriceHistoryRepository(uow),
		trades:       NewTradeRepository(uow),
		lootboxTypes: NewLootboxTypeRepository(uow),
		lootboxes:    NewLootboxRepository(uow),
		drops:        NewLootboxDropRepository(uow),
	}
}

func (f *fixture) player(t *testing.T, username string) *models.Player {
	t.Helper()

	p := testutil.CreateTestPlayer(username)
	ok, id, err := f.players.Create(f.ctx, p)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, id, p.ID)
	return p
}

func (f *fixture) stoveType(t *testing.T, name string, rarity models.Rarity, weight int64) *models.StoveType {
	t.Helper()

	st := testutil.CreateTestStoveType(name, rarity, weight)
	ok, _, err := f.stoveTypes.Create(f.ctx, st)
	require.NoError(t, err)
	require.True(t, ok)
	return st
}

func (f *fixture) stove(t *testing.T, typeID, ownerID int64) *models.Stove {
	t.Helper()

	st := testutil.CreateTestStove(typeID, ownerID)
	ok, _, err := f.stoves.Create(f.ctx, st)
	require.NoError(t, err)
	require.True(t, ok)
	return st
}

func (f *fixture) listing(t *testing.T, sellerID, stoveID, price int64) *models.Listing {
	t.Helper()

	l := testutil.CreateTestListing(sellerID, stoveID, price)
	ok, _, err := f.listings.Create(f.ctx, l)
	require.NoError(t, err)
	require.True(t, ok)
	return l
}
