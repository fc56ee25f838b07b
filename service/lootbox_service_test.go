package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stovemarket/apperr"
	"stovemarket/models"
)

func TestPickStoveType(t *testing.T) {
	catalog := []*models.StoveType{
		{ID: 1, Name: "common", DropWeight: 6},
		{ID: 2, Name: "disabled", DropWeight: 0},
		{ID: 3, Name: "rare", DropWeight: 3},
		{ID: 4, Name: "legendary", DropWeight: 1},
	}

	fixed := func(v int64) func(int64) int64 {
		return func(n int64) int64 {
			require.Equal(t, int64(10), n, "roll range is the total weight")
			return v
		}
	}

	tests := []struct {
		roll int64
		want int64
	}{
		{0, 1}, {5, 1}, {6, 3}, {8, 3}, {9, 4},
	}
	for _, tt := range tests {
		got := pickStoveType(catalog, fixed(tt.roll))
		require.NotNil(t, got)
		assert.Equal(t, tt.want, got.ID, "roll %d", tt.roll)
	}

	assert.Nil(t, pickStoveType(nil, fixed(0)))
	assert.Nil(t, pickStoveType([]*models.StoveType{{ID: 9, DropWeight: 0}}, fixed(0)))
}

func TestLootboxService_OpenLootbox(t *testing.T) {
	ctx := context.Background()

	catalog := []*models.StoveType{
		{ID: 1, Name: "Kitchener", Rarity: models.RarityCommon, DropWeight: 9},
		{ID: 2, Name: "Aga", Rarity: models.RarityEpic, DropWeight: 1},
	}

	t.Run("success", func(t *testing.T) {
		mockUoW := NewMockUnitOfWork()
		mockFactory := new(MockUnitOfWorkFactory)
		svc := &lootboxService{uowFactory: mockFactory, roll: func(int64) int64 { return 9 }}

		mockFactory.On("Create", false).Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUoW.Players.On("GetByID", ctx, int64(5)).Return(&models.Player{ID: 5, Balance: 300}, nil)
		mockUoW.LootboxTypes.On("GetByID", ctx, int64(1)).Return(&models.LootboxType{ID: 1, Price: 100}, nil)
		mockUoW.StoveTypes.On("GetAll", ctx).Return(catalog, nil)
		mockUoW.Players.On("AddBalance", ctx, int64(5), int64(-100)).Return(true, nil)
		mockUoW.Lootboxes.On("Create", ctx, mock.AnythingOfType("*models.Lootbox")).Return(true, int64(11), nil).
			Run(func(args mock.Arguments) { args.Get(1).(*models.Lootbox).ID = 11 })
		mockUoW.Stoves.On("Create", ctx, mock.MatchedBy(func(s *models.Stove) bool {
			return s.TypeID == 2 && s.CurrentOwnerID == 5
		})).Return(true, int64(21), nil).
			Run(func(args mock.Arguments) { args.Get(1).(*models.Stove).ID = 21 })
		mockUoW.Ownership.On("Create", ctx, mock.MatchedBy(func(o *models.Ownership) bool {
			return o.StoveID == 21 && o.PlayerID == 5 && o.AcquiredHow == models.AcquiredHowLootbox
		})).Return(true, int64(31), nil)
		mockUoW.Drops.On("Create", ctx, mock.MatchedBy(func(d *models.LootboxDrop) bool {
			return d.LootboxID == 11 && d.StoveID == 21
		})).Return(true, int64(41), nil)
		mockUoW.Players.On("IncrementInventoryCount", ctx, int64(5), int64(1)).Return(true, nil)

		result, err := svc.OpenLootbox(ctx, 5, 1)

		require.NoError(t, err)
		assert.Equal(t, "Aga", result.StoveType.Name)
		assert.Equal(t, int64(200), result.Player.Balance)
		assert.Equal(t, int64(1), result.Player.InventoryCount)
		assert.Equal(t, int64(21), result.Stove.ID)

		mockUoW.AssertExpectations(t)
		mockUoW.AssertRepositoryExpectations(t)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		mockUoW := NewMockUnitOfWork()
		mockFactory := new(MockUnitOfWorkFactory)
		svc := NewLootboxService(mockFactory)

		mockFactory.On("Create", false).Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUoW.Players.On("GetByID", ctx, int64(5)).Return(&models.Player{ID: 5, Balance: 50}, nil)
		mockUoW.LootboxTypes.On("GetByID", ctx, int64(1)).Return(&models.LootboxType{ID: 1, Price: 100}, nil)

		_, err := svc.OpenLootbox(ctx, 5, 1)

		assert.True(t, apperr.IsKind(err, apperr.KindInvalidOperation))
		mockUoW.Players.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
		mockUoW.AssertNotCalled(t, "Commit")
	})

	t.Run("unknown lootbox type", func(t *testing.T) {
		mockUoW := NewMockUnitOfWork()
		mockFactory := new(MockUnitOfWorkFactory)
		svc := NewLootboxService(mockFactory)

		mockFactory.On("Create", false).Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUoW.Players.On("GetByID", ctx, int64(5)).Return(&models.Player{ID: 5, Balance: 50}, nil)
		mockUoW.LootboxTypes.On("GetByID", ctx, int64(9)).Return(nil, nil)

		_, err := svc.OpenLootbox(ctx, 5, 9)

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
		mockUoW.AssertNotCalled(t, "Commit")
	})
}

func TestLootboxService_OpenLootbox_UnwrittenRowRollsBack(t *testing.T) {
	ctx := context.Background()

	catalog := []*models.StoveType{
		{ID: 1, Name: "Kitchener", Rarity: models.RarityCommon, DropWeight: 1},
	}
	steps := []string{"lootbox", "stove", "ownership", "drop", "inventory"}

	tests := []struct {
		step string
		kind apperr.Kind
	}{
		{step: "lootbox", kind: apperr.KindResourceFault},
		{step: "stove", kind: apperr.KindResourceFault},
		{step: "ownership", kind: apperr.KindResourceFault},
		{step: "drop", kind: apperr.KindResourceFault},
		{step: "inventory", kind: apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			mockUoW := NewMockUnitOfWork()
			mockFactory := new(MockUnitOfWorkFactory)
			svc := &lootboxService{uowFactory: mockFactory, roll: func(int64) int64 { return 0 }}

			mockFactory.On("Create", false).Return(mockUoW)
			mockUoW.On("Begin", ctx).Return(nil)
			mockUoW.On("Rollback").Return(nil)

			mockUoW.Players.On("GetByID", ctx, int64(5)).Return(&models.Player{ID: 5, Balance: 300}, nil)
			mockUoW.LootboxTypes.On("GetByID", ctx, int64(1)).Return(&models.LootboxType{ID: 1, Price: 100}, nil)
			mockUoW.StoveTypes.On("GetAll", ctx).Return(catalog, nil)
			mockUoW.Players.On("AddBalance", ctx, int64(5), int64(-100)).Return(true, nil)

			// Steps before the failing one succeed, later ones are never reached
			reached := true
			for _, step := range steps {
				if !reached {
					break
				}
				ok := step != tt.step
				switch step {
				case "lootbox":
					mockUoW.Lootboxes.On("Create", ctx, mock.Anything).Return(ok, int64(0), nil)
				case "stove":
					mockUoW.Stoves.On("Create", ctx, mock.Anything).Return(ok, int64(0), nil)
				case "ownership":
					mockUoW.Ownership.On("Create", ctx, mock.Anything).Return(ok, int64(0), nil)
				case "drop":
					mockUoW.Drops.On("Create", ctx, mock.Anything).Return(ok, int64(0), nil)
				case "inventory":
					mockUoW.Players.On("IncrementInventoryCount", ctx, int64(5), int64(1)).Return(ok, nil)
				}
				reached = ok
			}

			result, err := svc.OpenLootbox(ctx, 5, 1)

			assert.Nil(t, result)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			mockUoW.AssertNotCalled(t, "Commit")
			mockUoW.AssertCalled(t, "Rollback")
			assert.Empty(t, mockUoW.Events.Published)
			mockUoW.AssertRepositoryExpectations(t)
		})
	}
}
