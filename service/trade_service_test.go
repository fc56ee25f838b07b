package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stovemarket/apperr"
	"stovemarket/events"
	"stovemarket/models"
)

func newTradeMocks(ctx context.Context) (*MockUnitOfWorkFactory, *MockUnitOfWork) {
	mockUoW := NewMockUnitOfWork()
	mockFactory := new(MockUnitOfWorkFactory)

	mockFactory.On("Create", false).Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	return mockFactory, mockUoW
}

func activeListing() *models.Listing {
	return &models.Listing{
		ID:       1,
		SellerID: 1,
		StoveID:  10,
		Price:    500,
		Status:   models.ListingStatusActive,
	}
}

func TestTradeService_ExecuteTrade_Success(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW := newTradeMocks(ctx)
	service := NewTradeService(mockFactory)

	var steps []string
	record := func(step string) func(mock.Arguments) {
		return func(mock.Arguments) { steps = append(steps, step) }
	}

	mockUoW.Listings.On("GetByID", ctx, int64(1)).Return(activeListing(), nil)
	mockUoW.Listings.On("TransitionStatus", ctx, int64(1), models.ListingStatusActive, models.ListingStatusSold).
		Return(true, nil).Run(record("listing_sold"))
	mockUoW.Stoves.On("GetByID", ctx, int64(10)).
		Return(&models.Stove{ID: 10, TypeID: 3, CurrentOwnerID: 1}, nil)
	mockUoW.Stoves.On("UpdateOwner", ctx, int64(10), int64(2)).
		Return(true, nil).Run(record("owner_updated"))
	mockUoW.Ownership.On("Create", ctx, mock.MatchedBy(func(o *models.Ownership) bool {
		return o.StoveID == 10 && o.PlayerID == 2 && o.AcquiredHow == models.AcquiredHowTrade
	})).Return(true, int64(70), nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Ownership).ID = 70
		steps = append(steps, "ownership")
	})
	mockUoW.PriceHistory.On("Create", ctx, mock.MatchedBy(func(ph *models.PriceHistory) bool {
		return ph.TypeID == 3 && ph.SalePrice == 500
	})).Return(true, int64(80), nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.PriceHistory).ID = 80
		steps = append(steps, "price_history")
	})
	mockUoW.Trades.On("Create", ctx, mock.MatchedBy(func(tr *models.Trade) bool {
		return tr.ListingID == 1 && tr.BuyerID == 2
	})).Return(true, int64(90), nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Trade).ID = 90
		steps = append(steps, "trade")
	})
	mockUoW.On("Commit").Return(nil).Run(record("commit"))

	result, err := service.ExecuteTrade(ctx, 1, 2)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(90), result.Trade.ID)
	assert.Equal(t, int64(70), result.OwnershipID)
	assert.Equal(t, int64(80), result.PriceID)
	assert.Equal(t, int64(1), result.SellerID)
	assert.Equal(t, models.ListingStatusSold, result.Listing.Status)
	assert.Equal(t, int64(2), result.Stove.CurrentOwnerID)

	assert.Equal(t, []string{"listing_sold", "owner_updated", "ownership", "price_history", "trade", "commit"}, steps)

	require.Len(t, mockUoW.Events.Published, 1)
	assert.Equal(t, events.TradeExecutedEvent{
		TradeID: 90, ListingID: 1, StoveID: 10, TypeID: 3, SellerID: 1, BuyerID: 2, Price: 500,
	}, mockUoW.Events.Published[0])

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUoW.AssertRepositoryExpectations(t)
}

func TestTradeService_ExecuteTrade_RejectedBeforeAnyWrite(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		listing *models.Listing
		buyerID int64
		kind    apperr.Kind
		message string
	}{
		{
			name:    "listing not found",
			listing: nil,
			buyerID: 2,
			kind:    apperr.KindNotFound,
		},
		{
			name:    "listing already sold",
			listing: &models.Listing{ID: 1, SellerID: 1, StoveID: 10, Price: 500, Status: models.ListingStatusSold},
			buyerID: 2,
			kind:    apperr.KindInvalidState,
			message: "listing is not active",
		},
		{
			name:    "listing cancelled",
			listing: &models.Listing{ID: 1, SellerID: 1, StoveID: 10, Price: 500, Status: models.ListingStatusCancelled},
			buyerID: 2,
			kind:    apperr.KindInvalidState,
			message: "listing is not active",
		},
		{
			name:    "buyer is seller",
			listing: activeListing(),
			buyerID: 1,
			kind:    apperr.KindInvalidOperation,
			message: "cannot buy own listing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFactory, mockUoW := newTradeMocks(ctx)
			service := NewTradeService(mockFactory)

			if tt.listing == nil {
				mockUoW.Listings.On("GetByID", ctx, int64(1)).Return(nil, nil)
			} else {
				mockUoW.Listings.On("GetByID", ctx, int64(1)).Return(tt.listing, nil)
			}

			result, err := service.ExecuteTrade(ctx, 1, tt.buyerID)

			assert.Nil(t, result)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}

			mockUoW.Listings.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			mockUoW.Stoves.AssertNotCalled(t, "UpdateOwner", mock.Anything, mock.Anything, mock.Anything)
			mockUoW.AssertNotCalled(t, "Commit")
			mockUoW.AssertCalled(t, "Rollback")
			assert.Empty(t, mockUoW.Events.Published)
		})
	}
}

func TestTradeService_ExecuteTrade_LostRace(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW := newTradeMocks(ctx)
	service := NewTradeService(mockFactory)

	mockUoW.Listings.On("GetByID", ctx, int64(1)).Return(activeListing(), nil)
	mockUoW.Listings.On("TransitionStatus", ctx, int64(1), models.ListingStatusActive, models.ListingStatusSold).Return(false, nil)

	result, err := service.ExecuteTrade(ctx, 1, 2)

	assert.Nil(t, result)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	mockUoW.Stoves.AssertNotCalled(t, "UpdateOwner", mock.Anything, mock.Anything, mock.Anything)
	mockUoW.Ownership.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
	mockUoW.AssertCalled(t, "Rollback")
}

func TestTradeService_ExecuteTrade_StoveMissing(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW := newTradeMocks(ctx)
	service := NewTradeService(mockFactory)

	mockUoW.Listings.On("GetByID", ctx, int64(1)).Return(activeListing(), nil)
	mockUoW.Listings.On("TransitionStatus", ctx, int64(1), models.ListingStatusActive, models.ListingStatusSold).Return(true, nil)
	mockUoW.Stoves.On("GetByID", ctx, int64(10)).Return(&models.Stove{ID: 10, TypeID: 3, CurrentOwnerID: 1}, nil)
	mockUoW.Stoves.On("UpdateOwner", ctx, int64(10), int64(2)).Return(false, nil)

	_, err := service.ExecuteTrade(ctx, 1, 2)

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	mockUoW.Ownership.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
	mockUoW.AssertCalled(t, "Rollback")
}

func TestTradeService_ExecuteTrade_PriceHistoryFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW := newTradeMocks(ctx)
	service := NewTradeService(mockFactory)

	storeErr := apperr.Wrap(apperr.KindResourceFault, "price_history.create", errors.New("disk I/O error"))

	mockUoW.Listings.On("GetByID", ctx, int64(1)).Return(activeListing(), nil)
	mockUoW.Listings.On("TransitionStatus", ctx, int64(1), models.ListingStatusActive, models.ListingStatusSold).Return(true, nil)
	mockUoW.Stoves.On("GetByID", ctx, int64(10)).Return(&models.Stove{ID: 10, TypeID: 3, CurrentOwnerID: 1}, nil)
	mockUoW.Stoves.On("UpdateOwner", ctx, int64(10), int64(2)).Return(true, nil)
	mockUoW.Ownership.On("Create", ctx, mock.Anything).Return(true, int64(1), nil)
	mockUoW.PriceHistory.On("Create", ctx, mock.Anything).Return(false, int64(0), storeErr)

	_, err := service.ExecuteTrade(ctx, 1, 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.True(t, apperr.IsKind(err, apperr.KindResourceFault))
	mockUoW.Trades.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
	mockUoW.AssertCalled(t, "Rollback")
}

func TestTradeService_ExecuteTrade_UnwrittenRowRollsBack(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		step    string
		message string
	}{
		{name: "ownership", step: "ownership", message: "ownership row not written"},
		{name: "price history", step: "price_history", message: "price history row not written"},
		{name: "trade", step: "trade", message: "trade row not written"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFactory, mockUoW := newTradeMocks(ctx)
			service := NewTradeService(mockFactory)

			written := func(step string) bool { return step != tt.step }

			mockUoW.Listings.On("GetByID", ctx, int64(1)).Return(activeListing(), nil)
			mockUoW.Listings.On("TransitionStatus", ctx, int64(1), models.ListingStatusActive, models.ListingStatusSold).Return(true, nil)
			mockUoW.Stoves.On("GetByID", ctx, int64(10)).Return(&models.Stove{ID: 10, TypeID: 3, CurrentOwnerID: 1}, nil)
			mockUoW.Stoves.On("UpdateOwner", ctx, int64(10), int64(2)).Return(true, nil)
			mockUoW.Ownership.On("Create", ctx, mock.Anything).Return(written("ownership"), int64(0), nil)
			if tt.step != "ownership" {
				mockUoW.PriceHistory.On("Create", ctx, mock.Anything).Return(written("price_history"), int64(0), nil)
			}
			if tt.step == "trade" {
				mockUoW.Trades.On("Create", ctx, mock.Anything).Return(false, int64(0), nil)
			}

			result, err := service.ExecuteTrade(ctx, 1, 2)

			assert.Nil(t, result)
			require.Error(t, err)
			assert.Equal(t, apperr.KindResourceFault, apperr.KindOf(err))
			assert.Contains(t, err.Error(), tt.message)

			if tt.step == "ownership" {
				mockUoW.PriceHistory.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
			if tt.step != "trade" {
				mockUoW.Trades.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
			mockUoW.AssertNotCalled(t, "Commit")
			mockUoW.AssertCalled(t, "Rollback")
			assert.Empty(t, mockUoW.Events.Published)
		})
	}
}

func TestTradeService_ExecuteTrade_BeginFails(t *testing.T) {
	ctx := context.Background()
	mockUoW := NewMockUnitOfWork()
	mockFactory := new(MockUnitOfWorkFactory)
	service := NewTradeService(mockFactory)

	beginErr := apperr.Wrap(apperr.KindResourceFault, "uow.begin", errors.New("connection refused"))
	mockFactory.On("Create", false).Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(beginErr)

	_, err := service.ExecuteTrade(ctx, 1, 2)

	assert.True(t, apperr.IsKind(err, apperr.KindResourceFault))
	mockUoW.Listings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
