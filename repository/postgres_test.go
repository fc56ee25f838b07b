package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stovemarket/apperr"
	"stovemarket/models"
	"stovemarket/repository/testutil"
)

func TestRepositories_Postgres(t *testing.T) {
	pgDB := testutil.SetupPostgresDatabase(t)

	t.Run("market flow", func(t *testing.T) {
		f := newFixture(t, &pgDB.TestDatabase)

		seller := f.player(t, "pg-seller")
		buyer := f.player(t, "pg-buyer")
		assert.Equal(t, seller.ID+1, buyer.ID)

		st := f.stoveType(t, "Pg Cast Iron", models.RarityLimited, 1)
		stove := f.stove(t, st.ID, seller.ID)
		l := f.listing(t, seller.ID, stove.ID, 320)

		ok, err := f.listings.TransitionStatus(f.ctx, l.ID, models.ListingStatusActive, models.ListingStatusSold)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = f.stoves.UpdateOwner(f.ctx, stove.ID, buyer.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		_, _, err = f.priceHistory.Create(f.ctx, &models.PriceHistory{TypeID: st.ID, SalePrice: l.Price})
		require.NoError(t, err)

		stats, err := f.priceHistory.GetStats(f.ctx, st.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Count)
		assert.InDelta(t, 320.0, stats.Average, 0.001)
		assert.InDelta(t, 320.0, stats.Median, 0.001)

		require.NoError(t, f.uow.Commit())
		assert.Equal(t, int64(1), pgDB.Count(t, "PriceHistory"))
	})

	t.Run("one active listing per stove", func(t *testing.T) {
		f := newFixture(t, &pgDB.TestDatabase)

		seller := f.player(t, "pg-lister")
		st := f.stoveType(t, "Pg Franklin", models.RarityCommon, 3)
		stove := f.stove(t, st.ID, seller.ID)
		f.listing(t, seller.ID, stove.ID, 10)

		_, _, err := f.listings.Create(f.ctx, testutil.CreateTestListing(seller.ID, stove.ID, 20))
		assert.True(t, apperr.IsKind(err, apperr.KindConstraintViolation), "got %v", err)
	})
}
