package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stovemarket/apperr"
	"stovemarket/models"
	"stovemarket/repository/testutil"
)

func TestListingRepository_Lifecycle(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	f := newFixture(t, testDB)

	seller := f.player(t, "seller")
	st := f.stoveType(t, "Franklin", models.RarityRare, 3)
	stove := f.stove(t, st.ID, seller.ID)

	l := f.listing(t, seller.ID, stove.ID, 500)

	t.Run("active listing is found by stove", func(t *testing.T) {
		got, err := f.listings.GetActiveByStove(f.ctx, stove.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, l.ID, got.ID)
		assert.Equal(t, int64(500), got.Price)
		assert.Equal(t, models.ListingStatusActive, got.Status)
	})

	t.Run("second active listing rejected", func(t *testing.T) {
		ok, _, err := f.listings.Create(f.ctx, testutil.CreateTestListing(seller.ID, stove.ID, 600))
		assert.False(t, ok)
		assert.True(t, apperr.IsKind(err, apperr.KindConstraintViolation), "got %v", err)
	})

	t.Run("transition only from the expected status", func(t *testing.T) {
		ok, err := f.listings.TransitionStatus(f.ctx, l.ID, models.ListingStatusActive, models.ListingStatusSold)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = f.listings.TransitionStatus(f.ctx, l.ID, models.ListingStatusActive, models.ListingStatusCancelled)
		require.NoError(t, err)
		assert.False(t, ok, "a sold listing cannot be cancelled")

		got, err := f.listings.GetByID(f.ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ListingStatusSold, got.Status)

		none, err := f.listings.GetActiveByStove(f.ctx, stove.ID)
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("terminal status is never overwritten", func(t *testing.T) {
		for _, status := range []models.ListingStatus{models.ListingStatusActive, models.ListingStatusCancelled} {
			ok, err := f.listings.UpdateStatus(f.ctx, l.ID, status)
			require.NoError(t, err)
			assert.False(t, ok, "sold listing moved to %s", status)
		}

		got, err := f.listings.GetByID(f.ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ListingStatusSold, got.Status)
	})

	t.Run("stove can be relisted once the previous listing is terminal", func(t *testing.T) {
		relisted := f.listing(t, seller.ID, stove.ID, 700)

		active, err := f.listings.GetByStatus(f.ctx, models.ListingStatusActive)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, relisted.ID, active[0].ID)

		n, err := f.listings.CountByStatus(f.ctx, models.ListingStatusSold)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		bySeller, err := f.listings.GetBySeller(f.ctx, seller.ID)
		require.NoError(t, err)
		assert.Len(t, bySeller, 2)
	})

	t.Run("active listing can be updated", func(t *testing.T) {
		other := f.stove(t, st.ID, seller.ID)
		open := f.listing(t, seller.ID, other.ID, 300)

		ok, err := f.listings.UpdateStatus(f.ctx, open.ID, models.ListingStatusCancelled)
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := f.listings.GetByID(f.ctx, open.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ListingStatusCancelled, got.Status)
	})

	t.Run("missing listing", func(t *testing.T) {
		got, err := f.listings.GetByID(f.ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)

		ok, err := f.listings.UpdateStatus(f.ctx, 999, models.ListingStatusCancelled)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = f.listings.TransitionStatus(f.ctx, 999, models.ListingStatusActive, models.ListingStatusSold)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("price below one rejected", func(t *testing.T) {
		other := f.stove(t, st.ID, seller.ID)
		_, _, err := f.listings.Create(f.ctx, testutil.CreateTestListing(seller.ID, other.ID, 0))
		assert.True(t, apperr.IsKind(err, apperr.KindConstraintViolation), "got %v", err)
	})
}

func TestStoveRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	f := newFixture(t, testDB)

	alice := f.player(t, "alice")
	bob := f.player(t, "bob")
	common := f.stoveType(t, "Kitchener", models.RarityCommon, 10)
	epic := f.stoveType(t, "Aga", models.RarityEpic, 1)

	s1 := f.stove(t, common.ID, alice.ID)
	s2 := f.stove(t, common.ID, alice.ID)
	s3 := f.stove(t, epic.ID, bob.ID)

	t.Run("queries", func(t *testing.T) {
		owned, err := f.stoves.GetByOwner(f.ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, owned, 2)

		byType, err := f.stoves.GetByType(f.ctx, epic.ID)
		require.NoError(t, err)
		require.Len(t, byType, 1)
		assert.Equal(t, s3.ID, byType[0].ID)

		n, err := f.stoves.CountByType(f.ctx, common.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("update owner", func(t *testing.T) {
		ok, err := f.stoves.UpdateOwner(f.ctx, s1.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := f.stoves.GetByID(f.ctx, s1.ID)
		require.NoError(t, err)
		assert.Equal(t, bob.ID, got.CurrentOwnerID)

		ok, err = f.stoves.UpdateOwner(f.ctx, 999, bob.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown owner rejected", func(t *testing.T) {
		_, err := f.stoves.UpdateOwner(f.ctx, s2.ID, 999)
		assert.True(t, apperr.IsKind(err, apperr.KindConstraintViolation), "got %v", err)
	})

	t.Run("delete", func(t *testing.T) {
		ok, err := f.stoves.Delete(f.ctx, s2.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		all, err := f.stoves.GetAll(f.ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestStoveTypeRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	f := newFixture(t, testDB)

	st := f.stoveType(t, "Rayburn", models.RarityLegendary, 2)
	f.stoveType(t, "Esse", models.RarityLegendary, 4)
	f.stoveType(t, "Jotul", models.RarityCommon, 20)

	got, err := f.stoveTypes.GetByName(f.ctx, "Rayburn")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, st.ID, got.ID)
	assert.Equal(t, models.RarityLegendary, got.Rarity)
	assert.Equal(t, "stoves/Rayburn.png", got.ImageRef)

	legendary, err := f.stoveTypes.GetByRarity(f.ctx, models.RarityLegendary)
	require.NoError(t, err)
	assert.Len(t, legendary, 2)

	ok, err := f.stoveTypes.UpdateDropWeight(f.ctx, st.ID, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = f.stoveTypes.GetByID(f.ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.DropWeight)

	_, err = f.stoveTypes.UpdateDropWeight(f.ctx, st.ID, 0)
	assert.True(t, apperr.IsKind(err, apperr.KindConstraintViolation), "got %v", err)

	_, _, err = f.stoveTypes.Create(f.ctx, testutil.CreateTestStoveType("Rayburn", models.RarityCommon, 1))
	assert.True(t, apperr.IsKind(err, apperr.KindConstraintViolation), "got %v", err)

	n, err := f.stoveTypes.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	all, err := f.stoveTypes.GetAll(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ok, err = f.stoveTypes.Delete(f.ctx, all[2].ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
