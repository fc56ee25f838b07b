package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stovemarket/apperr"
	"stovemarket/repository/testutil"
)

func TestPlayerRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	f := newFixture(t, testDB)

	t.Run("player not found", func(t *testing.T) {
		p, err := f.players.GetByID(f.ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, p)

		p, err = f.players.GetByUsername(f.ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("round trip", func(t *testing.T) {
		created := f.player(t, "alice")
		assert.Positive(t, created.ID)

		byID, err := f.players.GetByID(f.ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "alice", byID.Username)
		assert.Equal(t, int64(1000), byID.Balance)
		assert.Equal(t, int64(0), byID.InventoryCount)
		assert.False(t, byID.IsAdmin)
		assert.WithinDuration(t, created.JoinedAt, byID.JoinedAt, time.Second)

		byName, err := f.players.GetByUsername(f.ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, created.ID, byName.ID)
	})

	t.Run("ids are sequential", func(t *testing.T) {
		first := f.player(t, "bob")
		second := f.player(t, "carol")
		assert.Equal(t, first.ID+1, second.ID)

		all, err := f.players.GetAll(f.ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		n, err := f.players.Count(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

func TestPlayerRepository_DuplicateUsername(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	f := newFixture(t, testDB)

	f.player(t, "alice")

	ok, _, err := f.players.Create(f.ctx, testutil.CreateTestPlayer("alice"))
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConstraintViolation), "got %v", err)
}

func TestPlayerRepository_Balance(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	f := newFixture(t, testDB)

	p := f.player(t, "alice")

	t.Run("add and deduct", func(t *testing.T) {
		ok, err := f.players.AddBalance(f.ctx, p.ID, 250)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = f.players.AddBalance(f.ctx, p.ID, -1250)
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := f.players.GetByID(f.ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.Balance)
	})

	t.Run("insufficient funds leaves balance untouched", func(t *testing.T) {
		ok, err := f.players.AddBalance(f.ctx, p.ID, -1)
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := f.players.GetByID(f.ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.Balance)
	})

	t.Run("update balance", func(t *testing.T) {
		ok, err := f.players.UpdateBalance(f.ctx, p.ID, 777)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = f.players.UpdateBalance(f.ctx, 999, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("negative balance rejected by store", func(t *testing.T) {
		_, err := f.players.UpdateBalance(f.ctx, p.ID, -5)
		assert.True(t, apperr.IsKind(err, apperr.KindConstraintViolation), "got %v", err)
	})
}

func TestPlayerRepository_InventoryAndAdmin(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	f := newFixture(t, testDB)

	p := f.player(t, "alice")

	ok, err := f.players.IncrementInventoryCount(f.ctx, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.players.IncrementInventoryCount(f.ctx, p.ID, -3)
	require.NoError(t, err)
	assert.False(t, ok, "count cannot go below zero")

	ok, err = f.players.UpdateInventoryCount(f.ctx, p.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.players.SetAdmin(f.ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := f.players.GetByID(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.InventoryCount)
	assert.True(t, got.IsAdmin)
}

func TestPlayerRepository_Delete(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	f := newFixture(t, testDB)

	t.Run("unreferenced player", func(t *testing.T) {
		p := f.player(t, "alice")

		ok, err := f.players.Delete(f.ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = f.players.Delete(f.ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("player owning a stove", func(t *testing.T) {
		p := f.player(t, "bob")
		st := f.stoveType(t, "Pot Belly", "common", 5)
		f.stove(t, st.ID, p.ID)

		_, err := f.players.Delete(f.ctx, p.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindConstraintViolation), "got %v", err)
	})
}
