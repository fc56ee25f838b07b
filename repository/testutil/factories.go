package testutil

import (
	"time"

	"stovemarket/models"
)

// CreateTestPlayer creates a test player with default values
func CreateTestPlayer(username string) *models.Player {
	return &models.Player{
		Username: username,
		Balance:  1000,
		JoinedAt: time.Now().UTC(),
	}
}

// CreateTestPlayerWithBalance creates a test player with a specific balance
func CreateTestPlayerWithBalance(username string, balance int64) *models.Player {
	player := CreateTestPlayer(username)
	player.Balance = balance
	return player
}

// CreateTestStoveType creates a catalog entry with the given rarity and weight
func CreateTestStoveType(name string, rarity models.Rarity, dropWeight int64) *models.StoveType {
	return &models.StoveType{
		Name:       name,
		ImageRef:   "stoves/" + name + ".png",
		Rarity:     rarity,
		DropWeight: dropWeight,
	}
}

// CreateTestStove creates an unsaved stove of the given type and owner
func CreateTestStove(typeID, ownerID int64) *models.Stove {
	return &models.Stove{
		TypeID:         typeID,
		CurrentOwnerID: ownerID,
		MintedAt:       time.Now().UTC(),
	}
}

// CreateTestListing creates an active listing
func CreateTestListing(sellerID, stoveID, price int64) *models.Listing {
	return &models.Listing{
		SellerID: sellerID,
		StoveID:  stoveID,
		Price:    price,
		ListedAt: time.Now().UTC(),
		Status:   models.ListingStatusActive,
	}
}

// CreateTestOwnership creates an ownership record
func CreateTestOwnership(stoveID, playerID int64, how models.AcquiredHow) *models.Ownership {
	return &models.Ownership{
		StoveID:     stoveID,
		PlayerID:    playerID,
		AcquiredAt:  time.Now().UTC(),
		AcquiredHow: how,
	}
}

// CreateTestLootboxType creates a lootbox type with the given price
func CreateTestLootboxType(name string, price int64) *models.LootboxType {
	return &models.LootboxType{
		Name:        name,
		Description: "test box " + name,
		Price:       price,
	}
}
