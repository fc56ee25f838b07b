package models

// Rarity is the catalog tier of a stove type
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityLimited   Rarity = "limited"
)

// Rarities lists every tier accepted by the StoveType.rarity check constraint
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary, RarityLimited}

// Valid reports whether r is a known rarity
func (r Rarity) Valid() bool {
	for _, known := range Rarities {
		if r == known {
			return true
		}
	}
	return false
}

// StoveType is a catalog entry that individual stoves are minted from
type StoveType struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	ImageRef   string `db:"imageRef"`
	Rarity     Rarity `db:"rarity"`
	DropWeight int64  `db:"dropWeight"` // relative lootbox weight, > 0
}
