package models

// MarketOverview summarises the marketplace at a point in time
type MarketOverview struct {
	Players        int64
	StoveTypes     int64
	ActiveListings int64
	SoldListings   int64
	Trades         int64
	TypeStats      []*TypeMarketStats
}

// TypeMarketStats combines catalog data and sale prices for one stove type
type TypeMarketStats struct {
	StoveType *StoveType
	Minted    int64
	Prices    *PriceStats
}
