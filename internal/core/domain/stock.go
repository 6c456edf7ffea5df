package domain

import "time"

type Stock struct {
	ProductID int `json:"productId"`
	Amount    int `json:"amount"`
}

// StockRow is the catalog's persisted view of a stock record.
type StockRow struct {
	Stock
	Version   int // bumped on every write
	UpdatedAt time.Time
}
