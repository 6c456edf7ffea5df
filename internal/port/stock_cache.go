package port

import "context"

type StockCache interface {
	// GetStock returns the cached amount, false on a cache miss
	GetStock(ctx context.Context, productID int) (int, bool, error)

	// SetStock caches the amount of a product
	SetStock(ctx context.Context, productID int, amount int) error
}
