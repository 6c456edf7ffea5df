package port

import (
	"context"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

// Catalog is the remote stock and product authority the cart validates against.
type Catalog interface {
	// GetStock returns the available quantity for a product
	GetStock(ctx context.Context, productID int) (domain.Stock, error)

	// GetProduct returns the catalog record of a product, without a cart amount
	GetProduct(ctx context.Context, productID int) (domain.Product, error)
}
