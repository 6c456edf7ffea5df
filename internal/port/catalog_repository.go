package port

import (
	"context"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

type CatalogRepository interface {
	// GetProduct retrieves a product by ID, nil if it does not exist
	GetProduct(ctx context.Context, productID int) (*domain.Product, error)

	// ListProducts returns every product ordered by ID
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// GetStock retrieves the stock row of a product, nil if it does not exist
	GetStock(ctx context.Context, productID int) (*domain.StockRow, error)

	// UpdateStock writes a new amount with version check for optimistic locking
	UpdateStock(ctx context.Context, row domain.StockRow) error
}
