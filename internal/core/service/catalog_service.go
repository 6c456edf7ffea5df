package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
	"github.com/rl1809/rocketshoes-cart/internal/port"
)

const stockUpdateAttempts = 3

var ErrInvalidStock = errors.New("stock amount must not be negative")

// CatalogService answers stock and product queries for the storefront.
// Stock reads go through the cache and fall back to the repository.
type CatalogService struct {
	repo  port.CatalogRepository
	cache port.StockCache
	log   *logrus.Entry
}

func NewCatalogService(repo port.CatalogRepository, cache port.StockCache, log *logrus.Entry) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, log: log}
}

func (s *CatalogService) GetStock(ctx context.Context, productID int) (domain.Stock, error) {
	amount, ok, err := s.cache.GetStock(ctx, productID)
	if err != nil {
		s.log.WithError(err).WithField("product_id", productID).Warn("stock cache read failed")
	} else if ok {
		return domain.Stock{ProductID: productID, Amount: amount}, nil
	}

	row, err := s.repo.GetStock(ctx, productID)
	if err != nil {
		return domain.Stock{}, fmt.Errorf("get stock: %w", err)
	}
	if row == nil {
		return domain.Stock{}, domain.ErrProductNotFound
	}

	if err := s.cache.SetStock(ctx, productID, row.Amount); err != nil {
		s.log.WithError(err).WithField("product_id", productID).Warn("stock cache write failed")
	}

	return row.Stock, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID int) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return *product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// SetStock overwrites the available amount of a product, retrying when a
// concurrent writer bumps the row version first.
func (s *CatalogService) SetStock(ctx context.Context, productID int, amount int) error {
	if amount < 0 {
		return ErrInvalidStock
	}

	for attempt := 0; attempt < stockUpdateAttempts; attempt++ {
		row, err := s.repo.GetStock(ctx, productID)
		if err != nil {
			return fmt.Errorf("get stock: %w", err)
		}
		if row == nil {
			return domain.ErrProductNotFound
		}

		row.Amount = amount
		err = s.repo.UpdateStock(ctx, *row)
		if errors.Is(err, domain.ErrStockConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("update stock: %w", err)
		}

		if err := s.cache.SetStock(ctx, productID, amount); err != nil {
			s.log.WithError(err).WithField("product_id", productID).Warn("stock cache write failed")
		}
		return nil
	}

	return domain.ErrStockConflict
}
