package domain

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrInvalidCart        = errors.New("invalid cart")
	ErrStockConflict      = errors.New("stock updated concurrently")
)
