package port

import (
	"context"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

type CartStorage interface {
	// Load returns the persisted cart, or an empty cart when the slot is unset
	Load(ctx context.Context) (domain.Cart, error)

	// Save overwrites the slot with the whole cart
	Save(ctx context.Context, cart domain.Cart) error
}
