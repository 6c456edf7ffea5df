package storage

import (
	"encoding/json"
	"fmt"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

// DefaultCartKey is the slot the storefront has always kept its cart under.
const DefaultCartKey = "@RocketShoes:cart"

func encodeCart(cart domain.Cart) ([]byte, error) {
	if cart == nil {
		cart = domain.Cart{}
	}
	return json.Marshal(cart)
}

func decodeCart(raw []byte) (domain.Cart, error) {
	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCart, err)
	}
	if cart == nil {
		cart = domain.Cart{}
	}
	return cart, nil
}
