package storage

import (
	"context"
	"sync"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

// MemoryAdapter is a process-local cart slot. The cart is kept serialized so
// it behaves like the persistent backends.
type MemoryAdapter struct {
	mu  sync.RWMutex
	raw []byte
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{}
}

func (m *MemoryAdapter) Load(ctx context.Context) (domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.raw == nil {
		return domain.Cart{}, nil
	}
	return decodeCart(m.raw)
}

func (m *MemoryAdapter) Save(ctx context.Context, cart domain.Cart) error {
	raw, err := encodeCart(cart)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.raw = raw
	m.mu.Unlock()
	return nil
}

// Raw returns the serialized slot, nil when nothing was saved yet.
func (m *MemoryAdapter) Raw() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.raw...)
}
