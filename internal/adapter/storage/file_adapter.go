package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

// FileAdapter stores string slots in one JSON object on disk, the way a
// browser keeps local storage. Only the cart key is touched.
type FileAdapter struct {
	mu   sync.Mutex
	path string
	key  string
}

func NewFileAdapter(path, key string) *FileAdapter {
	if key == "" {
		key = DefaultCartKey
	}
	return &FileAdapter{path: path, key: key}
}

func (f *FileAdapter) Load(ctx context.Context) (domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.readSlots()
	if err != nil {
		return nil, err
	}

	value, ok := slots[f.key]
	if !ok {
		return domain.Cart{}, nil
	}
	return decodeCart([]byte(value))
}

func (f *FileAdapter) Save(ctx context.Context, cart domain.Cart) error {
	raw, err := encodeCart(cart)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.readSlots()
	if errors.Is(err, domain.ErrInvalidCart) {
		slots = make(map[string]string)
	} else if err != nil {
		return err
	}
	slots[f.key] = string(raw)

	return f.writeSlots(slots)
}

func (f *FileAdapter) readSlots() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	slots := make(map[string]string)
	if len(data) == 0 {
		return slots, nil
	}
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidCart, f.path, err)
	}
	return slots, nil
}

// writeSlots replaces the file atomically.
func (f *FileAdapter) writeSlots(slots map[string]string) error {
	data, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".cart-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return os.Rename(tmp.Name(), f.path)
}
