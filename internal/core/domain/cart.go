package domain

import "fmt"

// Cart is the ordered list of line items, unique by product ID.
type Cart []Product

func (c Cart) IndexOf(productID int) int {
	for i, p := range c {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Find(productID int) (Product, bool) {
	if i := c.IndexOf(productID); i >= 0 {
		return c[i], true
	}
	return Product{}, false
}

// Clone returns a copy that never shares its backing array with c.
// A nil cart clones to an empty, non-nil cart so it serializes as [].
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

func (c Cart) Without(productID int) Cart {
	out := make(Cart, 0, len(c))
	for _, p := range c {
		if p.ID != productID {
			out = append(out, p)
		}
	}
	return out
}

func (c Cart) Total() float64 {
	var total float64
	for _, p := range c {
		total += p.Price * float64(p.Amount)
	}
	return total
}

func (c Cart) Validate() error {
	seen := make(map[int]struct{}, len(c))
	for _, p := range c {
		if p.Amount < 1 {
			return fmt.Errorf("%w: product %d has amount %d", ErrInvalidCart, p.ID, p.Amount)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate product %d", ErrInvalidCart, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
