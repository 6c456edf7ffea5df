package domain

import (
	"errors"
	"testing"
)

func sampleCart() Cart {
	return Cart{
		{ID: 1, Title: "Tênis de Caminhada", Price: 179.9, Amount: 2},
		{ID: 3, Title: "Tênis Adidas Duramo", Price: 219.9, Amount: 1},
	}
}

func TestCart_IndexOf(t *testing.T) {
	cart := sampleCart()

	if i := cart.IndexOf(3); i != 1 {
		t.Errorf("expected index 1, got %d", i)
	}
	if i := cart.IndexOf(42); i != -1 {
		t.Errorf("expected -1 for missing product, got %d", i)
	}
}

func TestCart_CloneIsIndependent(t *testing.T) {
	cart := sampleCart()
	clone := cart.Clone()
	clone[0].Amount = 99

	if cart[0].Amount != 2 {
		t.Errorf("clone mutation leaked into original: amount %d", cart[0].Amount)
	}

	var empty Cart
	if empty.Clone() == nil {
		t.Error("expected non-nil clone of nil cart")
	}
}

func TestCart_Without(t *testing.T) {
	cart := sampleCart()
	out := cart.Without(1)

	if len(out) != 1 || out[0].ID != 3 {
		t.Errorf("unexpected cart after removal: %+v", out)
	}
	if len(cart) != 2 {
		t.Errorf("original cart modified: %+v", cart)
	}
}

func TestCart_Total(t *testing.T) {
	cart := Cart{
		{ID: 1, Price: 10, Amount: 3},
		{ID: 2, Price: 2.5, Amount: 2},
	}
	if total := cart.Total(); total != 35 {
		t.Errorf("expected total 35, got %v", total)
	}
}

func TestCart_Validate(t *testing.T) {
	if err := sampleCart().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	zero := Cart{{ID: 1, Amount: 0}}
	if err := zero.Validate(); !errors.Is(err, ErrInvalidCart) {
		t.Errorf("expected ErrInvalidCart for zero amount, got %v", err)
	}

	dup := Cart{{ID: 1, Amount: 1}, {ID: 1, Amount: 2}}
	if err := dup.Validate(); !errors.Is(err, ErrInvalidCart) {
		t.Errorf("expected ErrInvalidCart for duplicate id, got %v", err)
	}
}
