package service

import (
	"errors"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

// Outcome is the typed result of a cart mutation, for callers that pick
// their own wording.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeOutOfStock
	OutcomeNotFound
	OutcomeTransportError
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeOutOfStock:
		return "out_of_stock"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return "failed"
	}
}

func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrOutOfStock):
		return OutcomeOutOfStock
	case errors.Is(err, ErrNotInCart), errors.Is(err, domain.ErrProductNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return OutcomeTransportError
	default:
		return OutcomeFailed
	}
}
