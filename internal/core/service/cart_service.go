package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
	"github.com/rl1809/rocketshoes-cart/internal/port"
)

var (
	ErrOutOfStock = errors.New("requested amount out of stock")
	ErrNotInCart  = errors.New("product not in cart")
	ErrClosed     = errors.New("cart service closed")
)

type UpdateProductAmount struct {
	ProductID int `json:"productId"`
	Amount    int `json:"amount"`
}

type command struct {
	ctx   context.Context
	run   func(ctx context.Context) error
	reply chan error
}

// CartService owns the cart. Reads are served from memory; every mutation is
// handed to a single writer goroutine so a read-modify-write, network calls
// included, never interleaves with another.
type CartService struct {
	storage port.CartStorage
	catalog port.Catalog
	log     *logrus.Entry
	tracer  trace.Tracer

	mu   sync.RWMutex
	cart domain.Cart

	commands  chan command
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewCartService(ctx context.Context, storage port.CartStorage, catalog port.Catalog, log *logrus.Entry) (*CartService, error) {
	cart, err := storage.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCart) {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		log.WithError(err).Warn("discarding unreadable stored cart")
		cart = nil
	} else if err := cart.Validate(); err != nil {
		log.WithError(err).Warn("discarding unreadable stored cart")
		cart = nil
	}

	s := &CartService{
		storage:  storage,
		catalog:  catalog,
		log:      log,
		tracer:   otel.Tracer("cartservice"),
		cart:     cart.Clone(),
		commands: make(chan command),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.writerLoop()

	log.WithField("items", len(s.cart)).Info("cart hydrated")
	return s, nil
}

// Cart returns a snapshot of the current cart.
func (s *CartService) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

func (s *CartService) AddProduct(ctx context.Context, productID int) error {
	ctx, span := s.startSpan(ctx, "AddProduct", productID)
	defer span.End()

	err := s.submit(ctx, func(ctx context.Context) error {
		cart := s.Cart()
		idx := cart.IndexOf(productID)

		current := 0
		if idx >= 0 {
			current = cart[idx].Amount
		}

		stock, err := s.catalog.GetStock(ctx, productID)
		if err != nil {
			return fmt.Errorf("stock lookup: %w", err)
		}
		if stock.Amount < current+1 {
			return ErrOutOfStock
		}

		if idx >= 0 {
			cart[idx].Amount++
		} else {
			product, err := s.catalog.GetProduct(ctx, productID)
			if err != nil {
				return fmt.Errorf("product lookup: %w", err)
			}
			if product.ID != productID {
				return fmt.Errorf("product lookup: %w: catalog answered with product %d", domain.ErrProductNotFound, product.ID)
			}
			product.Amount = 1
			cart = append(cart, product)
		}

		return s.commit(ctx, cart)
	})

	return s.endSpan(span, err)
}

func (s *CartService) RemoveProduct(ctx context.Context, productID int) error {
	ctx, span := s.startSpan(ctx, "RemoveProduct", productID)
	defer span.End()

	err := s.submit(ctx, func(ctx context.Context) error {
		cart := s.Cart()
		if cart.IndexOf(productID) < 0 {
			return ErrNotInCart
		}
		return s.commit(ctx, cart.Without(productID))
	})

	return s.endSpan(span, err)
}

// UpdateProductAmount sets the amount of a line item. Non-positive amounts and
// products that are not in the cart are ignored.
func (s *CartService) UpdateProductAmount(ctx context.Context, req UpdateProductAmount) error {
	ctx, span := s.startSpan(ctx, "UpdateProductAmount", req.ProductID)
	defer span.End()
	span.SetAttributes(attribute.Int("app.amount", req.Amount))

	if req.Amount <= 0 {
		return nil
	}

	err := s.submit(ctx, func(ctx context.Context) error {
		stock, err := s.catalog.GetStock(ctx, req.ProductID)
		if err != nil {
			return fmt.Errorf("stock lookup: %w", err)
		}
		if stock.Amount < req.Amount {
			return ErrOutOfStock
		}

		cart := s.Cart()
		idx := cart.IndexOf(req.ProductID)
		if idx < 0 {
			return nil
		}
		cart[idx].Amount = req.Amount

		return s.commit(ctx, cart)
	})

	return s.endSpan(span, err)
}

// Close stops the writer. Mutations submitted afterwards return ErrClosed.
func (s *CartService) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	<-s.done
}

// commit persists first and only then swaps the in-memory cart.
func (s *CartService) commit(ctx context.Context, cart domain.Cart) error {
	if err := s.storage.Save(ctx, cart); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}

	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()
	return nil
}

func (s *CartService) submit(ctx context.Context, run func(ctx context.Context) error) error {
	reply := make(chan error, 1)

	select {
	case s.commands <- command{ctx: ctx, run: run, reply: reply}:
	case <-s.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	return <-reply
}

func (s *CartService) writerLoop() {
	defer close(s.done)

	for {
		select {
		case cmd := <-s.commands:
			cmd.reply <- cmd.run(cmd.ctx)
		case <-s.quit:
			return
		}
	}
}

func (s *CartService) startSpan(ctx context.Context, name string, productID int) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, name)
	span.SetAttributes(attribute.Int("app.product_id", productID))
	return ctx, span
}

func (s *CartService) endSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
