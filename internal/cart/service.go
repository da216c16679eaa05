package cart

import (
	"context"
	"fmt"

	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
)

// Service exposes the cart mutations. Every mutation reads the persisted cart,
// applies the change, writes it back, and returns the refreshed view so the
// caller always renders from the single source of truth.
type Service interface {
	View(ctx context.Context, sessionID string) *CartView
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*CartView, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*CartView, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*CartView, error)
	Clear(ctx context.Context, sessionID string) (*CartView, error)
}

type service struct {
	store Store
}

// NewService builds a cart service backed by the provided store.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	return &service{store: store}, nil
}

// AddItemInput carries one addition to the cart.
type AddItemInput struct {
	ID       string
	Name     string
	Price    int64
	Quantity int
}

// View renders the current cart without mutating it.
func (s *service) View(ctx context.Context, sessionID string) *CartView {
	return Render(s.store.Read(ctx, sessionID))
}

// AddItem merges the addition into an existing line for the same id or appends
// a new line. Quantity deltas are additive, never replaced.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*CartView, error) {
	if input.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	current := s.store.Read(ctx, sessionID)

	merged := false
	for i := range current {
		if current[i].ID == input.ID {
			current[i].Quantity += input.Quantity
			merged = true
			break
		}
	}
	if !merged {
		current = append(current, Line{
			ID:       input.ID,
			Name:     input.Name,
			Price:    input.Price,
			Quantity: input.Quantity,
		})
	}

	if err := s.store.Write(ctx, sessionID, current); err != nil {
		return nil, err
	}
	return Render(current), nil
}

// RemoveItem deletes the matching line entirely. Removing an id that is not in
// the cart is a no-op, not an error.
func (s *service) RemoveItem(ctx context.Context, sessionID, itemID string) (*CartView, error) {
	current := s.store.Read(ctx, sessionID)

	kept := current[:0]
	for _, line := range current {
		if line.ID != itemID {
			kept = append(kept, line)
		}
	}

	if err := s.store.Write(ctx, sessionID, kept); err != nil {
		return nil, err
	}
	return Render(kept), nil
}

// UpdateQuantity sets the line's quantity to exactly the given value. A zero
// or negative quantity removes the line. Unknown ids are a no-op.
func (s *service) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, itemID)
	}

	current := s.store.Read(ctx, sessionID)
	for i := range current {
		if current[i].ID == itemID {
			current[i].Quantity = quantity
			break
		}
	}

	if err := s.store.Write(ctx, sessionID, current); err != nil {
		return nil, err
	}
	return Render(current), nil
}

// Clear erases the cart.
func (s *service) Clear(ctx context.Context, sessionID string) (*CartView, error) {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return nil, err
	}
	return Render(Cart{}), nil
}
