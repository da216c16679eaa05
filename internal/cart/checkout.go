package cart

import (
	"context"
	"fmt"

	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
	"github.com/mesaqr/mesaqr-backend/pkg/logger"
)

// OrderLine is one {id, quantity} pair of the order-creation wire format.
type OrderLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// OrderRequest is the body posted to the order-creation endpoint. It is built
// once per submission attempt from the current cart and discarded after.
type OrderRequest struct {
	Items      []OrderLine `json:"items"`
	IsDelivery bool        `json:"is_delivery"`
	Token      *string     `json:"token"`
}

// PlacementResult is what a successful order placement reports back.
type PlacementResult struct {
	OrderID     uint
	RedirectURL string
	Message     string
}

// OrderPlacer is the order-creation collaborator.
type OrderPlacer interface {
	Place(ctx context.Context, req OrderRequest) (*PlacementResult, error)
}

// SubmitResult is the submission outcome surfaced to the client.
type SubmitResult struct {
	OrderID     uint   `json:"order_id"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Message     string `json:"message"`
}

// Checkout drives the order submission handshake: guard the empty cart, derive
// the session context from the page path, place the order, and clear the cart
// only when placement succeeds. A failed placement leaves the cart untouched
// so retrying is cheap.
type Checkout struct {
	store  Store
	placer OrderPlacer
	logg   *logger.Logger
}

// NewCheckout wires the submission flow.
func NewCheckout(store Store, placer OrderPlacer, logg *logger.Logger) (*Checkout, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if placer == nil {
		return nil, fmt.Errorf("order placer required")
	}
	return &Checkout{store: store, placer: placer, logg: logg}, nil
}

// Submit places the session's cart as an order under the context derived from
// path. Exactly one placement request is issued per call.
func (c *Checkout) Submit(ctx context.Context, sessionID, path string) (*SubmitResult, error) {
	current := c.store.Read(ctx, sessionID)
	if len(current) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	sessCtx := SessionFromPath(path)

	req := OrderRequest{
		Items:      make([]OrderLine, 0, len(current)),
		IsDelivery: sessCtx.IsDelivery,
	}
	if !sessCtx.IsDelivery {
		token := sessCtx.Token
		req.Token = &token
	}
	for _, line := range current {
		req.Items = append(req.Items, OrderLine{ID: line.ID, Quantity: line.Quantity})
	}

	placed, err := c.placer.Place(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.store.Clear(ctx, sessionID); err != nil && c.logg != nil {
		// The order exists; a stale cart is recoverable on the next read.
		c.logg.Warn(c.logg.WithSessionID(ctx, sessionID), "checkout.clear_cart_failed")
	}

	message := placed.Message
	if message == "" {
		message = "order created"
	}

	return &SubmitResult{
		OrderID:     placed.OrderID,
		RedirectURL: placed.RedirectURL,
		Message:     message,
	}, nil
}
