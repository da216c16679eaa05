package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
)

type stubPlacer struct {
	requests []OrderRequest
	result   *PlacementResult
	err      error
}

func (p *stubPlacer) Place(_ context.Context, req OrderRequest) (*PlacementResult, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func newTestCheckout(t *testing.T, placer *stubPlacer) (*Checkout, Store) {
	t.Helper()
	store := NewStore(newFakeKV(), time.Hour, nil)
	checkout, err := NewCheckout(store, placer, nil)
	require.NoError(t, err)
	return checkout, store
}

func TestSubmitEmptyCartIssuesNoRequest(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{}
	checkout, _ := newTestCheckout(t, placer)

	_, err := checkout.Submit(context.Background(), "s1", "/menu/abc123")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, placer.requests, "no placement attempt for an empty cart")
}

func TestSubmitTableOrderCarriesTokenAndClearsCart(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{result: &PlacementResult{OrderID: 7, RedirectURL: "/order/confirmation/7"}}
	checkout, store := newTestCheckout(t, placer)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "s1", Cart{
		{ID: "42", Name: "Roll A", Price: 3500, Quantity: 1},
		{ID: "9", Name: "Sopa", Price: 15000, Quantity: 2},
	}))

	result, err := checkout.Submit(ctx, "s1", "/menu/abc123")
	require.NoError(t, err)

	assert.Equal(t, uint(7), result.OrderID)
	assert.Equal(t, "/order/confirmation/7", result.RedirectURL)
	assert.Equal(t, "order created", result.Message)

	require.Len(t, placer.requests, 1)
	req := placer.requests[0]
	assert.False(t, req.IsDelivery)
	require.NotNil(t, req.Token)
	assert.Equal(t, "abc123", *req.Token)
	assert.Equal(t, []OrderLine{{ID: "42", Quantity: 1}, {ID: "9", Quantity: 2}}, req.Items)

	assert.Empty(t, store.Read(ctx, "s1"), "successful placement clears the cart")
}

func TestSubmitDeliveryOrderHasNoToken(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{result: &PlacementResult{OrderID: 3}}
	checkout, store := newTestCheckout(t, placer)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "s1", Cart{{ID: "1", Name: "X", Price: 100, Quantity: 1}}))

	_, err := checkout.Submit(ctx, "s1", "/menu/delivery")
	require.NoError(t, err)

	require.Len(t, placer.requests, 1)
	assert.True(t, placer.requests[0].IsDelivery)
	assert.Nil(t, placer.requests[0].Token)
}

func TestSubmitFailurePreservesCart(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{err: pkgerrors.New(pkgerrors.CodeForbidden, "Mesa inactiva")}
	checkout, store := newTestCheckout(t, placer)
	ctx := context.Background()

	cart := Cart{{ID: "1", Name: "X", Price: 100, Quantity: 1}}
	require.NoError(t, store.Write(ctx, "s1", cart))

	_, err := checkout.Submit(ctx, "s1", "/menu/abc123")
	require.Error(t, err)
	assert.Equal(t, "Mesa inactiva", pkgerrors.As(err).Message())

	assert.Equal(t, cart, store.Read(ctx, "s1"), "failed placement must not touch the cart")
}

func TestSubmitUsesPlacerMessageWhenPresent(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{result: &PlacementResult{OrderID: 5, Message: "Pedido creado"}}
	checkout, store := newTestCheckout(t, placer)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "s1", Cart{{ID: "1", Name: "X", Price: 100, Quantity: 1}}))

	result, err := checkout.Submit(ctx, "s1", "/delivery")
	require.NoError(t, err)
	assert.Equal(t, "Pedido creado", result.Message)
}
