package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mesaqr/mesaqr-backend/api/middleware"
	cartsvc "github.com/mesaqr/mesaqr-backend/internal/cart"
	"github.com/mesaqr/mesaqr-backend/internal/orders"
	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
	"github.com/mesaqr/mesaqr-backend/pkg/logger"
)

type stubOrderService struct {
	place        func(ctx context.Context, req cartsvc.OrderRequest) (*cartsvc.PlacementResult, error)
	confirmation func(ctx context.Context, orderID uint) (*orders.ConfirmationView, error)
}

func (s stubOrderService) Place(ctx context.Context, req cartsvc.OrderRequest) (*cartsvc.PlacementResult, error) {
	if s.place != nil {
		return s.place(ctx, req)
	}
	return &cartsvc.PlacementResult{OrderID: 7, RedirectURL: "/order/confirmation/7", Message: "Pedido creado"}, nil
}

func (s stubOrderService) GetConfirmation(ctx context.Context, orderID uint) (*orders.ConfirmationView, error) {
	if s.confirmation != nil {
		return s.confirmation(ctx, orderID)
	}
	return &orders.ConfirmationView{OrderID: orderID}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test-controllers", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func decodeOutcome(t *testing.T, body []byte) orderOutcome {
	t.Helper()
	var outcome orderOutcome
	if err := json.Unmarshal(body, &outcome); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	return outcome
}

func TestCreateOrderSuccessEnvelope(t *testing.T) {
	var captured cartsvc.OrderRequest
	svc := stubOrderService{
		place: func(ctx context.Context, req cartsvc.OrderRequest) (*cartsvc.PlacementResult, error) {
			captured = req
			return &cartsvc.PlacementResult{OrderID: 7, RedirectURL: "/order/confirmation/7", Message: "Pedido creado"}, nil
		},
	}
	handler := CreateOrder(svc, testLogger())

	body := `{"items":[{"id":"42","quantity":1},{"id":"9","quantity":2}],"is_delivery":false,"token":"abc123"}`
	req := httptest.NewRequest(http.MethodPost, "/create_order", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	outcome := decodeOutcome(t, resp.Body.Bytes())
	if !outcome.Success {
		t.Fatalf("expected success envelope, got %s", resp.Body.String())
	}
	if outcome.OrderID != 7 || outcome.RedirectURL != "/order/confirmation/7" {
		t.Fatalf("unexpected envelope %+v", outcome)
	}
	if outcome.Message != "Pedido creado" {
		t.Fatalf("expected placement message, got %q", outcome.Message)
	}

	if len(captured.Items) != 2 || captured.Items[0].ID != "42" || captured.Items[1].Quantity != 2 {
		t.Fatalf("unexpected forwarded items %+v", captured.Items)
	}
	if captured.Token == nil || *captured.Token != "abc123" {
		t.Fatalf("expected token forwarded, got %+v", captured.Token)
	}
}

func TestCreateOrderInactiveTableReturnsRejectionEnvelope(t *testing.T) {
	svc := stubOrderService{
		place: func(ctx context.Context, req cartsvc.OrderRequest) (*cartsvc.PlacementResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Mesa inactiva")
		},
	}
	handler := CreateOrder(svc, testLogger())

	body := `{"items":[{"id":"42","quantity":1}],"token":"stale"}`
	req := httptest.NewRequest(http.MethodPost, "/create_order", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("rejections ride a 200 envelope, got %d", resp.Code)
	}
	outcome := decodeOutcome(t, resp.Body.Bytes())
	if outcome.Success {
		t.Fatalf("expected success:false, got %s", resp.Body.String())
	}
	if outcome.Error != "Mesa inactiva" {
		t.Fatalf("expected rejection reason, got %q", outcome.Error)
	}
}

func TestCreateOrderInfraErrorKeepsErrorStatus(t *testing.T) {
	svc := stubOrderService{
		place: func(ctx context.Context, req cartsvc.OrderRequest) (*cartsvc.PlacementResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "database unavailable")
		},
	}
	handler := CreateOrder(svc, testLogger())

	body := `{"items":[{"id":"42","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/create_order", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("infrastructure failures keep their status, got %d", resp.Code)
	}
}

func TestSubmitCartPlacesSessionCart(t *testing.T) {
	store := newCtrlMemStore()
	sessionID := "11111111-2222-3333-4444-555555555555"
	seed := cartsvc.Cart{{ID: "42", Name: "Roll A", Price: 3500, Quantity: 2}}
	if err := store.Write(context.Background(), sessionID, seed); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	var captured cartsvc.OrderRequest
	placer := stubOrderService{
		place: func(ctx context.Context, req cartsvc.OrderRequest) (*cartsvc.PlacementResult, error) {
			captured = req
			return &cartsvc.PlacementResult{OrderID: 7, RedirectURL: "/order/confirmation/7"}, nil
		},
	}
	checkout, err := cartsvc.NewCheckout(store, placer, testLogger())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	handler := SubmitCart(checkout, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", strings.NewReader(`{"path":"/menu/abc123"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	outcome := decodeOutcome(t, resp.Body.Bytes())
	if !outcome.Success || outcome.RedirectURL != "/order/confirmation/7" {
		t.Fatalf("unexpected envelope %s", resp.Body.String())
	}

	if captured.Token == nil || *captured.Token != "abc123" {
		t.Fatalf("expected table token derived from path, got %+v", captured.Token)
	}
	if len(store.Read(context.Background(), sessionID)) != 0 {
		t.Fatal("expected cart cleared after successful submission")
	}
}

func TestSubmitCartFailurePreservesCart(t *testing.T) {
	store := newCtrlMemStore()
	sessionID := "11111111-2222-3333-4444-555555555555"
	seed := cartsvc.Cart{{ID: "42", Name: "Roll A", Price: 3500, Quantity: 2}}
	if err := store.Write(context.Background(), sessionID, seed); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	placer := stubOrderService{
		place: func(ctx context.Context, req cartsvc.OrderRequest) (*cartsvc.PlacementResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Mesa inactiva")
		},
	}
	checkout, err := cartsvc.NewCheckout(store, placer, testLogger())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	handler := SubmitCart(checkout, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", strings.NewReader(`{"path":"/menu/abc123"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 envelope got %d", resp.Code)
	}
	outcome := decodeOutcome(t, resp.Body.Bytes())
	if outcome.Success || outcome.Error != "Mesa inactiva" {
		t.Fatalf("expected rejection envelope, got %s", resp.Body.String())
	}
	if len(store.Read(context.Background(), sessionID)) != 1 {
		t.Fatal("expected cart preserved after failed submission")
	}
}

func TestSubmitCartWithoutSessionFails(t *testing.T) {
	store := newCtrlMemStore()
	checkout, err := cartsvc.NewCheckout(store, stubOrderService{}, testLogger())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	handler := SubmitCart(checkout, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", strings.NewReader(`{"path":"/delivery"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without session got %d", resp.Code)
	}
}

func TestOrderConfirmationRejectsBadID(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/order/confirmation/{orderId}", OrderConfirmation(stubOrderService{}, testLogger()))

	req := httptest.NewRequest(http.MethodGet, "/order/confirmation/seven", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id got %d", resp.Code)
	}
}

func TestOrderConfirmationServesView(t *testing.T) {
	svc := stubOrderService{
		confirmation: func(ctx context.Context, orderID uint) (*orders.ConfirmationView, error) {
			return &orders.ConfirmationView{OrderID: orderID, Total: 30000, TotalDisplay: "30.000"}, nil
		},
	}
	r := chi.NewRouter()
	r.Get("/order/confirmation/{orderId}", OrderConfirmation(svc, testLogger()))

	req := httptest.NewRequest(http.MethodGet, "/order/confirmation/7", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data orders.ConfirmationView `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Data.OrderID != 7 || envelope.Data.TotalDisplay != "30.000" {
		t.Fatalf("unexpected confirmation %+v", envelope.Data)
	}
}
