package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mesaqr/mesaqr-backend/api/middleware"
	cartsvc "github.com/mesaqr/mesaqr-backend/internal/cart"
)

type ctrlMemStore struct {
	mu    sync.Mutex
	carts map[string]cartsvc.Cart
}

func newCtrlMemStore() *ctrlMemStore {
	return &ctrlMemStore{carts: map[string]cartsvc.Cart{}}
}

func (m *ctrlMemStore) Read(ctx context.Context, sessionID string) cartsvc.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(cartsvc.Cart{}, m.carts[sessionID]...)
}

func (m *ctrlMemStore) Write(ctx context.Context, sessionID string, c cartsvc.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[sessionID] = append(cartsvc.Cart{}, c...)
	return nil
}

func (m *ctrlMemStore) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

func newCartHandlersService(t *testing.T) (cartsvc.Service, *ctrlMemStore) {
	t.Helper()
	store := newCtrlMemStore()
	svc, err := cartsvc.NewService(store)
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	return svc, store
}

func sessionRequest(method, target, body, sessionID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req = req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
	}
	return req
}

func decodeCartView(t *testing.T, body []byte) cartsvc.CartView {
	t.Helper()
	var envelope struct {
		Data cartsvc.CartView `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode cart view: %v", err)
	}
	return envelope.Data
}

func TestCartFetchWithoutSessionFails(t *testing.T) {
	svc, _ := newCartHandlersService(t)
	handler := CartFetch(svc, testLogger())

	resp := httptest.NewRecorder()
	handler(resp, sessionRequest(http.MethodGet, "/api/v1/cart", "", ""))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without session got %d", resp.Code)
	}
}

func TestCartAddItemDefaultsQuantityToOne(t *testing.T) {
	svc, _ := newCartHandlersService(t)
	handler := CartAddItem(svc, testLogger())

	body := `{"id":"42","name":"Roll A","price":3500}`
	resp := httptest.NewRecorder()
	handler(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", body, "sess-1"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	view := decodeCartView(t, resp.Body.Bytes())
	if view.ItemCount != 1 || view.Total != 3500 {
		t.Fatalf("expected one item totalling 3500, got %+v", view)
	}
}

func TestCartAddItemMergesSameID(t *testing.T) {
	svc, _ := newCartHandlersService(t)
	handler := CartAddItem(svc, testLogger())

	first := `{"id":"1","name":"Empanada","price":1000,"quantity":2}`
	resp := httptest.NewRecorder()
	handler(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", first, "sess-1"))
	if resp.Code != http.StatusOK {
		t.Fatalf("first add failed: %d", resp.Code)
	}

	second := `{"id":"1","name":"Empanada","price":1000,"quantity":3}`
	resp = httptest.NewRecorder()
	handler(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", second, "sess-1"))
	if resp.Code != http.StatusOK {
		t.Fatalf("second add failed: %d", resp.Code)
	}

	view := decodeCartView(t, resp.Body.Bytes())
	if len(view.Lines) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(view.Lines))
	}
	if view.Lines[0].Quantity != 5 || view.Total != 5000 {
		t.Fatalf("expected quantity 5 totalling 5000, got %+v", view)
	}
}

func TestCartAddItemRejectsMissingName(t *testing.T) {
	svc, store := newCartHandlersService(t)
	handler := CartAddItem(svc, testLogger())

	body := `{"id":"42","price":3500}`
	resp := httptest.NewRecorder()
	handler(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", body, "sess-1"))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if got := store.Read(context.Background(), "sess-1"); len(got) != 0 {
		t.Fatalf("rejected add must not persist, cart has %d lines", len(got))
	}
}

func TestCartUpdateQuantityZeroRemovesLine(t *testing.T) {
	svc, store := newCartHandlersService(t)
	seed := cartsvc.Cart{{ID: "42", Name: "Roll A", Price: 3500, Quantity: 2}}
	if err := store.Write(context.Background(), "sess-1", seed); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	handler := CartUpdateQuantity(svc, testLogger())

	body := `{"id":"42","quantity":0}`
	resp := httptest.NewRecorder()
	handler(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items/quantity", body, "sess-1"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	view := decodeCartView(t, resp.Body.Bytes())
	if !view.Empty {
		t.Fatalf("expected empty cart after zero quantity, got %+v", view)
	}
}

func TestCartRemoveItemIsIdempotent(t *testing.T) {
	svc, _ := newCartHandlersService(t)
	handler := CartRemoveItem(svc, testLogger())

	body := `{"id":"missing"}`
	resp := httptest.NewRecorder()
	handler(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items/remove", body, "sess-1"))

	if resp.Code != http.StatusOK {
		t.Fatalf("removing an absent line is a no-op, got %d", resp.Code)
	}
}

func TestCartClearEmptiesSession(t *testing.T) {
	svc, store := newCartHandlersService(t)
	seed := cartsvc.Cart{{ID: "42", Name: "Roll A", Price: 3500, Quantity: 1}}
	if err := store.Write(context.Background(), "sess-1", seed); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	handler := CartClear(svc, testLogger())

	resp := httptest.NewRecorder()
	handler(resp, sessionRequest(http.MethodPost, "/api/v1/cart/clear", "", "sess-1"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := store.Read(context.Background(), "sess-1"); len(got) != 0 {
		t.Fatalf("expected cleared cart, has %d lines", len(got))
	}
}
