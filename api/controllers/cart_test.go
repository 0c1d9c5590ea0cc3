package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/sureshop/sureshop-backend/api/middleware"
	cartsvc "github.com/sureshop/sureshop-backend/internal/cart"
	pkgerrors "github.com/sureshop/sureshop-backend/pkg/errors"
)

type stubCartService struct {
	cart     *cartsvc.CartDTO
	err      error
	lastAdd  cartsvc.AddItemInput
	lastUser uuid.UUID
	cleared  bool
}

func (s *stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	s.lastUser = userID
	return s.cart, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.CartDTO, error) {
	s.lastUser = userID
	s.lastAdd = input
	return s.cart, s.err
}

func (s *stubCartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, input cartsvc.UpdateItemInput) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	s.cleared = true
	return s.err
}

func authedRequest(method, url string, userID uuid.UUID, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestGetCartSuccess(t *testing.T) {
	userID := uuid.New()
	cart := &cartsvc.CartDTO{ID: uuid.New(), Items: []cartsvc.CartItemDTO{}}
	svc := &stubCartService{cart: cart}
	handler := GetCart(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", userID, ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastUser != userID {
		t.Fatalf("expected user %s, got %s", userID, svc.lastUser)
	}
	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != cart.ID {
		t.Fatalf("unexpected cart id: %s", envelope.Data.ID)
	}
}

func TestCartItemCountSumsQuantities(t *testing.T) {
	userID := uuid.New()
	cart := &cartsvc.CartDTO{ID: uuid.New(), TotalQuantity: 7}
	svc := &stubCartService{cart: cart}
	handler := CartItemCount(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart/count", userID, ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastUser != userID {
		t.Fatalf("expected user %s, got %s", userID, svc.lastUser)
	}
	var envelope struct {
		Data map[string]int `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["count"] != 7 {
		t.Fatalf("unexpected count: %d", envelope.Data["count"])
	}
}

func TestGetCartMissingUserContext(t *testing.T) {
	handler := GetCart(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAddCartItemDecodesPayload(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	svc := &stubCartService{cart: &cartsvc.CartDTO{ID: uuid.New()}}
	handler := AddCartItem(svc, nil)

	body := `{"product_id":"` + productID.String() + `","quantity":3}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart", userID, body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastAdd.ProductID != productID || svc.lastAdd.Quantity != 3 {
		t.Fatalf("unexpected input: %+v", svc.lastAdd)
	}
}

func TestAddCartItemRejectsZeroQuantity(t *testing.T) {
	handler := AddCartItem(&stubCartService{}, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":0}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart", uuid.New(), body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAddCartItemOutOfStock(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock")}
	handler := AddCartItem(svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":2}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart", uuid.New(), body))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestClearCart(t *testing.T) {
	svc := &stubCartService{}
	handler := ClearCart(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodDelete, "/api/v1/cart", uuid.New(), ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.cleared {
		t.Fatal("expected cart to be cleared")
	}
}
