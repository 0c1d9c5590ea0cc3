package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/sureshop/sureshop-backend/internal/auth"
	cartsvc "github.com/sureshop/sureshop-backend/internal/cart"
	checkoutsvc "github.com/sureshop/sureshop-backend/internal/checkout"
	ordersvc "github.com/sureshop/sureshop-backend/internal/orders"
	paymentsvc "github.com/sureshop/sureshop-backend/internal/payments"
	productsvc "github.com/sureshop/sureshop-backend/internal/products"
	reviewsvc "github.com/sureshop/sureshop-backend/internal/reviews"
	"github.com/sureshop/sureshop-backend/internal/users"
	pkgAuth "github.com/sureshop/sureshop-backend/pkg/auth"
	"github.com/sureshop/sureshop-backend/pkg/config"
	"github.com/sureshop/sureshop-backend/pkg/enums"
	"github.com/sureshop/sureshop-backend/pkg/logger"
	"github.com/sureshop/sureshop-backend/pkg/pagination"
	"github.com/sureshop/sureshop-backend/pkg/redis"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.RefreshResponse, error) {
	return &authsvc.RefreshResponse{}, nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req authsvc.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (stubRegisterService) RegisterAdmin(ctx context.Context, req authsvc.AdminRegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubProductService struct{}

func (stubProductService) Create(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) Update(ctx context.Context, productID uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	return nil
}

func (stubProductService) Get(ctx context.Context, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) List(ctx context.Context, params pagination.Params) (*pagination.Page[productsvc.ProductDTO], error) {
	return &pagination.Page[productsvc.ProductDTO]{}, nil
}

func (stubProductService) Search(ctx context.Context, input productsvc.SearchInput) (*pagination.Page[productsvc.ProductDTO], error) {
	return &pagination.Page[productsvc.ProductDTO]{}, nil
}

func (stubProductService) Categories(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

type stubReviewService struct{}

func (stubReviewService) Add(ctx context.Context, userID, productID uuid.UUID, input reviewsvc.AddReviewInput) (*reviewsvc.ReviewDTO, error) {
	return &reviewsvc.ReviewDTO{}, nil
}

func (stubReviewService) List(ctx context.Context, productID uuid.UUID, params pagination.Params) (*pagination.Page[reviewsvc.ReviewDTO], error) {
	return &pagination.Page[reviewsvc.ReviewDTO]{}, nil
}

func (stubReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, input cartsvc.UpdateItemInput) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Checkout(ctx context.Context, userID uuid.UUID, input checkoutsvc.CheckoutInput) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

type stubOrderService struct{}

func (stubOrderService) Get(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrderService) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[ordersvc.OrderDTO], error) {
	return &pagination.Page[ordersvc.OrderDTO]{}, nil
}

func (stubOrderService) ListAll(ctx context.Context, params pagination.Params) (*pagination.Page[ordersvc.OrderDTO], error) {
	return &pagination.Page[ordersvc.OrderDTO]{}, nil
}

func (stubOrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

type stubPaymentService struct{}

func (stubPaymentService) CreateSession(ctx context.Context, userID uuid.UUID, input paymentsvc.CreateSessionInput) (*paymentsvc.SessionDTO, error) {
	return &paymentsvc.SessionDTO{}, nil
}

func (stubPaymentService) Confirm(ctx context.Context, userID uuid.UUID, input paymentsvc.ConfirmInput) (*paymentsvc.SessionDTO, error) {
	return &paymentsvc.SessionDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "sureshop",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		(*redis.Client)(nil),
		stubSessionChecker{},
		nil,
		Services{
			Auth:     stubAuthService{},
			Register: stubRegisterService{},
			Products: stubProductService{},
			Reviews:  stubReviewService{},
			Cart:     stubCartService{},
			Checkout: stubCheckoutService{},
			Orders:   stubOrderService{},
			Payments: stubPaymentService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "shopper",
		Role:     role,
		JTI:      uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())

	urls := []string{
		"/api/v1/products",
		"/api/v1/products/search",
		"/api/v1/products/top-rated",
		"/api/v1/products/categories",
		"/api/v1/products/category/kitchen",
	}
	for _, url := range urls {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", url, resp.Code)
		}
	}
}

func TestCartRequiresToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAdminRegisterHiddenInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.App.Env = "production"
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/register", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code == http.StatusCreated || resp.Code == http.StatusOK {
		t.Fatalf("expected admin register to be unavailable, got %d", resp.Code)
	}
}

func TestMoneyRoutesRequireIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg, enums.UserRoleUser)

	covered := []struct {
		method string
		url    string
	}{
		{http.MethodPost, "/api/v1/orders/checkout"},
		{http.MethodPut, "/api/v1/orders/" + uuid.NewString() + "/cancel"},
		{http.MethodPost, "/api/v1/payments/create-session"},
		{http.MethodPost, "/api/v1/payments/confirm"},
	}
	for _, tc := range covered {
		req := httptest.NewRequest(tc.method, tc.url, strings.NewReader("{}"))
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s %s: expected 400 without Idempotency-Key got %d", tc.method, tc.url, resp.Code)
		}
	}
}

func TestOrdersRequireToken(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}
