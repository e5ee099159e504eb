package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rohanverma/vastra-backend/internal/address"
	"github.com/rohanverma/vastra-backend/internal/auth"
	"github.com/rohanverma/vastra-backend/internal/catalog"
	checkoutsvc "github.com/rohanverma/vastra-backend/internal/checkout"
	"github.com/rohanverma/vastra-backend/internal/orders"
	pkgAuth "github.com/rohanverma/vastra-backend/pkg/auth"
	"github.com/rohanverma/vastra-backend/pkg/auth/session"
	"github.com/rohanverma/vastra-backend/pkg/config"
	"github.com/rohanverma/vastra-backend/pkg/enums"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
	"github.com/rohanverma/vastra-backend/pkg/logger"
	"github.com/rohanverma/vastra-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

func (stubAuthService) AdminLogin(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListCategories(ctx context.Context) ([]catalog.CategoryDTO, error) {
	return []catalog.CategoryDTO{}, nil
}

func (stubCatalogService) CreateCategory(ctx context.Context, input catalog.CreateCategoryInput) (*catalog.CategoryDTO, error) {
	return &catalog.CategoryDTO{}, nil
}

func (stubCatalogService) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input catalog.UpdateCategoryInput) (*catalog.CategoryDTO, error) {
	return &catalog.CategoryDTO{}, nil
}

func (stubCatalogService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	return nil
}

func (stubCatalogService) ListProducts(ctx context.Context, input catalog.ListProductsInput) (*catalog.ProductListResult, error) {
	return &catalog.ProductListResult{}, nil
}

func (stubCatalogService) GetProduct(ctx context.Context, productID uuid.UUID, includeHidden bool) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) UpdateProduct(ctx context.Context, productID uuid.UUID, input catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return nil
}

type stubAddressService struct{}

func (stubAddressService) List(ctx context.Context, userID uuid.UUID) ([]address.AddressDTO, error) {
	return []address.AddressDTO{}, nil
}

func (stubAddressService) Create(ctx context.Context, userID uuid.UUID, req address.CreateAddressRequest) (*address.AddressDTO, error) {
	return &address.AddressDTO{}, nil
}

func (stubAddressService) Update(ctx context.Context, userID, addressID uuid.UUID, req address.UpdateAddressRequest) (*address.AddressDTO, error) {
	return &address.AddressDTO{}, nil
}

func (stubAddressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*address.AddressDTO, error) {
	return &address.AddressDTO{}, nil
}

func (stubAddressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	return nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Execute(ctx context.Context, userID uuid.UUID, req checkoutsvc.CheckoutRequest) (*checkoutsvc.CheckoutResponse, error) {
	return &checkoutsvc.CheckoutResponse{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (stubOrdersService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (stubOrdersService) AdminList(ctx context.Context, params pagination.Params, status *enums.OrderStatus) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (stubOrdersService) AdminGet(ctx context.Context, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (stubOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus) (*orders.OrderDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (stubOrdersService) VerifyPayment(ctx context.Context, input orders.VerifyPaymentInput) (*orders.OrderDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "vastra-test", ExpirationMinutes: 60},
		RateLimit: config.RateLimitConfig{
			Enabled: false,
		},
		Idempotency: config.IdempotencyConfig{
			CheckoutTTL: 7 * 24 * time.Hour,
			AdminTTL:    24 * time.Hour,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	return NewRouter(
		cfg,
		logger.New(logger.Options{ServiceName: "router-test"}),
		stubPinger{},
		nil,
		nil,
		stubSessionChecker{},
		stubAuthService{},
		stubRegisterService{},
		stubCatalogService{},
		stubAddressService{},
		stubCheckoutService{},
		stubOrdersService{},
	)
}

func mintToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterPublicSurface(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	cases := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"health live", http.MethodGet, "/health/live", http.StatusOK},
		{"health ready", http.MethodGet, "/health/ready", http.StatusOK},
		{"public ping", http.MethodGet, "/api/public/ping", http.StatusOK},
		{"catalog categories", http.MethodGet, "/api/v1/catalog/categories", http.StatusOK},
		{"catalog products", http.MethodGet, "/api/v1/catalog/products", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, resp.Code)
		}
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/addresses/"},
		{http.MethodPost, "/api/v1/checkout"},
		{http.MethodGet, "/api/v1/orders/"},
		{http.MethodGet, "/api/admin/v1/products/"},
	}

	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestRouterAdminRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := mintToken(t, cfg, enums.UserRoleCustomer)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRouterAdminAccess(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := mintToken(t, cfg, enums.UserRoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterAuthedCustomerSurface(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := mintToken(t, cfg, enums.UserRoleCustomer)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/addresses/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
