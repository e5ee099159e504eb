package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/rohanverma/vastra-backend/internal/catalog"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
)

type stubCatalogService struct {
	categories []catalog.CategoryDTO
	list       *catalog.ProductListResult
	product    *catalog.ProductDTO
	err        error

	gotList catalog.ListProductsInput
}

func (s *stubCatalogService) ListCategories(ctx context.Context) ([]catalog.CategoryDTO, error) {
	return s.categories, s.err
}

func (s *stubCatalogService) CreateCategory(ctx context.Context, input catalog.CreateCategoryInput) (*catalog.CategoryDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCatalogService) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input catalog.UpdateCategoryInput) (*catalog.CategoryDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCatalogService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCatalogService) ListProducts(ctx context.Context, input catalog.ListProductsInput) (*catalog.ProductListResult, error) {
	s.gotList = input
	return s.list, s.err
}

func (s *stubCatalogService) GetProduct(ctx context.Context, productID uuid.UUID, includeHidden bool) (*catalog.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCatalogService) UpdateProduct(ctx context.Context, productID uuid.UUID, input catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCatalogService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func TestCatalogProductsAppliesFilters(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	svc := &stubCatalogService{list: &catalog.ProductListResult{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?category_id="+categoryID.String()+"&q=shirt&limit=5", nil)
	resp := httptest.NewRecorder()

	CatalogProducts(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotList.IncludeHidden {
		t.Fatal("storefront listing must never include hidden products")
	}
	if svc.gotList.Filters.CategoryID == nil || *svc.gotList.Filters.CategoryID != categoryID {
		t.Fatalf("category filter not forwarded: %+v", svc.gotList.Filters)
	}
	if svc.gotList.Filters.Query != "shirt" {
		t.Fatalf("expected query filter shirt got %q", svc.gotList.Filters.Query)
	}
	if svc.gotList.Pagination.Limit != 5 {
		t.Fatalf("expected limit 5 got %d", svc.gotList.Pagination.Limit)
	}
}

func TestCatalogProductsRejectsBadCategoryID(t *testing.T) {
	t.Parallel()

	svc := &stubCatalogService{list: &catalog.ProductListResult{}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?category_id=not-a-uuid", nil)
	resp := httptest.NewRecorder()

	CatalogProducts(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminListProductsIncludesHidden(t *testing.T) {
	t.Parallel()

	svc := &stubCatalogService{list: &catalog.ProductListResult{}}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products", nil)
	resp := httptest.NewRecorder()

	AdminListProducts(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.gotList.IncludeHidden {
		t.Fatal("admin listing must include hidden products")
	}
}

func TestCatalogCategoriesEnvelope(t *testing.T) {
	t.Parallel()

	svc := &stubCatalogService{categories: []catalog.CategoryDTO{{ID: uuid.New(), Name: "Shirts"}}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/categories", nil)
	resp := httptest.NewRecorder()

	CatalogCategories(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var payload struct {
		Data struct {
			Categories []struct {
				Name string `json:"name"`
			} `json:"categories"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(payload.Data.Categories) != 1 || payload.Data.Categories[0].Name != "Shirts" {
		t.Fatalf("unexpected categories payload: %s", resp.Body.String())
	}
}
