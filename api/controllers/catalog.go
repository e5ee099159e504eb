package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rohanverma/vastra-backend/api/responses"
	"github.com/rohanverma/vastra-backend/internal/catalog"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
	"github.com/rohanverma/vastra-backend/pkg/logger"
)

// CatalogCategories lists every category for storefront navigation.
func CatalogCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

// CatalogProducts serves the storefront product listing. Hidden products are
// never included on this surface.
func CatalogProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		input, err := productListInput(r, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// CatalogProductDetail serves a single product with its variants.
func CatalogProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func productListInput(r *http.Request, includeHidden bool) (catalog.ListProductsInput, error) {
	params, err := paginationParams(r)
	if err != nil {
		return catalog.ListProductsInput{}, err
	}

	filters := catalog.ProductListFilters{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("category_id")); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return catalog.ListProductsInput{}, pkgerrors.New(pkgerrors.CodeValidation, "category_id must be a uuid")
		}
		filters.CategoryID = &categoryID
	}

	return catalog.ListProductsInput{
		Filters:       filters,
		Pagination:    params,
		IncludeHidden: includeHidden,
	}, nil
}
