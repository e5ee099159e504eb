package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rohanverma/vastra-backend/pkg/db"
	"github.com/rohanverma/vastra-backend/pkg/db/models"
	"github.com/rohanverma/vastra-backend/pkg/enums"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
)

// Service exposes storefront browsing and back-office catalog management.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error

	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, productID uuid.UUID, includeHidden bool) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name string
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name *string
}

// VariantInput defines one color+size unit of a product.
type VariantInput struct {
	Color  string
	Size   enums.Size
	Price  decimal.Decimal
	Stock  int
	Images []string
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	CategoryID  uuid.UUID
	Title       string
	Description string
	IsActive    bool
	Variants    []VariantInput
}

// UpdateProductInput holds optional mutation values for a product. A non-nil
// Variants slice replaces the full variant set.
type UpdateProductInput struct {
	CategoryID  *uuid.UUID
	Title       *string
	Description *string
	IsActive    *bool
	Variants    *[]VariantInput
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewCategoryDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	created, err := s.repo.CreateCategory(ctx, &models.Category{Name: name})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_categories_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return NewCategoryDTO(created), nil
}

func (s *service) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
		}
		category.Name = name
	}

	updated, err := s.repo.UpdateCategory(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_categories_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	return NewCategoryDTO(updated), nil
}

func (s *service) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	count, err := s.repo.CountProductsInCategory(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products")
	}

	if err := s.repo.DeleteCategory(ctx, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	result, err := s.repo.ListProductSummaries(ctx, productListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
		ActiveOnly: !input.IncludeHidden,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID, includeHidden bool) (*ProductDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	if !product.IsActive && !includeHidden {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return NewProductDTO(product), nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if len(input.Variants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one variant is required")
	}
	if err := validateVariants(input.Variants); err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.FindCategoryByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}

		product := &models.Product{
			CategoryID:  input.CategoryID,
			Title:       title,
			Description: strings.TrimSpace(input.Description),
			IsActive:    input.IsActive,
		}
		created, err := txRepo.CreateProduct(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdID = created.ID

		if err := txRepo.ReplaceVariants(ctx, created.ID, buildVariantRows(created.ID, input.Variants)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert variants")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	product, err := s.repo.GetProductDetail(ctx, createdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Variants != nil {
		if len(*input.Variants) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one variant is required")
		}
		if err := validateVariants(*input.Variants); err != nil {
			return nil, err
		}
	}

	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if input.CategoryID != nil {
			if _, err := txRepo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, "category not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
			}
			product.CategoryID = *input.CategoryID
		}

		applyUpdateToProduct(product, input)
		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}

		if input.Variants != nil {
			if err := txRepo.ReplaceVariants(ctx, product.ID, buildVariantRows(product.ID, *input.Variants)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace variants")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	updated, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a product and relies on FK cascades for its variants.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func validateVariants(variants []VariantInput) error {
	seen := make(map[string]struct{}, len(variants))
	for _, variant := range variants {
		color := strings.TrimSpace(variant.Color)
		if color == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant color is required")
		}
		if !variant.Size.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid variant size")
		}
		if variant.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant price must be non-negative")
		}
		if variant.Stock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant stock must be non-negative")
		}
		key := strings.ToLower(color) + "|" + variant.Size.String()
		if _, ok := seen[key]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate variant color and size")
		}
		seen[key] = struct{}{}
	}
	return nil
}

func buildVariantRows(productID uuid.UUID, variants []VariantInput) []models.ProductVariant {
	rows := make([]models.ProductVariant, 0, len(variants))
	for _, variant := range variants {
		images := variant.Images
		if images == nil {
			images = []string{}
		}
		rows = append(rows, models.ProductVariant{
			ProductID: productID,
			Color:     strings.TrimSpace(variant.Color),
			Size:      variant.Size,
			Price:     variant.Price,
			Stock:     variant.Stock,
			Images:    images,
		})
	}
	return rows
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Title != nil {
		product.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}
