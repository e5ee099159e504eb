package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohanverma/vastra-backend/pkg/db/models"
	"github.com/rohanverma/vastra-backend/pkg/enums"
	"github.com/rohanverma/vastra-backend/pkg/pagination"
)

// CategoryDTO is the transport shape of a category.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VariantDTO is the transport shape of a purchasable variant.
type VariantDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Color     string          `json:"color"`
	Size      enums.Size      `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Images    []string        `json:"images"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductDTO is the full product detail, variants included.
type ProductDTO struct {
	ID          uuid.UUID    `json:"id"`
	CategoryID  uuid.UUID    `json:"category_id"`
	Category    *CategoryDTO `json:"category,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	IsActive    bool         `json:"is_active"`
	Variants    []VariantDTO `json:"variants"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ProductSummary is the lightweight listing row for browse endpoints.
type ProductSummary struct {
	ID           uuid.UUID        `json:"id"`
	Title        string           `json:"title"`
	CategoryID   uuid.UUID        `json:"category_id"`
	CategoryName string           `json:"category_name"`
	IsActive     bool             `json:"is_active"`
	PriceFrom    *decimal.Decimal `json:"price_from,omitempty"`
	VariantCount int              `json:"variant_count"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListResult carries a page of summaries plus the cursor for the next page.
type ProductListResult struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Query      string     `json:"q,omitempty"`
}

// ListProductsInput captures the inputs needed to paginate/filter products.
type ListProductsInput struct {
	Filters       ProductListFilters
	Pagination    pagination.Params
	IncludeHidden bool
}

// NewCategoryDTO maps a category model to its transport shape.
func NewCategoryDTO(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewVariantDTO maps a variant model to its transport shape.
func NewVariantDTO(v models.ProductVariant) VariantDTO {
	images := make([]string, len(v.Images))
	copy(images, v.Images)
	return VariantDTO{
		ID:        v.ID,
		ProductID: v.ProductID,
		Color:     v.Color,
		Size:      v.Size,
		Price:     v.Price,
		Stock:     v.Stock,
		Images:    images,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

// NewProductDTO maps a product model and its loaded associations.
func NewProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	variants := make([]VariantDTO, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, NewVariantDTO(v))
	}
	return &ProductDTO{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Category:    NewCategoryDTO(p.Category),
		Title:       p.Title,
		Description: p.Description,
		IsActive:    p.IsActive,
		Variants:    variants,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
