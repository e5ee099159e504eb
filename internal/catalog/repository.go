package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rohanverma/vastra-backend/pkg/db/models"
	"github.com/rohanverma/vastra-backend/pkg/pagination"
)

// Repository wires together category, product, and variant persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListCategories returns every category ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindCategoryByID loads a single category.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a new category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory saves the category row.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category by ID.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

// CountProductsInCategory reports how many products still reference a category.
func (r *Repository) CountProductsInCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).
		Error
	return count, err
}

// FindProductByID loads the product without associations.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductDetail fetches a product with its category and variants.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID. Variants go with it via FK cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// ReplaceVariants swaps out all variants for the product.
func (r *Repository) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.ProductVariant) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}
	return tx.Create(&variants).Error
}

// FindVariantByID loads a single variant.
func (r *Repository) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// FindVariantsByIDs loads the requested variants with their products in one
// query. Callers must check the returned map for IDs that did not resolve.
func (r *Repository) FindVariantsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.ProductVariant, error) {
	var rows []models.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id IN ?", ids).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.ProductVariant, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	return byID, nil
}

type productListQuery struct {
	Pagination pagination.Params
	Filters    ProductListFilters
	ActiveOnly bool
}

// ListProductSummaries paginates the storefront/product-admin listing with
// keyset cursors over (created_at, id).
func (r *Repository) ListProductSummaries(ctx context.Context, query productListQuery) (*ProductListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Table("products p").
		Select(strings.Join([]string{
			"p.id",
			"p.title",
			"p.category_id",
			"c.name AS category_name",
			"p.is_active",
			"p.created_at",
			"p.updated_at",
			"(SELECT MIN(v.price) FROM product_variants v WHERE v.product_id = p.id) AS price_from",
			"(SELECT COUNT(*) FROM product_variants v WHERE v.product_id = p.id) AS variant_count",
		}, ", ")).
		Joins("JOIN categories c ON c.id = p.category_id")

	filter := query.Filters
	if filter.CategoryID != nil {
		qb = qb.Where("p.category_id = ?", *filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("LOWER(p.title) LIKE ?", pattern)
	}
	if query.ActiveOnly {
		qb = qb.Where("p.is_active = ?", true)
	}

	if cursor != nil {
		qb = qb.Where("(p.created_at < ?) OR (p.created_at = ? AND p.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("p.created_at DESC").Order("p.id DESC").Limit(limitWithBuffer)

	var records []productSummaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]ProductSummary, 0, len(resultRows))
	for _, record := range resultRows {
		summaries = append(summaries, record.toSummary())
	}

	return &ProductListResult{
		Products:   summaries,
		NextCursor: nextCursor,
	}, nil
}

type productSummaryRecord struct {
	ID           uuid.UUID
	Title        string
	CategoryID   uuid.UUID
	CategoryName string
	IsActive     bool
	PriceFrom    decimal.NullDecimal
	VariantCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r productSummaryRecord) toSummary() ProductSummary {
	summary := ProductSummary{
		ID:           r.ID,
		Title:        r.Title,
		CategoryID:   r.CategoryID,
		CategoryName: r.CategoryName,
		IsActive:     r.IsActive,
		VariantCount: r.VariantCount,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.PriceFrom.Valid {
		price := r.PriceFrom.Decimal
		summary.PriceFrom = &price
	}
	return summary
}
