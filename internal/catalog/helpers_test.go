package catalog

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rohanverma/vastra-backend/pkg/db/models"
	"github.com/rohanverma/vastra-backend/pkg/enums"
)

func mustCreateTestCategory(t *testing.T, tx *gorm.DB) *models.Category {
	t.Helper()
	category := &models.Category{
		Name: fmt.Sprintf("vastra_test_%s", uuid.NewString()),
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, categoryID uuid.UUID, title string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:  categoryID,
		Title:       title,
		Description: "Cotton crew neck",
		IsActive:    active,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateTestVariant(t *testing.T, tx *gorm.DB, productID uuid.UUID, color string, size enums.Size, price string, stock int) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ProductID: productID,
		Color:     color,
		Size:      size,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		Images:    pq.StringArray{"https://cdn.example.com/" + color + ".jpg"},
	}
	if err := tx.Create(variant).Error; err != nil {
		t.Fatalf("create variant: %v", err)
	}
	return variant
}
