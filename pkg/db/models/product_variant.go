package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/rohanverma/vastra-backend/pkg/enums"
)

// ProductVariant is the purchasable color+size unit of a product. Its price
// is the only price the checkout flow trusts.
type ProductVariant struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	Color     string          `gorm:"column:color;not null"`
	Size      enums.Size      `gorm:"column:size;type:text;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Stock     int             `gorm:"column:stock;not null;default:0"`
	Images    pq.StringArray  `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
