package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots a purchased variant. UnitPrice is the variant price at
// purchase time and never changes afterwards.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	VariantID uuid.UUID       `gorm:"column:variant_id;type:uuid;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
