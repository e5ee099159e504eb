package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog listing. Sellable units live on its variants.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID  uuid.UUID        `gorm:"column:category_id;type:uuid;not null"`
	Title       string           `gorm:"column:title;not null"`
	Description string           `gorm:"column:description;not null"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	Category    *Category        `gorm:"foreignKey:CategoryID"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
