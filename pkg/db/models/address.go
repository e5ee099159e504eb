package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a customer shipping address. At most one address per user may
// carry is_default, enforced by a partial unique index.
type Address struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Street    string    `gorm:"column:street;not null"`
	City      string    `gorm:"column:city;not null"`
	State     string    `gorm:"column:state;not null"`
	ZipCode   string    `gorm:"column:zip_code;not null"`
	Country   string    `gorm:"column:country;not null"`
	Mobile    string    `gorm:"column:mobile;not null"`
	IsDefault bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
