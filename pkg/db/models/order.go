package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohanverma/vastra-backend/pkg/enums"
)

// Order is a storefront purchase. It is created pending with a gateway order
// reference and advances to processing only after signature verification.
type Order struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	ShippingAddressID uuid.UUID             `gorm:"column:shipping_address_id;type:uuid;not null"`
	Total             decimal.Decimal       `gorm:"column:total;type:numeric(10,2);not null"`
	Currency          enums.Currency        `gorm:"column:currency;type:text;not null;default:'INR'"`
	Status            enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	Provider          enums.PaymentProvider `gorm:"column:provider;type:text;not null"`
	ProviderOrderID   string                `gorm:"column:provider_order_id;not null;uniqueIndex"`
	ProviderPaymentID *string               `gorm:"column:provider_payment_id"`
	ProviderSignature *string               `gorm:"column:provider_signature"`
	ShippingAddress   *Address              `gorm:"foreignKey:ShippingAddressID"`
	Items             []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
