package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohanverma/vastra-backend/internal/address"
	"github.com/rohanverma/vastra-backend/pkg/db/models"
	"github.com/rohanverma/vastra-backend/pkg/enums"
)

// OrderItemDTO is the transport shape of a purchased line.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	VariantID uuid.UUID       `json:"variant_id"`
	Color     string          `json:"color,omitempty"`
	Size      enums.Size      `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderDTO is the full order detail.
type OrderDTO struct {
	ID                uuid.UUID             `json:"id"`
	UserID            uuid.UUID             `json:"user_id"`
	Status            enums.OrderStatus     `json:"status"`
	Provider          enums.PaymentProvider `json:"provider"`
	ProviderOrderID   string                `json:"provider_order_id"`
	ProviderPaymentID *string               `json:"provider_payment_id,omitempty"`
	Total             decimal.Decimal       `json:"total"`
	Currency          enums.Currency        `json:"currency"`
	ShippingAddress   *address.AddressDTO   `json:"shipping_address,omitempty"`
	Items             []OrderItemDTO        `json:"items"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// OrderSummary is the lightweight listing row.
type OrderSummary struct {
	ID        uuid.UUID             `json:"id"`
	UserID    uuid.UUID             `json:"user_id"`
	Status    enums.OrderStatus     `json:"status"`
	Provider  enums.PaymentProvider `json:"provider"`
	Total     decimal.Decimal       `json:"total"`
	Currency  enums.Currency        `json:"currency"`
	ItemCount int                   `json:"item_count"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// OrderList carries a page of summaries plus the cursor for the next page.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// NewOrderItemDTO maps an order item and its optional variant snapshot.
func NewOrderItemDTO(item models.OrderItem) OrderItemDTO {
	dto := OrderItemDTO{
		ID:        item.ID,
		VariantID: item.VariantID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		Subtotal:  item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
	}
	if item.Variant != nil {
		dto.Color = item.Variant.Color
		dto.Size = item.Variant.Size
	}
	return dto
}

// NewOrderDTO maps an order model and its loaded associations.
func NewOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, NewOrderItemDTO(item))
	}
	return &OrderDTO{
		ID:                order.ID,
		UserID:            order.UserID,
		Status:            order.Status,
		Provider:          order.Provider,
		ProviderOrderID:   order.ProviderOrderID,
		ProviderPaymentID: order.ProviderPaymentID,
		Total:             order.Total,
		Currency:          order.Currency,
		ShippingAddress:   address.FromModel(order.ShippingAddress),
		Items:             items,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}
