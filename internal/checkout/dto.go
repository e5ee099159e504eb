package checkout

import (
	"github.com/google/uuid"

	"github.com/rohanverma/vastra-backend/internal/orders"
	"github.com/rohanverma/vastra-backend/internal/payments"
)

// CheckoutItem is one requested cart line. Quantities are the only client
// input the pricing path reads.
type CheckoutItem struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CheckoutRequest is the payload to start a checkout.
type CheckoutRequest struct {
	AddressID uuid.UUID      `json:"address_id" validate:"required"`
	Items     []CheckoutItem `json:"items" validate:"required,min=1,dive"`
}

// CheckoutResponse pairs the pending order with the gateway handle the
// storefront completes payment against.
type CheckoutResponse struct {
	Order   *orders.OrderDTO      `json:"order"`
	Payment *payments.CheckoutRef `json:"payment"`
}
