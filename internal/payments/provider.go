package payments

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rohanverma/vastra-backend/pkg/config"
	"github.com/rohanverma/vastra-backend/pkg/enums"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
)

// CheckoutLine is one repriced cart line. UnitPrice always comes from the
// catalog, never from the client.
type CheckoutLine struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// CustomerInfo identifies the buyer to gateways that track customers.
type CustomerInfo struct {
	Name    string
	Email   string
	Contact string
}

// CheckoutRequest carries everything a gateway needs to open a payment.
type CheckoutRequest struct {
	Reference string
	Customer  CustomerInfo
	Currency  enums.Currency
	Total     decimal.Decimal
	Lines     []CheckoutLine
}

// CheckoutRef is the gateway-side handle the storefront completes payment
// against. Razorpay fills ClientKey and CustomerID for its embedded widget;
// Stripe fills RedirectURL for its hosted page.
type CheckoutRef struct {
	ProviderOrderID string         `json:"provider_order_id"`
	AmountMinor     int64          `json:"amount_minor"`
	Currency        enums.Currency `json:"currency"`
	ClientKey       string         `json:"client_key,omitempty"`
	CustomerID      string         `json:"customer_id,omitempty"`
	RedirectURL     string         `json:"redirect_url,omitempty"`
}

// Provider is the single gateway abstraction checkout and verification run
// against. Exactly one implementation is active per deployment, selected by
// configuration at startup.
type Provider interface {
	Name() enums.PaymentProvider
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutRef, error)
	VerifySignature(providerOrderID, paymentID, signature string) bool
}

// FactoryParams bundles the gateway clients the factory can select from.
// Only the client matching the configured provider needs to be non-nil.
type FactoryParams struct {
	Config   config.PaymentsConfig
	Razorpay razorpayGateway
	Stripe   stripeGateway
}

// NewProvider returns the configured gateway implementation.
func NewProvider(params FactoryParams) (Provider, error) {
	name, err := params.Config.ProviderName()
	if err != nil {
		return nil, err
	}
	switch name {
	case enums.PaymentProviderRazorpay:
		return newRazorpayProvider(params.Razorpay)
	case enums.PaymentProviderStripe:
		return newStripeProvider(params.Stripe)
	default:
		return nil, fmt.Errorf("unsupported payment provider %q", name)
	}
}

// minorUnits converts a decimal amount to the currency's minor unit (paise
// for INR, cents for USD). Amounts with sub-minor precision are rejected.
func minorUnits(amount decimal.Decimal) (int64, error) {
	shifted := amount.Shift(2)
	if !shifted.IsInteger() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount has sub-minor-unit precision")
	}
	return shifted.IntPart(), nil
}
