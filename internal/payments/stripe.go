package payments

import (
	"context"
	"fmt"

	"github.com/rohanverma/vastra-backend/pkg/enums"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
	"github.com/rohanverma/vastra-backend/pkg/stripe"
)

type stripeGateway interface {
	CallbackSecret() string
	CreateCheckoutSession(ctx context.Context, params stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeProvider struct {
	gateway stripeGateway
}

func newStripeProvider(gateway stripeGateway) (Provider, error) {
	if gateway == nil {
		return nil, fmt.Errorf("stripe gateway required")
	}
	return &stripeProvider{gateway: gateway}, nil
}

func (p *stripeProvider) Name() enums.PaymentProvider {
	return enums.PaymentProviderStripe
}

// CreateCheckout opens a hosted checkout session from the repriced lines and
// hands back the redirect URL the storefront sends the buyer to.
func (p *stripeProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutRef, error) {
	amountMinor, err := minorUnits(req.Total)
	if err != nil {
		return nil, err
	}
	if amountMinor <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout total must be positive")
	}

	items := make([]stripe.CheckoutLineItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		unitMinor, err := minorUnits(line.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, stripe.CheckoutLineItem{
			Name:        line.Name,
			AmountMinor: unitMinor,
			Currency:    req.Currency.String(),
			Quantity:    int64(line.Quantity),
		})
	}

	session, err := p.gateway.CreateCheckoutSession(ctx, stripe.CheckoutSessionParams{
		LineItems: items,
		Reference: req.Reference,
	})
	if err != nil {
		return nil, err
	}

	return &CheckoutRef{
		ProviderOrderID: session.ID,
		AmountMinor:     amountMinor,
		Currency:        req.Currency,
		RedirectURL:     session.URL,
	}, nil
}

func (p *stripeProvider) VerifySignature(providerOrderID, paymentID, signature string) bool {
	return VerifySignature(p.gateway.CallbackSecret(), providerOrderID, paymentID, signature)
}
