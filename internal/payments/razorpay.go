package payments

import (
	"context"
	"fmt"

	"github.com/rohanverma/vastra-backend/pkg/enums"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
	"github.com/rohanverma/vastra-backend/pkg/razorpay"
)

type razorpayGateway interface {
	KeyID() string
	KeySecret() string
	CreateOrder(ctx context.Context, params razorpay.OrderCreateParams) (*razorpay.Order, error)
	CreateCustomer(ctx context.Context, params razorpay.CustomerCreateParams) (*razorpay.Customer, error)
	FindCustomerByContact(ctx context.Context, contact string) (*razorpay.Customer, error)
}

type razorpayProvider struct {
	gateway razorpayGateway
}

func newRazorpayProvider(gateway razorpayGateway) (Provider, error) {
	if gateway == nil {
		return nil, fmt.Errorf("razorpay gateway required")
	}
	return &razorpayProvider{gateway: gateway}, nil
}

func (p *razorpayProvider) Name() enums.PaymentProvider {
	return enums.PaymentProviderRazorpay
}

// CreateCheckout resolves the buyer to a gateway customer, registers the
// order, and hands back what the embedded widget needs to collect payment.
func (p *razorpayProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutRef, error) {
	amountMinor, err := minorUnits(req.Total)
	if err != nil {
		return nil, err
	}
	if amountMinor <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout total must be positive")
	}

	customerID, err := p.resolveCustomer(ctx, req.Customer)
	if err != nil {
		return nil, err
	}

	order, err := p.gateway.CreateOrder(ctx, razorpay.OrderCreateParams{
		AmountMinor: amountMinor,
		Currency:    req.Currency.String(),
		Receipt:     req.Reference,
		Notes:       map[string]string{"reference": req.Reference},
	})
	if err != nil {
		return nil, err
	}

	return &CheckoutRef{
		ProviderOrderID: order.ID,
		AmountMinor:     amountMinor,
		Currency:        req.Currency,
		ClientKey:       p.gateway.KeyID(),
		CustomerID:      customerID,
	}, nil
}

func (p *razorpayProvider) VerifySignature(providerOrderID, paymentID, signature string) bool {
	return VerifySignature(p.gateway.KeySecret(), providerOrderID, paymentID, signature)
}

// resolveCustomer creates the gateway customer, falling back to a contact
// lookup when the gateway reports the customer already exists.
func (p *razorpayProvider) resolveCustomer(ctx context.Context, info CustomerInfo) (string, error) {
	if info.Contact == "" {
		return "", nil
	}

	customer, err := p.gateway.CreateCustomer(ctx, razorpay.CustomerCreateParams{
		Name:    info.Name,
		Contact: info.Contact,
		Email:   info.Email,
	})
	if err == nil {
		return customer.ID, nil
	}
	if !razorpay.IsConflict(err) {
		return "", err
	}

	existing, err := p.gateway.FindCustomerByContact(ctx, info.Contact)
	if err != nil {
		return "", err
	}
	return existing.ID, nil
}
