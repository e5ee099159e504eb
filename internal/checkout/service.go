package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rohanverma/vastra-backend/internal/orders"
	"github.com/rohanverma/vastra-backend/internal/payments"
	"github.com/rohanverma/vastra-backend/pkg/db/models"
	"github.com/rohanverma/vastra-backend/pkg/enums"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type variantReader interface {
	FindVariantsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.ProductVariant, error)
}

type addressReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type paymentProvider interface {
	Name() enums.PaymentProvider
	CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutRef, error)
}

// Service executes checkout orchestration: server-side repricing, the
// gateway session, and the pending order write.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error)
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	TX         txRunner
	OrdersRepo orders.Repository
	Variants   variantReader
	Addresses  addressReader
	Users      userReader
	Provider   paymentProvider
	Currency   enums.Currency
}

type service struct {
	tx         txRunner
	ordersRepo orders.Repository
	variants   variantReader
	addresses  addressReader
	users      userReader
	provider   paymentProvider
	currency   enums.Currency
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.TX == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.OrdersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Variants == nil {
		return nil, fmt.Errorf("variant reader required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("address reader required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user reader required")
	}
	if params.Provider == nil {
		return nil, fmt.Errorf("payment provider required")
	}
	if !params.Currency.IsValid() {
		return nil, fmt.Errorf("invalid checkout currency %q", params.Currency)
	}
	return &service{
		tx:         params.TX,
		ordersRepo: params.OrdersRepo,
		variants:   params.Variants,
		addresses:  params.Addresses,
		users:      params.Users,
		provider:   params.Provider,
		currency:   params.Currency,
	}, nil
}

// Execute reprices the cart against the catalog, opens a gateway checkout,
// and persists the pending order with its items in one transaction. Client
// prices are never trusted; the variant's stored price is the only input to
// the total.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	items, err := mergeItems(req.Items)
	if err != nil {
		return nil, err
	}

	addr, err := s.loadShippingAddress(ctx, userID, req.AddressID)
	if err != nil {
		return nil, err
	}

	lines, total, err := s.reprice(ctx, items)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	reference := uuid.NewString()
	ref, err := s.provider.CreateCheckout(ctx, payments.CheckoutRequest{
		Reference: reference,
		Customer: payments.CustomerInfo{
			Name:    user.FirstName + " " + user.LastName,
			Email:   user.Email,
			Contact: addr.Mobile,
		},
		Currency: s.currency,
		Total:    total,
		Lines:    lines.providerLines(),
	})
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:            userID,
		ShippingAddressID: addr.ID,
		Total:             total,
		Currency:          s.currency,
		Status:            enums.OrderStatusPending,
		Provider:          s.provider.Name(),
		ProviderOrderID:   ref.ProviderOrderID,
		Items:             lines.orderItems(),
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.ordersRepo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	return &CheckoutResponse{
		Order:   orders.NewOrderDTO(order),
		Payment: ref,
	}, nil
}

// loadShippingAddress resolves the address and requires ownership plus a
// contact number the gateway can use.
func (s *service) loadShippingAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	if addressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	addr, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if addr.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address not found")
	}
	if addr.Mobile == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address has no contact number")
	}
	return addr, nil
}

// reprice loads every requested variant and prices the lines from the
// catalog. Unknown variants fail the whole checkout.
func (s *service) reprice(ctx context.Context, items []CheckoutItem) (checkoutLines, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.VariantID)
	}

	byID, err := s.variants.FindVariantsByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variants")
	}

	lines := make(checkoutLines, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		variant, ok := byID[item.VariantID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("variant %s not found", item.VariantID))
		}
		if variant.Product != nil && !variant.Product.IsActive {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("variant %s not found", item.VariantID))
		}
		if variant.Stock < item.Quantity {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("insufficient stock for variant %s", item.VariantID))
		}

		lines = append(lines, checkoutLine{
			variant:  variant,
			quantity: item.Quantity,
		})
		total = total.Add(variant.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if !total.IsPositive() {
		return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "checkout total must be positive")
	}
	return lines, total, nil
}

// mergeItems validates quantities and folds duplicate variant lines together.
func mergeItems(items []CheckoutItem) ([]CheckoutItem, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}

	index := make(map[uuid.UUID]int, len(items))
	merged := make([]CheckoutItem, 0, len(items))
	for _, item := range items {
		if item.VariantID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if pos, ok := index[item.VariantID]; ok {
			merged[pos].Quantity += item.Quantity
			continue
		}
		index[item.VariantID] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

type checkoutLine struct {
	variant  models.ProductVariant
	quantity int
}

type checkoutLines []checkoutLine

func (l checkoutLines) providerLines() []payments.CheckoutLine {
	out := make([]payments.CheckoutLine, 0, len(l))
	for _, line := range l {
		out = append(out, payments.CheckoutLine{
			Name:      lineName(line.variant),
			UnitPrice: line.variant.Price,
			Quantity:  line.quantity,
		})
	}
	return out
}

func (l checkoutLines) orderItems() []models.OrderItem {
	out := make([]models.OrderItem, 0, len(l))
	for _, line := range l {
		out = append(out, models.OrderItem{
			VariantID: line.variant.ID,
			Quantity:  line.quantity,
			UnitPrice: line.variant.Price,
		})
	}
	return out
}

func lineName(variant models.ProductVariant) string {
	if variant.Product != nil {
		return fmt.Sprintf("%s (%s, %s)", variant.Product.Title, variant.Color, variant.Size)
	}
	return fmt.Sprintf("%s / %s", variant.Color, variant.Size)
}
