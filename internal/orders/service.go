package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanverma/vastra-backend/pkg/db/models"
	"github.com/rohanverma/vastra-backend/pkg/enums"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
	"github.com/rohanverma/vastra-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type signatureVerifier interface {
	Name() enums.PaymentProvider
	VerifySignature(providerOrderID, paymentID, signature string) bool
}

// Service defines buyer, back-office, and gateway-callback order operations.
type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	AdminList(ctx context.Context, params pagination.Params, status *enums.OrderStatus) (*OrderList, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error)
	VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*OrderDTO, error)
}

// VerifyPaymentInput carries the gateway callback payload.
type VerifyPaymentInput struct {
	ProviderOrderID string
	PaymentID       string
	Signature       string
}

type service struct {
	repo     Repository
	tx       txRunner
	provider signatureVerifier
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, provider signatureVerifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if provider == nil {
		return nil, fmt.Errorf("payment provider required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		provider: provider,
	}, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.List(ctx, ListQuery{
		UserID:     &userID,
		Pagination: params,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Other users' orders look like they don't exist.
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return NewOrderDTO(order), nil
}

func (s *service) AdminList(ctx context.Context, params pagination.Params, status *enums.OrderStatus) (*OrderList, error) {
	list, err := s.repo.List(ctx, ListQuery{
		Status:     status,
		Pagination: params,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) AdminGet(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

// UpdateStatus moves an order along the back-office lifecycle. The pending ->
// processing edge is reserved for payment verification and rejected here.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == target {
		return NewOrderDTO(order), nil
	}
	if order.Status == enums.OrderStatusPending && target == enums.OrderStatusProcessing {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order enters processing through payment verification")
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, target))
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, orderID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	order.Status = target
	return NewOrderDTO(order), nil
}

// VerifyPayment validates the gateway callback signature and advances the
// order from pending to processing exactly once. Replays with the same
// payment id succeed without writing; replays with a different payment id
// are rejected.
func (s *service) VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*OrderDTO, error) {
	providerOrderID := strings.TrimSpace(input.ProviderOrderID)
	paymentID := strings.TrimSpace(input.PaymentID)
	// The signature is compared byte for byte; no trimming or case folding.
	signature := input.Signature
	if providerOrderID == "" || paymentID == "" || signature == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id, payment id, and signature are required")
	}

	order, err := s.repo.FindByProviderOrderID(ctx, providerOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.ProviderPaymentID != nil {
		if *order.ProviderPaymentID == paymentID {
			return NewOrderDTO(order), nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already paid with a different payment")
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %s cannot accept payment", order.Status))
	}

	// Signature check happens before any write. A mismatch leaves the
	// order untouched.
	if !s.provider.VerifySignature(providerOrderID, paymentID, signature) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment signature")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		err := s.repo.WithTx(tx).RecordPayment(ctx, order.ID, paymentID, signature)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// A concurrent callback won the race.
				return pkgerrors.New(pkgerrors.CodeConflict, "order already paid")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record payment")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
	}

	order.Status = enums.OrderStatusProcessing
	order.ProviderPaymentID = &paymentID
	order.ProviderSignature = &signature
	return NewOrderDTO(order), nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
