package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rohanverma/vastra-backend/pkg/db/models"
	"github.com/rohanverma/vastra-backend/pkg/enums"
	"github.com/rohanverma/vastra-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByProviderOrderID(ctx context.Context, providerOrderID string) (*models.Order, error)
	List(ctx context.Context, query ListQuery) (*OrderList, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	RecordPayment(ctx context.Context, orderID uuid.UUID, paymentID, signature string) error
}

// ListQuery scopes an order listing. A nil UserID lists across all buyers.
type ListQuery struct {
	UserID     *uuid.UUID
	Status     *enums.OrderStatus
	Pagination pagination.Params
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the order and its items in one statement batch.
func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Variant").
		Preload("ShippingAddress").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "provider_order_id = ?", providerOrderID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List paginates orders with keyset cursors over (created_at, id).
func (r *repository) List(ctx context.Context, query ListQuery) (*OrderList, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Table("orders o").
		Select(strings.Join([]string{
			"o.id",
			"o.user_id",
			"o.status",
			"o.provider",
			"o.total",
			"o.currency",
			"o.created_at",
			"o.updated_at",
			"(SELECT COUNT(*) FROM order_items i WHERE i.order_id = o.id) AS item_count",
		}, ", "))

	if query.UserID != nil {
		qb = qb.Where("o.user_id = ?", *query.UserID)
	}
	if query.Status != nil {
		qb = qb.Where("o.status = ?", *query.Status)
	}
	if cursor != nil {
		qb = qb.Where("(o.created_at < ?) OR (o.created_at = ? AND o.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("o.created_at DESC").Order("o.id DESC").Limit(limitWithBuffer)

	var records []orderSummaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]OrderSummary, 0, len(resultRows))
	for _, record := range resultRows {
		summaries = append(summaries, record.toSummary())
	}

	return &OrderList{
		Orders:     summaries,
		NextCursor: nextCursor,
	}, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).
		Error
}

// RecordPayment advances a pending order to processing and stores the
// verified payment reference in the same update. The status guard keeps a
// racing duplicate callback from writing twice.
func (r *repository) RecordPayment(ctx context.Context, orderID uuid.UUID, paymentID, signature string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, enums.OrderStatusPending).
		Updates(map[string]any{
			"status":              enums.OrderStatusProcessing,
			"provider_payment_id": paymentID,
			"provider_signature":  signature,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type orderSummaryRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Status    enums.OrderStatus
	Provider  enums.PaymentProvider
	Total     decimal.Decimal
	Currency  enums.Currency
	ItemCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r orderSummaryRecord) toSummary() OrderSummary {
	return OrderSummary{
		ID:        r.ID,
		UserID:    r.UserID,
		Status:    r.Status,
		Provider:  r.Provider,
		Total:     r.Total,
		Currency:  r.Currency,
		ItemCount: r.ItemCount,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
