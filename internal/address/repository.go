package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanverma/vastra-backend/pkg/db/models"
)

// Repository persists customer shipping addresses.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByUser returns the user's addresses, default first, then newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads a single address.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var row models.Address
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new address row.
func (r *Repository) Create(ctx context.Context, row *models.Address) (*models.Address, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves the address row.
func (r *Repository) Update(ctx context.Context, row *models.Address) (*models.Address, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes an address by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Address{}).Error
}

// ClearDefault drops the default flag from every address the user owns. It
// must run in the same transaction as the write that sets the new default,
// otherwise the partial unique index rejects the insert.
func (r *Repository) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("user_id = ? AND is_default", userID).
		Update("is_default", false).
		Error
}

// MarkDefault flags a single address as the user's default.
func (r *Repository) MarkDefault(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("id = ?", id).
		Update("is_default", true).
		Error
}
