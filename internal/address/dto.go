package address

import (
	"time"

	"github.com/google/uuid"

	"github.com/rohanverma/vastra-backend/pkg/db/models"
)

// AddressDTO is the transport shape of a shipping address.
type AddressDTO struct {
	ID        uuid.UUID `json:"id"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	Country   string    `json:"country"`
	Mobile    string    `json:"mobile"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateAddressRequest is the payload to add a shipping address.
type CreateAddressRequest struct {
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zip_code" validate:"required"`
	Country   string `json:"country" validate:"required"`
	Mobile    string `json:"mobile" validate:"required,len=10,numeric"`
	IsDefault bool   `json:"is_default"`
}

// UpdateAddressRequest carries optional mutations for an existing address.
type UpdateAddressRequest struct {
	Street  *string `json:"street,omitempty" validate:"omitempty,min=1"`
	City    *string `json:"city,omitempty" validate:"omitempty,min=1"`
	State   *string `json:"state,omitempty" validate:"omitempty,min=1"`
	ZipCode *string `json:"zip_code,omitempty" validate:"omitempty,min=1"`
	Country *string `json:"country,omitempty" validate:"omitempty,min=1"`
	Mobile  *string `json:"mobile,omitempty" validate:"omitempty,len=10,numeric"`
}

// FromModel maps an address model to its transport shape.
func FromModel(a *models.Address) *AddressDTO {
	if a == nil {
		return nil
	}
	return &AddressDTO{
		ID:        a.ID,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		ZipCode:   a.ZipCode,
		Country:   a.Country,
		Mobile:    a.Mobile,
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
