package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanverma/vastra-backend/pkg/db"
	"github.com/rohanverma/vastra-backend/pkg/db/models"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
)

// Service manages a customer's shipping addresses.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateAddressRequest) (*AddressDTO, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, req UpdateAddressRequest) (*AddressDTO, error)
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an address service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	dtos := make([]AddressDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateAddressRequest) (*AddressDTO, error) {
	if err := validateMobile(req.Mobile); err != nil {
		return nil, err
	}

	row := &models.Address{
		UserID:    userID,
		Street:    strings.TrimSpace(req.Street),
		City:      strings.TrimSpace(req.City),
		State:     strings.TrimSpace(req.State),
		ZipCode:   strings.TrimSpace(req.ZipCode),
		Country:   strings.TrimSpace(req.Country),
		Mobile:    req.Mobile,
		IsDefault: req.IsDefault,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if req.IsDefault {
			if err := txRepo.ClearDefault(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear default address")
			}
		}
		if _, err := txRepo.Create(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert address")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}

	return FromModel(row), nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, req UpdateAddressRequest) (*AddressDTO, error) {
	if req.Mobile != nil {
		if err := validateMobile(*req.Mobile); err != nil {
			return nil, err
		}
	}

	row, err := s.loadOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	applyUpdateToAddress(row, req)
	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update address")
	}
	return FromModel(updated), nil
}

// SetDefault moves the default flag to the given address. Clearing and
// setting happen in one transaction so the user never ends up with two
// defaults or none.
func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error) {
	row, err := s.loadOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if row.IsDefault {
		return FromModel(row), nil
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ClearDefault(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear default address")
		}
		if err := txRepo.MarkDefault(ctx, addressID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark default address")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
	}

	row.IsDefault = true
	return FromModel(row), nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, userID, addressID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

// loadOwned resolves the address and hides other users' rows behind a 404.
func (s *service) loadOwned(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	row, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if row.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return row, nil
}

func validateMobile(mobile string) error {
	if len(mobile) != 10 {
		return pkgerrors.New(pkgerrors.CodeValidation, "mobile must be a 10-digit number")
	}
	for _, ch := range mobile {
		if ch < '0' || ch > '9' {
			return pkgerrors.New(pkgerrors.CodeValidation, "mobile must be a 10-digit number")
		}
	}
	return nil
}

func applyUpdateToAddress(row *models.Address, req UpdateAddressRequest) {
	if req.Street != nil {
		row.Street = strings.TrimSpace(*req.Street)
	}
	if req.City != nil {
		row.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		row.State = strings.TrimSpace(*req.State)
	}
	if req.ZipCode != nil {
		row.ZipCode = strings.TrimSpace(*req.ZipCode)
	}
	if req.Country != nil {
		row.Country = strings.TrimSpace(*req.Country)
	}
	if req.Mobile != nil {
		row.Mobile = *req.Mobile
	}
}
