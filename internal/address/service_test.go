package address

import (
	"testing"

	"github.com/rohanverma/vastra-backend/pkg/db/models"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
)

func TestValidateMobile(t *testing.T) {
	if err := validateMobile("9876543210"); err != nil {
		t.Fatalf("expected valid mobile, got %v", err)
	}

	invalid := []string{"", "98765", "98765432101", "98765abc10", "+919876543"}
	for _, mobile := range invalid {
		err := validateMobile(mobile)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %q, got %v", mobile, err)
		}
	}
}

func TestApplyUpdateToAddress(t *testing.T) {
	row := &models.Address{
		Street:  "42 Gandhi Road",
		City:    "Mumbai",
		ZipCode: "400001",
		Mobile:  "9876543210",
	}

	city := "  Pune "
	mobile := "9123456780"
	applyUpdateToAddress(row, UpdateAddressRequest{
		City:   &city,
		Mobile: &mobile,
	})

	if row.City != "Pune" {
		t.Fatalf("expected trimmed city, got %q", row.City)
	}
	if row.Mobile != "9123456780" {
		t.Fatalf("expected updated mobile, got %q", row.Mobile)
	}
	if row.Street != "42 Gandhi Road" {
		t.Fatalf("expected street untouched, got %q", row.Street)
	}
}
