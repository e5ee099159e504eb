package enums

import "fmt"

// Size is a garment size on a product variant.
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

var validSizes = []Size{
	SizeXS,
	SizeS,
	SizeM,
	SizeL,
	SizeXL,
	SizeXXL,
}

// String implements fmt.Stringer.
func (s Size) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Size.
func (s Size) IsValid() bool {
	for _, candidate := range validSizes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSize converts raw input into a Size.
func ParseSize(value string) (Size, error) {
	for _, candidate := range validSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid size %q", value)
}
