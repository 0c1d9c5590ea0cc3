package enums

import "fmt"

// ProductSortField names the columns catalog search can order by.
type ProductSortField string

const (
	ProductSortTitle     ProductSortField = "title"
	ProductSortPrice     ProductSortField = "price"
	ProductSortRating    ProductSortField = "rating"
	ProductSortCreatedAt ProductSortField = "createdAt"
)

var validProductSortFields = []ProductSortField{
	ProductSortTitle,
	ProductSortPrice,
	ProductSortRating,
	ProductSortCreatedAt,
}

// IsValid reports whether the value matches the canonical sort field enum.
func (p ProductSortField) IsValid() bool {
	for _, candidate := range validProductSortFields {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductSortField converts the raw string to ProductSortField.
func ParseProductSortField(value string) (ProductSortField, error) {
	for _, candidate := range validProductSortFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product sort field %q", value)
}

// SortDirection is the order applied to a ProductSortField.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

var validSortDirections = []SortDirection{SortAsc, SortDesc}

// IsValid reports whether the value matches the canonical sort direction enum.
func (s SortDirection) IsValid() bool {
	for _, candidate := range validSortDirections {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortDirection converts the raw string to SortDirection.
func ParseSortDirection(value string) (SortDirection, error) {
	for _, candidate := range validSortDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort direction %q", value)
}
