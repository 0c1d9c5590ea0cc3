package products

import (
	"github.com/shopspring/decimal"

	"github.com/sureshop/sureshop-backend/pkg/enums"
	"github.com/sureshop/sureshop-backend/pkg/pagination"
)

// SearchFilters describe the supported filter knobs for catalog search.
// Absent filters impose no constraint; present filters combine with AND.
type SearchFilters struct {
	Term      string
	Category  string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating *decimal.Decimal
}

// SearchInput captures the inputs needed to paginate, filter, and sort
// the public catalog.
type SearchInput struct {
	Filters    SearchFilters
	SortBy     enums.ProductSortField
	SortDir    enums.SortDirection
	Pagination pagination.Params
}

// sortColumn maps the API sort field onto the underlying column.
func sortColumn(field enums.ProductSortField) string {
	switch field {
	case enums.ProductSortPrice:
		return "price"
	case enums.ProductSortRating:
		return "rating_avg"
	case enums.ProductSortCreatedAt:
		return "created_at"
	default:
		return "title"
	}
}
