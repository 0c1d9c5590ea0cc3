package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sureshop/sureshop-backend/pkg/db/models"
	"github.com/sureshop/sureshop-backend/pkg/money"
)

// ProductDTO is the catalog transport shape. FinalPrice is derived and
// never stored.
type ProductDTO struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Description     *string         `json:"description,omitempty"`
	Category        string          `json:"category"`
	Images          []string        `json:"images"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	FinalPrice      decimal.Decimal `json:"final_price"`
	StockQty        int             `json:"stock_qty"`
	IsActive        bool            `json:"is_active"`
	RatingAvg       decimal.Decimal `json:"rating_avg"`
	RatingCount     int             `json:"rating_count"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Title           string
	Description     *string
	Category        string
	Images          []string
	Price           decimal.Decimal
	DiscountPercent decimal.Decimal
	StockQty        int
	IsActive        *bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Title           *string
	Description     *string
	Category        *string
	Images          *[]string
	Price           *decimal.Decimal
	DiscountPercent *decimal.Decimal
	StockQty        *int
	IsActive        *bool
}

// FromModel maps the persisted product into its transport shape.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Category:        p.Category,
		Images:          append([]string{}, p.Images...),
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		FinalPrice:      money.FinalPrice(p.Price, p.DiscountPercent),
		StockQty:        p.StockQty,
		IsActive:        p.IsActive,
		RatingAvg:       p.RatingAvg,
		RatingCount:     p.RatingCount,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// FromModels maps a slice of products, preserving order.
func FromModels(items []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}
