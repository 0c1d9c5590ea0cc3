package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sureshop/sureshop-backend/pkg/db/models"
	"github.com/sureshop/sureshop-backend/pkg/money"
)

// CartItemDTO is one cart line with its computed line total.
type CartItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartDTO is the full cart with computed totals. Totals are derived on
// read and never stored.
type CartDTO struct {
	ID            uuid.UUID       `json:"id"`
	Items         []CartItemDTO   `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	Total         decimal.Decimal `json:"total"`
}

// AddItemInput carries the payload for adding a product to the cart.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemInput carries the payload for changing a line's quantity.
type UpdateItemInput struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// FromModel maps the cart and derives line and cart totals.
func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}
	dto := &CartDTO{
		ID:    c.ID,
		Items: make([]CartItemDTO, 0, len(c.Items)),
		Total: decimal.Zero,
	}
	for i := range c.Items {
		item := &c.Items[i]
		title := ""
		if item.Product != nil {
			title = item.Product.Title
		}
		lineTotal := money.LineTotal(item.UnitPrice, item.Quantity)
		dto.Items = append(dto.Items, CartItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Title:     title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: lineTotal,
		})
		dto.TotalQuantity += item.Quantity
		dto.Total = dto.Total.Add(lineTotal)
	}
	return dto
}
