package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sureshop/sureshop-backend/api/responses"
	"github.com/sureshop/sureshop-backend/api/validators"
	productsvc "github.com/sureshop/sureshop-backend/internal/products"
	pkgerrors "github.com/sureshop/sureshop-backend/pkg/errors"
	"github.com/sureshop/sureshop-backend/pkg/logger"
)

// AdminCreateProduct creates a catalog product.
func AdminCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct applies a partial update to a product.
func AdminUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), productID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct soft deletes a product.
func AdminDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createProductRequest struct {
	Title           string           `json:"title" validate:"required"`
	Description     *string          `json:"description,omitempty"`
	Category        string           `json:"category" validate:"required"`
	Images          []string         `json:"images,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	StockQty        int              `json:"stock_qty" validate:"min=0"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

func (r createProductRequest) toInput() productsvc.CreateProductInput {
	discount := decimal.Zero
	if r.DiscountPercent != nil {
		discount = *r.DiscountPercent
	}
	return productsvc.CreateProductInput{
		Title:           strings.TrimSpace(r.Title),
		Description:     r.Description,
		Category:        strings.TrimSpace(r.Category),
		Images:          r.Images,
		Price:           r.Price,
		DiscountPercent: discount,
		StockQty:        r.StockQty,
		IsActive:        r.IsActive,
	}
}

type updateProductRequest struct {
	Title           *string          `json:"title,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Category        *string          `json:"category,omitempty"`
	Images          *[]string        `json:"images,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	StockQty        *int             `json:"stock_qty,omitempty" validate:"omitempty,min=0"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

func (r updateProductRequest) toInput() productsvc.UpdateProductInput {
	return productsvc.UpdateProductInput{
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category,
		Images:          r.Images,
		Price:           r.Price,
		DiscountPercent: r.DiscountPercent,
		StockQty:        r.StockQty,
		IsActive:        r.IsActive,
	}
}
