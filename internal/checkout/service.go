package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sureshop/sureshop-backend/internal/cart"
	"github.com/sureshop/sureshop-backend/internal/orders"
	"github.com/sureshop/sureshop-backend/internal/products"
	"github.com/sureshop/sureshop-backend/pkg/db/models"
	"github.com/sureshop/sureshop-backend/pkg/enums"
	pkgerrors "github.com/sureshop/sureshop-backend/pkg/errors"
	"github.com/sureshop/sureshop-backend/pkg/money"
)

// CheckoutInput carries the payload for placing an order.
type CheckoutInput struct {
	ShippingAddress string  `json:"shipping_address" validate:"required"`
	Notes           *string `json:"notes"`
}

// Service turns the user's cart into a pending order. The whole operation
// runs in one transaction: stock decrements, order creation, and the cart
// clear all commit together or not at all.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*orders.OrderDTO, error)
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}

type productStock interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int64, error)
}

type orderWriter interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
}

// ServiceParams packages the dependencies for the checkout service.
type ServiceParams struct {
	TxRunner           TxRunner
	CartRepoFactory    func(tx *gorm.DB) cartRepository
	ProductRepoFactory func(tx *gorm.DB) productStock
	OrderRepoFactory   func(tx *gorm.DB) orderWriter
}

type service struct {
	tx        TxRunner
	cartTx    func(tx *gorm.DB) cartRepository
	productTx func(tx *gorm.DB) productStock
	orderTx   func(tx *gorm.DB) orderWriter
}

// NewService builds a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	cartTx := params.CartRepoFactory
	if cartTx == nil {
		cartTx = func(tx *gorm.DB) cartRepository {
			return cart.NewRepository(tx)
		}
	}
	productTx := params.ProductRepoFactory
	if productTx == nil {
		productTx = func(tx *gorm.DB) productStock {
			return products.NewRepository(tx)
		}
	}
	orderTx := params.OrderRepoFactory
	if orderTx == nil {
		orderTx = func(tx *gorm.DB) orderWriter {
			return orders.NewRepository(tx)
		}
	}
	return &service{
		tx:        params.TxRunner,
		cartTx:    cartTx,
		productTx: productTx,
		orderTx:   orderTx,
	}, nil
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*orders.OrderDTO, error) {
	address := strings.TrimSpace(input.ShippingAddress)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	var out *orders.OrderDTO
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartTx(tx)
		stock := s.productTx(tx)
		orderRepo := s.orderTx(tx)

		userCart, err := cartRepo.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if len(userCart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		}

		items := make([]models.OrderItem, 0, len(userCart.Items))
		total := decimal.Zero
		for i := range userCart.Items {
			line := &userCart.Items[i]

			product, err := stock.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return outOfStock(line.ProductID)
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
			}
			if !product.IsActive || product.StockQty < line.Quantity {
				return outOfStock(product.ID)
			}

			// Guarded decrement; zero rows means a concurrent checkout
			// got there first and the whole transaction aborts.
			affected, err := stock.DecrementStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if affected == 0 {
				return outOfStock(product.ID)
			}

			lineTotal := money.LineTotal(line.UnitPrice, line.Quantity)
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Title:     product.Title,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				LineTotal: lineTotal,
			})
			total = total.Add(lineTotal)
		}

		order, err := orderRepo.Create(ctx, &models.Order{
			UserID:          userID,
			Status:          enums.OrderStatusPending,
			Total:           total,
			ShippingAddress: address,
			Notes:           input.Notes,
			Items:           items,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		if err := cartRepo.ClearItems(ctx, userCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}

		out = orders.FromModel(order)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

func outOfStock(productID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "product out of stock").
		WithDetails(map[string]any{"product_id": productID})
}
