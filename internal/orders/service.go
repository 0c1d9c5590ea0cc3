package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sureshop/sureshop-backend/internal/products"
	"github.com/sureshop/sureshop-backend/pkg/db/models"
	"github.com/sureshop/sureshop-backend/pkg/enums"
	pkgerrors "github.com/sureshop/sureshop-backend/pkg/errors"
	"github.com/sureshop/sureshop-backend/pkg/pagination"
)

// Service manages placed orders: reads, user cancellation with restock,
// and admin status overrides.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[OrderDTO], error)
	ListAll(ctx context.Context, params pagination.Params) (*pagination.Page[OrderDTO], error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDTO, error)
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	ListAll(ctx context.Context, params pagination.Params) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (int64, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (int64, error)
}

type productStock interface {
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) error
}

// ServiceParams packages the dependencies for the order service.
type ServiceParams struct {
	TxRunner           TxRunner
	OrderRepo          orderRepository
	OrderRepoFactory   func(tx *gorm.DB) orderRepository
	ProductRepoFactory func(tx *gorm.DB) productStock
}

type service struct {
	tx        TxRunner
	orderRepo orderRepository
	orderTx   func(tx *gorm.DB) orderRepository
	productTx func(tx *gorm.DB) productStock
}

// NewService builds an order service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order repository required")
	}
	orderTx := params.OrderRepoFactory
	if orderTx == nil {
		orderTx = func(tx *gorm.DB) orderRepository {
			return NewRepository(tx)
		}
	}
	productTx := params.ProductRepoFactory
	if productTx == nil {
		productTx = func(tx *gorm.DB) productStock {
			return products.NewRepository(tx)
		}
	}
	return &service{
		tx:        params.TxRunner,
		orderRepo: params.OrderRepo,
		orderTx:   orderTx,
		productTx: productTx,
	}, nil
}

// Get returns the order for its owner; admins may read any order.
func (s *service) Get(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, s.orderRepo, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID && !isAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return FromModel(order), nil
}

// List returns the user's own orders, newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[OrderDTO], error) {
	params = params.Normalize()
	items, total, err := s.orderRepo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	page := pagination.NewPage(FromModels(items), params, total)
	return &page, nil
}

// ListAll returns every order, newest first. Admin only; enforced at the
// routing layer.
func (s *service) ListAll(ctx context.Context, params pagination.Params) (*pagination.Page[OrderDTO], error) {
	params = params.Normalize()
	items, total, err := s.orderRepo.ListAll(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	page := pagination.NewPage(FromModels(items), params, total)
	return &page, nil
}

// Cancel moves the owner's pending order to CANCELLED and restores the
// stock of every line. The transition is guarded so a concurrent
// confirmation wins over a late cancel.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	var out *OrderDTO
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderTx(tx)
		stock := s.productTx(tx)

		order, err := s.load(ctx, orderRepo, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled").
				WithDetails(map[string]any{"status": order.Status})
		}

		affected, err := orderRepo.UpdateStatusFrom(ctx, orderID, enums.OrderStatusPending, enums.OrderStatusCancelled)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled")
		}

		for i := range order.Items {
			item := &order.Items[i]
			if err := stock.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore stock")
			}
		}

		order.Status = enums.OrderStatusCancelled
		out = FromModel(order)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

// UpdateStatus is the admin override: any known status, no transition
// checks.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDTO, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	affected, err := s.orderRepo.UpdateStatus(ctx, orderID, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	order, err := s.load(ctx, s.orderRepo, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) load(ctx context.Context, repo orderRepository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}
