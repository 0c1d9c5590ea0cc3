package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sureshop/sureshop-backend/internal/products"
	"github.com/sureshop/sureshop-backend/pkg/db"
	"github.com/sureshop/sureshop-backend/pkg/db/models"
	pkgerrors "github.com/sureshop/sureshop-backend/pkg/errors"
	"github.com/sureshop/sureshop-backend/pkg/money"
)

// Service manages the per-user shopping cart. Carts are created lazily on
// first access; line prices snapshot the discounted price at add time.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, input UpdateItemInput) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	SaveItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	DeleteItem(ctx context.Context, cartID, productID uuid.UUID) (int64, error)
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}

type productCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams packages the dependencies for the cart service.
type ServiceParams struct {
	TxRunner           TxRunner
	CartRepo           cartRepository
	CartRepoFactory    func(tx *gorm.DB) cartRepository
	ProductRepoFactory func(tx *gorm.DB) productCatalog
}

type service struct {
	tx        TxRunner
	cartRepo  cartRepository
	cartTx    func(tx *gorm.DB) cartRepository
	productTx func(tx *gorm.DB) productCatalog
}

// NewService builds a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repository required")
	}
	cartTx := params.CartRepoFactory
	if cartTx == nil {
		cartTx = func(tx *gorm.DB) cartRepository {
			return NewRepository(tx)
		}
	}
	productTx := params.ProductRepoFactory
	if productTx == nil {
		productTx = func(tx *gorm.DB) productCatalog {
			return products.NewRepository(tx)
		}
	}
	return &service{
		tx:        params.TxRunner,
		cartRepo:  params.CartRepo,
		cartTx:    cartTx,
		productTx: productTx,
	}, nil
}

// Get returns the user's cart, creating an empty one on first access.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.findOrCreate(ctx, s.cartRepo, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(cart), nil
}

// AddItem adds a product to the cart, merging into an existing line. The
// line's unit price snapshots the product's current discounted price.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var out *CartDTO
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartTx(tx)
		catalog := s.productTx(tx)

		cart, err := s.findOrCreate(ctx, cartRepo, userID)
		if err != nil {
			return err
		}

		product, err := s.availableProduct(ctx, catalog, input.ProductID)
		if err != nil {
			return err
		}

		unitPrice := money.FinalPrice(product.Price, product.DiscountPercent)

		item, err := cartRepo.FindItem(ctx, cart.ID, product.ID)
		switch {
		case err == nil:
			combined := item.Quantity + input.Quantity
			if combined > product.StockQty {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
					WithDetails(map[string]any{"available": product.StockQty})
			}
			item.Quantity = combined
			item.UnitPrice = unitPrice
			if _, err := cartRepo.SaveItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if input.Quantity > product.StockQty {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
					WithDetails(map[string]any{"available": product.StockQty})
			}
			_, err := cartRepo.CreateItem(ctx, &models.CartItem{
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  input.Quantity,
				UnitPrice: unitPrice,
			})
			if err != nil {
				if db.IsUniqueViolation(err, "") {
					return pkgerrors.New(pkgerrors.CodeConflict, "cart line already exists")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart line")
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
		}

		refreshed, err := cartRepo.FindByUserID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart")
		}
		out = FromModel(refreshed)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

// UpdateItem changes a line's quantity, re-validated against live stock.
func (s *service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, input UpdateItemInput) (*CartDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var out *CartDTO
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartTx(tx)
		catalog := s.productTx(tx)

		cart, err := s.requireCart(ctx, cartRepo, userID)
		if err != nil {
			return err
		}

		item, err := cartRepo.FindItem(ctx, cart.ID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
		}

		product, err := s.availableProduct(ctx, catalog, productID)
		if err != nil {
			return err
		}
		if input.Quantity > product.StockQty {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
				WithDetails(map[string]any{"available": product.StockQty})
		}

		item.Quantity = input.Quantity
		if _, err := cartRepo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
		}

		refreshed, err := cartRepo.FindByUserID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart")
		}
		out = FromModel(refreshed)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

// RemoveItem deletes one line from the cart.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	cart, err := s.requireCart(ctx, s.cartRepo, userID)
	if err != nil {
		return nil, err
	}

	affected, err := s.cartRepo.DeleteItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart line")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	refreshed, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart")
	}
	return FromModel(refreshed), nil
}

// Clear deletes every line of the cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.requireCart(ctx, s.cartRepo, userID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

func (s *service) findOrCreate(ctx context.Context, repo cartRepository, userID uuid.UUID) (*models.Cart, error) {
	cart, err := repo.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	created, err := repo.Create(ctx, userID)
	if err != nil {
		// Lost a create race; the winner's cart is the user's cart.
		if db.IsUniqueViolation(err, "") {
			cart, err := repo.FindByUserID(ctx, userID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
			}
			return cart, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	return created, nil
}

func (s *service) requireCart(ctx context.Context, repo cartRepository, userID uuid.UUID) (*models.Cart, error) {
	cart, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return cart, nil
}

func (s *service) availableProduct(ctx context.Context, catalog productCatalog, productID uuid.UUID) (*models.Product, error) {
	product, err := catalog.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive || product.StockQty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product unavailable")
	}
	return product, nil
}
