package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sureshop/sureshop-backend/pkg/db/models"
	"github.com/sureshop/sureshop-backend/pkg/enums"
	pkgerrors "github.com/sureshop/sureshop-backend/pkg/errors"
	"github.com/sureshop/sureshop-backend/pkg/pagination"
)

// Service exposes catalog operations. Writes are admin-only and enforced
// at the routing layer.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, productID uuid.UUID) error
	Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, params pagination.Params) (*pagination.Page[ProductDTO], error)
	Search(ctx context.Context, input SearchInput) (*pagination.Page[ProductDTO], error)
	Categories(ctx context.Context) ([]string, error)
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) (*models.Product, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (int64, error)
	ListActive(ctx context.Context, params pagination.Params) ([]models.Product, int64, error)
	Search(ctx context.Context, input SearchInput) ([]models.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
}

type service struct {
	repo repository
}

// NewService constructs a catalog service instance.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	images := input.Images
	if images == nil {
		images = []string{}
	}

	product, err := s.repo.Create(ctx, &models.Product{
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Category:        strings.TrimSpace(input.Category),
		Images:          images,
		Price:           input.Price,
		DiscountPercent: input.DiscountPercent,
		StockQty:        input.StockQty,
		IsActive:        isActive,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		product.Title = title
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be empty")
		}
		product.Category = category
	}
	if input.Images != nil {
		product.Images = *input.Images
	}
	if input.Price != nil {
		if input.Price.Sign() < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.DiscountPercent != nil {
		if err := validateDiscount(*input.DiscountPercent); err != nil {
			return nil, err
		}
		product.DiscountPercent = *input.DiscountPercent
	}
	if input.StockQty != nil {
		if *input.StockQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.StockQty = *input.StockQty
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return FromModel(saved), nil
}

func (s *service) Delete(ctx context.Context, productID uuid.UUID) error {
	affected, err := s.repo.SoftDelete(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindActiveByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return FromModel(product), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*pagination.Page[ProductDTO], error) {
	params = params.Normalize()
	items, total, err := s.repo.ListActive(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	page := pagination.NewPage(FromModels(items), params, total)
	return &page, nil
}

func (s *service) Search(ctx context.Context, input SearchInput) (*pagination.Page[ProductDTO], error) {
	if err := validateSearch(&input); err != nil {
		return nil, err
	}
	input.Pagination = input.Pagination.Normalize()

	items, total, err := s.repo.Search(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search products")
	}
	page := pagination.NewPage(FromModels(items), input.Pagination, total)
	return &page, nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func validateCreate(input CreateProductInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.Price.Sign() < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.StockQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return validateDiscount(input.DiscountPercent)
}

func validateDiscount(discount decimal.Decimal) error {
	if discount.Sign() < 0 || discount.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}
	return nil
}

func validateSearch(input *SearchInput) error {
	f := input.Filters
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return pkgerrors.New(pkgerrors.CodeValidation, "min_price exceeds max_price")
	}
	if input.SortBy == "" {
		input.SortBy = enums.ProductSortTitle
	} else if !input.SortBy.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid sort field")
	}
	if input.SortDir == "" {
		input.SortDir = enums.SortAsc
	} else if !input.SortDir.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid sort direction")
	}
	return nil
}
