package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sureshop/sureshop-backend/internal/products"
	"github.com/sureshop/sureshop-backend/pkg/db"
	"github.com/sureshop/sureshop-backend/pkg/db/models"
	pkgerrors "github.com/sureshop/sureshop-backend/pkg/errors"
	"github.com/sureshop/sureshop-backend/pkg/money"
	"github.com/sureshop/sureshop-backend/pkg/pagination"
)

var (
	minRating = decimal.Zero
	maxRating = decimal.NewFromInt(5)
)

// Service manages product reviews and keeps the product rating aggregate
// in step with the active review set.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID, input AddReviewInput) (*ReviewDTO, error)
	List(ctx context.Context, productID uuid.UUID, params pagination.Params) (*pagination.Page[ReviewDTO], error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) error
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListActiveByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Review, int64, error)
	ActiveRatings(ctx context.Context, productID uuid.UUID) ([]decimal.Decimal, error)
	SoftDeleteOwned(ctx context.Context, reviewID, userID uuid.UUID) (int64, error)
}

type productCatalog interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateRatingAggregate(ctx context.Context, id uuid.UUID, avg decimal.Decimal, count int) error
}

// ServiceParams packages the dependencies for the review service.
type ServiceParams struct {
	TxRunner           TxRunner
	ReviewRepo         reviewRepository
	ReviewRepoFactory  func(tx *gorm.DB) reviewRepository
	ProductRepoFactory func(tx *gorm.DB) productCatalog
}

type service struct {
	tx         TxRunner
	reviewRepo reviewRepository
	reviewTx   func(tx *gorm.DB) reviewRepository
	productTx  func(tx *gorm.DB) productCatalog
}

// NewService builds a review service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.ReviewRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "review repository required")
	}
	reviewTx := params.ReviewRepoFactory
	if reviewTx == nil {
		reviewTx = func(tx *gorm.DB) reviewRepository {
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
		tx:         params.TxRunner,
		reviewRepo: params.ReviewRepo,
		reviewTx:   reviewTx,
		productTx:  productTx,
	}, nil
}

// Add posts a review for an active product. The product's rating aggregate
// is recomputed from the full active review set in the same transaction.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID, input AddReviewInput) (*ReviewDTO, error) {
	if input.Rating.LessThan(minRating) || input.Rating.GreaterThan(maxRating) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
	}

	var created *ReviewDTO
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		reviewRepo := s.reviewTx(tx)
		catalog := s.productTx(tx)

		if _, err := catalog.FindActiveByID(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}

		review, err := reviewRepo.Create(ctx, &models.Review{
			ProductID: productID,
			UserID:    userID,
			Rating:    input.Rating,
			Comment:   input.Comment,
			IsActive:  true,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
		}

		if err := s.recomputeAggregate(ctx, reviewRepo, catalog, productID); err != nil {
			return err
		}

		created = FromModel(review)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return created, nil
}

// List returns the active reviews for a product, newest first.
func (s *service) List(ctx context.Context, productID uuid.UUID, params pagination.Params) (*pagination.Page[ReviewDTO], error) {
	params = params.Normalize()
	items, total, err := s.reviewRepo.ListActiveByProduct(ctx, productID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	page := pagination.NewPage(FromModels(items), params, total)
	return &page, nil
}

// Delete deactivates the caller's own review and recomputes the product
// aggregate without it.
func (s *service) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		reviewRepo := s.reviewTx(tx)
		catalog := s.productTx(tx)

		review, err := reviewRepo.FindActiveByID(ctx, reviewID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load review")
		}

		affected, err := reviewRepo.SoftDeleteOwned(ctx, reviewID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete review")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeForbidden, "review belongs to another user")
		}

		return s.recomputeAggregate(ctx, reviewRepo, catalog, review.ProductID)
	})
}

func (s *service) recomputeAggregate(ctx context.Context, reviewRepo reviewRepository, catalog productCatalog, productID uuid.UUID) error {
	ratings, err := reviewRepo.ActiveRatings(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ratings")
	}
	avg := money.AverageRating(ratings)
	if err := catalog.UpdateRatingAggregate(ctx, productID, avg, len(ratings)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update rating aggregate")
	}
	return nil
}
