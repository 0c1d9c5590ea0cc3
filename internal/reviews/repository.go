package reviews

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sureshop/sureshop-backend/pkg/db/models"
	"github.com/sureshop/sureshop-backend/pkg/pagination"
)

// Repository provides persistence operations for product reviews.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a review repository bound to the given handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a review row.
func (r *Repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// FindActiveByID returns the review when it exists and is active.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active", id).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListActiveByProduct returns the active reviews for a product, newest
// first, along with the total count.
func (r *Repository) ListActiveByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Review, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ? AND is_active", productID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Review
	err := base.
		Order("created_at DESC").
		Limit(params.Size).
		Offset(params.Offset()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ActiveRatings returns every active rating for the product. Used to
// recompute the aggregate from scratch after a review changes.
func (r *Repository) ActiveRatings(ctx context.Context, productID uuid.UUID) ([]decimal.Decimal, error) {
	var ratings []decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ? AND is_active", productID).
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// SoftDeleteOwned deactivates the user's review and reports how many rows
// changed. Zero means the review does not exist, is already inactive, or
// belongs to someone else.
func (r *Repository) SoftDeleteOwned(ctx context.Context, reviewID, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ? AND user_id = ? AND is_active", reviewID, userID).
		UpdateColumn("is_active", false)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
