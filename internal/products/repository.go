package products

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sureshop/sureshop-backend/pkg/db/models"
	"github.com/sureshop/sureshop-backend/pkg/enums"
	"github.com/sureshop/sureshop-backend/pkg/pagination"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveByID loads the product only when it is publicly visible.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ? AND is_active", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save persists all fields of an existing product row.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// SoftDelete hides the product from public listings. The row stays so
// order snapshots keep a valid reference.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_active", id).
		UpdateColumn("is_active", false)
	return res.RowsAffected, res.Error
}

// ListActive returns publicly visible products ordered by title.
func (r *Repository) ListActive(ctx context.Context, params pagination.Params) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	if err := query.
		Order("title asc").
		Limit(params.Size).
		Offset(params.Offset()).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Search applies the AND-combined filters, sort, and pagination over
// active products.
func (r *Repository) Search(ctx context.Context, input SearchInput) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active")

	f := input.Filters
	if f.Term != "" {
		pattern := "%" + f.Term + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		query = query.Where("rating_avg >= ?", *f.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := "asc"
	if input.SortDir == enums.SortDesc {
		direction = "desc"
	}

	var items []models.Product
	if err := query.
		Order(sortColumn(input.SortBy) + " " + direction).
		Limit(input.Pagination.Size).
		Offset(input.Pagination.Offset()).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Categories lists the distinct categories of active products.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active").
		Distinct("category").
		Order("category asc").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// DecrementStock atomically takes qty units from an active product with
// sufficient stock. Zero rows affected means the product went inactive
// or short since it was last read.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_active AND stock_qty >= ?", id, qty).
		UpdateColumn("stock_qty", gorm.Expr("stock_qty - ?", qty))
	return res.RowsAffected, res.Error
}

// IncrementStock returns qty units to the product, active or not.
func (r *Repository) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock_qty", gorm.Expr("stock_qty + ?", qty)).Error
}

// UpdateRatingAggregate overwrites the stored rating aggregate.
func (r *Repository) UpdateRatingAggregate(ctx context.Context, id uuid.UUID, avg decimal.Decimal, count int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"rating_avg":   avg,
			"rating_count": count,
		}).Error
}
