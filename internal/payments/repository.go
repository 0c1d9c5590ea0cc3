package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sureshop/sureshop-backend/pkg/db/models"
)

// Repository provides persistence operations for payment sessions.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a payment session repository bound to the given handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a payment session row.
func (r *Repository) Create(ctx context.Context, session *models.PaymentSession) (*models.PaymentSession, error) {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// FindByID loads a payment session.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentSession, error) {
	var session models.PaymentSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Save persists changes to an existing payment session.
func (r *Repository) Save(ctx context.Context, session *models.PaymentSession) (*models.PaymentSession, error) {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}
