package reviews

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sureshop/sureshop-backend/pkg/db/models"
)

// ReviewDTO is the transport shape for a review.
type ReviewDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Rating    decimal.Decimal `json:"rating"`
	Comment   *string         `json:"comment,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AddReviewInput carries the payload for posting a review.
type AddReviewInput struct {
	Rating  decimal.Decimal `json:"rating"`
	Comment *string         `json:"comment"`
}

// FromModel maps the persisted review into its transport shape.
func FromModel(r *models.Review) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// FromModels maps a slice of reviews, preserving order.
func FromModels(items []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}
