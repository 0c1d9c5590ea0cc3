package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Review is a user's rating of a product. Soft deletion keeps the row but
// exempts it from aggregates; at most one active review per (user, product).
type Review struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	Rating    decimal.Decimal `gorm:"column:rating;type:numeric(2,1);not null"`
	Comment   *string         `gorm:"column:comment"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
