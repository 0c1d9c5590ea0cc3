package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sureshop/sureshop-backend/pkg/enums"
)

// PaymentSession records a simulated checkout payment attempt for an order.
type PaymentSession struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Status        enums.PaymentStatus `gorm:"column:status;not null;default:created"`
	URL           string              `gorm:"column:url;not null"`
	PaymentID     *string             `gorm:"column:payment_id"`
	TransactionID *string             `gorm:"column:transaction_id"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
