package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sureshop/sureshop-backend/internal/orders"
	"github.com/sureshop/sureshop-backend/pkg/db/models"
	"github.com/sureshop/sureshop-backend/pkg/enums"
	pkgerrors "github.com/sureshop/sureshop-backend/pkg/errors"
)

const (
	checkoutURLBase = "https://simulated-stripe.com/pay/"

	// sessionCacheTTL bounds how long a created session stays resolvable
	// in Redis for quick status lookups.
	sessionCacheTTL = 24 * time.Hour

	successStatus = "success"
)

// CreateSessionInput carries the payload for opening a payment session.
type CreateSessionInput struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

// ConfirmInput carries the simulated gateway callback payload.
type ConfirmInput struct {
	OrderID       uuid.UUID `json:"order_id" validate:"required"`
	SessionID     uuid.UUID `json:"session_id" validate:"required"`
	PaymentID     string    `json:"payment_id" validate:"required"`
	TransactionID string    `json:"transaction_id" validate:"required"`
	Status        string    `json:"status" validate:"required"`
}

// SessionDTO is the transport shape for a payment session.
type SessionDTO struct {
	ID      uuid.UUID           `json:"id"`
	OrderID uuid.UUID           `json:"order_id"`
	Amount  decimal.Decimal     `json:"amount"`
	Status  enums.PaymentStatus `json:"status"`
	URL     string              `json:"url"`
}

// Service simulates the payment gateway: sessions are created and
// confirmed locally, no external calls are made.
type Service interface {
	CreateSession(ctx context.Context, userID uuid.UUID, input CreateSessionInput) (*SessionDTO, error)
	Confirm(ctx context.Context, userID uuid.UUID, input ConfirmInput) (*SessionDTO, error)
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionRepository interface {
	Create(ctx context.Context, session *models.PaymentSession) (*models.PaymentSession, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentSession, error)
	Save(ctx context.Context, session *models.PaymentSession) (*models.PaymentSession, error)
}

type orderStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ConfirmPaid(ctx context.Context, id uuid.UUID, paymentID, transactionID string) (int64, error)
}

// sessionCache mirrors the session's status into Redis. Best-effort; cache
// failures never fail the payment flow.
type sessionCache interface {
	PaymentSessionKey(sessionID string) string
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// ServiceParams packages the dependencies for the payment service.
type ServiceParams struct {
	TxRunner           TxRunner
	SessionRepo        sessionRepository
	SessionRepoFactory func(tx *gorm.DB) sessionRepository
	OrderRepoFactory   func(tx *gorm.DB) orderStore
	Cache              sessionCache
}

type service struct {
	tx          TxRunner
	sessionRepo sessionRepository
	sessionTx   func(tx *gorm.DB) sessionRepository
	orderTx     func(tx *gorm.DB) orderStore
	cache       sessionCache
}

// NewService builds a payment service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.SessionRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session repository required")
	}
	sessionTx := params.SessionRepoFactory
	if sessionTx == nil {
		sessionTx = func(tx *gorm.DB) sessionRepository {
			return NewRepository(tx)
		}
	}
	orderTx := params.OrderRepoFactory
	if orderTx == nil {
		orderTx = func(tx *gorm.DB) orderStore {
			return orders.NewRepository(tx)
		}
	}
	return &service{
		tx:          params.TxRunner,
		sessionRepo: params.SessionRepo,
		sessionTx:   sessionTx,
		orderTx:     orderTx,
		cache:       params.Cache,
	}, nil
}

// CreateSession opens a simulated payment session for the user's pending
// order and returns the redirect URL.
func (s *service) CreateSession(ctx context.Context, userID uuid.UUID, input CreateSessionInput) (*SessionDTO, error) {
	var out *SessionDTO
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		sessionRepo := s.sessionTx(tx)
		orderRepo := s.orderTx(tx)

		order, err := s.loadOwnedOrder(ctx, orderRepo, userID, input.OrderID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not payable").
				WithDetails(map[string]any{"status": order.Status})
		}

		sessionID := uuid.New()
		session, err := sessionRepo.Create(ctx, &models.PaymentSession{
			ID:      sessionID,
			OrderID: order.ID,
			UserID:  userID,
			Amount:  order.Total,
			Status:  enums.PaymentStatusCreated,
			URL:     checkoutURLBase + sessionID.String(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create payment session")
		}

		out = fromModel(session)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.cacheStatus(ctx, out.ID, out.Status)
	return out, nil
}

// Confirm applies the simulated gateway result. Any status other than
// "success" marks the session failed and leaves the order untouched.
func (s *service) Confirm(ctx context.Context, userID uuid.UUID, input ConfirmInput) (*SessionDTO, error) {
	var out *SessionDTO
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		sessionRepo := s.sessionTx(tx)
		orderRepo := s.orderTx(tx)

		session, err := sessionRepo.FindByID(ctx, input.SessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment session not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment session")
		}
		if session.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "payment session belongs to another user")
		}
		if session.OrderID != input.OrderID {
			return pkgerrors.New(pkgerrors.CodeValidation, "session does not match order")
		}
		if session.Status != enums.PaymentStatusCreated {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment session already settled").
				WithDetails(map[string]any{"status": session.Status})
		}

		if !strings.EqualFold(input.Status, successStatus) {
			session.Status = enums.PaymentStatusFailed
			if _, err := sessionRepo.Save(ctx, session); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment session")
			}
			out = fromModel(session)
			return nil
		}

		session.Status = enums.PaymentStatusConfirmed
		session.PaymentID = &input.PaymentID
		session.TransactionID = &input.TransactionID
		if _, err := sessionRepo.Save(ctx, session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment session")
		}

		affected, err := orderRepo.ConfirmPaid(ctx, session.OrderID, input.PaymentID, input.TransactionID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirm order")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not payable")
		}

		out = fromModel(session)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.cacheStatus(ctx, out.ID, out.Status)
	return out, nil
}

func (s *service) loadOwnedOrder(ctx context.Context, repo orderStore, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return order, nil
}

func (s *service) cacheStatus(ctx context.Context, sessionID uuid.UUID, status enums.PaymentStatus) {
	if s.cache == nil {
		return
	}
	key := s.cache.PaymentSessionKey(sessionID.String())
	// Failures here are invisible to callers; the DB row is the source
	// of truth.
	_ = s.cache.Set(ctx, key, string(status), sessionCacheTTL)
}

func fromModel(session *models.PaymentSession) *SessionDTO {
	return &SessionDTO{
		ID:      session.ID,
		OrderID: session.OrderID,
		Amount:  session.Amount,
		Status:  session.Status,
		URL:     session.URL,
	}
}
