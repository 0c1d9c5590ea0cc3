package payments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sureshop/sureshop-backend/pkg/db/models"
	"github.com/sureshop/sureshop-backend/pkg/enums"
	pkgerrors "github.com/sureshop/sureshop-backend/pkg/errors"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubPaymentStore struct {
	sessions map[uuid.UUID]*models.PaymentSession
	orders   map[uuid.UUID]*models.Order
}

func newStubPaymentStore() *stubPaymentStore {
	return &stubPaymentStore{
		sessions: map[uuid.UUID]*models.PaymentSession{},
		orders:   map[uuid.UUID]*models.Order{},
	}
}

func (s *stubPaymentStore) Create(_ context.Context, session *models.PaymentSession) (*models.PaymentSession, error) {
	s.sessions[session.ID] = session
	return session, nil
}

func (s *stubPaymentStore) FindByID(_ context.Context, id uuid.UUID) (*models.PaymentSession, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPaymentStore) Save(_ context.Context, session *models.PaymentSession) (*models.PaymentSession, error) {
	s.sessions[session.ID] = session
	return session, nil
}

func (s *stubPaymentStore) findOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := s.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPaymentStore) ConfirmPaid(_ context.Context, id uuid.UUID, paymentID, transactionID string) (int64, error) {
	o, ok := s.orders[id]
	if !ok || o.Status != enums.OrderStatusPending {
		return 0, nil
	}
	o.Status = enums.OrderStatusConfirmed
	o.PaymentID = &paymentID
	o.TransactionID = &transactionID
	return 1, nil
}

type stubOrderStore struct {
	*stubPaymentStore
}

func (s stubOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.findOrder(ctx, id)
}

type stubPaymentCache struct {
	entries map[string]string
}

func (s *stubPaymentCache) PaymentSessionKey(sessionID string) string {
	return "sureshop:payment:" + sessionID
}

func (s *stubPaymentCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if s.entries == nil {
		s.entries = map[string]string{}
	}
	s.entries[key] = value.(string)
	return nil
}

func buildPaymentService(t *testing.T) (Service, *stubPaymentStore, *stubPaymentCache) {
	t.Helper()

	store := newStubPaymentStore()
	cache := &stubPaymentCache{}
	svc, err := NewService(ServiceParams{
		TxRunner:    stubTxRunner{},
		SessionRepo: store,
		SessionRepoFactory: func(_ *gorm.DB) sessionRepository {
			return store
		},
		OrderRepoFactory: func(_ *gorm.DB) orderStore {
			return stubOrderStore{store}
		},
		Cache: cache,
	})
	require.NoError(t, err)
	return svc, store, cache
}

func seedPaymentOrder(t *testing.T, store *stubPaymentStore, userID uuid.UUID, status enums.OrderStatus) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:     uuid.New(),
		UserID: userID,
		Status: status,
		Total:  decimal.RequireFromString("45.50"),
	}
	store.orders[order.ID] = order
	return order
}

func TestCreateSessionForPendingOrder(t *testing.T) {
	svc, store, cache := buildPaymentService(t)
	userID := uuid.New()
	order := seedPaymentOrder(t, store, userID, enums.OrderStatusPending)

	dto, err := svc.CreateSession(context.Background(), userID, CreateSessionInput{OrderID: order.ID})
	require.NoError(t, err)

	assert.Equal(t, order.ID, dto.OrderID)
	assert.Equal(t, enums.PaymentStatusCreated, dto.Status)
	assert.True(t, dto.Amount.Equal(order.Total))
	assert.True(t, strings.HasPrefix(dto.URL, "https://simulated-stripe.com/pay/"), dto.URL)
	assert.True(t, strings.HasSuffix(dto.URL, dto.ID.String()), dto.URL)
	assert.Equal(t, "created", cache.entries["sureshop:payment:"+dto.ID.String()])
}

func TestCreateSessionRejectsNonPendingOrder(t *testing.T) {
	svc, store, _ := buildPaymentService(t)
	userID := uuid.New()
	order := seedPaymentOrder(t, store, userID, enums.OrderStatusConfirmed)

	_, err := svc.CreateSession(context.Background(), userID, CreateSessionInput{OrderID: order.ID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestCreateSessionRejectsNonOwner(t *testing.T) {
	svc, store, _ := buildPaymentService(t)
	order := seedPaymentOrder(t, store, uuid.New(), enums.OrderStatusPending)

	_, err := svc.CreateSession(context.Background(), uuid.New(), CreateSessionInput{OrderID: order.ID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestConfirmSuccessTransitionsOrder(t *testing.T) {
	svc, store, _ := buildPaymentService(t)
	userID := uuid.New()
	order := seedPaymentOrder(t, store, userID, enums.OrderStatusPending)

	session, err := svc.CreateSession(context.Background(), userID, CreateSessionInput{OrderID: order.ID})
	require.NoError(t, err)

	dto, err := svc.Confirm(context.Background(), userID, ConfirmInput{
		OrderID:       order.ID,
		SessionID:     session.ID,
		PaymentID:     "pay_123",
		TransactionID: "txn_456",
		Status:        "SUCCESS",
	})
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusConfirmed, dto.Status)

	paid := store.orders[order.ID]
	assert.Equal(t, enums.OrderStatusConfirmed, paid.Status)
	require.NotNil(t, paid.PaymentID)
	assert.Equal(t, "pay_123", *paid.PaymentID)
	require.NotNil(t, paid.TransactionID)
	assert.Equal(t, "txn_456", *paid.TransactionID)

	stored := store.sessions[session.ID]
	require.NotNil(t, stored.PaymentID)
	assert.Equal(t, "pay_123", *stored.PaymentID)
	require.NotNil(t, stored.TransactionID)
	assert.Equal(t, "txn_456", *stored.TransactionID)
}

func TestConfirmNonSuccessLeavesOrderUntouched(t *testing.T) {
	svc, store, _ := buildPaymentService(t)
	userID := uuid.New()
	order := seedPaymentOrder(t, store, userID, enums.OrderStatusPending)

	session, err := svc.CreateSession(context.Background(), userID, CreateSessionInput{OrderID: order.ID})
	require.NoError(t, err)

	dto, err := svc.Confirm(context.Background(), userID, ConfirmInput{
		OrderID:       order.ID,
		SessionID:     session.ID,
		PaymentID:     "pay_123",
		TransactionID: "txn_456",
		Status:        "cancelled",
	})
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusFailed, dto.Status)
	assert.Equal(t, enums.OrderStatusPending, store.orders[order.ID].Status)
	assert.Nil(t, store.sessions[session.ID].PaymentID)
}

func TestConfirmRejectsSettledSession(t *testing.T) {
	svc, store, _ := buildPaymentService(t)
	userID := uuid.New()
	order := seedPaymentOrder(t, store, userID, enums.OrderStatusPending)

	session, err := svc.CreateSession(context.Background(), userID, CreateSessionInput{OrderID: order.ID})
	require.NoError(t, err)

	input := ConfirmInput{
		OrderID:       order.ID,
		SessionID:     session.ID,
		PaymentID:     "pay_123",
		TransactionID: "txn_456",
		Status:        "success",
	}
	_, err = svc.Confirm(context.Background(), userID, input)
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), userID, input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestConfirmRejectsMismatchedOrder(t *testing.T) {
	svc, store, _ := buildPaymentService(t)
	userID := uuid.New()
	order := seedPaymentOrder(t, store, userID, enums.OrderStatusPending)

	session, err := svc.CreateSession(context.Background(), userID, CreateSessionInput{OrderID: order.ID})
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), userID, ConfirmInput{
		OrderID:       uuid.New(),
		SessionID:     session.ID,
		PaymentID:     "pay_123",
		TransactionID: "txn_456",
		Status:        "success",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestConfirmUnknownSession(t *testing.T) {
	svc, _, _ := buildPaymentService(t)

	_, err := svc.Confirm(context.Background(), uuid.New(), ConfirmInput{
		OrderID:   uuid.New(),
		SessionID: uuid.New(),
		Status:    "success",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
