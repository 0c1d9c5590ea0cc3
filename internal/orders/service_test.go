package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sureshop/sureshop-backend/pkg/db/models"
	"github.com/sureshop/sureshop-backend/pkg/enums"
	pkgerrors "github.com/sureshop/sureshop-backend/pkg/errors"
	"github.com/sureshop/sureshop-backend/pkg/pagination"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOrderRepo struct {
	byID map[uuid.UUID]*models.Order

	stock map[uuid.UUID]int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		byID:  map[uuid.UUID]*models.Order{},
		stock: map[uuid.UUID]int{},
	}
}

func (s *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := s.byID[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) ListByUser(_ context.Context, userID uuid.UUID, _ pagination.Params) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range s.byID {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubOrderRepo) ListAll(_ context.Context, _ pagination.Params) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range s.byID {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enums.OrderStatus) (int64, error) {
	o, ok := s.byID[id]
	if !ok {
		return 0, nil
	}
	o.Status = status
	return 1, nil
}

func (s *stubOrderRepo) UpdateStatusFrom(_ context.Context, id uuid.UUID, from, to enums.OrderStatus) (int64, error) {
	o, ok := s.byID[id]
	if !ok || o.Status != from {
		return 0, nil
	}
	o.Status = to
	return 1, nil
}

func (s *stubOrderRepo) IncrementStock(_ context.Context, id uuid.UUID, qty int) error {
	s.stock[id] += qty
	return nil
}

func buildOrderService(t *testing.T) (Service, *stubOrderRepo) {
	t.Helper()

	repo := newStubOrderRepo()
	svc, err := NewService(ServiceParams{
		TxRunner:  stubTxRunner{},
		OrderRepo: repo,
		OrderRepoFactory: func(_ *gorm.DB) orderRepository {
			return repo
		},
		ProductRepoFactory: func(_ *gorm.DB) productStock {
			return repo
		},
	})
	require.NoError(t, err)
	return svc, repo
}

func seedOrder(t *testing.T, repo *stubOrderRepo, userID uuid.UUID, status enums.OrderStatus) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          status,
		Total:           decimal.RequireFromString("30.00"),
		ShippingAddress: "1 Main St",
		Items: []models.OrderItem{
			{
				ID:        uuid.New(),
				ProductID: uuid.New(),
				Title:     "Webcam",
				Quantity:  3,
				UnitPrice: decimal.RequireFromString("10.00"),
				LineTotal: decimal.RequireFromString("30.00"),
			},
		},
	}
	repo.byID[order.ID] = order
	return order
}

func TestGetOrderOwnerAndAdmin(t *testing.T) {
	svc, repo := buildOrderService(t)
	owner := uuid.New()
	order := seedOrder(t, repo, owner, enums.OrderStatusPending)

	dto, err := svc.Get(context.Background(), owner, false, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, dto.ID)

	_, err = svc.Get(context.Background(), uuid.New(), false, order.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	dto, err = svc.Get(context.Background(), uuid.New(), true, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, dto.ID)
}

func TestGetOrderUnknownID(t *testing.T) {
	svc, _ := buildOrderService(t)

	_, err := svc.Get(context.Background(), uuid.New(), true, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCancelPendingOrderRestoresStock(t *testing.T) {
	svc, repo := buildOrderService(t)
	owner := uuid.New()
	order := seedOrder(t, repo, owner, enums.OrderStatusPending)

	dto, err := svc.Cancel(context.Background(), owner, order.ID)
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusCancelled, dto.Status)
	assert.Equal(t, 3, repo.stock[order.Items[0].ProductID])
}

func TestCancelRejectsNonPending(t *testing.T) {
	svc, repo := buildOrderService(t)
	owner := uuid.New()

	for _, status := range []enums.OrderStatus{
		enums.OrderStatusConfirmed,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	} {
		order := seedOrder(t, repo, owner, status)
		_, err := svc.Cancel(context.Background(), owner, order.ID)
		require.Error(t, err, status)
		assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	}
}

func TestCancelRejectsNonOwner(t *testing.T) {
	svc, repo := buildOrderService(t)
	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending)

	_, err := svc.Cancel(context.Background(), uuid.New(), order.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
	assert.Equal(t, enums.OrderStatusPending, repo.byID[order.ID].Status)
}

func TestUpdateStatusAdminOverride(t *testing.T) {
	svc, repo := buildOrderService(t)
	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusDelivered)

	dto, err := svc.UpdateStatus(context.Background(), order.ID, "SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, dto.Status)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc, repo := buildOrderService(t)
	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending)

	_, err := svc.UpdateStatus(context.Background(), order.ID, "REFUNDED")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Equal(t, enums.OrderStatusPending, repo.byID[order.ID].Status)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _ := buildOrderService(t)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "SHIPPED")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListOrdersScopedToUser(t *testing.T) {
	svc, repo := buildOrderService(t)
	owner := uuid.New()
	seedOrder(t, repo, owner, enums.OrderStatusPending)
	seedOrder(t, repo, uuid.New(), enums.OrderStatusPending)

	page, err := svc.List(context.Background(), owner, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalItems)

	all, err := svc.ListAll(context.Background(), pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalItems)
}
