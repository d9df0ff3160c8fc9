package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/AlenaMolokova/smmpanel/internal/constants"
	"github.com/AlenaMolokova/smmpanel/internal/events"
	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/AlenaMolokova/smmpanel/internal/status"
	"github.com/AlenaMolokova/smmpanel/internal/testutils"
	"github.com/AlenaMolokova/smmpanel/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testService() models.Service {
	return models.Service{
		ID:          3,
		ExternalID:  42,
		Name:        "Instagram Followers",
		Category:    "Instagram",
		CostRate:    1.0,
		Rate:        1.2,
		MinQuantity: 100,
		MaxQuantity: 10000,
		Active:      true,
	}
}

func TestOrderUseCaseCreate(t *testing.T) {
	userID := int64(1)
	ctx := context.Background()
	link := "https://example.com/post/1"

	tests := []struct {
		name        string
		quantity    int
		link        string
		setupMocks  func(*testutils.MockOrderStorage, *testutils.MockServiceStorage, *testutils.MockSubmitter)
		expectedErr error
	}{
		{
			name:     "успешное создание заказа",
			quantity: 500,
			link:     link,
			setupMocks: func(os *testutils.MockOrderStorage, ss *testutils.MockServiceStorage, sb *testutils.MockSubmitter) {
				ss.On("GetServiceByID", mock.Anything, int64(3)).Return(testService(), nil)
				os.On("CreateOrderWithDebit", mock.Anything, mock.AnythingOfType("*models.Order"), mock.MatchedBy(func(d models.WalletTransaction) bool {
					return d.Type == constants.TransactionDebit && d.Amount == 0.6
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*models.Order).ID = 10
				}).Return(nil)
				sb.On("SubmitOrder", mock.Anything, int64(42), link, 500).Return(int64(555), nil)
				os.On("SetOrderExternalID", mock.Anything, int64(10), int64(555)).Return(nil)
			},
			expectedErr: nil,
		},
		{
			name:     "недостаточно средств",
			quantity: 500,
			link:     link,
			setupMocks: func(os *testutils.MockOrderStorage, ss *testutils.MockServiceStorage, sb *testutils.MockSubmitter) {
				ss.On("GetServiceByID", mock.Anything, int64(3)).Return(testService(), nil)
				os.On("CreateOrderWithDebit", mock.Anything, mock.AnythingOfType("*models.Order"), mock.AnythingOfType("models.WalletTransaction")).Return(models.ErrInsufficientBalance)
			},
			expectedErr: models.ErrInsufficientBalance,
		},
		{
			name:     "количество меньше минимума",
			quantity: 50,
			link:     link,
			setupMocks: func(os *testutils.MockOrderStorage, ss *testutils.MockServiceStorage, sb *testutils.MockSubmitter) {
				ss.On("GetServiceByID", mock.Anything, int64(3)).Return(testService(), nil)
			},
			expectedErr: models.ErrInvalidQuantity,
		},
		{
			name:     "количество больше максимума",
			quantity: 20000,
			link:     link,
			setupMocks: func(os *testutils.MockOrderStorage, ss *testutils.MockServiceStorage, sb *testutils.MockSubmitter) {
				ss.On("GetServiceByID", mock.Anything, int64(3)).Return(testService(), nil)
			},
			expectedErr: models.ErrInvalidQuantity,
		},
		{
			name:     "некорректная ссылка",
			quantity: 500,
			link:     "not a link",
			setupMocks: func(os *testutils.MockOrderStorage, ss *testutils.MockServiceStorage, sb *testutils.MockSubmitter) {
				ss.On("GetServiceByID", mock.Anything, int64(3)).Return(testService(), nil)
			},
			expectedErr: models.ErrInvalidLink,
		},
		{
			name:     "сервис не найден",
			quantity: 500,
			link:     link,
			setupMocks: func(os *testutils.MockOrderStorage, ss *testutils.MockServiceStorage, sb *testutils.MockSubmitter) {
				ss.On("GetServiceByID", mock.Anything, int64(3)).Return(models.Service{}, models.ErrServiceNotFound)
			},
			expectedErr: models.ErrServiceNotFound,
		},
		{
			name:     "сбой провайдера оставляет заказ в ожидании",
			quantity: 500,
			link:     link,
			setupMocks: func(os *testutils.MockOrderStorage, ss *testutils.MockServiceStorage, sb *testutils.MockSubmitter) {
				ss.On("GetServiceByID", mock.Anything, int64(3)).Return(testService(), nil)
				os.On("CreateOrderWithDebit", mock.Anything, mock.AnythingOfType("*models.Order"), mock.AnythingOfType("models.WalletTransaction")).Run(func(args mock.Arguments) {
					args.Get(1).(*models.Order).ID = 11
				}).Return(nil)
				sb.On("SubmitOrder", mock.Anything, int64(42), link, 500).Return(int64(0), errors.New("provider down"))
			},
			expectedErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os := &testutils.MockOrderStorage{}
			ss := &testutils.MockServiceStorage{}
			sb := &testutils.MockSubmitter{}
			tt.setupMocks(os, ss, sb)

			uc := usecase.NewOrderUseCase(os, ss, sb, events.NopPublisher{})
			order, err := uc.Create(ctx, userID, 3, tt.link, tt.quantity)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, constants.StatusPending, order.Status)
				assert.Equal(t, 0.6, order.Charge)
				assert.Equal(t, order.Charge, order.WalletDeduction)
			}

			os.AssertExpectations(t)
			ss.AssertExpectations(t)
			sb.AssertExpectations(t)
		})
	}
}

func TestOrderUseCaseCreateManual(t *testing.T) {
	ctx := context.Background()

	os := &testutils.MockOrderStorage{}
	ss := &testutils.MockServiceStorage{}
	ss.On("GetServiceByID", mock.Anything, int64(3)).Return(testService(), nil)
	os.On("CreateOrderWithDebit", mock.Anything, mock.AnythingOfType("*models.Order"), mock.MatchedBy(func(d models.WalletTransaction) bool {
		return d.Type == constants.TransactionDebit && d.ActorID.Valid && d.ActorID.Int64 == 99
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Order).ID = 12
	}).Return(nil)

	uc := usecase.NewOrderUseCase(os, ss, &testutils.MockSubmitter{}, events.NopPublisher{})
	order, err := uc.CreateManual(ctx, 99, 1, 3, "https://example.com/post/1", 500, 777)

	assert.NoError(t, err)
	assert.True(t, order.ExternalID.Valid)
	assert.Equal(t, int64(777), order.ExternalID.Int64)
	os.AssertExpectations(t)
	ss.AssertExpectations(t)
}

func TestOrderUseCaseTransition(t *testing.T) {
	ctx := context.Background()
	userID := int64(1)

	pendingOrder := models.Order{ID: 10, UserID: userID, Status: constants.StatusPending, WalletDeduction: 0.6}
	inProgressOrder := models.Order{ID: 10, UserID: userID, Status: constants.StatusInProgress, WalletDeduction: 0.6}
	completedOrder := models.Order{ID: 10, UserID: userID, Status: constants.StatusCompleted, WalletDeduction: 0.6}
	canceledOrder := models.Order{ID: 10, UserID: userID, Status: constants.StatusCanceled, WalletDeduction: 0.6}

	tests := []struct {
		name          string
		newStatus     string
		setupMocks    func(*testutils.MockOrderStorage, *testutils.MockPublisher)
		expectedErr   error
		expectPublish bool
	}{
		{
			name:      "переход в работу",
			newStatus: constants.StatusInProgress,
			setupMocks: func(os *testutils.MockOrderStorage, pub *testutils.MockPublisher) {
				os.On("GetOrderByID", mock.Anything, int64(10)).Return(pendingOrder, nil)
				os.On("TransitionOrder", mock.Anything, int64(10), constants.StatusPending, constants.StatusInProgress, mock.MatchedBy(func(r *models.WalletTransaction) bool {
					return r == nil
				})).Return(true, nil)
			},
		},
		{
			name:      "завершение публикует событие",
			newStatus: constants.StatusCompleted,
			setupMocks: func(os *testutils.MockOrderStorage, pub *testutils.MockPublisher) {
				os.On("GetOrderByID", mock.Anything, int64(10)).Return(inProgressOrder, nil)
				os.On("TransitionOrder", mock.Anything, int64(10), constants.StatusInProgress, constants.StatusCompleted, mock.MatchedBy(func(r *models.WalletTransaction) bool {
					return r == nil
				})).Return(true, nil)
				pub.On("Publish", mock.Anything, events.RouteOrderCompleted, mock.AnythingOfType("events.OrderEvent")).Return(nil)
			},
			expectPublish: true,
		},
		{
			name:      "отмена возвращает списание",
			newStatus: constants.StatusCanceled,
			setupMocks: func(os *testutils.MockOrderStorage, pub *testutils.MockPublisher) {
				os.On("GetOrderByID", mock.Anything, int64(10)).Return(inProgressOrder, nil)
				os.On("TransitionOrder", mock.Anything, int64(10), constants.StatusInProgress, constants.StatusCanceled, mock.MatchedBy(func(r *models.WalletTransaction) bool {
					return r != nil && r.Type == constants.TransactionCredit && r.Amount == 0.6 && r.UserID == userID
				})).Return(true, nil)
				pub.On("Publish", mock.Anything, events.RouteOrderCanceled, mock.AnythingOfType("events.OrderEvent")).Return(nil)
			},
			expectPublish: true,
		},
		{
			name:      "переход из завершенного запрещен",
			newStatus: constants.StatusCanceled,
			setupMocks: func(os *testutils.MockOrderStorage, pub *testutils.MockPublisher) {
				os.On("GetOrderByID", mock.Anything, int64(10)).Return(completedOrder, nil)
			},
			expectedErr: models.ErrInvalidTransition,
		},
		{
			name:      "переход из отмененного запрещен",
			newStatus: constants.StatusCompleted,
			setupMocks: func(os *testutils.MockOrderStorage, pub *testutils.MockPublisher) {
				os.On("GetOrderByID", mock.Anything, int64(10)).Return(canceledOrder, nil)
			},
			expectedErr: models.ErrInvalidTransition,
		},
		{
			name:      "возврат в ожидание запрещен",
			newStatus: constants.StatusPending,
			setupMocks: func(os *testutils.MockOrderStorage, pub *testutils.MockPublisher) {
				os.On("GetOrderByID", mock.Anything, int64(10)).Return(inProgressOrder, nil)
			},
			expectedErr: models.ErrInvalidTransition,
		},
		{
			name:      "конкурентный переход пропускается",
			newStatus: constants.StatusCompleted,
			setupMocks: func(os *testutils.MockOrderStorage, pub *testutils.MockPublisher) {
				os.On("GetOrderByID", mock.Anything, int64(10)).Return(inProgressOrder, nil)
				os.On("TransitionOrder", mock.Anything, int64(10), constants.StatusInProgress, constants.StatusCompleted, mock.MatchedBy(func(r *models.WalletTransaction) bool {
					return r == nil
				})).Return(false, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os := &testutils.MockOrderStorage{}
			pub := &testutils.MockPublisher{}
			tt.setupMocks(os, pub)

			uc := usecase.NewOrderUseCase(os, &testutils.MockServiceStorage{}, &testutils.MockSubmitter{}, pub)
			err := uc.Transition(ctx, 10, tt.newStatus, 0)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			if !tt.expectPublish {
				pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
			}

			os.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestOrderLifecycleCancelRestoresBalance(t *testing.T) {
	ctx := context.Background()
	userID := int64(1)
	balance := 10.0

	svc := testService()
	svc.Rate = 8.0

	os := &testutils.MockOrderStorage{}
	ss := &testutils.MockServiceStorage{}
	sb := &testutils.MockSubmitter{}
	ss.On("GetServiceByID", mock.Anything, int64(3)).Return(svc, nil)
	os.On("CreateOrderWithDebit", mock.Anything, mock.AnythingOfType("*models.Order"), mock.AnythingOfType("models.WalletTransaction")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Order).ID = 10
		balance -= args.Get(2).(models.WalletTransaction).Amount
	}).Return(nil)
	sb.On("SubmitOrder", mock.Anything, int64(42), "https://example.com/p", 500).Return(int64(555), nil)
	os.On("SetOrderExternalID", mock.Anything, int64(10), int64(555)).Return(nil)

	uc := usecase.NewOrderUseCase(os, ss, sb, events.NopPublisher{})
	order, err := uc.Create(ctx, userID, 3, "https://example.com/p", 500)

	assert.NoError(t, err)
	assert.Equal(t, 4.0, order.Charge)
	assert.Equal(t, 6.0, balance)

	os.On("GetOrderByID", mock.Anything, int64(10)).Return(models.Order{
		ID:              10,
		UserID:          userID,
		Status:          constants.StatusPending,
		WalletDeduction: order.WalletDeduction,
	}, nil)
	os.On("TransitionOrder", mock.Anything, int64(10), constants.StatusPending, constants.StatusCanceled, mock.MatchedBy(func(r *models.WalletTransaction) bool {
		return r != nil
	})).Run(func(args mock.Arguments) {
		balance += args.Get(4).(*models.WalletTransaction).Amount
	}).Return(true, nil)

	err = uc.Transition(ctx, 10, status.Normalize("canceled"), 0)

	assert.NoError(t, err)
	assert.Equal(t, 10.0, balance)
	os.AssertExpectations(t)
}

func TestOrderUseCaseGetRecentOrders(t *testing.T) {
	ctx := context.Background()

	os := &testutils.MockOrderStorage{}
	os.On("GetRecentOrders", mock.Anything, constants.RecentOrdersLimit).Return([]models.Order{{ID: 1}, {ID: 2}}, nil)

	uc := usecase.NewOrderUseCase(os, &testutils.MockServiceStorage{}, &testutils.MockSubmitter{}, events.NopPublisher{})
	orders, err := uc.GetRecentOrders(ctx)

	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	os.AssertExpectations(t)
}
