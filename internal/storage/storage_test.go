package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AlenaMolokova/smmpanel/internal/constants"
	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/AlenaMolokova/smmpanel/internal/testutils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type StorageTester interface {
	CreateOrderWithDebit(ctx context.Context, order *models.Order, debit models.WalletTransaction) error
	TransitionOrder(ctx context.Context, orderID int64, from, to string, refund *models.WalletTransaction) (bool, error)
	DebitWallet(ctx context.Context, t models.WalletTransaction) error
	ReviewReceipt(ctx context.Context, id uuid.UUID, newStatus string, reviewerID int64, credit *models.WalletTransaction) (models.Receipt, error)
}

type mockStorage struct {
	*testutils.MockOrderStorage
	*testutils.MockWalletStorage
	*testutils.MockReceiptStorage
}

func TestStorage(t *testing.T) {
	ctx := context.Background()
	mockOrderStorage := &testutils.MockOrderStorage{}
	mockWalletStorage := &testutils.MockWalletStorage{}
	mockReceiptStorage := &testutils.MockReceiptStorage{}
	var store StorageTester = &mockStorage{
		MockOrderStorage:   mockOrderStorage,
		MockWalletStorage:  mockWalletStorage,
		MockReceiptStorage: mockReceiptStorage,
	}

	userID := int64(1)
	receiptID := uuid.New()
	debit := models.WalletTransaction{
		UserID: userID,
		Type:   constants.TransactionDebit,
		Amount: 4.0,
		Note:   "Order",
	}
	refund := models.WalletTransaction{
		UserID: userID,
		Type:   constants.TransactionCredit,
		Amount: 4.0,
		Note:   "Order canceled",
	}

	tests := []struct {
		name        string
		setupMocks  func()
		testFunc    func() error
		expectedErr error
	}{
		{
			name: "успешное создание заказа со списанием",
			setupMocks: func() {
				mockOrderStorage.On("CreateOrderWithDebit", ctx, mock.AnythingOfType("*models.Order"), debit).
					Return(nil).Once()
			},
			testFunc: func() error {
				order := models.Order{UserID: userID, ServiceID: 3, Quantity: 1000, Status: constants.StatusPending}
				return store.CreateOrderWithDebit(ctx, &order, debit)
			},
		},
		{
			name: "списание при недостатке средств",
			setupMocks: func() {
				mockWalletStorage.On("DebitWallet", ctx, debit).
					Return(models.ErrInsufficientBalance).Once()
			},
			testFunc: func() error {
				return store.DebitWallet(ctx, debit)
			},
			expectedErr: models.ErrInsufficientBalance,
		},
		{
			name: "переход статуса с возвратом средств",
			setupMocks: func() {
				mockOrderStorage.On("TransitionOrder", ctx, int64(10), constants.StatusPending, constants.StatusCanceled, &refund).
					Return(true, nil).Once()
			},
			testFunc: func() error {
				applied, err := store.TransitionOrder(ctx, 10, constants.StatusPending, constants.StatusCanceled, &refund)
				if err != nil {
					return err
				}
				assert.True(t, applied)
				return nil
			},
		},
		{
			name: "гонка перехода возвращает false без ошибки",
			setupMocks: func() {
				mockOrderStorage.On("TransitionOrder", ctx, int64(10), constants.StatusPending, constants.StatusInProgress, (*models.WalletTransaction)(nil)).
					Return(false, nil).Once()
			},
			testFunc: func() error {
				applied, err := store.TransitionOrder(ctx, 10, constants.StatusPending, constants.StatusInProgress, nil)
				if err != nil {
					return err
				}
				assert.False(t, applied)
				return nil
			},
		},
		{
			name: "повторная проверка чека",
			setupMocks: func() {
				mockReceiptStorage.On("ReviewReceipt", ctx, receiptID, constants.ReceiptApproved, int64(99), (*models.WalletTransaction)(nil)).
					Return(models.Receipt{}, models.ErrReceiptAlreadyReviewed).Once()
			},
			testFunc: func() error {
				_, err := store.ReviewReceipt(ctx, receiptID, constants.ReceiptApproved, 99, nil)
				return err
			},
			expectedErr: models.ErrReceiptAlreadyReviewed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMocks()
			err := tt.testFunc()
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			mockOrderStorage.AssertExpectations(t)
			mockWalletStorage.AssertExpectations(t)
			mockReceiptStorage.AssertExpectations(t)
		})
	}
}

type fakeRow struct {
	vals []interface{}
}

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != len(r.vals) {
		return fmt.Errorf("expected %d columns, got %d", len(r.vals), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.vals[i].(int64)
		case *int:
			*p = r.vals[i].(int)
		case *string:
			*p = r.vals[i].(string)
		case *float64:
			*p = r.vals[i].(float64)
		case *uuid.UUID:
			*p = r.vals[i].(uuid.UUID)
		case *pgtype.Int8:
			*p = r.vals[i].(pgtype.Int8)
		case *pgtype.Timestamptz:
			*p = r.vals[i].(pgtype.Timestamptz)
		default:
			return fmt.Errorf("unsupported scan target %T", d)
		}
	}
	return nil
}

func TestScanOrder(t *testing.T) {
	createdAt := pgtype.Timestamptz{Time: time.Now(), Valid: true}
	row := fakeRow{vals: []interface{}{
		int64(10), int64(1), int64(3), pgtype.Int8{Int64: 555, Valid: true},
		500, "https://example.com/p", 1.2, 1.0, 0.6, 0.6,
		constants.StatusPending, createdAt, pgtype.Timestamptz{},
	}}

	o, err := scanOrder(row)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), o.ID)
	assert.Equal(t, int64(555), o.ExternalID.Int64)
	assert.Equal(t, 0.6, o.WalletDeduction)
	assert.Equal(t, constants.StatusPending, o.Status)
	assert.Equal(t, createdAt, o.CreatedAt)
	assert.False(t, o.CompletedAt.Valid)
}

func TestScanReceipt(t *testing.T) {
	id := uuid.New()
	reviewedAt := pgtype.Timestamptz{Time: time.Now(), Valid: true}
	row := fakeRow{vals: []interface{}{
		id, int64(1), "https://cdn.example.com/r.png", 100000.0, constants.CurrencyIQD,
		"перевод", constants.ReceiptApproved, pgtype.Int8{Int64: 99, Valid: true},
		pgtype.Timestamptz{Time: time.Now(), Valid: true}, reviewedAt,
	}}

	r, err := scanReceipt(row)
	assert.NoError(t, err)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, constants.CurrencyIQD, r.Currency)
	assert.Equal(t, int64(99), r.ReviewedBy.Int64)
	assert.Equal(t, reviewedAt, r.ReviewedAt)
}
