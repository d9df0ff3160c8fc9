package testutils

import (
	"context"

	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/mock"
)

type MockOrderStorage struct {
	mock.Mock
}

func (m *MockOrderStorage) CreateOrderWithDebit(ctx context.Context, order *models.Order, debit models.WalletTransaction) error {
	args := m.Called(ctx, order, debit)
	return args.Error(0)
}

func (m *MockOrderStorage) GetOrderByID(ctx context.Context, id int64) (models.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *MockOrderStorage) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderStorage) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderStorage) GetRecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderStorage) TransitionOrder(ctx context.Context, orderID int64, from, to string, refund *models.WalletTransaction) (bool, error) {
	args := m.Called(ctx, orderID, from, to, refund)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderStorage) SetOrderExternalID(ctx context.Context, orderID, externalID int64) error {
	args := m.Called(ctx, orderID, externalID)
	return args.Error(0)
}

type MockServiceStorage struct {
	mock.Mock
}

func (m *MockServiceStorage) GetServiceByID(ctx context.Context, id int64) (models.Service, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Service), args.Error(1)
}

func (m *MockServiceStorage) GetActiveServices(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Service), args.Error(1)
}

type MockWalletStorage struct {
	mock.Mock
}

func (m *MockWalletStorage) GetBalance(ctx context.Context, userID int64) (pgtype.Float8, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(pgtype.Float8), args.Error(1)
}

func (m *MockWalletStorage) CreditWallet(ctx context.Context, t models.WalletTransaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockWalletStorage) DebitWallet(ctx context.Context, t models.WalletTransaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockWalletStorage) GetTransactionsByUserID(ctx context.Context, userID int64) ([]models.WalletTransaction, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.WalletTransaction), args.Error(1)
}

type MockReceiptStorage struct {
	mock.Mock
}

func (m *MockReceiptStorage) CreateReceipt(ctx context.Context, r models.Receipt) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReceiptStorage) GetReceiptByID(ctx context.Context, id uuid.UUID) (models.Receipt, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Receipt), args.Error(1)
}

func (m *MockReceiptStorage) GetReceiptsByUserID(ctx context.Context, userID int64) ([]models.Receipt, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Receipt), args.Error(1)
}

func (m *MockReceiptStorage) ReviewReceipt(ctx context.Context, id uuid.UUID, newStatus string, reviewerID int64, credit *models.WalletTransaction) (models.Receipt, error) {
	args := m.Called(ctx, id, newStatus, reviewerID, credit)
	return args.Get(0).(models.Receipt), args.Error(1)
}

type MockUserStorage struct {
	mock.Mock
}

func (m *MockUserStorage) GetUserByLogin(ctx context.Context, login string) (models.User, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(models.User), args.Error(1)
}

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) SubmitOrder(ctx context.Context, serviceExternalID int64, link string, quantity int) (int64, error) {
	args := m.Called(ctx, serviceExternalID, link, quantity)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, body interface{}) error {
	args := m.Called(ctx, routingKey, body)
	return args.Error(0)
}

func (m *MockPublisher) Close() {
	m.Called()
}
