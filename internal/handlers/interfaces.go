package handlers

import (
	"context"

	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/google/uuid"
)

type UserStorage interface {
	GetUserByLogin(ctx context.Context, login string) (models.User, error)
}

type ServiceStorage interface {
	GetActiveServices(ctx context.Context) ([]models.Service, error)
}

type OrderService interface {
	Create(ctx context.Context, userID, serviceID int64, link string, quantity int) (models.Order, error)
	CreateManual(ctx context.Context, adminID, userID, serviceID int64, link string, quantity int, externalID int64) (models.Order, error)
	Transition(ctx context.Context, orderID int64, newStatus string, actorID int64) error
	GetUserOrders(ctx context.Context, userID int64) ([]models.Order, error)
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	GetRecentOrders(ctx context.Context) ([]models.Order, error)
}

type WalletService interface {
	GetWallet(ctx context.Context, userID int64) (float64, []models.WalletTransaction, error)
	Credit(ctx context.Context, userID int64, amount float64, actorID int64, note string) error
}

type ReceiptService interface {
	Submit(ctx context.Context, userID int64, fileURL string, amount float64, currency, note string) (models.Receipt, error)
	Review(ctx context.Context, id uuid.UUID, approve bool, adminID int64) (models.Receipt, error)
	GetUserReceipts(ctx context.Context, userID int64) ([]models.Receipt, error)
}
