package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/AlenaMolokova/smmpanel/internal/constants"
	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/AlenaMolokova/smmpanel/internal/utils"
	"github.com/jackc/pgx/v5/pgtype"
)

// WalletStorage implementations must apply the balance change and append the
// transaction row in one atomic unit; the balance column is a cached
// aggregate of the transaction log and the two must never diverge.
type WalletStorage interface {
	GetBalance(ctx context.Context, userID int64) (pgtype.Float8, error)
	CreditWallet(ctx context.Context, t models.WalletTransaction) error
	DebitWallet(ctx context.Context, t models.WalletTransaction) error
	GetTransactionsByUserID(ctx context.Context, userID int64) ([]models.WalletTransaction, error)
}

type WalletUseCase struct {
	storage WalletStorage
}

func NewWalletUseCase(storage WalletStorage) *WalletUseCase {
	return &WalletUseCase{storage: storage}
}

func (u *WalletUseCase) GetWallet(ctx context.Context, userID int64) (float64, []models.WalletTransaction, error) {
	balance, err := u.storage.GetBalance(ctx, userID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get balance: %w", err)
	}

	transactions, err := u.storage.GetTransactionsByUserID(ctx, userID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	current := 0.0
	if balance.Valid {
		current = balance.Float64
	}
	return current, transactions, nil
}

// Credit is the admin top-up path. Receipt-funded credits go through the
// receipt review flow instead so they settle atomically with the review.
func (u *WalletUseCase) Credit(ctx context.Context, userID int64, amount float64, actorID int64, note string) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive")
	}

	t := models.WalletTransaction{
		UserID:    userID,
		Type:      constants.TransactionCredit,
		Amount:    utils.Round4(amount),
		ActorID:   pgtype.Int8{Int64: actorID, Valid: actorID != 0},
		Note:      note,
		CreatedAt: pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}

	if err := u.storage.CreditWallet(ctx, t); err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	return nil
}
