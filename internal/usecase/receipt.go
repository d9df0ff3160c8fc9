package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AlenaMolokova/smmpanel/internal/constants"
	"github.com/AlenaMolokova/smmpanel/internal/events"
	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ReceiptStorage implementations apply the review status change and the
// credit (when approving) in one atomic unit, and must reject a second
// review of the same receipt.
type ReceiptStorage interface {
	CreateReceipt(ctx context.Context, r models.Receipt) error
	GetReceiptByID(ctx context.Context, id uuid.UUID) (models.Receipt, error)
	GetReceiptsByUserID(ctx context.Context, userID int64) ([]models.Receipt, error)
	ReviewReceipt(ctx context.Context, id uuid.UUID, newStatus string, reviewerID int64, credit *models.WalletTransaction) (models.Receipt, error)
}

type ReceiptUseCase struct {
	storage   ReceiptStorage
	publisher events.Publisher
}

func NewReceiptUseCase(storage ReceiptStorage, publisher events.Publisher) *ReceiptUseCase {
	return &ReceiptUseCase{storage: storage, publisher: publisher}
}

func (uc *ReceiptUseCase) Submit(ctx context.Context, userID int64, fileURL string, amount float64, currency, note string) (models.Receipt, error) {
	if amount <= 0 {
		return models.Receipt{}, fmt.Errorf("receipt amount must be positive")
	}
	if _, ok := constants.ExchangeRates[currency]; !ok {
		return models.Receipt{}, models.ErrUnsupportedCurrency
	}
	if fileURL == "" {
		return models.Receipt{}, fmt.Errorf("receipt file is required")
	}

	receipt := models.Receipt{
		ID:        uuid.New(),
		UserID:    userID,
		FileURL:   fileURL,
		Amount:    amount,
		Currency:  currency,
		Note:      note,
		Status:    constants.ReceiptPending,
		CreatedAt: pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}

	if err := uc.storage.CreateReceipt(ctx, receipt); err != nil {
		return models.Receipt{}, fmt.Errorf("failed to create receipt: %w", err)
	}

	log.Printf("Receipt %s submitted by user %d: %.2f %s", receipt.ID, userID, amount, currency)
	return receipt, nil
}

// Review settles a pending receipt. Approval converts the claimed amount at
// the rate in effect now and credits the wallet; rejection only flips the
// status. Either way the receipt leaves pending at most once.
func (uc *ReceiptUseCase) Review(ctx context.Context, id uuid.UUID, approve bool, adminID int64) (models.Receipt, error) {
	receipt, err := uc.storage.GetReceiptByID(ctx, id)
	if err != nil {
		return models.Receipt{}, err
	}
	if receipt.Status != constants.ReceiptPending {
		return models.Receipt{}, models.ErrReceiptAlreadyReviewed
	}

	newStatus := constants.ReceiptRejected
	var credit *models.WalletTransaction
	if approve {
		newStatus = constants.ReceiptApproved
		usd, err := ConvertToUSD(receipt.Amount, receipt.Currency)
		if err != nil {
			return models.Receipt{}, err
		}
		credit = &models.WalletTransaction{
			UserID:           receipt.UserID,
			Type:             constants.TransactionCredit,
			Amount:           usd,
			OriginalAmount:   pgtype.Float8{Float64: receipt.Amount, Valid: true},
			OriginalCurrency: pgtype.Text{String: receipt.Currency, Valid: true},
			ActorID:          pgtype.Int8{Int64: adminID, Valid: true},
			Note:             fmt.Sprintf("receipt %s approved", id),
			CreatedAt:        pgtype.Timestamptz{Time: time.Now(), Valid: true},
		}
	}

	reviewed, err := uc.storage.ReviewReceipt(ctx, id, newStatus, adminID, credit)
	if err != nil {
		return models.Receipt{}, err
	}

	log.Printf("Receipt %s reviewed by admin %d: %s", id, adminID, newStatus)

	if approve {
		event := events.ReceiptEvent{
			ReceiptID: id,
			UserID:    receipt.UserID,
			AmountUSD: credit.Amount,
			Currency:  receipt.Currency,
			Timestamp: time.Now(),
		}
		if err := uc.publisher.Publish(ctx, events.RouteReceiptApproved, event); err != nil {
			log.Printf("Failed to publish receipt.approved for %s: %v", id, err)
		}
	}
	return reviewed, nil
}

func (uc *ReceiptUseCase) GetUserReceipts(ctx context.Context, userID int64) ([]models.Receipt, error) {
	return uc.storage.GetReceiptsByUserID(ctx, userID)
}
