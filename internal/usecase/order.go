package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AlenaMolokova/smmpanel/internal/constants"
	"github.com/AlenaMolokova/smmpanel/internal/events"
	"github.com/AlenaMolokova/smmpanel/internal/metrics"
	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/AlenaMolokova/smmpanel/internal/status"
	"github.com/AlenaMolokova/smmpanel/internal/validation"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderStorage interface {
	CreateOrderWithDebit(ctx context.Context, order *models.Order, debit models.WalletTransaction) error
	GetOrderByID(ctx context.Context, id int64) (models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error)
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	GetRecentOrders(ctx context.Context, limit int) ([]models.Order, error)
	TransitionOrder(ctx context.Context, orderID int64, from, to string, refund *models.WalletTransaction) (bool, error)
	SetOrderExternalID(ctx context.Context, orderID, externalID int64) error
}

type ServiceStorage interface {
	GetServiceByID(ctx context.Context, id int64) (models.Service, error)
}

type Submitter interface {
	SubmitOrder(ctx context.Context, serviceExternalID int64, link string, quantity int) (int64, error)
}

var legalTransitions = map[string][]string{
	constants.StatusPending:    {constants.StatusInProgress, constants.StatusCompleted, constants.StatusCanceled},
	constants.StatusInProgress: {constants.StatusCompleted, constants.StatusCanceled},
}

func transitionAllowed(from, to string) bool {
	for _, s := range legalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type OrderUseCase struct {
	storage   OrderStorage
	services  ServiceStorage
	provider  Submitter
	publisher events.Publisher
	validator validation.OrderValidator
}

func NewOrderUseCase(storage OrderStorage, services ServiceStorage, provider Submitter, publisher events.Publisher) *OrderUseCase {
	return &OrderUseCase{
		storage:   storage,
		services:  services,
		provider:  provider,
		publisher: publisher,
		validator: validation.NewSMMOrderValidator(),
	}
}

// Create debits the wallet and inserts the order in one atomic unit, then
// submits it to the provider. A failed submission keeps the order as a
// Pending record with no external id; the poller retries it later.
func (uc *OrderUseCase) Create(ctx context.Context, userID, serviceID int64, link string, quantity int) (models.Order, error) {
	svc, err := uc.services.GetServiceByID(ctx, serviceID)
	if err != nil {
		return models.Order{}, err
	}

	if !uc.validator.ValidateQuantity(svc, quantity) {
		return models.Order{}, models.ErrInvalidQuantity
	}
	if !uc.validator.ValidateLink(link) {
		return models.Order{}, models.ErrInvalidLink
	}

	charge := Price(svc.Rate, quantity)
	order := models.Order{
		UserID:          userID,
		ServiceID:       serviceID,
		Quantity:        quantity,
		Link:            link,
		Rate:            svc.Rate,
		CostRate:        svc.CostRate,
		Charge:          charge,
		WalletDeduction: charge,
		Status:          constants.StatusPending,
		CreatedAt:       pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	debit := models.WalletTransaction{
		UserID:    userID,
		Type:      constants.TransactionDebit,
		Amount:    charge,
		Note:      fmt.Sprintf("order: %s x%d", svc.Name, quantity),
		CreatedAt: pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}

	if err := uc.storage.CreateOrderWithDebit(ctx, &order, debit); err != nil {
		return models.Order{}, err
	}

	externalID, err := uc.provider.SubmitOrder(ctx, svc.ExternalID, link, quantity)
	if err != nil {
		log.Printf("Provider submission failed for order %d, kept pending: %v", order.ID, err)
		return order, nil
	}

	if err := uc.storage.SetOrderExternalID(ctx, order.ID, externalID); err != nil {
		log.Printf("Failed to store external id %d for order %d: %v", externalID, order.ID, err)
		return order, nil
	}
	order.ExternalID = pgtype.Int8{Int64: externalID, Valid: true}

	log.Printf("Order %d created for user %d, external id %d, charge %.4f", order.ID, userID, externalID, charge)
	return order, nil
}

// CreateManual enters an order placed with the provider out of band. It
// bypasses submission but follows the same pricing and debit invariants.
func (uc *OrderUseCase) CreateManual(ctx context.Context, adminID, userID, serviceID int64, link string, quantity int, externalID int64) (models.Order, error) {
	svc, err := uc.services.GetServiceByID(ctx, serviceID)
	if err != nil {
		return models.Order{}, err
	}

	if !uc.validator.ValidateQuantity(svc, quantity) {
		return models.Order{}, models.ErrInvalidQuantity
	}
	if !uc.validator.ValidateLink(link) {
		return models.Order{}, models.ErrInvalidLink
	}

	charge := Price(svc.Rate, quantity)
	order := models.Order{
		UserID:          userID,
		ServiceID:       serviceID,
		ExternalID:      pgtype.Int8{Int64: externalID, Valid: externalID != 0},
		Quantity:        quantity,
		Link:            link,
		Rate:            svc.Rate,
		CostRate:        svc.CostRate,
		Charge:          charge,
		WalletDeduction: charge,
		Status:          constants.StatusPending,
		CreatedAt:       pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	debit := models.WalletTransaction{
		UserID:    userID,
		Type:      constants.TransactionDebit,
		Amount:    charge,
		ActorID:   pgtype.Int8{Int64: adminID, Valid: true},
		Note:      fmt.Sprintf("manual order: %s x%d", svc.Name, quantity),
		CreatedAt: pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}

	if err := uc.storage.CreateOrderWithDebit(ctx, &order, debit); err != nil {
		return models.Order{}, err
	}

	log.Printf("Manual order %d created by admin %d for user %d, charge %.4f", order.ID, adminID, userID, charge)
	return order, nil
}

// Transition applies a lifecycle change. The stored status read here is used
// as a precondition for the write, so a concurrent transition on the same
// order makes this one a silent skip rather than a double application.
// Canceling refunds the original wallet deduction in the same atomic unit as
// the status write.
func (uc *OrderUseCase) Transition(ctx context.Context, orderID int64, newStatus string, actorID int64) error {
	order, err := uc.storage.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if status.Terminal(order.Status) || !transitionAllowed(order.Status, newStatus) {
		return models.ErrInvalidTransition
	}

	var refund *models.WalletTransaction
	if newStatus == constants.StatusCanceled {
		refund = &models.WalletTransaction{
			UserID:    order.UserID,
			Type:      constants.TransactionCredit,
			Amount:    order.WalletDeduction,
			ActorID:   pgtype.Int8{Int64: actorID, Valid: actorID != 0},
			Note:      fmt.Sprintf("refund for canceled order %d", orderID),
			CreatedAt: pgtype.Timestamptz{Time: time.Now(), Valid: true},
		}
	}

	applied, err := uc.storage.TransitionOrder(ctx, orderID, order.Status, newStatus, refund)
	if err != nil {
		return fmt.Errorf("failed to transition order %d: %w", orderID, err)
	}
	if !applied {
		log.Printf("Order %d moved from %s concurrently, transition to %s skipped", orderID, order.Status, newStatus)
		return nil
	}

	metrics.OrderTransitionsTotal.WithLabelValues(newStatus).Inc()
	log.Printf("Order %d: %s -> %s", orderID, order.Status, newStatus)

	switch newStatus {
	case constants.StatusCompleted:
		uc.publishOrderEvent(ctx, events.RouteOrderCompleted, order, newStatus)
	case constants.StatusCanceled:
		uc.publishOrderEvent(ctx, events.RouteOrderCanceled, order, newStatus)
	}
	return nil
}

func (uc *OrderUseCase) publishOrderEvent(ctx context.Context, route string, order models.Order, newStatus string) {
	event := events.OrderEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Status:    newStatus,
		Amount:    order.WalletDeduction,
		Timestamp: time.Now(),
	}
	if err := uc.publisher.Publish(ctx, route, event); err != nil {
		log.Printf("Failed to publish %s for order %d: %v", route, order.ID, err)
	}
}

func (uc *OrderUseCase) GetUserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	return uc.storage.GetOrdersByUserID(ctx, userID)
}

func (uc *OrderUseCase) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return uc.storage.GetAllOrders(ctx)
}

func (uc *OrderUseCase) GetRecentOrders(ctx context.Context) ([]models.Order, error) {
	return uc.storage.GetRecentOrders(ctx, constants.RecentOrdersLimit)
}
