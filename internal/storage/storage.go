package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlenaMolokova/smmpanel/internal/constants"
	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) (*Storage, error) {
	if db == nil {
		return nil, errors.New("database pool is nil")
	}
	return &Storage{db: db}, nil
}

func (s *Storage) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Storage) GetUserByLogin(ctx context.Context, login string) (models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		`SELECT id, login, password, balance, is_admin FROM users WHERE login = $1`,
		login).Scan(&u.ID, &u.Login, &u.Password, &u.Balance, &u.IsAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	return u, err
}

func (s *Storage) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		`SELECT id, login, password, balance, is_admin FROM users WHERE id = $1`,
		id).Scan(&u.ID, &u.Login, &u.Password, &u.Balance, &u.IsAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	return u, err
}

func (s *Storage) GetBalance(ctx context.Context, userID int64) (pgtype.Float8, error) {
	var balance pgtype.Float8
	err := s.db.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return pgtype.Float8{}, models.ErrUserNotFound
	}
	return balance, err
}

// The conditional update takes a row lock on the user, so concurrent
// settlements on the same wallet serialize; the transaction row is appended
// before the same tx commits, keeping the cached balance and the log in step.
func debitTx(ctx context.Context, tx pgx.Tx, t models.WalletTransaction) error {
	tag, err := tx.Exec(ctx,
		`UPDATE users SET balance = balance - $2 WHERE id = $1 AND balance >= $2`,
		t.UserID, t.Amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrInsufficientBalance
	}
	return insertTransactionTx(ctx, tx, t)
}

func creditTx(ctx context.Context, tx pgx.Tx, t models.WalletTransaction) error {
	tag, err := tx.Exec(ctx,
		`UPDATE users SET balance = balance + $2 WHERE id = $1`,
		t.UserID, t.Amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	return insertTransactionTx(ctx, tx, t)
}

func insertTransactionTx(ctx context.Context, tx pgx.Tx, t models.WalletTransaction) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO transactions (user_id, type, amount, original_amount, original_currency, actor_id, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.UserID, t.Type, t.Amount, t.OriginalAmount, t.OriginalCurrency, t.ActorID, t.Note, t.CreatedAt)
	return err
}

func (s *Storage) DebitWallet(ctx context.Context, t models.WalletTransaction) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		return debitTx(ctx, tx, t)
	})
}

func (s *Storage) CreditWallet(ctx context.Context, t models.WalletTransaction) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		return creditTx(ctx, tx, t)
	})
}

func (s *Storage) GetTransactionsByUserID(ctx context.Context, userID int64) ([]models.WalletTransaction, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, type, amount, original_amount, original_currency, actor_id, note, created_at
		 FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.WalletTransaction
	for rows.Next() {
		var t models.WalletTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.OriginalAmount,
			&t.OriginalCurrency, &t.ActorID, &t.Note, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// CreateOrderWithDebit inserts the order and debits the wallet in one
// transaction; a debited wallet without an order row (or the reverse) must
// be impossible.
func (s *Storage) CreateOrderWithDebit(ctx context.Context, order *models.Order, debit models.WalletTransaction) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if err := debitTx(ctx, tx, debit); err != nil {
			return err
		}
		return tx.QueryRow(ctx,
			`INSERT INTO orders (user_id, service_id, external_id, quantity, link, rate, cost_rate, charge, wallet_deduction, status, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 RETURNING id`,
			order.UserID, order.ServiceID, order.ExternalID, order.Quantity, order.Link,
			order.Rate, order.CostRate, order.Charge, order.WalletDeduction,
			order.Status, order.CreatedAt).Scan(&order.ID)
	})
}

const orderColumns = `id, user_id, service_id, external_id, quantity, link, rate, cost_rate, charge, wallet_deduction, status, created_at, completed_at`

func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID, &o.ServiceID, &o.ExternalID, &o.Quantity, &o.Link,
		&o.Rate, &o.CostRate, &o.Charge, &o.WalletDeduction, &o.Status, &o.CreatedAt, &o.CompletedAt)
	return o, err
}

func (s *Storage) queryOrders(ctx context.Context, query string, args ...interface{}) ([]models.Order, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *Storage) GetOrderByID(ctx context.Context, id int64) (models.Order, error) {
	o, err := scanOrder(s.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, models.ErrOrderNotFound
	}
	return o, err
}

func (s *Storage) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (s *Storage) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (s *Storage) GetRecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	return s.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
}

// GetActiveOrders returns submitted orders in a non-terminal state, the set
// the poller asks the provider about.
func (s *Storage) GetActiveOrders(ctx context.Context) ([]models.Order, error) {
	return s.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE status IN ($1, $2) AND external_id IS NOT NULL`,
		constants.StatusPending, constants.StatusInProgress)
}

// GetUnsubmittedOrders returns pending orders whose provider submission has
// not succeeded yet.
func (s *Storage) GetUnsubmittedOrders(ctx context.Context) ([]models.Order, error) {
	return s.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE status = $1 AND external_id IS NULL`,
		constants.StatusPending)
}

func (s *Storage) SetOrderExternalID(ctx context.Context, orderID, externalID int64) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE orders SET external_id = $2 WHERE id = $1 AND external_id IS NULL`,
		orderID, externalID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

// TransitionOrder writes the new status only if the order is still in the
// status the caller read, and applies the refund in the same transaction
// when one is given. Returns false when the precondition no longer holds.
func (s *Storage) TransitionOrder(ctx context.Context, orderID int64, from, to string, refund *models.WalletTransaction) (bool, error) {
	applied := false
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE orders
			 SET status = $3,
			     completed_at = CASE WHEN $3 IN ($4, $5) THEN now() ELSE completed_at END
			 WHERE id = $1 AND status = $2`,
			orderID, from, to, constants.StatusCompleted, constants.StatusCanceled)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		applied = true
		if refund != nil {
			return creditTx(ctx, tx, *refund)
		}
		return nil
	})
	return applied, err
}

func (s *Storage) GetServiceByID(ctx context.Context, id int64) (models.Service, error) {
	var svc models.Service
	err := s.db.QueryRow(ctx,
		`SELECT id, external_id, name, category, cost_rate, rate, min_quantity, max_quantity, active
		 FROM services WHERE id = $1`, id).
		Scan(&svc.ID, &svc.ExternalID, &svc.Name, &svc.Category, &svc.CostRate,
			&svc.Rate, &svc.MinQuantity, &svc.MaxQuantity, &svc.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Service{}, models.ErrServiceNotFound
	}
	return svc, err
}

func (s *Storage) GetActiveServices(ctx context.Context) ([]models.Service, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, external_id, name, category, cost_rate, rate, min_quantity, max_quantity, active
		 FROM services WHERE active ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var svc models.Service
		if err := rows.Scan(&svc.ID, &svc.ExternalID, &svc.Name, &svc.Category, &svc.CostRate,
			&svc.Rate, &svc.MinQuantity, &svc.MaxQuantity, &svc.Active); err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (s *Storage) UpsertService(ctx context.Context, svc models.Service) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO services (external_id, name, category, cost_rate, rate, min_quantity, max_quantity, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, true)
		 ON CONFLICT (external_id) DO UPDATE SET
		     name = EXCLUDED.name,
		     category = EXCLUDED.category,
		     cost_rate = EXCLUDED.cost_rate,
		     rate = EXCLUDED.rate,
		     min_quantity = EXCLUDED.min_quantity,
		     max_quantity = EXCLUDED.max_quantity,
		     active = true`,
		svc.ExternalID, svc.Name, svc.Category, svc.CostRate, svc.Rate,
		svc.MinQuantity, svc.MaxQuantity)
	return err
}

// DeactivateServicesExcept hides catalog entries the provider no longer
// offers. Rows are kept, not deleted: orders reference services by id, so a
// delisted service that has ever been ordered must stay resolvable.
func (s *Storage) DeactivateServicesExcept(ctx context.Context, externalIDs []int64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE services SET active = false WHERE NOT (external_id = ANY($1))`, externalIDs)
	return err
}

func (s *Storage) CreateReceipt(ctx context.Context, r models.Receipt) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO receipts (id, user_id, file_url, amount, currency, note, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.UserID, r.FileURL, r.Amount, r.Currency, r.Note, r.Status, r.CreatedAt)
	return err
}

func scanReceipt(row pgx.Row) (models.Receipt, error) {
	var r models.Receipt
	err := row.Scan(&r.ID, &r.UserID, &r.FileURL, &r.Amount, &r.Currency, &r.Note,
		&r.Status, &r.ReviewedBy, &r.CreatedAt, &r.ReviewedAt)
	return r, err
}

const receiptColumns = `id, user_id, file_url, amount, currency, note, status, reviewed_by, created_at, reviewed_at`

func (s *Storage) GetReceiptByID(ctx context.Context, id uuid.UUID) (models.Receipt, error) {
	r, err := scanReceipt(s.db.QueryRow(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Receipt{}, models.ErrReceiptNotFound
	}
	return r, err
}

func (s *Storage) GetReceiptsByUserID(ctx context.Context, userID int64) ([]models.Receipt, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

// ReviewReceipt flips a pending receipt exactly once; the credit for an
// approval is written in the same transaction as the status change.
func (s *Storage) ReviewReceipt(ctx context.Context, id uuid.UUID, newStatus string, reviewerID int64, credit *models.WalletTransaction) (models.Receipt, error) {
	var reviewed models.Receipt
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		r, err := scanReceipt(tx.QueryRow(ctx,
			`UPDATE receipts SET status = $2, reviewed_by = $3, reviewed_at = now()
			 WHERE id = $1 AND status = $4
			 RETURNING `+receiptColumns, id, newStatus, reviewerID, constants.ReceiptPending))
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM receipts WHERE id = $1)`, id).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return models.ErrReceiptNotFound
			}
			return models.ErrReceiptAlreadyReviewed
		}
		if err != nil {
			return fmt.Errorf("failed to review receipt: %w", err)
		}
		reviewed = r
		if credit != nil {
			return creditTx(ctx, tx, *credit)
		}
		return nil
	})
	return reviewed, err
}
