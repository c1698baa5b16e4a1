package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrStaleStatus means the order left the expected status before the update landed.
	ErrStaleStatus = errors.New("order status changed concurrently")
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]Order, error)
	// Transition moves id from status "from" to "to"; paymentKey is kept when empty.
	Transition(ctx context.Context, id string, from, to Status, paymentKey string) error
}

// Advance applies a state-machine checked transition to o and the repository.
func Advance(ctx context.Context, repo Repository, o *Order, to Status, paymentKey string) error {
	if o.Status == to {
		return nil
	}
	if !CanTransition(o.Status, to) {
		return &TransitionError{From: o.Status, To: to}
	}
	if err := repo.Transition(ctx, o.ID, o.Status, to, paymentKey); err != nil {
		return err
	}
	o.Status = to
	if paymentKey != "" {
		o.PaymentKey = paymentKey
	}
	return nil
}

// TransitionError reports a move the order state machine does not allow.
type TransitionError struct {
	From, To Status
}

func (e *TransitionError) Error() string {
	return "order cannot move from " + string(e.From) + " to " + string(e.To)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
    INSERT INTO orders (id, buyer_id, order_name, total_amount, status, payment_key, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,'',NOW(),NOW())
    RETURNING created_at, updated_at
  `, o.ID, o.BuyerID, o.Name, o.TotalAmount, string(o.Status)).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}

	for _, l := range o.Lines {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_items (order_id, prompt_id, title, price)
      VALUES ($1,$2,$3,$4)
    `, o.ID, l.PromptID, l.Title, l.Price); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	var status string
	if err := r.db.QueryRow(ctx, `
    SELECT id, buyer_id, order_name, total_amount, status, payment_key, created_at, updated_at
    FROM orders WHERE id=$1
  `, id).Scan(&o.ID, &o.BuyerID, &o.Name, &o.TotalAmount, &status, &o.PaymentKey, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	o.Status = Status(status)

	lines, err := r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *PGRepo) lines(ctx context.Context, orderID string) ([]Line, error) {
	rows, err := r.db.Query(ctx, `
    SELECT prompt_id, title, price
    FROM order_items
    WHERE order_id = $1
    ORDER BY prompt_id
  `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []Line{}
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.PromptID, &l.Title, &l.Price); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *PGRepo) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
    SELECT id, buyer_id, order_name, total_amount, status, payment_key, created_at, updated_at
    FROM orders WHERE buyer_id=$1
    ORDER BY created_at DESC LIMIT $2 OFFSET $3
  `, buyerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var o Order
		var status string
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.Name, &o.TotalAmount, &status, &o.PaymentKey, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Status = Status(status)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGRepo) Transition(ctx context.Context, id string, from, to Status, paymentKey string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET status = $3,
        payment_key = COALESCE(NULLIF($4, ''), payment_key),
        updated_at = NOW()
    WHERE id = $1 AND status = $2
  `, id, string(from), string(to), paymentKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrStaleStatus
	}
	return nil
}

var _ Repository = (*PGRepo)(nil)
