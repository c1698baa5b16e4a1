package purchase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/prompt-store/internal/prompt"
)

type Repository interface {
	// Record inserts rows atomically, skipping any (buyer, prompt, order) that
	// already exists, and returns how many were inserted.
	Record(ctx context.Context, rows []Purchase) (int, error)
	HasPurchased(ctx context.Context, buyerID, promptID string) (bool, error)
	ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]Entry, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Record(ctx context.Context, rows []Purchase) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inserted := 0
	for i := range rows {
		p := &rows[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		err := tx.QueryRow(ctx, `
      INSERT INTO purchases (id, buyer_id, prompt_id, payment_order_id, payment_amount, payment_status, created_at)
      VALUES ($1,$2,$3,$4,$5,$6,NOW())
      ON CONFLICT (buyer_id, prompt_id, payment_order_id) DO NOTHING
      RETURNING created_at
    `, p.ID, p.BuyerID, p.PromptID, p.PaymentOrderID, p.PaymentAmount, p.PaymentStatus).Scan(&p.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return 0, err
		}
		inserted++
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *PGRepo) HasPurchased(ctx context.Context, buyerID, promptID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var ok bool
	err := r.db.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM purchases WHERE buyer_id=$1 AND prompt_id=$2)
  `, buyerID, promptID).Scan(&ok)
	return ok, err
}

func (r *PGRepo) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
    SELECT pu.id, pu.buyer_id, pu.prompt_id, pu.payment_order_id, pu.payment_amount,
           pu.payment_status, pu.created_at,
           p.id, p.title, p.description, p.price, p.category, p.thumbnail_url
    FROM purchases pu
    LEFT JOIN prompts p ON p.id = pu.prompt_id
    WHERE pu.buyer_id = $1
    ORDER BY pu.created_at DESC, pu.id
    LIMIT $2 OFFSET $3
  `, buyerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		var (
			pid, title, desc, category *string
			price                      *int64
			thumb                      *string
		)
		if err := rows.Scan(&e.ID, &e.BuyerID, &e.PromptID, &e.PaymentOrderID, &e.PaymentAmount,
			&e.PaymentStatus, &e.CreatedAt, &pid, &title, &desc, &price, &category, &thumb); err != nil {
			return nil, err
		}
		if pid != nil {
			e.Prompt = &prompt.Summary{
				ID: *pid, Title: deref(title), Description: deref(desc),
				Price: derefInt(price), Category: deref(category), ThumbnailURL: thumb,
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

var _ Repository = (*PGRepo)(nil)
