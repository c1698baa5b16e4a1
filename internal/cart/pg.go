package cart

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps cart rows in the carts table, unique on (owner_id, prompt_id).
type PGStore struct{ db *pgxpool.Pool }

func NewPGStore(db *pgxpool.Pool) *PGStore { return &PGStore{db: db} }

func (s *PGStore) Add(ctx context.Context, owner string, it Item) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var at *time.Time
	if !it.AddedAt.IsZero() {
		t := it.AddedAt.UTC()
		at = &t
	}
	tag, err := s.db.Exec(ctx, `
    INSERT INTO carts (owner_id, prompt_id, added_at)
    VALUES ($1,$2,COALESCE($3::timestamptz, NOW()))
    ON CONFLICT (owner_id, prompt_id) DO NOTHING
  `, owner, it.PromptID, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) Remove(ctx context.Context, owner, promptID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx, `DELETE FROM carts WHERE owner_id=$1 AND prompt_id=$2`, owner, promptID)
	return err
}

func (s *PGStore) List(ctx context.Context, owner string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.db.Query(ctx, `
    SELECT prompt_id, added_at
    FROM carts
    WHERE owner_id = $1
    ORDER BY added_at DESC, prompt_id
  `, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.PromptID, &it.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PGStore) Clear(ctx context.Context, owner string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx, `DELETE FROM carts WHERE owner_id=$1`, owner)
	return err
}

var _ Store = (*PGStore)(nil)
