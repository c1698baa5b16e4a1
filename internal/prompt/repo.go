// Package prompt provides the catalog model and its repositories.
package prompt

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("prompt not found")
)

type Query struct {
	Q          string
	Category   string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// Normalize clamps paging values the same way for every backend.
func (q Query) Normalize() Query {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Q = strings.TrimSpace(q.Q)
	q.Category = strings.TrimSpace(q.Category)
	return q
}

type Repository interface {
	Create(ctx context.Context, p *Prompt) error
	GetByID(ctx context.Context, id string) (*Prompt, error)
	List(ctx context.Context, q Query) ([]Prompt, error)
	Update(ctx context.Context, id string, patch UpdatePromptRequest) (*Prompt, error)
	Deactivate(ctx context.Context, id string) (*Prompt, error)
	// FindByIDs returns the prompts that resolve among ids; missing ids are skipped.
	FindByIDs(ctx context.Context, ids []string, activeOnly bool) ([]Prompt, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const promptColumns = `id, title, description, price, prompt_text, category, thumbnail_url,
		image_urls, is_active, created_at, updated_at`

func scanPrompt(row pgx.Row) (*Prompt, error) {
	var p Prompt
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.PromptText, &p.Category,
		&p.ThumbnailURL, &p.ImageURLs, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	return &p, nil
}

func (r *PGRepo) Create(ctx context.Context, p *Prompt) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO prompts (id, title, description, price, prompt_text, category, thumbnail_url,
		                     image_urls, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
		RETURNING created_at, updated_at
	`, p.ID, p.Title, p.Description, p.Price, p.PromptText, p.Category, p.ThumbnailURL,
		p.ImageURLs, p.IsActive).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Prompt, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanPrompt(r.db.QueryRow(ctx, `SELECT `+promptColumns+` FROM prompts WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Prompt, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	q = q.Normalize()
	rows, err := r.db.Query(ctx, `
		SELECT `+promptColumns+`
		FROM prompts
		WHERE ($1 = '' OR title ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%')
		  AND ($2 = '' OR category = $2)
		  AND (NOT $3 OR is_active)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, q.Q, q.Category, q.ActiveOnly, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Prompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, id string, patch UpdatePromptRequest) (*Prompt, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var images []string
	if patch.ImageURLs != nil {
		images = *patch.ImageURLs
		if images == nil {
			images = []string{}
		}
	}
	// thumbnail_url is only touched when provided; $8 distinguishes "absent" from "null".
	p, err := scanPrompt(r.db.QueryRow(ctx, `
		UPDATE prompts
		SET title         = COALESCE($2, title),
		    description   = COALESCE($3, description),
		    price         = COALESCE($4, price),
		    prompt_text   = COALESCE($5, prompt_text),
		    category      = COALESCE($6, category),
		    thumbnail_url = CASE WHEN $8 THEN $7 ELSE thumbnail_url END,
		    image_urls    = COALESCE($9, image_urls),
		    is_active     = COALESCE($10, is_active),
		    updated_at    = NOW()
		WHERE id = $1
		RETURNING `+promptColumns,
		id, patch.Title, patch.Description, patch.Price, patch.PromptText, patch.Category,
		patch.ThumbnailURL, patch.ThumbnailURL != nil, images, patch.IsActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PGRepo) Deactivate(ctx context.Context, id string) (*Prompt, error) {
	active := false
	return r.Update(ctx, id, UpdatePromptRequest{IsActive: &active})
}

func (r *PGRepo) FindByIDs(ctx context.Context, ids []string, activeOnly bool) ([]Prompt, error) {
	if len(ids) == 0 {
		return []Prompt{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+promptColumns+`
		FROM prompts
		WHERE id = ANY($1) AND (NOT $2 OR is_active)
	`, ids, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Prompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

var _ Repository = (*PGRepo)(nil)
