package profile

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("profile not found")

type Repository interface {
	// Upsert creates the profile for p.ClerkID or refreshes it when it exists.
	Upsert(ctx context.Context, p *Profile) error
	GetByClerkID(ctx context.Context, clerkID string) (*Profile, error)
	Update(ctx context.Context, clerkID string, patch Patch) (*Profile, error)
	Delete(ctx context.Context, clerkID string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const profileColumns = `id, clerk_id, email, nickname, avatar_url, created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	if err := row.Scan(&p.ID, &p.ClerkID, &p.Email, &p.Nickname, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepo) Upsert(ctx context.Context, p *Profile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO profiles (id, clerk_id, email, nickname, avatar_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
		ON CONFLICT (clerk_id) DO UPDATE
		SET email = EXCLUDED.email,
		    nickname = EXCLUDED.nickname,
		    avatar_url = EXCLUDED.avatar_url,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, p.ID, p.ClerkID, p.Email, p.Nickname, p.AvatarURL).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PGRepo) GetByClerkID(ctx context.Context, clerkID string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE clerk_id=$1`, clerkID))
}

func (r *PGRepo) Update(ctx context.Context, clerkID string, patch Patch) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanProfile(r.db.QueryRow(ctx, `
		UPDATE profiles
		SET email      = COALESCE(NULLIF($2, ''), email),
		    nickname   = COALESCE(NULLIF($3, ''), nickname),
		    avatar_url = COALESCE(NULLIF($4, ''), avatar_url),
		    updated_at = NOW()
		WHERE clerk_id = $1
		RETURNING `+profileColumns,
		clerkID, patch.Email, patch.Nickname, patch.AvatarURL))
}

func (r *PGRepo) Delete(ctx context.Context, clerkID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE clerk_id=$1`, clerkID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

var _ Repository = (*PGRepo)(nil)
