package postgres

import (
	"context"
	"time"

	"veridia-hiring-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type resetTokenRepo struct {
	db *pgxpool.Pool
}

func NewResetTokenRepository(db *pgxpool.Pool) domain.ResetTokenRepository {
	return &resetTokenRepo{db: db}
}

func (r *resetTokenRepo) Create(ctx context.Context, token *domain.ResetToken) error {
	query := `INSERT INTO reset_tokens (user_id, token_hash, expires_at, created_at)
              VALUES ($1, $2, $3, $4) RETURNING id`
	token.CreatedAt = time.Now()
	return r.db.QueryRow(ctx, query,
		token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt,
	).Scan(&token.ID)
}

func (r *resetTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*domain.ResetToken, error) {
	query := `SELECT id, user_id, token_hash, expires_at, used_at, created_at
              FROM reset_tokens WHERE token_hash = $1`
	var token domain.ResetToken
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt,
		&token.UsedAt, &token.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// MarkUsed consumes the token. The used_at guard makes consumption
// single-shot even under concurrent reset attempts.
func (r *resetTokenRepo) MarkUsed(ctx context.Context, id int64) error {
	query := `UPDATE reset_tokens SET used_at = $2 WHERE id = $1 AND used_at IS NULL`
	result, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
