package domain

import (
	"context"
	"time"
)

// ResetToken is a persisted, single-use password reset token. Only the
// SHA-256 digest of the raw token is stored.
type ResetToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry.
func (t *ResetToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Used reports whether the token has already been consumed.
func (t *ResetToken) Used() bool {
	return t.UsedAt != nil
}

type ResetTokenRepository interface {
	Create(ctx context.Context, token *ResetToken) error
	GetByHash(ctx context.Context, tokenHash string) (*ResetToken, error)
	MarkUsed(ctx context.Context, id int64) error
}
