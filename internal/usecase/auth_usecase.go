package usecase

import (
	"context"
	"strings"
	"time"

	"veridia-hiring-backend/internal/domain"
	"veridia-hiring-backend/pkg/apperror"
	mailer "veridia-hiring-backend/pkg/email"
	"veridia-hiring-backend/pkg/hash"
	"veridia-hiring-backend/pkg/logger"
	"veridia-hiring-backend/pkg/token"
)

const resetTokenTTL = time.Hour

type authUsecase struct {
	userRepo  domain.UserRepository
	resetRepo domain.ResetTokenRepository
	hasher    hash.Hasher
	tokens    *token.Service
	notifier  domain.Notifier
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	resetRepo domain.ResetTokenRepository,
	hasher hash.Hasher,
	tokens *token.Service,
	notifier domain.Notifier,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		hasher:    hasher,
		tokens:    tokens,
		notifier:  notifier,
	}
}

// Register creates a candidate account and fires a best-effort welcome email.
func (u *authUsecase) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" {
		return nil, apperror.BadRequest("Name and email are required")
	}
	if len(password) < 8 {
		return nil, apperror.BadRequest("Password must be at least 8 characters")
	}

	exists, err := u.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("Email already exists")
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         domain.RoleCandidate,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}

	mailer.Dispatch("welcome", func() error {
		return u.notifier.SendWelcome(user.Email, user.Name)
	})

	return user, nil
}

// Login verifies credentials and issues a bearer token. The error message is
// identical whether the email is unknown or the password is wrong.
func (u *authUsecase) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}
	if err := u.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	signed, err := u.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.LoginResult{
		Token: signed,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

// ForgotPassword always succeeds from the caller's point of view so account
// existence cannot be probed. When the account exists, a single-use token is
// persisted (hash only) and mailed out best-effort.
func (u *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil
	}

	raw, digest, err := token.GenerateResetToken()
	if err != nil {
		logger.Log.Error("Failed to generate reset token", "error", err)
		return nil
	}

	reset := &domain.ResetToken{
		UserID:    user.ID,
		TokenHash: digest,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := u.resetRepo.Create(ctx, reset); err != nil {
		logger.Log.Error("Failed to persist reset token", "error", err)
		return nil
	}

	mailer.Dispatch("password_reset", func() error {
		return u.notifier.SendPasswordReset(user.Email, user.Name, raw)
	})
	return nil
}

// ResetPassword consumes a reset token and rewrites the password hash. Every
// failure mode returns the same generic error.
func (u *authUsecase) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if len(newPassword) < 8 {
		return apperror.BadRequest("Password must be at least 8 characters")
	}

	reset, err := u.resetRepo.GetByHash(ctx, token.HashResetToken(rawToken))
	if err != nil || reset.Expired() || reset.Used() {
		return apperror.BadRequest("Invalid or expired reset token")
	}

	// MarkUsed is single-shot: a concurrent reset with the same token loses
	if err := u.resetRepo.MarkUsed(ctx, reset.ID); err != nil {
		return apperror.BadRequest("Invalid or expired reset token")
	}

	hashed, err := u.hasher.Hash(newPassword)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.userRepo.UpdatePassword(ctx, reset.UserID, hashed); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
