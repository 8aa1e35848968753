// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new customer account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required to log in. Remember extends the token
// lifetime from hours to days.
type LoginInput struct {
	Email    string
	Password string
	Remember bool
}

// RequestPasswordResetInput identifies the account asking for a reset mail.
type RequestPasswordResetInput struct {
	Email string
}

// ConfirmPasswordResetInput carries the reset token together with the new password.
type ConfirmPasswordResetInput struct {
	Token       string
	NewPassword string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the signed credential after a successful login.
// Role is the role resolved at login time and baked into the token.
type LoginOutput struct {
	AccessToken string
	Role        entity.Role
	User        *entity.User
}

// ProfileOutput returns the account's public profile fields.
type ProfileOutput struct {
	User *entity.User
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileOutput, error)

	// RequestPasswordReset issues a short-lived single-use reset token and
	// mails a reset link. It succeeds silently for unknown emails so the
	// endpoint cannot be used to probe registered addresses.
	RequestPasswordReset(ctx context.Context, input *RequestPasswordResetInput) error

	// ConfirmPasswordReset verifies the token signature and its equality
	// with the stored copy, re-hashes the password and clears the token.
	ConfirmPasswordReset(ctx context.Context, input *ConfirmPasswordResetInput) error
}
