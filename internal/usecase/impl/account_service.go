// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	userRepo      repository.UserRepository
	roleGrantRepo repository.RoleGrantRepository
	hasher        service.PasswordHasher
	tokenService  service.TokenService
	mailSender    service.MailSender
	baseURL       string
	logger        *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	UserRepo      repository.UserRepository
	RoleGrantRepo repository.RoleGrantRepository
	Hasher        service.PasswordHasher
	TokenService  service.TokenService
	MailSender    service.MailSender
	Config        *config.Config
	Logger        *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	baseURL := ""
	if params.Config != nil && params.Config.Receipt != nil {
		baseURL = params.Config.Receipt.BaseURL
	}

	return &accountService{
		userRepo:      params.UserRepo,
		roleGrantRepo: params.RoleGrantRepo,
		hasher:        params.Hasher,
		tokenService:  params.TokenService,
		mailSender:    params.MailSender,
		baseURL:       baseURL,
		logger:        params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new customer account with a bcrypt-hashed password.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	if _, err := srv.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check existing account")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to create account", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", user.ID))

	return &usecase.RegisterOutput{User: user}, nil
}

// Login verifies the credentials, resolves the caller's highest role and
// issues a token signed with that role's secret.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	role, err := srv.resolveRole(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := srv.tokenService.Issue(user.ID, user.Email, role, input.Remember)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token")
	}

	srv.log(ctx).Info("Login succeeded", slog.Any("userID", user.ID), slog.String("role", role.String()))

	return &usecase.LoginOutput{
		AccessToken: token,
		Role:        role,
		User:        user,
	}, nil
}

// resolveRole picks the signing role at login: admin outranks salesAdmin,
// both outrank a plain user. Grants are read-only rows provisioned out of band.
func (srv *accountService) resolveRole(ctx context.Context, userID uuid.UUID) (entity.Role, error) {
	for _, role := range []entity.Role{entity.RoleAdmin, entity.RoleSalesAdmin} {
		has, err := srv.roleGrantRepo.HasGrant(ctx, userID, role)
		if err != nil {
			return "", errors.Wrap(err, "failed to resolve role")
		}
		if has {
			return role, nil
		}
	}

	return entity.RoleUser, nil
}

// GetProfile returns the account's profile fields.
func (srv *accountService) GetProfile(ctx context.Context, userID uuid.UUID) (*usecase.ProfileOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return &usecase.ProfileOutput{User: user}, nil
}

// RequestPasswordReset issues the reset token, stores it on the user row and
// mails the reset link. Unknown emails return success so the endpoint does
// not leak which addresses are registered.
func (srv *accountService) RequestPasswordReset(ctx context.Context, input *usecase.RequestPasswordResetInput) error {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Info("Password reset requested for unknown email")

			return nil
		}

		return errors.Wrap(err, "failed to find account by email")
	}

	token, err := srv.tokenService.IssueResetToken(user.ID, user.Email)
	if err != nil {
		return errors.Wrap(err, "failed to issue reset token")
	}

	// The stored copy makes the token single-use: confirmation compares
	// against it and clears it.
	user.ResetToken = token
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to store reset token")
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", srv.baseURL, token)
	body := fmt.Sprintf("請在 15 分鐘內使用以下連結重設密碼：\n%s", resetLink)
	notifyAsync(ctx, srv.logger, srv.mailSender, user.Email, "密碼重設通知", body, "")

	srv.log(ctx).Info("Password reset token issued", slog.Any("userID", user.ID))

	return nil
}

// ConfirmPasswordReset verifies the token signature, checks it against the
// stored single-use copy, re-hashes the password and clears the token.
func (srv *accountService) ConfirmPasswordReset(ctx context.Context, input *usecase.ConfirmPasswordResetInput) error {
	claims, err := srv.tokenService.VerifyResetToken(input.Token)
	if err != nil {
		return domainerrors.ErrResetTokenInvalid
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrResetTokenInvalid
		}

		return errors.Wrap(err, "failed to find account by id")
	}

	if user.ResetToken == "" || user.ResetToken != input.Token {
		return domainerrors.ErrResetTokenInvalid
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	user.PasswordHash = hash
	user.ResetToken = ""
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to update password")
	}

	srv.log(ctx).Info("Password reset confirmed", slog.Any("userID", user.ID))

	return nil
}
