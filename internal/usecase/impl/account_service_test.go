package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type accountServiceFixtures struct {
	service       usecase.AccountUsecase
	userRepo      *mockUserRepository
	roleGrantRepo *mockRoleGrantRepository
	hasher        *mockPasswordHasher
	tokenService  *mockTokenService
	mailSender    *mockMailSender
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	t.Helper()

	userRepo := new(mockUserRepository)
	roleGrantRepo := new(mockRoleGrantRepository)
	hasher := new(mockPasswordHasher)
	tokenService := new(mockTokenService)
	mailSender := new(mockMailSender)

	svc := NewAccountService(AccountServiceParams{
		UserRepo:      userRepo,
		RoleGrantRepo: roleGrantRepo,
		Hasher:        hasher,
		TokenService:  tokenService,
		MailSender:    mailSender,
		Config:        nil,
		Logger:        newDiscardLogger(),
	})

	return accountServiceFixtures{
		service:       svc,
		userRepo:      userRepo,
		roleGrantRepo: roleGrantRepo,
		hasher:        hasher,
		tokenService:  tokenService,
		mailSender:    mailSender,
	}
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.userRepo.On("FindByEmail", ctx, "taken@example.com").
		Return(&entity.User{ID: uuid.New(), Email: "taken@example.com"}, nil)

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name:     "Someone",
		Email:    "taken@example.com",
		Password: "password123",
	})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrUserAlreadyExists.ErrorCode(), appErr.ErrorCode())
	fx.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_Register_HashesPassword(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.userRepo.On("FindByEmail", ctx, "new@example.com").
		Return(nil, repository.ErrUserNotFound)
	fx.hasher.On("Hash", "password123").Return("$2a$10$hash", nil)
	fx.userRepo.On("Create", ctx, mock.MatchedBy(func(user *entity.User) bool {
		return user.PasswordHash == "$2a$10$hash" && user.Email == "new@example.com"
	})).Return(nil)

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name:     "New User",
		Email:    "new@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hash", output.User.PasswordHash)
}

func TestAccountService_Login_InvalidCredentials(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.userRepo.On("FindByEmail", ctx, "ghost@example.com").
		Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ghost@example.com", Password: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	user := &entity.User{ID: uuid.New(), Email: "real@example.com", PasswordHash: "$2a$10$hash"}
	fx.userRepo.On("FindByEmail", ctx, "real@example.com").Return(user, nil)
	fx.hasher.On("Check", "wrong", "$2a$10$hash").Return(false)

	_, err = fx.service.Login(ctx, &usecase.LoginInput{Email: "real@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	fx.tokenService.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_Login_RolePrecedence(t *testing.T) {
	cases := []struct {
		name         string
		adminGrant   bool
		salesGrant   bool
		expectedRole entity.Role
		salesChecked bool
	}{
		{"admin outranks sales admin", true, true, entity.RoleAdmin, false},
		{"sales admin outranks user", false, true, entity.RoleSalesAdmin, true},
		{"no grants means user", false, false, entity.RoleUser, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := createTestAccountService(t)
			ctx := context.Background()
			user := &entity.User{ID: uuid.New(), Email: "who@example.com", PasswordHash: "$2a$10$hash"}

			fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
			fx.hasher.On("Check", "secret", user.PasswordHash).Return(true)
			fx.roleGrantRepo.On("HasGrant", ctx, user.ID, entity.RoleAdmin).Return(tc.adminGrant, nil)
			if tc.salesChecked {
				fx.roleGrantRepo.On("HasGrant", ctx, user.ID, entity.RoleSalesAdmin).Return(tc.salesGrant, nil)
			}
			fx.tokenService.On("Issue", user.ID, user.Email, tc.expectedRole, false).Return("token", nil)

			output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: user.Email, Password: "secret"})
			require.NoError(t, err)
			assert.Equal(t, tc.expectedRole, output.Role)
			assert.Equal(t, "token", output.AccessToken)
		})
	}
}

func TestAccountService_Login_RememberReachesIssuer(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "who@example.com", PasswordHash: "$2a$10$hash"}

	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.hasher.On("Check", "secret", user.PasswordHash).Return(true)
	fx.roleGrantRepo.On("HasGrant", ctx, user.ID, entity.RoleAdmin).Return(false, nil)
	fx.roleGrantRepo.On("HasGrant", ctx, user.ID, entity.RoleSalesAdmin).Return(false, nil)
	fx.tokenService.On("Issue", user.ID, user.Email, entity.RoleUser, true).Return("long-token", nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: user.Email, Password: "secret", Remember: true})
	require.NoError(t, err)
	assert.Equal(t, "long-token", output.AccessToken)
}

func TestAccountService_RequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.userRepo.On("FindByEmail", ctx, "ghost@example.com").
		Return(nil, repository.ErrUserNotFound)

	err := fx.service.RequestPasswordReset(ctx, &usecase.RequestPasswordResetInput{Email: "ghost@example.com"})
	require.NoError(t, err)
	fx.tokenService.AssertNotCalled(t, "IssueResetToken", mock.Anything, mock.Anything)
	fx.mailSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_RequestPasswordReset_StoresToken(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "who@example.com"}

	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.tokenService.On("IssueResetToken", user.ID, user.Email).Return("reset-token", nil)
	fx.userRepo.On("Update", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.ResetToken == "reset-token"
	})).Return(nil)
	fx.mailSender.On("Send", mock.Anything, user.Email, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Maybe()

	err := fx.service.RequestPasswordReset(ctx, &usecase.RequestPasswordResetInput{Email: user.Email})
	require.NoError(t, err)
}

func TestAccountService_ConfirmPasswordReset_SingleUse(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "who@example.com", ResetToken: "reset-token"}

	fx.tokenService.On("VerifyResetToken", "reset-token").
		Return(&service.TokenClaims{UserID: user.ID, Email: user.Email}, nil)
	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.hasher.On("Hash", "newpassword1").Return("$2a$10$newhash", nil)
	fx.userRepo.On("Update", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.ResetToken == "" && u.PasswordHash == "$2a$10$newhash"
	})).Return(nil)

	err := fx.service.ConfirmPasswordReset(ctx, &usecase.ConfirmPasswordResetInput{
		Token:       "reset-token",
		NewPassword: "newpassword1",
	})
	require.NoError(t, err)
}

func TestAccountService_ConfirmPasswordReset_RejectsConsumedToken(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	// The stored copy was already cleared by a previous confirmation.
	user := &entity.User{ID: uuid.New(), Email: "who@example.com", ResetToken: ""}

	fx.tokenService.On("VerifyResetToken", "reset-token").
		Return(&service.TokenClaims{UserID: user.ID, Email: user.Email}, nil)
	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	err := fx.service.ConfirmPasswordReset(ctx, &usecase.ConfirmPasswordResetInput{
		Token:       "reset-token",
		NewPassword: "newpassword1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrResetTokenInvalid)
	fx.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAccountService_ConfirmPasswordReset_RejectsBadSignature(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.tokenService.On("VerifyResetToken", "forged").Return(nil, assert.AnError)

	err := fx.service.ConfirmPasswordReset(ctx, &usecase.ConfirmPasswordResetInput{
		Token:       "forged",
		NewPassword: "newpassword1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrResetTokenInvalid)
}
