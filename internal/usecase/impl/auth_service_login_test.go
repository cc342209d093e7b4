package impl

import (
	"context"
	"testing"
	"time"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := verifiedUser("buyer@example.com", "buyer_one")

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "buyer@example.com").
		Return(user, nil)
	fx.hasher.EXPECT().Check("Sunny#Day2024", "hashed_password").Return(true)
	fx.tokenService.EXPECT().GenerateSessionToken(user.ID).Return("session-jwt", nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "Buyer@Example.com",
		Password: "Sunny#Day2024",
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "session-jwt", output.Token)
	assert.Equal(t, "buyer@example.com", output.User.Email)
}

func TestAuthService_Login_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "ghost@example.com").
		Return(nil, repository.ErrUserNotFound)

	_, unknownErr := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "ghost@example.com",
		Password: "Sunny#Day2024",
	})

	user := verifiedUser("buyer@example.com", "buyer_one")
	fx.userRepo.EXPECT().
		FindByEmail(ctx, "buyer@example.com").
		Return(user, nil)
	fx.hasher.EXPECT().Check("WrongPass#1", "hashed_password").Return(false)

	_, wrongPassErr := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "buyer@example.com",
		Password: "WrongPass#1",
	})

	// Both failures map to the same error so responses cannot be used to
	// probe which accounts exist.
	require.Error(t, unknownErr)
	require.Error(t, wrongPassErr)
	assert.ErrorIs(t, unknownErr, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, domainerrors.ErrInvalidCredentials)

	var unknownApp, wrongApp domainerrors.AppError
	require.ErrorAs(t, unknownErr, &unknownApp)
	require.ErrorAs(t, wrongPassErr, &wrongApp)
	assert.Equal(t, unknownApp.Message(), wrongApp.Message())
}

func TestAuthService_Login_UnverifiedAccount(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := verifiedUser("pending@example.com", "pending_buyer")
	user.EmailVerified = false

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "pending@example.com").
		Return(user, nil)
	fx.hasher.EXPECT().Check("Sunny#Day2024", "hashed_password").Return(true)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "pending@example.com",
		Password: "Sunny#Day2024",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrEmailNotVerified)
}

func TestAuthService_Login_SucceedsAfterVerification(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	user := verifiedUser("pending@example.com", "pending_buyer")
	user.EmailVerified = false

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "pending@example.com").
		Return(user, nil).
		Once()
	fx.hasher.EXPECT().Check("Sunny#Day2024", "hashed_password").Return(true)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "pending@example.com",
		Password: "Sunny#Day2024",
	})
	require.ErrorIs(t, err, domainerrors.ErrEmailNotVerified)

	// Consume the verification token, then the same credentials succeed.
	fx.userRepo.EXPECT().
		ConsumeVerificationToken(ctx, "verify-token", mock.AnythingOfType("time.Time")).
		RunAndReturn(func(ctx context.Context, token string, now time.Time) (*entity.User, error) {
			user.EmailVerified = true

			return user, nil
		})
	require.NoError(t, fx.service.VerifyEmail(ctx, "verify-token"))

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "pending@example.com").
		Return(user, nil).
		Once()
	fx.tokenService.EXPECT().GenerateSessionToken(user.ID).Return("session-jwt", nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "pending@example.com",
		Password: "Sunny#Day2024",
	})

	require.NoError(t, err)
	assert.Equal(t, "session-jwt", output.Token)
}

func TestAuthService_RequestPasswordReset_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := verifiedUser("buyer@example.com", "buyer_one")

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "buyer@example.com").
		Return(user, nil)
	fx.tokenIssuer.EXPECT().IssueResetToken().
		Return(issuedToken("reset-token-1", time.Hour), nil)
	fx.userRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(ctx context.Context, updated *entity.User) {
			require.NotNil(t, updated.ResetToken)
			assert.Equal(t, "reset-token-1", *updated.ResetToken)
			require.NotNil(t, updated.ResetTokenExpireAt)
		}).
		Return(nil)
	fx.mailer.EXPECT().
		SendPasswordResetEmail(ctx, "buyer@example.com", "reset-token-1").
		Return(nil)

	err := fx.service.RequestPasswordReset(ctx, "buyer@example.com")

	require.NoError(t, err)
}

func TestAuthService_RequestPasswordReset_MissingEmail(t *testing.T) {
	fx := createTestAuthService(t)

	err := fx.service.RequestPasswordReset(context.Background(), "  ")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrMissingEmail)
}

func TestAuthService_RequestPasswordReset_UnknownAccountIssuesNothing(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	fx.userRepo.EXPECT().
		FindByEmail(ctx, "ghost@example.com").
		Return(nil, repository.ErrUserNotFound)

	// No token is issued and nothing is dispatched; the mocks would fail the
	// test on any unexpected call.
	err := fx.service.RequestPasswordReset(ctx, "ghost@example.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestAuthService_RequestPasswordReset_UnverifiedAccountIssuesNothing(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := verifiedUser("pending@example.com", "pending_buyer")
	user.EmailVerified = false

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "pending@example.com").
		Return(user, nil)

	err := fx.service.RequestPasswordReset(ctx, "pending@example.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestAuthService_RequestPasswordReset_MailerFailureSwallowed(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := verifiedUser("buyer@example.com", "buyer_one")

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "buyer@example.com").
		Return(user, nil)
	fx.tokenIssuer.EXPECT().IssueResetToken().
		Return(issuedToken("reset-token-2", time.Hour), nil)
	fx.userRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.User")).
		Return(nil)
	fx.mailer.EXPECT().
		SendPasswordResetEmail(ctx, "buyer@example.com", "reset-token-2").
		Return(assert.AnError)

	err := fx.service.RequestPasswordReset(ctx, "buyer@example.com")

	require.NoError(t, err)
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := verifiedUser("buyer@example.com", "buyer_one")

	fx.hasher.EXPECT().Hash("Fresh#Start2024").Return("new_hashed_password", nil)
	fx.userRepo.EXPECT().
		ConsumeResetToken(ctx, "reset-token-1", "new_hashed_password", mock.AnythingOfType("time.Time")).
		Return(user, nil)

	err := fx.service.ResetPassword(ctx, &usecase.ResetPasswordInput{
		Token:    "reset-token-1",
		Password: "Fresh#Start2024",
	})

	require.NoError(t, err)
}

func TestAuthService_ResetPassword_MissingFields(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	err := fx.service.ResetPassword(ctx, &usecase.ResetPasswordInput{Token: "", Password: "Fresh#Start2024"})
	assert.ErrorIs(t, err, domainerrors.ErrMissingToken)

	err = fx.service.ResetPassword(ctx, &usecase.ResetPasswordInput{Token: "reset-token-1", Password: ""})
	assert.ErrorIs(t, err, domainerrors.ErrMissingPassword)
}

func TestAuthService_ResetPassword_WeakPasswordReportsEveryRule(t *testing.T) {
	fx := createTestAuthService(t)

	err := fx.service.ResetPassword(context.Background(), &usecase.ResetPasswordInput{
		Token:    "reset-token-1",
		Password: "weakpass",
	})

	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WEAK_PASSWORD", appErr.ErrorCode())

	details := appErr.Details()
	assert.Contains(t, details, "password must contain an uppercase letter")
	assert.Contains(t, details, "password must contain a number")
	assert.Contains(t, details, "password must contain a special character")
	assert.NotContains(t, details, "password must be at least 8 characters")
}

func TestAuthService_ResetPassword_SingleUse(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := verifiedUser("buyer@example.com", "buyer_one")

	fx.hasher.EXPECT().Hash("Fresh#Start2024").Return("new_hashed_password", nil).Twice()

	fx.userRepo.EXPECT().
		ConsumeResetToken(ctx, "reset-token-1", "new_hashed_password", mock.AnythingOfType("time.Time")).
		Return(user, nil).
		Once()
	require.NoError(t, fx.service.ResetPassword(ctx, &usecase.ResetPasswordInput{
		Token:    "reset-token-1",
		Password: "Fresh#Start2024",
	}))

	fx.userRepo.EXPECT().
		ConsumeResetToken(ctx, "reset-token-1", "new_hashed_password", mock.AnythingOfType("time.Time")).
		Return(nil, repository.ErrTokenNotConsumable).
		Once()

	err := fx.service.ResetPassword(ctx, &usecase.ResetPasswordInput{
		Token:    "reset-token-1",
		Password: "Fresh#Start2024",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
}

func TestAuthService_GetProfile(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := verifiedUser("buyer@example.com", "buyer_one")
	user.Location = "Lisbon"

	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)

	profile, err := fx.service.GetProfile(ctx, user.ID)

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "Lisbon", profile.Location)

	unknownID := uuid.New()
	fx.userRepo.EXPECT().FindByID(ctx, unknownID).Return(nil, repository.ErrUserNotFound)

	_, err = fx.service.GetProfile(ctx, unknownID)
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}
