package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/domain/service"
	mockRepo "market/internal/mocks/repository"
	mockSvc "market/internal/mocks/service"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	txManager    *mockRepo.MockTransactionManager
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenIssuer  *mockSvc.MockTokenIssuer
	tokenService *mockSvc.MockTokenService
	mailer       *mockSvc.MockMailer
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenIssuer := mockSvc.NewMockTokenIssuer(t)
	tokenService := mockSvc.NewMockTokenService(t)
	mailer := mockSvc.NewMockMailer(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewAuthService(AuthServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenIssuer:  tokenIssuer,
		TokenService: tokenService,
		Mailer:       mailer,
		Logger:       logger,
	})

	return authServiceFixtures{
		service:      svc,
		txManager:    txManager,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		tokenService: tokenService,
		mailer:       mailer,
	}
}

func issuedToken(value string, ttl time.Duration) *service.IssuedToken {
	return &service.IssuedToken{
		Value:    value,
		ExpireAt: time.Now().Add(ttl),
	}
}

func verifiedUser(email, username string) *entity.User {
	return &entity.User{
		ID:            uuid.New(),
		Email:         email,
		Username:      username,
		PasswordHash:  "hashed_password",
		EmailVerified: true,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "New.Buyer@Example.com",
		Username: "new_buyer",
		Password: "Sunny#Day2024",
		Location: "Lisbon",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.tokenIssuer.EXPECT().IssueVerificationToken().
		Return(issuedToken("verify-token-1", 24*time.Hour), nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			// Email is stored lower-cased regardless of the submitted casing.
			mockUserRepo.EXPECT().
				FindByEmail(ctx, "new.buyer@example.com").
				Return(nil, repository.ErrUserNotFound)
			mockUserRepo.EXPECT().
				FindByUsername(ctx, "new_buyer").
				Return(nil, repository.ErrUserNotFound)

			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					assert.Equal(t, "new.buyer@example.com", user.Email)
					assert.False(t, user.EmailVerified)
					require.NotNil(t, user.VerificationToken)
					assert.Equal(t, "verify-token-1", *user.VerificationToken)
					require.NotNil(t, user.VerificationTokenExpireAt)
					user.ID = uuid.New()
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.mailer.EXPECT().
		SendVerificationEmail(ctx, "new.buyer@example.com", "new_buyer", "verify-token-1").
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "new.buyer@example.com", output.User.Email)
	assert.Equal(t, "new_buyer", output.User.Username)
	assert.False(t, output.User.EmailVerified)
}

func TestAuthService_Register_CollectsAllViolations(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "not-an-email",
		Username: "x",
		Password: "short",
	}

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())

	// Every violated rule is reported, not just the first.
	details := appErr.Details()
	assert.Contains(t, details, "email format is invalid")
	assert.Contains(t, details, "username must be between 3 and 20 characters")
	assert.Contains(t, details, "password must be at least 8 characters")
	assert.Contains(t, details, "password must contain an uppercase letter")
	assert.Contains(t, details, "password must contain a number")
	assert.Contains(t, details, "password must contain a special character")
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "taken@example.com",
		Username: "fresh_name",
		Password: "Sunny#Day2024",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.tokenIssuer.EXPECT().IssueVerificationToken().
		Return(issuedToken("verify-token-2", 24*time.Hour), nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().
				FindByEmail(ctx, "taken@example.com").
				Return(verifiedUser("taken@example.com", "someone"), nil)

			return fn(mockFactory)
		})

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrEmailExists)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "fresh@example.com",
		Username: "taken_name",
		Password: "Sunny#Day2024",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.tokenIssuer.EXPECT().IssueVerificationToken().
		Return(issuedToken("verify-token-3", 24*time.Hour), nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().
				FindByEmail(ctx, "fresh@example.com").
				Return(nil, repository.ErrUserNotFound)
			mockUserRepo.EXPECT().
				FindByUsername(ctx, "taken_name").
				Return(verifiedUser("other@example.com", "taken_name"), nil)

			return fn(mockFactory)
		})

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrUsernameExists)
}

func TestAuthService_Register_MailerFailureDoesNotFailRegistration(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "buyer@example.com",
		Username: "buyer_one",
		Password: "Sunny#Day2024",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.tokenIssuer.EXPECT().IssueVerificationToken().
		Return(issuedToken("verify-token-4", 24*time.Hour), nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().
				FindByEmail(ctx, "buyer@example.com").
				Return(nil, repository.ErrUserNotFound)
			mockUserRepo.EXPECT().
				FindByUsername(ctx, "buyer_one").
				Return(nil, repository.ErrUserNotFound)
			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Return(nil)

			return fn(mockFactory)
		})

	// The account is committed even when the dispatch blows up.
	fx.mailer.EXPECT().
		SendVerificationEmail(ctx, "buyer@example.com", "buyer_one", "verify-token-4").
		Return(assert.AnError)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
}

func TestAuthService_VerifyEmail_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := verifiedUser("buyer@example.com", "buyer_one")

	fx.userRepo.EXPECT().
		ConsumeVerificationToken(ctx, "verify-token-1", mock.AnythingOfType("time.Time")).
		Return(user, nil)

	err := fx.service.VerifyEmail(ctx, "verify-token-1")

	require.NoError(t, err)
}

func TestAuthService_VerifyEmail_EmptyToken(t *testing.T) {
	fx := createTestAuthService(t)

	err := fx.service.VerifyEmail(context.Background(), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrMissingToken)
}

func TestAuthService_VerifyEmail_SingleUse(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := verifiedUser("buyer@example.com", "buyer_one")

	// First submission consumes the token.
	fx.userRepo.EXPECT().
		ConsumeVerificationToken(ctx, "verify-token-1", mock.AnythingOfType("time.Time")).
		Return(user, nil).
		Once()

	require.NoError(t, fx.service.VerifyEmail(ctx, "verify-token-1"))

	// The second submission finds no live token.
	fx.userRepo.EXPECT().
		ConsumeVerificationToken(ctx, "verify-token-1", mock.AnythingOfType("time.Time")).
		Return(nil, repository.ErrTokenNotConsumable).
		Once()
	fx.userRepo.EXPECT().
		FindByVerificationToken(ctx, "verify-token-1").
		Return(nil, repository.ErrUserNotFound)

	err := fx.service.VerifyEmail(ctx, "verify-token-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
}

func TestAuthService_VerifyEmail_ExpiredToken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	expired := time.Now().Add(-time.Hour)
	token := "stale-token"
	holder := &entity.User{
		ID:                        uuid.New(),
		Email:                     "slow@example.com",
		Username:                  "slow_buyer",
		VerificationToken:         &token,
		VerificationTokenExpireAt: &expired,
	}

	fx.userRepo.EXPECT().
		ConsumeVerificationToken(ctx, token, mock.AnythingOfType("time.Time")).
		Return(nil, repository.ErrTokenNotConsumable)
	fx.userRepo.EXPECT().
		FindByVerificationToken(ctx, token).
		Return(holder, nil)

	err := fx.service.VerifyEmail(ctx, token)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
}

func TestAuthService_ResendVerificationEmail_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	oldToken := "old-token"
	oldExpiry := time.Now().Add(time.Hour)
	user := &entity.User{
		ID:                        uuid.New(),
		Email:                     "pending@example.com",
		Username:                  "pending_buyer",
		EmailVerified:             false,
		VerificationToken:         &oldToken,
		VerificationTokenExpireAt: &oldExpiry,
	}

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "pending@example.com").
		Return(user, nil)
	fx.tokenIssuer.EXPECT().IssueVerificationToken().
		Return(issuedToken("fresh-token", 24*time.Hour), nil)

	// Reissuing replaces the outstanding token, invalidating the old link.
	fx.userRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(ctx context.Context, updated *entity.User) {
			require.NotNil(t, updated.VerificationToken)
			assert.Equal(t, "fresh-token", *updated.VerificationToken)
		}).
		Return(nil)

	fx.mailer.EXPECT().
		SendVerificationEmail(ctx, "pending@example.com", "pending_buyer", "fresh-token").
		Return(nil)

	err := fx.service.ResendVerificationEmail(ctx, "Pending@Example.com")

	require.NoError(t, err)
}

func TestAuthService_ResendVerificationEmail_UnknownAccount(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	fx.userRepo.EXPECT().
		FindByEmail(ctx, "ghost@example.com").
		Return(nil, repository.ErrUserNotFound)

	err := fx.service.ResendVerificationEmail(ctx, "ghost@example.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestAuthService_ResendVerificationEmail_AlreadyVerified(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	fx.userRepo.EXPECT().
		FindByEmail(ctx, "done@example.com").
		Return(verifiedUser("done@example.com", "done_buyer"), nil)

	err := fx.service.ResendVerificationEmail(ctx, "done@example.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyVerified)
}
