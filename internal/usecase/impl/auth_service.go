// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"market/config"
	deliverycontext "market/internal/delivery/context"
	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/domain/service"
	"market/internal/usecase"
	"market/internal/validation"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface. It holds no durable state
// itself: every operation reads current state from the credential store and
// writes new state back atomically.
type authService struct {
	txManager      repository.TransactionManager
	userRepo       repository.UserRepository
	hasher         service.PasswordHasher
	tokenIssuer    service.TokenIssuer
	tokenService   service.TokenService
	mailer         service.Mailer
	passwordPolicy validation.PasswordPolicy
	logger         *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenIssuer  service.TokenIssuer
	TokenService service.TokenService
	Mailer       service.Mailer
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	policy := validation.DefaultPasswordPolicy()
	if params.Config != nil && params.Config.PasswordStrength != nil {
		ps := params.Config.PasswordStrength
		policy = validation.PasswordPolicy{
			MinLength:        ps.MinLength,
			MaxLength:        ps.MaxLength,
			RequireUppercase: ps.RequireUppercase,
			RequireLowercase: ps.RequireLowercase,
			RequireNumbers:   ps.RequireNumbers,
			RequireSpecial:   ps.RequireSpecial,
		}
	}

	return &authService{
		txManager:      params.TxManager,
		userRepo:       params.UserRepo,
		hasher:         params.Hasher,
		tokenIssuer:    params.TokenIssuer,
		tokenService:   params.TokenService,
		mailer:         params.Mailer,
		passwordPolicy: policy,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// normalizeEmail lower-cases the address so email uniqueness and lookups are
// case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register orchestrates the complete registration process.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email), slog.String("username", input.Username))

	// Collect every violation before failing so the caller gets the full list.
	var violations []string
	violations = append(violations, validation.ValidateEmail(email)...)
	violations = append(violations, validation.ValidateUsername(input.Username)...)
	violations = append(violations, srv.passwordPolicy.Validate(input.Password)...)
	violations = append(violations, validation.ValidateLocation(input.Location)...)
	if len(violations) > 0 {
		srv.log(ctx).Warn("Registration validation failed", slog.String("email", email), slog.Any("violations", violations))

		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(violations...), "registration input rejected")
	}

	// bcrypt is CPU-bound, keep it outside the transaction.
	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	verification, err := srv.tokenIssuer.IssueVerificationToken()
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue verification token")
	}

	newUser := &entity.User{
		Email:                     email,
		Username:                  input.Username,
		PasswordHash:              passwordHash,
		EmailVerified:             false,
		VerificationToken:         &verification.Value,
		VerificationTokenExpireAt: &verification.ExpireAt,
		Location:                  strings.TrimSpace(input.Location),
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		// Pre-check uniqueness so the caller gets a field-specific conflict
		// instead of a generic constraint failure. The unique indexes remain
		// the race-safe backstop.
		if err := srv.checkEmailAvailable(ctx, userRepo, email); err != nil {
			return err
		}
		if err := srv.checkUsernameAvailable(ctx, userRepo, input.Username); err != nil {
			return err
		}

		return userRepo.Create(ctx, newUser)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to execute registration transaction", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	// The user is committed; a failed dispatch must not undo that. The user
	// can request a new verification email later.
	if err := srv.mailer.SendVerificationEmail(ctx, newUser.Email, newUser.Username, verification.Value); err != nil {
		srv.log(ctx).Warn("Failed to dispatch verification email",
			slog.String("email", newUser.Email), slog.Any("error", err))
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser.Sanitized()}, nil
}

func (srv *authService) checkEmailAvailable(ctx context.Context, userRepo repository.UserRepository, email string) error {
	_, err := userRepo.FindByEmail(ctx, email)
	if err == nil {
		return errors.Wrap(domainerrors.ErrEmailExists, "email already registered")
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to check email availability")
	}

	return nil
}

func (srv *authService) checkUsernameAvailable(ctx context.Context, userRepo repository.UserRepository, username string) error {
	_, err := userRepo.FindByUsername(ctx, username)
	if err == nil {
		return errors.Wrap(domainerrors.ErrUsernameExists, "username already registered")
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to check username availability")
	}

	return nil
}

// VerifyEmail consumes a verification token. The store's compare-and-clear
// update is the authority on the single-use race: of two concurrent calls
// with the same token, exactly one succeeds.
func (srv *authService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return errors.Wrap(domainerrors.ErrMissingToken, "verification token is empty")
	}

	user, err := srv.userRepo.ConsumeVerificationToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotConsumable) {
			// The precise cause stays in the logs; the caller only learns
			// "invalid or expired".
			srv.logVerificationRejection(ctx, token)

			return errors.Wrap(domainerrors.ErrInvalidOrExpiredToken, "verification token not consumable")
		}

		return errors.Wrap(err, "failed to consume verification token")
	}

	srv.log(ctx).Info("Email verified", slog.Any("userID", user.ID))

	return nil
}

// logVerificationRejection records why a verification token was rejected.
func (srv *authService) logVerificationRejection(ctx context.Context, token string) {
	user, err := srv.userRepo.FindByVerificationToken(ctx, token)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		srv.log(ctx).Warn("Verification token unknown or already consumed")
	case err != nil:
		srv.log(ctx).Warn("Verification token lookup failed", slog.Any("error", err))
	case user.VerificationTokenExpireAt != nil && user.VerificationTokenExpireAt.Before(time.Now()):
		srv.log(ctx).Warn("Verification token expired", slog.Any("userID", user.ID))
	default:
		srv.log(ctx).Warn("Verification token rejected", slog.Any("userID", user.ID))
	}
}

// ResendVerificationEmail issues a fresh verification token, invalidating any
// prior one. Account absence is reported as ErrAccountNotFound for the
// delivery layer to suppress; "already verified" is deliberately revealed,
// since the requester presumably controls the address.
func (srv *authService) ResendVerificationEmail(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Info("Verification resend for unknown account", slog.String("email", email))

			return errors.Wrap(domainerrors.ErrAccountNotFound, "no account for verification resend")
		}

		return errors.Wrap(err, "failed to find user for verification resend")
	}

	if user.EmailVerified {
		return errors.Wrap(domainerrors.ErrAlreadyVerified, "account already verified")
	}

	verification, err := srv.tokenIssuer.IssueVerificationToken()
	if err != nil {
		return errors.Wrap(err, "failed to issue verification token")
	}

	user.VerificationToken = &verification.Value
	user.VerificationTokenExpireAt = &verification.ExpireAt

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to store reissued verification token")
	}

	if err := srv.mailer.SendVerificationEmail(ctx, user.Email, user.Username, verification.Value); err != nil {
		srv.log(ctx).Warn("Failed to dispatch verification email",
			slog.String("email", user.Email), slog.Any("error", err))
	}

	srv.log(ctx).Info("Verification email reissued", slog.Any("userID", user.ID))

	return nil
}

// Login checks the credentials and issues a signed session token.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting login", slog.String("email", email))

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same error as a wrong password so responses don't reveal
			// whether the account exists.
			srv.log(ctx).Warn("Login for unknown account", slog.String("email", email))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find user for login")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login password mismatch", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if !user.EmailVerified {
		return nil, errors.Wrap(domainerrors.ErrEmailNotVerified, "login rejected for unverified account")
	}

	token, err := srv.tokenService.GenerateSessionToken(user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to generate session token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate session token")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		Token: token,
		User:  user.Sanitized(),
	}, nil
}

// RequestPasswordReset issues a reset token for a verified account. Missing
// and unverified accounts are silent no-ops: the caller reports generic
// success either way, and no token is issued and nothing is dispatched.
func (srv *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return errors.Wrap(domainerrors.ErrMissingEmail, "reset request without email")
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Info("Password reset for unknown account", slog.String("email", email))

			return errors.Wrap(domainerrors.ErrAccountNotFound, "no account for password reset")
		}

		return errors.Wrap(err, "failed to find user for password reset")
	}

	if !user.EmailVerified {
		srv.log(ctx).Info("Password reset for unverified account", slog.Any("userID", user.ID))

		return errors.Wrap(domainerrors.ErrAccountNotFound, "unverified account for password reset")
	}

	reset, err := srv.tokenIssuer.IssueResetToken()
	if err != nil {
		return errors.Wrap(err, "failed to issue reset token")
	}

	user.ResetToken = &reset.Value
	user.ResetTokenExpireAt = &reset.ExpireAt

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to store reset token")
	}

	if err := srv.mailer.SendPasswordResetEmail(ctx, user.Email, reset.Value); err != nil {
		srv.log(ctx).Warn("Failed to dispatch password reset email",
			slog.String("email", user.Email), slog.Any("error", err))
	}

	srv.log(ctx).Info("Password reset requested", slog.Any("userID", user.ID))

	return nil
}

// ResetPassword consumes a reset token and stores the new password hash in
// the same atomic update that clears the token.
func (srv *authService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) error {
	if input.Token == "" {
		return errors.Wrap(domainerrors.ErrMissingToken, "reset token is empty")
	}
	if input.Password == "" {
		return errors.Wrap(domainerrors.ErrMissingPassword, "new password is empty")
	}

	if violations := srv.passwordPolicy.Validate(input.Password); len(violations) > 0 {
		srv.log(ctx).Warn("Reset password strength rejected", slog.Any("violations", violations))

		return errors.Wrap(domainerrors.ErrWeakPassword.WithDetails(violations...), "new password too weak")
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during reset", slog.Any("error", err))

		return errors.Wrap(err, "failed to hash password during reset")
	}

	user, err := srv.userRepo.ConsumeResetToken(ctx, input.Token, passwordHash, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotConsumable) {
			srv.log(ctx).Warn("Reset token unknown, consumed or expired")

			return errors.Wrap(domainerrors.ErrInvalidOrExpiredToken, "reset token not consumable")
		}

		return errors.Wrap(err, "failed to consume reset token")
	}

	srv.log(ctx).Info("Password reset completed", slog.Any("userID", user.ID))

	return nil
}

// GetProfile returns the sanitized projection of an authenticated user.
func (srv *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.SanitizedUser, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrAccountNotFound, "profile for unknown account")
		}

		return nil, errors.Wrap(err, "failed to find user for profile")
	}

	return user.Sanitized(), nil
}
