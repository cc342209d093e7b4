// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByEmail retrieves a single user by their email address. Callers are
// expected to lower-case the email before lookup.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, "email = ?", email)
}

// FindByUsername retrieves a single user by their username.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return repo.findOne(ctx, "username = ?", username)
}

// FindByVerificationToken retrieves the user holding the given outstanding verification token.
func (repo *userRepository) FindByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	return repo.findOne(ctx, "verification_token = ?", token)
}

// FindByResetToken retrieves the user holding the given outstanding reset token.
func (repo *userRepository) FindByResetToken(ctx context.Context, token string) (*entity.User, error) {
	return repo.findOne(ctx, "reset_token = ?", token)
}

func (repo *userRepository) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	userM := new(model.UserModel)
	if err := repo.db.WithContext(ctx).Where(query, arg).First(userM).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(userM), nil
}

// Create persists a new user entity to the database.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	// Map the pure domain entity to a GORM persistence model.
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors. The unique indexes are a
		// backstop for races the pre-checks in the use case cannot see.
		if isUniqueConstraintViolation(err) {
			switch uniqueViolationColumn(err) {
			case "username":
				return domainerrors.ErrUsernameExists.WrapMessage("username already taken")
			default:
				return domainerrors.ErrEmailExists.WrapMessage("email already registered")
			}
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update modifies an existing user entity in the database.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailExists.WrapMessage("email already registered")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserUpdateFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// ConsumeVerificationToken flips the user holding the token to verified and
// clears the token in a single guarded statement. The WHERE clause matches
// only a live, unexpired token, so a concurrent duplicate request (or a stale
// link) affects zero rows and maps to ErrTokenNotConsumable.
func (repo *userRepository) ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	return repo.consume(ctx,
		"verification_token = ? AND verification_token_expire_at > ?",
		token, now,
		map[string]any{
			"email_verified":               true,
			"verification_token":           nil,
			"verification_token_expire_at": nil,
		})
}

// ConsumeResetToken replaces the password hash of the user holding the token
// and clears the token in the same guarded statement. Same single-consumer
// guarantee as ConsumeVerificationToken.
func (repo *userRepository) ConsumeResetToken(ctx context.Context, token string, newPasswordHash string, now time.Time) (*entity.User, error) {
	return repo.consume(ctx,
		"reset_token = ? AND reset_token_expire_at > ?",
		token, now,
		map[string]any{
			"password_hash":        newPasswordHash,
			"reset_token":          nil,
			"reset_token_expire_at": nil,
		})
}

func (repo *userRepository) consume(ctx context.Context, cond string, token string, now time.Time, updates map[string]any) (*entity.User, error) {
	var updated []model.UserModel
	result := repo.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Where(cond, token, now).
		Updates(updates)

	if result.Error != nil {
		return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to consume token")
	}
	if result.RowsAffected == 0 || len(updated) == 0 {
		return nil, repository.ErrTokenNotConsumable
	}

	return toUserDomain(&updated[0]), nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:                        data.ID,
		Email:                     data.Email,
		Username:                  data.Username,
		PasswordHash:              data.PasswordHash,
		EmailVerified:             data.EmailVerified,
		VerificationToken:         data.VerificationToken,
		VerificationTokenExpireAt: data.VerificationTokenExpireAt,
		ResetToken:                data.ResetToken,
		ResetTokenExpireAt:        data.ResetTokenExpireAt,
		Location:                  data.Location,
		CreatedAt:                 data.CreatedAt,
		UpdatedAt:                 data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:                        data.ID,
		Email:                     data.Email,
		Username:                  data.Username,
		PasswordHash:              data.PasswordHash,
		EmailVerified:             data.EmailVerified,
		VerificationToken:         data.VerificationToken,
		VerificationTokenExpireAt: data.VerificationTokenExpireAt,
		ResetToken:                data.ResetToken,
		ResetTokenExpireAt:        data.ResetTokenExpireAt,
		Location:                  data.Location,
		CreatedAt:                 data.CreatedAt,
	}
}
