package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "creditledger/internal/errors"
	"creditledger/internal/model"
)

// UserRepository defines user persistence operations. Credits are only
// ever mutated through AdjustCredits so the balance guard cannot be
// bypassed.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	EnsureByEmail(ctx context.Context, email string) (*model.User, error)
	AdjustCredits(ctx context.Context, email string, delta int64) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update updates an existing user.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// FindByID finds a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureByEmail returns the user for email, creating a zero-balance
// customer row if none exists. The insert races safely: on conflict with
// a concurrent creator the existing row wins and is re-read.
func (r *userRepository) EnsureByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{
		Email:   email,
		Name:    nameFromEmail(email),
		Credits: 0,
		Role:    model.RoleCustomer,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(user).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	// DoNothing leaves the model unfilled when the row already existed.
	var out model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// AdjustCredits applies credits := credits + delta as one conditional
// UPDATE and returns the post-update balance from the same statement.
// The WHERE guard rejects debits that would go negative unless the row
// is a director, so the sufficiency decision and the mutation are a
// single atomic write, never a read followed by a write.
func (r *userRepository) AdjustCredits(ctx context.Context, email string, delta int64) (int64, error) {
	var user model.User
	res := r.db.WithContext(ctx).Model(&user).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "credits"}}}).
		Where("email = ? AND (credits + ? >= 0 OR role = ?)", email, delta, model.RoleDirector).
		UpdateColumn("credits", gorm.Expr("credits + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Classify the rejection. The guarded update already decided it;
		// this read only picks the right error.
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.User{}).
			Where("email = ?", email).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, apperrors.ErrAccountNotFound
		}
		return 0, apperrors.ErrInsufficientCredits
	}
	return user.Credits, nil
}

// nameFromEmail derives a display name for implicitly created users.
func nameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
