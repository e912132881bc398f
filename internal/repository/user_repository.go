package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"examauth/internal/model"
)

// ErrDuplicate is returned by Create when the email is already taken.
var ErrDuplicate = errors.New("duplicate record")

// UserRepository is the credential store: one record per email.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	// FindByEmail returns gorm.ErrRecordNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateActive(ctx context.Context, email string, active bool) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	// DeleteAll removes every user and reports how many were deleted.
	DeleteAll(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateActive(ctx context.Context, email string, active bool) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Update("is_active", active).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Update("password_hash", passwordHash).Error
}

func (r *userRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.User{})
	return res.RowsAffected, res.Error
}
