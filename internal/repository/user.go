package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// ErrDuplicated reports a uniqueness violation on creation. It is a
// recoverable condition, not a fatal one.
var ErrDuplicated = errors.New("record already exists")

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetAll(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, data *entity.User) error
	UpdateByUsername(ctx context.Context, username string, updates map[string]any) error
	AddPoints(ctx context.Context, username string, points int) error
	Delete(ctx context.Context, username string) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	if err := xcontext.DB(ctx).Create(data).Error; err != nil {
		if isDuplicatedError(err) {
			return ErrDuplicated
		}
		return err
	}

	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("username=?", username).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]entity.User, error) {
	var records []entity.User
	if err := xcontext.DB(ctx).Order("username").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userRepository) Update(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Save(data).Error
}

func (r *userRepository) UpdateByUsername(
	ctx context.Context, username string, updates map[string]any,
) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("username=?", username).
		Updates(updates).Error
}

func (r *userRepository) AddPoints(ctx context.Context, username string, points int) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("username=?", username).
		Update("points", gorm.Expr("points + ?", points)).Error
}

func (r *userRepository) Delete(ctx context.Context, username string) error {
	return xcontext.DB(ctx).Where("username=?", username).Delete(&entity.User{}).Error
}

func isDuplicatedError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// The mysql and sqlite drivers report uniqueness violations with
	// driver-specific errors the gorm translator does not always catch.
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint")
}
