package repository

import (
	"context"
	"errors"

	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type SettingRepository interface {
	// Get returns the settings row, creating it with defaults on first use.
	Get(ctx context.Context) (*entity.Setting, error)
	Update(ctx context.Context, data *entity.Setting) error
}

type settingRepository struct{}

func NewSettingRepository() *settingRepository {
	return &settingRepository{}
}

func (r *settingRepository) Get(ctx context.Context) (*entity.Setting, error) {
	var record entity.Setting
	err := xcontext.DB(ctx).First(&record).Error
	if err == nil {
		return &record, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	setting := entity.NewSetting()
	if err := xcontext.DB(ctx).Create(setting).Error; err != nil {
		return nil, err
	}

	return setting, nil
}

func (r *settingRepository) Update(ctx context.Context, data *entity.Setting) error {
	return xcontext.DB(ctx).Save(data).Error
}
