package repository

import (
	"context"

	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/pkg/xcontext"
)

type StreamKeyRepository interface {
	Create(ctx context.Context, data *entity.StreamKey) error
	GetByKey(ctx context.Context, key string) (*entity.StreamKey, error)
	GetAll(ctx context.Context) ([]entity.StreamKey, error)
	DeleteByID(ctx context.Context, id int64) error
}

type streamKeyRepository struct{}

func NewStreamKeyRepository() *streamKeyRepository {
	return &streamKeyRepository{}
}

func (r *streamKeyRepository) Create(ctx context.Context, data *entity.StreamKey) error {
	if err := xcontext.DB(ctx).Create(data).Error; err != nil {
		if isDuplicatedError(err) {
			return ErrDuplicated
		}
		return err
	}

	return nil
}

func (r *streamKeyRepository) GetByKey(ctx context.Context, key string) (*entity.StreamKey, error) {
	var record entity.StreamKey
	if err := xcontext.DB(ctx).Where("`key`=?", key).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *streamKeyRepository) GetAll(ctx context.Context) ([]entity.StreamKey, error) {
	var records []entity.StreamKey
	if err := xcontext.DB(ctx).Order("`key`").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *streamKeyRepository) DeleteByID(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Where("id=?", id).Delete(&entity.StreamKey{}).Error
}
