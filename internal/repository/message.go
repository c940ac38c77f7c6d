package repository

import (
	"context"

	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/pkg/xcontext"
)

type MessageRepository interface {
	Create(ctx context.Context, data *entity.Message) error
	GetLast(ctx context.Context, limit int) ([]entity.Message, error)
	DeleteAll(ctx context.Context) error
}

type messageRepository struct{}

func NewMessageRepository() *messageRepository {
	return &messageRepository{}
}

func (r *messageRepository) Create(ctx context.Context, data *entity.Message) error {
	return xcontext.DB(ctx).Create(data).Error
}

// GetLast returns the most recent messages ordered oldest-first, ready to be
// replayed as chat history.
func (r *messageRepository) GetLast(ctx context.Context, limit int) ([]entity.Message, error) {
	var records []entity.Message
	err := xcontext.DB(ctx).Order("id DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	return records, nil
}

func (r *messageRepository) DeleteAll(ctx context.Context) error {
	return xcontext.DB(ctx).Where("1=1").Delete(&entity.Message{}).Error
}
