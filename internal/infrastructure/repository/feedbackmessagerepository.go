package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campushub/campushub/internal/domain/feedback"
	"github.com/campushub/campushub/internal/infrastructure/persistence/mappers"
	"github.com/campushub/campushub/internal/infrastructure/persistence/models"
	db "github.com/campushub/campushub/internal/shared/db"
)

type FeedbackMessageRepository struct {
	db     *gorm.DB
	mapper mappers.FeedbackMapper
}

var _ feedback.MessageRepository = (*FeedbackMessageRepository)(nil)

func NewFeedbackMessageRepository(db *gorm.DB) *FeedbackMessageRepository {
	return &FeedbackMessageRepository{
		db:     db,
		mapper: mappers.NewFeedbackMapper(),
	}
}

func (r *FeedbackMessageRepository) Create(ctx context.Context, m *feedback.Message) error {
	model := r.mapper.MessageToModel(m)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return m.SetID(model.ID)
}

// ListByThreadID returns messages oldest first; id breaks ties within a millisecond.
func (r *FeedbackMessageRepository) ListByThreadID(ctx context.Context, threadID string) ([]*feedback.Message, error) {
	var messageModels []models.FeedbackMessageModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messageModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]*feedback.Message, 0, len(messageModels))
	for i := range messageModels {
		m, err := r.mapper.MessageToDomain(&messageModels[i])
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, nil
}
