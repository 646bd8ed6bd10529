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

// FeedbackAuditRepository only inserts and reads; audit rows are never updated.
type FeedbackAuditRepository struct {
	db     *gorm.DB
	mapper mappers.FeedbackMapper
}

var _ feedback.AuditRepository = (*FeedbackAuditRepository)(nil)

func NewFeedbackAuditRepository(db *gorm.DB) *FeedbackAuditRepository {
	return &FeedbackAuditRepository{
		db:     db,
		mapper: mappers.NewFeedbackMapper(),
	}
}

func (r *FeedbackAuditRepository) Append(ctx context.Context, e *feedback.AuditEntry) error {
	model, err := r.mapper.AuditToModel(e)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return e.SetID(model.ID)
}

func (r *FeedbackAuditRepository) ListByThreadID(ctx context.Context, threadID string) ([]*feedback.AuditEntry, error) {
	var entryModels []models.FeedbackAuditEntryModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&entryModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	entries := make([]*feedback.AuditEntry, 0, len(entryModels))
	for i := range entryModels {
		e, err := r.mapper.AuditToDomain(&entryModels[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, nil
}
