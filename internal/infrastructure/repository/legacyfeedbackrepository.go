package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/campushub/campushub/internal/domain/feedback"
	"github.com/campushub/campushub/internal/infrastructure/persistence/mappers"
	"github.com/campushub/campushub/internal/infrastructure/persistence/models"
	db "github.com/campushub/campushub/internal/shared/db"
)

type LegacyFeedbackRepository struct {
	db     *gorm.DB
	mapper mappers.FeedbackMapper
}

var _ feedback.LegacyFeedbackRepository = (*LegacyFeedbackRepository)(nil)

func NewLegacyFeedbackRepository(db *gorm.DB) *LegacyFeedbackRepository {
	return &LegacyFeedbackRepository{
		db:     db,
		mapper: mappers.NewFeedbackMapper(),
	}
}

func (r *LegacyFeedbackRepository) ListPending(ctx context.Context, afterID uint, limit int) ([]*feedback.LegacyFeedback, error) {
	var legacyModels []models.LegacyFeedbackModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("migrated = ? AND id > ?", false, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&legacyModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending legacy feedback: %w", err)
	}

	records := make([]*feedback.LegacyFeedback, 0, len(legacyModels))
	for i := range legacyModels {
		records = append(records, r.mapper.LegacyToDomain(&legacyModels[i]))
	}

	return records, nil
}

// Claim is a compare-and-set on the migrated flag, so concurrent runs never
// migrate the same record twice.
func (r *LegacyFeedbackRepository) Claim(ctx context.Context, legacyID uint, threadID string, at time.Time) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.LegacyFeedbackModel{}).
		Where("id = ? AND migrated = ?", legacyID, false).
		UpdateColumns(map[string]interface{}{
			"migrated":    true,
			"migrated_to": threadID,
			"migrated_at": at.UnixMilli(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim legacy feedback %d: %w", legacyID, result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *LegacyFeedbackRepository) Create(ctx context.Context, record *feedback.LegacyFeedback) error {
	model := r.mapper.LegacyToModel(record)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create legacy feedback: %w", err)
	}

	record.ID = model.ID
	return nil
}
