package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/infrastructure/persistence/mappers"
	"github.com/campushub/campushub/internal/infrastructure/persistence/models"
	db "github.com/campushub/campushub/internal/shared/db"
)

// threadMutableColumns are rewritten by Update. message_count and
// last_message_at belong to IncrementMessageCount.
var threadMutableColumns = []string{
	"title",
	"type",
	"priority",
	"status",
	"target_role",
	"target_user_id",
	"deleted",
	"deleted_at",
	"deleted_by",
	"updated_at",
}

type FeedbackThreadRepository struct {
	db     *gorm.DB
	mapper mappers.FeedbackMapper
}

var _ feedback.ThreadRepository = (*FeedbackThreadRepository)(nil)

func NewFeedbackThreadRepository(db *gorm.DB) *FeedbackThreadRepository {
	return &FeedbackThreadRepository{
		db:     db,
		mapper: mappers.NewFeedbackMapper(),
	}
}

func (r *FeedbackThreadRepository) Create(ctx context.Context, t *feedback.Thread) error {
	model := r.mapper.ThreadToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}

	return nil
}

func (r *FeedbackThreadRepository) GetByID(ctx context.Context, threadID string) (*feedback.Thread, error) {
	return r.get(ctx, threadID, db.GetTxFromContext(ctx, r.db))
}

func (r *FeedbackThreadRepository) GetByIDForUpdate(ctx context.Context, threadID string) (*feedback.Thread, error) {
	tx := db.GetTxFromContext(ctx, r.db).Scopes(db.LockForUpdate(ctx))
	return r.get(ctx, threadID, tx)
}

func (r *FeedbackThreadRepository) get(_ context.Context, threadID string, tx *gorm.DB) (*feedback.Thread, error) {
	var model models.FeedbackThreadModel

	if err := tx.Where("id = ?", threadID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, feedback.ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}

	return r.mapper.ThreadToDomain(&model)
}

func (r *FeedbackThreadRepository) Update(ctx context.Context, t *feedback.Thread) error {
	model := r.mapper.ThreadToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	// Select forces zero values (deleted=false, deleted_at=NULL) to be written;
	// UpdateColumns keeps the entity's updated_at instead of the hook's clock.
	result := tx.
		Model(&models.FeedbackThreadModel{}).
		Where("id = ?", model.ID).
		Select(threadMutableColumns).
		UpdateColumns(model)

	if result.Error != nil {
		return fmt.Errorf("failed to update thread: %w", result.Error)
	}

	// Note: RowsAffected may be 0 on MySQL when values are unchanged.

	return nil
}

func (r *FeedbackThreadRepository) IncrementMessageCount(ctx context.Context, threadID string, at time.Time) error {
	tx := db.GetTxFromContext(ctx, r.db)
	ms := at.UnixMilli()

	result := tx.
		Model(&models.FeedbackThreadModel{}).
		Where("id = ?", threadID).
		UpdateColumns(map[string]interface{}{
			"message_count":   gorm.Expr("message_count + 1"),
			"last_message_at": ms,
			"updated_at":      ms,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to increment message count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return feedback.ErrThreadNotFound
	}

	return nil
}

func (r *FeedbackThreadRepository) List(ctx context.Context, filter feedback.ThreadFilter) ([]*feedback.Thread, int64, error) {
	if filter.IDs != nil && len(filter.IDs) == 0 {
		return []*feedback.Thread{}, 0, nil
	}

	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.FeedbackThreadModel{}).Scopes(visibleTo(filter.Visibility))

	if !filter.IncludeDeleted {
		query = query.Scopes(db.NotDeleted())
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", filter.Priority.String())
	}
	if filter.Type != nil {
		query = query.Where("type = ?", filter.Type.String())
	}
	if filter.CreatedByRole != nil {
		query = query.Where("created_by_role = ?", filter.CreatedByRole.String())
	}
	if filter.IDs != nil {
		query = query.Where("id IN ?", filter.IDs)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(title) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(search))+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count threads: %w", err)
	}

	var threadModels []models.FeedbackThreadModel
	if err := query.
		Order("last_message_at DESC").
		Order("created_at DESC").
		Order("id DESC").
		Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Find(&threadModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list threads: %w", err)
	}

	threads := make([]*feedback.Thread, 0, len(threadModels))
	for i := range threadModels {
		t, err := r.mapper.ThreadToDomain(&threadModels[i])
		if err != nil {
			return nil, 0, err
		}
		threads = append(threads, t)
	}

	return threads, total, nil
}

func (r *FeedbackThreadRepository) CountByStatus(ctx context.Context, scope feedback.Visibility) (feedback.StatusCounts, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Model(&models.FeedbackThreadModel{}).
		Scopes(visibleTo(scope), db.NotDeleted()).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return feedback.StatusCounts{}, fmt.Errorf("failed to count threads by status: %w", err)
	}

	var counts feedback.StatusCounts
	for _, row := range rows {
		counts.Add(vo.ThreadStatus(row.Status), row.Count)
	}
	return counts, nil
}

// visibleTo limits non-admin scopes to threads the user created or is targeted by.
func visibleTo(scope feedback.Visibility) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if scope.All {
			return q
		}
		return q.Where("(created_by = ? OR target_user_id = ?)", scope.UserID, scope.UserID)
	}
}

// '!' is usable as a LIKE escape on mysql, postgres and sqlite alike.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
