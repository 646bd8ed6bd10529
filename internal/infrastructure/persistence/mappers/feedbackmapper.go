package mappers

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/infrastructure/persistence/models"
)

// FeedbackMapper converts between feedback domain entities and persistence models.
type FeedbackMapper interface {
	ThreadToModel(t *feedback.Thread) *models.FeedbackThreadModel
	ThreadToDomain(model *models.FeedbackThreadModel) (*feedback.Thread, error)

	MessageToModel(m *feedback.Message) *models.FeedbackMessageModel
	MessageToDomain(model *models.FeedbackMessageModel) (*feedback.Message, error)

	AuditToModel(e *feedback.AuditEntry) (*models.FeedbackAuditEntryModel, error)
	AuditToDomain(model *models.FeedbackAuditEntryModel) (*feedback.AuditEntry, error)

	LegacyToModel(l *feedback.LegacyFeedback) *models.LegacyFeedbackModel
	LegacyToDomain(model *models.LegacyFeedbackModel) *feedback.LegacyFeedback
}

// FeedbackMapperImpl is the concrete implementation of FeedbackMapper.
type FeedbackMapperImpl struct{}

// NewFeedbackMapper creates a new FeedbackMapper.
func NewFeedbackMapper() FeedbackMapper {
	return &FeedbackMapperImpl{}
}

func (m *FeedbackMapperImpl) ThreadToModel(t *feedback.Thread) *models.FeedbackThreadModel {
	return &models.FeedbackThreadModel{
		ID:             t.ID(),
		Title:          t.Title(),
		Type:           t.Type().String(),
		Priority:       t.Priority().String(),
		Status:         t.Status().String(),
		CreatedBy:      t.CreatedBy(),
		CreatedByRole:  t.CreatedByRole().String(),
		TargetRole:     t.TargetRole().String(),
		TargetUserID:   t.TargetUserID(),
		MessageCount:   t.MessageCount(),
		LastMessageAt:  t.LastMessageAt().UnixMilli(),
		MigratedFromV1: t.MigratedFromV1(),
		Deleted:        t.IsDeleted(),
		DeletedAt:      toMilliPtr(t.DeletedAt()),
		DeletedBy:      t.DeletedBy(),
		CreatedAt:      t.CreatedAt().UnixMilli(),
		UpdatedAt:      t.UpdatedAt().UnixMilli(),
	}
}

func (m *FeedbackMapperImpl) ThreadToDomain(model *models.FeedbackThreadModel) (*feedback.Thread, error) {
	if model == nil {
		return nil, nil
	}

	t, err := feedback.ReconstructThread(feedback.ReconstructThreadParams{
		ID:             model.ID,
		Title:          model.Title,
		Type:           vo.ThreadType(model.Type),
		Priority:       vo.Priority(model.Priority),
		Status:         vo.ThreadStatus(model.Status),
		CreatedBy:      model.CreatedBy,
		CreatedByRole:  vo.Role(model.CreatedByRole),
		TargetRole:     vo.TargetRole(model.TargetRole),
		TargetUserID:   model.TargetUserID,
		MessageCount:   model.MessageCount,
		LastMessageAt:  fromMilli(model.LastMessageAt),
		MigratedFromV1: model.MigratedFromV1,
		Deleted:        model.Deleted,
		DeletedAt:      fromMilliPtr(model.DeletedAt),
		DeletedBy:      model.DeletedBy,
		CreatedAt:      fromMilli(model.CreatedAt),
		UpdatedAt:      fromMilli(model.UpdatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct thread %s: %w", model.ID, err)
	}
	return t, nil
}

func (m *FeedbackMapperImpl) MessageToModel(msg *feedback.Message) *models.FeedbackMessageModel {
	return &models.FeedbackMessageModel{
		ID:         msg.ID(),
		ThreadID:   msg.ThreadID(),
		SenderID:   msg.SenderID(),
		SenderRole: msg.SenderRole().String(),
		Body:       msg.Body(),
		CreatedAt:  msg.CreatedAt().UnixMilli(),
	}
}

func (m *FeedbackMapperImpl) MessageToDomain(model *models.FeedbackMessageModel) (*feedback.Message, error) {
	if model == nil {
		return nil, nil
	}
	msg, err := feedback.ReconstructMessage(
		model.ID,
		model.ThreadID,
		model.SenderID,
		vo.Role(model.SenderRole),
		model.Body,
		fromMilli(model.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct message %d: %w", model.ID, err)
	}
	return msg, nil
}

func (m *FeedbackMapperImpl) AuditToModel(e *feedback.AuditEntry) (*models.FeedbackAuditEntryModel, error) {
	model := &models.FeedbackAuditEntryModel{
		ID:              e.ID(),
		ThreadID:        e.ThreadID(),
		Action:          e.Action().String(),
		PerformedBy:     e.PerformedBy(),
		PerformedByRole: e.PerformedByRole().String(),
		PreviousValue:   e.PreviousValue(),
		NewValue:        e.NewValue(),
		CreatedAt:       e.CreatedAt().UnixMilli(),
	}

	if meta := e.Metadata(); len(meta) > 0 {
		raw, err := json.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal audit metadata: %w", err)
		}
		model.Metadata = datatypes.JSON(raw)
	}

	return model, nil
}

func (m *FeedbackMapperImpl) AuditToDomain(model *models.FeedbackAuditEntryModel) (*feedback.AuditEntry, error) {
	if model == nil {
		return nil, nil
	}

	var meta map[string]interface{}
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &meta); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit metadata %d: %w", model.ID, err)
		}
	}

	e, err := feedback.ReconstructAuditEntry(feedback.ReconstructAuditEntryParams{
		ID:              model.ID,
		ThreadID:        model.ThreadID,
		Action:          vo.AuditAction(model.Action),
		PerformedBy:     model.PerformedBy,
		PerformedByRole: vo.Role(model.PerformedByRole),
		PreviousValue:   model.PreviousValue,
		NewValue:        model.NewValue,
		Metadata:        meta,
		CreatedAt:       fromMilli(model.CreatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct audit entry %d: %w", model.ID, err)
	}
	return e, nil
}

func (m *FeedbackMapperImpl) LegacyToModel(l *feedback.LegacyFeedback) *models.LegacyFeedbackModel {
	return &models.LegacyFeedbackModel{
		ID:            l.ID,
		UserID:        l.UserID,
		UserRole:      l.UserRole,
		RecipientRole: l.RecipientRole,
		RecipientID:   l.RecipientID,
		Subject:       l.Subject,
		Body:          l.Body,
		Category:      l.Category,
		Priority:      l.Priority,
		Status:        l.Status,
		CreatedAt:     toMilliOrZero(l.CreatedAt),
		Migrated:      l.Migrated,
		MigratedTo:    l.MigratedTo,
		MigratedAt:    toMilliPtr(l.MigratedAt),
	}
}

func (m *FeedbackMapperImpl) LegacyToDomain(model *models.LegacyFeedbackModel) *feedback.LegacyFeedback {
	if model == nil {
		return nil
	}
	return &feedback.LegacyFeedback{
		ID:            model.ID,
		UserID:        model.UserID,
		UserRole:      model.UserRole,
		RecipientRole: model.RecipientRole,
		RecipientID:   model.RecipientID,
		Subject:       model.Subject,
		Body:          model.Body,
		Category:      model.Category,
		Priority:      model.Priority,
		Status:        model.Status,
		CreatedAt:     fromMilli(model.CreatedAt),
		Migrated:      model.Migrated,
		MigratedTo:    model.MigratedTo,
		MigratedAt:    fromMilliPtr(model.MigratedAt),
	}
}

func fromMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func fromMilliPtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := fromMilli(*ms)
	return &t
}

// toMilliOrZero leaves zero times at 0 so autoCreateTime fills them in.
func toMilliOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func toMilliPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
