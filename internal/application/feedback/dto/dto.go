package dto

import (
	"time"

	"github.com/campushub/campushub/internal/domain/feedback"
	"github.com/campushub/campushub/internal/shared/mapper"
)

// ThreadDTO is the list view of a thread; it never carries message bodies.
type ThreadDTO struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Type           string     `json:"type"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	CreatedBy      string     `json:"created_by"`
	CreatedByRole  string     `json:"created_by_role"`
	TargetRole     string     `json:"target_role"`
	TargetUserID   *string    `json:"target_user_id"`
	MessageCount   int        `json:"message_count"`
	LastMessageAt  time.Time  `json:"last_message_at"`
	MigratedFromV1 bool       `json:"migrated_from_v1"`
	Deleted        bool       `json:"deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type MessageDTO struct {
	ID          uint      `json:"id"`
	ThreadID    string    `json:"thread_id"`
	SenderID    string    `json:"sender_id"`
	SenderRole  string    `json:"sender_role"`
	Message     string    `json:"message"`
	MessageHTML string    `json:"message_html"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuditEntryDTO struct {
	ID              uint                   `json:"id"`
	ThreadID        string                 `json:"thread_id"`
	Action          string                 `json:"action"`
	PerformedBy     string                 `json:"performed_by"`
	PerformedByRole string                 `json:"performed_by_role"`
	PreviousValue   *string                `json:"previous_value,omitempty"`
	NewValue        *string                `json:"new_value,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// ThreadDetailDTO is a thread with its conversation and audit trail, both
// in chronological order.
type ThreadDetailDTO struct {
	ThreadDTO
	Messages []MessageDTO    `json:"messages"`
	Audit    []AuditEntryDTO `json:"audit"`
}

type StatusCountsDTO = feedback.StatusCounts

type ThreadListDTO struct {
	Items    []ThreadDTO     `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Stats    StatusCountsDTO `json:"stats"`
}

// MigrationOutcome is the per-record result of a legacy migration run.
type MigrationOutcome struct {
	LegacyID uint   `json:"legacy_id" yaml:"legacy_id"`
	Result   string `json:"result" yaml:"result"`
	ThreadID string `json:"thread_id,omitempty" yaml:"thread_id,omitempty"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

const (
	OutcomeMigrated = "migrated"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

type MigrationSummaryDTO struct {
	Migrated int                `json:"migrated"`
	Skipped  int                `json:"skipped"`
	Failed   int                `json:"failed"`
	Outcomes []MigrationOutcome `json:"outcomes"`
}

func ToThreadDTO(t *feedback.Thread) ThreadDTO {
	return ThreadDTO{
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
		LastMessageAt:  t.LastMessageAt(),
		MigratedFromV1: t.MigratedFromV1(),
		Deleted:        t.IsDeleted(),
		DeletedAt:      t.DeletedAt(),
		CreatedAt:      t.CreatedAt(),
		UpdatedAt:      t.UpdatedAt(),
	}
}

func ToThreadDTOList(threads []*feedback.Thread) []ThreadDTO {
	items := mapper.MapSlice(threads, ToThreadDTO)
	if items == nil {
		items = []ThreadDTO{}
	}
	return items
}

// ToMessageDTO maps a message; html is the pre-rendered, sanitized body.
func ToMessageDTO(m *feedback.Message, html string) MessageDTO {
	return MessageDTO{
		ID:          m.ID(),
		ThreadID:    m.ThreadID(),
		SenderID:    m.SenderID(),
		SenderRole:  m.SenderRole().String(),
		Message:     m.Body(),
		MessageHTML: html,
		CreatedAt:   m.CreatedAt(),
	}
}

func ToAuditEntryDTO(e *feedback.AuditEntry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:              e.ID(),
		ThreadID:        e.ThreadID(),
		Action:          e.Action().String(),
		PerformedBy:     e.PerformedBy(),
		PerformedByRole: e.PerformedByRole().String(),
		PreviousValue:   e.PreviousValue(),
		NewValue:        e.NewValue(),
		Metadata:        e.Metadata(),
		CreatedAt:       e.CreatedAt(),
	}
}

func ToAuditEntryDTOList(entries []*feedback.AuditEntry) []AuditEntryDTO {
	items := mapper.MapSlice(entries, ToAuditEntryDTO)
	if items == nil {
		items = []AuditEntryDTO{}
	}
	return items
}
