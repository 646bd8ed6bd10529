package models

import (
	"gorm.io/datatypes"

	"github.com/campushub/campushub/internal/shared/constants"
)

// FeedbackThreadModel stores timestamps as unix milliseconds.
type FeedbackThreadModel struct {
	ID             string  `gorm:"primaryKey;size:32"`
	Title          string  `gorm:"size:200;not null"`
	Type           string  `gorm:"size:20;not null;index"`
	Priority       string  `gorm:"size:10;not null;index"`
	Status         string  `gorm:"size:20;not null;index"`
	CreatedBy      string  `gorm:"size:64;not null;index"`
	CreatedByRole  string  `gorm:"size:20;not null;index"`
	TargetRole     string  `gorm:"size:20;not null"`
	TargetUserID   *string `gorm:"size:64;index"`
	MessageCount   int     `gorm:"not null;default:0"`
	LastMessageAt  int64   `gorm:"not null;index"`
	MigratedFromV1 bool    `gorm:"column:migrated_from_v1;not null;default:false"`
	Deleted        bool    `gorm:"not null;default:false;index"`
	DeletedAt      *int64
	DeletedBy      *string `gorm:"size:64"`
	CreatedAt      int64   `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt      int64   `gorm:"autoUpdateTime:milli;not null"`

	// Note: No foreign key constraints or associations.
	// Messages and audit entries reference threads by id only.
}

func (FeedbackThreadModel) TableName() string {
	return constants.TableFeedbackThreads
}

type FeedbackMessageModel struct {
	ID         uint   `gorm:"primaryKey"`
	ThreadID   string `gorm:"size:32;not null;index:idx_feedback_messages_thread_created,priority:1"`
	SenderID   string `gorm:"size:64;not null"`
	SenderRole string `gorm:"size:20;not null"`
	Body       string `gorm:"type:text;not null"`
	CreatedAt  int64  `gorm:"autoCreateTime:milli;not null;index:idx_feedback_messages_thread_created,priority:2"`
}

func (FeedbackMessageModel) TableName() string {
	return constants.TableFeedbackMessages
}

// FeedbackAuditEntryModel rows are append-only.
type FeedbackAuditEntryModel struct {
	ID              uint           `gorm:"primaryKey"`
	ThreadID        string         `gorm:"size:32;not null;index:idx_feedback_audit_thread_created,priority:1"`
	Action          string         `gorm:"size:32;not null"`
	PerformedBy     string         `gorm:"size:64;not null"`
	PerformedByRole string         `gorm:"size:20;not null"`
	PreviousValue   *string        `gorm:"size:32"`
	NewValue        *string        `gorm:"size:32"`
	Metadata        datatypes.JSON `gorm:"type:json"`
	CreatedAt       int64          `gorm:"autoCreateTime:milli;not null;index:idx_feedback_audit_thread_created,priority:2"`
}

func (FeedbackAuditEntryModel) TableName() string {
	return constants.TableFeedbackAudit
}

// LegacyFeedbackModel is the flat V1 feedback table.
type LegacyFeedbackModel struct {
	ID            uint    `gorm:"primaryKey"`
	UserID        string  `gorm:"size:64;not null"`
	UserRole      string  `gorm:"size:20;not null"`
	RecipientRole string  `gorm:"size:20;not null"`
	RecipientID   *string `gorm:"size:64"`
	Subject       *string `gorm:"size:255"`
	Body          string  `gorm:"type:text;not null"`
	Category      *string `gorm:"size:50"`
	Priority      *string `gorm:"size:20"`
	Status        *string `gorm:"size:20"`
	CreatedAt     int64   `gorm:"autoCreateTime:milli;not null"`
	Migrated      bool    `gorm:"not null;default:false;index"`
	MigratedTo    *string `gorm:"size:32"`
	MigratedAt    *int64
}

func (LegacyFeedbackModel) TableName() string {
	return constants.TableLegacyFeedback
}
