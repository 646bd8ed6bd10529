package feedback

import (
	"encoding/json"
	"time"
)

// Roles.
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// Thread statuses. Any status may follow any other.
const (
	StatusOpen           = "open"
	StatusInReview       = "in_review"
	StatusWaitingForUser = "waiting_for_user"
	StatusResolved       = "resolved"
	StatusClosed         = "closed"
)

// Thread priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Thread types.
const (
	TypeGeneral    = "general"
	TypeAcademic   = "academic"
	TypeTechnical  = "technical"
	TypeComplaint  = "complaint"
	TypeSuggestion = "suggestion"
)

// Thread is a feedback conversation as returned by the API.
type Thread struct {
	ID             string     `json:"id" validate:"required"`
	Title          string     `json:"title" validate:"required"`
	Type           string     `json:"type" validate:"oneof=general academic technical complaint suggestion"`
	Priority       string     `json:"priority" validate:"oneof=low medium high"`
	Status         string     `json:"status" validate:"oneof=open in_review waiting_for_user resolved closed"`
	CreatedBy      string     `json:"created_by" validate:"required"`
	CreatedByRole  string     `json:"created_by_role" validate:"oneof=student faculty admin"`
	TargetRole     string     `json:"target_role" validate:"oneof=admin faculty"`
	TargetUserID   *string    `json:"target_user_id"`
	MessageCount   int        `json:"message_count" validate:"gte=0"`
	LastMessageAt  time.Time  `json:"last_message_at"`
	MigratedFromV1 bool       `json:"migrated_from_v1"`
	Deleted        bool       `json:"deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Message is one entry of a thread's conversation.
type Message struct {
	ID          uint      `json:"id" validate:"required"`
	ThreadID    string    `json:"thread_id" validate:"required"`
	SenderID    string    `json:"sender_id" validate:"required"`
	SenderRole  string    `json:"sender_role" validate:"oneof=student faculty admin"`
	Message     string    `json:"message" validate:"required"`
	MessageHTML string    `json:"message_html"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditEntry records one administrative change to a thread.
type AuditEntry struct {
	ID              uint                   `json:"id" validate:"required"`
	ThreadID        string                 `json:"thread_id" validate:"required"`
	Action          string                 `json:"action" validate:"oneof=status_changed priority_changed soft_deleted restored migrated"`
	PerformedBy     string                 `json:"performed_by" validate:"required"`
	PerformedByRole string                 `json:"performed_by_role" validate:"oneof=student faculty admin"`
	PreviousValue   *string                `json:"previous_value,omitempty"`
	NewValue        *string                `json:"new_value,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// ThreadDetail is a thread with its messages and audit trail in
// chronological order.
type ThreadDetail struct {
	Thread
	Messages []Message    `json:"messages" validate:"dive"`
	Audit    []AuditEntry `json:"audit" validate:"dive"`
}

// StatusCounts are per-status totals over the caller's visible threads.
type StatusCounts struct {
	Open           int64 `json:"open" validate:"gte=0"`
	InReview       int64 `json:"in_review" validate:"gte=0"`
	WaitingForUser int64 `json:"waiting_for_user" validate:"gte=0"`
	Resolved       int64 `json:"resolved" validate:"gte=0"`
	Closed         int64 `json:"closed" validate:"gte=0"`
	Total          int64 `json:"total" validate:"gte=0"`
}

// ThreadList is one page of threads plus the caller's status counts.
type ThreadList struct {
	Items      []Thread     `json:"items" validate:"dive"`
	Total      int64        `json:"total" validate:"gte=0"`
	Page       int          `json:"page" validate:"gte=1"`
	PageSize   int          `json:"page_size" validate:"gte=1"`
	TotalPages int          `json:"total_pages" validate:"gte=0"`
	Stats      StatusCounts `json:"stats"`
}

// ListOptions filters ListThreads. Zero values are omitted from the query.
type ListOptions struct {
	Status         string
	Priority       string
	Type           string
	CreatedByRole  string
	Search         string
	IncludeDeleted bool
	Page           int
	PageSize       int
}

// CreateThreadInput opens a thread with its first message.
type CreateThreadInput struct {
	Title        string  `json:"title"`
	TargetRole   string  `json:"target_role"`
	TargetUserID *string `json:"target_user_id,omitempty"`
	Type         string  `json:"type,omitempty"`
	Priority     string  `json:"priority,omitempty"`
	Message      string  `json:"message"`
}

// ReplyResult is the updated thread and the stored message.
type ReplyResult struct {
	Thread  Thread  `json:"thread"`
	Message Message `json:"message"`
}

// StatusChange reports a status update. Changed is false when the thread
// already had the requested status.
type StatusChange struct {
	Thread         Thread `json:"thread"`
	PreviousStatus string `json:"previous_status" validate:"required"`
	Status         string `json:"status" validate:"required"`
	Changed        bool   `json:"changed"`
}

// PriorityChange reports a priority update.
type PriorityChange struct {
	Thread           Thread `json:"thread"`
	PreviousPriority string `json:"previous_priority" validate:"required"`
	Priority         string `json:"priority" validate:"required"`
	Changed          bool   `json:"changed"`
}

// MigrationOutcome is the result for one legacy record.
type MigrationOutcome struct {
	LegacyID uint   `json:"legacy_id" validate:"required"`
	Result   string `json:"result" validate:"oneof=migrated skipped failed"`
	ThreadID string `json:"thread_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// MigrationSummary totals a legacy migration run.
type MigrationSummary struct {
	Migrated int                `json:"migrated" validate:"gte=0"`
	Skipped  int                `json:"skipped" validate:"gte=0"`
	Failed   int                `json:"failed" validate:"gte=0"`
	Outcomes []MigrationOutcome `json:"outcomes" validate:"dive"`
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *apiErrorBody   `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Stats   json.RawMessage `json:"stats,omitempty"`
}

type apiErrorBody struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}
