package feedback

import (
	"context"
	"time"

	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
)

type ThreadRepository interface {
	Create(ctx context.Context, thread *Thread) error
	// GetByID returns soft-deleted threads too; callers decide visibility.
	GetByID(ctx context.Context, threadID string) (*Thread, error)
	// GetByIDForUpdate locks the row for the rest of the enclosing transaction.
	GetByIDForUpdate(ctx context.Context, threadID string) (*Thread, error)
	Update(ctx context.Context, thread *Thread) error
	// IncrementMessageCount bumps message_count by one and sets last_message_at.
	IncrementMessageCount(ctx context.Context, threadID string, at time.Time) error
	List(ctx context.Context, filter ThreadFilter) ([]*Thread, int64, error)
	CountByStatus(ctx context.Context, scope Visibility) (StatusCounts, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ListByThreadID(ctx context.Context, threadID string) ([]*Message, error)
}

type AuditRepository interface {
	Append(ctx context.Context, entry *AuditEntry) error
	ListByThreadID(ctx context.Context, threadID string) ([]*AuditEntry, error)
}

type LegacyFeedbackRepository interface {
	// ListPending returns unmigrated records with id > afterID in id order.
	ListPending(ctx context.Context, afterID uint, limit int) ([]*LegacyFeedback, error)
	// Claim marks the record migrated if nobody else has; false means it was
	// already claimed.
	Claim(ctx context.Context, legacyID uint, threadID string, at time.Time) (bool, error)
	Create(ctx context.Context, record *LegacyFeedback) error
}

// Visibility restricts listings to what a requester may see.
type Visibility struct {
	All    bool
	UserID string
}

func VisibilityFor(r Requester) Visibility {
	if r.IsAdmin() {
		return Visibility{All: true}
	}
	return Visibility{UserID: r.UserID}
}

type ThreadFilter struct {
	Visibility    Visibility
	Status        *vo.ThreadStatus
	Priority      *vo.Priority
	Type          *vo.ThreadType
	CreatedByRole *vo.Role
	Search        string
	// IDs, when non-nil, restricts results to these thread ids (search index hits).
	IDs            []string
	IncludeDeleted bool
	Page           int
	PageSize       int
}

// StatusCounts is the per-status tally of a requester's visible threads.
type StatusCounts struct {
	Open           int64 `json:"open"`
	InReview       int64 `json:"in_review"`
	WaitingForUser int64 `json:"waiting_for_user"`
	Resolved       int64 `json:"resolved"`
	Closed         int64 `json:"closed"`
	Total          int64 `json:"total"`
}

func (c *StatusCounts) Add(status vo.ThreadStatus, n int64) {
	switch status {
	case vo.StatusOpen:
		c.Open += n
	case vo.StatusInReview:
		c.InReview += n
	case vo.StatusWaitingForUser:
		c.WaitingForUser += n
	case vo.StatusResolved:
		c.Resolved += n
	case vo.StatusClosed:
		c.Closed += n
	default:
		return
	}
	c.Total += n
}
