package feedback

import (
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/shared/biztime"
	"github.com/campushub/campushub/internal/shared/id"
)

const MaxTitleLength = 200

type Thread struct {
	id             string
	title          string
	threadType     vo.ThreadType
	priority       vo.Priority
	status         vo.ThreadStatus
	createdBy      string
	createdByRole  vo.Role
	targetRole     vo.TargetRole
	targetUserID   *string
	messageCount   int
	lastMessageAt  time.Time
	migratedFromV1 bool
	deleted        bool
	deletedAt      *time.Time
	deletedBy      *string
	createdAt      time.Time
	updatedAt      time.Time
}

// NewThreadParams carries the caller-controlled fields of a new thread.
// Empty Type and Priority fall back to their defaults.
type NewThreadParams struct {
	Title        string
	Type         vo.ThreadType
	Priority     vo.Priority
	CreatedBy    string
	CreatorRole  vo.Role
	TargetRole   vo.TargetRole
	TargetUserID *string
}

// NewThread validates params and builds an open thread with no messages yet.
func NewThread(p NewThreadParams) (*Thread, error) {
	return newThread(p, biztime.NowUTC(), false)
}

func newThread(p NewThreadParams, at time.Time, migrated bool) (*Thread, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, invalid("title", "exceeds maximum length of %d characters", MaxTitleLength)
	}

	threadType := p.Type
	if threadType == "" {
		threadType = vo.DefaultThreadType
	}
	if !threadType.IsValid() {
		return nil, invalid("type", "invalid thread type %q", p.Type)
	}

	priority := p.Priority
	if priority == "" {
		priority = vo.DefaultPriority
	}
	if !priority.IsValid() {
		return nil, invalid("priority", "invalid priority %q", p.Priority)
	}

	if p.CreatedBy == "" {
		return nil, invalid("created_by", "is required")
	}
	if !p.CreatorRole.CanAuthorThreads() {
		return nil, invalid("created_by_role", "role %q cannot create threads", p.CreatorRole)
	}

	targetUserID, err := validateTarget(p.TargetRole, p.TargetUserID)
	if err != nil {
		return nil, err
	}

	threadID, err := id.NewThreadID()
	if err != nil {
		return nil, err
	}

	return &Thread{
		id:             threadID,
		title:          title,
		threadType:     threadType,
		priority:       priority,
		status:         vo.StatusOpen,
		createdBy:      p.CreatedBy,
		createdByRole:  p.CreatorRole,
		targetRole:     p.TargetRole,
		targetUserID:   targetUserID,
		lastMessageAt:  at,
		migratedFromV1: migrated,
		createdAt:      at,
		updatedAt:      at,
	}, nil
}

// validateTarget enforces that a target user is present exactly when the
// thread is addressed to faculty.
func validateTarget(role vo.TargetRole, userID *string) (*string, error) {
	if !role.IsValid() {
		return nil, invalid("target_role", "invalid target role %q", role)
	}
	var trimmed string
	if userID != nil {
		trimmed = strings.TrimSpace(*userID)
	}
	if role.RequiresUser() {
		if trimmed == "" {
			return nil, invalid("target_user_id", "is required when target role is faculty")
		}
		return &trimmed, nil
	}
	if trimmed != "" {
		return nil, invalid("target_user_id", "must be empty when target role is admin")
	}
	return nil, nil
}

// ReconstructThreadParams mirrors a stored thread row.
type ReconstructThreadParams struct {
	ID             string
	Title          string
	Type           vo.ThreadType
	Priority       vo.Priority
	Status         vo.ThreadStatus
	CreatedBy      string
	CreatedByRole  vo.Role
	TargetRole     vo.TargetRole
	TargetUserID   *string
	MessageCount   int
	LastMessageAt  time.Time
	MigratedFromV1 bool
	Deleted        bool
	DeletedAt      *time.Time
	DeletedBy      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func ReconstructThread(p ReconstructThreadParams) (*Thread, error) {
	if p.ID == "" {
		return nil, invalid("id", "thread ID cannot be empty")
	}
	if !p.Type.IsValid() {
		return nil, invalid("type", "invalid thread type %q", p.Type)
	}
	if !p.Priority.IsValid() {
		return nil, invalid("priority", "invalid priority %q", p.Priority)
	}
	if !p.Status.IsValid() {
		return nil, invalid("status", "invalid status %q", p.Status)
	}
	targetUserID, err := validateTarget(p.TargetRole, p.TargetUserID)
	if err != nil {
		return nil, err
	}
	if p.MessageCount < 0 {
		return nil, invalid("message_count", "cannot be negative")
	}

	return &Thread{
		id:             p.ID,
		title:          p.Title,
		threadType:     p.Type,
		priority:       p.Priority,
		status:         p.Status,
		createdBy:      p.CreatedBy,
		createdByRole:  p.CreatedByRole,
		targetRole:     p.TargetRole,
		targetUserID:   targetUserID,
		messageCount:   p.MessageCount,
		lastMessageAt:  p.LastMessageAt,
		migratedFromV1: p.MigratedFromV1,
		deleted:        p.Deleted,
		deletedAt:      p.DeletedAt,
		deletedBy:      p.DeletedBy,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}, nil
}

func (t *Thread) ID() string {
	return t.id
}

func (t *Thread) Title() string {
	return t.title
}

func (t *Thread) Type() vo.ThreadType {
	return t.threadType
}

func (t *Thread) Priority() vo.Priority {
	return t.priority
}

func (t *Thread) Status() vo.ThreadStatus {
	return t.status
}

func (t *Thread) CreatedBy() string {
	return t.createdBy
}

func (t *Thread) CreatedByRole() vo.Role {
	return t.createdByRole
}

func (t *Thread) TargetRole() vo.TargetRole {
	return t.targetRole
}

func (t *Thread) TargetUserID() *string {
	return t.targetUserID
}

func (t *Thread) MessageCount() int {
	return t.messageCount
}

func (t *Thread) LastMessageAt() time.Time {
	return t.lastMessageAt
}

func (t *Thread) MigratedFromV1() bool {
	return t.migratedFromV1
}

func (t *Thread) IsDeleted() bool {
	return t.deleted
}

func (t *Thread) DeletedAt() *time.Time {
	return t.deletedAt
}

func (t *Thread) DeletedBy() *string {
	return t.deletedBy
}

func (t *Thread) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Thread) UpdatedAt() time.Time {
	return t.updatedAt
}

// IsVisibleTo reports whether r may see the thread at all. Admins see every
// thread; everyone else only threads they created or that target them.
func (t *Thread) IsVisibleTo(r Requester) bool {
	if r.IsAdmin() {
		return true
	}
	if t.createdBy == r.UserID {
		return true
	}
	return t.targetUserID != nil && *t.targetUserID == r.UserID
}

// ChangeStatus moves the thread to status and returns the value it replaced.
// Setting the current status reports changed=false and leaves the thread untouched.
func (t *Thread) ChangeStatus(status vo.ThreadStatus) (previous vo.ThreadStatus, changed bool, err error) {
	if !status.IsValid() {
		return "", false, invalid("status", "invalid status %q", status)
	}
	if t.deleted {
		return "", false, ErrThreadDeleted
	}
	if t.status == status {
		return t.status, false, nil
	}
	if !t.status.CanTransitionTo(status) {
		return "", false, invalid("status", "cannot transition from %s to %s", t.status, status)
	}

	previous = t.status
	t.status = status
	t.updatedAt = biztime.NowUTC()
	return previous, true, nil
}

// ChangePriority mirrors ChangeStatus for priority.
func (t *Thread) ChangePriority(priority vo.Priority) (previous vo.Priority, changed bool, err error) {
	if !priority.IsValid() {
		return "", false, invalid("priority", "invalid priority %q", priority)
	}
	if t.deleted {
		return "", false, ErrThreadDeleted
	}
	if t.priority == priority {
		return t.priority, false, nil
	}

	previous = t.priority
	t.priority = priority
	t.updatedAt = biztime.NowUTC()
	return previous, true, nil
}

// RecordMessage accounts for a message appended to the thread.
func (t *Thread) RecordMessage(m *Message) error {
	if t.deleted {
		return ErrThreadDeleted
	}
	if m == nil || m.ThreadID() != t.id {
		return invalid("thread_id", "message does not belong to thread %s", t.id)
	}
	t.messageCount++
	t.lastMessageAt = m.CreatedAt()
	t.updatedAt = m.CreatedAt()
	return nil
}

func (t *Thread) SoftDelete(deletedBy string) error {
	if t.deleted {
		return ErrThreadAlreadyDeleted
	}
	now := biztime.NowUTC()
	t.deleted = true
	t.deletedAt = &now
	t.deletedBy = &deletedBy
	t.updatedAt = now
	return nil
}

func (t *Thread) Restore() error {
	if !t.deleted {
		return ErrThreadNotDeleted
	}
	t.deleted = false
	t.deletedAt = nil
	t.deletedBy = nil
	t.updatedAt = biztime.NowUTC()
	return nil
}
