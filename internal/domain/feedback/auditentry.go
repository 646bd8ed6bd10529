package feedback

import (
	"time"

	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/shared/biztime"
)

// AuditEntry is an append-only record of a state-changing action on a thread.
type AuditEntry struct {
	id              uint
	threadID        string
	action          vo.AuditAction
	performedBy     string
	performedByRole vo.Role
	previousValue   *string
	newValue        *string
	metadata        map[string]interface{}
	createdAt       time.Time
}

func newAuditEntry(threadID string, action vo.AuditAction, actor Requester, at time.Time) *AuditEntry {
	return &AuditEntry{
		threadID:        threadID,
		action:          action,
		performedBy:     actor.UserID,
		performedByRole: actor.Role,
		createdAt:       at,
	}
}

func NewStatusChangedEntry(threadID string, actor Requester, previous, next vo.ThreadStatus) *AuditEntry {
	e := newAuditEntry(threadID, vo.ActionStatusChanged, actor, biztime.NowUTC())
	prev, nv := previous.String(), next.String()
	e.previousValue, e.newValue = &prev, &nv
	return e
}

func NewPriorityChangedEntry(threadID string, actor Requester, previous, next vo.Priority) *AuditEntry {
	e := newAuditEntry(threadID, vo.ActionPriorityChanged, actor, biztime.NowUTC())
	prev, nv := previous.String(), next.String()
	e.previousValue, e.newValue = &prev, &nv
	return e
}

func NewSoftDeletedEntry(threadID string, actor Requester) *AuditEntry {
	return newAuditEntry(threadID, vo.ActionSoftDeleted, actor, biztime.NowUTC())
}

func NewRestoredEntry(threadID string, actor Requester) *AuditEntry {
	return newAuditEntry(threadID, vo.ActionRestored, actor, biztime.NowUTC())
}

// NewMigratedEntry records the legacy record a thread was converted from.
func NewMigratedEntry(threadID string, actor Requester, legacyID uint) *AuditEntry {
	e := newAuditEntry(threadID, vo.ActionMigrated, actor, biztime.NowUTC())
	e.metadata = map[string]interface{}{"legacy_id": legacyID}
	return e
}

type ReconstructAuditEntryParams struct {
	ID              uint
	ThreadID        string
	Action          vo.AuditAction
	PerformedBy     string
	PerformedByRole vo.Role
	PreviousValue   *string
	NewValue        *string
	Metadata        map[string]interface{}
	CreatedAt       time.Time
}

func ReconstructAuditEntry(p ReconstructAuditEntryParams) (*AuditEntry, error) {
	if p.ID == 0 {
		return nil, invalid("id", "audit entry ID cannot be zero")
	}
	if !p.Action.IsValid() {
		return nil, invalid("action", "invalid audit action %q", p.Action)
	}
	return &AuditEntry{
		id:              p.ID,
		threadID:        p.ThreadID,
		action:          p.Action,
		performedBy:     p.PerformedBy,
		performedByRole: p.PerformedByRole,
		previousValue:   p.PreviousValue,
		newValue:        p.NewValue,
		metadata:        p.Metadata,
		createdAt:       p.CreatedAt,
	}, nil
}

func (e *AuditEntry) ID() uint {
	return e.id
}

func (e *AuditEntry) ThreadID() string {
	return e.threadID
}

func (e *AuditEntry) Action() vo.AuditAction {
	return e.action
}

func (e *AuditEntry) PerformedBy() string {
	return e.performedBy
}

func (e *AuditEntry) PerformedByRole() vo.Role {
	return e.performedByRole
}

func (e *AuditEntry) PreviousValue() *string {
	return e.previousValue
}

func (e *AuditEntry) NewValue() *string {
	return e.newValue
}

func (e *AuditEntry) Metadata() map[string]interface{} {
	if e.metadata == nil {
		return nil
	}
	out := make(map[string]interface{}, len(e.metadata))
	for k, v := range e.metadata {
		out[k] = v
	}
	return out
}

func (e *AuditEntry) CreatedAt() time.Time {
	return e.createdAt
}

func (e *AuditEntry) SetID(id uint) error {
	if e.id != 0 {
		return invalid("id", "audit entry ID is already set")
	}
	if id == 0 {
		return invalid("id", "audit entry ID cannot be zero")
	}
	e.id = id
	return nil
}
