package feedback

import (
	"time"

	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/shared/biztime"
)

const (
	EventThreadCreated         = "feedback.thread.created"
	EventThreadReplied         = "feedback.thread.replied"
	EventThreadStatusChanged   = "feedback.thread.status_changed"
	EventThreadPriorityChanged = "feedback.thread.priority_changed"
	EventThreadDeleted         = "feedback.thread.deleted"
	EventThreadRestored        = "feedback.thread.restored"
	EventThreadMigrated        = "feedback.thread.migrated"
)

// ThreadSnapshot is the thread state carried by events, taken after the change.
type ThreadSnapshot struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	CreatedBy     string    `json:"created_by"`
	CreatedByRole string    `json:"created_by_role"`
	TargetRole    string    `json:"target_role"`
	TargetUserID  *string   `json:"target_user_id,omitempty"`
	MessageCount  int       `json:"message_count"`
	Deleted       bool      `json:"deleted"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

func SnapshotOf(t *Thread) ThreadSnapshot {
	return ThreadSnapshot{
		ID:            t.id,
		Title:         t.title,
		Type:          t.threadType.String(),
		Status:        t.status.String(),
		Priority:      t.priority.String(),
		CreatedBy:     t.createdBy,
		CreatedByRole: t.createdByRole.String(),
		TargetRole:    t.targetRole.String(),
		TargetUserID:  t.targetUserID,
		MessageCount:  t.messageCount,
		Deleted:       t.deleted,
		LastMessageAt: t.lastMessageAt,
		CreatedAt:     t.createdAt,
	}
}

// ThreadEvent is published after a thread mutation commits.
type ThreadEvent struct {
	events.BaseEvent
	ActorID       string         `json:"actor_id"`
	ActorRole     string         `json:"actor_role"`
	Thread        ThreadSnapshot `json:"thread"`
	PreviousValue string         `json:"previous_value,omitempty"`
	NewValue      string         `json:"new_value,omitempty"`
}

func newThreadEvent(eventType string, t *Thread, actor Requester) ThreadEvent {
	return ThreadEvent{
		BaseEvent: events.NewBaseEvent(t.id, eventType, biztime.NowUTC()),
		ActorID:   actor.UserID,
		ActorRole: actor.Role.String(),
		Thread:    SnapshotOf(t),
	}
}

func NewThreadCreatedEvent(t *Thread, actor Requester) ThreadEvent {
	return newThreadEvent(EventThreadCreated, t, actor)
}

func NewThreadRepliedEvent(t *Thread, actor Requester) ThreadEvent {
	return newThreadEvent(EventThreadReplied, t, actor)
}

func NewThreadStatusChangedEvent(t *Thread, actor Requester, previous string) ThreadEvent {
	e := newThreadEvent(EventThreadStatusChanged, t, actor)
	e.PreviousValue, e.NewValue = previous, t.status.String()
	return e
}

func NewThreadPriorityChangedEvent(t *Thread, actor Requester, previous string) ThreadEvent {
	e := newThreadEvent(EventThreadPriorityChanged, t, actor)
	e.PreviousValue, e.NewValue = previous, t.priority.String()
	return e
}

func NewThreadDeletedEvent(t *Thread, actor Requester) ThreadEvent {
	return newThreadEvent(EventThreadDeleted, t, actor)
}

func NewThreadRestoredEvent(t *Thread, actor Requester) ThreadEvent {
	return newThreadEvent(EventThreadRestored, t, actor)
}

func NewThreadMigratedEvent(t *Thread, actor Requester) ThreadEvent {
	return newThreadEvent(EventThreadMigrated, t, actor)
}
