package feedback

import (
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/shared/biztime"
)

const MaxMessageLength = 2000

// Message is an immutable entry in a thread's conversation.
type Message struct {
	id         uint
	threadID   string
	senderID   string
	senderRole vo.Role
	body       string
	createdAt  time.Time
}

func NewMessage(threadID, senderID string, senderRole vo.Role, body string) (*Message, error) {
	return newMessageAt(threadID, senderID, senderRole, body, biztime.NowUTC())
}

func newMessageAt(threadID, senderID string, senderRole vo.Role, body string, at time.Time) (*Message, error) {
	if threadID == "" {
		return nil, invalid("thread_id", "is required")
	}
	if senderID == "" {
		return nil, invalid("sender_id", "is required")
	}
	if !senderRole.IsValid() {
		return nil, invalid("sender_role", "invalid role %q", senderRole)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, invalid("message", "is required")
	}
	if utf8.RuneCountInString(body) > MaxMessageLength {
		return nil, invalid("message", "exceeds maximum length of %d characters", MaxMessageLength)
	}

	return &Message{
		threadID:   threadID,
		senderID:   senderID,
		senderRole: senderRole,
		body:       body,
		createdAt:  at,
	}, nil
}

func ReconstructMessage(id uint, threadID, senderID string, senderRole vo.Role, body string, createdAt time.Time) (*Message, error) {
	if id == 0 {
		return nil, invalid("id", "message ID cannot be zero")
	}
	if threadID == "" {
		return nil, invalid("thread_id", "is required")
	}
	return &Message{
		id:         id,
		threadID:   threadID,
		senderID:   senderID,
		senderRole: senderRole,
		body:       body,
		createdAt:  createdAt,
	}, nil
}

func (m *Message) ID() uint {
	return m.id
}

func (m *Message) ThreadID() string {
	return m.threadID
}

func (m *Message) SenderID() string {
	return m.senderID
}

func (m *Message) SenderRole() vo.Role {
	return m.senderRole
}

func (m *Message) Body() string {
	return m.body
}

func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}

// SetID is called by the repository once the row is inserted.
func (m *Message) SetID(id uint) error {
	if m.id != 0 {
		return invalid("id", "message ID is already set")
	}
	if id == 0 {
		return invalid("id", "message ID cannot be zero")
	}
	m.id = id
	return nil
}
