package feedback

import (
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
)

// LegacyTitleLength bounds titles derived from a legacy body.
const LegacyTitleLength = 80

// LegacyFeedback is a flat V1 feedback record awaiting conversion into a thread.
type LegacyFeedback struct {
	ID            uint
	UserID        string
	UserRole      string
	RecipientRole string
	RecipientID   *string
	Subject       *string
	Body          string
	Category      *string
	Priority      *string
	Status        *string
	CreatedAt     time.Time
	Migrated      bool
	MigratedTo    *string
	MigratedAt    *time.Time
}

var legacyCategories = map[string]vo.ThreadType{
	"general":    vo.TypeGeneral,
	"academic":   vo.TypeAcademic,
	"academics":  vo.TypeAcademic,
	"technical":  vo.TypeTechnical,
	"it":         vo.TypeTechnical,
	"complaint":  vo.TypeComplaint,
	"suggestion": vo.TypeSuggestion,
	"idea":       vo.TypeSuggestion,
}

var legacyStatuses = map[string]vo.ThreadStatus{
	"pending":     vo.StatusOpen,
	"open":        vo.StatusOpen,
	"reviewed":    vo.StatusInReview,
	"in_progress": vo.StatusInReview,
	"resolved":    vo.StatusResolved,
	"closed":      vo.StatusClosed,
}

func normalizeTag(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*s))
}

// MapLegacyCategory maps a free-form V1 category; unknown values become general.
func MapLegacyCategory(category *string) vo.ThreadType {
	if t, ok := legacyCategories[normalizeTag(category)]; ok {
		return t
	}
	return vo.TypeGeneral
}

// MapLegacyPriority maps a V1 priority; unknown values become medium.
func MapLegacyPriority(priority *string) vo.Priority {
	p := vo.Priority(normalizeTag(priority))
	if p.IsValid() {
		return p
	}
	return vo.PriorityMedium
}

// MapLegacyStatus maps a V1 status tag; unknown values become open.
func MapLegacyStatus(status *string) vo.ThreadStatus {
	if s, ok := legacyStatuses[normalizeTag(status)]; ok {
		return s
	}
	return vo.StatusOpen
}

// LegacyTitle is the subject when present, otherwise the first
// LegacyTitleLength characters of the body.
func (l *LegacyFeedback) LegacyTitle() string {
	if l.Subject != nil {
		if s := strings.TrimSpace(*l.Subject); s != "" {
			return truncateRunes(s, MaxTitleLength)
		}
	}
	return truncateRunes(strings.TrimSpace(l.Body), LegacyTitleLength)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

// Convert builds the thread, its seed message and the migration audit entry.
// Author and timestamps of the legacy record are preserved.
func (l *LegacyFeedback) Convert(actor Requester) (*Thread, *Message, *AuditEntry, error) {
	role, err := vo.NewRole(strings.ToLower(strings.TrimSpace(l.UserRole)))
	if err != nil {
		return nil, nil, nil, invalid("user_role", "%v", err)
	}
	target, err := vo.NewTargetRole(strings.ToLower(strings.TrimSpace(l.RecipientRole)))
	if err != nil {
		return nil, nil, nil, invalid("recipient_role", "%v", err)
	}

	recipient := l.RecipientID
	if !target.RequiresUser() {
		// V1 stored the admin mailbox id here; admin threads carry no target user.
		recipient = nil
	}

	at := l.CreatedAt.UTC()
	thread, err := newThread(NewThreadParams{
		Title:        l.LegacyTitle(),
		Type:         MapLegacyCategory(l.Category),
		Priority:     MapLegacyPriority(l.Priority),
		CreatedBy:    l.UserID,
		CreatorRole:  role,
		TargetRole:   target,
		TargetUserID: recipient,
	}, at, true)
	if err != nil {
		return nil, nil, nil, err
	}
	thread.status = MapLegacyStatus(l.Status)

	msg, err := newMessageAt(thread.id, l.UserID, role, l.Body, at)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := thread.RecordMessage(msg); err != nil {
		return nil, nil, nil, err
	}

	return thread, msg, NewMigratedEntry(thread.id, actor, l.ID), nil
}
