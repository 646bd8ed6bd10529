package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/shared/logger"
)

type mockThreadRepository struct {
	CreateFunc                func(ctx context.Context, t *feedback.Thread) error
	GetByIDFunc               func(ctx context.Context, threadID string) (*feedback.Thread, error)
	GetByIDForUpdateFunc      func(ctx context.Context, threadID string) (*feedback.Thread, error)
	UpdateFunc                func(ctx context.Context, t *feedback.Thread) error
	IncrementMessageCountFunc func(ctx context.Context, threadID string, at time.Time) error
	ListFunc                  func(ctx context.Context, filter feedback.ThreadFilter) ([]*feedback.Thread, int64, error)
	CountByStatusFunc         func(ctx context.Context, scope feedback.Visibility) (feedback.StatusCounts, error)
}

func (m *mockThreadRepository) Create(ctx context.Context, t *feedback.Thread) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return nil
}

func (m *mockThreadRepository) GetByID(ctx context.Context, threadID string) (*feedback.Thread, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, threadID)
	}
	return nil, feedback.ErrThreadNotFound
}

func (m *mockThreadRepository) GetByIDForUpdate(ctx context.Context, threadID string) (*feedback.Thread, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, threadID)
	}
	return m.GetByID(ctx, threadID)
}

func (m *mockThreadRepository) Update(ctx context.Context, t *feedback.Thread) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

func (m *mockThreadRepository) IncrementMessageCount(ctx context.Context, threadID string, at time.Time) error {
	if m.IncrementMessageCountFunc != nil {
		return m.IncrementMessageCountFunc(ctx, threadID, at)
	}
	return nil
}

func (m *mockThreadRepository) List(ctx context.Context, filter feedback.ThreadFilter) ([]*feedback.Thread, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockThreadRepository) CountByStatus(ctx context.Context, scope feedback.Visibility) (feedback.StatusCounts, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, scope)
	}
	return feedback.StatusCounts{}, nil
}

type mockMessageRepository struct {
	CreateFunc         func(ctx context.Context, m *feedback.Message) error
	ListByThreadIDFunc func(ctx context.Context, threadID string) ([]*feedback.Message, error)
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *feedback.Message) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, msg)
	}
	return nil
}

func (m *mockMessageRepository) ListByThreadID(ctx context.Context, threadID string) ([]*feedback.Message, error) {
	if m.ListByThreadIDFunc != nil {
		return m.ListByThreadIDFunc(ctx, threadID)
	}
	return nil, nil
}

type mockAuditRepository struct {
	mu      sync.Mutex
	entries []*feedback.AuditEntry

	AppendFunc         func(ctx context.Context, e *feedback.AuditEntry) error
	ListByThreadIDFunc func(ctx context.Context, threadID string) ([]*feedback.AuditEntry, error)
}

func (m *mockAuditRepository) Append(ctx context.Context, e *feedback.AuditEntry) error {
	if m.AppendFunc != nil {
		if err := m.AppendFunc(ctx, e); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockAuditRepository) ListByThreadID(ctx context.Context, threadID string) ([]*feedback.AuditEntry, error) {
	if m.ListByThreadIDFunc != nil {
		return m.ListByThreadIDFunc(ctx, threadID)
	}
	return nil, nil
}

func (m *mockAuditRepository) appended() []*feedback.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*feedback.AuditEntry(nil), m.entries...)
}

type mockLegacyRepository struct {
	ListPendingFunc func(ctx context.Context, afterID uint, limit int) ([]*feedback.LegacyFeedback, error)
	ClaimFunc       func(ctx context.Context, legacyID uint, threadID string, at time.Time) (bool, error)
	CreateFunc      func(ctx context.Context, record *feedback.LegacyFeedback) error
}

func (m *mockLegacyRepository) ListPending(ctx context.Context, afterID uint, limit int) ([]*feedback.LegacyFeedback, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx, afterID, limit)
	}
	return nil, nil
}

func (m *mockLegacyRepository) Claim(ctx context.Context, legacyID uint, threadID string, at time.Time) (bool, error) {
	if m.ClaimFunc != nil {
		return m.ClaimFunc(ctx, legacyID, threadID, at)
	}
	return true, nil
}

func (m *mockLegacyRepository) Create(ctx context.Context, record *feedback.LegacyFeedback) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, record)
	}
	return nil
}

// mockTransactor runs fn directly; RunInTransactionFunc can inject failures.
type mockTransactor struct {
	calls                int
	RunInTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.RunInTransactionFunc != nil {
		return m.RunInTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockPermissionChecker struct {
	EnforceFunc func(role, action string) (bool, error)
}

func (m *mockPermissionChecker) Enforce(role, action string) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(role, action)
	}
	return StaticPermissionChecker{}.Enforce(role, action)
}

type mockPublisher struct {
	mu        sync.Mutex
	published []events.DomainEvent

	PublishFunc func(event events.DomainEvent) error
}

func (m *mockPublisher) Publish(event events.DomainEvent) error {
	if m.PublishFunc != nil {
		if err := m.PublishFunc(event); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	return nil
}

func (m *mockPublisher) PublishAll(evts []events.DomainEvent) error {
	for _, e := range evts {
		if err := m.Publish(e); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.published))
	for _, e := range m.published {
		out = append(out, e.GetEventType())
	}
	return out
}

type mockRenderer struct {
	ToHTMLSanitizedFunc func(markdown string) (string, error)
}

func (m *mockRenderer) ToHTMLSanitized(markdown string) (string, error) {
	if m.ToHTMLSanitizedFunc != nil {
		return m.ToHTMLSanitizedFunc(markdown)
	}
	return "<p>" + markdown + "</p>", nil
}

type mockSearcher struct {
	SearchThreadIDsFunc func(ctx context.Context, query string, limit int) ([]string, error)
}

func (m *mockSearcher) SearchThreadIDs(ctx context.Context, query string, limit int) ([]string, error) {
	if m.SearchThreadIDsFunc != nil {
		return m.SearchThreadIDsFunc(ctx, query, limit)
	}
	return nil, nil
}

type mockLogger struct {
	InfowFunc  func(msg string, keysAndValues ...interface{})
	ErrorwFunc func(msg string, keysAndValues ...interface{})
	WarnwFunc  func(msg string, keysAndValues ...interface{})
}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any)  {}
func (m *mockLogger) Warn(msg string, args ...any)  {}
func (m *mockLogger) Error(msg string, args ...any) {}
func (m *mockLogger) Fatal(msg string, args ...any) {}

func (m *mockLogger) With(args ...any) logger.Interface  { return m }
func (m *mockLogger) Named(name string) logger.Interface { return m }

func (m *mockLogger) Infow(msg string, keysAndValues ...interface{}) {
	if m.InfowFunc != nil {
		m.InfowFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {
	if m.ErrorwFunc != nil {
		m.ErrorwFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{}) {
	if m.WarnwFunc != nil {
		m.WarnwFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

var (
	student  = feedback.Requester{UserID: "S1", Role: vo.RoleStudent}
	faculty  = feedback.Requester{UserID: "F1", Role: vo.RoleFaculty}
	admin    = feedback.Requester{UserID: "A1", Role: vo.RoleAdmin}
	outsider = feedback.Requester{UserID: "S2", Role: vo.RoleStudent}
)

func strPtr(s string) *string { return &s }

// newStoredThread builds a thread the way a repository would return it.
func newStoredThread(status vo.ThreadStatus, deleted bool) *feedback.Thread {
	now := time.Now().UTC().Add(-time.Hour)
	var deletedAt *time.Time
	var deletedBy *string
	if deleted {
		deletedAt, deletedBy = &now, strPtr("A1")
	}
	t, err := feedback.ReconstructThread(feedback.ReconstructThreadParams{
		ID:            "fbt_test00000001",
		Title:         "Wifi issue",
		Type:          vo.TypeTechnical,
		Priority:      vo.PriorityMedium,
		Status:        status,
		CreatedBy:     "S1",
		CreatedByRole: vo.RoleStudent,
		TargetRole:    vo.TargetFaculty,
		TargetUserID:  strPtr("F1"),
		MessageCount:  1,
		LastMessageAt: now,
		Deleted:       deleted,
		DeletedAt:     deletedAt,
		DeletedBy:     deletedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		panic(err)
	}
	return t
}
