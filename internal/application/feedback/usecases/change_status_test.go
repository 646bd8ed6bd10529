package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	apperrors "github.com/campushub/campushub/internal/shared/errors"
)

func TestChangeStatusUseCase_Execute_Success(t *testing.T) {
	tests := []struct {
		name      string
		oldStatus vo.ThreadStatus
		newStatus string
	}{
		{name: "open to in_review", oldStatus: vo.StatusOpen, newStatus: "in_review"},
		{name: "skip straight to closed", oldStatus: vo.StatusOpen, newStatus: "closed"},
		{name: "reopen closed thread", oldStatus: vo.StatusClosed, newStatus: "open"},
		{name: "waiting back to review", oldStatus: vo.StatusWaitingForUser, newStatus: "in_review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := newStoredThread(tt.oldStatus, false)
			updates := 0
			threads := &mockThreadRepository{
				GetByIDForUpdateFunc: func(context.Context, string) (*feedback.Thread, error) { return stored, nil },
				UpdateFunc: func(context.Context, *feedback.Thread) error {
					updates++
					return nil
				},
			}
			audit := &mockAuditRepository{}
			pub := &mockPublisher{}

			uc := NewChangeStatusUseCase(threads, audit, &mockTransactor{}, &mockPermissionChecker{}, pub, &mockLogger{})
			result, err := uc.Execute(context.Background(), ChangeStatusCommand{
				Requester: admin,
				ThreadID:  stored.ID(),
				Status:    tt.newStatus,
			})

			require.NoError(t, err)
			assert.True(t, result.Changed)
			assert.Equal(t, tt.oldStatus.String(), result.PreviousStatus)
			assert.Equal(t, tt.newStatus, result.Status)
			assert.Equal(t, 1, updates)

			entries := audit.appended()
			require.Len(t, entries, 1)
			assert.Equal(t, vo.ActionStatusChanged, entries[0].Action())
			assert.Equal(t, tt.oldStatus.String(), *entries[0].PreviousValue())
			assert.Equal(t, tt.newStatus, *entries[0].NewValue())
			assert.Equal(t, "A1", entries[0].PerformedBy())
			assert.Equal(t, []string{feedback.EventThreadStatusChanged}, pub.types())
		})
	}
}

func TestChangeStatusUseCase_Execute_SameStatusIsNoop(t *testing.T) {
	stored := newStoredThread(vo.StatusResolved, false)
	threads := &mockThreadRepository{
		GetByIDForUpdateFunc: func(context.Context, string) (*feedback.Thread, error) { return stored, nil },
		UpdateFunc: func(context.Context, *feedback.Thread) error {
			t.Fatal("no-op must not write")
			return nil
		},
	}
	audit := &mockAuditRepository{}
	pub := &mockPublisher{}

	uc := NewChangeStatusUseCase(threads, audit, &mockTransactor{}, &mockPermissionChecker{}, pub, &mockLogger{})
	result, err := uc.Execute(context.Background(), ChangeStatusCommand{Requester: admin, ThreadID: stored.ID(), Status: "resolved"})

	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Empty(t, audit.appended())
	assert.Empty(t, pub.types())
}

func TestChangeStatusUseCase_Execute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		requester feedback.Requester
		status    string
		stored    *feedback.Thread
		loadErr   error
		auditErr  error
		check     func(error) bool
	}{
		{name: "student is forbidden", requester: student, status: "closed", check: apperrors.IsForbiddenError},
		{name: "faculty is forbidden even as target", requester: faculty, status: "closed", check: apperrors.IsForbiddenError},
		{name: "unknown status", requester: admin, status: "archived", check: apperrors.IsValidationError},
		{name: "missing thread", requester: admin, status: "closed", loadErr: feedback.ErrThreadNotFound, check: apperrors.IsNotFoundError},
		{name: "deleted thread", requester: admin, status: "closed", stored: newStoredThread(vo.StatusOpen, true), check: apperrors.IsConflictError},
		{name: "audit failure rolls back", requester: admin, status: "closed", auditErr: errors.New("boom"), check: func(err error) bool {
			return apperrors.GetAppError(err).Type == apperrors.ErrorTypeInternal
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := tt.stored
			if stored == nil {
				stored = newStoredThread(vo.StatusOpen, false)
			}
			threads := &mockThreadRepository{
				GetByIDForUpdateFunc: func(context.Context, string) (*feedback.Thread, error) {
					if tt.loadErr != nil {
						return nil, tt.loadErr
					}
					return stored, nil
				},
			}
			audit := &mockAuditRepository{AppendFunc: func(context.Context, *feedback.AuditEntry) error { return tt.auditErr }}
			pub := &mockPublisher{}

			uc := NewChangeStatusUseCase(threads, audit, &mockTransactor{}, &mockPermissionChecker{}, pub, &mockLogger{})
			_, err := uc.Execute(context.Background(), ChangeStatusCommand{Requester: tt.requester, ThreadID: "fbt_test00000001", Status: tt.status})

			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error %v", err)
			assert.Empty(t, pub.types())
		})
	}
}

func TestChangePriorityUseCase_Execute(t *testing.T) {
	stored := newStoredThread(vo.StatusInReview, false)
	threads := &mockThreadRepository{
		GetByIDForUpdateFunc: func(context.Context, string) (*feedback.Thread, error) { return stored, nil },
	}
	audit := &mockAuditRepository{}
	pub := &mockPublisher{}
	uc := NewChangePriorityUseCase(threads, audit, &mockTransactor{}, &mockPermissionChecker{}, pub, &mockLogger{})

	result, err := uc.Execute(context.Background(), ChangePriorityCommand{Requester: admin, ThreadID: stored.ID(), Priority: "high"})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, "medium", result.PreviousPriority)
	assert.Equal(t, "high", result.Priority)
	assert.Equal(t, "in_review", result.Thread.Status, "priority is independent of status")

	result, err = uc.Execute(context.Background(), ChangePriorityCommand{Requester: admin, ThreadID: stored.ID(), Priority: "high"})
	require.NoError(t, err)
	assert.False(t, result.Changed)

	entries := audit.appended()
	require.Len(t, entries, 1)
	assert.Equal(t, vo.ActionPriorityChanged, entries[0].Action())
	assert.Equal(t, "medium", *entries[0].PreviousValue())

	_, err = uc.Execute(context.Background(), ChangePriorityCommand{Requester: admin, ThreadID: stored.ID(), Priority: "urgent"})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), ChangePriorityCommand{Requester: faculty, ThreadID: stored.ID(), Priority: "low"})
	assert.True(t, apperrors.IsForbiddenError(err))
}
