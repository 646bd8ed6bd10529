package usecases

import (
	"context"

	"github.com/campushub/campushub/internal/application/feedback/dto"
	"github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/shared/db"
	"github.com/campushub/campushub/internal/shared/errors"
	"github.com/campushub/campushub/internal/shared/logger"
)

type ChangePriorityCommand struct {
	Requester feedback.Requester
	ThreadID  string
	Priority  string
}

type ChangePriorityResult struct {
	Thread           dto.ThreadDTO `json:"thread"`
	PreviousPriority string        `json:"previous_priority"`
	Priority         string        `json:"priority"`
	Changed          bool          `json:"changed"`
}

type ChangePriorityUseCase struct {
	threadRepo  feedback.ThreadRepository
	auditRepo   feedback.AuditRepository
	txMgr       db.Transactor
	permissions PermissionChecker
	publisher   events.EventPublisher
	logger      logger.Interface
}

func NewChangePriorityUseCase(
	threadRepo feedback.ThreadRepository,
	auditRepo feedback.AuditRepository,
	txMgr db.Transactor,
	permissions PermissionChecker,
	publisher events.EventPublisher,
	logger logger.Interface,
) *ChangePriorityUseCase {
	return &ChangePriorityUseCase{
		threadRepo:  threadRepo,
		auditRepo:   auditRepo,
		txMgr:       txMgr,
		permissions: permissions,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *ChangePriorityUseCase) Execute(ctx context.Context, cmd ChangePriorityCommand) (*ChangePriorityResult, error) {
	uc.logger.Infow("executing change priority use case", "thread_id", cmd.ThreadID, "new_priority", cmd.Priority)

	if err := authorize(uc.permissions, uc.logger, cmd.Requester, ActionUpdatePriority); err != nil {
		return nil, err
	}

	if cmd.ThreadID == "" {
		return nil, errors.NewValidationError("thread ID is required")
	}
	newPriority, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return nil, errors.NewValidationError(err.Error(), "priority")
	}

	var (
		thread   *feedback.Thread
		previous vo.Priority
		changed  bool
	)
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := loadMutableThread(txCtx, uc.threadRepo, cmd.Requester, cmd.ThreadID)
		if err != nil {
			return err
		}

		previous, changed, err = t.ChangePriority(newPriority)
		if err != nil {
			return err
		}
		thread = t
		if !changed {
			return nil
		}

		if err := uc.threadRepo.Update(txCtx, t); err != nil {
			uc.logger.Errorw("failed to update thread", "thread_id", t.ID(), "error", err)
			return err
		}
		entry := feedback.NewPriorityChangedEntry(t.ID(), cmd.Requester, previous, newPriority)
		if err := uc.auditRepo.Append(txCtx, entry); err != nil {
			uc.logger.Errorw("failed to append audit entry", "thread_id", t.ID(), "error", err)
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, toAppError(txErr, "failed to change thread priority")
	}

	if changed {
		publishEvents(uc.publisher, uc.logger, feedback.NewThreadPriorityChangedEvent(thread, cmd.Requester, previous.String()))
		uc.logger.Infow("thread priority changed successfully",
			"thread_id", thread.ID(),
			"old_priority", previous,
			"new_priority", newPriority,
		)
	}

	return &ChangePriorityResult{
		Thread:           dto.ToThreadDTO(thread),
		PreviousPriority: previous.String(),
		Priority:         thread.Priority().String(),
		Changed:          changed,
	}, nil
}
