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

type ChangeStatusCommand struct {
	Requester feedback.Requester
	ThreadID  string
	Status    string
}

type ChangeStatusResult struct {
	Thread         dto.ThreadDTO `json:"thread"`
	PreviousStatus string        `json:"previous_status"`
	Status         string        `json:"status"`
	Changed        bool          `json:"changed"`
}

type ChangeStatusUseCase struct {
	threadRepo  feedback.ThreadRepository
	auditRepo   feedback.AuditRepository
	txMgr       db.Transactor
	permissions PermissionChecker
	publisher   events.EventPublisher
	logger      logger.Interface
}

func NewChangeStatusUseCase(
	threadRepo feedback.ThreadRepository,
	auditRepo feedback.AuditRepository,
	txMgr db.Transactor,
	permissions PermissionChecker,
	publisher events.EventPublisher,
	logger logger.Interface,
) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{
		threadRepo:  threadRepo,
		auditRepo:   auditRepo,
		txMgr:       txMgr,
		permissions: permissions,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (*ChangeStatusResult, error) {
	uc.logger.Infow("executing change status use case", "thread_id", cmd.ThreadID, "new_status", cmd.Status)

	if err := authorize(uc.permissions, uc.logger, cmd.Requester, ActionUpdateStatus); err != nil {
		return nil, err
	}

	newStatus, err := uc.validateCommand(cmd)
	if err != nil {
		uc.logger.Warnw("invalid change status command", "error", err)
		return nil, err
	}

	var (
		thread   *feedback.Thread
		previous vo.ThreadStatus
		changed  bool
	)
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := loadMutableThread(txCtx, uc.threadRepo, cmd.Requester, cmd.ThreadID)
		if err != nil {
			return err
		}

		previous, changed, err = t.ChangeStatus(newStatus)
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
		entry := feedback.NewStatusChangedEntry(t.ID(), cmd.Requester, previous, newStatus)
		if err := uc.auditRepo.Append(txCtx, entry); err != nil {
			uc.logger.Errorw("failed to append audit entry", "thread_id", t.ID(), "error", err)
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, toAppError(txErr, "failed to change thread status")
	}

	if changed {
		publishEvents(uc.publisher, uc.logger, feedback.NewThreadStatusChangedEvent(thread, cmd.Requester, previous.String()))
		uc.logger.Infow("thread status changed successfully",
			"thread_id", thread.ID(),
			"old_status", previous,
			"new_status", newStatus,
		)
	}

	return &ChangeStatusResult{
		Thread:         dto.ToThreadDTO(thread),
		PreviousStatus: previous.String(),
		Status:         thread.Status().String(),
		Changed:        changed,
	}, nil
}

func (uc *ChangeStatusUseCase) validateCommand(cmd ChangeStatusCommand) (vo.ThreadStatus, error) {
	if cmd.ThreadID == "" {
		return "", errors.NewValidationError("thread ID is required")
	}
	status, err := vo.NewThreadStatus(cmd.Status)
	if err != nil {
		return "", errors.NewValidationError(err.Error(), "status")
	}
	return status, nil
}
