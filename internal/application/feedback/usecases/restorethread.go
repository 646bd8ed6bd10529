package usecases

import (
	"context"

	"github.com/campushub/campushub/internal/application/feedback/dto"
	"github.com/campushub/campushub/internal/domain/feedback"
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/shared/db"
	"github.com/campushub/campushub/internal/shared/errors"
	"github.com/campushub/campushub/internal/shared/logger"
)

type RestoreThreadCommand struct {
	Requester feedback.Requester
	ThreadID  string
}

type RestoreThreadUseCase struct {
	threadRepo  feedback.ThreadRepository
	auditRepo   feedback.AuditRepository
	txMgr       db.Transactor
	permissions PermissionChecker
	publisher   events.EventPublisher
	logger      logger.Interface
}

func NewRestoreThreadUseCase(
	threadRepo feedback.ThreadRepository,
	auditRepo feedback.AuditRepository,
	txMgr db.Transactor,
	permissions PermissionChecker,
	publisher events.EventPublisher,
	logger logger.Interface,
) *RestoreThreadUseCase {
	return &RestoreThreadUseCase{
		threadRepo:  threadRepo,
		auditRepo:   auditRepo,
		txMgr:       txMgr,
		permissions: permissions,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *RestoreThreadUseCase) Execute(ctx context.Context, cmd RestoreThreadCommand) (*dto.ThreadDTO, error) {
	uc.logger.Infow("executing restore thread use case", "thread_id", cmd.ThreadID, "user_id", cmd.Requester.UserID)

	if err := authorize(uc.permissions, uc.logger, cmd.Requester, ActionRestore); err != nil {
		return nil, err
	}
	if cmd.ThreadID == "" {
		return nil, errors.NewValidationError("thread ID is required")
	}

	var thread *feedback.Thread
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := loadVisibleThread(txCtx, uc.threadRepo.GetByIDForUpdate, cmd.Requester, cmd.ThreadID)
		if err != nil {
			return err
		}
		if err := t.Restore(); err != nil {
			return err
		}
		if err := uc.threadRepo.Update(txCtx, t); err != nil {
			uc.logger.Errorw("failed to update thread", "thread_id", t.ID(), "error", err)
			return err
		}
		if err := uc.auditRepo.Append(txCtx, feedback.NewRestoredEntry(t.ID(), cmd.Requester)); err != nil {
			uc.logger.Errorw("failed to append audit entry", "thread_id", t.ID(), "error", err)
			return err
		}
		thread = t
		return nil
	})
	if txErr != nil {
		return nil, toAppError(txErr, "failed to restore thread")
	}

	publishEvents(uc.publisher, uc.logger, feedback.NewThreadRestoredEvent(thread, cmd.Requester))
	uc.logger.Infow("thread restored successfully", "thread_id", thread.ID())

	result := dto.ToThreadDTO(thread)
	return &result, nil
}
