package usecases

import (
	"context"

	"github.com/campushub/campushub/internal/domain/feedback"
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/shared/db"
	"github.com/campushub/campushub/internal/shared/errors"
	"github.com/campushub/campushub/internal/shared/logger"
)

type DeleteThreadCommand struct {
	Requester feedback.Requester
	ThreadID  string
}

type DeleteThreadUseCase struct {
	threadRepo  feedback.ThreadRepository
	auditRepo   feedback.AuditRepository
	txMgr       db.Transactor
	permissions PermissionChecker
	publisher   events.EventPublisher
	logger      logger.Interface
}

func NewDeleteThreadUseCase(
	threadRepo feedback.ThreadRepository,
	auditRepo feedback.AuditRepository,
	txMgr db.Transactor,
	permissions PermissionChecker,
	publisher events.EventPublisher,
	logger logger.Interface,
) *DeleteThreadUseCase {
	return &DeleteThreadUseCase{
		threadRepo:  threadRepo,
		auditRepo:   auditRepo,
		txMgr:       txMgr,
		permissions: permissions,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute soft-deletes a thread. Messages and audit history are kept.
func (uc *DeleteThreadUseCase) Execute(ctx context.Context, cmd DeleteThreadCommand) error {
	uc.logger.Infow("executing delete thread use case", "thread_id", cmd.ThreadID, "user_id", cmd.Requester.UserID)

	if err := authorize(uc.permissions, uc.logger, cmd.Requester, ActionDelete); err != nil {
		return err
	}
	if cmd.ThreadID == "" {
		return errors.NewValidationError("thread ID is required")
	}

	var thread *feedback.Thread
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := loadVisibleThread(txCtx, uc.threadRepo.GetByIDForUpdate, cmd.Requester, cmd.ThreadID)
		if err != nil {
			return err
		}
		if err := t.SoftDelete(cmd.Requester.UserID); err != nil {
			return err
		}
		if err := uc.threadRepo.Update(txCtx, t); err != nil {
			uc.logger.Errorw("failed to update thread", "thread_id", t.ID(), "error", err)
			return err
		}
		if err := uc.auditRepo.Append(txCtx, feedback.NewSoftDeletedEntry(t.ID(), cmd.Requester)); err != nil {
			uc.logger.Errorw("failed to append audit entry", "thread_id", t.ID(), "error", err)
			return err
		}
		thread = t
		return nil
	})
	if txErr != nil {
		return toAppError(txErr, "failed to delete thread")
	}

	publishEvents(uc.publisher, uc.logger, feedback.NewThreadDeletedEvent(thread, cmd.Requester))
	uc.logger.Infow("thread soft-deleted successfully", "thread_id", thread.ID())
	return nil
}
