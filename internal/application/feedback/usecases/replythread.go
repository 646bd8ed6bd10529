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

type ReplyThreadCommand struct {
	Requester feedback.Requester
	ThreadID  string
	Message   string
}

type ReplyThreadResult struct {
	Thread  dto.ThreadDTO  `json:"thread"`
	Message dto.MessageDTO `json:"message"`
}

type ReplyThreadUseCase struct {
	threadRepo  feedback.ThreadRepository
	messageRepo feedback.MessageRepository
	txMgr       db.Transactor
	renderer    MessageRenderer
	permissions PermissionChecker
	publisher   events.EventPublisher
	logger      logger.Interface
}

func NewReplyThreadUseCase(
	threadRepo feedback.ThreadRepository,
	messageRepo feedback.MessageRepository,
	txMgr db.Transactor,
	renderer MessageRenderer,
	permissions PermissionChecker,
	publisher events.EventPublisher,
	logger logger.Interface,
) *ReplyThreadUseCase {
	return &ReplyThreadUseCase{
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		txMgr:       txMgr,
		renderer:    renderer,
		permissions: permissions,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute appends a message. Replies are accepted in every status; only
// soft-deleted threads reject them.
func (uc *ReplyThreadUseCase) Execute(ctx context.Context, cmd ReplyThreadCommand) (*ReplyThreadResult, error) {
	uc.logger.Infow("executing reply thread use case", "thread_id", cmd.ThreadID, "user_id", cmd.Requester.UserID)

	if err := authorize(uc.permissions, uc.logger, cmd.Requester, ActionReply); err != nil {
		return nil, err
	}
	if cmd.ThreadID == "" {
		return nil, errors.NewValidationError("thread ID is required")
	}

	var (
		thread *feedback.Thread
		msg    *feedback.Message
	)
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := loadMutableThread(txCtx, uc.threadRepo, cmd.Requester, cmd.ThreadID)
		if err != nil {
			return err
		}

		m, err := feedback.NewMessage(t.ID(), cmd.Requester.UserID, cmd.Requester.Role, cmd.Message)
		if err != nil {
			return err
		}
		if err := t.RecordMessage(m); err != nil {
			return err
		}
		if err := uc.messageRepo.Create(txCtx, m); err != nil {
			uc.logger.Errorw("failed to save message", "thread_id", t.ID(), "error", err)
			return err
		}
		if err := uc.threadRepo.IncrementMessageCount(txCtx, t.ID(), m.CreatedAt()); err != nil {
			uc.logger.Errorw("failed to update thread counters", "thread_id", t.ID(), "error", err)
			return err
		}

		thread, msg = t, m
		return nil
	})
	if txErr != nil {
		return nil, toAppError(txErr, "failed to reply to thread")
	}

	publishEvents(uc.publisher, uc.logger, feedback.NewThreadRepliedEvent(thread, cmd.Requester))

	uc.logger.Infow("reply added successfully", "thread_id", thread.ID(), "message_id", msg.ID())

	return &ReplyThreadResult{
		Thread:  dto.ToThreadDTO(thread),
		Message: dto.ToMessageDTO(msg, renderMessage(uc.renderer, uc.logger, msg)),
	}, nil
}

// loadMutableThread locks a visible thread for update. A deleted thread is
// reported as a conflict to admins and as missing to everyone else.
func loadMutableThread(ctx context.Context, repo feedback.ThreadRepository, r feedback.Requester, threadID string) (*feedback.Thread, error) {
	t, err := loadVisibleThread(ctx, repo.GetByIDForUpdate, r, threadID)
	if err != nil {
		return nil, err
	}
	if t.IsDeleted() {
		return nil, feedback.ErrThreadDeleted
	}
	return t, nil
}
