package usecases

import (
	"context"

	"github.com/campushub/campushub/internal/application/feedback/dto"
	"github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/shared/db"
	"github.com/campushub/campushub/internal/shared/logger"
)

type CreateThreadCommand struct {
	Requester    feedback.Requester
	Title        string
	Type         string
	Priority     string
	TargetRole   string
	TargetUserID *string
	Message      string
}

type CreateThreadUseCase struct {
	threadRepo  feedback.ThreadRepository
	messageRepo feedback.MessageRepository
	txMgr       db.Transactor
	renderer    MessageRenderer
	permissions PermissionChecker
	publisher   events.EventPublisher
	logger      logger.Interface
}

func NewCreateThreadUseCase(
	threadRepo feedback.ThreadRepository,
	messageRepo feedback.MessageRepository,
	txMgr db.Transactor,
	renderer MessageRenderer,
	permissions PermissionChecker,
	publisher events.EventPublisher,
	logger logger.Interface,
) *CreateThreadUseCase {
	return &CreateThreadUseCase{
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		txMgr:       txMgr,
		renderer:    renderer,
		permissions: permissions,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *CreateThreadUseCase) Execute(ctx context.Context, cmd CreateThreadCommand) (*dto.ThreadDetailDTO, error) {
	uc.logger.Infow("executing create thread use case",
		"user_id", cmd.Requester.UserID,
		"role", cmd.Requester.Role,
		"target_role", cmd.TargetRole,
	)

	if err := authorize(uc.permissions, uc.logger, cmd.Requester, ActionCreate); err != nil {
		return nil, err
	}

	thread, err := feedback.NewThread(feedback.NewThreadParams{
		Title:        cmd.Title,
		Type:         vo.ThreadType(cmd.Type),
		Priority:     vo.Priority(cmd.Priority),
		CreatedBy:    cmd.Requester.UserID,
		CreatorRole:  cmd.Requester.Role,
		TargetRole:   vo.TargetRole(cmd.TargetRole),
		TargetUserID: cmd.TargetUserID,
	})
	if err != nil {
		uc.logger.Warnw("invalid create thread command", "error", err)
		return nil, toAppError(err, "failed to create thread")
	}

	msg, err := feedback.NewMessage(thread.ID(), cmd.Requester.UserID, cmd.Requester.Role, cmd.Message)
	if err != nil {
		uc.logger.Warnw("invalid initial message", "error", err)
		return nil, toAppError(err, "failed to create thread")
	}
	if err := thread.RecordMessage(msg); err != nil {
		return nil, toAppError(err, "failed to create thread")
	}

	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.threadRepo.Create(txCtx, thread); err != nil {
			uc.logger.Errorw("failed to save thread", "thread_id", thread.ID(), "error", err)
			return err
		}
		if err := uc.messageRepo.Create(txCtx, msg); err != nil {
			uc.logger.Errorw("failed to save initial message", "thread_id", thread.ID(), "error", err)
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, toAppError(txErr, "failed to create thread")
	}

	publishEvents(uc.publisher, uc.logger, feedback.NewThreadCreatedEvent(thread, cmd.Requester))

	uc.logger.Infow("thread created successfully", "thread_id", thread.ID(), "user_id", cmd.Requester.UserID)

	return &dto.ThreadDetailDTO{
		ThreadDTO: dto.ToThreadDTO(thread),
		Messages:  renderMessages(uc.renderer, uc.logger, []*feedback.Message{msg}),
		Audit:     []dto.AuditEntryDTO{},
	}, nil
}
