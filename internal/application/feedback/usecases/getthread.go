package usecases

import (
	"context"
	"html"

	"github.com/campushub/campushub/internal/application/feedback/dto"
	"github.com/campushub/campushub/internal/domain/feedback"
	"github.com/campushub/campushub/internal/shared/errors"
	"github.com/campushub/campushub/internal/shared/logger"
)

type GetThreadQuery struct {
	Requester feedback.Requester
	ThreadID  string
}

type GetThreadUseCase struct {
	threadRepo  feedback.ThreadRepository
	messageRepo feedback.MessageRepository
	auditRepo   feedback.AuditRepository
	renderer    MessageRenderer
	permissions PermissionChecker
	logger      logger.Interface
}

func NewGetThreadUseCase(
	threadRepo feedback.ThreadRepository,
	messageRepo feedback.MessageRepository,
	auditRepo feedback.AuditRepository,
	renderer MessageRenderer,
	permissions PermissionChecker,
	logger logger.Interface,
) *GetThreadUseCase {
	return &GetThreadUseCase{
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		auditRepo:   auditRepo,
		renderer:    renderer,
		permissions: permissions,
		logger:      logger,
	}
}

func (uc *GetThreadUseCase) Execute(ctx context.Context, query GetThreadQuery) (*dto.ThreadDetailDTO, error) {
	uc.logger.Infow("executing get thread use case", "thread_id", query.ThreadID, "user_id", query.Requester.UserID)

	if err := authorize(uc.permissions, uc.logger, query.Requester, ActionRead); err != nil {
		return nil, err
	}
	if query.ThreadID == "" {
		return nil, errors.NewValidationError("thread ID is required")
	}

	t, err := loadVisibleThread(ctx, uc.threadRepo.GetByID, query.Requester, query.ThreadID)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			uc.logger.Errorw("failed to get thread", "thread_id", query.ThreadID, "error", err)
		}
		return nil, err
	}

	messages, err := uc.messageRepo.ListByThreadID(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to list thread messages", "thread_id", t.ID(), "error", err)
		return nil, toAppError(err, "failed to get thread")
	}

	entries, err := uc.auditRepo.ListByThreadID(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to list thread audit entries", "thread_id", t.ID(), "error", err)
		return nil, toAppError(err, "failed to get thread")
	}

	return &dto.ThreadDetailDTO{
		ThreadDTO: dto.ToThreadDTO(t),
		Messages:  renderMessages(uc.renderer, uc.logger, messages),
		Audit:     dto.ToAuditEntryDTOList(entries),
	}, nil
}

type threadLoader func(ctx context.Context, threadID string) (*feedback.Thread, error)

// loadVisibleThread fetches a thread and hides it behind NotFound unless the
// requester may see it. Soft-deleted threads are visible to admins only.
func loadVisibleThread(ctx context.Context, load threadLoader, r feedback.Requester, threadID string) (*feedback.Thread, error) {
	t, err := load(ctx, threadID)
	if err != nil {
		return nil, toAppError(err, "failed to load thread")
	}
	if t == nil || !t.IsVisibleTo(r) || (t.IsDeleted() && !r.IsAdmin()) {
		return nil, errors.NewNotFoundError("thread not found")
	}
	return t, nil
}

func renderMessages(renderer MessageRenderer, log logger.Interface, messages []*feedback.Message) []dto.MessageDTO {
	out := make([]dto.MessageDTO, 0, len(messages))
	for _, m := range messages {
		out = append(out, dto.ToMessageDTO(m, renderMessage(renderer, log, m)))
	}
	return out
}

func renderMessage(renderer MessageRenderer, log logger.Interface, m *feedback.Message) string {
	if renderer == nil {
		return html.EscapeString(m.Body())
	}
	rendered, err := renderer.ToHTMLSanitized(m.Body())
	if err != nil {
		log.Warnw("failed to render message, serving escaped text", "message_id", m.ID(), "error", err)
		return html.EscapeString(m.Body())
	}
	return rendered
}
