package email

import (
	"context"

	"github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/shared/logger"
)

// ThreadMailer sends admin notifications.
type ThreadMailer interface {
	SendNewThreadNotification(to string, n ThreadNotification) error
}

// AdminNotifier mails the admin mailbox when a thread addressed to admins is
// created. Migrated threads do not trigger mail.
type AdminNotifier struct {
	mailer  ThreadMailer
	mailbox string
	logger  logger.Interface
}

var _ events.EventHandler = (*AdminNotifier)(nil)

func NewAdminNotifier(mailer ThreadMailer, mailbox string, logger logger.Interface) *AdminNotifier {
	return &AdminNotifier{
		mailer:  mailer,
		mailbox: mailbox,
		logger:  logger,
	}
}

func (n *AdminNotifier) CanHandle(eventType string) bool {
	return eventType == feedback.EventThreadCreated
}

func (n *AdminNotifier) Handle(_ context.Context, event events.DomainEvent) error {
	te, ok := event.(feedback.ThreadEvent)
	if !ok || n.mailbox == "" {
		return nil
	}
	if te.Thread.TargetRole != vo.TargetAdmin.String() {
		return nil
	}

	err := n.mailer.SendNewThreadNotification(n.mailbox, ThreadNotification{
		ThreadID:      te.Thread.ID,
		Title:         te.Thread.Title,
		Type:          te.Thread.Type,
		Priority:      te.Thread.Priority,
		CreatedBy:     te.Thread.CreatedBy,
		CreatedByRole: te.Thread.CreatedByRole,
	})
	if err != nil {
		n.logger.Warnw("failed to send admin notification", "thread_id", te.Thread.ID, "error", err)
		return err
	}

	n.logger.Infow("admin notification sent", "thread_id", te.Thread.ID)
	return nil
}
