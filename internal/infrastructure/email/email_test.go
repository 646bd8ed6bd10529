package email

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/shared/logger"
)

type capturedMail struct {
	from string
	to   []string
	body string
}

type captureSender struct {
	sent []capturedMail
	err  error
}

func (c *captureSender) Send(from string, to []string, msg io.WriterTo) error {
	if c.err != nil {
		return c.err
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return err
	}
	c.sent = append(c.sent, capturedMail{from: from, to: to, body: buf.String()})
	return nil
}

var _ gomail.Sender = (*captureSender)(nil)

func TestSMTPEmailService_SendNewThreadNotification(t *testing.T) {
	sender := &captureSender{}
	svc := newSMTPEmailServiceWithSender(SMTPConfig{
		FromAddress: "noreply@campushub.local",
		FromName:    "CampusHub",
		BaseURL:     "https://campus.example",
	}, sender)

	err := svc.SendNewThreadNotification("admins@campus.example", ThreadNotification{
		ThreadID:      "fbt_abc",
		Title:         "<script>Broken lab</script>",
		Type:          "technical",
		Priority:      "high",
		CreatedBy:     "stu-1",
		CreatedByRole: "student",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	mail := sender.sent[0]
	assert.Equal(t, "noreply@campushub.local", mail.from)
	assert.Equal(t, []string{"admins@campus.example"}, mail.to)
	assert.Contains(t, mail.body, "https://campus.example/feedback/threads/fbt_abc")
	assert.Contains(t, mail.body, "&lt;script&gt;Broken lab")
	assert.NotContains(t, mail.body, "<strong><script>")
}

type mailerFunc func(to string, n ThreadNotification) error

func (f mailerFunc) SendNewThreadNotification(to string, n ThreadNotification) error {
	return f(to, n)
}

func newThread(t *testing.T, target vo.TargetRole, targetUser *string) *feedback.Thread {
	t.Helper()
	th, err := feedback.NewThread(feedback.NewThreadParams{
		Title:        "Library hours",
		CreatedBy:    "stu-1",
		CreatorRole:  vo.RoleStudent,
		TargetRole:   target,
		TargetUserID: targetUser,
	})
	require.NoError(t, err)
	return th
}

func TestAdminNotifier_Handle(t *testing.T) {
	actor := feedback.Requester{UserID: "stu-1", Role: vo.RoleStudent}
	faculty := "fac-1"

	tests := []struct {
		name     string
		mailbox  string
		event    feedback.ThreadEvent
		wantSent bool
	}{
		{
			name:     "admin targeted thread is mailed",
			mailbox:  "admins@campus.example",
			event:    feedback.NewThreadCreatedEvent(newThread(t, vo.TargetAdmin, nil), actor),
			wantSent: true,
		},
		{
			name:    "faculty targeted thread is skipped",
			mailbox: "admins@campus.example",
			event:   feedback.NewThreadCreatedEvent(newThread(t, vo.TargetFaculty, &faculty), actor),
		},
		{
			name:  "no mailbox configured",
			event: feedback.NewThreadCreatedEvent(newThread(t, vo.TargetAdmin, nil), actor),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []ThreadNotification
			notifier := NewAdminNotifier(mailerFunc(func(to string, n ThreadNotification) error {
				assert.Equal(t, tt.mailbox, to)
				got = append(got, n)
				return nil
			}), tt.mailbox, logger.NewNopLogger())

			require.True(t, notifier.CanHandle(tt.event.EventType))
			require.NoError(t, notifier.Handle(context.Background(), tt.event))

			if tt.wantSent {
				require.Len(t, got, 1)
				assert.Equal(t, tt.event.Thread.ID, got[0].ThreadID)
				assert.Equal(t, "Library hours", got[0].Title)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestAdminNotifier_PropagatesMailerError(t *testing.T) {
	boom := errors.New("smtp down")
	notifier := NewAdminNotifier(mailerFunc(func(string, ThreadNotification) error { return boom }),
		"admins@campus.example", logger.NewNopLogger())

	event := feedback.NewThreadCreatedEvent(newThread(t, vo.TargetAdmin, nil),
		feedback.Requester{UserID: "stu-1", Role: vo.RoleStudent})

	assert.ErrorIs(t, notifier.Handle(context.Background(), event), boom)
	assert.False(t, notifier.CanHandle(feedback.EventThreadReplied))
}
