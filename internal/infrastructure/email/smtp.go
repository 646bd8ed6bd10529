package email

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // Base URL for email links (e.g., "http://localhost:8080")
}

// ThreadNotification is what an admin needs to triage a new thread.
type ThreadNotification struct {
	ThreadID      string
	Title         string
	Type          string
	Priority      string
	CreatedBy     string
	CreatedByRole string
}

type SMTPEmailService struct {
	config SMTPConfig
	sender gomail.Sender
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

// newSMTPEmailServiceWithSender bypasses dialing; messages go straight to sender.
func newSMTPEmailServiceWithSender(config SMTPConfig, sender gomail.Sender) *SMTPEmailService {
	return &SMTPEmailService{
		config: config,
		sender: sender,
	}
}

func (s *SMTPEmailService) SendNewThreadNotification(to string, n ThreadNotification) error {
	threadURL := fmt.Sprintf("%s/feedback/threads/%s", s.config.BaseURL, n.ThreadID)

	subject := fmt.Sprintf("[Feedback] New %s thread: %s", n.Priority, n.Title)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>New feedback thread</h2>
			<p><strong>%s</strong></p>
			<p>Type: %s<br>Priority: %s<br>From: %s (%s)</p>
			<p><a href="%s">Open thread</a></p>
		</body>
		</html>
	`,
		html.EscapeString(n.Title),
		html.EscapeString(n.Type),
		html.EscapeString(n.Priority),
		html.EscapeString(n.CreatedBy),
		html.EscapeString(n.CreatedByRole),
		html.EscapeString(threadURL),
	)

	plainBody := fmt.Sprintf(`
New feedback thread

%s

Type: %s
Priority: %s
From: %s (%s)

Open thread: %s
	`, n.Title, n.Type, n.Priority, n.CreatedBy, n.CreatedByRole, threadURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	var err error
	if s.sender != nil {
		err = gomail.Send(s.sender, m)
	} else {
		err = s.dialer.DialAndSend(m)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
