package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"io"
	"strings"

	"bailemos/internal/config"

	"gopkg.in/gomail.v2"
)

// EmailMessage is one outbound mail.
type EmailMessage struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Attachment is an in-memory file attached to an email.
type Attachment struct {
	Filename string
	Content  []byte
}

// EmailSender delivers mail. A disabled sender reports false and no error.
type EmailSender interface {
	Enabled() bool
	Send(ctx context.Context, msg EmailMessage) (bool, error)
}

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpSender struct {
	from   string
	dialer mailDialer
}

// NewEmailSender returns an SMTP sender, or a disabled one when SMTP_HOST,
// SMTP_USER or SMTP_PASS is missing.
func NewEmailSender(cfg *config.Config) EmailSender {
	if cfg == nil || !cfg.EmailEnabled() {
		return disabledEmail{}
	}
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	d.SSL = cfg.SMTPSecure
	d.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	return &smtpSender{from: cfg.SMTPFrom, dialer: d}
}

func (s *smtpSender) Enabled() bool { return true }

// Send dials the SMTP server once. gomail has no context support, so the call
// is abandoned (not cancelled) when ctx expires.
func (s *smtpSender) Send(ctx context.Context, msg EmailMessage) (bool, error) {
	if strings.TrimSpace(msg.To) == "" {
		return false, nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	for _, a := range msg.Attachments {
		content := a.Content
		m.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return false, fmt.Errorf("send mail: %w", err)
		}
		return true, nil
	case <-ctx.Done():
		return false, fmt.Errorf("send mail: %w", ctx.Err())
	}
}

type disabledEmail struct{}

func (disabledEmail) Enabled() bool                                    { return false }
func (disabledEmail) Send(context.Context, EmailMessage) (bool, error) { return false, nil }

// newEnrollmentEmail builds the academy alert for a new application.
func newEnrollmentEmail(to string, a Applicant, voucherLink string) EmailMessage {
	text := strings.Join([]string{
		"New enrollment request",
		"",
		"Applicant: " + a.FullName,
		"Email: " + a.Email,
		"Phone: " + a.Phone,
		"ID: " + a.IDNumber,
		"",
		"Voucher: " + voucherLink,
	}, "\n")

	esc := html.EscapeString
	body := fmt.Sprintf(`<h2>New enrollment request</h2>
<p><strong>Applicant:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>ID:</strong> %s</p>
<p><strong>Voucher:</strong> <a href="%s">%s</a></p>`,
		esc(a.FullName), esc(a.Email), esc(a.Phone), esc(a.IDNumber), esc(voucherLink), esc(voucherLink))

	return EmailMessage{
		To:      to,
		Subject: "New enrollment – " + a.FullName,
		Text:    text,
		HTML:    body,
	}
}

// decisionEmail builds the applicant notice for a review outcome.
func decisionEmail(to, academyName string, approved bool) EmailMessage {
	esc := html.EscapeString(academyName)
	if approved {
		return EmailMessage{
			To:      to,
			Subject: "Enrollment approved – " + academyName,
			Text:    fmt.Sprintf("Your enrollment at %s has been approved.", academyName),
			HTML:    fmt.Sprintf("<p>Your enrollment at <strong>%s</strong> has been approved.</p>", esc),
		}
	}
	return EmailMessage{
		To:      to,
		Subject: "Enrollment not approved – " + academyName,
		Text:    fmt.Sprintf("Your enrollment at %s was not approved. Contact the academy for more information.", academyName),
		HTML:    fmt.Sprintf("<p>Your enrollment at <strong>%s</strong> was not approved. Contact the academy for more information.</p>", esc),
	}
}
