package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	emailMaxAttempts  = 3
	emailRetryBackoff = time.Second
)

// EmailSender delivers a single email message.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender sends mail through an SMTP relay with bounded retries. No Go
// mail library is involved; the message is assembled by hand.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
	log  zerolog.Logger

	// sendMail is swapped out in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates an SMTP email sender.
func NewSMTPSender(host string, port int, user, password, from string, log zerolog.Logger) *SMTPSender {
	return &SMTPSender{
		addr:     fmt.Sprintf("%s:%d", host, port),
		auth:     smtp.PlainAuth("", user, password, host),
		from:     from,
		log:      log,
		sendMail: smtp.SendMail,
	}
}

// Send delivers one message, retrying transient failures up to
// emailMaxAttempts with increasing backoff.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := s.buildMessage(to, subject, body)

	var lastErr error
	for attempt := 1; attempt <= emailMaxAttempts; attempt++ {
		lastErr = s.sendMail(s.addr, s.auth, s.from, []string{to}, msg)
		if lastErr == nil {
			return nil
		}
		s.log.Warn().Err(lastErr).Int("attempt", attempt).Str("to", to).Msg("email send failed")

		if attempt == emailMaxAttempts {
			break
		}
		select {
		case <-time.After(time.Duration(attempt) * emailRetryBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("send email after %d attempts: %w", emailMaxAttempts, lastErr)
}

func (s *SMTPSender) buildMessage(to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
