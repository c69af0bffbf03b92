package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
	From     string
}

// SMTPSender relays through an SMTP server, upgrading with STARTTLS when UseTLS is set.
type SMTPSender struct {
	settings SMTPSettings
	now      func() time.Time
}

func NewSMTPSender(settings SMTPSettings) *SMTPSender {
	if settings.Port == 0 {
		settings.Port = 587
	}
	if settings.From == "" {
		settings.From = settings.Username
	}
	return &SMTPSender{settings: settings, now: time.Now}
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	from := fromOr(msg, s.settings.From)
	addr := fmt.Sprintf("%s:%d", s.settings.Host, s.settings.Port)

	var auth smtp.Auth
	if s.settings.Username != "" && s.settings.Password != "" {
		auth = smtp.PlainAuth("", s.settings.Username, s.settings.Password, s.settings.Host)
	}

	raw := []byte(s.buildMessage(from, msg))
	if !s.settings.UseTLS {
		return smtp.SendMail(addr, auth, from, []string{msg.To}, raw)
	}
	return s.sendWithTLS(addr, auth, from, msg.To, raw)
}

func (s *SMTPSender) buildMessage(from string, msg Message) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", headerValue(msg.To)))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", headerValue(msg.Subject))))
	b.WriteString(fmt.Sprintf("Date: %s\r\n", s.now().Format(time.RFC1123Z)))
	b.WriteString(fmt.Sprintf("Message-ID: <%s@%s>\r\n", uuid.New().String(), s.settings.Host))
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTML != "" {
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		b.WriteString("\r\n")
		b.WriteString(msg.HTML)
	} else {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		b.WriteString("\r\n")
		b.WriteString(msg.Text)
	}

	return b.String()
}

var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// headerValue folds line breaks so a value cannot start a new header line.
func headerValue(v string) string {
	return headerBreaks.Replace(v)
}

func (s *SMTPSender) sendWithTLS(addr string, auth smtp.Auth, from, to string, raw []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: s.settings.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient %s: %w", to, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(raw); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
