// Package mail delivers rendered notifications through the configured transport.
package mail

import (
	"context"
	"fmt"

	awsclient "qbit-backend/internal/common/aws"
	"qbit-backend/internal/common/config"
)

// Message is one outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender is implemented by every transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// New builds the sender selected by cfg.Provider.
func New(ctx context.Context, cfg config.MailConfig, aws awsclient.Settings) (Sender, error) {
	switch cfg.MailProvider() {
	case "", "smtp":
		return NewSMTPSender(SMTPSettings{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			UseTLS:   cfg.SMTP.UseTLS,
			From:     cfg.From,
		}), nil
	case "ses":
		awsCfg, err := awsclient.LoadConfig(ctx, aws)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config for SES: %w", err)
		}
		return NewSESSender(awsclient.NewSESClient(awsCfg), cfg.From), nil
	case "sendgrid":
		if cfg.SendGrid.APIKey == "" {
			return nil, fmt.Errorf("mail.sendgrid.api_key is required for provider sendgrid")
		}
		return NewSendGridSender(cfg.SendGrid.APIKey, cfg.From), nil
	case "postmark":
		if cfg.Postmark.ServerToken == "" {
			return nil, fmt.Errorf("mail.postmark.server_token is required for provider postmark")
		}
		return NewPostmarkSender(cfg.Postmark.ServerToken, cfg.From), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", cfg.Provider)
	}
}

func fromOr(msg Message, fallback string) string {
	if msg.From != "" {
		return msg.From
	}
	return fallback
}
