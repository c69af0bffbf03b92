package notification

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/common/logger"
	"qbit-backend/internal/common/mail"
	"qbit-backend/internal/common/metrics"
	"qbit-backend/internal/models"
)

const (
	channelEmail = "email"
	channelSMS   = "sms"
)

// Service renders status emails and hands them to the mail transport.
type Service struct {
	config   *Config
	logger   logger.Logger
	mailer   mail.Sender
	sms      SMSSender
	phones   PhoneLookup
	renderer *Renderer
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	return &Service{
		config:   config,
		logger:   deps.Logger,
		mailer:   deps.Mailer,
		sms:      deps.SMS,
		phones:   deps.Phones,
		renderer: NewRenderer(deps.Clock),
	}
}

// Renderer exposes the HTML renderer for previews.
func (s *Service) Renderer() *Renderer { return s.renderer }

// Send delivers one status email to recipient. Mail failures are not retried.
func (s *Service) Send(ctx context.Context, recipient string, p models.NotificationPayload) error {
	if strings.TrimSpace(recipient) == "" {
		return errors.NewInvalidArgumentError("Recipient email is required", "")
	}

	html, err := s.renderer.Render(p)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("render notification: %w", err))
	}

	msg := mail.Message{
		To:      recipient,
		Subject: Subject(p),
		HTML:    html,
		Text:    plainText(p),
	}

	err = s.mailer.Send(ctx, msg)
	metrics.NotificationsSentTotal.WithLabelValues(channelEmail, metrics.Outcome(err)).Inc()
	if err != nil {
		s.logger.Error("Failed to send notification email", map[string]interface{}{
			"recipient":  recipient,
			"request_id": p.RequestID,
			"transport":  s.mailer.Name(),
			"error":      err.Error(),
		})
		return errors.NewDeliveryError(channelEmail, err)
	}

	s.logger.Info("Notification email sent", map[string]interface{}{
		"recipient":  recipient,
		"request_id": p.RequestID,
		"status":     p.Status,
		"transport":  s.mailer.Name(),
	})

	s.sendSMS(ctx, recipient, p)
	return nil
}

// sendSMS publishes a short summary for high-urgency statuses. Failures are only logged.
func (s *Service) sendSMS(ctx context.Context, recipient string, p models.NotificationPayload) {
	if !s.config.SMSEnabled || s.sms == nil || s.phones == nil {
		return
	}
	if StatusConfigFor(p.Status).Urgency != models.UrgencyHigh {
		return
	}

	phone, err := s.phones.FindPhoneByEmail(ctx, recipient)
	if err != nil {
		s.logger.Warn("Phone lookup failed, skipping SMS", map[string]interface{}{
			"recipient": recipient,
			"error":     err.Error(),
		})
		return
	}
	if phone == "" {
		return
	}

	_, err = s.sms.SendSMS(ctx, phone, SMSText(p))
	metrics.NotificationsSentTotal.WithLabelValues(channelSMS, metrics.Outcome(err)).Inc()
	if err != nil {
		s.logger.Warn("Failed to send notification SMS", map[string]interface{}{
			"recipient":  recipient,
			"request_id": p.RequestID,
			"error":      err.Error(),
		})
	}
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// SMSText is the short summary sent for high-urgency updates.
func SMSText(p models.NotificationPayload) string {
	return fmt.Sprintf("%s %s: %s", StatusConfigFor(p.Status).Icon, Subject(p), p.Product)
}

func plainText(p models.NotificationPayload) string {
	cfg := StatusConfigFor(p.Status)
	var b strings.Builder
	b.WriteString(tagPattern.ReplaceAllString(cfg.Message, ""))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Request ID: %s\nProduct: %s\nCategory: %s\nStatus: %s\n", p.RequestID, p.Product, p.Category, p.Status)
	if p.AssignedTo != "" {
		fmt.Fprintf(&b, "Assigned to: %s\n", p.AssignedTo)
	}
	if p.Status == "Complete" && p.Download {
		fmt.Fprintf(&b, "Report: %s\n", p.ReportLink)
	}
	b.WriteString("\nThe LKCentrix Team\n")
	return b.String()
}
