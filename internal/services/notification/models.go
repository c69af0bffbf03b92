package notification

import (
	"context"

	"qbit-backend/internal/common/clock"
	"qbit-backend/internal/common/logger"
	"qbit-backend/internal/common/mail"
	"qbit-backend/internal/models"
)

// Input is the /send-email body. Either subject and body (legacy free text) or the structured fields.
type Input struct {
	Email      string  `json:"email"`
	Subject    *string `json:"subject,omitempty"`
	Body       *string `json:"body,omitempty"`
	RequestID  *string `json:"requestId,omitempty"`
	Product    *string `json:"product,omitempty"`
	Category   *string `json:"category,omitempty"`
	Status     *string `json:"status,omitempty"`
	Report     *string `json:"report,omitempty"`
	Download   *bool   `json:"download,omitempty"`
	ReportLink *string `json:"report_link,omitempty"`
	AssignedTo *string `json:"assignedTo,omitempty"`
}

// IsLegacy reports the free-text form: both subject and body present.
func (in Input) IsLegacy() bool {
	return in.Subject != nil && in.Body != nil
}

// Payload resolves the notification fields, parsing the body for legacy requests.
func (in Input) Payload() models.NotificationPayload {
	var p models.NotificationPayload
	if in.IsLegacy() {
		p = ParseLegacy(*in.Body)
	} else {
		p = models.NotificationPayload{
			RequestID:  stringOr(in.RequestID, "N/A"),
			Product:    stringOr(in.Product, "Report"),
			Category:   stringOr(in.Category, "general"),
			Status:     stringOr(in.Status, "Updated"),
			Report:     stringOr(in.Report, ""),
			ReportLink: stringOr(in.ReportLink, "#dashboard"),
			AssignedTo: stringOr(in.AssignedTo, ""),
		}
		if in.Download != nil {
			p.Download = *in.Download
		}
	}
	p.Email = in.Email
	return p
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// PhoneLookup finds the phone number on file for a recipient.
type PhoneLookup interface {
	FindPhoneByEmail(ctx context.Context, email string) (string, error)
}

// SMSSender publishes a text message.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

// ServiceDependencies wires the dispatcher. SMS and Phones are optional.
type ServiceDependencies struct {
	Logger logger.Logger
	Clock  clock.Clock
	Mailer mail.Sender
	SMS    SMSSender
	Phones PhoneLookup
}
