// internal/models/notification.go
package models

// NotificationPayload carries the fields rendered into a report status email.
type NotificationPayload struct {
	RequestID  string `json:"requestId"`
	Product    string `json:"product"`
	Category   string `json:"category"`
	Status     string `json:"status"`
	Report     string `json:"report"`
	Download   bool   `json:"download"`
	ReportLink string `json:"report_link"`
	AssignedTo string `json:"assignedTo"`
	Email      string `json:"email"`
}

type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// StatusConfig is the visual treatment of one report status.
type StatusConfig struct {
	Color   string
	BgColor string
	Icon    string
	Message string
	Urgency Urgency
}
