package notification

import "qbit-backend/internal/models"

var statusConfigs = map[string]models.StatusConfig{
	"Complete": {
		Color:   "#16a34a",
		BgColor: "#dcfce7",
		Icon:    "✅",
		Message: "<strong>Report Complete:</strong> Your request has been processed successfully. " +
			"Your report is now available for download through the management system.",
		Urgency: models.UrgencyHigh,
	},
	"Inprogress": {
		Color:   "#f59e0b",
		BgColor: "#fef3c7",
		Icon:    "⏳",
		Message: "<strong>Processing:</strong> Your request is currently being processed by our team. " +
			"You will be notified as soon as your report is ready.",
		Urgency: models.UrgencyMedium,
	},
	"Unassigned": {
		Color:   "#6b7280",
		BgColor: "#f3f4f6",
		Icon:    "📋",
		Message: "<strong>Received:</strong> Your request has been received and is awaiting assignment. " +
			"You will be updated once a team member is assigned.",
		Urgency: models.UrgencyLow,
	},
	"Rejected": {
		Color:   "#dc2626",
		BgColor: "#fee2e2",
		Icon:    "❌",
		Message: "<strong>Request Rejected:</strong> Unfortunately, we were unable to process your request. " +
			"Please contact support for further assistance.",
		Urgency: models.UrgencyHigh,
	},
}

// StatusConfigFor returns the treatment for status, falling back to Unassigned.
func StatusConfigFor(status string) models.StatusConfig {
	if cfg, ok := statusConfigs[status]; ok {
		return cfg
	}
	return statusConfigs["Unassigned"]
}

var priorityBadges = map[models.Urgency]string{
	models.UrgencyHigh:   `<span style="background:#dc2626;color:white;padding:2px 8px;border-radius:12px;font-size:11px;font-weight:600;">HIGH PRIORITY</span>`,
	models.UrgencyMedium: `<span style="background:#f59e0b;color:white;padding:2px 8px;border-radius:12px;font-size:11px;font-weight:600;">MEDIUM PRIORITY</span>`,
	models.UrgencyLow:    `<span style="background:#6b7280;color:white;padding:2px 8px;border-radius:12px;font-size:11px;font-weight:600;">LOW PRIORITY</span>`,
}

func priorityBadge(u models.Urgency) string {
	if badge, ok := priorityBadges[u]; ok {
		return badge
	}
	return priorityBadges[models.UrgencyLow]
}

const (
	iconDone    = "✅"
	iconPending = "⏳"
	iconTodo    = "⭕"
	iconBlocked = "❌"
)

// TimelineStep is one row of the progress timeline.
type TimelineStep struct {
	Name string
	Icon string
}

func (s TimelineStep) Done() bool { return s.Icon == iconDone }

// Timeline derives the four progress steps from status and assignee.
func Timeline(status, assignedTo string) []TimelineStep {
	submitted := iconTodo
	if status == "Complete" || status == "Inprogress" || status == "Rejected" {
		submitted = iconDone
	}

	assigned := iconBlocked
	switch {
	case assignedTo != "" && (status == "Complete" || status == "Inprogress"):
		assigned = iconDone
	case status == "Unassigned":
		assigned = iconPending
	}

	processing := iconTodo
	switch status {
	case "Complete":
		processing = iconDone
	case "Inprogress":
		processing = iconPending
	}

	complete := iconTodo
	if status == "Complete" {
		complete = iconDone
	}

	return []TimelineStep{
		{Name: "Request Submitted", Icon: submitted},
		{Name: "Team Assigned", Icon: assigned},
		{Name: "Report Processing", Icon: processing},
		{Name: "Report Complete", Icon: complete},
	}
}
