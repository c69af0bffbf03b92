package notification

import (
	"regexp"
	"strings"

	"qbit-backend/internal/models"
)

var (
	requestIDPattern  = regexp.MustCompile(`\(([^)]+)\)`)
	statusPattern     = regexp.MustCompile(`Current status: ([^.]+)`)
	assignedToPattern = regexp.MustCompile(`Assigned to: ([^.]+)`)
	productPattern    = regexp.MustCompile(`for "([^"]+)"`)
)

// ParseLegacy extracts a payload from the free-text body the dashboard used to send.
// It depends on nothing but body.
func ParseLegacy(body string) models.NotificationPayload {
	requestID := firstGroup(requestIDPattern, body, "N/A", false)
	status := firstGroup(statusPattern, body, "Updated", true)
	assignedTo := firstGroup(assignedToPattern, body, "", true)
	if assignedTo == "Unassigned" {
		assignedTo = ""
	}
	product := firstGroup(productPattern, body, "Report", false)

	category := "general"
	lowerProduct, lowerID := strings.ToLower(product), strings.ToLower(requestID)
	switch {
	case strings.Contains(lowerProduct, "office") || strings.Contains(lowerID, "office"):
		category = "office"
	case strings.Contains(lowerProduct, "tech") || strings.Contains(lowerID, "tech"):
		category = "tech"
	}

	complete := strings.ToLower(status) == "complete"

	report := ""
	reportLink := "#dashboard"
	if complete {
		segments := strings.Split(requestID, "_")
		report = "RPT_" + segments[len(segments)-1]
		reportLink = "#download/" + requestID
	}

	return models.NotificationPayload{
		RequestID:  requestID,
		Product:    product,
		Category:   category,
		Status:     status,
		Report:     report,
		Download:   complete,
		ReportLink: reportLink,
		AssignedTo: assignedTo,
	}
}

func firstGroup(re *regexp.Regexp, s, fallback string, trim bool) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return fallback
	}
	if trim {
		return strings.TrimSpace(m[1])
	}
	return m[1]
}

// Subject is the email subject line for p.
func Subject(p models.NotificationPayload) string {
	return "Report Update: " + p.RequestID + " - " + p.Status
}
