package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"qbit-backend/internal/models"
)

// ==========================
// Legacy Body Parsing
// ==========================

func TestParseLegacy(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected models.NotificationPayload
	}{
		{
			name: "complete office request",
			body: `Your request (REQ_office_42) for "Office Chairs" has been updated. Current status: Complete. Assigned to: Jane Doe.`,
			expected: models.NotificationPayload{
				RequestID:  "REQ_office_42",
				Product:    "Office Chairs",
				Category:   "office",
				Status:     "Complete",
				Report:     "RPT_42",
				Download:   true,
				ReportLink: "#download/REQ_office_42",
				AssignedTo: "Jane Doe",
			},
		},
		{
			name: "unassigned tech request",
			body: `Request (REQ_tech_7) for "Laptops". Current status: Unassigned. Assigned to: Unassigned.`,
			expected: models.NotificationPayload{
				RequestID:  "REQ_tech_7",
				Product:    "Laptops",
				Category:   "tech",
				Status:     "Unassigned",
				ReportLink: "#dashboard",
			},
		},
		{
			name: "office wins over tech",
			body: `(REQ_tech_1) for "Office Tech Bundle". Current status: Inprogress.`,
			expected: models.NotificationPayload{
				RequestID:  "REQ_tech_1",
				Product:    "Office Tech Bundle",
				Category:   "office",
				Status:     "Inprogress",
				ReportLink: "#dashboard",
			},
		},
		{
			name: "nothing matches",
			body: "hello there",
			expected: models.NotificationPayload{
				RequestID:  "N/A",
				Product:    "Report",
				Category:   "general",
				Status:     "Updated",
				ReportLink: "#dashboard",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLegacy(tt.body))
		})
	}
}

func TestSubject(t *testing.T) {
	p := models.NotificationPayload{RequestID: "REQ_1", Status: "Complete"}
	assert.Equal(t, "Report Update: REQ_1 - Complete", Subject(p))
}

// ==========================
// Structured Payloads
// ==========================

func TestInput_PayloadDefaults(t *testing.T) {
	in := Input{Email: "a@b.com"}
	p := in.Payload()

	assert.False(t, in.IsLegacy())
	assert.Equal(t, models.NotificationPayload{
		RequestID:  "N/A",
		Product:    "Report",
		Category:   "general",
		Status:     "Updated",
		ReportLink: "#dashboard",
		Email:      "a@b.com",
	}, p)
}

func TestInput_LegacyRequiresSubjectAndBody(t *testing.T) {
	body := `(REQ_office_42) Current status: Complete.`
	subject := "Update"

	onlyBody := Input{Email: "a@b.com", Body: &body}
	assert.False(t, onlyBody.IsLegacy())
	assert.Equal(t, "N/A", onlyBody.Payload().RequestID)

	legacy := Input{Email: "a@b.com", Subject: &subject, Body: &body}
	assert.True(t, legacy.IsLegacy())
	p := legacy.Payload()
	assert.Equal(t, "REQ_office_42", p.RequestID)
	assert.Equal(t, "a@b.com", p.Email)
	assert.True(t, p.Download)
}

// ==========================
// Status Table & Timeline
// ==========================

func TestStatusConfigFor_FallsBackToUnassigned(t *testing.T) {
	assert.Equal(t, models.UrgencyHigh, StatusConfigFor("Complete").Urgency)
	assert.Equal(t, models.UrgencyMedium, StatusConfigFor("Inprogress").Urgency)
	assert.Equal(t, StatusConfigFor("Unassigned"), StatusConfigFor("Assigned"))
	assert.Equal(t, "#6b7280", StatusConfigFor("whatever").Color)
}

func TestTimeline(t *testing.T) {
	done := func(steps []TimelineStep) []bool {
		out := make([]bool, len(steps))
		for i, s := range steps {
			out[i] = s.Done()
		}
		return out
	}

	tests := []struct {
		status   string
		assignee string
		expected []bool
	}{
		{"Complete", "Jane", []bool{true, true, true, true}},
		{"Complete", "", []bool{true, false, true, true}},
		{"Inprogress", "Jane", []bool{true, true, false, false}},
		{"Rejected", "Jane", []bool{true, false, false, false}},
		{"Unassigned", "", []bool{false, false, false, false}},
		{"Updated", "Jane", []bool{false, false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.assignee, func(t *testing.T) {
			assert.Equal(t, tt.expected, done(Timeline(tt.status, tt.assignee)))
		})
	}

	assert.Equal(t, iconPending, Timeline("Unassigned", "")[1].Icon)
	assert.Equal(t, iconPending, Timeline("Inprogress", "")[2].Icon)
}
