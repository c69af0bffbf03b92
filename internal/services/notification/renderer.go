package notification

import (
	"strings"
	"text/template"
	"time"

	"qbit-backend/internal/common/clock"
	"qbit-backend/internal/models"
)

const timestampLayout = "January 02, 2006 • 03:04 PM"

// Greeting picks the salutation for the hour of t.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// Renderer builds the HTML status email. Payload fields are embedded as-is.
type Renderer struct {
	clock clock.Clock
	tmpl  *template.Template
}

func NewRenderer(c clock.Clock) *Renderer {
	return &Renderer{
		clock: clock.Or(c),
		tmpl:  template.Must(template.New("notification").Parse(emailTemplate)),
	}
}

type view struct {
	models.NotificationPayload
	Config        models.StatusConfig
	Greeting      string
	Priority      string
	CategoryUpper string
	StatusUpper   string
	ReportLabel   string
	Timestamp     string
	Timeline      []TimelineStep
	ShowDownload  bool
}

func (r *Renderer) Render(p models.NotificationPayload) (string, error) {
	now := r.clock.Now()
	cfg := StatusConfigFor(p.Status)

	label := p.Report
	if label == "" {
		label = "Pending"
	}

	v := view{
		NotificationPayload: p,
		Config:              cfg,
		Greeting:            Greeting(now),
		Priority:            priorityBadge(cfg.Urgency),
		CategoryUpper:       strings.ToUpper(p.Category),
		StatusUpper:         strings.ToUpper(p.Status),
		ReportLabel:         label,
		Timestamp:           now.Format(timestampLayout),
		Timeline:            Timeline(p.Status, p.AssignedTo),
		ShowDownload:        p.Status == "Complete" && p.Download,
	}

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

const emailTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Report Status Update</title>
</head>
<body style="margin:0;padding:0;background-color:#f8fafc;font-family:'Segoe UI',Tahoma,Geneva,Verdana,sans-serif;">
<div style="max-width:600px;margin:0 auto;background-color:#ffffff;">
  <div style="background:linear-gradient(135deg,#1e40af 0%,#3b82f6 100%);padding:30px 20px;text-align:center;">
    <h1 style="color:#ffffff;margin:0;font-size:24px;font-weight:600;">📊 Report Management System</h1>
    <p style="color:#e0e7ff;margin:8px 0 0 0;font-size:14px;">Status Update Notification</p>
  </div>
  <div style="padding:30px 20px;">
    <p style="font-size:16px;color:#374151;margin:0 0 20px 0;">{{.Greeting}},</p>
    <div style="background-color:{{.Config.BgColor}};border-left:4px solid {{.Config.Color}};padding:16px;margin:20px 0;border-radius:6px;">
      <div style="display:flex;align-items:center;justify-content:space-between;margin-bottom:8px;">
        <span style="font-size:18px;">{{.Config.Icon}}</span>
        {{.Priority}}
      </div>
      <p style="margin:0;color:#374151;font-size:14px;line-height:1.5;">{{.Config.Message}}</p>
    </div>
    <div style="background-color:#f9fafb;border:1px solid #e5e7eb;border-radius:8px;padding:20px;margin:20px 0;">
      <h3 style="margin:0 0 16px 0;color:#111827;font-size:16px;font-weight:600;">📋 Request Details</h3>
      <table style="width:100%;border-collapse:collapse;">
        <tr><td style="padding:8px 0;color:#6b7280;font-size:14px;width:40%;">Request ID:</td><td style="padding:8px 0;color:#111827;font-size:14px;font-weight:600;font-family:monospace;">{{.RequestID}}</td></tr>
        <tr><td style="padding:8px 0;color:#6b7280;font-size:14px;">Product:</td><td style="padding:8px 0;color:#111827;font-size:14px;font-weight:600;">{{.Product}}</td></tr>
        <tr><td style="padding:8px 0;color:#6b7280;font-size:14px;">Category:</td><td style="padding:8px 0;"><span style="background-color:#dbeafe;color:#1e40af;padding:2px 8px;border-radius:12px;font-size:12px;font-weight:500;">{{.CategoryUpper}}</span></td></tr>
        <tr><td style="padding:8px 0;color:#6b7280;font-size:14px;">Current Status:</td><td style="padding:8px 0;"><span style="background-color:{{.Config.Color}};color:white;padding:4px 12px;border-radius:16px;font-size:12px;font-weight:600;">{{.StatusUpper}}</span></td></tr>
        <tr><td style="padding:8px 0;color:#6b7280;font-size:14px;">Report Name:</td><td style="padding:8px 0;color:#111827;font-size:14px;font-family:monospace;">{{.ReportLabel}}</td></tr>
        <tr><td style="padding:8px 0;color:#6b7280;font-size:14px;">Last Updated:</td><td style="padding:8px 0;color:#111827;font-size:14px;">{{.Timestamp}}</td></tr>
      </table>
    </div>
{{- if .AssignedTo}}
    <div style="background-color:#eff6ff;border:1px solid #bfdbfe;border-radius:8px;padding:16px;margin:20px 0;">
      <h4 style="margin:0 0 8px 0;color:#1e40af;font-size:14px;font-weight:600;">👤 Team Assignment</h4>
      <p style="margin:0;color:#374151;font-size:14px;">Your request has been assigned to <strong>{{.AssignedTo}}</strong> from our expert team.</p>
    </div>
{{- end}}
{{- if .ShowDownload}}
    <div style="background-color:#f0fdf4;border:1px solid #bbf7d0;border-radius:8px;padding:20px;margin:20px 0;text-align:center;">
      <h4 style="margin:0 0 12px 0;color:#15803d;font-size:16px;font-weight:600;">📥 Report Ready for Download</h4>
      <p style="margin:0 0 16px 0;color:#374151;font-size:14px;">Your <strong>{{.Product}}</strong> report is ready. Log in to the report management system to download it.</p>
      <a href="{{.ReportLink}}" style="display:inline-block;background-color:#16a34a;color:white;padding:12px 24px;text-decoration:none;border-radius:6px;font-weight:600;font-size:14px;">Access Report System</a>
    </div>
{{- end}}
    <div style="margin:30px 0;">
      <h4 style="margin:0 0 16px 0;color:#111827;font-size:14px;font-weight:600;">📈 Progress Timeline</h4>
      <div style="font-size:13px;color:#6b7280;line-height:1.8;">
{{- range .Timeline}}
        <div>{{.Icon}} {{.Name}}</div>
{{- end}}
      </div>
    </div>
    <p style="font-size:14px;color:#374151;margin:30px 0 0 0;">Best regards,<br><strong>The LKCentrix Team</strong></p>
  </div>
  <div style="background-color:#f9fafb;border-top:1px solid #e5e7eb;padding:20px;text-align:center;">
    <p style="margin:0;color:#9ca3af;font-size:12px;">This is an automated notification. Please do not reply to this email.</p>
    <p style="margin:8px 0 0 0;color:#9ca3af;font-size:12px;">© 2025 LKCentrix Report Management System. All rights reserved.</p>
  </div>
</div>
</body>
</html>
`
