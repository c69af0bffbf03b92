// internal/models/report.go
package models

import "time"

const (
	ReportStatusUnassigned = "Unassigned"
	ReportStatusAssigned   = "Assigned"
	ReportStatusInprogress = "Inprogress"
	ReportStatusComplete   = "Complete"
	ReportStatusRejected   = "Rejected"
)

// ReportRequest is a row of report_requests.
type ReportRequest struct {
	ID           int       `db:"id"`
	RequestID    string    `db:"request_id"`
	Category     string    `db:"category"`
	Product      string    `db:"product"`
	Status       string    `db:"status"`
	Report       string    `db:"report"`
	Download     bool      `db:"download"`
	AssignedToID *int      `db:"assigned_to_id"`
	CreatedAt    time.Time `db:"created_at"`
}

// ReportRequestView is the list projection with the assignee's resolved name.
type ReportRequestView struct {
	RequestID  string `json:"requestId"`
	Category   string `json:"category"`
	Product    string `json:"product"`
	Status     string `json:"status"`
	Report     string `json:"report"`
	Download   bool   `json:"download"`
	AssignedTo string `json:"assignedTo"`
	Locked     bool   `json:"locked"`
}
