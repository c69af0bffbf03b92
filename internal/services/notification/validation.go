package notification

import "qbit-backend/internal/common/validation"

// GetInputSchema returns the /send-email request schema. Optional fields accept null as absent.
func GetInputSchema() validation.JSONSchema {
	str := func(desc string) validation.Property {
		return validation.Property{Type: "string", Description: desc, Nullable: true}
	}
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"email":       {Type: "string", Description: "Recipient address", MinLength: validation.IntPtr(1)},
			"subject":     str("Legacy subject line"),
			"body":        str("Legacy free-text body"),
			"requestId":   str("Report request identifier"),
			"product":     str("Product name"),
			"category":    str("Report category"),
			"status":      str("Report status"),
			"report":      {Description: "Report name"},
			"download":    {Type: "boolean", Description: "Whether the report can be downloaded", Nullable: true},
			"report_link": str("Link to the report"),
			"assignedTo":  {Description: "Assignee full name"},
		},
		Required: []string{"email"},
	}
}
