package search

import "qbit-backend/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"query"},
		Properties: map[string]validation.Property{
			"query": {
				Type:        "string",
				Description: "Free-text product query",
				MaxLength:   validation.IntPtr(500),
			},
			"category": {
				Type:        "string",
				Description: "Optional category appended to the query",
				MaxLength:   validation.IntPtr(200),
			},
		},
	}
}
