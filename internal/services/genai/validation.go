package genai

import "qbit-backend/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"message": {
				Type:        "string",
				Description: "The user's new chat message",
			},
			"history": {
				Type:        "array",
				Description: "Prior turns in provider format",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"role", "parts"},
					Properties: map[string]validation.Property{
						"role": {
							Type: "string",
							Enum: []string{"user", "model"},
						},
						"parts": {
							Type: "array",
							Items: &validation.Property{
								Type: "object",
								Properties: map[string]validation.Property{
									"text": {Type: "string"},
								},
							},
						},
					},
				},
			},
		},
	}
}
