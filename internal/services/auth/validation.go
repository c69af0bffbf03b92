package auth

import "qbit-backend/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"email": {
				Type:        "string",
				Description: "Registered email address",
				MinLength:   validation.IntPtr(1),
			},
			"password": {
				Type:        "string",
				Description: "Account password",
				MinLength:   validation.IntPtr(1),
			},
		},
		Required: []string{"email", "password"},
	}
}
