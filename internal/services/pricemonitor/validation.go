package pricemonitor

import "qbit-backend/internal/common/validation"

func priceBound(description string) validation.Property {
	return validation.Property{
		Type:        "number",
		Description: description,
		Minimum:     validation.FloatPtr(0),
	}
}

// GetScanSchema covers the scan and export bodies.
func GetScanSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"queries"},
		Properties: map[string]validation.Property{
			"queries": {
				Type:        "array",
				Description: "Product queries to run in order",
				MinItems:    validation.IntPtr(1),
				MaxItems:    validation.IntPtr(25),
				Items: &validation.Property{
					Type:      "string",
					MinLength: validation.IntPtr(1),
				},
			},
			"min_price": priceBound("Inclusive lower price bound"),
			"max_price": priceBound("Inclusive upper price bound"),
			"upload": {
				Type:        "boolean",
				Description: "Upload the export to object storage instead of returning it",
			},
		},
		AdditionalProperties: validation.BoolPtr(false),
	}
}

func GetCompareSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"query"},
		Properties: map[string]validation.Property{
			"query": {
				Type:        "string",
				Description: "Product query",
				MinLength:   validation.IntPtr(1),
			},
			"min_price": priceBound("Lower bound applied after statistics"),
			"max_price": priceBound("Upper bound applied after statistics"),
		},
		AdditionalProperties: validation.BoolPtr(false),
	}
}
