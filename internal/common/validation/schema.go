package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema defines the structure for request schemas. It marshals to draft-07 JSON Schema.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type        string              `json:"type,omitempty"`
	Description string              `json:"description,omitempty"`
	Default     interface{}         `json:"default,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	Format      string              `json:"format,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	MinItems    *int                `json:"minItems,omitempty"`
	MaxItems    *int                `json:"maxItems,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
	// Nullable also accepts JSON null for a typed property.
	Nullable bool `json:"-"`
}

// MarshalJSON writes a nullable property's type as [type, "null"].
func (p Property) MarshalJSON() ([]byte, error) {
	type plain Property
	if !p.Nullable || p.Type == "" {
		return json.Marshal(plain(p))
	}
	return json.Marshal(struct {
		plain
		Type []string `json:"type"`
	}{plain(p), []string{p.Type, "null"}})
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput validates a decoded JSON document against schema.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	return validate(gojsonschema.NewGoLoader(input), schema)
}

// ValidateJSON validates a raw JSON document against schema.
func ValidateJSON(raw []byte, schema JSONSchema) *ValidationResult {
	return validate(gojsonschema.NewBytesLoader(raw), schema)
}

func validate(doc gojsonschema.JSONLoader, schema JSONSchema) *ValidationResult {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), doc)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "INVALID_DOCUMENT",
			}},
		}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldName(e),
			Message: e.Description(),
			Code:    errorCode(e.Type()),
		})
	}

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errs,
	}
}

func fieldName(e gojsonschema.ResultError) string {
	field := e.Field()
	if e.Type() != "required" {
		return field
	}
	prop, _ := e.Details()["property"].(string)
	if field == "(root)" || field == "" {
		return prop
	}
	return field + "." + prop
}

var errorCodes = map[string]string{
	"required":                        "REQUIRED_FIELD_MISSING",
	"invalid_type":                    "INVALID_TYPE",
	"string_gte":                      "MIN_LENGTH_VIOLATION",
	"string_lte":                      "MAX_LENGTH_VIOLATION",
	"number_gte":                      "MINIMUM_VIOLATION",
	"number_lte":                      "MAXIMUM_VIOLATION",
	"pattern":                         "PATTERN_MISMATCH",
	"enum":                            "INVALID_ENUM_VALUE",
	"additional_property_not_allowed": "EXTRA_FIELD",
	"array_min_items":                 "MIN_ITEMS_VIOLATION",
	"array_max_items":                 "MAX_ITEMS_VIOLATION",
	"format":                          "INVALID_FORMAT",
}

func errorCode(t string) string {
	if code, ok := errorCodes[t]; ok {
		return code
	}
	return strings.ToUpper(t)
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Summary joins all messages into one line for error details.
func (vr *ValidationResult) Summary() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func IntPtr(i int) *int { return &i }

func FloatPtr(f float64) *float64 { return &f }

func BoolPtr(b bool) *bool { return &b }
