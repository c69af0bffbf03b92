package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/common/logger"
	"qbit-backend/internal/common/validation"
)

const maxBodyBytes = 1 << 20

// Handler holds the route handlers.
type Handler struct {
	deps     Dependencies
	errs     *errors.ErrorHandler
	validate *validator.Validate
}

func newHandler(deps Dependencies) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		deps:     deps,
		errs:     errors.NewErrorHandler(deps.Logger),
		validate: v,
	}
}

func (h *Handler) log(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), h.deps.Logger)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	errors.WriteEnvelope(w, status, body)
}

func message(msg string) map[string]interface{} {
	return map[string]interface{}{"message": msg}
}

// decode reads the JSON body into dst and returns the raw bytes. An empty body decodes as {}.
func decode(r *http.Request, dst interface{}) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.NewInvalidArgumentError("Invalid request body", err.Error())
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, errors.NewInvalidArgumentError("Invalid JSON body", err.Error())
	}
	return raw, nil
}

// checkSchema validates raw against schema.
func checkSchema(raw []byte, schema validation.JSONSchema) error {
	result := validation.ValidateJSON(raw, schema)
	if result.Valid {
		return nil
	}
	return errors.NewInvalidArgumentError(result.Summary(), "schema validation failed")
}

// checkStruct runs the validator tags on dto.
func (h *Handler) checkStruct(dto interface{}) error {
	err := h.validate.Struct(dto)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewInvalidArgumentError("Invalid request body", err.Error())
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return errors.NewInvalidArgumentError(strings.Join(msgs, "; "), "")
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s rule", fe.Field(), fe.Tag())
	}
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": "Not Found"})
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{"error": "Method Not Allowed"})
}
