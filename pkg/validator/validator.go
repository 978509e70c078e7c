// Package validator decodes JSON request bodies and checks them against
// go-playground/validator tags. Field names in error responses are the json
// names clients send, e.g. "theme_mode" or "text".
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/shoppinglist/pkg/httpx"
)

// ValidationErrorResponse is the 422 body written by ValidateRequest.
type ValidationErrorResponse struct {
	Error  string            `json:"error"  example:"Validation failed"`
	Fields map[string]string `json:"fields"`
} // @name ValidationErrorResponse

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate runs the struct's validate tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors maps each failing field to a message. Errors that
// are not validation errors yield an empty map.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, e := range ve {
		out[e.Field()] = formatFieldError(e)
	}
	return out
}

func formatFieldError(e validator.FieldError) string {
	text := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min", "gte":
		if text {
			return fmt.Sprintf("Must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("Must be at least %s", e.Param())
	case "max", "lte":
		if text {
			return fmt.Sprintf("Must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("Must be at most %s", e.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(e.Param(), " ", ", "))
	case "hexcolor":
		return "Must be a hex color such as #F5E4B5"
	default:
		return fmt.Sprintf("Failed the %q check", e.Tag())
	}
}

// ValidateRequest decodes the JSON body into T and validates it. On failure it
// writes the response and returns false:
//   - 413 when the body exceeds the router's size limit,
//   - 400 for an empty body, malformed JSON or a field T does not declare,
//   - 422 with per-field messages when validation fails.
//
// Unknown fields are rejected so a misspelled PATCH field is not silently
// ignored.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		status, msg := decodeFailure(err)
		httpx.JSONError(w, status, msg)
		return nil, false
	}
	if err := Validate(&req); err != nil {
		httpx.JSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
			Error:  "Validation failed",
			Fields: FormatValidationErrors(err),
		})
		return nil, false
	}
	return &req, true
}

func decodeFailure(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	case errors.Is(err, io.EOF):
		return http.StatusBadRequest, "Request body is required"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return http.StatusBadRequest, "Unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	default:
		return http.StatusBadRequest, "Invalid JSON"
	}
}
