package apperror

import (
	"net/http"
	"strings"
)

// Field pairs a json field name with the submitted value for required-field
// checks.
type Field struct {
	Name  string
	Value string
}

// MissingRequired checks every field in order and aggregates all blank ones
// into a single AppError ("Name is required, Email is required"), or returns
// nil when everything is present. Required-field checks are the only
// validation the API aggregates; all later checks fail fast.
func MissingRequired(fields ...Field) *AppError {
	var msgs []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			msgs = append(msgs, FieldLabel(f.Name)+" is required")
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return New(CodeInvalidInput, strings.Join(msgs, ", "), http.StatusBadRequest)
}
