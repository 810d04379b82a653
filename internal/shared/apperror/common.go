package apperror

import (
	"net/http"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)
)

var titleCaser = cases.Title(language.English)

// FieldLabel turns a json field name into a human-readable label
// (recipient_phone -> Recipient Phone).
func FieldLabel(field string) string {
	return titleCaser.String(strings.ReplaceAll(field, "_", " "))
}

// RequiredField builds the standard "X is required" validation error.
func RequiredField(field string) *AppError {
	return New(CodeInvalidInput, FieldLabel(field)+" is required", http.StatusBadRequest)
}

// InvalidField builds the standard "X is invalid" validation error.
func InvalidField(field string) *AppError {
	return New(CodeInvalidInput, FieldLabel(field)+" is invalid", http.StatusBadRequest)
}
