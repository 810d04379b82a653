package leaveerrors

import (
	"net/http"

	"lms/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeConflict,
		"Leave request not found or already processed",
		http.StatusConflict,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidDurationUnit = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid duration unit, expected days or hours",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrEndNotAfterStart = apperror.New(
		apperror.CodeInvalidInput,
		"End date must be after start date",
		http.StatusBadRequest,
	)
	ErrStartInPast = apperror.New(
		apperror.CodeInvalidInput,
		"Cannot apply for leave in the past",
		http.StatusBadRequest,
	)
	ErrReasonTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"Reason must be at least 10 characters",
		http.StatusBadRequest,
	)
	ErrRejectedReasonTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"Rejection reason must be at least 5 characters",
		http.StatusBadRequest,
	)
)
