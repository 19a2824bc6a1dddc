package leaveerrors

import (
	"net/http"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"from_date must be before or equal to_date",
		http.StatusBadRequest,
	)
	ErrHalfDayMultiDay = apperror.New(
		apperror.CodeInvalidInput,
		"half day is only allowed for single-day applications",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave status transition",
		http.StatusBadRequest,
	)
	ErrActionNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to perform this action at the current step",
		http.StatusForbidden,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting",
		http.StatusBadRequest,
	)
	ErrSplitsNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"splits can only be edited once the application reaches HOD approval",
		http.StatusBadRequest,
	)
	ErrInvalidSplits = apperror.New(
		apperror.CodeInvalidInput,
		"submitted splits failed validation",
		http.StatusBadRequest,
	)
)
