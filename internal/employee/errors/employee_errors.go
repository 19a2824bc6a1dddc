// Package employeeerrors holds the typed errors the employee service returns.
package employeeerrors

import (
	"net/http"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound            = apperror.New(apperror.CodeNotFound, "Employee not found", http.StatusNotFound)
	ErrEmployeeAlreadyExists       = apperror.New(apperror.CodeConflict, "Employee with the same email already exists", http.StatusConflict)
	ErrEmployeeNumberAlreadyExists = apperror.New(apperror.CodeConflict, "Employee number already exists in this company", http.StatusConflict)
	ErrInvalidEmployeeID           = apperror.New(apperror.CodeInvalidInput, "Invalid employee ID", http.StatusBadRequest)
	ErrInvalidHireDate             = apperror.New(apperror.CodeInvalidInput, "Invalid hire_date format, expected YYYY-MM-DD", http.StatusBadRequest)
	ErrPositionNotFound            = apperror.New(apperror.CodeInvalidInput, "Position not found for this company", http.StatusBadRequest)
	ErrInvalidReportingManager     = apperror.New(apperror.CodeInvalidInput, "Reporting manager does not belong to this company", http.StatusBadRequest)
)
