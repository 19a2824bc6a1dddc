// Package companyerrors holds the typed errors the company service returns.
package companyerrors

import (
	"net/http"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/apperror"
)

var (
	ErrCompanyNotFound         = apperror.New(apperror.CodeNotFound, "Company not found", http.StatusNotFound)
	ErrInvalidCompanyID        = apperror.New(apperror.CodeInvalidInput, "Invalid company ID", http.StatusBadRequest)
	ErrInvalidRegistrationType = apperror.New(apperror.CodeInvalidInput, "Invalid registration type", http.StatusBadRequest)
	ErrMissingRequiredFields   = apperror.New(apperror.CodeInvalidInput, "Missing required fields", http.StatusBadRequest)
)
