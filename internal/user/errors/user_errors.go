// Package usererrors holds the typed errors the user service returns.
package usererrors

import (
	"net/http"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/apperror"
)

var (
	ErrUserNotFound      = apperror.New(apperror.CodeNotFound, "User not found", http.StatusNotFound)
	ErrUserAlreadyExists = apperror.New(apperror.CodeConflict, "User with the same email already exists", http.StatusConflict)
	ErrInvalidUserID     = apperror.New(apperror.CodeInvalidInput, "Invalid user ID", http.StatusBadRequest)
	ErrInvalidCompanyID  = apperror.New(apperror.CodeInvalidInput, "Invalid company ID", http.StatusBadRequest)
	ErrWrongPassword     = apperror.New(apperror.CodeInvalidInput, "Current password is incorrect", http.StatusBadRequest)
)
