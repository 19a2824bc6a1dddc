package rbacerrors

import (
	"net/http"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/apperror"
)

var (
	ErrRoleNotFound = apperror.New(
		apperror.CodeNotFound,
		"role not found",
		http.StatusNotFound,
	)
	ErrRoleNameTaken = apperror.New(
		apperror.CodeConflict,
		"a role with this name already exists",
		http.StatusConflict,
	)
)
