package company

import (
	"net/http"

	companyerrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/company/errors"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/apperror"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("company.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// companyFromContext reads the tenant id the auth middleware stored. The
// company surface only ever operates on the caller's own tenant.
func companyFromContext(c *gin.Context) (string, bool) {
	companyID := c.GetString("company_id")
	if companyID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Company ID not found in context", nil)
		return "", false
	}
	return companyID, true
}

func (h *Handler) GetMe(c *gin.Context) {
	companyID, ok := companyFromContext(c)
	if !ok {
		return
	}

	comp, err := h.service.GetByID(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, comp, nil)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	companyID, ok := companyFromContext(c)
	if !ok {
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	comp, err := h.service.Update(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, comp, nil)
}

func (h *Handler) UpsertRegistration(c *gin.Context) {
	companyID, ok := companyFromContext(c)
	if !ok {
		return
	}

	var req UpsertCompanyRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	if err := h.service.UpsertRegistration(c.Request.Context(), companyID, req); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListRegistrations(c *gin.Context) {
	companyID, ok := companyFromContext(c)
	if !ok {
		return
	}

	result, err := h.service.ListRegistrations(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) DeleteRegistration(c *gin.Context) {
	companyID, ok := companyFromContext(c)
	if !ok {
		return
	}

	typeParam := c.Param("type")
	if typeParam == "" {
		h.writeServiceError(c, companyerrors.ErrInvalidRegistrationType)
		return
	}

	if err := h.service.DeleteRegistration(c.Request.Context(), companyID, RegistrationType(typeParam)); err != nil {
		h.logger.Warn("delete registration failed",
			zap.String("type", typeParam),
			zap.Error(err),
		)
		h.writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
