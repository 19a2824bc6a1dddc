package onduty

import (
	"net/http"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/apperror"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/response"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("onduty.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("onduty.handler")
	}
	return &Handler{service: service, logger: l}
}

func actorFromContext(c *gin.Context) workflow.Actor {
	return workflow.Actor{
		EmployeeID: c.GetString("employee_id"),
		Role:       workflow.Role(c.GetString("role")),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("on-duty request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateOnDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create on-duty validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Create(ctx, c.GetString("company_id"), c.GetString("employee_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context(), c.GetString("company_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("company_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Verify(c *gin.Context) {
	h.performAction(c, workflow.ActionVerify)
}

func (h *Handler) Approve(c *gin.Context) {
	h.performAction(c, workflow.ActionApprove)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.performAction(c, workflow.ActionCancel)
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectOnDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http reject on-duty validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.PerformAction(c.Request.Context(), c.GetString("company_id"), actorFromContext(c), c.Param("id"), workflow.ActionReject, req.RejectionReason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) performAction(c *gin.Context, action workflow.Action) {
	var req ActionRequest
	_ = c.ShouldBindJSON(&req)

	resp, err := h.service.PerformAction(c.Request.Context(), c.GetString("company_id"), actorFromContext(c), c.Param("id"), action, req.Notes)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString("company_id"), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
