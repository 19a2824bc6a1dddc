package leave

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/apperror"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/response"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func actorFromContext(c *gin.Context) workflow.Actor {
	return workflow.Actor{
		EmployeeID: c.GetString("employee_id"),
		Role:       workflow.Role(c.GetString("role")),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	actorID := c.GetString("employee_id")

	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")
	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(ctx, lk)
		}
	}

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Create(ctx, companyID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(ctx, ck, payload, 24*time.Hour).Err()
			}
		}
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
	ctx := c.Request.Context()

	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http reject leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.PerformAction(ctx, c.GetString("company_id"), actorFromContext(c), c.Param("id"), workflow.ActionReject, req.RejectionReason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) performAction(c *gin.Context, action workflow.Action) {
	ctx := c.Request.Context()

	// Notes are optional on non-reject actions; an empty body is fine.
	var req ActionRequest
	_ = c.ShouldBindJSON(&req)

	resp, err := h.service.PerformAction(ctx, c.GetString("company_id"), actorFromContext(c), c.Param("id"), action, req.Notes)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetSplitDraft(c *gin.Context) {
	splits, err := h.service.GetSplitDraft(c.Request.Context(), c.GetString("company_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"splits": splits}, nil)
}

func (h *Handler) ValidateSplits(c *gin.Context) {
	ctx := c.Request.Context()

	var req ReplaceSplitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http validate splits binding failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	result, err := h.service.ValidateSplits(ctx, c.GetString("company_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) ReplaceSplits(c *gin.Context) {
	ctx := c.Request.Context()

	var req ReplaceSplitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http replace splits binding failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.ReplaceSplits(ctx, c.GetString("company_id"), actorFromContext(c), c.Param("id"), req)
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
