package employee

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

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
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("employee create rejected", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}
	h.logger.Debug("creating employee",
		zap.String("company_id", companyID),
		zap.String("employee_number", req.EmployeeNumber),
	)

	resp, err := h.service.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

// matchEmployees keeps the rows whose name or secondary field contains the
// lower-cased needle. An empty needle keeps everything.
func matchEmployees(rows []EmployeeResponse, needle string, secondary func(EmployeeResponse) string) []EmployeeResponse {
	if needle == "" {
		return rows
	}
	kept := make([]EmployeeResponse, 0, len(rows))
	for _, e := range rows {
		if strings.Contains(strings.ToLower(e.FullName), needle) ||
			strings.Contains(strings.ToLower(secondary(e)), needle) {
			kept = append(kept, e)
		}
	}
	return kept
}

func orderEmployees(rows []EmployeeResponse, sortBy, sortDir string) {
	key := func(e EmployeeResponse) string {
		switch sortBy {
		case "email":
			return strings.ToLower(e.Email)
		case "id":
			return e.ID
		default:
			return strings.ToLower(e.FullName)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if sortDir == "desc" {
			return key(rows[i]) > key(rows[j])
		}
		return key(rows[i]) < key(rows[j])
	})
}

func pageBounds(c *gin.Context, n int) (start, end, page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}
	start = (page - 1) * pageSize
	if start > n {
		start = n
	}
	end = start + pageSize
	if end > n {
		end = n
	}
	return start, end, page, pageSize
}

// GetAll serves the roster listing. The dataset is small enough per company
// that filtering, ordering, and paging happen in memory on top of the cached
// read path.
func (h *Handler) GetAll(c *gin.Context) {
	companyID := c.GetString("company_id")

	rows, err := h.service.GetAll(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	q := strings.TrimSpace(strings.ToLower(c.Query("q")))
	rows = matchEmployees(rows, q, func(e EmployeeResponse) string { return e.Email })

	sortBy := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_by", "name")))
	sortDir := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_dir", "asc")))
	orderEmployees(rows, sortBy, sortDir)

	start, end, page, pageSize := pageBounds(c, len(rows))
	meta := response.NewPaginationMeta(int64(len(rows)), page, pageSize)
	response.Success(c, http.StatusOK, rows[start:end], &meta)
}

// GetOptions serves the lightweight picker list used by application forms.
// The q filter matches names and employee numbers.
func (h *Handler) GetOptions(c *gin.Context) {
	companyID := c.GetString("company_id")

	rows, err := h.service.GetOptions(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	q := strings.TrimSpace(strings.ToLower(c.Query("q")))
	rows = matchEmployees(rows, q, func(e EmployeeResponse) string { return e.EmployeeNumber })

	response.Success(c, http.StatusOK, rows, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	companyID := c.GetString("company_id")
	targetID := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, targetID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	companyID := c.GetString("company_id")
	targetID := c.Param("id")

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("employee update rejected",
			zap.String("employee_id", targetID),
			zap.Error(err),
		)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), companyID, targetID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	companyID := c.GetString("company_id")
	targetID := c.Param("id")
	h.logger.Info("deleting employee",
		zap.String("company_id", companyID),
		zap.String("employee_id", targetID),
	)

	if err := h.service.Delete(c.Request.Context(), companyID, targetID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
