package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appreport "github.com/rentworks/backend/internal/application/report"
	"github.com/rentworks/backend/internal/domain/report"
	"github.com/rentworks/backend/internal/interfaces/http/middleware"
)

// ReportHandler serves the customer financial snapshot endpoint
type ReportHandler struct {
	BaseHandler
	finance *appreport.CustomerFinanceService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(finance *appreport.CustomerFinanceService) *ReportHandler {
	return &ReportHandler{finance: finance}
}

// RegisterRoutes registers the reporting endpoints
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/customers/:id/financial-snapshot", h.GetCustomerSnapshot)
}

type snapshotQuery struct {
	Start string `form:"start" binding:"omitempty,datetime=2006-01-02"`
	End   string `form:"end" binding:"omitempty,datetime=2006-01-02"`
}

// GetCustomerSnapshot handles GET /customers/:id/financial-snapshot
func (h *ReportHandler) GetCustomerSnapshot(c *gin.Context) {
	customerID, ok := h.parseID(c)
	if !ok {
		return
	}
	var query snapshotQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var period report.Period
	if query.Start != "" {
		start, err := time.Parse("2006-01-02", query.Start)
		if err != nil {
			h.BadRequest(c, "Invalid start date")
			return
		}
		period.Start = &start
	}
	if query.End != "" {
		end, err := time.Parse("2006-01-02", query.End)
		if err != nil {
			h.BadRequest(c, "Invalid end date")
			return
		}
		// End of day, so the closing date is inclusive
		end = end.Add(24*time.Hour - time.Nanosecond)
		period.End = &end
	}

	snapshot, err := h.finance.GetSnapshot(c.Request.Context(), customerID, period)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, snapshot)
}
