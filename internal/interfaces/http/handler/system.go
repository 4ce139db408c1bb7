package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentworks/backend/internal/infrastructure/persistence"
)

// SystemHandler serves health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db      *persistence.Database
	appName string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, appName string) *SystemHandler {
	return &SystemHandler{db: db, appName: appName}
}

// RegisterRoutes registers the system endpoints
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health handles GET /health. Reports degraded with a 503 when the database
// is unreachable.
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	httpStatus := http.StatusOK
	dbStatus := "ok"

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			dbStatus = "unreachable"
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":   status,
		"app":      h.appName,
		"database": dbStatus,
	})
}
