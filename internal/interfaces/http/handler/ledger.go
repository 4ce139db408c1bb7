package handler

import (
	"github.com/gin-gonic/gin"

	appledger "github.com/rentworks/backend/internal/application/ledger"
	"github.com/rentworks/backend/internal/interfaces/http/dto"
	"github.com/rentworks/backend/internal/interfaces/http/middleware"
)

// LedgerHandler serves the account catalogue and mapping endpoints
type LedgerHandler struct {
	BaseHandler
	mappings *appledger.MappingService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(mappings *appledger.MappingService) *LedgerHandler {
	return &LedgerHandler{mappings: mappings}
}

// RegisterRoutes registers the ledger endpoints
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/accounts", h.ListAccounts)
	mappings := rg.Group("/account-mappings")
	{
		mappings.GET("", h.ListMappings)
		mappings.GET("/resolved", h.GetResolvedMappings)
	}
}

// ListAccounts handles GET /accounts
func (h *LedgerHandler) ListAccounts(c *gin.Context) {
	var req dto.AccountListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	accounts, err := h.mappings.ListAccounts(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, accounts)
}

// ListMappings handles GET /account-mappings
func (h *LedgerHandler) ListMappings(c *gin.Context) {
	mappings, err := h.mappings.ListMappings(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, mappings)
}

// GetResolvedMappings handles GET /account-mappings/resolved
func (h *LedgerHandler) GetResolvedMappings(c *gin.Context) {
	resolved, err := h.mappings.Resolve(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dto.NewResolvedMappingsResponse(resolved))
}
