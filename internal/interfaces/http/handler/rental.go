package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apprental "github.com/rentworks/backend/internal/application/rental"
	"github.com/rentworks/backend/internal/interfaces/http/dto"
	"github.com/rentworks/backend/internal/interfaces/http/middleware"
)

// RentalHandler serves the rental agreement and item endpoints
type RentalHandler struct {
	BaseHandler
	agreements *apprental.AgreementService
	items      *apprental.ItemService
}

// NewRentalHandler creates a new RentalHandler
func NewRentalHandler(agreements *apprental.AgreementService, items *apprental.ItemService) *RentalHandler {
	return &RentalHandler{agreements: agreements, items: items}
}

// RegisterRoutes registers the rental endpoints
func (h *RentalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	agreements := rg.Group("/rental-agreements")
	{
		agreements.POST("", h.CreateAgreement)
		agreements.GET("", h.ListAgreements)
		agreements.GET("/:id", h.GetAgreement)
		agreements.POST("/:id/payments", h.RecordPayment)
		agreements.POST("/:id/return", h.ProcessReturn)
	}
	items := rg.Group("/rental-items")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
	}
}

// CreateAgreement handles POST /rental-agreements
func (h *RentalHandler) CreateAgreement(c *gin.Context) {
	var req dto.CreateAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		h.BadRequest(c, "Invalid UUID in request")
		return
	}

	agreement, err := h.agreements.CreateAgreement(c.Request.Context(), cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, dto.NewAgreementResponse(apprental.NewAgreementView(agreement, time.Now())))
}

// ListAgreements handles GET /rental-agreements
func (h *RentalHandler) ListAgreements(c *gin.Context) {
	var req dto.AgreementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	filter, err := req.ToFilter()
	if err != nil {
		h.BadRequest(c, "Invalid UUID in query")
		return
	}

	views, total, err := h.agreements.ListAgreements(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	responses := make([]dto.AgreementResponse, len(views))
	for i, view := range views {
		responses[i] = dto.NewAgreementResponse(view)
	}
	h.SuccessWithMeta(c, responses, total, filter.Page, filter.PageSize)
}

// GetAgreement handles GET /rental-agreements/:id
func (h *RentalHandler) GetAgreement(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	view, err := h.agreements.GetAgreement(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dto.NewAgreementResponse(*view))
}

// RecordPayment handles POST /rental-agreements/:id/payments
func (h *RentalHandler) RecordPayment(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		h.BadRequest(c, "Invalid UUID in request")
		return
	}

	agreement, err := h.agreements.RecordPayment(c.Request.Context(), id, cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dto.NewAgreementResponse(apprental.NewAgreementView(agreement, time.Now())))
}

// ProcessReturn handles POST /rental-agreements/:id/return
func (h *RentalHandler) ProcessReturn(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req dto.ProcessReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		h.BadRequest(c, "Invalid UUID in request")
		return
	}

	agreement, err := h.agreements.ProcessReturn(c.Request.Context(), id, cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dto.NewAgreementResponse(apprental.NewAgreementView(agreement, time.Now())))
}

// CreateItem handles POST /rental-items
func (h *RentalHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	item, err := h.items.CreateItem(c.Request.Context(), apprental.CreateItemCommand{
		Name:       req.Name,
		SKU:        req.SKU,
		RentalRate: req.RentalRate,
		Quantity:   req.Quantity,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, item)
}

// ListItems handles GET /rental-items
func (h *RentalHandler) ListItems(c *gin.Context) {
	items, err := h.items.ListItems(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

func (h *BaseHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid ID")
		return uuid.Nil, false
	}
	return id, true
}
