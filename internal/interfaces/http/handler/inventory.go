package handler

import (
	stockapp "github.com/erp/stockledger/internal/application/stock"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// InventoryHandler serves units, items, prices and the read-only lot views
type InventoryHandler struct {
	BaseHandler
	inventory *stockapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventory *stockapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// CreateUnit godoc
//
//	@Summary	Create a unit of measure
//	@Tags		inventory
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.CreateUnitRequest	true	"Unit"
//	@Success	201		{object}	dto.UnitResponse
//	@Failure	409		{object}	dto.Response
//	@Router		/units [post]
func (h *InventoryHandler) CreateUnit(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req dto.CreateUnitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	u, err := h.inventory.CreateUnit(c.Request.Context(), actor, req.Code, req.Name, req.IsPackUnit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToUnitResponse(u))
}

// GetUnit returns a unit
func (h *InventoryHandler) GetUnit(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.inventory.GetUnit(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToUnitResponse(u))
}

// ListUnits returns a page of units
func (h *InventoryHandler) ListUnits(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	filter := req.ToFilter()
	units, total, err := h.inventory.ListUnits(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.Map(units, dto.ToUnitResponse), total, filter.Page, filter.PageSize)
}

// CreateItem godoc
//
//	@Summary	Create a stock item
//	@Tags		inventory
//	@Param		request	body		dto.CreateItemRequest	true	"Item"
//	@Success	201		{object}	dto.ItemResponse
//	@Router		/items [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req dto.CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.inventory.CreateItem(c.Request.Context(), actor, req.SKU, req.Name, req.BaseUnitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToItemResponse(item))
}

// GetItem returns an item
func (h *InventoryHandler) GetItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.inventory.GetItem(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToItemResponse(item))
}

// ListItems returns a page of items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	filter := req.ToFilter()
	items, total, err := h.inventory.ListItems(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.Map(items, dto.ToItemResponse), total, filter.Page, filter.PageSize)
}

// GetPrice returns the weighted cost and sale basis of an item
func (h *InventoryHandler) GetPrice(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.inventory.GetPrice(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToPriceResponse(p))
}

// SetPricing changes an item's markup and markdown
func (h *InventoryHandler) SetPricing(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SetPricingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.inventory.SetPricing(c.Request.Context(), actor, id, req.Markup, req.MarkDown)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToPriceResponse(p))
}

// GetLot returns a stock lot
func (h *InventoryHandler) GetLot(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lot, err := h.inventory.GetLot(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToLotResponse(lot))
}

// ListLots returns a page of lots filtered by warehouse, item and stock on hand
func (h *InventoryHandler) ListLots(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req dto.LotListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	filter := req.ToFilter()
	lots, total, err := h.inventory.ListLots(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.Map(lots, dto.ToLotResponse), total, filter.Page, filter.PageSize)
}
