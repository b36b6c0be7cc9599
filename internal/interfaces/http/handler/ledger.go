package handler

import (
	"context"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// LedgerHandler serves the transaction ledger and its classification catalog
type LedgerHandler struct {
	BaseHandler
	ledger *appledger.Service
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(svc *appledger.Service) *LedgerHandler {
	return &LedgerHandler{ledger: svc}
}

// ListEntries godoc
//
//	@Summary	List ledger entries
//	@Tags		ledger
//	@Produce	json
//	@Param		group			query		int		false	"Group code"
//	@Param		type			query		int		false	"Type code"
//	@Param		head			query		int		false	"Head code"
//	@Param		entry_status	query		string	false	"open or posted"
//	@Success	200				{object}	dto.Response
//	@Router		/ledger/entries [get]
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req dto.EntryListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	filter := req.ToFilter()
	ctx := c.Request.Context()
	entries, total, err := h.ledger.List(ctx, actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	catalog, err := h.ledger.Catalog(ctx, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := dto.Map(entries, func(e *ledger.Entry) dto.EntryResponse { return dto.ToEntryResponse(e, catalog) })
	h.SuccessWithMeta(c, resp, total, filter.Page, filter.PageSize)
}

// GetEntry returns one entry
func (h *LedgerHandler) GetEntry(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	h.renderEntry(c, actor, func(ctx context.Context) (*ledger.Entry, error) {
		return h.ledger.Get(ctx, actor, id)
	})
}

// GetEntryByNumber returns the entry recorded for a document number
func (h *LedgerHandler) GetEntryByNumber(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	number := c.Param("number")
	h.renderEntry(c, actor, func(ctx context.Context) (*ledger.Entry, error) {
		return h.ledger.GetByNumber(ctx, actor, number)
	})
}

// PostEntry moves an open entry to posted
func (h *LedgerHandler) PostEntry(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	h.renderEntry(c, actor, func(ctx context.Context) (*ledger.Entry, error) {
		return h.ledger.Post(ctx, actor, id)
	})
}

func (h *LedgerHandler) renderEntry(c *gin.Context, actor shared.Actor, load func(context.Context) (*ledger.Entry, error)) {
	ctx := c.Request.Context()
	entry, err := load(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	catalog, err := h.ledger.Catalog(ctx, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToEntryResponse(entry, catalog))
}

// ListTypes returns the tenant's custom types
func (h *LedgerHandler) ListTypes(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	types, err := h.ledger.Types(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.Map(types, dto.ToCustomTypeResponse))
}

// RegisterType adds a custom income or expense type
func (h *LedgerHandler) RegisterType(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req dto.RegisterTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	t, err := h.ledger.RegisterType(c.Request.Context(), actor, appledger.RegisterTypeInput{
		Code:  ledger.Type(req.Code),
		Name:  req.Name,
		Group: ledger.Group(req.Group),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToCustomTypeResponse(t))
}

// Catalog returns every group, type and head label visible to the tenant
func (h *LedgerHandler) Catalog(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	catalog, err := h.ledger.Catalog(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToCatalogResponse(catalog))
}
