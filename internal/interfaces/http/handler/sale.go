package handler

import (
	tradeapp "github.com/erp/stockledger/internal/application/trade"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler serves /invoices
type InvoiceHandler struct {
	*DocumentHandler[trade.Invoice, trade.InvoiceInput, dto.InvoiceRequest, dto.InvoiceResponse]
	sales *tradeapp.SaleService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(sales *tradeapp.SaleService) *InvoiceHandler {
	return &InvoiceHandler{
		DocumentHandler: NewDocumentHandler[trade.Invoice, trade.InvoiceInput, dto.InvoiceRequest](
			sales, dto.ToInvoiceResponse,
			UUIDParam("customer_id"), UUIDParam("warehouse_id"), StringParam("payment_status"),
		),
		sales: sales,
	}
}

// RecordPayment records money received against an invoice
//
//	@Summary	Record an invoice payment
//	@Tags		invoices
//	@Param		id		path		string				true	"Invoice ID"	format(uuid)
//	@Param		request	body		dto.PaymentRequest	true	"Amount received"
//	@Success	200		{object}	dto.InvoiceResponse
//	@Failure	422		{object}	dto.Response
//	@Router		/invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	inv, err := h.sales.RecordPayment(c.Request.Context(), actor, id, req.Amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToInvoiceResponse(inv))
}

// SaleReturnHandler serves /sale-returns
type SaleReturnHandler = DocumentHandler[trade.SaleReturn, trade.ReturnInput, dto.ReturnRequest, dto.SaleReturnResponse]

// NewSaleReturnHandler creates a new SaleReturnHandler
func NewSaleReturnHandler(svc *tradeapp.SaleReturnService) *SaleReturnHandler {
	return NewDocumentHandler[trade.SaleReturn, trade.ReturnInput, dto.ReturnRequest](
		svc, dto.ToSaleReturnResponse,
		UUIDParam("invoice_id"),
	)
}
