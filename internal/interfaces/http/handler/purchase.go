package handler

import (
	"context"
	"errors"

	tradeapp "github.com/erp/stockledger/internal/application/trade"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ReceiptHandler serves /receipts and the bills raised against them
type ReceiptHandler struct {
	*DocumentHandler[trade.Receipt, trade.ReceiptInput, dto.ReceiptRequest, dto.ReceiptResponse]
	bills *tradeapp.BillService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiving *tradeapp.ReceivingService, bills *tradeapp.BillService) *ReceiptHandler {
	return &ReceiptHandler{
		DocumentHandler: NewDocumentHandler[trade.Receipt, trade.ReceiptInput, dto.ReceiptRequest](
			receiving, dto.ToReceiptResponse,
			UUIDParam("vendor_id"), UUIDParam("warehouse_id"),
		),
		bills: bills,
	}
}

// Bills lists the bills of a receipt
func (h *ReceiptHandler) Bills(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	bills, err := h.bills.ForReceipt(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.Map(bills, dto.ToBillResponse))
}

// billDocuments adapts BillService to the document lifecycle; bills created
// over HTTP are always standalone since receipts raise their own.
type billDocuments struct {
	*tradeapp.BillService
}

func (b billDocuments) Create(ctx context.Context, actor shared.Actor, in trade.StandaloneBillInput) (*trade.Bill, error) {
	return b.CreateStandalone(ctx, actor, in)
}

// BillHandler serves /bills
type BillHandler struct {
	*DocumentHandler[trade.Bill, trade.StandaloneBillInput, dto.BillRequest, dto.BillResponse]
	bills *tradeapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(bills *tradeapp.BillService) *BillHandler {
	return &BillHandler{
		DocumentHandler: NewDocumentHandler[trade.Bill, trade.StandaloneBillInput, dto.BillRequest](
			billDocuments{bills}, dto.ToBillResponse,
			UUIDParam("vendor_id"), UUIDParam("receipt_id"),
			QueryParam{Name: "payment_status", Parse: parseBillPaymentStatus},
		),
		bills: bills,
	}
}

func parseBillPaymentStatus(s string) (any, error) {
	for _, st := range []trade.BillPaymentStatus{trade.BillPartial, trade.BillFull, trade.BillWaiting} {
		if st.String() == s {
			return int(st), nil
		}
	}
	return nil, errors.New("unknown payment status")
}

// Pay records a payment against a bill
func (h *BillHandler) Pay(c *gin.Context) {
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
	bill, err := h.bills.Pay(c.Request.Context(), actor, id, req.Amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToBillResponse(bill))
}

// PurchaseReturnHandler serves /purchase-returns
type PurchaseReturnHandler = DocumentHandler[trade.PurchaseReturn, trade.ReturnInput, dto.ReturnRequest, dto.PurchaseReturnResponse]

// NewPurchaseReturnHandler creates a new PurchaseReturnHandler
func NewPurchaseReturnHandler(svc *tradeapp.PurchaseReturnService) *PurchaseReturnHandler {
	return NewDocumentHandler[trade.PurchaseReturn, trade.ReturnInput, dto.ReturnRequest](
		svc, dto.ToPurchaseReturnResponse,
		UUIDParam("receipt_id"), UUIDParam("warehouse_id"),
	)
}
