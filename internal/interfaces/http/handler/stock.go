package handler

import (
	stockapp "github.com/erp/stockledger/internal/application/stock"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
)

// ProductionHandler serves /productions
type ProductionHandler = DocumentHandler[stock.Production, stock.ProductionInput, dto.ProductionRequest, dto.ProductionResponse]

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(svc *stockapp.ProductionService) *ProductionHandler {
	return NewDocumentHandler[stock.Production, stock.ProductionInput, dto.ProductionRequest](
		svc, dto.ToProductionResponse,
		UUIDParam("warehouse_id"), UUIDParam("item_id"),
	)
}

// TransferHandler serves /transfers
type TransferHandler = DocumentHandler[stock.Transfer, stock.TransferInput, dto.TransferRequest, dto.TransferResponse]

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(svc *stockapp.TransferService) *TransferHandler {
	return NewDocumentHandler[stock.Transfer, stock.TransferInput, dto.TransferRequest](
		svc, dto.ToTransferResponse,
		UUIDParam("from_warehouse_id"), UUIDParam("to_warehouse_id"), IntParam("purpose"),
	)
}

// AdjustmentHandler serves /adjustments
type AdjustmentHandler = DocumentHandler[stock.Adjustment, stock.AdjustmentInput, dto.AdjustmentRequest, dto.AdjustmentResponse]

// NewAdjustmentHandler creates a new AdjustmentHandler
func NewAdjustmentHandler(svc *stockapp.AdjustmentService) *AdjustmentHandler {
	return NewDocumentHandler[stock.Adjustment, stock.AdjustmentInput, dto.AdjustmentRequest](
		svc, dto.ToAdjustmentResponse,
		UUIDParam("lot_id"), UUIDParam("warehouse_id"), UUIDParam("item_id"),
	)
}
