package dto

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentResponse carries the fields shared by every document
type DocumentResponse struct {
	ID             uuid.UUID `json:"id"`
	DocumentNumber string    `json:"document_number"`
	DocumentDate   Date      `json:"document_date"`
	Status         string    `json:"status"`
	Note           string    `json:"note,omitempty"`
	Version        int       `json:"version"`
	TimestampResponse
}

func documentResponse(d shared.Document) DocumentResponse {
	return DocumentResponse{
		ID:             d.ID,
		DocumentNumber: d.DocumentNumber,
		DocumentDate:   Date{d.DocumentDate},
		Status:         string(d.Status),
		Note:           d.Note,
		Version:        d.Version,
		TimestampResponse: TimestampResponse{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
}

// CreateUnitRequest creates a unit of measure
type CreateUnitRequest struct {
	Code       string `json:"code" binding:"required,max=50"`
	Name       string `json:"name" binding:"required,max=200"`
	IsPackUnit bool   `json:"is_pack_unit"`
}

// UnitResponse is a unit of measure
type UnitResponse struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	IsPackUnit bool      `json:"is_pack_unit"`
}

// ToUnitResponse converts a unit
func ToUnitResponse(u *stock.Unit) UnitResponse {
	return UnitResponse{ID: u.ID, Code: u.Code, Name: u.Name, IsPackUnit: u.IsPackUnit}
}

// CreateItemRequest creates a stock item
type CreateItemRequest struct {
	SKU        string    `json:"sku" binding:"required,max=100"`
	Name       string    `json:"name" binding:"required,max=200"`
	BaseUnitID uuid.UUID `json:"base_unit_id"`
}

// ItemResponse is a stock item
type ItemResponse struct {
	ID         uuid.UUID `json:"id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	BaseUnitID uuid.UUID `json:"base_unit_id"`
}

// ToItemResponse converts an item
func ToItemResponse(i *stock.Item) ItemResponse {
	return ItemResponse{ID: i.ID, SKU: i.SKU, Name: i.Name, BaseUnitID: i.BaseUnitID}
}

// SetPricingRequest changes the markup and markdown of an item's price
type SetPricingRequest struct {
	Markup   decimal.Decimal `json:"markup"`
	MarkDown decimal.Decimal `json:"mark_down"`
}

// PriceResponse is the cost and sale basis of an item
type PriceResponse struct {
	ItemID     uuid.UUID       `json:"item_id"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	SalesPrice decimal.Decimal `json:"sales_price"`
	Markup     decimal.Decimal `json:"markup"`
	MarkDown   decimal.Decimal `json:"mark_down"`
	MinPrice   decimal.Decimal `json:"min_price"`
}

// ToPriceResponse converts a price
func ToPriceResponse(p *stock.StockPrice) PriceResponse {
	return PriceResponse{
		ItemID:     p.ItemID,
		UnitCost:   p.UnitCost,
		SalesPrice: p.SalesPrice,
		Markup:     p.Markup,
		MarkDown:   p.MarkDown,
		MinPrice:   p.MinPrice,
	}
}

// LotListRequest filters the lot listing
type LotListRequest struct {
	ListRequest
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
	ItemID      string `form:"item_id" binding:"omitempty,uuid"`
	InStockOnly bool   `form:"in_stock"`
}

// ToFilter converts the request into a lot filter
func (r LotListRequest) ToFilter() stock.LotFilter {
	f := stock.LotFilter{Filter: r.ListRequest.ToFilter(), InStockOnly: r.InStockOnly}
	if id, err := uuid.Parse(r.WarehouseID); err == nil {
		f.WarehouseID = &id
	}
	if id, err := uuid.Parse(r.ItemID); err == nil {
		f.ItemID = &id
	}
	return f
}

// LotResponse is one stock lot
type LotResponse struct {
	ID             uuid.UUID       `json:"id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	ItemID         uuid.UUID       `json:"item_id"`
	UnitID         uuid.UUID       `json:"unit_id"`
	LotNumber      string          `json:"lot_number"`
	ExpiryDate     Date            `json:"expiry_date"`
	PackSize       decimal.Decimal `json:"pack_size"`
	Quantity       decimal.Decimal `json:"quantity"`
	LooseQuantity  decimal.Decimal `json:"loose_quantity"`
	LastReceivedAt *time.Time      `json:"last_received_at,omitempty"`
	Version        int             `json:"version"`
}

// ToLotResponse converts a lot
func ToLotResponse(l *stock.StockLot) LotResponse {
	return LotResponse{
		ID:             l.ID,
		WarehouseID:    l.WarehouseID,
		ItemID:         l.ItemID,
		UnitID:         l.UnitID,
		LotNumber:      l.LotNumber,
		ExpiryDate:     Date{l.ExpiryDate},
		PackSize:       l.PackSize,
		Quantity:       l.Quantity,
		LooseQuantity:  l.LooseQuantity,
		LastReceivedAt: l.LastReceivedAt,
		Version:        l.Version,
	}
}

// LotSpecRequest describes the lot a document produces into
type LotSpecRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ItemID      uuid.UUID       `json:"item_id"`
	UnitID      uuid.UUID       `json:"unit_id"`
	LotNumber   string          `json:"lot_number" binding:"max=100"`
	ExpiryDate  Date            `json:"expiry_date"`
	PackSize    decimal.Decimal `json:"pack_size"`
}

func (r LotSpecRequest) toSpec() stock.LotSpec {
	return stock.LotSpec{
		WarehouseID: r.WarehouseID,
		ItemID:      r.ItemID,
		UnitID:      r.UnitID,
		LotNumber:   r.LotNumber,
		ExpiryDate:  r.ExpiryDate.Time,
		PackSize:    r.PackSize,
	}
}

// ProductionRequest creates or updates a production
type ProductionRequest struct {
	Lot         LotSpecRequest  `json:"lot"`
	Quantity    decimal.Decimal `json:"quantity"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	ReceivedAt  *Date           `json:"received_at"`
	Note        string          `json:"note" binding:"max=1000"`
}

// ToInput converts the request
func (r ProductionRequest) ToInput() stock.ProductionInput {
	return stock.ProductionInput{
		Lot:         r.Lot.toSpec(),
		Quantity:    r.Quantity,
		CostPerUnit: r.CostPerUnit,
		ReceivedAt:  r.ReceivedAt.Value(),
		Note:        r.Note,
	}
}

// ProductionResponse is a production document
type ProductionResponse struct {
	DocumentResponse
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ItemID      uuid.UUID       `json:"item_id"`
	UnitID      uuid.UUID       `json:"unit_id"`
	LotNumber   string          `json:"lot_number"`
	ExpiryDate  Date            `json:"expiry_date"`
	PackSize    decimal.Decimal `json:"pack_size"`
	Quantity    decimal.Decimal `json:"quantity"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	LotID       uuid.UUID       `json:"lot_id"`
}

// ToProductionResponse converts a production
func ToProductionResponse(p *stock.Production) ProductionResponse {
	return ProductionResponse{
		DocumentResponse: documentResponse(p.Document),
		WarehouseID:      p.Lot.WarehouseID,
		ItemID:           p.Lot.ItemID,
		UnitID:           p.Lot.UnitID,
		LotNumber:        p.Lot.LotNumber,
		ExpiryDate:       Date{p.Lot.ExpiryDate},
		PackSize:         p.Lot.PackSize,
		Quantity:         p.Quantity,
		CostPerUnit:      p.CostPerUnit,
		LotID:            p.LotID,
	}
}

// TransferLineRequest is one line of a transfer request
type TransferLineRequest struct {
	ID          uuid.UUID       `json:"id"`
	SourceLotID uuid.UUID       `json:"source_lot_id"`
	UnitID      uuid.UUID       `json:"unit_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// TransferRequest creates or updates a transfer
type TransferRequest struct {
	FromWarehouseID uuid.UUID             `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID             `json:"to_warehouse_id"`
	Purpose         int                   `json:"purpose" binding:"required,oneof=1 2"`
	Date            *Date                 `json:"date"`
	Note            string                `json:"note" binding:"max=1000"`
	Lines           []TransferLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToInput converts the request
func (r TransferRequest) ToInput() stock.TransferInput {
	in := stock.TransferInput{
		FromWarehouseID: r.FromWarehouseID,
		ToWarehouseID:   r.ToWarehouseID,
		Purpose:         stock.TransferPurpose(r.Purpose),
		Date:            r.Date.Value(),
		Note:            r.Note,
		Lines:           make([]stock.TransferLineInput, len(r.Lines)),
	}
	for i, l := range r.Lines {
		in.Lines[i] = stock.TransferLineInput{
			ID:          l.ID,
			SourceLotID: l.SourceLotID,
			UnitID:      l.UnitID,
			Quantity:    l.Quantity,
		}
	}
	return in
}

// TransferLineResponse is one transfer line
type TransferLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	SourceLotID      uuid.UUID       `json:"source_lot_id"`
	DestinationLotID uuid.UUID       `json:"destination_lot_id"`
	UnitID           uuid.UUID       `json:"unit_id"`
	Quantity         decimal.Decimal `json:"quantity"`
}

// TransferResponse is a transfer document
type TransferResponse struct {
	DocumentResponse
	FromWarehouseID uuid.UUID              `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID              `json:"to_warehouse_id"`
	Purpose         int                    `json:"purpose"`
	Lines           []TransferLineResponse `json:"lines"`
}

// ToTransferResponse converts a transfer
func ToTransferResponse(t *stock.Transfer) TransferResponse {
	resp := TransferResponse{
		DocumentResponse: documentResponse(t.Document),
		FromWarehouseID:  t.FromWarehouseID,
		ToWarehouseID:    t.ToWarehouseID,
		Purpose:          int(t.Purpose),
		Lines:            make([]TransferLineResponse, len(t.Lines)),
	}
	for i, l := range t.Lines {
		resp.Lines[i] = TransferLineResponse{
			ID:               l.ID,
			SourceLotID:      l.SourceLotID,
			DestinationLotID: l.DestinationLotID,
			UnitID:           l.UnitID,
			Quantity:         l.Quantity,
		}
	}
	return resp
}

// AdjustmentRequest creates or updates an adjustment
type AdjustmentRequest struct {
	LotID       uuid.UUID       `json:"lot_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	ReasonCode  string          `json:"reason_code" binding:"max=50"`
	Reason      string          `json:"reason" binding:"max=500"`
	Date        *Date           `json:"date"`
}

// ToInput converts the request
func (r AdjustmentRequest) ToInput() stock.AdjustmentInput {
	return stock.AdjustmentInput{
		LotID:       r.LotID,
		NewQuantity: r.NewQuantity,
		ReasonCode:  r.ReasonCode,
		Reason:      r.Reason,
		Date:        r.Date.Value(),
	}
}

// AdjustmentResponse is an adjustment document
type AdjustmentResponse struct {
	DocumentResponse
	LotID            uuid.UUID       `json:"lot_id"`
	WarehouseID      uuid.UUID       `json:"warehouse_id"`
	ItemID           uuid.UUID       `json:"item_id"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	Type             string          `json:"type"`
	ReasonCode       string          `json:"reason_code,omitempty"`
	Reason           string          `json:"reason,omitempty"`
}

// ToAdjustmentResponse converts an adjustment
func ToAdjustmentResponse(a *stock.Adjustment) AdjustmentResponse {
	kind := "increment"
	if a.Type == stock.AdjustmentDecrement {
		kind = "decrement"
	}
	return AdjustmentResponse{
		DocumentResponse: documentResponse(a.Document),
		LotID:            a.LotID,
		WarehouseID:      a.WarehouseID,
		ItemID:           a.ItemID,
		PreviousQuantity: a.PreviousQuantity,
		NewQuantity:      a.NewQuantity,
		Type:             kind,
		ReasonCode:       a.ReasonCode,
		Reason:           a.Reason,
	}
}

// Map converts a slice with fn
func Map[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
