package models

import (
	"time"

	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLotModel is the persistence model for a stock lot.
// (tenant_id, warehouse_id, item_id, identity) is the natural merge key.
type StockLotModel struct {
	BaseModel
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_lots_natural_key,priority:1"`
	Version        int             `gorm:"not null;default:1"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid"`
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_lots_natural_key,priority:2"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_lots_natural_key,priority:3;index:idx_stock_lots_sale,priority:2"`
	Identity       string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_stock_lots_natural_key,priority:4"`
	LotNumber      string          `gorm:"type:varchar(100);not null"`
	ExpiryDate     *time.Time      `gorm:"type:date;index:idx_stock_lots_sale,priority:3"`
	UnitID         uuid.UUID       `gorm:"type:uuid;not null"`
	PackSize       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LooseQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastReceivedAt *time.Time
	PriceID        *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockLotModel) TableName() string {
	return "stock_lots"
}

// ToDomain converts the model to a domain stock lot
func (m *StockLotModel) ToDomain() *stock.StockLot {
	return &stock.StockLot{
		TenantAggregateRoot: rootFromColumns(m.BaseModel, m.TenantID, m.Version, m.CreatedBy),
		WarehouseID:         m.WarehouseID,
		ItemID:              m.ItemID,
		Identity:            m.Identity,
		LotNumber:           m.LotNumber,
		ExpiryDate:          fromNullableDate(m.ExpiryDate),
		UnitID:              m.UnitID,
		PackSize:            m.PackSize,
		Quantity:            m.Quantity,
		LooseQuantity:       m.LooseQuantity,
		LastReceivedAt:      m.LastReceivedAt,
		PriceID:             m.PriceID,
	}
}

// StockLotModelFromDomain creates a persistence model from a domain stock lot
func StockLotModelFromDomain(l *stock.StockLot) *StockLotModel {
	return &StockLotModel{
		BaseModel:      baseFromRoot(l.TenantAggregateRoot),
		TenantID:       l.TenantID,
		Version:        l.Version,
		CreatedBy:      l.CreatedBy,
		WarehouseID:    l.WarehouseID,
		ItemID:         l.ItemID,
		Identity:       l.Identity,
		LotNumber:      l.LotNumber,
		ExpiryDate:     nullableDate(l.ExpiryDate),
		UnitID:         l.UnitID,
		PackSize:       l.PackSize,
		Quantity:       l.Quantity,
		LooseQuantity:  l.LooseQuantity,
		LastReceivedAt: l.LastReceivedAt,
		PriceID:        l.PriceID,
	}
}

// StockPriceModel is the persistence model for an item's cost basis.
// One row per (tenant_id, item_id).
type StockPriceModel struct {
	BaseModel
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_prices_item,priority:1"`
	Version    int             `gorm:"not null;default:1"`
	CreatedBy  *uuid.UUID      `gorm:"type:uuid"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_prices_item,priority:2"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalesPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Markup     decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	MarkDown   decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	MinPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockPriceModel) TableName() string {
	return "stock_prices"
}

// ToDomain converts the model to a domain stock price
func (m *StockPriceModel) ToDomain() *stock.StockPrice {
	return &stock.StockPrice{
		TenantAggregateRoot: rootFromColumns(m.BaseModel, m.TenantID, m.Version, m.CreatedBy),
		ItemID:              m.ItemID,
		UnitCost:            m.UnitCost,
		SalesPrice:          m.SalesPrice,
		Markup:              m.Markup,
		MarkDown:            m.MarkDown,
		MinPrice:            m.MinPrice,
	}
}

// StockPriceModelFromDomain creates a persistence model from a domain stock price
func StockPriceModelFromDomain(p *stock.StockPrice) *StockPriceModel {
	return &StockPriceModel{
		BaseModel:  baseFromRoot(p.TenantAggregateRoot),
		TenantID:   p.TenantID,
		Version:    p.Version,
		CreatedBy:  p.CreatedBy,
		ItemID:     p.ItemID,
		UnitCost:   p.UnitCost,
		SalesPrice: p.SalesPrice,
		Markup:     p.Markup,
		MarkDown:   p.MarkDown,
		MinPrice:   p.MinPrice,
	}
}

// ItemModel is the persistence model for a stock-keeping item
type ItemModel struct {
	BaseModel
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_items_sku,priority:1"`
	Version    int        `gorm:"not null;default:1"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid"`
	SKU        string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_items_sku,priority:2"`
	Name       string     `gorm:"type:varchar(255);not null"`
	BaseUnitID uuid.UUID  `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the model to a domain item
func (m *ItemModel) ToDomain() *stock.Item {
	return &stock.Item{
		TenantAggregateRoot: rootFromColumns(m.BaseModel, m.TenantID, m.Version, m.CreatedBy),
		SKU:                 m.SKU,
		Name:                m.Name,
		BaseUnitID:          m.BaseUnitID,
	}
}

// ItemModelFromDomain creates a persistence model from a domain item
func ItemModelFromDomain(i *stock.Item) *ItemModel {
	return &ItemModel{
		BaseModel:  baseFromRoot(i.TenantAggregateRoot),
		TenantID:   i.TenantID,
		Version:    i.Version,
		CreatedBy:  i.CreatedBy,
		SKU:        i.SKU,
		Name:       i.Name,
		BaseUnitID: i.BaseUnitID,
	}
}

// UnitModel is the persistence model for a unit of measure
type UnitModel struct {
	BaseModel
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_units_code,priority:1"`
	Version    int        `gorm:"not null;default:1"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid"`
	Code       string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_units_code,priority:2"`
	Name       string     `gorm:"type:varchar(100);not null"`
	IsPackUnit bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the model to a domain unit
func (m *UnitModel) ToDomain() *stock.Unit {
	return &stock.Unit{
		TenantAggregateRoot: rootFromColumns(m.BaseModel, m.TenantID, m.Version, m.CreatedBy),
		Code:                m.Code,
		Name:                m.Name,
		IsPackUnit:          m.IsPackUnit,
	}
}

// UnitModelFromDomain creates a persistence model from a domain unit
func UnitModelFromDomain(u *stock.Unit) *UnitModel {
	return &UnitModel{
		BaseModel:  baseFromRoot(u.TenantAggregateRoot),
		TenantID:   u.TenantID,
		Version:    u.Version,
		CreatedBy:  u.CreatedBy,
		Code:       u.Code,
		Name:       u.Name,
		IsPackUnit: u.IsPackUnit,
	}
}

// ProductionModel is the persistence model for a production document
type ProductionModel struct {
	DocumentModel
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitID      uuid.UUID       `gorm:"type:uuid;not null"`
	LotNumber   string          `gorm:"type:varchar(100);not null"`
	ExpiryDate  *time.Time      `gorm:"type:date"`
	PackSize    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Identity    string          `gorm:"type:varchar(255);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostPerUnit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReceivedAt  time.Time       `gorm:"not null"`
	LotID       uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ProductionModel) TableName() string {
	return "productions"
}

// ToDomain converts the model to a domain production
func (m *ProductionModel) ToDomain() *stock.Production {
	return &stock.Production{
		Document: m.ToDomainDocument(),
		Lot: stock.LotSpec{
			WarehouseID: m.WarehouseID,
			ItemID:      m.ItemID,
			UnitID:      m.UnitID,
			LotNumber:   m.LotNumber,
			ExpiryDate:  fromNullableDate(m.ExpiryDate),
			PackSize:    m.PackSize,
		},
		Identity:    m.Identity,
		Quantity:    m.Quantity,
		CostPerUnit: m.CostPerUnit,
		ReceivedAt:  m.ReceivedAt,
		LotID:       m.LotID,
	}
}

// ProductionModelFromDomain creates a persistence model from a domain production
func ProductionModelFromDomain(p *stock.Production) *ProductionModel {
	m := &ProductionModel{
		WarehouseID: p.Lot.WarehouseID,
		ItemID:      p.Lot.ItemID,
		UnitID:      p.Lot.UnitID,
		LotNumber:   p.Lot.LotNumber,
		ExpiryDate:  nullableDate(p.Lot.ExpiryDate),
		PackSize:    p.Lot.PackSize,
		Identity:    p.Identity,
		Quantity:    p.Quantity,
		CostPerUnit: p.CostPerUnit,
		ReceivedAt:  p.ReceivedAt,
		LotID:       p.LotID,
	}
	m.FromDomainDocument(p.Document)
	return m
}

// TransferModel is the persistence model for a transfer document
type TransferModel struct {
	DocumentModel
	FromWarehouseID uuid.UUID           `gorm:"type:uuid;not null"`
	ToWarehouseID   uuid.UUID           `gorm:"type:uuid;not null"`
	Purpose         int                 `gorm:"not null"`
	Lines           []TransferLineModel `gorm:"foreignKey:TransferID;references:ID"`
}

// TableName returns the table name for GORM
func (TransferModel) TableName() string {
	return "transfers"
}

// TransferLineModel is one moved lot of a transfer
type TransferLineModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransferID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position         int             `gorm:"not null;default:0"`
	SourceLotID      uuid.UUID       `gorm:"type:uuid;not null"`
	DestinationLotID uuid.UUID       `gorm:"type:uuid;not null"`
	UnitID           uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (TransferLineModel) TableName() string {
	return "transfer_lines"
}

// ToDomain converts the model to a domain transfer
func (m *TransferModel) ToDomain() *stock.Transfer {
	t := &stock.Transfer{
		Document:        m.ToDomainDocument(),
		FromWarehouseID: m.FromWarehouseID,
		ToWarehouseID:   m.ToWarehouseID,
		Purpose:         stock.TransferPurpose(m.Purpose),
		Lines:           make([]stock.TransferLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		t.Lines[i] = stock.TransferLine{
			ID:               l.ID,
			SourceLotID:      l.SourceLotID,
			DestinationLotID: l.DestinationLotID,
			UnitID:           l.UnitID,
			Quantity:         l.Quantity,
		}
	}
	return t
}

// TransferModelFromDomain creates a persistence model from a domain transfer
func TransferModelFromDomain(t *stock.Transfer) *TransferModel {
	m := &TransferModel{
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		Purpose:         int(t.Purpose),
		Lines:           make([]TransferLineModel, len(t.Lines)),
	}
	m.FromDomainDocument(t.Document)
	for i, l := range t.Lines {
		m.Lines[i] = TransferLineModel{
			ID:               l.ID,
			TransferID:       t.ID,
			Position:         i,
			SourceLotID:      l.SourceLotID,
			DestinationLotID: l.DestinationLotID,
			UnitID:           l.UnitID,
			Quantity:         l.Quantity,
		}
	}
	return m
}

// AdjustmentModel is the persistence model for a stock adjustment
type AdjustmentModel struct {
	DocumentModel
	LotID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID      uuid.UUID       `gorm:"type:uuid;not null"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null"`
	PreviousQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NewQuantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AdjustmentType   int             `gorm:"not null"`
	ReasonCode       string          `gorm:"type:varchar(50)"`
	Reason           string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AdjustmentModel) TableName() string {
	return "adjustments"
}

// ToDomain converts the model to a domain adjustment
func (m *AdjustmentModel) ToDomain() *stock.Adjustment {
	return &stock.Adjustment{
		Document:         m.ToDomainDocument(),
		LotID:            m.LotID,
		WarehouseID:      m.WarehouseID,
		ItemID:           m.ItemID,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Type:             stock.AdjustmentType(m.AdjustmentType),
		ReasonCode:       m.ReasonCode,
		Reason:           m.Reason,
	}
}

// AdjustmentModelFromDomain creates a persistence model from a domain adjustment
func AdjustmentModelFromDomain(a *stock.Adjustment) *AdjustmentModel {
	m := &AdjustmentModel{
		LotID:            a.LotID,
		WarehouseID:      a.WarehouseID,
		ItemID:           a.ItemID,
		PreviousQuantity: a.PreviousQuantity,
		NewQuantity:      a.NewQuantity,
		AdjustmentType:   int(a.Type),
		ReasonCode:       a.ReasonCode,
		Reason:           a.Reason,
	}
	m.FromDomainDocument(a.Document)
	return m
}
