package dto

import (
	"time"

	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryListRequest filters the ledger entry listing
type EntryListRequest struct {
	ListRequest
	Group       *int   `form:"group"`
	Type        *int   `form:"type"`
	Head        *int   `form:"head"`
	EntryStatus string `form:"entry_status" binding:"omitempty,oneof=open posted"`
}

// ToFilter converts the request into an entry filter
func (r EntryListRequest) ToFilter() ledger.EntryFilter {
	base := r.ListRequest
	base.Status = ""
	f := ledger.EntryFilter{Filter: base.ToFilter()}
	if r.Group != nil {
		g := ledger.Group(*r.Group)
		f.Group = &g
	}
	if r.Type != nil {
		t := ledger.Type(*r.Type)
		f.Type = &t
	}
	if r.Head != nil {
		h := ledger.Head(*r.Head)
		f.Head = &h
	}
	switch r.EntryStatus {
	case "open":
		s := ledger.EntryOpen
		f.Status = &s
	case "posted":
		s := ledger.EntryPosted
		f.Status = &s
	}
	if from, ok := f.Filters["from"].(time.Time); ok {
		f.From = &from
		delete(f.Filters, "from")
	}
	if to, ok := f.Filters["to"].(time.Time); ok {
		f.To = &to
		delete(f.Filters, "to")
	}
	return f
}

// CodeLabel is a classification code with its label
type CodeLabel struct {
	Code  int    `json:"code"`
	Label string `json:"label"`
}

// EntryResponse is one ledger entry with its classification labelled
type EntryResponse struct {
	ID             uuid.UUID       `json:"id"`
	DocumentNumber string          `json:"document_number"`
	Group          CodeLabel       `json:"group"`
	Type           CodeLabel       `json:"type"`
	Head           CodeLabel       `json:"head"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	RecordedAt     time.Time       `json:"recorded_at"`
	Version        int             `json:"version"`
}

// ToEntryResponse converts an entry, labelling its codes from catalog
func ToEntryResponse(e *ledger.Entry, catalog *ledger.Catalog) EntryResponse {
	cl := e.Classification
	return EntryResponse{
		ID:             e.ID,
		DocumentNumber: e.DocumentNumber,
		Group:          CodeLabel{Code: int(cl.Group), Label: catalog.GroupLabel(cl.Group)},
		Type:           CodeLabel{Code: int(cl.Type), Label: catalog.TypeLabel(cl.Type)},
		Head:           CodeLabel{Code: int(cl.Head), Label: catalog.HeadLabel(cl.Head)},
		Amount:         e.Amount,
		Status:         e.Status.String(),
		RecordedAt:     e.RecordedAt,
		Version:        e.Version,
	}
}

// RegisterTypeRequest adds a tenant-defined income or expense type
type RegisterTypeRequest struct {
	Code  int    `json:"code" binding:"required,gte=2001"`
	Name  string `json:"name" binding:"required,max=200"`
	Group int    `json:"group" binding:"required"`
}

// CustomTypeResponse is a tenant-defined type
type CustomTypeResponse struct {
	ID    uuid.UUID `json:"id"`
	Code  int       `json:"code"`
	Name  string    `json:"name"`
	Group int       `json:"group"`
}

// ToCustomTypeResponse converts a custom type
func ToCustomTypeResponse(t *ledger.CustomType) CustomTypeResponse {
	return CustomTypeResponse{ID: t.ID, Code: int(t.Code), Name: t.Name, Group: int(t.Group)}
}

// CatalogResponse lists every classification code known to the tenant
type CatalogResponse struct {
	Groups []ledger.Label `json:"groups"`
	Types  []ledger.Label `json:"types"`
	Heads  []ledger.Label `json:"heads"`
}

// ToCatalogResponse converts a catalog
func ToCatalogResponse(c *ledger.Catalog) CatalogResponse {
	return CatalogResponse{Groups: c.Groups(), Types: c.Types(), Heads: c.Heads()}
}
