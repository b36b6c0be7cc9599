package ledger

import (
	"fmt"
	"maps"
	"slices"

	"github.com/erp/stockledger/internal/domain/shared"
)

// Group is the top-level bucket of a ledger entry
type Group int

const (
	GroupReceivables Group = 101
	GroupIncome      Group = 102
	GroupExpense     Group = 103
	GroupPayables    Group = 104
)

// Type is the business event behind a ledger entry
type Type int

const (
	TypeReceivableSalesInvoice Type = 1001
	TypeSalesValue             Type = 1002
	TypeSalesReturn            Type = 1003
	TypePayablePurchaseReceipt Type = 1004
	TypePurchaseValue          Type = 1005
	TypePurchaseReturn         Type = 1006
	TypeReceivableOthers       Type = 1007
	TypeCollection             Type = 1008
	TypePayableOthers          Type = 1009
	TypePay                    Type = 1010
	TypeSalary                 Type = 1011
	TypeUtility                Type = 1012
	TypeRent                   Type = 1013
	TypeAdvance                Type = 1014

	// FirstCustomType is the lowest code a tenant may register
	FirstCustomType Type = 2001
)

// Head is the reporting line of a ledger entry
type Head int

const (
	HeadSales          Head = 1
	HeadPurchase       Head = 2
	HeadCustomerDues   Head = 3
	HeadVendorDues     Head = 4
	HeadGeneralIncome  Head = 5
	HeadGeneralExpense Head = 6
	HeadPayroll        Head = 7
)

// Classification is the (group, type, head) triple attached to every entry
type Classification struct {
	Group Group
	Type  Type
	Head  Head
}

func (c Classification) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Group, c.Type, c.Head)
}

// Classifications used by the document flows
var (
	ReceiptPayable   = Classification{Group: GroupPayables, Type: TypePayablePurchaseReceipt, Head: HeadPurchase}
	BillPayment      = Classification{Group: GroupExpense, Type: TypePayablePurchaseReceipt, Head: HeadPurchase}
	PurchaseRefund   = Classification{Group: GroupIncome, Type: TypePurchaseReturn, Head: HeadPurchase}
	SaleIncome       = Classification{Group: GroupIncome, Type: TypeSalesValue, Head: HeadSales}
	SaleReturnRefund = Classification{Group: GroupExpense, Type: TypeSalesReturn, Head: HeadSales}
	AdvancePayment   = Classification{Group: GroupExpense, Type: TypeAdvance, Head: HeadPayroll}
	SalaryPayment    = Classification{Group: GroupExpense, Type: TypeSalary, Head: HeadPayroll}
	VendorPayment    = Classification{Group: GroupExpense, Type: TypePay, Head: HeadVendorDues}
	Collection       = Classification{Group: GroupIncome, Type: TypeCollection, Head: HeadCustomerDues}
)

// Catalog is the lookup table of classification codes and their labels
type Catalog struct {
	groups map[Group]string
	types  map[Type]string
	heads  map[Head]string
}

// DefaultCatalog returns the built-in codes
func DefaultCatalog() *Catalog {
	return &Catalog{
		groups: map[Group]string{
			GroupReceivables: "Receivables",
			GroupIncome:      "Income",
			GroupExpense:     "Expense",
			GroupPayables:    "Payables",
		},
		types: map[Type]string{
			TypeReceivableSalesInvoice: "Receivable against Sales Invoice",
			TypeSalesValue:             "Sales Value",
			TypeSalesReturn:            "Sales Return",
			TypePayablePurchaseReceipt: "Payable against Purchase Receipt",
			TypePurchaseValue:          "Purchase Value",
			TypePurchaseReturn:         "Purchase Return",
			TypeReceivableOthers:       "Receivable against Others",
			TypeCollection:             "Collection",
			TypePayableOthers:          "Payable against Others",
			TypePay:                    "Pay",
			TypeSalary:                 "Salary",
			TypeUtility:                "Utility",
			TypeRent:                   "Rent",
			TypeAdvance:                "Advance",
		},
		heads: map[Head]string{
			HeadSales:          "Sales",
			HeadPurchase:       "Purchase",
			HeadCustomerDues:   "Customer Dues",
			HeadVendorDues:     "Vendor Dues",
			HeadGeneralIncome:  "General Income",
			HeadGeneralExpense: "General Expense",
			HeadPayroll:        "Payroll",
		},
	}
}

// With returns a copy of the catalog extended with tenant-defined types
func (c *Catalog) With(custom []CustomType) *Catalog {
	cp := &Catalog{groups: c.groups, heads: c.heads, types: make(map[Type]string, len(c.types)+len(custom))}
	for k, v := range c.types {
		cp.types[k] = v
	}
	for _, t := range custom {
		cp.types[t.Code] = t.Name
	}
	return cp
}

// Validate checks every code of the classification against the table
func (c *Catalog) Validate(cl Classification) error {
	var details []shared.FieldError
	if _, ok := c.groups[cl.Group]; !ok {
		details = append(details, shared.FieldError{Field: "group", Message: fmt.Sprintf("unknown group code %d", cl.Group)})
	}
	if _, ok := c.types[cl.Type]; !ok {
		details = append(details, shared.FieldError{Field: "type", Message: fmt.Sprintf("unknown type code %d", cl.Type)})
	}
	if _, ok := c.heads[cl.Head]; !ok {
		details = append(details, shared.FieldError{Field: "head", Message: fmt.Sprintf("unknown head code %d", cl.Head)})
	}
	if len(details) > 0 {
		return shared.NewValidationError("invalid ledger classification", details...)
	}
	return nil
}

// GroupLabel returns the label of a group code
func (c *Catalog) GroupLabel(g Group) string { return c.groups[g] }

// TypeLabel returns the label of a type code
func (c *Catalog) TypeLabel(t Type) string { return c.types[t] }

// HeadLabel returns the label of a head code
func (c *Catalog) HeadLabel(h Head) string { return c.heads[h] }

// Label pairs a classification code with its label
type Label struct {
	Code int    `json:"code"`
	Name string `json:"label"`
}

// Groups lists the group codes in ascending order
func (c *Catalog) Groups() []Label { return labels(c.groups) }

// Types lists the type codes, built-in and tenant-defined, in ascending order
func (c *Catalog) Types() []Label { return labels(c.types) }

// Heads lists the head codes in ascending order
func (c *Catalog) Heads() []Label { return labels(c.heads) }

func labels[K ~int](m map[K]string) []Label {
	out := make([]Label, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, Label{Code: int(k), Name: m[k]})
	}
	return out
}
