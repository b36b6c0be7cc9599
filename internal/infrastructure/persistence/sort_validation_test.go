package persistence

import (
	"testing"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"invalid value returns DESC", "sideways", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE stock_lots;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		allowed  map[string]bool
		expected string
	}{
		{"empty string returns default", "", LotSortFields, "created_at"},
		{"whitelisted lot column", "expiry_date", LotSortFields, "expiry_date"},
		{"column of another table is refused", "amount", LotSortFields, "created_at"},
		{"ledger amount is sortable", "amount", EntrySortFields, "amount"},
		{"case sensitive", "LOT_NUMBER", LotSortFields, "created_at"},
		{"whitespace around valid field", "  document_date ", DocumentSortFields, "document_date"},
		{"injection returns default", "document_number'--", DocumentSortFields, "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.allowed, "created_at"))
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"DocumentSortFields": DocumentSortFields,
		"LotSortFields":      LotSortFields,
		"EntrySortFields":    EntrySortFields,
		"CatalogSortFields":  CatalogSortFields,
		"EmployeeSortFields": EmployeeSortFields,
		"AdvanceSortFields":  AdvanceSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			assert.True(t, whitelist["id"], "%s should allow id", name)
			assert.True(t, whitelist["created_at"], "%s should allow created_at", name)
		})
	}
}

func TestApplyPage(t *testing.T) {
	db, _, mockDB := newMockDB(t)
	defer mockDB.Close()

	dry := db.Session(&gorm.Session{DryRun: true}).Table("stock_lots")
	filter := shared.Filter{Page: 3, PageSize: 10, OrderBy: "quantity", OrderDir: "asc"}
	stmt := applyPage(dry, filter, LotSortFields).Find(&[]map[string]any{}).Statement

	assert.Contains(t, stmt.SQL.String(), "ORDER BY quantity ASC")
	assert.Contains(t, stmt.SQL.String(), "LIMIT")
	assert.Contains(t, stmt.SQL.String(), "OFFSET")
	assert.Contains(t, stmt.Vars, 20)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%lot-7%", likePattern("  LOT-7 "))
	assert.Equal(t, "%%", likePattern(""))
}
