// Package ledger implements the transaction ledger and document numbering
// used by every flow orchestrator.
package ledger

import (
	"context"
	"errors"

	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/erp/stockledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionLedger records the single financial entry of each document.
// Every method runs inside the caller's unit of work.
type TransactionLedger struct {
	catalog *ledger.Catalog
	metrics *telemetry.LedgerMetrics
}

// NewTransactionLedger creates a TransactionLedger using the built-in catalog
func NewTransactionLedger(metrics *telemetry.LedgerMetrics) *TransactionLedger {
	return &TransactionLedger{
		catalog: ledger.DefaultCatalog(),
		metrics: metrics,
	}
}

// Record sets the entry of number to amount, creating it when absent.
// amount is the absolute total of the document, never a delta.
func (l *TransactionLedger) Record(ctx context.Context, repos appshared.Repositories, actor shared.Actor, number string, c ledger.Classification, amount decimal.Decimal) (*ledger.Entry, error) {
	if err := l.validate(ctx, repos, actor.TenantID, c); err != nil {
		return nil, err
	}
	entry, err := ledger.NewEntry(actor, number, c, amount)
	if err != nil {
		return nil, err
	}
	stored, err := repos.EntryRepo().Upsert(ctx, entry)
	if err != nil {
		return nil, err
	}

	l.metrics.LedgerRecord(ctx, l.catalog.GroupLabel(c.Group))
	logger.L(ctx).Debug("Ledger entry recorded",
		zap.String("document_number", number),
		zap.String("classification", c.String()),
		zap.String("amount", amount.String()))
	return stored, nil
}

// Accumulate adds delta to the current amount of number under a row lock
// and records the new total. A total below zero is an integrity fault.
func (l *TransactionLedger) Accumulate(ctx context.Context, repos appshared.Repositories, actor shared.Actor, number string, c ledger.Classification, delta decimal.Decimal) (*ledger.Entry, error) {
	current := decimal.Zero
	existing, err := repos.EntryRepo().FindByNumberForUpdate(ctx, actor.TenantID, number)
	switch {
	case err == nil:
		current = existing.Amount
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	total := current.Add(delta)
	if total.IsNegative() {
		return nil, shared.ErrIntegrityFault.WithMessage("ledger entry %s would go negative (%s)", number, total.String())
	}
	return l.Record(ctx, repos, actor, number, c, total)
}

// Void zeroes the entry of number, keeping the row and its classification.
// A document without an entry is left alone.
func (l *TransactionLedger) Void(ctx context.Context, repos appshared.Repositories, actor shared.Actor, number string) error {
	existing, err := repos.EntryRepo().FindByNumberForUpdate(ctx, actor.TenantID, number)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = l.Record(ctx, repos, actor, number, existing.Classification, decimal.Zero)
	return err
}

// Catalog returns the classification table of a tenant, including its custom types
func (l *TransactionLedger) Catalog(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID) (*ledger.Catalog, error) {
	custom, err := repos.LedgerTypeRepo().FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return l.catalog.With(custom), nil
}

func (l *TransactionLedger) validate(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID, c ledger.Classification) error {
	err := l.catalog.Validate(c)
	if err == nil || c.Type < ledger.FirstCustomType {
		return err
	}
	catalog, cerr := l.Catalog(ctx, repos, tenantID)
	if cerr != nil {
		return cerr
	}
	return catalog.Validate(c)
}
