package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Document operation outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeFault    = "integrity_fault"
	OutcomeError    = "error"
)

// LedgerMetrics counts stock and ledger activity.
// A nil *LedgerMetrics is valid and records nothing.
type LedgerMetrics struct {
	movements       metric.Int64Counter
	ledgerRecords   metric.Int64Counter
	documentOps     metric.Int64Counter
	integrityFaults metric.Int64Counter
}

// NewLedgerMetrics registers the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(TracerName)
	}
	m := &LedgerMetrics{}
	var err error

	if m.movements, err = meter.Int64Counter("ledger_stock_movements_total",
		metric.WithDescription("Stock lot mutations by flow and conversion branch"),
		metric.WithUnit("{movements}")); err != nil {
		return nil, err
	}
	if m.ledgerRecords, err = meter.Int64Counter("ledger_transaction_records_total",
		metric.WithDescription("Transaction ledger upserts by group"),
		metric.WithUnit("{records}")); err != nil {
		return nil, err
	}
	if m.documentOps, err = meter.Int64Counter("ledger_document_operations_total",
		metric.WithDescription("Document operations by kind, operation and outcome"),
		metric.WithUnit("{operations}")); err != nil {
		return nil, err
	}
	if m.integrityFaults, err = meter.Int64Counter("ledger_integrity_faults_total",
		metric.WithDescription("Operations refused because stock would go negative"),
		metric.WithUnit("{faults}")); err != nil {
		return nil, err
	}
	return m, nil
}

// StockMovement counts one lot mutation
func (m *LedgerMetrics) StockMovement(ctx context.Context, flow, branch string) {
	if m == nil {
		return
	}
	m.movements.Add(ctx, 1, metric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("branch", branch),
	))
}

// LedgerRecord counts one ledger upsert
func (m *LedgerMetrics) LedgerRecord(ctx context.Context, group string) {
	if m == nil {
		return
	}
	m.ledgerRecords.Add(ctx, 1, metric.WithAttributes(attribute.String("group", group)))
}

// DocumentOperation counts one orchestrator call
func (m *LedgerMetrics) DocumentOperation(ctx context.Context, kind, op, outcome string) {
	if m == nil {
		return
	}
	m.documentOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}

// IntegrityFault counts one refused negative-stock operation
func (m *LedgerMetrics) IntegrityFault(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.integrityFaults.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
