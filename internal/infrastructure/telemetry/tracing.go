package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of business spans
const TracerName = "github.com/erp/stockledger"

// Span attribute keys shared by the orchestrators
const (
	AttrTenantID       = "ledger.tenant_id"
	AttrDocumentKind   = "ledger.document.kind"
	AttrDocumentNumber = "ledger.document.number"
	AttrLotIdentity    = "ledger.lot.identity"
	AttrWarehouseID    = "ledger.warehouse_id"
)

// StartServiceSpan starts a span named {service}.{method}, e.g. "receiving.create".
// The caller must End the span.
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "receiving", "create",
//	    attribute.String(telemetry.AttrTenantID, tenantID.String()))
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, fmt.Sprintf("%s.%s", service, method),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError marks the span failed. A nil error marks it OK.
func RecordError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// EndSpan records err on span and ends it, for use with a deferred named error:
//
//	defer func() { telemetry.EndSpan(span, err) }()
func EndSpan(span trace.Span, err error) {
	RecordError(span, err)
	span.End()
}
