package shared

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/erp/stockledger/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultConflictRetries is how many times a conflicting unit of work is re-run
const DefaultConflictRetries = 1

// Operation names one orchestrator call for locking, tracing and metrics
type Operation struct {
	Kind  string // document kind, e.g. "receipt"
	Name  string // create, update, delete, cancel, ...
	Actor shared.Actor
	Locks []string // keys held for the whole unit of work
}

// Runner executes orchestrator operations: it takes the operation's locks in
// a fixed order, runs the work in one transaction and re-runs it when it
// loses an optimistic or unique-key race.
type Runner struct {
	scope   TransactionScope
	locker  Locker
	retries int
	metrics *telemetry.LedgerMetrics
	now     func() time.Time
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithLocker sets the locker used for Operation.Locks
func WithLocker(l Locker) RunnerOption {
	return func(r *Runner) { r.locker = l }
}

// WithConflictRetries sets how many times a conflict is retried
func WithConflictRetries(n int) RunnerOption {
	return func(r *Runner) {
		if n >= 0 {
			r.retries = n
		}
	}
}

// WithMetrics sets the ledger metrics
func WithMetrics(m *telemetry.LedgerMetrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a Runner on scope
func NewRunner(scope TransactionScope, opts ...RunnerOption) *Runner {
	r := &Runner{
		scope:   scope,
		retries: DefaultConflictRetries,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now returns the current time of the runner's clock
func (r *Runner) Now() time.Time {
	return r.now()
}

// Metrics returns the ledger metrics, which may be nil
func (r *Runner) Metrics() *telemetry.LedgerMetrics {
	return r.metrics
}

type runState struct {
	number string
}

type runStateKey struct{}

// SetDocumentNumber attaches the number of the document being processed to
// the running operation's span and log lines
func SetDocumentNumber(ctx context.Context, number string) {
	if st, ok := ctx.Value(runStateKey{}).(*runState); ok {
		st.number = number
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(telemetry.AttrDocumentNumber, number))
}

// Run executes fn as one unit of work
func (r *Runner) Run(ctx context.Context, op Operation, fn func(ctx context.Context, repos Repositories) error) (err error) {
	if err := op.Actor.Validate(); err != nil {
		return err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, op.Kind, op.Name,
		attribute.String(telemetry.AttrTenantID, op.Actor.TenantID.String()),
		attribute.String(telemetry.AttrDocumentKind, op.Kind))
	defer func() { telemetry.EndSpan(span, err) }()

	st := &runState{}
	ctx = context.WithValue(ctx, runStateKey{}, st)
	keys := orderedKeys(op.Locks)

	for attempt := 0; ; attempt++ {
		err = r.attempt(ctx, keys, fn)
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) || attempt >= r.retries {
			break
		}
		logger.L(ctx).Warn("Concurrency conflict, retrying",
			zap.String("kind", op.Kind),
			zap.String("operation", op.Name),
			zap.String("document_number", st.number),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		span.AddEvent("retry")
	}

	r.observe(ctx, op, st, err)
	return err
}

func (r *Runner) attempt(ctx context.Context, keys []string, fn func(ctx context.Context, repos Repositories) error) error {
	if r.locker != nil {
		held := make([]Lock, 0, len(keys))
		defer func() {
			for i := len(held) - 1; i >= 0; i-- {
				if err := held[i].Release(context.WithoutCancel(ctx)); err != nil {
					logger.L(ctx).Warn("Failed to release lock", zap.Error(err))
				}
			}
		}()
		for _, key := range keys {
			l, err := r.locker.Obtain(ctx, key)
			if err != nil {
				return err
			}
			held = append(held, l)
		}
	}
	return r.scope.Execute(ctx, func(repos Repositories) error {
		return fn(ctx, repos)
	})
}

func (r *Runner) observe(ctx context.Context, op Operation, st *runState, err error) {
	outcome := telemetry.OutcomeSuccess
	log := logger.L(ctx).With(
		zap.String("kind", op.Kind),
		zap.String("operation", op.Name),
		zap.String("tenant_id", op.Actor.TenantID.String()),
		zap.String("document_number", st.number))

	switch {
	case err == nil:
	case errors.Is(err, shared.ErrIntegrityFault):
		outcome = telemetry.OutcomeFault
		r.metrics.IntegrityFault(ctx, op.Kind)
		log.Error("Integrity fault, operation rolled back", zap.Error(err))
	case errors.Is(err, shared.ErrConcurrencyConflict):
		outcome = telemetry.OutcomeConflict
		log.Warn("Concurrency conflict persisted after retries", zap.Error(err))
	case shared.CodeOf(err) != "":
		outcome = telemetry.OutcomeRejected
	default:
		outcome = telemetry.OutcomeError
		log.Error("Operation failed", zap.Error(err))
	}
	r.metrics.DocumentOperation(ctx, op.Kind, op.Name, outcome)
}

// Query runs read-only work for actor's tenant
func (r *Runner) Query(ctx context.Context, actor shared.Actor, fn func(ctx context.Context, repos Repositories) error) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	return r.scope.Execute(ctx, func(repos Repositories) error {
		return fn(ctx, repos)
	})
}

func orderedKeys(keys []string) []string {
	if len(keys) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
