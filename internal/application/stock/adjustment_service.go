package stock

import (
	"context"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const kindAdjustment = "adjustment"

// AdjustmentService records stock recounts. Adjustments have no ledger effect.
type AdjustmentService struct {
	runner   *appshared.Runner
	numberer *appledger.Numberer
	stock    *StockLedger
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(runner *appshared.Runner, numberer *appledger.Numberer, stockLedger *StockLedger) *AdjustmentService {
	return &AdjustmentService{runner: runner, numberer: numberer, stock: stockLedger}
}

// Create numbers an adjustment and overwrites the lot quantity with the recount
func (s *AdjustmentService) Create(ctx context.Context, actor shared.Actor, in stock.AdjustmentInput) (*stock.Adjustment, error) {
	var result *stock.Adjustment
	op := appshared.Operation{
		Kind:  kindAdjustment,
		Name:  "create",
		Actor: actor,
		Locks: appledger.LockKeys(actor.TenantID, ledger.SeriesAdjustment),
	}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		if err := in.Validate(); err != nil {
			return err
		}
		lot, err := repos.LotRepo().FindByIDForUpdate(ctx, actor.TenantID, in.LotID)
		if err != nil {
			return err
		}
		number, err := s.numberer.Next(ctx, repos, actor.TenantID, ledger.SeriesAdjustment)
		if err != nil {
			return err
		}
		a, err := stock.NewAdjustment(actor, number, lot, in)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, number)

		if _, _, err := s.stock.Adjust(ctx, repos, actor.TenantID, lot.ID, a.NewQuantity); err != nil {
			return err
		}
		if err := repos.AdjustmentRepo().Save(ctx, a); err != nil {
			return err
		}
		result = a
		return nil
	})
	return result, err
}

// Update changes the recounted quantity. It is refused once the lot has
// moved since the adjustment, because the recount no longer describes it.
func (s *AdjustmentService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in stock.AdjustmentInput) (*stock.Adjustment, error) {
	var result *stock.Adjustment
	op := appshared.Operation{Kind: kindAdjustment, Name: "update", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		a, err := repos.AdjustmentRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, a.DocumentNumber)
		lot, err := repos.LotRepo().FindByIDForUpdate(ctx, actor.TenantID, a.LotID)
		if err != nil {
			return err
		}
		if !a.CanRevert(lot) {
			return shared.ErrInvalidState.WithMessage(
				"lot %s moved since adjustment %s", lot.Identity, a.DocumentNumber)
		}
		if err := a.Revise(in); err != nil {
			return err
		}
		if _, _, err := s.stock.Adjust(ctx, repos, actor.TenantID, lot.ID, a.NewQuantity); err != nil {
			return err
		}
		if err := repos.AdjustmentRepo().Save(ctx, a); err != nil {
			return err
		}
		result = a
		return nil
	})
	return result, err
}

// Delete restores the previous quantity when the lot is untouched since the
// adjustment and removes the adjustment
func (s *AdjustmentService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	op := appshared.Operation{Kind: kindAdjustment, Name: "delete", Actor: actor}
	return s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		a, err := s.revert(ctx, repos, actor.TenantID, id)
		if err != nil {
			return err
		}
		return repos.AdjustmentRepo().Delete(ctx, actor.TenantID, a.ID)
	})
}

// Cancel restores the previous quantity like Delete but keeps the document
func (s *AdjustmentService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*stock.Adjustment, error) {
	var result *stock.Adjustment
	op := appshared.Operation{Kind: kindAdjustment, Name: "cancel", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		a, err := s.revert(ctx, repos, actor.TenantID, id)
		if err != nil {
			return err
		}
		if err := a.Cancel(); err != nil {
			return err
		}
		if err := repos.AdjustmentRepo().Save(ctx, a); err != nil {
			return err
		}
		result = a
		return nil
	})
	return result, err
}

func (s *AdjustmentService) revert(ctx context.Context, repos appshared.Repositories, tenantID, id uuid.UUID) (*stock.Adjustment, error) {
	a, err := repos.AdjustmentRepo().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	appshared.SetDocumentNumber(ctx, a.DocumentNumber)
	if err := a.EnsureDeletable(); err != nil {
		return nil, err
	}
	lot, err := repos.LotRepo().FindByIDForUpdate(ctx, tenantID, a.LotID)
	if err != nil {
		return nil, err
	}
	if !a.CanRevert(lot) {
		// A later movement already built on the recount; overwriting it
		// would erase that movement.
		logger.L(ctx).Warn("Adjustment removed without restoring the lot",
			zap.String("document_number", a.DocumentNumber),
			zap.String("identity", lot.Identity),
			zap.String("lot_quantity", lot.Quantity.String()),
			zap.String("adjusted_quantity", a.NewQuantity.String()))
		return a, nil
	}
	if _, _, err := s.stock.Adjust(ctx, repos, tenantID, lot.ID, a.PreviousQuantity); err != nil {
		return nil, err
	}
	return a, nil
}

// Get returns one adjustment
func (s *AdjustmentService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*stock.Adjustment, error) {
	var a *stock.Adjustment
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		a, err = repos.AdjustmentRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return a, err
}

// List returns a page of adjustments
func (s *AdjustmentService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]stock.Adjustment, int64, error) {
	var (
		items []stock.Adjustment
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.AdjustmentRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}
