package stock

import (
	"context"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const kindProduction = "production"

// ProductionService receives finished goods into a production warehouse
type ProductionService struct {
	runner   *appshared.Runner
	numberer *appledger.Numberer
	stock    *StockLedger
}

// NewProductionService creates a new ProductionService
func NewProductionService(runner *appshared.Runner, numberer *appledger.Numberer, stockLedger *StockLedger) *ProductionService {
	return &ProductionService{runner: runner, numberer: numberer, stock: stockLedger}
}

// Create numbers a production and merges the produced quantity into its lot
func (s *ProductionService) Create(ctx context.Context, actor shared.Actor, in stock.ProductionInput) (*stock.Production, error) {
	var result *stock.Production
	op := appshared.Operation{
		Kind:  kindProduction,
		Name:  "create",
		Actor: actor,
		Locks: appledger.LockKeys(actor.TenantID, ledger.SeriesProduction),
	}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		number, err := s.numberer.Next(ctx, repos, actor.TenantID, ledger.SeriesProduction)
		if err != nil {
			return err
		}
		p, err := stock.NewProduction(actor, number, in)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, number)

		lot, err := s.merge(ctx, repos, actor, p, p.Quantity)
		if err != nil {
			return err
		}
		p.LotID = lot.ID
		if err := repos.ProductionRepo().Save(ctx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

// Update replaces the produced lot or quantity. When the lot identity is
// unchanged only the difference is merged.
func (s *ProductionService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in stock.ProductionInput) (*stock.Production, error) {
	var result *stock.Production
	op := appshared.Operation{Kind: kindProduction, Name: "update", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		p, err := repos.ProductionRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, p.DocumentNumber)

		before := *p
		if err := p.Revise(in); err != nil {
			return err
		}

		sameLot := before.Identity == p.Identity &&
			before.Lot.WarehouseID == p.Lot.WarehouseID &&
			before.Lot.ItemID == p.Lot.ItemID
		var lot *stock.StockLot
		if sameLot {
			lot, err = s.merge(ctx, repos, actor, p, p.Quantity.Sub(before.Quantity))
		} else {
			if _, err = s.merge(ctx, repos, actor, &before, before.Quantity.Neg()); err != nil {
				return err
			}
			lot, err = s.merge(ctx, repos, actor, p, p.Quantity)
		}
		if err != nil {
			return err
		}
		p.LotID = lot.ID
		if err := repos.ProductionRepo().Save(ctx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

// Delete reverses the produced quantity and removes the production
func (s *ProductionService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	op := appshared.Operation{Kind: kindProduction, Name: "delete", Actor: actor}
	return s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		p, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		return repos.ProductionRepo().Delete(ctx, actor.TenantID, p.ID)
	})
}

// Cancel reverses the produced quantity and keeps the production as cancelled
func (s *ProductionService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*stock.Production, error) {
	var result *stock.Production
	op := appshared.Operation{Kind: kindProduction, Name: "cancel", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		p, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		if err := p.Cancel(); err != nil {
			return err
		}
		if err := repos.ProductionRepo().Save(ctx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

func (s *ProductionService) reverse(ctx context.Context, repos appshared.Repositories, actor shared.Actor, id uuid.UUID) (*stock.Production, error) {
	p, err := repos.ProductionRepo().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	appshared.SetDocumentNumber(ctx, p.DocumentNumber)
	if err := p.EnsureDeletable(); err != nil {
		return nil, err
	}
	if _, err := s.merge(ctx, repos, actor, p, p.Quantity.Neg()); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductionService) merge(ctx context.Context, repos appshared.Repositories, actor shared.Actor, p *stock.Production, quantity decimal.Decimal) (*stock.StockLot, error) {
	cost := decimal.Zero
	if quantity.IsPositive() {
		cost = p.CostPerUnit
	}
	return s.stock.MergeOrCreate(ctx, repos, MergeInput{
		Actor:      actor,
		Spec:       p.Lot,
		Movement:   stock.Movement{Quantity: quantity, LooseQuantity: decimal.Zero, Branch: stock.BranchLotUnit},
		UnitCost:   cost,
		ReceivedAt: p.ReceivedAt,
		Flow:       kindProduction,
	})
}

// Get returns one production
func (s *ProductionService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*stock.Production, error) {
	var p *stock.Production
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		p, err = repos.ProductionRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return p, err
}

// List returns a page of productions
func (s *ProductionService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]stock.Production, int64, error) {
	var (
		items []stock.Production
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.ProductionRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}
