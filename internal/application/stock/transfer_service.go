package stock

import (
	"context"
	"sort"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const kindTransfer = "transfer"

// TransferService moves lots between warehouses
type TransferService struct {
	runner   *appshared.Runner
	numberer *appledger.Numberer
	stock    *StockLedger
}

// NewTransferService creates a new TransferService
func NewTransferService(runner *appshared.Runner, numberer *appledger.Numberer, stockLedger *StockLedger) *TransferService {
	return &TransferService{runner: runner, numberer: numberer, stock: stockLedger}
}

// Create numbers a transfer and applies every line: the source lot is
// decremented and the destination lot with the same identity is created or
// incremented.
func (s *TransferService) Create(ctx context.Context, actor shared.Actor, in stock.TransferInput) (*stock.Transfer, error) {
	var result *stock.Transfer
	op := appshared.Operation{
		Kind:  kindTransfer,
		Name:  "create",
		Actor: actor,
		Locks: appledger.LockKeys(actor.TenantID, ledger.SeriesTransfer),
	}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		number, err := s.numberer.Next(ctx, repos, actor.TenantID, ledger.SeriesTransfer)
		if err != nil {
			return err
		}
		t, err := stock.NewTransfer(actor, number, in)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, number)

		for _, l := range bySourceLot(in.Lines) {
			line, err := s.open(ctx, repos, actor, t, l)
			if err != nil {
				return err
			}
			t.AddLine(line)
		}
		if err := repos.TransferRepo().Save(ctx, t); err != nil {
			return err
		}
		result = t
		return nil
	})
	return result, err
}

// Update revises a transfer. Existing lines move only the difference
// between the stored and the requested quantity; a quantity of zero or an
// omitted line reverses and removes it; lines without an ID are new.
func (s *TransferService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in stock.TransferInput) (*stock.Transfer, error) {
	var result *stock.Transfer
	op := appshared.Operation{Kind: kindTransfer, Name: "update", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		t, err := repos.TransferRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, t.DocumentNumber)
		if err := t.Revise(in); err != nil {
			return err
		}

		before := make(map[uuid.UUID]decimal.Decimal, len(t.Lines))
		for _, l := range t.Lines {
			before[l.ID] = l.Quantity
		}
		after := make(map[uuid.UUID]decimal.Decimal, len(in.Lines))
		var added []stock.TransferLineInput
		for _, l := range in.Lines {
			if l.ID == uuid.Nil {
				added = append(added, l)
				continue
			}
			stored, ok := t.Line(l.ID)
			if !ok {
				return shared.ErrNotFound.WithMessage("transfer line %s not found", l.ID)
			}
			if stored.SourceLotID != l.SourceLotID || stored.UnitID != l.UnitID {
				return shared.NewFieldError("lines", "the lot and unit of an existing line cannot change")
			}
			after[l.ID] = l.Quantity
		}

		for _, change := range shared.DiffQuantities(before, after) {
			stored, _ := t.Line(change.Key)
			line := *stored
			delta := change.Delta()
			direction := Increment
			if delta.IsNegative() {
				direction = Decrement
			}
			if err := s.shift(ctx, repos, actor.TenantID, line, delta.Abs(), direction); err != nil {
				return err
			}
			if change.After.IsZero() {
				t.RemoveLine(line.ID)
				continue
			}
			stored.Quantity = change.After
		}

		for _, l := range bySourceLot(added) {
			line, err := s.open(ctx, repos, actor, t, l)
			if err != nil {
				return err
			}
			t.AddLine(line)
		}
		if len(t.Lines) == 0 {
			return shared.NewFieldError("lines", "a transfer needs at least one line")
		}
		if err := repos.TransferRepo().Save(ctx, t); err != nil {
			return err
		}
		result = t
		return nil
	})
	return result, err
}

// Delete reverses every line and removes the transfer
func (s *TransferService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	op := appshared.Operation{Kind: kindTransfer, Name: "delete", Actor: actor}
	return s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		t, err := s.reverse(ctx, repos, actor.TenantID, id)
		if err != nil {
			return err
		}
		return repos.TransferRepo().Delete(ctx, actor.TenantID, t.ID)
	})
}

// Cancel reverses every line and keeps the transfer as cancelled
func (s *TransferService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*stock.Transfer, error) {
	var result *stock.Transfer
	op := appshared.Operation{Kind: kindTransfer, Name: "cancel", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		t, err := s.reverse(ctx, repos, actor.TenantID, id)
		if err != nil {
			return err
		}
		if err := t.Cancel(); err != nil {
			return err
		}
		if err := repos.TransferRepo().Save(ctx, t); err != nil {
			return err
		}
		result = t
		return nil
	})
	return result, err
}

func (s *TransferService) reverse(ctx context.Context, repos appshared.Repositories, tenantID, id uuid.UUID) (*stock.Transfer, error) {
	t, err := repos.TransferRepo().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	appshared.SetDocumentNumber(ctx, t.DocumentNumber)
	if err := t.EnsureDeletable(); err != nil {
		return nil, err
	}
	lines := append([]stock.TransferLine(nil), t.Lines...)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].SourceLotID.String() < lines[j].SourceLotID.String()
	})
	for _, l := range lines {
		if err := s.shift(ctx, repos, tenantID, l, l.Quantity, Decrement); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// open applies a new line. The source lot must sit in the transfer's
// source warehouse; the destination lot copies its descriptive fields.
func (s *TransferService) open(ctx context.Context, repos appshared.Repositories, actor shared.Actor, t *stock.Transfer, in stock.TransferLineInput) (stock.TransferLine, error) {
	source, err := repos.LotRepo().FindByIDForUpdate(ctx, actor.TenantID, in.SourceLotID)
	if err != nil {
		return stock.TransferLine{}, err
	}
	if source.WarehouseID != t.FromWarehouseID {
		return stock.TransferLine{}, shared.NewFieldError("source_lot_id",
			"lot "+source.ID.String()+" is not stored in the source warehouse")
	}
	if _, err := s.stock.Move(ctx, repos, source, in.Quantity, in.UnitID, Decrement, kindTransfer); err != nil {
		return stock.TransferLine{}, err
	}

	spec := source.Spec()
	spec.WarehouseID = t.ToWarehouseID
	dest, err := s.stock.EnsureLot(ctx, repos, actor, spec)
	if err != nil {
		return stock.TransferLine{}, err
	}
	dest.MarkReceived(t.DocumentDate)
	if _, err := s.stock.Move(ctx, repos, dest, in.Quantity, in.UnitID, Increment, kindTransfer); err != nil {
		return stock.TransferLine{}, err
	}
	return stock.TransferLine{
		ID:               in.ID,
		SourceLotID:      source.ID,
		DestinationLotID: dest.ID,
		UnitID:           in.UnitID,
		Quantity:         in.Quantity,
	}, nil
}

// shift moves q more of an applied line from source to destination
// (Increment) or back (Decrement). The source lot is always locked first.
func (s *TransferService) shift(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID, line stock.TransferLine, q decimal.Decimal, direction int) error {
	source, err := repos.LotRepo().FindByIDForUpdate(ctx, tenantID, line.SourceLotID)
	if err != nil {
		return err
	}
	dest, err := repos.LotRepo().FindByIDForUpdate(ctx, tenantID, line.DestinationLotID)
	if err != nil {
		return err
	}
	if _, err := s.stock.Move(ctx, repos, source, q, line.UnitID, -direction, kindTransfer); err != nil {
		return err
	}
	_, err = s.stock.Move(ctx, repos, dest, q, line.UnitID, direction, kindTransfer)
	return err
}

func bySourceLot(lines []stock.TransferLineInput) []stock.TransferLineInput {
	sorted := append([]stock.TransferLineInput(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SourceLotID.String() < sorted[j].SourceLotID.String()
	})
	return sorted
}

// Get returns one transfer
func (s *TransferService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*stock.Transfer, error) {
	var t *stock.Transfer
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		t, err = repos.TransferRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return t, err
}

// List returns a page of transfers
func (s *TransferService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]stock.Transfer, int64, error) {
	var (
		items []stock.Transfer
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.TransferRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}
