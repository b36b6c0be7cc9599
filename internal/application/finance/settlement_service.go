package finance

import (
	"context"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	kindVendorPayment = "vendor_payment"
	kindCollection    = "collection"
)

// VendorPaymentService records payments against vendor dues
type VendorPaymentService struct {
	runner   *appshared.Runner
	numberer *appledger.Numberer
	ledger   *appledger.TransactionLedger
}

// NewVendorPaymentService creates a new VendorPaymentService
func NewVendorPaymentService(runner *appshared.Runner, numberer *appledger.Numberer, transactions *appledger.TransactionLedger) *VendorPaymentService {
	return &VendorPaymentService{runner: runner, numberer: numberer, ledger: transactions}
}

// Create numbers a payment and records its amount against vendor dues
func (s *VendorPaymentService) Create(ctx context.Context, actor shared.Actor, in finance.SettlementInput) (*finance.VendorPayment, error) {
	var result *finance.VendorPayment
	op := appshared.Operation{
		Kind:  kindVendorPayment,
		Name:  "create",
		Actor: actor,
		Locks: appledger.LockKeys(actor.TenantID, ledger.SeriesVendorPayment),
	}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		number, err := s.numberer.Next(ctx, repos, actor.TenantID, ledger.SeriesVendorPayment)
		if err != nil {
			return err
		}
		p, err := finance.NewVendorPayment(actor, number, in)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, number)
		if err := s.save(ctx, repos, actor, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

// Update revises an open payment and records the new amount
func (s *VendorPaymentService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in finance.SettlementInput) (*finance.VendorPayment, error) {
	var result *finance.VendorPayment
	op := appshared.Operation{Kind: kindVendorPayment, Name: "update", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		p, err := repos.VendorPaymentRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, p.DocumentNumber)
		if err := p.Revise(in); err != nil {
			return err
		}
		if err := s.save(ctx, repos, actor, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

// Delete voids the payment's entry and removes the payment
func (s *VendorPaymentService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	op := appshared.Operation{Kind: kindVendorPayment, Name: "delete", Actor: actor}
	return s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		p, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		return repos.VendorPaymentRepo().Delete(ctx, actor.TenantID, p.ID)
	})
}

// Cancel voids the payment's entry and keeps the payment as cancelled
func (s *VendorPaymentService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*finance.VendorPayment, error) {
	var result *finance.VendorPayment
	op := appshared.Operation{Kind: kindVendorPayment, Name: "cancel", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		p, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		if err := p.Cancel(); err != nil {
			return err
		}
		if err := repos.VendorPaymentRepo().Save(ctx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

func (s *VendorPaymentService) reverse(ctx context.Context, repos appshared.Repositories, actor shared.Actor, id uuid.UUID) (*finance.VendorPayment, error) {
	p, err := repos.VendorPaymentRepo().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	appshared.SetDocumentNumber(ctx, p.DocumentNumber)
	if err := p.EnsureDeletable(); err != nil {
		return nil, err
	}
	if err := s.ledger.Void(ctx, repos, actor, p.DocumentNumber); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *VendorPaymentService) save(ctx context.Context, repos appshared.Repositories, actor shared.Actor, p *finance.VendorPayment) error {
	if err := repos.VendorPaymentRepo().Save(ctx, p); err != nil {
		return err
	}
	_, err := s.ledger.Record(ctx, repos, actor, p.DocumentNumber, ledger.VendorPayment, p.Amount)
	return err
}

// Get returns one vendor payment
func (s *VendorPaymentService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*finance.VendorPayment, error) {
	var p *finance.VendorPayment
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		p, err = repos.VendorPaymentRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return p, err
}

// List returns a page of vendor payments
func (s *VendorPaymentService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]finance.VendorPayment, int64, error) {
	var (
		items []finance.VendorPayment
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.VendorPaymentRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}

// CollectionService records money collected against customer dues
type CollectionService struct {
	runner   *appshared.Runner
	numberer *appledger.Numberer
	ledger   *appledger.TransactionLedger
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(runner *appshared.Runner, numberer *appledger.Numberer, transactions *appledger.TransactionLedger) *CollectionService {
	return &CollectionService{runner: runner, numberer: numberer, ledger: transactions}
}

// Create numbers a collection and records its amount against customer dues
func (s *CollectionService) Create(ctx context.Context, actor shared.Actor, in finance.SettlementInput) (*finance.CustomerCollection, error) {
	var result *finance.CustomerCollection
	op := appshared.Operation{
		Kind:  kindCollection,
		Name:  "create",
		Actor: actor,
		Locks: appledger.LockKeys(actor.TenantID, ledger.SeriesCollection),
	}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		number, err := s.numberer.Next(ctx, repos, actor.TenantID, ledger.SeriesCollection)
		if err != nil {
			return err
		}
		c, err := finance.NewCustomerCollection(actor, number, in)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, number)
		if err := s.save(ctx, repos, actor, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	return result, err
}

// Update revises an open collection and records the new amount
func (s *CollectionService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in finance.SettlementInput) (*finance.CustomerCollection, error) {
	var result *finance.CustomerCollection
	op := appshared.Operation{Kind: kindCollection, Name: "update", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		c, err := repos.CollectionRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, c.DocumentNumber)
		if err := c.Revise(in); err != nil {
			return err
		}
		if err := s.save(ctx, repos, actor, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	return result, err
}

// Delete voids the collection's entry and removes the collection
func (s *CollectionService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	op := appshared.Operation{Kind: kindCollection, Name: "delete", Actor: actor}
	return s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		c, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		return repos.CollectionRepo().Delete(ctx, actor.TenantID, c.ID)
	})
}

// Cancel voids the collection's entry and keeps the collection as cancelled
func (s *CollectionService) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*finance.CustomerCollection, error) {
	var result *finance.CustomerCollection
	op := appshared.Operation{Kind: kindCollection, Name: "cancel", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		c, err := s.reverse(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		if err := c.Cancel(); err != nil {
			return err
		}
		if err := repos.CollectionRepo().Save(ctx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	return result, err
}

func (s *CollectionService) reverse(ctx context.Context, repos appshared.Repositories, actor shared.Actor, id uuid.UUID) (*finance.CustomerCollection, error) {
	c, err := repos.CollectionRepo().FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	appshared.SetDocumentNumber(ctx, c.DocumentNumber)
	if err := c.EnsureDeletable(); err != nil {
		return nil, err
	}
	if err := s.ledger.Void(ctx, repos, actor, c.DocumentNumber); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CollectionService) save(ctx context.Context, repos appshared.Repositories, actor shared.Actor, c *finance.CustomerCollection) error {
	if err := repos.CollectionRepo().Save(ctx, c); err != nil {
		return err
	}
	_, err := s.ledger.Record(ctx, repos, actor, c.DocumentNumber, ledger.Collection, c.Amount)
	return err
}

// Get returns one collection
func (s *CollectionService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*finance.CustomerCollection, error) {
	var c *finance.CustomerCollection
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		c, err = repos.CollectionRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return c, err
}

// List returns a page of collections
func (s *CollectionService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]finance.CustomerCollection, int64, error) {
	var (
		items []finance.CustomerCollection
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.CollectionRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}
