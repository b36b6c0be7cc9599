package ledger

import (
	"context"

	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

const kindLedger = "ledger"

// Service exposes ledger entries and custom types to the API
type Service struct {
	runner *appshared.Runner
	ledger *TransactionLedger
}

// NewService creates a new ledger Service
func NewService(runner *appshared.Runner, l *TransactionLedger) *Service {
	return &Service{runner: runner, ledger: l}
}

// Get returns one entry
func (s *Service) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ledger.Entry, error) {
	var entry *ledger.Entry
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		entry, err = repos.EntryRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return entry, err
}

// GetByNumber returns the entry of a document
func (s *Service) GetByNumber(ctx context.Context, actor shared.Actor, number string) (*ledger.Entry, error) {
	var entry *ledger.Entry
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		entry, err = repos.EntryRepo().FindByNumber(ctx, actor.TenantID, number)
		return err
	})
	return entry, err
}

// List returns a page of entries
func (s *Service) List(ctx context.Context, actor shared.Actor, filter ledger.EntryFilter) ([]ledger.Entry, int64, error) {
	var (
		entries []ledger.Entry
		total   int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		entries, total, err = repos.EntryRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return entries, total, err
}

// Post marks an open entry as posted
func (s *Service) Post(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ledger.Entry, error) {
	var entry *ledger.Entry
	op := appshared.Operation{Kind: kindLedger, Name: "post", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		found, err := repos.EntryRepo().FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		appshared.SetDocumentNumber(ctx, found.DocumentNumber)
		if err := found.Post(); err != nil {
			return err
		}
		if err := repos.EntryRepo().SaveWithLock(ctx, found); err != nil {
			return err
		}
		entry = found
		return nil
	})
	return entry, err
}

// RegisterTypeInput describes a tenant-defined income or expense type
type RegisterTypeInput struct {
	Code  ledger.Type
	Name  string
	Group ledger.Group
}

// RegisterType adds a custom type to the tenant's catalog
func (s *Service) RegisterType(ctx context.Context, actor shared.Actor, in RegisterTypeInput) (*ledger.CustomType, error) {
	t, err := ledger.NewCustomType(actor, in.Code, in.Name, in.Group)
	if err != nil {
		return nil, err
	}
	op := appshared.Operation{Kind: kindLedger, Name: "register_type", Actor: actor}
	err = s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		return repos.LedgerTypeRepo().Save(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Types lists the tenant's custom types
func (s *Service) Types(ctx context.Context, actor shared.Actor) ([]ledger.CustomType, error) {
	var types []ledger.CustomType
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		types, err = repos.LedgerTypeRepo().FindAll(ctx, actor.TenantID)
		return err
	})
	return types, err
}

// Catalog returns the tenant's classification table for labelling entries
func (s *Service) Catalog(ctx context.Context, actor shared.Actor) (*ledger.Catalog, error) {
	var catalog *ledger.Catalog
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		catalog, err = s.ledger.Catalog(ctx, repos, actor.TenantID)
		return err
	})
	return catalog, err
}
