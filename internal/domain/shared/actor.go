package shared

import "github.com/google/uuid"

// Actor identifies who is executing an operation and on behalf of which tenant.
// It is passed explicitly to every orchestrator and ledger call.
type Actor struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
}

// NewActor builds an actor for the given tenant and user
func NewActor(tenantID, userID uuid.UUID) Actor {
	return Actor{TenantID: tenantID, UserID: userID}
}

// Validate refuses an actor without a tenant
func (a Actor) Validate() error {
	if a.TenantID == uuid.Nil {
		return ErrTenantRequired
	}
	return nil
}
