package shared

import (
	"time"
)

// DocumentStatus is the lifecycle state of a business document
type DocumentStatus string

const (
	DocumentStatusOpen      DocumentStatus = "open"
	DocumentStatusClosed    DocumentStatus = "closed"
	DocumentStatusCancelled DocumentStatus = "cancelled"
)

// IsValid reports whether s is a known status
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusOpen, DocumentStatusClosed, DocumentStatusCancelled:
		return true
	}
	return false
}

// Document carries the fields and state machine shared by every numbered
// business document: open -> closed | cancelled. Edits are only allowed
// while open; deletion is allowed from open or closed.
type Document struct {
	TenantAggregateRoot
	DocumentNumber string
	DocumentDate   time.Time
	Status         DocumentStatus
	Note           string
}

// NewDocument creates an open document
func NewDocument(actor Actor, number string, date time.Time) Document {
	if date.IsZero() {
		date = time.Now()
	}
	return Document{
		TenantAggregateRoot: NewTenantAggregateRoot(actor),
		DocumentNumber:      number,
		DocumentDate:        date,
		Status:              DocumentStatusOpen,
	}
}

// EnsureEditable fails unless the document is open
func (d *Document) EnsureEditable() error {
	if d.Status != DocumentStatusOpen {
		return ErrInvalidState.WithMessage("document %s is %s and cannot be edited", d.DocumentNumber, d.Status)
	}
	return nil
}

// EnsureDeletable fails for cancelled documents, whose effects are already reversed
func (d *Document) EnsureDeletable() error {
	if d.Status == DocumentStatusCancelled {
		return ErrInvalidState.WithMessage("document %s is cancelled and cannot be deleted", d.DocumentNumber)
	}
	return nil
}

// Close moves an open document to closed
func (d *Document) Close() error {
	if d.Status != DocumentStatusOpen {
		return ErrInvalidState.WithMessage("cannot close document %s in status %s", d.DocumentNumber, d.Status)
	}
	d.Status = DocumentStatusClosed
	d.Touch()
	return nil
}

// Reopen moves a closed document back to open
func (d *Document) Reopen() error {
	if d.Status != DocumentStatusClosed {
		return ErrInvalidState.WithMessage("cannot reopen document %s in status %s", d.DocumentNumber, d.Status)
	}
	d.Status = DocumentStatusOpen
	d.Touch()
	return nil
}

// Cancel moves an open document to cancelled
func (d *Document) Cancel() error {
	if d.Status != DocumentStatusOpen {
		return ErrInvalidState.WithMessage("cannot cancel document %s in status %s", d.DocumentNumber, d.Status)
	}
	d.Status = DocumentStatusCancelled
	d.Touch()
	return nil
}
