package models

import (
	"fmt"
	"time"
)

// BillStatus is the lifecycle status of a bill as reported by the billing
// backend. Bills are never mutated by this service.
type BillStatus string

const (
	BillStatusPending   BillStatus = "PENDING"
	BillStatusPaid      BillStatus = "PAID"
	BillStatusCancelled BillStatus = "CANCELLED"
	BillStatusRefunded  BillStatus = "REFUNDED"
)

// ParseBillStatus validates a raw status string from the wire.
func ParseBillStatus(raw string) (BillStatus, error) {
	switch BillStatus(raw) {
	case BillStatusPending, BillStatusPaid, BillStatusCancelled, BillStatusRefunded:
		return BillStatus(raw), nil
	default:
		return "", fmt.Errorf("unknown bill status %q", raw)
	}
}

type Bill struct {
	ID          string
	Amount      float64
	Status      BillStatus
	CreatedAt   time.Time
	Description string
	Type        string
}

// Validate enforces the boundary invariants for a bill record decoded from
// the billing backend. Records failing this never enter the workflow.
func (b Bill) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("bill has no id")
	}
	if b.Amount <= 0 {
		return fmt.Errorf("bill %s has non-positive amount %v", b.ID, b.Amount)
	}
	if _, err := ParseBillStatus(string(b.Status)); err != nil {
		return fmt.Errorf("bill %s: %w", b.ID, err)
	}
	return nil
}
