package contracts

import (
	"context"
	"klinipay-service/internal/app/models"
)

// BillRegistryClient is the read-only client for the billing backend. It
// returns only PENDING bills, already normalized and validated.
type BillRegistryClient interface {
	GetUnpaidBills(ctx context.Context, patientID string) ([]models.Bill, error)
}
