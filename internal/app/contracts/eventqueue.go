package contracts

import "context"

// PaymentEvent is published on every terminal outcome of a payment session so
// downstream clinic systems (receipts, ledger) can react.
type PaymentEvent struct {
	CollectionID  string   `json:"collection_id"`
	PatientID     string   `json:"patient_id"`
	SessionID     string   `json:"session_id"`
	BillIDs       []string `json:"bill_ids"`
	TotalAmount   float64  `json:"total_amount"`
	Status        string   `json:"status"`
	PaidAt        string   `json:"paid_at,omitempty"`
	TransactionID string   `json:"transaction_id,omitempty"`
}

type PaymentEventPublisher interface {
	Publish(ctx context.Context, event *PaymentEvent) error
}
