package models

import "time"

// SessionStatus is a payment session status as observed by this service.
// CREATING is client-local (the create request is in flight); WAITING begins
// when the backend acknowledges creation; PAID, EXPIRED and FAILED are
// backend-declared terminals learned only via polling. TIMEOUT is the
// client-side safety net when no terminal status arrives in time.
type SessionStatus string

const (
	SessionStatusCreating SessionStatus = "CREATING"
	SessionStatusWaiting  SessionStatus = "WAITING"
	SessionStatusPaid     SessionStatus = "PAID"
	SessionStatusExpired  SessionStatus = "EXPIRED"
	SessionStatusFailed   SessionStatus = "FAILED"
	SessionStatusTimeout  SessionStatus = "TIMEOUT"
)

// IsTerminal reports whether no further transitions can occur after s.
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionStatusPaid, SessionStatusExpired, SessionStatusFailed, SessionStatusTimeout:
		return true
	}
	return false
}

// PaymentSession is a backend-issued, time-bounded record tying a frozen set
// of bill ids and a total amount to a scannable payment code. The bill set is
// fixed at creation; later selection changes do not affect it.
type PaymentSession struct {
	SessionID      string
	PatientID      string
	BillIDs        []string
	TotalAmount    float64
	QRCodePayload  string
	Status         SessionStatus
	CreatedAt      time.Time
	TimeoutMinutes int
}

// TerminalOutcome records how a payment session ended, for presentation.
type TerminalOutcome struct {
	Status        SessionStatus
	PaidAt        string
	TransactionID string
	Amount        float64
}
