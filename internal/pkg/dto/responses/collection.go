package responses

// CollectionState is the full snapshot of a collection workflow instance that
// the front end renders from. It is rebuilt from the workflow under its lock
// on every read, never cached.
type CollectionState struct {
	CollectionID    string                 `json:"collection_id"`
	PatientID       string                 `json:"patient_id,omitempty"`
	Stage           string                 `json:"stage"`
	Bills           []BillDetail           `json:"bills"`
	SelectedBillIDs []string               `json:"selected_bill_ids"`
	SelectedTotal   float64                `json:"selected_total"`
	Session         *PaymentSessionDetail  `json:"session,omitempty"`
	Outcome         *TerminalOutcomeDetail `json:"outcome,omitempty"`
}

type BillDetail struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at,omitempty"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"type,omitempty"`
	Selected    bool    `json:"selected"`
}

type PaymentSessionDetail struct {
	SessionID      string   `json:"session_id"`
	BillIDs        []string `json:"bill_ids"`
	TotalAmount    float64  `json:"total_amount"`
	QRCodePayload  string   `json:"qr_code_payload"`
	Status         string   `json:"status"`
	CreatedAt      string   `json:"created_at"`
	TimeoutMinutes int      `json:"timeout_minutes,omitempty"`
}

type TerminalOutcomeDetail struct {
	Status        string  `json:"status"`
	PaidAt        string  `json:"paid_at,omitempty"`
	TransactionID string  `json:"transaction_id,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
}
