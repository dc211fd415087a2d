package responses

// MergedPaymentSession is the payment backend's acknowledgement of a created
// session. SessionID and QRCodePayload are mandatory; a response missing
// either is treated as a failed creation.
type MergedPaymentSession struct {
	SessionID      string  `json:"sessionId"`
	QRCodePayload  string  `json:"qrCodePayload"`
	TotalAmount    float64 `json:"totalAmount"`
	TimeoutMinutes int     `json:"timeoutMinutes"`
}

// MergedPaymentStatus is one status-poll result for a session.
type MergedPaymentStatus struct {
	Status        string  `json:"status"`
	PaidAt        string  `json:"paidAt,omitempty"`
	TransactionID string  `json:"transactionId,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
}

// BackendErrorEnvelope is the failure body shape shared by the billing and
// payment backends.
type BackendErrorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
