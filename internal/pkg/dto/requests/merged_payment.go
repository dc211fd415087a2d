package requests

// CreateMergedPaymentSession is the outbound payload for the payment
// backend's merged-payment session endpoint. Field names follow the backend
// contract, not this service's own JSON convention.
type CreateMergedPaymentSession struct {
	PatientID   string   `json:"patientId" validate:"required"`
	BillIDs     []string `json:"billIds" validate:"required,min=1"`
	TotalAmount float64  `json:"totalAmount" validate:"required,gt=0"`
}
