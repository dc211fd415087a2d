package models

// CollectionStage is the four-stage merged-payment flow. A collection moves
// SelectPatient → Review → AwaitingPayment → Completed on success; expiry,
// failure, timeout and user cancel return it to Review with the selection
// intact.
type CollectionStage string

const (
	StageSelectPatient   CollectionStage = "SELECT_PATIENT"
	StageReview          CollectionStage = "REVIEW"
	StageAwaitingPayment CollectionStage = "AWAITING_PAYMENT"
	StageCompleted       CollectionStage = "COMPLETED"
)
