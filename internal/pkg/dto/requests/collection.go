package requests

// CreateCollection starts a new collection workflow instance. The patient may
// be supplied immediately or selected later through SelectPatient.
type CreateCollection struct {
	PatientID string `json:"patient_id" validate:"omitempty,min=1"`
}

// SelectPatient binds a patient to the collection and triggers the unpaid
// bill fetch.
type SelectPatient struct {
	PatientID string `json:"patient_id" validate:"required,min=1"`
}
