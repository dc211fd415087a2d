package constvars

const (
	CollectionCreatedSuccessfully        = "Payment collection started successfully"
	CollectionFetchedSuccessfully        = "Payment collection fetched successfully"
	CollectionPatientSelectedSuccess     = "Patient selected and bills fetched successfully"
	CollectionBillsRefreshedSuccessfully = "Bills refreshed successfully"
	CollectionSelectionUpdatedSuccess    = "Bill selection updated successfully"
	CollectionSessionCreatedSuccessfully = "Payment session created successfully"
	CollectionSessionCancelledSuccess    = "Payment session cancelled successfully"
	CollectionResetSuccessfully          = "Payment collection reset successfully"
	CollectionClosedSuccessfully         = "Payment collection closed successfully"
)
