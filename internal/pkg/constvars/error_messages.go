package constvars

// Client-facing error messages.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process your request, please check your input"
	ErrClientNotAuthorized                 = "You are not authorized, please log in again"
	ErrClientNoPatientSelected             = "Please select a patient first"
	ErrClientNoBillsSelected               = "Please select at least one bill to pay"
	ErrClientCollectionNotFound            = "Payment collection not found or already closed"
	ErrClientBillNotFound                  = "Bill not found in this collection"
	ErrClientBillingUnreachable            = "Billing service is unreachable, please try again"
	ErrClientPaymentUnreachable            = "Payment service is unreachable, please try again"
	ErrClientSessionCreationFailed         = "Could not create the payment session, please try again"
	ErrClientSessionCreationInProgress     = "A payment session is already being created for this collection"
	ErrClientServerLongRespond             = "Server took too long to respond, please try again"
	ErrClientWrongStageForOperation        = "This operation is not available at the current payment stage"
)

// Developer-facing error messages.
const (
	ErrDevValidationFailed            = "Request validation failed"
	ErrDevCannotParseJSON             = "Failed to parse JSON request body"
	ErrDevCannotMarshalJSON           = "Failed to marshal value to JSON"
	ErrDevCreateHTTPRequest           = "Failed to create outbound HTTP request"
	ErrDevSendHTTPRequest             = "Failed to send outbound HTTP request"
	ErrDevDecodeBackendResponse       = "Failed to decode backend response: %s"
	ErrDevBackendRejectedRequest      = "Backend rejected request with status %d: %s"
	ErrDevBackendAuthRejected         = "Backend rejected bearer credential with status 401"
	ErrDevAuthTokenMissing            = "Authorization header missing from request"
	ErrDevAuthTokenInvalidOrExpired   = "Bearer token is invalid or expired"
	ErrDevNoPatientSelected           = "Collection has no patient selected"
	ErrDevNoBillsSelected             = "Session creation requested with empty bill selection"
	ErrDevCollectionNotFound          = "No collection workflow registered under id %s"
	ErrDevBillNotFound                = "Bill id not present in fetched bill set"
	ErrDevSessionMissingFields        = "Payment backend response missing sessionId or qrCodePayload"
	ErrDevSessionCreateInFlight       = "Session creation lock already held for collection"
	ErrDevInvalidBillRecord           = "Bill record failed boundary validation: %s"
	ErrDevWrongStage                  = "Operation not allowed in stage %s"
	ErrDevServerDeadlineExceeded      = "Context deadline exceeded while processing request"
	ErrDevMissingRequestID            = "Request ID missing from request context"
	ErrDevRedisSetData                = "Failed to set data on redis"
	ErrDevRedisGetData                = "Failed to get data from redis"
	ErrDevRedisDeleteData             = "Failed to delete data from redis"
	ErrDevRedisUnlock                 = "Failed to release redis lock"
	ErrDevRabbitMQPublishMessage      = "Failed to publish message to queue %s"
	ErrDevServerProcess               = "Internal error while processing request"
)

// CustomValidationErrorMessages maps validator tags to client phrasing.
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"oneof":    "must be one of: %s",
	"uuid":     "must be a valid identifier",
}

// TagsWithParams marks validator tags whose message embeds the tag parameter.
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
}
