package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingMethodKey             = "method"
	LoggingEndpointKey           = "endpoint"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingQueryKey              = "query"
	LoggingStatusCodeKey         = "status_code"
	LoggingDurationKey           = "duration"
	LoggingSuccessKey            = "success"
	LoggingErrorTypeKey          = "error_type"
	LoggingRequestKey            = "request"
	LoggingResponseKey           = "response"
	LoggingPatientIDKey          = "patient_id"
	LoggingCollectionIDKey       = "collection_id"
	LoggingSessionIDKey          = "session_id"
	LoggingBillCountKey          = "bill_count"
	LoggingBillIDKey             = "bill_id"
	LoggingSelectedTotalKey      = "selected_total"
	LoggingStageKey              = "stage"
	LoggingPaymentStatusKey      = "payment_status"
	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
	LoggingQueueNameKey          = "queue_name"
	LoggingURLKey                = "url"
)
