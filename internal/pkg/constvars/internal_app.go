package constvars

// ContextKey is the type used for all values this service places on a
// request context, so keys cannot collide with other packages.
type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_BEARER_TOKEN_KEY         ContextKey = "bearer_token"
	CONTEXT_SUBJECT_KEY              ContextKey = "subject"
)

const (
	ResponseUnknown = "unknown"
)

// Redis key formats.
const (
	CollectionSessionLockKeyFormat = "collection_session_lock:%s"
)
