package middlewares

import (
	"context"
	"klinipay-service/internal/pkg/constvars"
	"klinipay-service/internal/pkg/exceptions"
	"klinipay-service/internal/pkg/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Authentication validates the caller's bearer token and keeps the raw token
// in the request context so outbound backend calls can forward it unchanged.
func (m *Middlewares) Authentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.LogSecurityEvent(m.Log, "missing_bearer_token", requestID, "low",
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAuthTokenMissing(nil))
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		subject, err := utils.ParseBearerToken(token, m.InternalConfig.JWT.Secret)
		if err != nil {
			utils.LogSecurityEvent(m.Log, "invalid_bearer_token", requestID, "medium",
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAuthTokenInvalidOrExpired(err))
			return
		}

		ctx := utils.ContextWithBearerToken(r.Context(), token)
		ctx = context.WithValue(ctx, constvars.CONTEXT_SUBJECT_KEY, subject)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
