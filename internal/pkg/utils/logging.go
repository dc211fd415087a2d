package utils

import (
	"klinipay-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// LogBusinessEvent records a domain-level event (collection started, session
// created, payment completed) in a uniform shape.
func LogBusinessEvent(log *zap.Logger, event, requestID string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("event", event),
		zap.String(constvars.LoggingRequestIDKey, requestID),
	}, fields...)
	log.Info("business_event", allFields...)
}

// LogSecurityEvent records auth-relevant events (rejected tokens, backend 401s).
func LogSecurityEvent(log *zap.Logger, event, requestID, severity string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("event", event),
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("severity", severity),
	}, fields...)
	if severity == "warn" {
		log.Warn("security_event", allFields...)
		return
	}
	log.Info("security_event", allFields...)
}
