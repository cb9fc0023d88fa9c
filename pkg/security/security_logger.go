package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventLoginSuccess       EventType = "login_success"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventValidationFailed   EventType = "validation_failed"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time
	Event        EventType
	SubjectType  string // "ip", "uid"
	SubjectValue string // uids are hashed
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]interface{}
}

// SecurityLogger writes security events as structured zap entries.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// NewSecurityLogger tags every event with the service and environment.
// A nil base logger discards events.
func NewSecurityLogger(base *zap.Logger, serviceName, environment string) *SecurityLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &SecurityLogger{
		zapLogger:   base.Named("security"),
		serviceName: serviceName,
		environment: environment,
	}
}

// Log logs a security event
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	level := zapcore.WarnLevel
	switch event.Event {
	case EventLoginSuccess:
		level = zapcore.InfoLevel
	case EventUnauthorizedAccess:
		level = zapcore.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("service", sl.serviceName),
		zap.String("env", sl.environment),
		zap.String("event", string(event.Event)),
		zap.Time("event_time", event.Timestamp),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", maskValue(event.SubjectType, event.SubjectValue)))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

// LogLoginSuccess logs a verified sign-in.
func (sl *SecurityLogger) LogLoginSuccess(ctx context.Context, uid, ip, userAgent, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginSuccess,
		SubjectType:  "uid",
		SubjectValue: uid,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
	})
}

// LogUnauthorizedAccess logs a request rejected for a missing or bad token.
func (sl *SecurityLogger) LogUnauthorizedAccess(ctx context.Context, ip, userAgent, requestID, endpoint, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventUnauthorizedAccess,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint, "reason": reason},
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogValidationFailed logs a rejected request body.
func (sl *SecurityLogger) LogValidationFailed(ctx context.Context, ip, requestID, endpoint string, fields map[string]string) {
	details := map[string]interface{}{"endpoint": endpoint}
	if len(fields) > 0 {
		details["fields"] = fields
	}
	sl.Log(ctx, SecurityEvent{
		Event:     EventValidationFailed,
		IP:        ip,
		RequestID: requestID,
		Details:   details,
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func maskValue(subjectType, value string) string {
	if subjectType == "ip" {
		return value
	}
	return HashValue(value)
}

// EnvironmentName maps the gin mode onto the env label attached to events.
func EnvironmentName(ginMode string) string {
	if ginMode == "release" {
		return "production"
	}
	return "development"
}
