package security_test

import (
	"context"
	"testing"

	"skincare-backend/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSecurityLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := security.NewSecurityLogger(zap.New(core), "skincare-backend", "test")

	sl.LogUnauthorizedAccess(context.Background(), "10.0.0.1", "curl", "req-1", "/api/routine", "missing token")
	sl.LogLoginSuccess(context.Background(), "user-1", "10.0.0.1", "curl", "req-2")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "unauthorized_access", entries[0].Message)
	assert.Equal(t, "10.0.0.1", entries[0].ContextMap()["subject_value"])
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])

	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, security.HashValue("user-1"), entries[1].ContextMap()["subject_value"])
	assert.NotEqual(t, "user-1", entries[1].ContextMap()["subject_value"])
}

func TestEnvironmentName(t *testing.T) {
	assert.Equal(t, "production", security.EnvironmentName("release"))
	assert.Equal(t, "development", security.EnvironmentName("debug"))
}
