package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFrom_ReadsEnvFile(t *testing.T) {
	path := writeEnvFile(t, `APP_PORT=9090
DB_HOST=db.internal
DB_USER=hms
DB_NAME=hospital
JWT_SECRET=supersecret
JWT_ACCESS_EXPIRY=5m
CORS_ORIGINS=http://a.test, http://b.test
KAFKA_BROKERS=k1:9092,k2:9092
SERVICE_AUTH_URL=http://auth:8080/
`)

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.CORSOrigins)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "hms.notifications", cfg.Kafka.NotificationTopic)
	assert.Equal(t, "http://auth:8080", cfg.Gateway.Services["auth"])
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
}

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoadConfigFrom_InvalidGatewayTimeout(t *testing.T) {
	path := writeEnvFile(t, "GATEWAY_TIMEOUT=soon\n")

	_, err := LoadConfigFrom(path)
	assert.Error(t, err)
}

func TestCheckEnv_ReportsMissingAndInvalidKeys(t *testing.T) {
	path := writeEnvFile(t, `DB_HOST=localhost
DB_USER=hms
DB_NAME=hospital
REDIS_HOST=localhost
JWT_SECRET=short
JWT_REFRESH_EXPIRY=forever
`)

	issues := CheckEnv(path)

	byKey := map[string]EnvIssue{}
	for _, issue := range issues {
		byKey[issue.Key] = issue
	}

	assert.NotContains(t, byKey, "DB_HOST")
	assert.NotContains(t, byKey, "DB_PORT", "defaults count as set")
	require.Contains(t, byKey, "JWT_SECRET")
	assert.False(t, byKey["JWT_SECRET"].Required)
	require.Contains(t, byKey, "JWT_REFRESH_EXPIRY")
	assert.True(t, byKey["JWT_REFRESH_EXPIRY"].Required)
	require.Contains(t, byKey, "SERVICE_DOCTOR_URL")
	assert.False(t, byKey["SERVICE_DOCTOR_URL"].Required)
}

func TestServiceURLKey(t *testing.T) {
	assert.Equal(t, "SERVICE_RECEPTIONIST_URL", ServiceURLKey("receptionist"))
}
