package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hospital-management/config"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/testutil"
	"hospital-management/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func withRole(r *http.Request, roleID int) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), RoleIDKey, roleID))
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		guard  func(http.Handler) http.Handler
		roleID int
		set    bool
		code   int
	}{
		{"no role in context", RequireAdmin, 0, false, http.StatusUnauthorized},
		{"admin on admin route", RequireAdmin, entity.RoleIDAdmin, true, http.StatusNoContent},
		{"doctor on admin route", RequireAdmin, entity.RoleIDDoctor, true, http.StatusForbidden},
		{"doctor is staff", RequireStaff, entity.RoleIDDoctor, true, http.StatusNoContent},
		{"patient is not staff", RequireStaff, entity.RoleIDPatient, true, http.StatusForbidden},
		{"receptionist at front desk", RequireFrontDesk, entity.RoleIDReceptionist, true, http.StatusNoContent},
		{"doctor not at front desk", RequireFrontDesk, entity.RoleIDDoctor, true, http.StatusForbidden},
		{"patient route", RequirePatient, entity.RoleIDPatient, true, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.set {
				req = withRole(req, tt.roleID)
			}
			rec := httptest.NewRecorder()
			tt.guard(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
	tokens := testutil.NewMemoryTokenStore()
	auth := NewAuthMiddleware(jwtService, tokens, testutil.NewLogger())
	userID := uuid.New()

	access, accessID, err := jwtService.GenerateAccessToken(userID, "ana@example.com", entity.RoleIDPatient)
	require.NoError(t, err)
	require.NoError(t, tokens.Store(context.Background(), userID, jwt.AccessToken, accessID, time.Minute))

	refresh, refreshID, err := jwtService.GenerateRefreshToken(userID, "ana@example.com", entity.RoleIDPatient)
	require.NoError(t, err)
	require.NoError(t, tokens.Store(context.Background(), userID, jwt.RefreshToken, refreshID, time.Hour))

	unregistered, _, err := jwtService.GenerateAccessToken(userID, "ana@example.com", entity.RoleIDPatient)
	require.NoError(t, err)

	var gotUser uuid.UUID
	var gotRole int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUserIDFromContext(r.Context())
		gotRole, _ = GetRoleIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + access, http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"revoked or unknown token", "Bearer " + unregistered, http.StatusUnauthorized},
		{"valid access token", "Bearer " + access, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			auth.Authenticate(next).ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}

	assert.Equal(t, userID, gotUser)
	assert.Equal(t, entity.RoleIDPatient, gotRole)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "from-gateway")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "from-gateway", seen)
	assert.Equal(t, "from-gateway", rec.Header().Get(RequestIDHeader))
}

func TestRecover(t *testing.T) {
	h := Recover(testutil.NewLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	h := NewCORSMiddleware([]string{"https://portal.hospital.test"}).Handle(ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://portal.hospital.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://portal.hospital.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
