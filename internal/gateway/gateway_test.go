package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hospital-management/config"
	"hospital-management/internal/delivery/http/middleware"
	"hospital-management/internal/testutil"
	"hospital-management/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	path      string
	query     string
	requestID string
	forwarded string
}

// upstream echoes what it received so tests can assert on forwarding.
func upstream(t *testing.T, name string, got *seen) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			response.Success(w, http.StatusOK, "Service is healthy", nil)
			return
		}
		if got != nil {
			*got = seen{
				path:      r.URL.Path,
				query:     r.URL.RawQuery,
				requestID: r.Header.Get(middleware.RequestIDHeader),
				forwarded: r.Header.Get("X-Forwarded-For"),
			}
		}
		response.Success(w, http.StatusOK, name, nil)
	}))
	t.Cleanup(server.Close)
	return server
}

func newGateway(t *testing.T, services map[string]string) *Gateway {
	t.Helper()
	g, err := New(config.GatewayConfig{Port: "0", Timeout: 5 * time.Second, Services: services}, testutil.NewLogger())
	require.NoError(t, err)
	return g
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestMatch(t *testing.T) {
	g := newGateway(t, nil)

	tests := []struct {
		path    string
		service string
		ok      bool
	}{
		{"/api/auth/login", "auth", true},
		{"/api/doctors", "doctor", true},
		{"/api/doctors/CARD-DOC-202506-001/availability", "doctor", true},
		{"/api/doctorsX", "", false},
		{"/api/rooms/abc/status", "department", true},
		{"/api/receptionist/queue", "receptionist", true},
		{"/api/receptionists", "receptionist", true},
		{"/api/medical-records/MR-202506-001", "patient", true},
		{"/api/audit-logs", "admin", true},
		{"/api/unknown", "", false},
		{"/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			route, ok := g.Match(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.service, route.Service)
		})
	}
}

func TestForward(t *testing.T) {
	var got seen
	doctors := upstream(t, "doctor", &got)
	g := newGateway(t, map[string]string{"doctor": doctors.URL})

	req := httptest.NewRequest(http.MethodGet, "/api/doctors?department_id=abc&page=2", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	g.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "doctor", decode(t, rec).Message)
	assert.Equal(t, "/api/doctors", got.path)
	assert.Equal(t, "department_id=abc&page=2", got.query)
	assert.Equal(t, "req-123", got.requestID)
	assert.NotEmpty(t, got.forwarded)
	assert.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestForward_GeneratesRequestID(t *testing.T) {
	var got seen
	auth := upstream(t, "auth", &got)
	g := newGateway(t, map[string]string{"auth": auth.URL})

	rec := httptest.NewRecorder()
	g.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, got.requestID)
	assert.Equal(t, got.requestID, rec.Header().Get(middleware.RequestIDHeader))
}

func TestForward_Errors(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(slow.Close)

	g, err := New(config.GatewayConfig{
		Port:     "0",
		Timeout:  100 * time.Millisecond,
		Services: map[string]string{"payment": deadURL, "doctor": slow.URL},
	}, testutil.NewLogger())
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		code int
	}{
		{"unknown prefix", "/api/pharmacy", http.StatusNotFound},
		{"segment boundary", "/api/paymentsX", http.StatusNotFound},
		{"unconfigured service", "/api/appointments", http.StatusServiceUnavailable},
		{"unreachable upstream", "/api/payments", http.StatusBadGateway},
		{"upstream too slow", "/api/doctors", http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			g.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.code, rec.Code)
			body := decode(t, rec)
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestNew_InvalidServiceURL(t *testing.T) {
	_, err := New(config.GatewayConfig{Services: map[string]string{"auth": "localhost:8081"}}, testutil.NewLogger())
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	auth := upstream(t, "auth", nil)
	doctors := upstream(t, "doctor", nil)

	t.Run("all configured services up", func(t *testing.T) {
		g := newGateway(t, map[string]string{"auth": auth.URL, "doctor": doctors.URL})

		rec := httptest.NewRecorder()
		g.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		report := g.Probe(t.Context())
		assert.Equal(t, "ok", report.Status)
		assert.Equal(t, StatusUp, report.Services["auth"])
		assert.Equal(t, StatusUp, report.Services["doctor"])
		assert.Equal(t, StatusUnconfigured, report.Services["payment"])
	})

	t.Run("one service down", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		deadURL := dead.URL
		dead.Close()

		g := newGateway(t, map[string]string{"auth": auth.URL, "payment": deadURL})

		rec := httptest.NewRecorder()
		g.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		report := g.Probe(t.Context())
		assert.Equal(t, "degraded", report.Status)
		assert.Equal(t, StatusDown, report.Services["payment"])
	})
}
