package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hospital-management/config"
	"hospital-management/internal/delivery/http/handler"
	"hospital-management/internal/delivery/http/middleware"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/repository"
	"hospital-management/internal/service"
	"hospital-management/internal/testutil"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/idgen"
	"hospital-management/pkg/jwt"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type server struct {
	t       *testing.T
	handler http.Handler
	fx      *testutil.Fixtures
	jwt     *jwt.JWTService
	tokens  *testutil.MemoryTokenStore
}

func newServer(t *testing.T, services ...string) *server {
	t.Helper()
	if len(services) == 0 {
		services = []string{"all"}
	}

	db := testutil.NewTestDB(t)
	log := testutil.NewLogger()
	tokens := testutil.NewMemoryTokenStore()
	publisher := &testutil.RecordingPublisher{}
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
	v := validator.NewValidator()

	userRepo := repository.NewUserRepository()
	departmentRepo := repository.NewDepartmentRepository()
	specialtyRepo := repository.NewSpecialtyRepository()
	roomRepo := repository.NewRoomRepository()
	doctorRepo := repository.NewDoctorRepository()
	scheduleRepo := repository.NewDoctorScheduleRepository()
	patientRepo := repository.NewPatientRepository()
	receptionistRepo := repository.NewReceptionistRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	paymentRepo := repository.NewPaymentRepository()
	recordRepo := repository.NewMedicalRecordRepository()
	reviewRepo := repository.NewReviewRepository()
	notificationRepo := repository.NewNotificationRepository()
	auditRepo := repository.NewAuditLogRepository()
	sequenceRepo := repository.NewSequenceRepository()
	auditService := service.NewAuditService(log, auditRepo)

	doctorUsecase := usecase.NewDoctorUsecase(db, log, userRepo, doctorRepo, scheduleRepo, departmentRepo, specialtyRepo, appointmentRepo, sequenceRepo, auditService, tokens)
	handlers := Handlers{
		Auth:           handler.NewAuthHandler(usecase.NewAuthUsecase(db, log, userRepo, patientRepo, doctorRepo, receptionistRepo, sequenceRepo, auditService, jwtService, tokens), v),
		Department:     handler.NewDepartmentHandler(usecase.NewDepartmentUsecase(db, log, departmentRepo, specialtyRepo, roomRepo, auditService, nil), v),
		Doctor:         handler.NewDoctorHandler(doctorUsecase, v),
		DoctorSchedule: handler.NewDoctorScheduleHandler(doctorUsecase, v),
		Review:         handler.NewReviewHandler(usecase.NewReviewUsecase(db, log, reviewRepo, appointmentRepo, patientRepo, doctorRepo, auditService), v),
		Patient:        handler.NewPatientHandler(usecase.NewPatientUsecase(db, log, patientRepo, userRepo, appointmentRepo, sequenceRepo, auditService), v),
		MedicalRecord:  handler.NewMedicalRecordHandler(usecase.NewMedicalRecordUsecase(db, log, recordRepo, patientRepo, doctorRepo, appointmentRepo, sequenceRepo, auditService, testutil.NewMemoryStorage()), v),
		Appointment:    handler.NewAppointmentHandler(usecase.NewAppointmentUsecase(db, log, appointmentRepo, patientRepo, doctorRepo, scheduleRepo, roomRepo, sequenceRepo, auditService, publisher), v),
		Receptionist:   handler.NewReceptionistHandler(usecase.NewReceptionistUsecase(db, log, userRepo, receptionistRepo, departmentRepo, patientRepo, doctorRepo, appointmentRepo, scheduleRepo, paymentRepo, sequenceRepo, auditService, publisher), v),
		Notification:   handler.NewNotificationHandler(usecase.NewNotificationUsecase(db, log, notificationRepo, userRepo, publisher), v),
		Payment:        handler.NewPaymentHandler(usecase.NewPaymentUsecase(db, log, paymentRepo, appointmentRepo, sequenceRepo, auditService, publisher), v),
		Report:         handler.NewReportHandler(usecase.NewReportUsecase(db, log, appointmentRepo, paymentRepo, service.NewExportService())),
		AuditLog:       handler.NewAuditLogHandler(usecase.NewAuditLogUsecase(db, log, auditRepo)),
	}

	router := NewRouter(handlers, middleware.NewAuthMiddleware(jwtService, tokens, log), middleware.NewCORSMiddleware(nil), log)

	return &server{
		t:       t,
		handler: router.Setup(services),
		fx:      testutil.NewFixtures(t, db),
		jwt:     jwtService,
		tokens:  tokens,
	}
}

// login issues and registers an access token for user, skipping the login endpoint.
func (s *server) login(user *entity.User) string {
	s.t.Helper()
	token, tokenID, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.RoleID)
	require.NoError(s.t, err)
	require.NoError(s.t, s.tokens.Store(context.Background(), user.ID, jwt.AccessToken, tokenID, time.Hour))
	return token
}

func (s *server) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var envelope response.Response
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func data(t *testing.T, envelope response.Response) map[string]interface{} {
	t.Helper()
	m, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", envelope.Data)
	return m
}

// clinic has a cardiologist seeing patients every morning, so tomorrow at
// 09:00 is always a bookable slot.
type clinic struct {
	doctor       *entity.Doctor
	patient      *entity.Patient
	other        *entity.Patient
	receptionist *entity.User
	patientUser  *entity.User
}

func (s *server) seedClinic() *clinic {
	dept := s.fx.Department("CARD", "Cardiology")
	doctor := s.fx.Doctor("CARD-DOC-202506-901", dept, "Dr. Heart")
	for day := time.Sunday; day <= time.Saturday; day++ {
		s.fx.Schedule(doctor.ID, day, "09:00", "12:00")
	}
	patientUser := s.fx.User(entity.RoleIDPatient, "ana@example.com", "x")

	return &clinic{
		doctor:       doctor,
		patient:      s.fx.Patient("PAT-202506-901", "Ana", &patientUser.ID),
		other:        s.fx.Patient("PAT-202506-902", "Budi", nil),
		receptionist: s.fx.User(entity.RoleIDReceptionist, "desk@hospital.test", "x"),
		patientUser:  patientUser,
	}
}

func tomorrow() string {
	return time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
}

func TestHealth(t *testing.T) {
	s := newServer(t, "doctor", "appointment", "nope")

	rec, envelope := s.do(http.MethodGet, "/api/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"doctor", "appointment"}, data(t, envelope)["services"])
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestSetup_MountsOnlySelectedServices(t *testing.T) {
	s := newServer(t, "doctor")
	admin := s.fx.User(entity.RoleIDAdmin, "admin@hospital.test", "x")

	rec, _ := s.do(http.MethodGet, "/api/doctors", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, envelope := s.do(http.MethodGet, "/api/patients", s.login(admin), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", envelope.Message)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newServer(t)

	rec, envelope := s.do(http.MethodPatch, "/api/departments", "", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.False(t, envelope.Success)
}

func TestRoleGuards(t *testing.T) {
	s := newServer(t)
	c := s.seedClinic()

	tests := []struct {
		name  string
		token string
		code  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"malformed header", "not-a-jwt", http.StatusUnauthorized},
		{"patient", s.login(c.patientUser), http.StatusForbidden},
		{"receptionist", s.login(c.receptionist), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := s.do(http.MethodGet, "/api/patients", tt.token, nil)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestRevokedToken(t *testing.T) {
	s := newServer(t)
	user := s.fx.User(entity.RoleIDAdmin, "admin@hospital.test", "x")
	token := s.login(user)

	rec, _ := s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, s.tokens.RevokeAll(context.Background(), user.ID))

	rec, envelope := s.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token has been revoked", envelope.Message)
}

func TestLoginThenMe(t *testing.T) {
	s := newServer(t, "auth")
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123!"), bcrypt.MinCost)
	require.NoError(t, err)
	s.fx.User(entity.RoleIDAdmin, "admin@hospital.test", string(hash))

	rec, envelope := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "admin@hospital.test",
		"password": "Secret123!",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := data(t, envelope)["token"].(map[string]interface{})["access_token"].(string)

	rec, envelope = s.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@hospital.test", data(t, envelope)["email"])

	rec, envelope = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "admin@hospital.test",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", envelope.Message)
}

func TestCreatePatient(t *testing.T) {
	s := newServer(t)
	c := s.seedClinic()

	rec, envelope := s.do(http.MethodPost, "/api/patients", s.login(c.receptionist), map[string]string{
		"full_name":     "Citra Lestari",
		"date_of_birth": "1988-04-12",
		"gender":        "F",
		"phone":         "081234567890",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	patientID, _ := data(t, envelope)["patient_id"].(string)
	assert.True(t, idgen.IsPatientID(patientID), patientID)
}

func TestCreatePatient_ValidationError(t *testing.T) {
	s := newServer(t)
	c := s.seedClinic()

	rec, envelope := s.do(http.MethodPost, "/api/patients", s.login(c.receptionist), map[string]string{
		"full_name":     "Citra Lestari",
		"date_of_birth": "12/04/1988",
		"gender":        "X",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", envelope.Message)
}

func TestGetDoctor_InvalidID(t *testing.T) {
	s := newServer(t)

	rec, envelope := s.do(http.MethodGet, "/api/doctors/doc-1", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid doctor ID", envelope.Message)
}

func TestAppointments_DoubleBookingAndTransitions(t *testing.T) {
	s := newServer(t)
	c := s.seedClinic()
	token := s.login(c.receptionist)

	book := func(patientID string) (*httptest.ResponseRecorder, response.Response) {
		return s.do(http.MethodPost, "/api/appointments", token, map[string]string{
			"patient_id":       patientID,
			"doctor_id":        c.doctor.ID,
			"appointment_date": tomorrow(),
			"appointment_time": "09:00",
		})
	}

	rec, envelope := book(c.patient.ID)
	require.Equal(t, http.StatusCreated, rec.Code)
	appointmentID := data(t, envelope)["id"].(string)
	assert.True(t, idgen.IsAppointmentID(appointmentID), appointmentID)

	t.Run("slot taken", func(t *testing.T) {
		rec, envelope := book(c.other.ID)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.False(t, envelope.Success)
	})

	t.Run("invalid transition", func(t *testing.T) {
		rec, _ := s.do(http.MethodPatch, "/api/appointments/"+appointmentID+"/status", token, map[string]string{
			"status": "completed",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("valid transition", func(t *testing.T) {
		rec, envelope := s.do(http.MethodPatch, "/api/appointments/"+appointmentID+"/status", token, map[string]string{
			"status": "confirmed",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "confirmed", data(t, envelope)["status"])
	})

	t.Run("patient sees own appointment", func(t *testing.T) {
		rec, _ := s.do(http.MethodGet, "/api/appointments/"+appointmentID, s.login(c.patientUser), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCORSPreflight(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/departments", nil)
	req.Header.Set("Origin", "http://frontend.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
