package usecase

import (
	"testing"
	"time"

	"hospital-management/config"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/repository"
	"hospital-management/internal/service"
	"hospital-management/internal/testutil"
	"hospital-management/pkg/jwt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// clinicMonday is a Monday; most tests pin the clock to 08:00 of that day.
var clinicMonday = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	previous := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = previous })
}

type harness struct {
	db        *gorm.DB
	fx        *testutil.Fixtures
	publisher *testutil.RecordingPublisher
	storage   *testutil.MemoryStorage
	tokens    *testutil.MemoryTokenStore
	cache     *testutil.MemoryCache
	jwt       *jwt.JWTService

	auth          AuthUsecase
	departments   DepartmentUsecase
	doctors       DoctorUsecase
	patients      PatientUsecase
	appointments  AppointmentUsecase
	receptionists ReceptionistUsecase
	payments      PaymentUsecase
	records       MedicalRecordUsecase
	reviews       ReviewUsecase
	notifications NotificationUsecase
	reports       ReportUsecase
	auditLogs     AuditLogUsecase
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := testutil.NewLogger()

	h := &harness{
		db:        db,
		fx:        testutil.NewFixtures(t, db),
		publisher: &testutil.RecordingPublisher{},
		storage:   testutil.NewMemoryStorage(),
		tokens:    testutil.NewMemoryTokenStore(),
		cache:     testutil.NewMemoryCache(),
	}

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
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
	h.jwt = jwtService

	h.auth = NewAuthUsecase(db, log, userRepo, patientRepo, doctorRepo, receptionistRepo, sequenceRepo, auditService, jwtService, h.tokens)
	h.departments = NewDepartmentUsecase(db, log, departmentRepo, specialtyRepo, roomRepo, auditService, h.cache)
	h.doctors = NewDoctorUsecase(db, log, userRepo, doctorRepo, scheduleRepo, departmentRepo, specialtyRepo, appointmentRepo, sequenceRepo, auditService, h.tokens)
	h.patients = NewPatientUsecase(db, log, patientRepo, userRepo, appointmentRepo, sequenceRepo, auditService)
	h.appointments = NewAppointmentUsecase(db, log, appointmentRepo, patientRepo, doctorRepo, scheduleRepo, roomRepo, sequenceRepo, auditService, h.publisher)
	h.receptionists = NewReceptionistUsecase(db, log, userRepo, receptionistRepo, departmentRepo, patientRepo, doctorRepo, appointmentRepo, scheduleRepo, paymentRepo, sequenceRepo, auditService, h.publisher)
	h.payments = NewPaymentUsecase(db, log, paymentRepo, appointmentRepo, sequenceRepo, auditService, h.publisher)
	h.records = NewMedicalRecordUsecase(db, log, recordRepo, patientRepo, doctorRepo, appointmentRepo, sequenceRepo, auditService, h.storage)
	h.reviews = NewReviewUsecase(db, log, reviewRepo, appointmentRepo, patientRepo, doctorRepo, auditService)
	h.notifications = NewNotificationUsecase(db, log, notificationRepo, userRepo,
		service.NewDirectPublisher(service.NewNotificationWriter(db, log, notificationRepo)))
	h.reports = NewReportUsecase(db, log, appointmentRepo, paymentRepo, service.NewExportService())
	h.auditLogs = NewAuditLogUsecase(db, log, auditRepo)

	return h
}

func adminActor() Actor {
	return Actor{UserID: uuid.New(), RoleID: entity.RoleIDAdmin}
}

func receptionistActor() Actor {
	return Actor{UserID: uuid.New(), RoleID: entity.RoleIDReceptionist}
}

func doctorActor(doctor *entity.Doctor) Actor {
	return Actor{UserID: doctor.UserID, RoleID: entity.RoleIDDoctor}
}

// clinic is a cardiology department with one doctor seeing patients on
// Monday mornings and a patient who owns a portal account.
type clinic struct {
	dept        *entity.Department
	doctor      *entity.Doctor
	patient     *entity.Patient
	patientUser *entity.User
}

func (c *clinic) patientActor() Actor {
	return Actor{UserID: c.patientUser.ID, RoleID: entity.RoleIDPatient}
}

func (h *harness) seedClinic() *clinic {
	dept := h.fx.Department("CARD", "Cardiology")
	doctor := h.fx.Doctor("CARD-DOC-202506-901", dept, "Dr. Heart")
	h.fx.Schedule(doctor.ID, time.Monday, "09:00", "12:00")
	user := h.fx.User(entity.RoleIDPatient, "ana@example.com", "x")
	patient := h.fx.Patient("PAT-202506-901", "Ana", &user.ID)
	return &clinic{dept: dept, doctor: doctor, patient: patient, patientUser: user}
}
