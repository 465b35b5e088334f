// Package testutil holds fixtures shared by the repository, usecase and
// handler tests.
package testutil

import (
	"fmt"
	"io"
	"testing"
	"time"

	"hospital-management/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every statement on the same in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=0", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// NewLogger returns a logger that discards output.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Fixtures inserts rows directly, bypassing usecases.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) create(value interface{}) {
	f.t.Helper()
	if err := f.db.Create(value).Error; err != nil {
		f.t.Fatalf("failed to create fixture %T: %v", value, err)
	}
}

// User creates an active user. The password hash is stored as given.
func (f *Fixtures) User(roleID int, email, passwordHash string) *entity.User {
	user := &entity.User{
		RoleID:   roleID,
		Email:    email,
		Password: passwordHash,
		FullName: "User " + email,
	}
	f.create(user)
	return user
}

func (f *Fixtures) Department(code, name string) *entity.Department {
	dept := &entity.Department{Code: code, Name: name}
	f.create(dept)
	return dept
}

// Doctor creates a doctor with its own user account.
func (f *Fixtures) Doctor(id string, dept *entity.Department, name string) *entity.Doctor {
	user := &entity.User{
		RoleID:   entity.RoleIDDoctor,
		Email:    fmt.Sprintf("%s@hospital.test", id),
		Password: "x",
		FullName: name,
	}
	f.create(user)

	doctor := &entity.Doctor{
		ID:              id,
		UserID:          user.ID,
		DepartmentID:    dept.ID,
		LicenseNumber:   "LIC-" + id,
		ConsultationFee: decimal.NewFromInt(150000),
		IsAvailable:     entity.BoolPtr(true),
	}
	f.create(doctor)
	doctor.User = *user
	doctor.Department = *dept
	return doctor
}

func (f *Fixtures) Schedule(doctorID string, day time.Weekday, start, end string) *entity.DoctorSchedule {
	schedule := &entity.DoctorSchedule{
		DoctorID:    doctorID,
		DayOfWeek:   int(day),
		StartTime:   start,
		EndTime:     end,
		SlotMinutes: entity.DefaultSlotMinutes,
	}
	f.create(schedule)
	return schedule
}

// Patient creates a patient, linked to userID when it is not nil.
func (f *Fixtures) Patient(id, name string, userID *uuid.UUID) *entity.Patient {
	patient := &entity.Patient{
		ID:          id,
		UserID:      userID,
		FullName:    name,
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:      entity.GenderFemale,
		Phone:       "0812345678",
	}
	f.create(patient)
	return patient
}

func (f *Fixtures) Appointment(id string, patient *entity.Patient, doctor *entity.Doctor, date time.Time, clock string, status entity.AppointmentStatus) *entity.Appointment {
	appointment := &entity.Appointment{
		ID:              id,
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		DepartmentID:    doctor.DepartmentID,
		AppointmentDate: entity.DateOnly(date),
		AppointmentTime: clock,
		Type:            entity.AppointmentTypeConsultation,
		Status:          status,
	}
	f.create(appointment)
	return appointment
}

func (f *Fixtures) Payment(id string, appointment *entity.Appointment, amount int64, method string, status entity.PaymentStatus) *entity.Payment {
	payment := &entity.Payment{
		ID:            id,
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		Amount:        decimal.NewFromInt(amount),
		Method:        method,
		Status:        status,
	}
	if status == entity.PaymentStatusPaid || status == entity.PaymentStatusRefunded {
		paidAt := time.Now().UTC()
		payment.PaidAt = &paidAt
	}
	f.create(payment)
	return payment
}
