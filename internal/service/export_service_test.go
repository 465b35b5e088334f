package service

import (
	"testing"
	"time"

	"hospital-management/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService_Appointments(t *testing.T) {
	queue := 3
	appointments := []entity.Appointment{{
		ID:              "CARD-APT-202506-001",
		PatientID:       "PAT-202506-001",
		DoctorID:        "CARD-DOC-202506-001",
		AppointmentDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "09:30",
		Type:            entity.AppointmentTypeConsultation,
		Status:          entity.AppointmentStatusCheckedIn,
		QueueNumber:     &queue,
		Patient:         entity.Patient{FullName: "Jane Roe"},
		Doctor:          entity.Doctor{User: entity.User{FullName: "Dr. Strange"}},
		Department:      entity.Department{Name: "Cardiology"},
	}}

	buf, err := NewExportService().Appointments(appointments)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Appointments"}, f.GetSheetList())
	header, err := f.GetCellValue("Appointments", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Appointment ID", header)

	rows, err := f.GetRows("Appointments")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"CARD-APT-202506-001", "2025-06-30", "09:30", "PAT-202506-001", "Jane Roe", "CARD-DOC-202506-001", "Dr. Strange", "Cardiology", "consultation", "checked_in", "3"}, rows[1])
}

func TestExportService_PaymentsEmpty(t *testing.T) {
	buf, err := NewExportService().Payments(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Payments")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, paymentExportHeader, rows[0])
}

func TestExportService_PaymentsAmount(t *testing.T) {
	payments := []entity.Payment{{
		ID:            "PAY-202506-001",
		AppointmentID: "CARD-APT-202506-001",
		PatientID:     "PAT-202506-001",
		Amount:        decimal.RequireFromString("150000.50"),
		Method:        entity.PaymentMethodCash,
		Status:        entity.PaymentStatusPaid,
		CreatedAt:     time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC),
	}}

	buf, err := NewExportService().Payments(payments)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	amount, err := f.GetCellValue("Payments", "F2")
	require.NoError(t, err)
	assert.Equal(t, "150000.5", amount)
}
