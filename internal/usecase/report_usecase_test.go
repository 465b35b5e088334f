package usecase

import (
	"bytes"
	"context"
	"testing"
	"time"

	"hospital-management/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sheetRows(t *testing.T, buf *bytes.Buffer, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestExportAppointments(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()

	h.fx.Appointment("CARD-APT-202506-901", c.patient, c.doctor, clinicMonday, "09:00", entity.AppointmentStatusCompleted)
	h.fx.Appointment("CARD-APT-202506-902", c.patient, c.doctor, clinicMonday, "09:30", entity.AppointmentStatusScheduled)
	h.fx.Appointment("CARD-APT-202506-903", c.patient, c.doctor, clinicMonday.AddDate(0, 0, 7), "09:00", entity.AppointmentStatusScheduled)

	buf, err := h.reports.ExportAppointments(ctx, "2025-06-30", "2025-06-30")
	require.NoError(t, err)

	rows := sheetRows(t, buf, "Appointments")
	require.Len(t, rows, 3)
	assert.Equal(t, "Appointment ID", rows[0][0])
	assert.Equal(t, "CARD-APT-202506-901", rows[1][0])
	assert.Equal(t, "Dr. Heart", rows[1][6])
	assert.Equal(t, "Cardiology", rows[1][7])

	_, err = h.reports.ExportAppointments(ctx, "2025-07-31", "2025-07-01")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = h.reports.ExportAppointments(ctx, "June 30", "")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestExportPayments(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	c := h.seedClinic()
	ctx := context.Background()

	paid := h.fx.Appointment("CARD-APT-202506-901", c.patient, c.doctor, clinicMonday, "09:00", entity.AppointmentStatusCompleted)
	pending := h.fx.Appointment("CARD-APT-202506-902", c.patient, c.doctor, clinicMonday, "09:30", entity.AppointmentStatusCompleted)
	h.fx.Payment("PAY-202506-901", paid, 150000, entity.PaymentMethodCash, entity.PaymentStatusPaid)
	h.fx.Payment("PAY-202506-902", pending, 90000, entity.PaymentMethodCard, entity.PaymentStatusPending)

	// Open bounds export everything.
	buf, err := h.reports.ExportPayments(ctx, "", "")
	require.NoError(t, err)

	rows := sheetRows(t, buf, "Payments")
	require.Len(t, rows, 3)
	ids := []string{rows[1][0], rows[2][0]}
	assert.ElementsMatch(t, []string{"PAY-202506-901", "PAY-202506-902"}, ids)

	empty, err := h.reports.ExportPayments(ctx, "2001-01-01", "2001-01-31")
	require.NoError(t, err)
	assert.Len(t, sheetRows(t, empty, "Payments"), 1)
}
