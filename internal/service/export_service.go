package service

import (
	"bytes"
	"fmt"

	"hospital-management/internal/domain/entity"

	"github.com/xuri/excelize/v2"
)

// ExportService renders report rows into xlsx workbooks.
type ExportService interface {
	Appointments(appointments []entity.Appointment) (*bytes.Buffer, error)
	Payments(payments []entity.Payment) (*bytes.Buffer, error)
}

type exportService struct{}

func NewExportService() ExportService {
	return &exportService{}
}

var (
	appointmentExportHeader = []string{"Appointment ID", "Date", "Time", "Patient ID", "Patient", "Doctor ID", "Doctor", "Department", "Type", "Status", "Queue"}
	paymentExportHeader     = []string{"Payment ID", "Created", "Appointment ID", "Patient ID", "Patient", "Amount", "Method", "Status", "Paid At", "Reference"}
)

func (s *exportService) Appointments(appointments []entity.Appointment) (*bytes.Buffer, error) {
	rows := make([][]interface{}, 0, len(appointments))
	for _, a := range appointments {
		queue := ""
		if a.QueueNumber != nil {
			queue = fmt.Sprintf("%d", *a.QueueNumber)
		}
		rows = append(rows, []interface{}{
			a.ID,
			a.AppointmentDate.Format("2006-01-02"),
			a.AppointmentTime,
			a.PatientID,
			a.Patient.FullName,
			a.DoctorID,
			a.Doctor.User.FullName,
			a.Department.Name,
			a.Type,
			string(a.Status),
			queue,
		})
	}
	return writeWorkbook("Appointments", appointmentExportHeader, rows)
}

func (s *exportService) Payments(payments []entity.Payment) (*bytes.Buffer, error) {
	rows := make([][]interface{}, 0, len(payments))
	for _, p := range payments {
		paidAt := ""
		if p.PaidAt != nil {
			paidAt = p.PaidAt.Format("2006-01-02 15:04")
		}
		amount, _ := p.Amount.Float64()
		rows = append(rows, []interface{}{
			p.ID,
			p.CreatedAt.Format("2006-01-02 15:04"),
			p.AppointmentID,
			p.PatientID,
			p.Patient.FullName,
			amount,
			p.Method,
			string(p.Status),
			paidAt,
			p.TransactionRef,
		})
	}
	return writeWorkbook("Payments", paymentExportHeader, rows)
}

func writeWorkbook(sheetName string, headers []string, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(sheetName, name, name, 18); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
