package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"hospital-management/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
}

func NewReportHandler(reportUsecase usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
	}
}

func (h *ReportHandler) ExportAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	buf, err := h.reportUsecase.ExportAppointments(r.Context(), q.Get("date_from"), q.Get("date_to"))
	if err != nil {
		writeError(w, err, "Failed to export appointments")
		return
	}
	writeWorkbook(w, "appointments", q.Get("date_from"), q.Get("date_to"), buf)
}

func (h *ReportHandler) ExportPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	buf, err := h.reportUsecase.ExportPayments(r.Context(), q.Get("date_from"), q.Get("date_to"))
	if err != nil {
		writeError(w, err, "Failed to export payments")
		return
	}
	writeWorkbook(w, "payments", q.Get("date_from"), q.Get("date_to"), buf)
}

func writeWorkbook(w http.ResponseWriter, name, from, to string, buf *bytes.Buffer) {
	filename := name
	if from != "" || to != "" {
		filename = fmt.Sprintf("%s_%s_%s", name, orAll(from), orAll(to))
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".xlsx"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func orAll(date string) string {
	if date == "" {
		return "all"
	}
	return date
}
