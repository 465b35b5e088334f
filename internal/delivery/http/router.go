package http

import (
	"net/http"

	"hospital-management/config"
	"hospital-management/internal/delivery/http/handler"
	"hospital-management/internal/delivery/http/middleware"
	"hospital-management/internal/domain/entity"
	"hospital-management/pkg/response"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Handlers groups every HTTP handler. A process only mounts the groups of the
// services it runs, so handlers of other services may be nil.
type Handlers struct {
	Auth           *handler.AuthHandler
	Department     *handler.DepartmentHandler
	Doctor         *handler.DoctorHandler
	DoctorSchedule *handler.DoctorScheduleHandler
	Review         *handler.ReviewHandler
	Patient        *handler.PatientHandler
	MedicalRecord  *handler.MedicalRecordHandler
	Appointment    *handler.AppointmentHandler
	Receptionist   *handler.ReceptionistHandler
	Notification   *handler.NotificationHandler
	Payment        *handler.PaymentHandler
	Report         *handler.ReportHandler
	AuditLog       *handler.AuditLogHandler
}

type Router struct {
	router         *mux.Router
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
	log            *logrus.Logger
	services       []string
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	log *logrus.Logger,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		handlers:       handlers,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
		log:            log,
	}
}

// ResolveServices expands "all" and drops unknown names.
func ResolveServices(names []string) []string {
	if lo.Contains(names, "all") {
		return config.ServiceNames
	}
	return lo.Uniq(lo.Filter(names, func(name string, _ int) bool {
		return lo.Contains(config.ServiceNames, name)
	}))
}

// Setup mounts the routes of the given services under /api and wraps the
// router with the shared middleware stack.
func (r *Router) Setup(services []string) http.Handler {
	r.services = ResolveServices(services)
	api := r.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	register := map[string]func(*mux.Router){
		"auth":         r.authRoutes,
		"department":   r.departmentRoutes,
		"doctor":       r.doctorRoutes,
		"patient":      r.patientRoutes,
		"appointment":  r.appointmentRoutes,
		"receptionist": r.receptionistRoutes,
		"notification": r.notificationRoutes,
		"payment":      r.paymentRoutes,
		"admin":        r.adminRoutes,
	}
	for _, name := range r.services {
		register[name](api)
	}

	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	var h http.Handler = r.router
	h = r.corsMiddleware.Handle(h)
	h = middleware.Recover(r.log)(h)
	h = middleware.AccessLog(r.log)(h)
	h = middleware.RequestID(h)
	return h
}

// protect requires a valid access token, then applies guards in order.
func (r *Router) protect(h http.HandlerFunc, guards ...func(http.Handler) http.Handler) http.Handler {
	var next http.Handler = h
	for i := len(guards) - 1; i >= 0; i-- {
		next = guards[i](next)
	}
	return r.authMiddleware.Authenticate(next)
}

func (r *Router) authRoutes(api *mux.Router) {
	h := r.handlers.Auth
	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh-token", h.RefreshToken).Methods(http.MethodPost)
	api.Handle("/auth/logout", r.protect(h.Logout)).Methods(http.MethodPost)
	api.Handle("/auth/me", r.protect(h.GetCurrentUser)).Methods(http.MethodGet)
	api.Handle("/auth/password", r.protect(h.ChangePassword)).Methods(http.MethodPut)
}

func (r *Router) departmentRoutes(api *mux.Router) {
	h := r.handlers.Department

	api.HandleFunc("/departments", h.ListDepartments).Methods(http.MethodGet)
	api.Handle("/departments", r.protect(h.CreateDepartment, middleware.RequireAdmin)).Methods(http.MethodPost)
	api.HandleFunc("/departments/{id}", h.GetDepartment).Methods(http.MethodGet)
	api.Handle("/departments/{id}", r.protect(h.UpdateDepartment, middleware.RequireAdmin)).Methods(http.MethodPut)
	api.Handle("/departments/{id}", r.protect(h.DeleteDepartment, middleware.RequireAdmin)).Methods(http.MethodDelete)

	api.HandleFunc("/specialties", h.ListSpecialties).Methods(http.MethodGet)
	api.Handle("/specialties", r.protect(h.CreateSpecialty, middleware.RequireAdmin)).Methods(http.MethodPost)
	api.Handle("/specialties/{id}", r.protect(h.UpdateSpecialty, middleware.RequireAdmin)).Methods(http.MethodPut)
	api.Handle("/specialties/{id}", r.protect(h.DeleteSpecialty, middleware.RequireAdmin)).Methods(http.MethodDelete)

	api.Handle("/rooms", r.protect(h.ListRooms, middleware.RequireStaff)).Methods(http.MethodGet)
	api.Handle("/rooms", r.protect(h.CreateRoom, middleware.RequireAdmin)).Methods(http.MethodPost)
	api.Handle("/rooms/{id}", r.protect(h.GetRoom, middleware.RequireStaff)).Methods(http.MethodGet)
	api.Handle("/rooms/{id}", r.protect(h.UpdateRoom, middleware.RequireAdmin)).Methods(http.MethodPut)
	api.Handle("/rooms/{id}", r.protect(h.DeleteRoom, middleware.RequireAdmin)).Methods(http.MethodDelete)
	api.Handle("/rooms/{id}/status", r.protect(h.UpdateRoomStatus, middleware.RequireFrontDesk)).Methods(http.MethodPatch)
}

func (r *Router) doctorRoutes(api *mux.Router) {
	h := r.handlers.Doctor
	schedules := r.handlers.DoctorSchedule
	reviews := r.handlers.Review
	adminOrDoctor := middleware.RequireRole(entity.RoleIDAdmin, entity.RoleIDDoctor)

	api.HandleFunc("/doctors", h.ListDoctors).Methods(http.MethodGet)
	api.Handle("/doctors", r.protect(h.CreateDoctor, middleware.RequireAdmin)).Methods(http.MethodPost)

	// Registered before /doctors/{id} so "me" is not taken for an ID.
	api.Handle("/doctors/me", r.protect(h.GetMyProfile, middleware.RequireDoctor)).Methods(http.MethodGet)
	api.Handle("/doctors/me", r.protect(h.UpdateMyProfile, middleware.RequireDoctor)).Methods(http.MethodPut)

	api.HandleFunc("/doctors/{id}", h.GetDoctor).Methods(http.MethodGet)
	api.Handle("/doctors/{id}", r.protect(h.UpdateDoctor, middleware.RequireAdmin)).Methods(http.MethodPut)
	api.Handle("/doctors/{id}", r.protect(h.DeleteDoctor, middleware.RequireAdmin)).Methods(http.MethodDelete)

	api.HandleFunc("/doctors/{id}/schedules", schedules.ListSchedules).Methods(http.MethodGet)
	api.Handle("/doctors/{id}/schedules", r.protect(schedules.CreateSchedule, adminOrDoctor)).Methods(http.MethodPost)
	api.Handle("/doctors/{id}/schedules/{scheduleId}", r.protect(schedules.DeleteSchedule, adminOrDoctor)).Methods(http.MethodDelete)
	api.HandleFunc("/doctors/{id}/availability", schedules.GetAvailability).Methods(http.MethodGet)

	api.HandleFunc("/doctors/{id}/reviews", reviews.ListDoctorReviews).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/rating", reviews.GetDoctorRating).Methods(http.MethodGet)
	api.Handle("/reviews", r.protect(reviews.CreateReview, middleware.RequirePatient)).Methods(http.MethodPost)
	api.Handle("/reviews/{id}", r.protect(reviews.DeleteReview, middleware.RequireAdmin)).Methods(http.MethodDelete)
}

func (r *Router) patientRoutes(api *mux.Router) {
	h := r.handlers.Patient
	records := r.handlers.MedicalRecord

	api.Handle("/patients", r.protect(h.ListPatients, middleware.RequireStaff)).Methods(http.MethodGet)
	api.Handle("/patients", r.protect(h.CreatePatient, middleware.RequireFrontDesk)).Methods(http.MethodPost)

	api.Handle("/patients/me", r.protect(h.GetMyProfile, middleware.RequirePatient)).Methods(http.MethodGet)
	api.Handle("/patients/me", r.protect(h.UpdateMyProfile, middleware.RequirePatient)).Methods(http.MethodPut)

	api.Handle("/patients/{id}", r.protect(h.GetPatient, middleware.RequireStaff)).Methods(http.MethodGet)
	api.Handle("/patients/{id}", r.protect(h.UpdatePatient, middleware.RequireStaff)).Methods(http.MethodPut)
	api.Handle("/patients/{id}", r.protect(h.DeletePatient, middleware.RequireAdmin)).Methods(http.MethodDelete)

	// Owning patients may read their own records; the usecase scopes access.
	api.Handle("/patients/{id}/medical-records", r.protect(records.ListPatientRecords)).Methods(http.MethodGet)
	api.Handle("/medical-records", r.protect(records.CreateRecord, middleware.RequireDoctor)).Methods(http.MethodPost)
	api.Handle("/medical-records/{id}", r.protect(records.GetRecord)).Methods(http.MethodGet)
	api.Handle("/medical-records/{id}", r.protect(records.UpdateRecord, middleware.RequireDoctor)).Methods(http.MethodPut)
	api.Handle("/medical-records/{id}/attachments", r.protect(records.UploadAttachment, middleware.RequireStaff)).Methods(http.MethodPost)
	api.Handle("/medical-records/{id}/attachments", r.protect(records.ListAttachments)).Methods(http.MethodGet)
}

func (r *Router) appointmentRoutes(api *mux.Router) {
	h := r.handlers.Appointment
	bookers := middleware.RequireRole(entity.RoleIDPatient, entity.RoleIDAdmin, entity.RoleIDReceptionist)

	api.Handle("/appointments", r.protect(h.CreateAppointment, bookers)).Methods(http.MethodPost)
	api.Handle("/appointments", r.protect(h.ListAppointments)).Methods(http.MethodGet)
	api.Handle("/appointments/{id}", r.protect(h.GetAppointment)).Methods(http.MethodGet)
	api.Handle("/appointments/{id}/status", r.protect(h.UpdateStatus, middleware.RequireStaff)).Methods(http.MethodPatch)
	api.Handle("/appointments/{id}/reschedule", r.protect(h.Reschedule)).Methods(http.MethodPut)
	api.Handle("/appointments/{id}/cancel", r.protect(h.Cancel)).Methods(http.MethodPost)
}

func (r *Router) receptionistRoutes(api *mux.Router) {
	h := r.handlers.Receptionist

	api.Handle("/receptionists", r.protect(h.CreateReceptionist, middleware.RequireAdmin)).Methods(http.MethodPost)
	api.Handle("/receptionists", r.protect(h.ListReceptionists, middleware.RequireAdmin)).Methods(http.MethodGet)

	api.Handle("/receptionist/dashboard", r.protect(h.Dashboard, middleware.RequireFrontDesk)).Methods(http.MethodGet)
	api.Handle("/receptionist/queue", r.protect(h.Queue, middleware.RequireStaff)).Methods(http.MethodGet)
	api.Handle("/receptionist/check-in/{appointmentId}", r.protect(h.CheckIn, middleware.RequireFrontDesk)).Methods(http.MethodPost)
	api.Handle("/receptionist/walk-in", r.protect(h.WalkIn, middleware.RequireFrontDesk)).Methods(http.MethodPost)
}

func (r *Router) notificationRoutes(api *mux.Router) {
	h := r.handlers.Notification

	api.Handle("/notifications", r.protect(h.ListNotifications)).Methods(http.MethodGet)
	api.Handle("/notifications", r.protect(h.CreateNotification, middleware.RequireAdmin)).Methods(http.MethodPost)
	api.Handle("/notifications/unread-count", r.protect(h.UnreadCount)).Methods(http.MethodGet)
	api.Handle("/notifications/read-all", r.protect(h.MarkAllRead)).Methods(http.MethodPatch)
	api.Handle("/notifications/{id}/read", r.protect(h.MarkRead)).Methods(http.MethodPatch)
}

func (r *Router) paymentRoutes(api *mux.Router) {
	h := r.handlers.Payment

	api.Handle("/payments", r.protect(h.CreatePayment, middleware.RequireFrontDesk)).Methods(http.MethodPost)
	api.Handle("/payments", r.protect(h.ListPayments, middleware.RequireFrontDesk)).Methods(http.MethodGet)
	api.Handle("/payments/summary", r.protect(h.Summary, middleware.RequireFrontDesk)).Methods(http.MethodGet)
	api.Handle("/payments/{id}", r.protect(h.GetPayment, middleware.RequireFrontDesk)).Methods(http.MethodGet)
	api.Handle("/payments/{id}/status", r.protect(h.UpdateStatus, middleware.RequireFrontDesk)).Methods(http.MethodPatch)
}

func (r *Router) adminRoutes(api *mux.Router) {
	reports := r.handlers.Report
	auditLogs := r.handlers.AuditLog

	api.Handle("/reports/appointments/export", r.protect(reports.ExportAppointments, middleware.RequireAdmin)).Methods(http.MethodGet)
	api.Handle("/reports/payments/export", r.protect(reports.ExportPayments, middleware.RequireAdmin)).Methods(http.MethodGet)
	api.Handle("/audit-logs", r.protect(auditLogs.ListAuditLogs, middleware.RequireAdmin)).Methods(http.MethodGet)
	api.Handle("/audit-logs/{id}", r.protect(auditLogs.GetAuditLog, middleware.RequireAdmin)).Methods(http.MethodGet)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.Success(w, http.StatusOK, "ok", map[string]interface{}{
		"status":   "ok",
		"services": r.services,
	})
}
