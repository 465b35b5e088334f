package dto

import "time"

// Request DTOs

type CreateScheduleRequest struct {
	DayOfWeek   *int   `json:"day_of_week" validate:"required,min=0,max=6"` // 0 = Sunday
	StartTime   string `json:"start_time" validate:"required,clock"`
	EndTime     string `json:"end_time" validate:"required,clock"`
	SlotMinutes int    `json:"slot_minutes" validate:"omitempty,min=5,max=240"`
}

// Response DTOs

type ScheduleResponse struct {
	ID          int       `json:"id"`
	DoctorID    string    `json:"doctor_id"`
	DayOfWeek   int       `json:"day_of_week"`
	DayName     string    `json:"day_name"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	SlotMinutes int       `json:"slot_minutes"`
	CreatedAt   time.Time `json:"created_at"`
}

type SlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type AvailabilityResponse struct {
	DoctorID  string         `json:"doctor_id"`
	Date      string         `json:"date"`
	DayOfWeek int            `json:"day_of_week"`
	Slots     []SlotResponse `json:"slots"`
}
