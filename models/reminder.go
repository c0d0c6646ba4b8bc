package models

// ReminderPayload is the asynq task body for a queued reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	UserID        string `json:"userId"`
}
