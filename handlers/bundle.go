package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups every route handler for registration.
type HandlerBundle struct {
	// Booking endpoints.
	AvailableSlotsHandler   gin.HandlerFunc
	BookAppointmentHandler  gin.HandlerFunc
	ListAppointmentsHandler gin.HandlerFunc
	GetAppointmentHandler   gin.HandlerFunc

	// Staff endpoints.
	UpdateAppointmentStatusHandler gin.HandlerFunc

	// Notification endpoints.
	ListNotificationsHandler    gin.HandlerFunc
	MarkNotificationReadHandler gin.HandlerFunc

	// Realtime endpoint.
	WebsocketHandler gin.HandlerFunc
}
