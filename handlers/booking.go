package handlers

import (
	"errors"
	"net/http"

	"dencare/services/scheduling"
	"dencare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the slot listing and booking endpoints.
type BookingHandler struct {
	Engine scheduling.Engine
	Logger *zap.Logger
}

func NewBookingHandler(engine scheduling.Engine, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Engine: engine, Logger: logger}
}

// AvailableSlotsHandler returns the free start times for a date and service.
func (h *BookingHandler) AvailableSlotsHandler(c *gin.Context) {
	date := c.Query("date")
	serviceType := c.DefaultQuery("service", "checkup")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date is required")
		return
	}

	slots, err := h.Engine.AvailableSlots(c.Request.Context(), date, serviceType)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availableSlots": slots})
}

// BookAppointmentHandler commits a booking for the authenticated user.
func (h *BookingHandler) BookAppointmentHandler(c *gin.Context) {
	var req scheduling.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	// The identity layer, not the client, decides who is booking.
	req.UserID = c.GetString("userID")

	appt, err := h.Engine.Book(c.Request.Context(), req)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	h.Logger.Info("appointment booked",
		zap.String("appointmentId", appt.ID),
		zap.String("userId", appt.UserID),
		zap.String("date", appt.Date))
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Appointment booked successfully",
		"appointment": appt,
	})
}

// ListAppointmentsHandler returns the caller's upcoming appointments.
func (h *BookingHandler) ListAppointmentsHandler(c *gin.Context) {
	appts, err := h.Engine.ListUserAppointments(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// GetAppointmentHandler returns one appointment for its owner or an admin.
func (h *BookingHandler) GetAppointmentHandler(c *gin.Context) {
	appt, err := h.Engine.GetAppointment(c.Request.Context(), c.Param("id"), c.GetString("userID"), c.GetBool("isAdmin"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// UpdateAppointmentStatusHandler applies a staff status change.
func (h *BookingHandler) UpdateAppointmentStatusHandler(c *gin.Context) {
	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	appt, err := h.Engine.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// respondSchedulingError maps pipeline errors onto HTTP responses. The
// not-found and access-denied cases share one generic denial.
func respondSchedulingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrValidation):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
	case errors.Is(err, scheduling.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   scheduling.ErrSlotUnavailable.Error(),
		})
	case errors.Is(err, scheduling.ErrNotFound), errors.Is(err, scheduling.ErrAccessDenied):
		utils.JSONError(c, http.StatusNotFound, "record not found", "")
	default:
		utils.JSONError(c, http.StatusServiceUnavailable, "temporarily unavailable", "please retry")
	}
}
